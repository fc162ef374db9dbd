package fs

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/reweave/reweave/internal/core/ports"
)

const (
	// ReaderNodeID is the unique identifier for the file reader Graft node.
	ReaderNodeID graft.ID = "adapter.file_reader"

	// LocatorFactoryNodeID is the unique identifier for the locator factory Graft node.
	LocatorFactoryNodeID graft.ID = "adapter.locator_factory"
)

func init() {
	graft.Register(graft.Node[ports.FileReader]{
		ID:        ReaderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.FileReader, error) {
			return NewReader(), nil
		},
	})

	graft.Register(graft.Node[ports.LocatorFactory]{
		ID:        LocatorFactoryNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.LocatorFactory, error) {
			return Factory, nil
		},
	})
}
