package instrument

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/reweave/reweave/internal/core/ports"
)

// NodeID is the unique identifier for the transformer Graft node.
const NodeID graft.ID = "adapter.transformer"

// defaultSupportModule is the module name the injected calls bind against.
const defaultSupportModule = "Reweave.Runtime"

func init() {
	graft.Register(graft.Node[ports.Transformer]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Transformer, error) {
			return NewWeaver(defaultSupportModule), nil
		},
	})
}
