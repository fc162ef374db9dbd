package app

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/reweave/reweave/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"github.com/reweave/reweave/internal/adapters/fs"         //nolint:depguard // Wired in app layer
	"github.com/reweave/reweave/internal/adapters/instrument" //nolint:depguard // Wired in app layer
	"github.com/reweave/reweave/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"github.com/reweave/reweave/internal/adapters/telemetry"  //nolint:depguard // Wired in app layer
	"github.com/reweave/reweave/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			fs.ReaderNodeID,
			fs.LocatorFactoryNodeID,
			instrument.NodeID,
			logger.NodeID,
			telemetry.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewComponents(a, log), nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[ports.SettingsLoader](ctx)
	if err != nil {
		return nil, err
	}

	reader, err := graft.Dep[ports.FileReader](ctx)
	if err != nil {
		return nil, err
	}

	newLocator, err := graft.Dep[ports.LocatorFactory](ctx)
	if err != nil {
		return nil, err
	}

	transformer, err := graft.Dep[ports.Transformer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	return New(settings, reader, newLocator, transformer, log, tracer), nil
}
