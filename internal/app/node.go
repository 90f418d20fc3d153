package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tend/internal/adapters/config" //nolint:depguard // Wired in app layer
	"go.trai.ch/tend/internal/adapters/fs"     //nolint:depguard // Wired in app layer
	"go.trai.ch/tend/internal/adapters/logger" //nolint:depguard // Wired in app layer
	"go.trai.ch/tend/internal/adapters/shell"  //nolint:depguard // Wired in app layer
	"go.trai.ch/tend/internal/adapters/volume" //nolint:depguard // Wired in app layer
	"go.trai.ch/tend/internal/core/ports"
)

// NodeID is the unique identifier for the main App Graft node.
const NodeID graft.ID = "app.main"

func init() {
	graft.Register(graft.Node[*App]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			shell.NodeID,
			logger.NodeID,
			fs.NodeID,
			volume.NodeID,
		},
		Run: runAppNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.CommandExecutor](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	files, err := graft.Dep[ports.Files](ctx)
	if err != nil {
		return nil, err
	}

	volumes, err := graft.Dep[ports.Volumes](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, executor, log, files, volumes), nil
}
