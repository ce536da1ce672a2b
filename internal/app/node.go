package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/config"    //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/devserver" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/fs"        //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/adapters/watcher"   //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.SettingsNodeID,
			config.NodeID,
			fs.ResolverNodeID,
			fs.WriterNodeID,
			watcher.NodeID,
			devserver.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	settings, err := graft.Dep[*config.Settings](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	resolver, err := graft.Dep[ports.InputResolver](ctx)
	if err != nil {
		return nil, err
	}

	writer, err := graft.Dep[ports.OutputWriter](ctx)
	if err != nil {
		return nil, err
	}

	watch, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	server, err := graft.Dep[ports.DevServer](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	opts := Options{Mode: settings.Mode(), Addr: settings.Addr, Dir: "."}
	return New(opts, loader, resolver, writer, watch, server, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(app, log), nil
}
