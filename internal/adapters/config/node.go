package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// SettingsNodeID is the unique identifier for the environment settings Graft node.
	SettingsNodeID graft.ID = "adapter.config.settings"
	// NodeID is the unique identifier for the config loader Graft node.
	NodeID graft.ID = "adapter.config_loader"
)

func init() {
	graft.Register(graft.Node[*Settings]{
		ID:        SettingsNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Settings, error) {
			return LoadSettings()
		},
	})

	graft.Register(graft.Node[ports.ConfigLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{SettingsNodeID},
		Run: func(ctx context.Context) (ports.ConfigLoader, error) {
			settings, err := graft.Dep[*Settings](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(settings.Config), nil
		},
	})
}
