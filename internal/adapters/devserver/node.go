package devserver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the development server Graft node.
const NodeID graft.ID = "adapter.devserver"

func init() {
	graft.Register(graft.Node[ports.DevServer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.DevServer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log), nil
		},
	})
}
