package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	WalkerNodeID   graft.ID = "adapter.fs.walker"
	ResolverNodeID graft.ID = "adapter.fs.resolver"
	HasherNodeID   graft.ID = "adapter.fs.hasher"
	WriterNodeID   graft.ID = "adapter.fs.writer"
)

func init() {
	// Walker Node (Concrete implementation needed by Resolver)
	graft.Register(graft.Node[*Walker]{
		ID:        WalkerNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Walker, error) {
			return NewWalker(), nil
		},
	})

	// Hasher Node (Concrete implementation needed by Writer)
	graft.Register(graft.Node[*Hasher]{
		ID:        HasherNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Hasher, error) {
			return NewHasher(), nil
		},
	})

	// Resolver Node
	graft.Register(graft.Node[ports.InputResolver]{
		ID:        ResolverNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{WalkerNodeID},
		Run: func(ctx context.Context) (ports.InputResolver, error) {
			walker, err := graft.Dep[*Walker](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(".", walker), nil
		},
	})

	// Writer Node
	graft.Register(graft.Node[ports.OutputWriter]{
		ID:        WriterNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{HasherNodeID},
		Run: func(ctx context.Context) (ports.OutputWriter, error) {
			hasher, err := graft.Dep[*Hasher](ctx)
			if err != nil {
				return nil, err
			}
			return NewWriter(hasher), nil
		},
	})
}
