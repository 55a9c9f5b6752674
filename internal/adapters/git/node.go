package git

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/depstrap/depstrap/internal/adapters/shell"
	"github.com/depstrap/depstrap/internal/core/ports"
)

// NodeID is the unique identifier for the syncer Graft node.
const NodeID graft.ID = "adapter.syncer"

func init() {
	graft.Register(graft.Node[ports.Syncer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{shell.NodeID},
		Run: func(ctx context.Context) (ports.Syncer, error) {
			executor, err := graft.Dep[ports.Executor](ctx)
			if err != nil {
				return nil, err
			}
			return NewSyncer(executor), nil
		},
	})
}
