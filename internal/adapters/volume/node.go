package volume

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tend/internal/core/ports"
)

// NodeID is the unique identifier for the volumes Graft node.
const NodeID graft.ID = "adapter.volumes"

func init() {
	graft.Register(graft.Node[ports.Volumes]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Volumes, error) {
			return New(), nil
		},
	})
}
