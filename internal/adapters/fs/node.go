package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/tend/internal/core/ports"
)

// NodeID is the unique identifier for the files Graft node.
const NodeID graft.ID = "adapter.files"

func init() {
	graft.Register(graft.Node[ports.Files]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Files, error) {
			return NewFiles(NewWalker()), nil
		},
	})
}
