package ports

import "context"

// Volumes reports disk space.
//
//go:generate go run go.uber.org/mock/mockgen -source=volumes.go -destination=mocks/mock_volumes.go -package=mocks
type Volumes interface {
	// Free returns the bytes available on the volume holding path.
	Free(ctx context.Context, path string) (uint64, error)
}
