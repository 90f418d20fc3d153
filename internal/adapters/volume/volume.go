// Package volume reports free disk space.
package volume

import (
	"context"

	"github.com/shirou/gopsutil/disk"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Volumes = (*Volumes)(nil)

// Volumes implements ports.Volumes with gopsutil.
type Volumes struct{}

// New creates a Volumes.
func New() *Volumes {
	return &Volumes{}
}

// Free returns the bytes available to the current user on path's volume.
func (v *Volumes) Free(ctx context.Context, path string) (uint64, error) {
	usage, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrVolumeQueryFailed.Error()), "path", path)
	}
	return usage.Free, nil
}
