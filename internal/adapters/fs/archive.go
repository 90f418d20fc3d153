package fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/zerr"
)

// Archive writes a zstd-compressed copy of src to dst, creating dst's
// directory. A partially written dst is removed on failure.
func (f *Files) Archive(src, dst string) (size int64, err error) {
	in, err := os.Open(src) //nolint:gosec // path is chosen by the caller
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "src", src)
	}
	defer in.Close() //nolint:errcheck // read-only

	if err := os.MkdirAll(filepath.Dir(dst), domain.DirPerm); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "dst", dst)
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, domain.FilePerm) //nolint:gosec // see above
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "dst", dst)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = zerr.With(zerr.Wrap(cerr, domain.ErrArchiveFailed.Error()), "dst", dst)
		}
		if err != nil {
			_ = os.Remove(dst)
			size = 0
		}
	}()

	enc, err := zstd.NewWriter(out, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		return 0, zerr.Wrap(err, domain.ErrArchiveFailed.Error())
	}
	if _, err := io.Copy(enc, in); err != nil {
		_ = enc.Close()
		return 0, zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "src", src)
	}
	if err := enc.Close(); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "dst", dst)
	}

	info, err := out.Stat()
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrArchiveFailed.Error()), "dst", dst)
	}
	return info.Size(), nil
}
