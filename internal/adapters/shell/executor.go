// Package shell runs external maintenance commands.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"time"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// waitDelay bounds how long Execute waits for output pipes after the process
// was killed, since orphaned children may keep them open.
const waitDelay = 5 * time.Second

// Executor implements ports.CommandExecutor using os/exec.
type Executor struct {
	logger ports.Logger
	dryRun bool
}

// NewExecutor creates a new Executor.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

var (
	_ ports.CommandExecutor = (*Executor)(nil)
	_ ports.DryRunner       = (*Executor)(nil)
)

// DryRun returns a copy of the executor that reports the commands it would
// run and never starts them. Every dry-run command succeeds with empty output.
func (e *Executor) DryRun() ports.CommandExecutor {
	return &Executor{logger: e.logger, dryRun: true}
}

// Execute runs cmd to completion. Combined stdout and stderr are captured in
// the result and streamed to ports.OutputFrom(ctx).
func (e *Executor) Execute(ctx context.Context, cmd domain.Command) (domain.CommandResult, error) {
	out := ports.OutputFrom(ctx)

	if e.dryRun {
		e.logger.Info("dry run: " + cmd.String())
		_, _ = io.WriteString(out, "would run: "+cmd.String()+"\n")
		return domain.CommandResult{}, nil
	}

	//nolint:gosec // commands come from the built-in catalog or the operator's configuration
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.WaitDelay = waitDelay

	var buf bytes.Buffer
	w := &decodingWriter{dst: io.MultiWriter(&buf, out)}
	c.Stdout = w
	c.Stderr = w

	if err := c.Start(); err != nil {
		return domain.CommandResult{ExitCode: -1}, zerr.With(
			zerr.Wrap(err, domain.ErrCommandStartFailed.Error()), "command", cmd.String())
	}

	err := c.Wait()
	_ = w.Close()
	res := domain.CommandResult{ExitCode: c.ProcessState.ExitCode(), Output: buf.String()}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return res, zerr.With(zerr.Wrap(ctxErr, domain.ErrCommandFailed.Error()), "command", cmd.String())
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return res, zerr.With(zerr.Wrap(err, domain.ErrCommandFailed.Error()), "command", cmd.String())
	}

	return res, nil
}

// decodingWriter converts UTF-16LE console output, as written by tools such
// as sfc when redirected, into UTF-8. The encoding is detected once the first
// two bytes have arrived. A single decoder lives as long as the writer, so
// code units split across writes are joined. Close flushes what is buffered.
type decodingWriter struct {
	dst     io.Writer
	out     io.Writer
	decoder io.WriteCloser
	pending []byte
}

func (w *decodingWriter) Write(p []byte) (int, error) {
	if w.out == nil {
		w.pending = append(w.pending, p...)
		if len(w.pending) < 2 {
			return len(p), nil
		}
		w.decide()
		head := w.pending
		w.pending = nil
		if _, err := w.out.Write(head); err != nil {
			return 0, err
		}
		return len(p), nil
	}
	if _, err := w.out.Write(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (w *decodingWriter) decide() {
	if !looksUTF16LE(w.pending) {
		w.out = w.dst
		return
	}
	w.decoder = transform.NewWriter(w.dst, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder())
	w.out = w.decoder
}

// Close writes any undecided byte as is and flushes the decoder.
func (w *decodingWriter) Close() error {
	if w.out == nil {
		w.out = w.dst
		if len(w.pending) > 0 {
			if _, err := w.dst.Write(w.pending); err != nil {
				return err
			}
			w.pending = nil
		}
		return nil
	}
	if w.decoder != nil {
		return w.decoder.Close()
	}
	return nil
}

func looksUTF16LE(p []byte) bool {
	if len(p) >= 2 && p[0] == 0xFF && p[1] == 0xFE {
		return true
	}
	n := min(len(p), 64) &^ 1
	if n == 0 {
		return false
	}
	zeros := 0
	for i := 1; i < n; i += 2 {
		if p[i] == 0 {
			zeros++
		}
	}
	return zeros*2 >= n/2
}
