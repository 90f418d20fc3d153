// Package journal implements the maintenance journal on top of zap cores.
//
// Each sink is a zapcore.Core with a console encoder producing lines of the
// form "2006-01-02 15:04:05 [LEVEL] message". The main sink receives every
// entry; the error sink only ERROR entries; the optional remote streams receive
// every entry.
package journal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/zerr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TimeLayout is the timestamp layout of journal lines.
const TimeLayout = "2006-01-02 15:04:05"

// summaryLevel carries SUMMARY entries through zap. Entries are written
// straight to the cores, so the panic semantics zap.Logger attaches to this
// level never apply.
const summaryLevel = zapcore.DPanicLevel

func toZapLevel(l domain.Level) zapcore.Level {
	switch l {
	case domain.LevelWarning:
		return zapcore.WarnLevel
	case domain.LevelError:
		return zapcore.ErrorLevel
	case domain.LevelSummary:
		return summaryLevel
	default:
		return zapcore.InfoLevel
	}
}

func levelLabel(l zapcore.Level) string {
	switch l {
	case zapcore.WarnLevel:
		return domain.LevelWarning.String()
	case zapcore.ErrorLevel:
		return domain.LevelError.String()
	case summaryLevel:
		return domain.LevelSummary.String()
	default:
		return domain.LevelInfo.String()
	}
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString("[" + levelLabel(l) + "]")
}

func newEncoder() zapcore.Encoder {
	return zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		EncodeTime:       zapcore.TimeEncoderOfLayout(TimeLayout),
		EncodeLevel:      encodeLevel,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " ",
	})
}

var (
	allLevels  = zap.LevelEnablerFunc(func(zapcore.Level) bool { return true })
	errorLevel = zap.LevelEnablerFunc(func(l zapcore.Level) bool { return l == zapcore.ErrorLevel })
)

// Journal implements ports.Journal.
type Journal struct {
	mu      sync.Mutex
	main    zapcore.Core
	errs    zapcore.Core
	remotes []zapcore.Core
	now     func() time.Time
	closers []io.Closer
}

// Option configures a Journal.
type Option func(*Journal)

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) {
		j.now = now
	}
}

// WithRemote adds a sink receiving every entry. It may be given more than once. Its write failures are
// reported to the error sink.
func WithRemote(w io.Writer) Option {
	return func(j *Journal) {
		j.remotes = append(j.remotes, zapcore.NewCore(newEncoder(), zapcore.AddSync(w), allLevels))
	}
}

// New creates a Journal writing to the given sinks.
func New(main, errs io.Writer, opts ...Option) *Journal {
	j := &Journal{
		main: zapcore.NewCore(newEncoder(), zapcore.AddSync(main), allLevels),
		errs: zapcore.NewCore(newEncoder(), zapcore.AddSync(errs), errorLevel),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Open creates the log directory and opens both journal files for appending.
func Open(cfg domain.LogConfig, opts ...Option) (*Journal, error) {
	if err := os.MkdirAll(cfg.Dir, domain.DirPerm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrJournalOpenFailed.Error()), "dir", cfg.Dir)
	}

	main, err := openAppend(filepath.Join(cfg.Dir, cfg.MainFile))
	if err != nil {
		return nil, err
	}
	errs, err := openAppend(filepath.Join(cfg.Dir, cfg.ErrorFile))
	if err != nil {
		_ = main.Close()
		return nil, err
	}

	j := New(main, errs, opts...)
	j.closers = append(j.closers, main, errs)
	return j, nil
}

func openAppend(path string) (*os.File, error) {
	//nolint:gosec // path comes from the operator's configuration
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, domain.FilePerm)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrJournalOpenFailed.Error()), "path", path)
	}
	return f, nil
}

// Record appends an entry. It never fails: a sink that cannot be written is
// reported on another sink, and dropped when that fails too.
func (j *Journal) Record(level domain.Level, message string) {
	j.mu.Lock()
	defer j.mu.Unlock()

	ent := zapcore.Entry{Level: toZapLevel(level), Time: j.now(), Message: message}

	if err := j.main.Write(ent, nil); err != nil {
		j.reportTo(j.errs, "main", err)
	}
	if level == domain.LevelError {
		if err := j.errs.Write(ent, nil); err != nil {
			j.reportTo(j.main, "error", err)
		}
	}
	for _, remote := range j.remotes {
		if err := remote.Write(ent, nil); err != nil {
			j.reportTo(j.errs, "remote", err)
		}
	}
}

func (j *Journal) reportTo(core zapcore.Core, sink string, err error) {
	_ = core.Write(zapcore.Entry{
		Level:   zapcore.ErrorLevel,
		Time:    j.now(),
		Message: fmt.Sprintf("journal %s sink write failed: %v", sink, err),
	}, nil)
}

// Close flushes and closes every sink the journal owns.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	var first error
	for _, c := range j.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	j.closers = nil
	return first
}
