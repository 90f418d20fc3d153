package runner_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tend/internal/adapters/journal"
	"go.trai.ch/tend/internal/adapters/telemetry"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports"
	"go.trai.ch/tend/internal/core/ports/mocks"
	"go.trai.ch/tend/internal/engine/runner"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

func succeed(msg string) domain.Action {
	return domain.ActionFunc(func(context.Context) (domain.Outcome, error) {
		return domain.Outcome{Message: msg}, nil
	})
}

func fail(msg string) domain.Action {
	return domain.ActionFunc(func(context.Context) (domain.Outcome, error) {
		return domain.Outcome{}, errors.New(msg)
	})
}

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func newRunner(j ports.Journal) *runner.Runner {
	return runner.New(j, telemetry.NewNoOpTracer(), runner.WithClock(fixedClock()))
}

func TestRunner_Success(t *testing.T) {
	t.Parallel()

	j := journal.NewMemory()
	res := newRunner(j).Run(t.Context(), domain.Task{Name: "integrity-scan", Action: succeed("no integrity violations")})

	assert.Equal(t, "integrity-scan", res.Task)
	assert.Equal(t, domain.StatusSuccess, res.Status)
	assert.Equal(t, "no integrity violations", res.Message)
	assert.Equal(t, time.Second, res.Duration())
	assert.Equal(t, []string{
		"starting integrity-scan",
		"integrity-scan completed: no integrity violations",
	}, j.Messages(domain.LevelInfo))
	assert.Empty(t, j.Messages(domain.LevelError))
}

func TestRunner_FailureIsContained(t *testing.T) {
	t.Parallel()

	j := journal.NewMemory()
	res := newRunner(j).Run(t.Context(), domain.Task{Name: "disk-check", Action: fail("volume locked")})

	assert.Equal(t, domain.StatusFailure, res.Status)
	assert.Contains(t, res.Message, "volume locked")

	errs := j.Messages(domain.LevelError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "disk-check")
	assert.Contains(t, errs[0], "volume locked")
}

func TestRunner_FailureJournalsErrorFields(t *testing.T) {
	t.Parallel()

	j := journal.NewMemory()
	action := domain.ActionFunc(func(context.Context) (domain.Outcome, error) {
		err := zerr.Wrap(errors.New("exit status 2"), domain.ErrCommandFailed.Error())
		return domain.Outcome{}, zerr.With(err, "command", "sfc /scannow")
	})
	newRunner(j).Run(t.Context(), domain.Task{Name: "integrity-scan", Action: action})

	errs := j.Messages(domain.LevelError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "exit status 2")
	assert.Contains(t, errs[0], "command=sfc /scannow")
}

func TestRunner_PanicIsContained(t *testing.T) {
	t.Parallel()

	j := journal.NewMemory()
	action := domain.ActionFunc(func(context.Context) (domain.Outcome, error) {
		panic("nil adapter table")
	})

	res := newRunner(j).Run(t.Context(), domain.Task{Name: "driver-rescan", Action: action})

	assert.Equal(t, domain.StatusFailure, res.Status)
	assert.Contains(t, res.Message, domain.ErrTaskPanicked.Error())
	assert.Contains(t, res.Message, "nil adapter table")
	assert.Len(t, j.Messages(domain.LevelError), 1)
}

func TestRunner_RetryableRecovered(t *testing.T) {
	t.Parallel()

	calls := 0
	action := domain.ActionFunc(func(context.Context) (domain.Outcome, error) {
		calls++
		if calls == 1 {
			return domain.Outcome{}, errors.New("0x80240438")
		}
		return domain.Outcome{Message: "installed 2 updates"}, nil
	})

	j := journal.NewMemory()
	res := newRunner(j).Run(t.Context(), domain.Task{
		Name:     "update-install",
		Category: domain.Retryable,
		Action:   action,
		Recovery: succeed("service restarted"),
	})

	assert.Equal(t, domain.StatusRecoveredAfterRetry, res.Status)
	assert.Equal(t, "installed 2 updates", res.Message)
	assert.Equal(t, 2, calls)

	errs := j.Messages(domain.LevelError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "0x80240438")
	assert.Contains(t, j.Messages(domain.LevelInfo), "update-install recovered after retry: installed 2 updates")
}

func TestRunner_RetryableRecoveryFails(t *testing.T) {
	t.Parallel()

	calls := 0
	action := domain.ActionFunc(func(context.Context) (domain.Outcome, error) {
		calls++
		return domain.Outcome{}, errors.New("0x80240438")
	})

	j := journal.NewMemory()
	res := newRunner(j).Run(t.Context(), domain.Task{
		Name:     "update-install",
		Category: domain.Retryable,
		Action:   action,
		Recovery: fail("access denied"),
	})

	assert.Equal(t, domain.StatusFailure, res.Status)
	assert.Equal(t, 1, calls)
	assert.Len(t, j.Messages(domain.LevelError), 2, "action failure and recovery failure, no duplicate")
}

func TestRunner_GateFailureSkips(t *testing.T) {
	t.Parallel()

	cleanedUp := false
	export := func() error { return errors.New("access denied") }
	action := domain.ActionFunc(func(context.Context) (domain.Outcome, error) {
		if err := export(); err != nil {
			return domain.Outcome{}, domain.NewPrerequisiteError("export", err)
		}
		cleanedUp = true
		return domain.Outcome{}, nil
	})

	j := journal.NewMemory()
	res := newRunner(j).Run(t.Context(), domain.Task{
		Name:     "registry-backup",
		Category: domain.PrerequisiteGated,
		Action:   action,
	})

	assert.Equal(t, domain.StatusSkipped, res.Status)
	assert.Contains(t, res.Message, "export")
	assert.False(t, cleanedUp)

	errs := j.Messages(domain.LevelError)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "registry-backup skipped")
}

func TestRunner_PrerequisiteErrorOnIndependentTaskFails(t *testing.T) {
	t.Parallel()

	action := domain.ActionFunc(func(context.Context) (domain.Outcome, error) {
		return domain.Outcome{}, domain.NewPrerequisiteError("export", errors.New("denied"))
	})

	res := newRunner(journal.NewMemory()).Run(t.Context(), domain.Task{Name: "x", Action: action})

	assert.Equal(t, domain.StatusFailure, res.Status)
}

func TestRunner_CarriesNetworkReport(t *testing.T) {
	t.Parallel()

	report := &domain.NetworkReport{Changes: []domain.AdapterChange{{Name: "eth0", Changed: true}}}
	action := domain.ActionFunc(func(context.Context) (domain.Outcome, error) {
		return domain.Outcome{Message: "1 adapter changed", Network: report}, nil
	})

	res := newRunner(journal.NewMemory()).Run(t.Context(), domain.Task{Name: "network-reset", Action: action})

	assert.Same(t, report, res.Network)
}

func TestRunner_Span(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)

	tracer.EXPECT().
		Start(gomock.Any(), "disk-check", gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		})
	span.EXPECT().RecordError(gomock.Any())
	span.EXPECT().SetAttribute(ports.AttrStatus, domain.StatusFailure)
	span.EXPECT().SetAttribute(ports.AttrMessage, gomock.Any())
	span.EXPECT().Write([]byte("scanning\n")).Return(9, nil)
	span.EXPECT().End()

	action := domain.ActionFunc(func(ctx context.Context) (domain.Outcome, error) {
		_, _ = ports.OutputFrom(ctx).Write([]byte("scanning\n"))
		return domain.Outcome{}, errors.New("exit code 3")
	})

	res := runner.New(journal.NewMemory(), tracer).Run(t.Context(), domain.Task{Name: "disk-check", Action: action})
	assert.Equal(t, domain.StatusFailure, res.Status)
}
