package netdiff_test

import (
	"errors"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tend/internal/adapters/journal"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports/mocks"
	"go.trai.ch/tend/internal/engine/netdiff"
	"go.uber.org/mock/gomock"
)

func state(name string, status domain.AdapterStatus) domain.AdapterState {
	return domain.AdapterState{Name: name, Status: status, LinkSpeed: 1_000_000_000}
}

func TestDiff(t *testing.T) {
	t.Parallel()

	before := []domain.AdapterState{
		state("eth0", domain.AdapterUp),
		state("wifi", domain.AdapterUp),
		state("eth1", domain.AdapterDown),
	}
	after := []domain.AdapterState{
		state("eth1", domain.AdapterDown),
		state("eth0", domain.AdapterDisabled),
		state("vpn", domain.AdapterUp),
	}

	report := netdiff.Diff(before, after)

	require.Len(t, report.Changes, 3)
	assert.Equal(t, domain.AdapterChange{
		Name:    "eth0",
		Before:  before[0],
		After:   after[1],
		Changed: true,
	}, report.Changes[0])
	assert.Equal(t, "wifi", report.Changes[1].Name)
	assert.Equal(t, domain.AdapterUnknown, report.Changes[1].After.Status)
	assert.True(t, report.Changes[1].Changed)
	assert.False(t, report.Changes[2].Changed)
	assert.Equal(t, 2, report.ChangedCount())
}

func TestDiff_EmptyAfter(t *testing.T) {
	t.Parallel()

	report := netdiff.Diff([]domain.AdapterState{state("eth0", domain.AdapterUp)}, nil)

	require.Len(t, report.Changes, 1)
	assert.Equal(t, domain.AdapterUnknown, report.Changes[0].After.Status)
}

func TestReset_ListFails(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	adapters := mocks.NewMockNetworkAdapters(ctrl)
	adapters.EXPECT().List(gomock.Any()).Return(nil, errors.New("powershell not found"))

	_, err := netdiff.New(adapters, journal.NewMemory(), netdiff.Config{}).Reset(t.Context())

	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNoAdapters.Error())
}

func TestReset_NoAdapters(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	adapters := mocks.NewMockNetworkAdapters(ctrl)
	adapters.EXPECT().List(gomock.Any()).Return(nil, nil)

	_, err := netdiff.New(adapters, journal.NewMemory(), netdiff.Config{}).Reset(t.Context())

	require.ErrorIs(t, err, domain.ErrNoAdapters)
}

func TestReset_FullCycle(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		adapters := mocks.NewMockNetworkAdapters(ctrl)
		j := journal.NewMemory()

		before := []domain.AdapterState{state("eth0", domain.AdapterUp), state("eth1", domain.AdapterDown)}
		settling := []domain.AdapterState{state("eth0", domain.AdapterDown), state("eth1", domain.AdapterDown)}
		after := []domain.AdapterState{state("eth0", domain.AdapterUp), state("eth1", domain.AdapterDisabled)}

		gomock.InOrder(
			adapters.EXPECT().List(gomock.Any()).Return(before, nil),
			adapters.EXPECT().ResetOperations().Return([]string{"winsock", "flush-dns"}),
			adapters.EXPECT().Reset(gomock.Any(), "winsock").Return(errors.New("access denied")),
			adapters.EXPECT().Reset(gomock.Any(), "flush-dns").Return(nil),
			adapters.EXPECT().Restart(gomock.Any(), "eth0").Return(nil),
			adapters.EXPECT().Restart(gomock.Any(), "eth1").Return(errors.New("device busy")),
			adapters.EXPECT().List(gomock.Any()).Return(settling, nil),
			adapters.EXPECT().List(gomock.Any()).Return(settling, nil),
			adapters.EXPECT().List(gomock.Any()).Return(after, nil),
			adapters.EXPECT().List(gomock.Any()).Return(after, nil),
		)

		start := time.Now()
		report, err := netdiff.New(adapters, j, netdiff.Config{
			PollInterval: 2 * time.Second,
			Timeout:      30 * time.Second,
		}).Reset(t.Context())

		require.NoError(t, err)
		assert.Equal(t, 4*time.Second, time.Since(start))
		require.Len(t, report.Changes, 2)
		assert.False(t, report.Changes[0].Changed)
		assert.True(t, report.Changes[1].Changed)
		assert.Equal(t, domain.AdapterDisabled, report.Changes[1].After.Status)

		warnings := j.Messages(domain.LevelWarning)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "winsock")

		errs := j.Messages(domain.LevelError)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "eth1")
		assert.Contains(t, j.Messages(domain.LevelInfo), "adapter eth1: Down -> Disabled")
	})
}

func TestReset_StabilizationTimeout(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		adapters := mocks.NewMockNetworkAdapters(ctrl)
		j := journal.NewMemory()

		before := []domain.AdapterState{state("eth0", domain.AdapterUp)}
		down := []domain.AdapterState{state("eth0", domain.AdapterDown)}

		adapters.EXPECT().List(gomock.Any()).Return(before, nil)
		adapters.EXPECT().ResetOperations().Return(nil)
		adapters.EXPECT().Restart(gomock.Any(), "eth0").Return(nil)
		adapters.EXPECT().List(gomock.Any()).Return(down, nil).MinTimes(2)

		start := time.Now()
		report, err := netdiff.New(adapters, j, netdiff.Config{
			PollInterval: time.Second,
			Timeout:      5 * time.Second,
		}).Reset(t.Context())

		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, time.Since(start))
		assert.Equal(t, 1, report.ChangedCount())

		warnings := j.Messages(domain.LevelWarning)
		require.Len(t, warnings, 1)
		assert.Contains(t, warnings[0], "did not stabilize")
	})
}

func TestReset_PollingDisabledWaitsFixedDelay(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)
		adapters := mocks.NewMockNetworkAdapters(ctrl)

		up := []domain.AdapterState{state("eth0", domain.AdapterUp)}
		adapters.EXPECT().List(gomock.Any()).Return(up, nil).Times(2)
		adapters.EXPECT().ResetOperations().Return(nil)
		adapters.EXPECT().Restart(gomock.Any(), "eth0").Return(nil)

		start := time.Now()
		_, err := netdiff.New(adapters, journal.NewMemory(), netdiff.Config{Timeout: 15 * time.Second}).Reset(t.Context())

		require.NoError(t, err)
		assert.Equal(t, 15*time.Second, time.Since(start))
	})
}

func TestReset_AfterListFails(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	adapters := mocks.NewMockNetworkAdapters(ctrl)
	j := journal.NewMemory()

	gomock.InOrder(
		adapters.EXPECT().List(gomock.Any()).Return([]domain.AdapterState{state("eth0", domain.AdapterDown)}, nil),
		adapters.EXPECT().ResetOperations().Return(nil),
		adapters.EXPECT().Restart(gomock.Any(), "eth0").Return(nil),
		adapters.EXPECT().List(gomock.Any()).Return(nil, errors.New("timeout")),
	)

	report, err := netdiff.New(adapters, j, netdiff.Config{PollInterval: time.Second, Timeout: time.Second}).Reset(t.Context())

	require.NoError(t, err)
	require.Len(t, report.Changes, 1)
	assert.Equal(t, domain.AdapterUnknown, report.Changes[0].After.Status)
	assert.Len(t, j.Messages(domain.LevelWarning), 1)
}
