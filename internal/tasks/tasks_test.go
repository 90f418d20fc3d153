package tasks_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tend/internal/adapters/journal"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports/mocks"
	"go.trai.ch/tend/internal/tasks"
	"go.uber.org/mock/gomock"
)

var now = time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func TestCatalog_Order(t *testing.T) {
	t.Parallel()

	all := tasks.Catalog(domain.DefaultConfig(), tasks.Deps{Journal: journal.NewMemory()})

	names := make([]string, len(all))
	for i, task := range all {
		names[i] = task.Name
		require.NoError(t, task.Validate(), task.Name)
	}
	assert.Equal(t, []string{
		tasks.NameLogCleanup,
		tasks.NameIntegrityScan,
		tasks.NameImageRepair,
		tasks.NameImageCleanup,
		tasks.NameDiskCheck,
		tasks.NameDriverRescan,
		tasks.NameUpdateInstall,
		tasks.NameNetworkReset,
		tasks.NameRegistryBackup,
		tasks.NameCriticalEvents,
		tasks.NameTempCleanup,
		tasks.NameDiskCleanup,
		tasks.NameCrashDumps,
	}, names)
}

func TestCatalog_Categories(t *testing.T) {
	t.Parallel()

	for _, task := range tasks.Catalog(domain.DefaultConfig(), tasks.Deps{}) {
		switch task.Name {
		case tasks.NameUpdateInstall:
			assert.Equal(t, domain.Retryable, task.Category)
			assert.NotNil(t, task.Recovery)
		case tasks.NameRegistryBackup:
			assert.Equal(t, domain.PrerequisiteGated, task.Category)
		default:
			assert.Equal(t, domain.Independent, task.Category, task.Name)
		}
	}
}

func TestCatalog_DryRunPlansNetworkReset(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	network := mocks.NewMockNetworkAdapters(ctrl)
	network.EXPECT().ResetOperations().Return([]string{"winsock", "flush-dns"})

	all := tasks.Catalog(domain.DefaultConfig(), tasks.Deps{Network: network, DryRun: true})

	for _, task := range all {
		if task.Name != tasks.NameNetworkReset {
			continue
		}
		out, err := task.Action.Run(t.Context())
		require.NoError(t, err)
		assert.Contains(t, out.Message, "dry run")
		assert.Contains(t, out.Message, "2 reset operation(s)")
		assert.Nil(t, out.Network)
	}
}

func TestSelect(t *testing.T) {
	t.Parallel()

	all := tasks.Catalog(domain.DefaultConfig(), tasks.Deps{})

	selected, err := tasks.Select(all, []string{tasks.NameNetworkReset, tasks.NameUpdateInstall})
	require.NoError(t, err)
	assert.Len(t, selected, len(all)-2)
	for _, task := range selected {
		assert.NotEqual(t, tasks.NameNetworkReset, task.Name)
		assert.NotEqual(t, tasks.NameUpdateInstall, task.Name)
	}
	assert.Equal(t, tasks.NameLogCleanup, selected[0].Name)

	_, err = tasks.Select(all, []string{"defrag"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUnknownTask.Error())
}
