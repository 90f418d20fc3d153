package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tend/cmd/tend/commands"
	"go.trai.ch/tend/internal/app"
	"go.trai.ch/tend/internal/build"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports/mocks"
	"go.trai.ch/tend/internal/tasks"
	"go.uber.org/mock/gomock"
)

func setup(t *testing.T) (*mocks.MockConfigLoader, *mocks.MockCommandExecutor, *bytes.Buffer, *commands.CLI) {
	t.Helper()
	ctrl := gomock.NewController(t)

	mockLoader := mocks.NewMockConfigLoader(ctrl)
	mockExecutor := mocks.NewMockCommandExecutor(ctrl)
	stdout := &bytes.Buffer{}

	a := app.New(mockLoader, mockExecutor, mocks.NewMockLogger(ctrl), mocks.NewMockFiles(ctrl), mocks.NewMockVolumes(ctrl)).
		WithOutput(stdout, io.Discard)
	return mockLoader, mockExecutor, stdout, commands.New(a)
}

func configOnly(t *testing.T, keep ...string) *domain.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := domain.DefaultConfig()
	cfg.Log.Dir = filepath.Join(dir, "logs")
	cfg.Store.Dir = filepath.Join(dir, "runs")
	for _, task := range tasks.Catalog(cfg, tasks.Deps{}) {
		if !slices.Contains(keep, task.Name) {
			cfg.Tasks.Skip = append(cfg.Tasks.Skip, task.Name)
		}
	}
	return cfg
}

func TestRun_Flags(t *testing.T) {
	mockLoader, mockExecutor, stdout, cli := setup(t)
	cfg := configOnly(t, tasks.NameIntegrityScan, tasks.NameDriverRescan)

	mockLoader.EXPECT().Load(gomock.Any(), "custom.yaml").Return(cfg, nil)
	mockExecutor.EXPECT().Execute(gomock.Any(), cfg.Commands[domain.CmdDriverRescan]).
		Return(domain.CommandResult{}, nil).Times(1)

	cli.SetArgs([]string{"run", "--config", "custom.yaml", "--skip", tasks.NameIntegrityScan, "-o", "json"})
	require.NoError(t, cli.Execute(context.Background()))

	var summary domain.Summary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &summary))
	require.Len(t, summary.Tasks, 1)
	assert.Equal(t, tasks.NameDriverRescan, summary.Tasks[0].Task)
}

func TestRun_Failure(t *testing.T) {
	mockLoader, mockExecutor, _, cli := setup(t)
	cfg := configOnly(t, tasks.NameDriverRescan)

	mockLoader.EXPECT().Load(gomock.Any(), "").Return(cfg, nil)
	mockExecutor.EXPECT().Execute(gomock.Any(), gomock.Any()).
		Return(domain.CommandResult{ExitCode: 1, Output: "access denied"}, nil)

	cli.SetArgs([]string{"run"})
	err := cli.Execute(context.Background())
	require.ErrorIs(t, err, domain.ErrRunFailed)
}

func TestRun_RejectsArgs(t *testing.T) {
	_, _, _, cli := setup(t)

	cli.SetArgs([]string{"run", "integrity-scan"})
	require.Error(t, cli.Execute(context.Background()))
}

func TestTasks(t *testing.T) {
	mockLoader, _, stdout, cli := setup(t)
	mockLoader.EXPECT().Load(gomock.Any(), "").Return(domain.DefaultConfig(), nil)

	cli.SetArgs([]string{"tasks", "--skip", tasks.NameUpdateInstall})
	require.NoError(t, cli.Execute(context.Background()))

	assert.Contains(t, stdout.String(), "update-install   retryable (skipped)")
	assert.Contains(t, stdout.String(), "registry-backup  prerequisite-gated")
}

func TestReport_NotFound(t *testing.T) {
	mockLoader, _, _, cli := setup(t)
	mockLoader.EXPECT().Load(gomock.Any(), "").Return(configOnly(t), nil)

	cli.SetArgs([]string{"report", "8d5cbd0e-6f36-4a0e-9d3c-1b4a3a6a0f11"})
	err := cli.Execute(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrRunNotFound.Error())
}

func TestReport_TooManyArgs(t *testing.T) {
	_, _, _, cli := setup(t)

	cli.SetArgs([]string{"report", "a", "b"})
	require.Error(t, cli.Execute(context.Background()))
}

func TestVersion(t *testing.T) {
	_, _, _, cli := setup(t)
	var out bytes.Buffer
	cli.SetOut(&out)

	cli.SetArgs([]string{"version"})
	require.NoError(t, cli.Execute(context.Background()))
	assert.Equal(t, "tend version "+build.Version+" (commit none, built unknown)\n", out.String())
}
