package tasks_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/tend/internal/core/domain"
	"go.trai.ch/tend/internal/core/ports/mocks"
	"go.trai.ch/tend/internal/tasks"
	"go.uber.org/mock/gomock"
)

func TestCommand(t *testing.T) {
	t.Parallel()

	cmd := domain.Command{Name: "pnputil", Args: []string{"/scan-devices"}}

	tests := []struct {
		name    string
		result  domain.CommandResult
		execErr error
		wantErr string
	}{
		{name: "success", result: domain.CommandResult{ExitCode: 0}},
		{name: "non-zero exit", result: domain.CommandResult{ExitCode: 5, Output: "Access is denied."}, wantErr: "exit code 5: Access is denied."},
		{name: "start failure", execErr: errors.New("executable file not found"), wantErr: "executable file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			executor := mocks.NewMockCommandExecutor(ctrl)
			executor.EXPECT().Execute(gomock.Any(), cmd).Return(tt.result, tt.execErr)

			out, err := (&tasks.Command{Executor: executor, Cmd: cmd, Done: "devices rescanned"}).Run(t.Context())

			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "devices rescanned", out.Message)
		})
	}
}

func TestIntegrityScan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		result  domain.CommandResult
		want    string
		wantErr bool
	}{
		{
			name:   "clean",
			result: domain.CommandResult{Output: "Verification 100% complete.\r\n\r\nWindows Resource Protection did not find any integrity violations.\r\n"},
			want:   "no integrity violations",
		},
		{
			name:   "repaired",
			result: domain.CommandResult{Output: "Windows Resource Protection found corrupt files and successfully\r\nrepaired them."},
			want:   "corrupt files found and repaired",
		},
		{
			name:    "unrepaired",
			result:  domain.CommandResult{ExitCode: 0, Output: "Windows Resource Protection found corrupt files but was unable to fix some of them."},
			wantErr: true,
		},
		{
			name:    "aborted",
			result:  domain.CommandResult{ExitCode: 1, Output: "Windows Resource Protection could not perform the requested operation."},
			wantErr: true,
		},
		{
			name:    "unknown failure",
			result:  domain.CommandResult{ExitCode: 2},
			wantErr: true,
		},
		{
			name:   "empty output",
			result: domain.CommandResult{},
			want:   "scan completed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			executor := mocks.NewMockCommandExecutor(ctrl)
			executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(tt.result, nil)

			out, err := (&tasks.IntegrityScan{Executor: executor}).Run(t.Context())

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.Message)
		})
	}
}

func TestImageServicing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code    int
		want    string
		wantErr bool
	}{
		{code: 0, want: "image health restored"},
		{code: 3010, want: "image health restored, restart required"},
		{code: 87, wantErr: true},
	}

	for _, tt := range tests {
		ctrl := gomock.NewController(t)
		executor := mocks.NewMockCommandExecutor(ctrl)
		executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(domain.CommandResult{ExitCode: tt.code}, nil)

		out, err := (&tasks.ImageServicing{Executor: executor, Done: "image health restored"}).Run(t.Context())

		if tt.wantErr {
			assert.Error(t, err, tt.code)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, out.Message)
	}
}

func TestDiskCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code    int
		want    string
		wantErr bool
	}{
		{code: 0, want: "no errors found"},
		{code: 1, want: "errors found and fixed"},
		{code: 2, want: "disk cleanup performed"},
		{code: 3, wantErr: true},
	}

	for _, tt := range tests {
		ctrl := gomock.NewController(t)
		executor := mocks.NewMockCommandExecutor(ctrl)
		executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(domain.CommandResult{ExitCode: tt.code}, nil)

		out, err := (&tasks.DiskCheck{Executor: executor}).Run(t.Context())

		if tt.wantErr {
			require.Error(t, err)
			assert.ErrorContains(t, err, "exit code 3")
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, out.Message)
	}
}
