package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		args         []string
		expectedExit int
	}{
		{
			name:         "version",
			args:         []string{"tend", "version"},
			expectedExit: 0,
		},
		{
			name:         "tasks with defaults",
			args:         []string{"tend", "tasks"},
			expectedExit: 0,
		},
		{
			name:         "report without stored runs",
			args:         []string{"tend", "report"},
			expectedExit: 1,
		},
		{
			name:         "unknown command",
			args:         []string{"tend", "defrag"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			os.Args = tt.args

			assert.Equal(t, tt.expectedExit, run())
		})
	}
}
