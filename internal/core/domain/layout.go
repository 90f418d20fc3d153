package domain

import "path/filepath"

const (
	// TendDirName is the name of the internal state directory.
	TendDirName = ".tend"

	// RunsDirName is the name of the directory holding stored run summaries.
	RunsDirName = "runs"

	// LogsDirName is the name of the directory holding the journal files.
	LogsDirName = "logs"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "tend.yaml"

	// MainLogFile is the default name of the main journal file.
	MainLogFile = "maintenance.log"

	// ErrorLogFile is the default name of the error-only journal file.
	ErrorLogFile = "maintenance-errors.log"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultRunsPath returns the default path for stored run summaries.
func DefaultRunsPath() string {
	return filepath.Join(TendDirName, RunsDirName)
}

// DefaultLogsPath returns the default directory for the journal files.
func DefaultLogsPath() string {
	return filepath.Join(TendDirName, LogsDirName)
}
