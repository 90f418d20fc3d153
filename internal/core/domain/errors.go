package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

var (
	// ErrDuplicateTask is returned when two registered tasks share a name.
	ErrDuplicateTask = zerr.New("task already registered")

	// ErrEmptyTaskName is returned when a task is registered without a name.
	ErrEmptyTaskName = zerr.New("task name is empty")

	// ErrMissingAction is returned when a task has no action to run.
	ErrMissingAction = zerr.New("task has no action")

	// ErrMissingRecovery is returned when a retryable task has no recovery action.
	ErrMissingRecovery = zerr.New("retryable task has no recovery action")

	// ErrUnknownTask is returned when a task name does not match any catalog entry.
	ErrUnknownTask = zerr.New("unknown task")

	// ErrTaskFailed is the message prefix used when a task action fails.
	ErrTaskFailed = zerr.New("task failed")

	// ErrTaskPanicked is returned when a task action panics.
	ErrTaskPanicked = zerr.New("task panicked")

	// ErrRecoveryFailed is returned when the recovery action of a retryable task fails.
	ErrRecoveryFailed = zerr.New("recovery action failed")

	// ErrRetryFailed is returned when the single retry of a retryable task fails.
	ErrRetryFailed = zerr.New("retry after recovery failed")

	// ErrRunInterrupted is recorded for tasks that never started because the run was cancelled.
	ErrRunInterrupted = zerr.New("run interrupted")

	// ErrCommandStartFailed is returned when an external command cannot be started.
	ErrCommandStartFailed = zerr.New("failed to start command")

	// ErrCommandFailed is returned when an external command exits abnormally.
	ErrCommandFailed = zerr.New("command exited abnormally")

	// ErrNoAdapters is returned when the network adapters cannot be enumerated.
	ErrNoAdapters = zerr.New("no network adapters could be enumerated")

	// ErrAdapterListFailed is returned when the adapter listing cannot be parsed.
	ErrAdapterListFailed = zerr.New("failed to list network adapters")

	// ErrUnknownResetOperation is returned when a network reset operation is not configured.
	ErrUnknownResetOperation = zerr.New("unknown network reset operation")

	// ErrNotReady is returned when a readiness probe does not succeed before its deadline.
	ErrNotReady = zerr.New("not ready before deadline")

	// ErrFileRemoveFailed is returned when a file cannot be removed during a sweep.
	ErrFileRemoveFailed = zerr.New("failed to remove file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrArchiveFailed is returned when a compressed archive copy cannot be written.
	ErrArchiveFailed = zerr.New("failed to archive file")

	// ErrVolumeQueryFailed is returned when free space cannot be determined.
	ErrVolumeQueryFailed = zerr.New("failed to query volume usage")

	// ErrConfigReadFailed is returned when the configuration file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read configuration")

	// ErrConfigParseFailed is returned when the configuration file is not valid YAML.
	ErrConfigParseFailed = zerr.New("failed to parse configuration")

	// ErrConfigInvalid is returned when the configuration fails validation.
	ErrConfigInvalid = zerr.New("invalid configuration")

	// ErrStoreReadFailed is returned when a stored run summary cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read run summary")

	// ErrStoreWriteFailed is returned when a run summary cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write run summary")

	// ErrStoreCreateFailed is returned when the store directory cannot be created.
	ErrStoreCreateFailed = zerr.New("failed to create store directory")

	// ErrStoreMarshalFailed is returned when a run summary cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal run summary")

	// ErrStoreUnmarshalFailed is returned when a run summary cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal run summary")

	// ErrRunNotFound is returned when no stored run matches the requested ID.
	ErrRunNotFound = zerr.New("run not found")

	// ErrJournalOpenFailed is returned when a journal sink cannot be opened.
	ErrJournalOpenFailed = zerr.New("failed to open journal sink")

	// ErrJournalStreamSuspended is returned by the publish that suspends a
	// remote journal stream.
	ErrJournalStreamSuspended = zerr.New("journal stream suspended")

	// ErrUnknownOutputFormat is returned when a report format is not supported.
	ErrUnknownOutputFormat = zerr.New("unknown output format")

	// ErrDryRunUnsupported is returned when the executor cannot perform a dry run.
	ErrDryRunUnsupported = zerr.New("executor does not support dry runs")

	// ErrRunFailed is returned by the CLI when at least one task ended in Failure.
	ErrRunFailed = zerr.New("maintenance run finished with failures")
)

// Describe renders err with the fields attached along its zerr chain, as in
// "command failed: exit status 2 (command=sfc /scannow, exit_code=2)".
// Fields of outer errors come first; a key seen twice keeps its outer value.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	seen := make(map[string]bool)
	var fields []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		z, ok := e.(*zerr.Error)
		if !ok {
			continue
		}
		meta := z.Metadata()
		keys := make([]string, 0, len(meta))
		for k := range meta {
			if !seen[k] {
				keys = append(keys, k)
			}
		}
		slices.Sort(keys)
		for _, k := range keys {
			seen[k] = true
			fields = append(fields, fmt.Sprintf("%s=%v", k, meta[k]))
		}
	}
	if len(fields) == 0 {
		return err.Error()
	}
	return err.Error() + " (" + strings.Join(fields, ", ") + ")"
}
