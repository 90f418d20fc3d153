package domain

// Level is the severity of a journal entry.
type Level uint8

const (
	// LevelInfo records normal progress.
	LevelInfo Level = iota
	// LevelWarning records best-effort operations that did not complete normally.
	LevelWarning
	// LevelError records contained failures. Error entries are duplicated to the error sink.
	LevelError
	// LevelSummary records the end-of-run summary.
	LevelSummary
)

// String returns the label written in journal lines.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelSummary:
		return "SUMMARY"
	default:
		return "UNKNOWN"
	}
}
