package domain

// PrerequisiteError signals that a gate sub-step of a PrerequisiteGated task failed
// and the remaining sub-steps were not executed.
type PrerequisiteError struct {
	Step string
	Err  error
}

// NewPrerequisiteError wraps err as the failure of the named gate step.
func NewPrerequisiteError(step string, err error) *PrerequisiteError {
	return &PrerequisiteError{Step: step, Err: err}
}

func (e *PrerequisiteError) Error() string {
	if e.Err == nil {
		return "prerequisite " + e.Step + " failed"
	}
	return "prerequisite " + e.Step + " failed: " + e.Err.Error()
}

func (e *PrerequisiteError) Unwrap() error {
	return e.Err
}
