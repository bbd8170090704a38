package orchestrator

import (
	"errors"
	"fmt"
)

var (
	ErrMissingIdentifier = errors.New("identifier from an earlier step is missing")
	ErrVerification      = errors.New("ledger state does not match the expected outcome")
)

// StepError names the step that stopped the run.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
