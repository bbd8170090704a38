package ledger

import (
	"errors"
	"fmt"
)

var (
	ErrTooManyChunks       = errors.New("content needs more chunks than allowed")
	ErrMissingReceiptField = errors.New("receipt is missing the created entity ID")
)

// StatusError is a submission the network rejected, either at precheck or in
// the final receipt.
type StatusError struct {
	Operation     Operation
	Status        string
	TransactionID string
	Precheck      bool
}

func (e *StatusError) Error() string {
	phase := "receipt"
	if e.Precheck {
		phase = "precheck"
	}
	if e.TransactionID == "" {
		return fmt.Sprintf("%s failed at %s with status %s", e.Operation, phase, e.Status)
	}
	return fmt.Sprintf("%s %s failed at %s with status %s", e.Operation, e.TransactionID, phase, e.Status)
}
