package transaction

import "fmt"

// Status is the terminal state reported for a gateway transaction.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// IsValid reports whether s is one of the known statuses.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts a raw value into a Status.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", fmt.Errorf("unknown transaction status %q", raw)
	}
	return s, nil
}

// Result is the outcome of a charge or refund. The zero value is not meaningful;
// build one with NewResult, Completed or Failed.
type Result struct {
	transactionID string
	status        Status
	message       string
}

// NewResult creates a result value.
func NewResult(transactionID string, status Status, message string) Result {
	return Result{
		transactionID: transactionID,
		status:        status,
		message:       message,
	}
}

// Completed creates a successful result for the given transaction.
func Completed(transactionID, message string) Result {
	return NewResult(transactionID, StatusCompleted, message)
}

// Failed creates a failed result. Failed results never carry a transaction id.
func Failed(message string) Result {
	return NewResult("", StatusFailed, message)
}

func (r Result) TransactionID() string { return r.transactionID }

func (r Result) Status() Status { return r.status }

func (r Result) Message() string { return r.message }

// IsCompleted reports whether the result has status Completed.
func (r Result) IsCompleted() bool {
	return r.status == StatusCompleted
}

func (r Result) String() string {
	return fmt.Sprintf("%s[%s] %s", r.status, r.transactionID, r.message)
}
