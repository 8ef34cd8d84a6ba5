package engine

import "fmt"

// NotFoundError aborts the operation for the entity that referenced the
// missing record only, never the whole batch.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// ValidationError rejects an input before any state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InsufficientDataError is non-fatal: the calculation still runs and is
// marked partial.
type InsufficientDataError struct {
	ProductCode  string
	LocationCode string
	DataPoints   int
	Required     int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient consumption data for %s/%s: %d points, need %d",
		e.ProductCode, e.LocationCode, e.DataPoints, e.Required)
}

// ConflictError rejects a mutation that would duplicate or revisit a
// terminal state.
type ConflictError struct {
	Entity string
	Key    string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s %s: %s", e.Entity, e.Key, e.Reason)
}

// BatchItemError wraps a single item's failure inside a bulk operation.
type BatchItemError struct {
	Key string
	Err error
}

func (e *BatchItemError) Error() string {
	return fmt.Sprintf("item %s: %v", e.Key, e.Err)
}

func (e *BatchItemError) Unwrap() error { return e.Err }

// BatchResult collects per-item outcomes of a bulk operation. A failing
// item never aborts the batch.
type BatchResult struct {
	Processed int              `json:"processed"`
	Failed    int              `json:"failed"`
	Skipped   int              `json:"skipped"`
	Errors    []BatchItemError `json:"-"`
}

func (r *BatchResult) AddSuccess() { r.Processed++ }

func (r *BatchResult) AddSkip() { r.Skipped++ }

func (r *BatchResult) AddError(key string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, BatchItemError{Key: key, Err: err})
}

// ErrorMessages flattens the per-item errors for JSON responses.
func (r *BatchResult) ErrorMessages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return msgs
}
