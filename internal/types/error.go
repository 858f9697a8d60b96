package types

import "fmt"

// CustomError carries an HTTP status for errors raised by middleware.
type CustomError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *CustomError) Error() string {
	return fmt.Sprintf("%d: %s [type: %s]", e.Code, e.Message, e.Type)
}

// NotFoundError is returned when a referenced entity id does not exist.
// It is surfaced to the caller unchanged and never retried.
type NotFoundError struct {
	Entity string
	Ref    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Ref)
}

// NotFound builds a NotFoundError for a numeric id.
func NotFound(entity string, id uint64) *NotFoundError {
	return &NotFoundError{Entity: entity, Ref: fmt.Sprintf("%d", id)}
}

// AlreadyExistsError is returned on a uniqueness violation during create.
type AlreadyExistsError struct {
	Entity string
	Ref    string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s %s already exists", e.Entity, e.Ref)
}

// InvalidQueryError is returned for malformed filter, page or sort
// parameters. The caller must correct the input; retrying is pointless.
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return "invalid query: " + e.Reason
}

// ValidationError is returned when an input field fails a domain rule.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// WriteConflictError reports that the store detected a concurrent
// modification during a transactional association update. The whole
// logical operation is safe to retry from scratch.
type WriteConflictError struct {
	Entity string
	ID     uint64
}

func (e *WriteConflictError) Error() string {
	return fmt.Sprintf("write conflict on %s %d, retry the operation", e.Entity, e.ID)
}

// IntegrityError signals a one-sided relationship edge. This is a defect
// in the association maintenance code, not a recoverable condition.
type IntegrityError struct {
	Details string
}

func (e *IntegrityError) Error() string {
	return "integrity violation: " + e.Details
}
