package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failure so delivery layers can map it to a
// transport code without inspecting error strings.
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindBusinessRule ErrorKind = "business_rule"
	KindStore        ErrorKind = "store"
)

// Storage-level signals. Repositories return these; usecases translate
// them into DomainError values with caller-facing reasons.
var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrStaleState       = errors.New("order state changed concurrently")
	ErrDuplicateUTR     = errors.New("utr already attached to another order")
	ErrSettingsNotFound = errors.New("settings not found")
)

type DomainError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewValidationError(format string, args ...any) *DomainError {
	return &DomainError{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(format string, args ...any) *DomainError {
	return &DomainError{Kind: KindNotFound, Reason: fmt.Sprintf(format, args...)}
}

func NewConflictError(format string, args ...any) *DomainError {
	return &DomainError{Kind: KindConflict, Reason: fmt.Sprintf(format, args...)}
}

func NewBusinessRuleError(format string, args ...any) *DomainError {
	return &DomainError{Kind: KindBusinessRule, Reason: fmt.Sprintf(format, args...)}
}

func NewStoreError(reason string, err error) *DomainError {
	return &DomainError{Kind: KindStore, Reason: reason, Err: err}
}

// KindOf extracts the classification of err, or "" when err carries no
// DomainError anywhere in its chain.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
