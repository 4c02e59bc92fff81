package executor

import (
	"errors"
	"fmt"
)

// Turn error kinds reported to callers. Tool-level failures inside a turn
// are fed back to the model instead and never become a TurnError.
const (
	KindValidationError      = "validation_error"
	KindNotFound             = "not_found"
	KindStoreError           = "store_error"
	KindReasoningTimeout     = "reasoning_timeout"
	KindReasoningUnavailable = "reasoning_unavailable"
	KindTurnDeadlineExceeded = "turn_deadline_exceeded"
)

var (
	ErrEmptyMessage       = errors.New("message must not be empty")
	ErrMessageTooLong     = errors.New("message exceeds maximum length")
	ErrConversationAccess = errors.New("conversation not found")
)

// TurnError is a turn-level failure with a stable machine-readable kind.
type TurnError struct {
	Kind   string
	Detail string
	Err    error
}

func (e *TurnError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *TurnError) Unwrap() error {
	return e.Err
}

// ErrorKind extracts the turn error kind from err, or store_error when the
// error carries no kind of its own.
func ErrorKind(err error) string {
	var te *TurnError
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindStoreError
}

func validationError(detail string, err error) *TurnError {
	return &TurnError{Kind: KindValidationError, Detail: detail, Err: err}
}

func notFoundError(detail string, err error) *TurnError {
	return &TurnError{Kind: KindNotFound, Detail: detail, Err: err}
}

func storeError(detail string, err error) *TurnError {
	return &TurnError{Kind: KindStoreError, Detail: detail, Err: err}
}
