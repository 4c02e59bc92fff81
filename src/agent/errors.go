package agent

import "errors"

// Error kinds reported in ToolResponse.ErrorKind and Invocation.Error.Kind.
const (
	ErrorKindUnknownTool = "unknown_tool"
	ErrorKindValidation  = "validation_error"
	ErrorKindNotFound    = "not_found"
	ErrorKindStore       = "store_error"
)

// ErrNotFound marks handler failures caused by a missing entity or an
// ownership mismatch. Handlers wrap it so the toolbox can classify the
// outcome without knowing about the storage layer.
var ErrNotFound = errors.New("not found")

// ValidationError marks handler failures caused by semantically invalid
// input that passed structural validation (for example a malformed date).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given reason.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
