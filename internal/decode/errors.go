package decode

import "fmt"

// ErrInput is a malformed or incomplete request. It is reported to the
// caller as is.
type ErrInput struct {
	Field   string
	Message string
}

func (e *ErrInput) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
