package stepgen

import "fmt"

// ParseError means the oracle output could not be read as a steps
// document. It always routes to the fallback generator.
type ParseError struct {
	Content string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparsable steps output: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError describes one structural problem in a step array.
// Problems are repaired in place and only logged.
type ValidationError struct {
	Step    int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Step == 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("step %d %s: %s", e.Step, e.Field, e.Message)
}
