package signature

import "fmt"

// SyntaxError indicates a signature source string that does not follow the
// signature grammar, or that names a type the registry does not know.
type SyntaxError struct {
	Source string
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("invalid signature %q: %s", e.Source, e.Reason)
}

func NewSyntaxError(source, reason string) *SyntaxError {
	return &SyntaxError{Source: source, Reason: reason}
}
