package typesystem

import "fmt"

// DuplicateTypeError indicates a type name was registered twice.
type DuplicateTypeError struct {
	Name string
}

func (e *DuplicateTypeError) Error() string {
	return fmt.Sprintf("type already registered: %s", e.Name)
}

func NewDuplicateTypeError(name string) *DuplicateTypeError {
	return &DuplicateTypeError{Name: name}
}

// UnknownTypeError indicates a type name was not found in the registry.
type UnknownTypeError struct {
	Name string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type: %s", e.Name)
}

func NewUnknownTypeError(name string) *UnknownTypeError {
	return &UnknownTypeError{Name: name}
}

// ConflictError indicates a conversion edge collides with an existing one.
type ConflictError struct {
	From   string
	To     string
	Detail string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflicting conversion %s -> %s: %s", e.From, e.To, e.Detail)
}

func NewConflictError(from, to, detail string) *ConflictError {
	return &ConflictError{From: from, To: to, Detail: detail}
}
