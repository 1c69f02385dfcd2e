package autodiff

import "fmt"

// DefinitionError reports a malformed primitive: a missing forward
// function, a forward that produced no output or no gradient rule, or a
// gradient rule whose arity does not match the parent list. It is
// raised the moment the defect is observable and makes the primitive
// unusable; it never indicates a numeric failure.
type DefinitionError struct {
	Name string // primitive name, if known
	Err  error
}

func (e *DefinitionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("primitive definition: %v", e.Err)
	}
	return fmt.Sprintf("primitive %q: %v", e.Name, e.Err)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}
