package inspection

import "fmt"

// ValidationError rejects a write whose field holds a value outside
// its closed set, or whose required field is empty.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: value is required", e.Field)
	}
	return fmt.Sprintf("invalid %s: %q is not an allowed value", e.Field, e.Value)
}

// NotFoundError rejects a reference to a record that does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}
