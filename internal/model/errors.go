package model

import "fmt"

// InvalidEnumValueError reports an enum-typed attribute holding a value
// outside its closed set.
type InvalidEnumValueError struct {
	Attribute string
	Value     string
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("invalid %s value %q", e.Attribute, e.Value)
}

// MissingRequiredRelationError reports a required relation that is not
// resolved, such as a pass without a barcode.
type MissingRequiredRelationError struct {
	Relation string
}

func (e *MissingRequiredRelationError) Error() string {
	return fmt.Sprintf("missing required relation: %s", e.Relation)
}

// MissingRequiredFieldError reports a required scalar attribute that is empty.
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}
