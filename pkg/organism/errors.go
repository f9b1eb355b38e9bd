package organism

import "fmt"

// NotFoundError is returned for an organism key that is not configured.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("organism '%s' is not configured", e.Key)
}

// InvalidOrganismError reports a configuration that cannot be served.
type InvalidOrganismError struct {
	Organism string
	Reason   string
}

func (e *InvalidOrganismError) Error() string {
	return fmt.Sprintf("invalid configuration for organism '%s': %s", e.Organism, e.Reason)
}

// UnknownReferenceError is returned when a metadata field is bound to a
// reference that no segment defines.
type UnknownReferenceError struct {
	Organism  string
	Field     string
	Reference string
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("organism '%s': field '%s' is only for unknown reference '%s'",
		e.Organism, e.Field, e.Reference)
}

// MissingReferenceFieldError is returned when a multi-reference organism has
// no usable reference identifier field.
type MissingReferenceFieldError struct {
	Organism string
	Field    string
}

func (e *MissingReferenceFieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("organism '%s' has several references but no referenceIdentifierField", e.Organism)
	}
	return fmt.Sprintf("organism '%s': reference identifier field '%s' is not a metadata field",
		e.Organism, e.Field)
}
