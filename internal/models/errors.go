package models

import (
	"fmt"
	"strings"

	"product-api/internal/validation"
)

// ConstraintError is returned by the storage layer when a record breaks a column constraint.
type ConstraintError struct {
	Entity     string
	Violations []validation.FieldError
}

func (e *ConstraintError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, fmt.Sprintf("%s: %s", v.Field, v.Message))
	}
	return fmt.Sprintf("%s violates storage constraints: %s", e.Entity, strings.Join(parts, "; "))
}
