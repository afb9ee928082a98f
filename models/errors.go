package models

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrNotFound marks lookups for entities that do not exist. Wrap it with
// the entity name so the transport layer can surface a useful message.
var ErrNotFound = errors.New("not found")

// ValidationError reports a line item referencing a product id that is
// absent from the catalog. The whole create/update fails with it.
type ValidationError struct {
	ProductID uuid.UUID
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("product with id %s does not exist", e.ProductID)
}

// ConstraintError wraps a uniqueness violation reported by the store.
// The raw constraint name is kept for logs only, never for responses.
type ConstraintError struct {
	Err error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint violation: %v", e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}
