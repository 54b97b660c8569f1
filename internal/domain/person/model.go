// Package person defines the persona entity: a participant identified by a
// normalized RUT, deduplicated across imports.
package person

import (
	"strings"
	"time"

	"asistencia/internal/domain/fault"
)

// Person holds state for the persona concept.
// IdentityKey is the normalized RUT and the sole deduplication axis: two
// import rows with the same key and different raw spellings are one Person.
type Person struct {
	ID          int64
	IdentityKey string
	Name        string
	Email       string // optional; never cleared by a blank import value
	UpdatedAt   time.Time
}

// Validate checks the fields required before persisting.
// PRE: Person struct is populated
// POST: Returns a ValidationError if identity key or name is blank
func (p *Person) Validate() error {
	if strings.TrimSpace(p.IdentityKey) == "" {
		return fault.Validationf("identity key is required")
	}
	if strings.TrimSpace(p.Name) == "" {
		return fault.Validationf("name is required")
	}
	return nil
}
