// Package participation defines the link between a persona and an actividad.
// At most one participation exists per (person, activity) pair; duplicate
// registrations are no-ops, never errors.
package participation

import (
	"time"

	"asistencia/internal/domain/fault"
)

// Participation holds state for the participación concept.
// Created by the import pipeline or direct registration; never updated or
// deleted by this system.
type Participation struct {
	ID           int64
	PersonID     int64
	ActivityID   int64
	RegisteredAt time.Time
}

// Validate checks that both referenced ids are set.
// PRE: Participation struct is populated
// POST: Returns a ValidationError if either id is not positive
func (p *Participation) Validate() error {
	if p.PersonID <= 0 {
		return fault.Validationf("person id must be positive")
	}
	if p.ActivityID <= 0 {
		return fault.Validationf("activity id must be positive")
	}
	return nil
}
