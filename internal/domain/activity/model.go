// Package activity defines the actividad entity: an organizational event in
// one of the two program areas, immutable once created.
package activity

import (
	"strings"

	"asistencia/internal/domain/fault"
)

// Area constants: the two recognized program categories.
const (
	AreaEmprendimiento = "Emprendimiento"
	AreaVoluntariado   = "Voluntariado"
)

// Areas lists all recognized areas, in report-default order.
var Areas = []string{AreaEmprendimiento, AreaVoluntariado}

// Activity holds state for the actividad concept.
type Activity struct {
	ID     int64
	Area   string
	Name   string
	Date   string // YYYY-MM-DD; compared lexicographically
	Region string
}

// Validate checks the fields required before persisting.
// PRE: Activity struct is populated
// POST: Returns a ValidationError if the area is unrecognized or any
// required field is blank
func (a *Activity) Validate() error {
	if !ValidArea(a.Area) {
		return fault.Validationf("area must be one of: %s, %s", AreaEmprendimiento, AreaVoluntariado)
	}
	if strings.TrimSpace(a.Name) == "" {
		return fault.Validationf("name is required")
	}
	if strings.TrimSpace(a.Date) == "" {
		return fault.Validationf("date is required")
	}
	if strings.TrimSpace(a.Region) == "" {
		return fault.Validationf("region is required")
	}
	return nil
}

// ValidArea reports whether area is one of the recognized categories.
func ValidArea(area string) bool {
	for _, a := range Areas {
		if a == area {
			return true
		}
	}
	return false
}
