package activity

import (
	"context"

	domain "asistencia/internal/domain/activity"
)

// Filter carries the single-valued conjunctive criteria for ListFiltered.
// Zero-valued fields are unconstrained; date bounds are inclusive and
// compared lexicographically on YYYY-MM-DD strings.
type Filter struct {
	Area     string
	Region   string
	DateFrom string
	DateTo   string
}

// MatchFilter carries the multi-valued criteria the report engine uses to
// compute its activity denominator. Empty slices are unconstrained.
type MatchFilter struct {
	Areas    []string
	Regions  []string
	DateFrom string
	DateTo   string
}

// Store persists Activity state. Activities are immutable once created.
type Store interface {
	// Create persists a new activity and returns its id.
	Create(ctx context.Context, a domain.Activity) (int64, error)
	// List returns all activities, most recent date first.
	List(ctx context.Context) ([]domain.Activity, error)
	// ListFiltered returns activities matching every present criterion.
	ListFiltered(ctx context.Context, f Filter) ([]domain.Activity, error)
	// ListMatching returns activities matching the multi-valued criteria.
	ListMatching(ctx context.Context, f MatchFilter) ([]domain.Activity, error)
}
