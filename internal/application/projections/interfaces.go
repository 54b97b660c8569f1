package projections

import (
	"context"

	activityStore "asistencia/internal/adapters/storage/activity"
	participationStore "asistencia/internal/adapters/storage/participation"
	domainActivity "asistencia/internal/domain/activity"
	domainPerson "asistencia/internal/domain/person"
)

// ActivityStore interface for activity queries.
type ActivityStore interface {
	List(ctx context.Context) ([]domainActivity.Activity, error)
	ListFiltered(ctx context.Context, f activityStore.Filter) ([]domainActivity.Activity, error)
	ListMatching(ctx context.Context, f activityStore.MatchFilter) ([]domainActivity.Activity, error)
}

// ParticipationStore interface for participation queries.
type ParticipationStore interface {
	RosterForActivity(ctx context.Context, activityID int64) ([]participationStore.RosterRow, error)
	AttendanceByActivityIDs(ctx context.Context, activityIDs []int64) ([]participationStore.AttendanceRow, error)
}

// PersonStore interface for person lookups.
type PersonStore interface {
	GetByIdentity(ctx context.Context, identityKey string) (domainPerson.Person, error)
}
