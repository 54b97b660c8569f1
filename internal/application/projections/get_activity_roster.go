package projections

import (
	"context"

	participationStore "asistencia/internal/adapters/storage/participation"
	"asistencia/internal/domain/fault"
)

// GetActivityRosterQuery carries query parameters.
type GetActivityRosterQuery struct {
	ActivityID int64
}

// RosterEntry is one attendee of an activity.
type RosterEntry struct {
	Rut    string `json:"rut"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

// GetActivityRosterResult carries the query result.
type GetActivityRosterResult struct {
	Entries []RosterEntry
}

// GetActivityRosterDeps holds dependencies for GetActivityRoster.
type GetActivityRosterDeps struct {
	ParticipationStore ParticipationStore
}

// QueryGetActivityRoster lists everyone linked to an activity, ordered by
// name ascending. An activity with no attendees yields an empty list, not
// an error.
// PRE: ActivityID is a positive integer
// POST: Returns one entry per linked person
func QueryGetActivityRoster(ctx context.Context, query GetActivityRosterQuery, deps GetActivityRosterDeps) (GetActivityRosterResult, error) {
	if query.ActivityID <= 0 {
		return GetActivityRosterResult{}, fault.Validationf("activity id must be a positive integer")
	}

	rows, err := deps.ParticipationStore.RosterForActivity(ctx, query.ActivityID)
	if err != nil {
		return GetActivityRosterResult{}, err
	}

	entries := make([]RosterEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, rosterEntry(r))
	}
	return GetActivityRosterResult{Entries: entries}, nil
}

func rosterEntry(r participationStore.RosterRow) RosterEntry {
	return RosterEntry{
		Rut:    r.IdentityKey,
		Nombre: r.Name,
		Email:  r.Email,
	}
}
