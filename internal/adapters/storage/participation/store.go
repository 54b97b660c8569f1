package participation

import "context"

// RosterRow is one person linked to an activity.
type RosterRow struct {
	IdentityKey string
	Name        string
	Email       string
}

// AttendanceRow is one (person, activity) link joined with the person's
// identity, used by the general report aggregation.
type AttendanceRow struct {
	PersonID    int64
	IdentityKey string
	Name        string
	ActivityID  int64
}

// Store persists Participation state.
type Store interface {
	// Register links a person to an activity. Registering an existing pair
	// succeeds as a no-op; dangling ids yield a ReferenceError.
	Register(ctx context.Context, personID, activityID int64) error
	// RosterForActivity returns everyone linked to the activity, ordered by
	// name ascending.
	RosterForActivity(ctx context.Context, activityID int64) ([]RosterRow, error)
	// AttendanceByActivityIDs returns every participation in the given
	// activities joined with the person's identity and name.
	AttendanceByActivityIDs(ctx context.Context, activityIDs []int64) ([]AttendanceRow, error)
}
