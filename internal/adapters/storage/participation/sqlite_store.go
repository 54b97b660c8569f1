package participation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"asistencia/internal/adapters/storage"
	"asistencia/internal/domain/fault"
	domain "asistencia/internal/domain/participation"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Compile-time check that *SQLiteStore satisfies Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new participation store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Register links a person to an activity with a server-assigned timestamp.
// The UNIQUE(persona_id, actividad_id) constraint plus INSERT OR IGNORE
// makes duplicate registrations no-ops, also under concurrent imports.
// PRE: personID and activityID are positive
// POST: exactly one participation row exists for the pair
func (s *SQLiteStore) Register(ctx context.Context, personID, activityID int64) error {
	p := domain.Participation{PersonID: personID, ActivityID: activityID}
	if err := p.Validate(); err != nil {
		return err
	}

	now := time.Now().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO participaciones (persona_id, actividad_id, registrado_en) VALUES (?, ?, ?)",
		personID, activityID, now,
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			return fault.Referencef("person %d or activity %d does not exist", personID, activityID)
		}
		return fault.Storage("register participation", err)
	}
	return nil
}

// RosterForActivity returns all persons linked to the activity.
// PRE: activityID is positive
// POST: Returns roster rows ordered by name ascending
func (s *SQLiteStore) RosterForActivity(ctx context.Context, activityID int64) ([]RosterRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.rut, p.nombre, p.email
		FROM personas p
		JOIN participaciones part ON p.id = part.persona_id
		WHERE part.actividad_id = ?
		ORDER BY p.nombre ASC`,
		activityID,
	)
	if err != nil {
		return nil, fault.Storage("roster for activity", err)
	}
	defer rows.Close()

	var results []RosterRow
	for rows.Next() {
		var r RosterRow
		if err := rows.Scan(&r.IdentityKey, &r.Name, &r.Email); err != nil {
			return nil, fmt.Errorf("failed to scan roster row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// AttendanceByActivityIDs returns every participation in the given
// activities, joined with the person's identity and name.
// PRE: none
// POST: Returns one row per (person, activity) link; nil for an empty id set
func (s *SQLiteStore) AttendanceByActivityIDs(ctx context.Context, activityIDs []int64) ([]AttendanceRow, error) {
	if len(activityIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(activityIDs))
	args := make([]any, len(activityIDs))
	for i, id := range activityIDs {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT part.persona_id, p.rut, p.nombre, part.actividad_id
		FROM participaciones part
		JOIN personas p ON p.id = part.persona_id
		WHERE part.actividad_id IN (%s)`,
		strings.Join(placeholders, ","),
	)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fault.Storage("attendance by activities", err)
	}
	defer rows.Close()

	var results []AttendanceRow
	for rows.Next() {
		var r AttendanceRow
		if err := rows.Scan(&r.PersonID, &r.IdentityKey, &r.Name, &r.ActivityID); err != nil {
			return nil, fmt.Errorf("failed to scan attendance row: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
