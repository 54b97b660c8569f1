package activity

import (
	"context"
	"fmt"
	"strings"

	"asistencia/internal/adapters/storage"
	domain "asistencia/internal/domain/activity"
	"asistencia/internal/domain/fault"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Compile-time check that *SQLiteStore satisfies Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new activity store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

const selectColumns = "SELECT id, area, nombre, fecha, region FROM actividades"

// Create persists a new activity.
// PRE: none
// POST: Returns the new id, or a ValidationError for a bad area or blank field
func (s *SQLiteStore) Create(ctx context.Context, a domain.Activity) (int64, error) {
	if err := a.Validate(); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx,
		"INSERT INTO actividades (area, nombre, fecha, region) VALUES (?, ?, ?, ?)",
		a.Area, a.Name, a.Date, a.Region,
	)
	if err != nil {
		return 0, fault.Storage("create activity", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fault.Storage("create activity", err)
	}
	return id, nil
}

// List returns all activities, most recent date first.
// PRE: none
// POST: Returns every stored activity ordered by fecha descending
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Activity, error) {
	return s.query(ctx, selectColumns+" ORDER BY fecha DESC")
}

// ListFiltered returns activities matching every present criterion.
// Omitted criteria are unconstrained; date bounds are inclusive.
// PRE: none
// POST: Returns matching activities ordered by fecha descending
func (s *SQLiteStore) ListFiltered(ctx context.Context, f Filter) ([]domain.Activity, error) {
	query := selectColumns + " WHERE 1=1"
	var args []any

	if f.Area != "" {
		query += " AND area = ?"
		args = append(args, f.Area)
	}
	if f.Region != "" {
		query += " AND region = ?"
		args = append(args, f.Region)
	}
	if f.DateFrom != "" {
		query += " AND fecha >= ?"
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		query += " AND fecha <= ?"
		args = append(args, f.DateTo)
	}
	query += " ORDER BY fecha DESC"

	return s.query(ctx, query, args...)
}

// ListMatching returns activities matching the multi-valued report criteria.
// Empty slices are unconstrained.
// PRE: none
// POST: Returns matching activities ordered by fecha descending
func (s *SQLiteStore) ListMatching(ctx context.Context, f MatchFilter) ([]domain.Activity, error) {
	query := selectColumns + " WHERE 1=1"
	var args []any

	if len(f.Areas) > 0 {
		query += " AND area IN (" + placeholders(len(f.Areas)) + ")"
		for _, a := range f.Areas {
			args = append(args, a)
		}
	}
	if len(f.Regions) > 0 {
		query += " AND region IN (" + placeholders(len(f.Regions)) + ")"
		for _, r := range f.Regions {
			args = append(args, r)
		}
	}
	if f.DateFrom != "" {
		query += " AND fecha >= ?"
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		query += " AND fecha <= ?"
		args = append(args, f.DateTo)
	}
	query += " ORDER BY fecha DESC"

	return s.query(ctx, query, args...)
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.Activity, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fault.Storage("list activities", err)
	}
	defer rows.Close()

	var results []domain.Activity
	for rows.Next() {
		var entity domain.Activity
		if err := rows.Scan(&entity.ID, &entity.Area, &entity.Name, &entity.Date, &entity.Region); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// placeholders returns n comma-joined "?" markers for an IN clause.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
