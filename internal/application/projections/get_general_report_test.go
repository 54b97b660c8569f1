package projections

import (
	"context"
	"testing"

	activityStore "asistencia/internal/adapters/storage/activity"
	participationStore "asistencia/internal/adapters/storage/participation"
	domainActivity "asistencia/internal/domain/activity"
)

// mockActivityStore implements ActivityStore over a fixed slice, applying
// MatchFilter the same way the SQL store does.
type mockActivityStore struct {
	activities []domainActivity.Activity
}

// List implements ActivityStore.
func (m *mockActivityStore) List(_ context.Context) ([]domainActivity.Activity, error) {
	return m.activities, nil
}

// ListFiltered implements ActivityStore.
func (m *mockActivityStore) ListFiltered(_ context.Context, f activityStore.Filter) ([]domainActivity.Activity, error) {
	var out []domainActivity.Activity
	for _, a := range m.activities {
		if f.Area != "" && a.Area != f.Area {
			continue
		}
		if f.Region != "" && a.Region != f.Region {
			continue
		}
		if f.DateFrom != "" && a.Date < f.DateFrom {
			continue
		}
		if f.DateTo != "" && a.Date > f.DateTo {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// ListMatching implements ActivityStore.
func (m *mockActivityStore) ListMatching(_ context.Context, f activityStore.MatchFilter) ([]domainActivity.Activity, error) {
	var out []domainActivity.Activity
	for _, a := range m.activities {
		if len(f.Areas) > 0 && !containsString(f.Areas, a.Area) {
			continue
		}
		if len(f.Regions) > 0 && !containsString(f.Regions, a.Region) {
			continue
		}
		if f.DateFrom != "" && a.Date < f.DateFrom {
			continue
		}
		if f.DateTo != "" && a.Date > f.DateTo {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}

// mockParticipationStore implements ParticipationStore over fixed rows.
type mockParticipationStore struct {
	roster     []participationStore.RosterRow
	attendance []participationStore.AttendanceRow
}

// RosterForActivity implements ParticipationStore.
func (m *mockParticipationStore) RosterForActivity(_ context.Context, _ int64) ([]participationStore.RosterRow, error) {
	return m.roster, nil
}

// AttendanceByActivityIDs implements ParticipationStore.
func (m *mockParticipationStore) AttendanceByActivityIDs(_ context.Context, activityIDs []int64) ([]participationStore.AttendanceRow, error) {
	want := make(map[int64]bool, len(activityIDs))
	for _, id := range activityIDs {
		want[id] = true
	}
	var out []participationStore.AttendanceRow
	for _, r := range m.attendance {
		if want[r.ActivityID] {
			out = append(out, r)
		}
	}
	return out, nil
}

// TestQueryGetGeneralReport_GlobalDenominator verifies the percentage uses
// every matching activity, attended or not: two activities match, person P
// attended one, so the row reads 1 of 2, 50%.
// PRE: activities A (Emprendimiento/Maule/2024-03-01) and B
//
//	(Voluntariado/Maule/2024-03-02); P attended only A.
//
// POST: one row, asistencias=1, total_actividades=2, porcentaje=50.
func TestQueryGetGeneralReport_GlobalDenominator(t *testing.T) {
	acts := &mockActivityStore{activities: []domainActivity.Activity{
		{ID: 2, Area: domainActivity.AreaVoluntariado, Name: "Limpieza de playa", Date: "2024-03-02", Region: "Maule"},
		{ID: 1, Area: domainActivity.AreaEmprendimiento, Name: "Taller de pitch", Date: "2024-03-01", Region: "Maule"},
	}}
	parts := &mockParticipationStore{attendance: []participationStore.AttendanceRow{
		{PersonID: 10, IdentityKey: "123456785", Name: "Paula", ActivityID: 1},
	}}

	result, err := QueryGetGeneralReport(context.Background(), GetGeneralReportQuery{
		Areas: []string{domainActivity.AreaEmprendimiento, domainActivity.AreaVoluntariado},
	}, GetGeneralReportDeps{ActivityStore: acts, ParticipationStore: parts})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("rows=%d want 1", len(result.Rows))
	}
	row := result.Rows[0]
	if row.Asistencias != 1 || row.TotalActividades != 2 || row.Porcentaje != 50 {
		t.Errorf("row=%+v want asistencias=1 total=2 porcentaje=50", row)
	}
	if row.ActividadesParticipadas != "Taller de pitch" {
		t.Errorf("participadas=%q want %q", row.ActividadesParticipadas, "Taller de pitch")
	}
}

// TestQueryGetGeneralReport_DefaultsAreas verifies an empty area list means
// both recognized areas, not none.
// PRE: one activity per area; person attended both.
// POST: total_actividades=2 with no areas given.
func TestQueryGetGeneralReport_DefaultsAreas(t *testing.T) {
	acts := &mockActivityStore{activities: []domainActivity.Activity{
		{ID: 1, Area: domainActivity.AreaEmprendimiento, Name: "Feria", Date: "2024-01-10", Region: "Biobío"},
		{ID: 2, Area: domainActivity.AreaVoluntariado, Name: "Colecta", Date: "2024-01-11", Region: "Biobío"},
	}}
	parts := &mockParticipationStore{attendance: []participationStore.AttendanceRow{
		{PersonID: 1, IdentityKey: "19", Name: "Ana", ActivityID: 1},
		{PersonID: 1, IdentityKey: "19", Name: "Ana", ActivityID: 2},
	}}

	result, err := QueryGetGeneralReport(context.Background(), GetGeneralReportQuery{}, GetGeneralReportDeps{
		ActivityStore: acts, ParticipationStore: parts,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("rows=%d want 1", len(result.Rows))
	}
	if result.Rows[0].TotalActividades != 2 || result.Rows[0].Porcentaje != 100 {
		t.Errorf("row=%+v want total=2 porcentaje=100", result.Rows[0])
	}
}

// TestQueryGetGeneralReport_RutFilter verifies the rut filter narrows the
// report to one normalized identity while keeping the global denominator.
// PRE: two persons attended the single matching activity.
// POST: only the row whose identity matches the dotted spelling remains.
func TestQueryGetGeneralReport_RutFilter(t *testing.T) {
	acts := &mockActivityStore{activities: []domainActivity.Activity{
		{ID: 1, Area: domainActivity.AreaEmprendimiento, Name: "Feria", Date: "2024-01-10", Region: "Maule"},
	}}
	parts := &mockParticipationStore{attendance: []participationStore.AttendanceRow{
		{PersonID: 1, IdentityKey: "123456785", Name: "Ana", ActivityID: 1},
		{PersonID: 2, IdentityKey: "987654321", Name: "Bruno", ActivityID: 1},
	}}

	result, err := QueryGetGeneralReport(context.Background(), GetGeneralReportQuery{
		Rut: "12.345.678-5",
	}, GetGeneralReportDeps{ActivityStore: acts, ParticipationStore: parts})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("rows=%d want 1", len(result.Rows))
	}
	if result.Rows[0].Rut != "123456785" {
		t.Errorf("rut=%q want 123456785", result.Rows[0].Rut)
	}
}

// TestQueryGetGeneralReport_NoMatchingActivities verifies an empty match set
// yields an empty report, not an error or a division by zero.
// PRE: no activities match the region.
// POST: zero rows, nil error.
func TestQueryGetGeneralReport_NoMatchingActivities(t *testing.T) {
	acts := &mockActivityStore{activities: []domainActivity.Activity{
		{ID: 1, Area: domainActivity.AreaEmprendimiento, Name: "Feria", Date: "2024-01-10", Region: "Maule"},
	}}
	parts := &mockParticipationStore{attendance: []participationStore.AttendanceRow{
		{PersonID: 1, IdentityKey: "19", Name: "Ana", ActivityID: 1},
	}}

	result, err := QueryGetGeneralReport(context.Background(), GetGeneralReportQuery{
		Regiones: []string{"Aysén"},
	}, GetGeneralReportDeps{ActivityStore: acts, ParticipationStore: parts})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 0 {
		t.Errorf("rows=%d want 0", len(result.Rows))
	}
}

// TestQueryGetGeneralReport_OrdersByName verifies rows come back sorted by
// person name ascending and percentages round half away from zero.
// PRE: three activities match; Ana attended 1 (33%), Zoe attended 2 (67%).
// POST: Ana before Zoe with rounded percentages.
func TestQueryGetGeneralReport_OrdersByName(t *testing.T) {
	acts := &mockActivityStore{activities: []domainActivity.Activity{
		{ID: 3, Area: domainActivity.AreaVoluntariado, Name: "Colecta", Date: "2024-03-03", Region: "Maule"},
		{ID: 2, Area: domainActivity.AreaVoluntariado, Name: "Limpieza", Date: "2024-03-02", Region: "Maule"},
		{ID: 1, Area: domainActivity.AreaVoluntariado, Name: "Plantación", Date: "2024-03-01", Region: "Maule"},
	}}
	parts := &mockParticipationStore{attendance: []participationStore.AttendanceRow{
		{PersonID: 2, IdentityKey: "27", Name: "Zoe", ActivityID: 1},
		{PersonID: 2, IdentityKey: "27", Name: "Zoe", ActivityID: 3},
		{PersonID: 1, IdentityKey: "19", Name: "Ana", ActivityID: 2},
	}}

	result, err := QueryGetGeneralReport(context.Background(), GetGeneralReportQuery{}, GetGeneralReportDeps{
		ActivityStore: acts, ParticipationStore: parts,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("rows=%d want 2", len(result.Rows))
	}
	if result.Rows[0].Nombre != "Ana" || result.Rows[1].Nombre != "Zoe" {
		t.Fatalf("order=%q,%q want Ana,Zoe", result.Rows[0].Nombre, result.Rows[1].Nombre)
	}
	if result.Rows[0].Porcentaje != 33 {
		t.Errorf("Ana porcentaje=%d want 33", result.Rows[0].Porcentaje)
	}
	if result.Rows[1].Porcentaje != 67 {
		t.Errorf("Zoe porcentaje=%d want 67", result.Rows[1].Porcentaje)
	}
	if result.Rows[1].ActividadesParticipadas != "Colecta, Plantación" {
		t.Errorf("Zoe participadas=%q want %q", result.Rows[1].ActividadesParticipadas, "Colecta, Plantación")
	}
}
