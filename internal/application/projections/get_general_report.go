package projections

import (
	"context"
	"math"
	"sort"
	"strings"

	activityStore "asistencia/internal/adapters/storage/activity"
	domain "asistencia/internal/domain/activity"
	"asistencia/internal/domain/identity"
)

// GetGeneralReportQuery carries the report filters. Empty Areas defaults to
// every recognized area; empty Regiones is unconstrained; date bounds are
// inclusive YYYY-MM-DD strings; Rut narrows the report to one identity.
type GetGeneralReportQuery struct {
	Areas       []string
	Regiones    []string
	FechaInicio string
	FechaFin    string
	Rut         string
}

// GeneralReportRow is one person's attendance summary under the filter.
type GeneralReportRow struct {
	Rut                     string `json:"rut"`
	Nombre                  string `json:"nombre"`
	Asistencias             int    `json:"asistencias"`
	TotalActividades        int    `json:"total_actividades"`
	Porcentaje              int    `json:"porcentaje"`
	ActividadesParticipadas string `json:"actividades_participadas"`
}

// GetGeneralReportResult carries the query result.
type GetGeneralReportResult struct {
	Rows []GeneralReportRow
}

// GetGeneralReportDeps holds dependencies for GetGeneralReport.
type GetGeneralReportDeps struct {
	ActivityStore      ActivityStore
	ParticipationStore ParticipationStore
}

// QueryGetGeneralReport computes per-person attendance under conjunctive
// filters. The denominator is global: every activity matching the
// area/region/date criteria counts, whether or not a given person went.
// The numerator is the person's distinct attended activities among those
// same matches. Two passes: fetch the matching activities, then a single
// join over their participations grouped in memory per person.
// PRE: filters are well-formed strings
// POST: Rows ordered by person name ascending; persons with zero matching
//
//	participations are omitted
//
// INVARIANT: Every row shares the same TotalActividades for a given filter
func QueryGetGeneralReport(ctx context.Context, query GetGeneralReportQuery, deps GetGeneralReportDeps) (GetGeneralReportResult, error) {
	areas := query.Areas
	if len(areas) == 0 {
		areas = append([]string(nil), domain.Areas...)
	}

	matching, err := deps.ActivityStore.ListMatching(ctx, activityStore.MatchFilter{
		Areas:    areas,
		Regions:  query.Regiones,
		DateFrom: query.FechaInicio,
		DateTo:   query.FechaFin,
	})
	if err != nil {
		return GetGeneralReportResult{}, err
	}

	total := len(matching)
	rows := []GeneralReportRow{}
	if total == 0 {
		return GetGeneralReportResult{Rows: rows}, nil
	}

	ids := make([]int64, 0, total)
	nameByID := make(map[int64]string, total)
	for _, a := range matching {
		ids = append(ids, a.ID)
		nameByID[a.ID] = a.Name
	}

	attendance, err := deps.ParticipationStore.AttendanceByActivityIDs(ctx, ids)
	if err != nil {
		return GetGeneralReportResult{}, err
	}

	wantKey := identity.Normalize(query.Rut)

	type personAgg struct {
		identityKey string
		name        string
		attended    map[int64]bool
	}
	byPerson := make(map[int64]*personAgg)
	for _, row := range attendance {
		if wantKey != "" && row.IdentityKey != wantKey {
			continue
		}
		agg, ok := byPerson[row.PersonID]
		if !ok {
			agg = &personAgg{
				identityKey: row.IdentityKey,
				name:        row.Name,
				attended:    make(map[int64]bool),
			}
			byPerson[row.PersonID] = agg
		}
		agg.attended[row.ActivityID] = true
	}

	for _, agg := range byPerson {
		asistencias := len(agg.attended)

		// Attended names listed in the matching order (most recent first).
		var names []string
		for _, a := range matching {
			if agg.attended[a.ID] {
				names = append(names, nameByID[a.ID])
			}
		}
		participadas := "N/A"
		if len(names) > 0 {
			participadas = strings.Join(names, ", ")
		}

		rows = append(rows, GeneralReportRow{
			Rut:                     agg.identityKey,
			Nombre:                  agg.name,
			Asistencias:             asistencias,
			TotalActividades:        total,
			Porcentaje:              percentage(asistencias, total),
			ActividadesParticipadas: participadas,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Nombre != rows[j].Nombre {
			return rows[i].Nombre < rows[j].Nombre
		}
		return rows[i].Rut < rows[j].Rut
	})

	return GetGeneralReportResult{Rows: rows}, nil
}

// percentage is round(attended*100/total), 0 when total is 0.
func percentage(attended, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(attended) * 100 / float64(total)))
}
