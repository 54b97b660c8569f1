package orchestrators

import (
	"context"
	"log/slog"

	"asistencia/internal/domain/activity"
)

// ActivityStoreForCreate defines the store interface needed by CreateActivity.
type ActivityStoreForCreate interface {
	Create(ctx context.Context, a activity.Activity) (int64, error)
}

// CreateActivityInput carries input for the orchestrator.
type CreateActivityInput struct {
	Area   string
	Nombre string
	Fecha  string
	Region string
}

// CreateActivityDeps holds dependencies for CreateActivity.
type CreateActivityDeps struct {
	ActivityStore ActivityStoreForCreate
}

// ExecuteCreateActivity validates and persists a new activity.
// PRE: Area is a known area; Nombre, Fecha and Region are non-empty
// POST: Activity exists with a fresh id
func ExecuteCreateActivity(ctx context.Context, input CreateActivityInput, deps CreateActivityDeps) (int64, error) {
	a := activity.Activity{
		Area:   input.Area,
		Name:   input.Nombre,
		Date:   input.Fecha,
		Region: input.Region,
	}
	if err := a.Validate(); err != nil {
		return 0, err
	}

	id, err := deps.ActivityStore.Create(ctx, a)
	if err != nil {
		return 0, err
	}

	slog.Info("activity_created", "activity_id", id, "area", a.Area, "fecha", a.Date, "region", a.Region)
	return id, nil
}
