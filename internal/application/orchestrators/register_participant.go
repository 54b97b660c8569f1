package orchestrators

import (
	"context"
	"strings"

	"asistencia/internal/domain/fault"
	"asistencia/internal/domain/identity"
)

// RegisterParticipantInput carries input for the orchestrator.
type RegisterParticipantInput struct {
	ActivityID int64
	Rut        string
	Nombre     string
	Email      string
}

// RegisterParticipantDeps holds dependencies for RegisterParticipant.
type RegisterParticipantDeps struct {
	PersonStore        ImportPersonStore
	ParticipationStore ImportParticipationStore
}

// ExecuteRegisterParticipant upserts one person by normalized identity and
// joins them to an activity. Registering an already-joined person is a no-op.
// PRE: ActivityID refers to an existing activity
// POST: Returns the person id, stable across repeated calls for the same
//
//	identity
func ExecuteRegisterParticipant(ctx context.Context, input RegisterParticipantInput, deps RegisterParticipantDeps) (int64, error) {
	if input.ActivityID <= 0 {
		return 0, fault.Validationf("activity id is required")
	}

	key := identity.Normalize(input.Rut)
	name := strings.TrimSpace(input.Nombre)
	if key == "" || name == "" {
		return 0, fault.Validationf("missing identity or name")
	}

	personID, err := deps.PersonStore.Upsert(ctx, key, name, strings.TrimSpace(input.Email))
	if err != nil {
		return 0, err
	}

	if err := deps.ParticipationStore.Register(ctx, personID, input.ActivityID); err != nil {
		return 0, err
	}

	return personID, nil
}
