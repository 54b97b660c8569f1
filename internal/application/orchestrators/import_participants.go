package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"asistencia/internal/adapters/email"
	"asistencia/internal/domain/fault"
	"asistencia/internal/domain/identity"
)

// maxErrorDetail bounds the per-row messages returned to the caller; rows
// beyond it are still counted as errors.
const maxErrorDetail = 5

// ParticipantRow is one spreadsheet-derived record, already parsed by the
// upload boundary: raw RUT, display name, optional email.
type ParticipantRow struct {
	Rut    string `json:"rut"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

// ImportParticipantsInput carries the target activity and the parsed rows.
// PRE: ActivityID refers to an existing activity; Rows may be empty.
// POST: Rows are processed strictly in order; earlier rows' effects are
//
//	visible to later rows.
//
// INVARIANT: A failed row never rolls back the person upsert that preceded
// the failure; imports are not transactional across rows.
type ImportParticipantsInput struct {
	ActivityID int64
	Rows       []ParticipantRow
}

// ImportParticipantsResult holds aggregate counts and the first per-row
// error messages from an import run.
type ImportParticipantsResult struct {
	Imported    int      `json:"imported"`
	Errors      int      `json:"errors"`
	ErrorDetail []string `json:"errorDetail"`
}

// ImportPersonStore is the person store interface needed by the import.
type ImportPersonStore interface {
	Upsert(ctx context.Context, identityKey, name, email string) (int64, error)
}

// ImportParticipationStore is the participation store interface needed by
// the import.
type ImportParticipationStore interface {
	Register(ctx context.Context, personID, activityID int64) error
}

// ImportParticipantsDeps holds external dependencies for the import.
// Sender is optional: when set together with AdminEmail, a summary
// notification is sent after the run.
type ImportParticipantsDeps struct {
	PersonStore        ImportPersonStore
	ParticipationStore ImportParticipationStore
	Sender             email.Sender
	AdminEmail         string
}

// ExecuteImportParticipants ingests parsed participant rows into an activity.
// Rows are processed one at a time, in order, because a person created by an
// earlier row may be referenced (via identity collision) by a later one and
// the error messages must stay tied to their originating row number.
// Per-row failures are counted and recorded, never propagated; only a
// missing activity id fails the whole call.
// PRE: deps stores are non-nil
// POST: Returns counts plus at most maxErrorDetail error strings; persons
//
//	upserted by failed rows stay persisted.
func ExecuteImportParticipants(ctx context.Context, input ImportParticipantsInput, deps ImportParticipantsDeps) (ImportParticipantsResult, error) {
	if input.ActivityID <= 0 {
		return ImportParticipantsResult{}, fault.Validationf("activity id is required")
	}

	batchID := uuid.New().String()
	result := ImportParticipantsResult{}
	var detail []string

	fail := func(row int, msg string) {
		result.Errors++
		detail = append(detail, fmt.Sprintf("Row %d: %s", row, msg))
	}

	for i, row := range input.Rows {
		rowNum := i + 1 // user-facing row numbers are 1-based

		key := identity.Normalize(row.Rut)
		name := strings.TrimSpace(row.Nombre)
		if key == "" || name == "" {
			fail(rowNum, "missing identity or name")
			continue
		}

		personID, err := deps.PersonStore.Upsert(ctx, key, name, strings.TrimSpace(row.Email))
		if err != nil {
			slog.Error("participants_import_upsert_failed", "batch_id", batchID, "row", rowNum, "err", err)
			fail(rowNum, err.Error())
			continue
		}

		if err := deps.ParticipationStore.Register(ctx, personID, input.ActivityID); err != nil {
			slog.Error("participants_import_register_failed", "batch_id", batchID, "row", rowNum, "err", err)
			fail(rowNum, err.Error())
			continue
		}

		result.Imported++
	}

	if len(detail) > maxErrorDetail {
		detail = detail[:maxErrorDetail]
	}
	result.ErrorDetail = detail

	slog.Info("participants_import",
		"batch_id", batchID,
		"activity_id", input.ActivityID,
		"total", len(input.Rows),
		"imported", result.Imported,
		"errors", result.Errors,
	)

	notifyImportSummary(ctx, deps, batchID, input.ActivityID, result)

	return result, nil
}

// notifyImportSummary emails the admin a short summary of the run.
// Delivery failures are logged, never surfaced to the importing caller.
func notifyImportSummary(ctx context.Context, deps ImportParticipantsDeps, batchID string, activityID int64, result ImportParticipantsResult) {
	if deps.Sender == nil || deps.AdminEmail == "" {
		return
	}

	body := fmt.Sprintf(
		"<p>Import batch %s for activity %d finished.</p><ul><li>Imported: %d</li><li>Errors: %d</li></ul>",
		batchID, activityID, result.Imported, result.Errors,
	)
	_, err := deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{deps.AdminEmail},
		Subject: fmt.Sprintf("Participant import: %d imported, %d errors", result.Imported, result.Errors),
		HTML:    body,
	})
	if err != nil {
		slog.Error("participants_import_notify_failed", "batch_id", batchID, "err", err)
	}
}
