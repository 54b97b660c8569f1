package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"asistencia/internal/adapters/http/middleware"
	activityStore "asistencia/internal/adapters/storage/activity"
	personStore "asistencia/internal/adapters/storage/person"
	"asistencia/internal/application/orchestrators"
	"asistencia/internal/application/projections"
	"asistencia/internal/domain/fault"
	"asistencia/internal/domain/identity"
)

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	writeError(w, http.StatusInternalServerError, "internal server error")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// callerFault maps domain error categories onto status codes. Validation and
// dangling-reference errors are the caller's fault; everything else is ours.
func callerFault(w http.ResponseWriter, err error) {
	if fault.IsValidation(err) || fault.IsReference(err) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	internalError(w, err)
}

// queryList collects a multi-valued query parameter, splitting each value on
// commas so ?areas=a,b and ?areas=a&areas=b read the same.
func queryList(r *http.Request, key string) []string {
	var out []string
	for _, raw := range r.URL.Query()[key] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func registerRoutes(mux *http.ServeMux) {
	// Auth endpoints stay outside the auth gate: login creates the session
	// and /api/session is how the frontend asks whether it has one.
	mux.HandleFunc("/api/login", handleLogin)
	mux.HandleFunc("/api/session", handleSession)

	mux.Handle("/api/logout", middleware.RequireAuth(http.HandlerFunc(handleLogout)))
	mux.Handle("/api/actividades", middleware.RequireAuth(http.HandlerFunc(handleActividades)))
	mux.Handle("/api/actividades/filtradas", middleware.RequireAuth(http.HandlerFunc(handleActividadesFiltradas)))
	mux.Handle("/api/participantes/importar", middleware.RequireAuth(http.HandlerFunc(handleImportarParticipantes)))
	mux.Handle("/api/personas", middleware.RequireAuth(http.HandlerFunc(handlePersonas)))
	mux.Handle("/api/personas/buscar", middleware.RequireAuth(http.HandlerFunc(handleBuscarPersona)))
	mux.Handle("/api/reportes/por-actividad", middleware.RequireAuth(http.HandlerFunc(handleReportePorActividad)))
	mux.Handle("/api/reportes/general", middleware.RequireAuth(http.HandlerFunc(handleReporteGeneral)))
}

// handleLogin handles POST /api/login.
// Issues a session cookie on success. Wrong credentials and unknown users get
// the same 401; a locked account gets 403 so the frontend can say why.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Username: input.Username,
		Password: input.Password,
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if err != nil {
		if errors.Is(err, orchestrators.ErrAccountLocked) {
			writeError(w, http.StatusForbidden, err.Error())
			return
		}
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}

	token, err := sessions.Create(result.AccountID, result.Username)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	writeJSON(w, http.StatusOK, map[string]any{"username": result.Username})
}

// handleLogout handles POST /api/logout.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if token := middleware.SessionToken(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleSession handles GET /api/session.
// Tells the frontend whether its cookie still maps to a live session.
func handleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"username":      sess.Username,
	})
}

// actividadView is the JSON shape the frontend expects for an activity.
type actividadView struct {
	ID     int64  `json:"id"`
	Area   string `json:"area"`
	Nombre string `json:"nombre"`
	Fecha  string `json:"fecha"`
	Region string `json:"region"`
}

// handleActividades handles POST (create) and GET (list all) /api/actividades.
func handleActividades(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var input struct {
			Area   string `json:"area"`
			Nombre string `json:"nombre"`
			Fecha  string `json:"fecha"`
			Region string `json:"region"`
		}
		if err := strictDecode(r, &input); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request")
			return
		}

		id, err := orchestrators.ExecuteCreateActivity(r.Context(), orchestrators.CreateActivityInput{
			Area:   input.Area,
			Nombre: input.Nombre,
			Fecha:  input.Fecha,
			Region: input.Region,
		}, orchestrators.CreateActivityDeps{ActivityStore: stores.ActivityStore})
		if err != nil {
			callerFault(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int64{"id": id})

	case http.MethodGet:
		activities, err := stores.ActivityStore.List(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		views := make([]actividadView, 0, len(activities))
		for _, a := range activities {
			views = append(views, actividadView{ID: a.ID, Area: a.Area, Nombre: a.Name, Fecha: a.Date, Region: a.Region})
		}
		writeJSON(w, http.StatusOK, views)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// handleActividadesFiltradas handles GET /api/actividades/filtradas.
// Single-valued conjunctive filters: area, region, fechaInicio, fechaFin.
func handleActividadesFiltradas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	activities, err := stores.ActivityStore.ListFiltered(r.Context(), activityStore.Filter{
		Area:     q.Get("area"),
		Region:   q.Get("region"),
		DateFrom: q.Get("fechaInicio"),
		DateTo:   q.Get("fechaFin"),
	})
	if err != nil {
		internalError(w, err)
		return
	}
	views := make([]actividadView, 0, len(activities))
	for _, a := range activities {
		views = append(views, actividadView{ID: a.ID, Area: a.Area, Nombre: a.Name, Fecha: a.Date, Region: a.Region})
	}
	writeJSON(w, http.StatusOK, views)
}

// handleImportarParticipantes handles POST /api/participantes/importar.
// Body: {actividadId, participantes: [{rut, nombre, email}]}.
// Always answers with a count summary, even when every row failed; only a
// missing activity id is a 400.
func handleImportarParticipantes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		ActividadID   int64                           `json:"actividadId"`
		Participantes []orchestrators.ParticipantRow `json:"participantes"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	result, err := orchestrators.ExecuteImportParticipants(r.Context(), orchestrators.ImportParticipantsInput{
		ActivityID: input.ActividadID,
		Rows:       input.Participantes,
	}, orchestrators.ImportParticipantsDeps{
		PersonStore:        stores.PersonStore,
		ParticipationStore: stores.ParticipationStore,
		Sender:             emailSender,
		AdminEmail:         adminEmailAddress,
	})
	if err != nil {
		callerFault(w, err)
		return
	}
	if result.ErrorDetail == nil {
		result.ErrorDetail = []string{}
	}
	writeJSON(w, http.StatusOK, result)
}

// handlePersonas handles POST /api/personas: the manual single-person
// registration path, same upsert-and-link semantics as one import row.
func handlePersonas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var input struct {
		ActividadID int64  `json:"actividadId"`
		Rut         string `json:"rut"`
		Nombre      string `json:"nombre"`
		Email       string `json:"email"`
	}
	if err := strictDecode(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	personID, err := orchestrators.ExecuteRegisterParticipant(r.Context(), orchestrators.RegisterParticipantInput{
		ActivityID: input.ActividadID,
		Rut:        input.Rut,
		Nombre:     input.Nombre,
		Email:      input.Email,
	}, orchestrators.RegisterParticipantDeps{
		PersonStore:        stores.PersonStore,
		ParticipationStore: stores.ParticipationStore,
	})
	if err != nil {
		callerFault(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": personID})
}

// handleBuscarPersona handles GET /api/personas/buscar?rut=.
// Pre-fill lookup for the registration form; 404 when unknown.
func handleBuscarPersona(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	rut := r.URL.Query().Get("rut")
	if strings.TrimSpace(rut) == "" {
		writeError(w, http.StatusBadRequest, "rut is required")
		return
	}

	p, err := stores.PersonStore.GetByIdentity(r.Context(), identity.Normalize(rut))
	if err != nil {
		if errors.Is(err, personStore.ErrNotFound) {
			writeError(w, http.StatusNotFound, "person not found")
			return
		}
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"rut":    p.IdentityKey,
		"nombre": p.Name,
		"email":  p.Email,
	})
}

// handleReportePorActividad handles GET /api/reportes/por-actividad?actividadId=.
func handleReportePorActividad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	idParam := r.URL.Query().Get("actividadId")
	activityID, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "actividadId must be a positive integer")
		return
	}

	result, err := projections.QueryGetActivityRoster(r.Context(), projections.GetActivityRosterQuery{
		ActivityID: activityID,
	}, projections.GetActivityRosterDeps{ParticipationStore: stores.ParticipationStore})
	if err != nil {
		callerFault(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Entries)
}

// handleReporteGeneral handles GET /api/reportes/general.
// Filters: areas, regiones (repeatable or comma-separated), fechaInicio,
// fechaFin, rut.
func handleReporteGeneral(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	result, err := projections.QueryGetGeneralReport(r.Context(), projections.GetGeneralReportQuery{
		Areas:       queryList(r, "areas"),
		Regiones:    queryList(r, "regiones"),
		FechaInicio: q.Get("fechaInicio"),
		FechaFin:    q.Get("fechaFin"),
		Rut:         q.Get("rut"),
	}, projections.GetGeneralReportDeps{
		ActivityStore:      stores.ActivityStore,
		ParticipationStore: stores.ParticipationStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Rows)
}
