// HTTP handlers for the tracker service.
//
// All routes except /lifecycle/rejection-reasons expect an x-user-id
// header forwarded by the Gateway.
//
// Routes:
//
//	GET    /applications                  → list user's applications (?status= filter)
//	POST   /applications                  → create application (initial status Saved)
//	GET    /applications/{id}             → fetch one application
//	DELETE /applications/{id}             → delete application
//	POST   /applications/{id}/transition  → request a status transition
//	POST   /applications/{id}/note        → add/update free-text note
//	GET    /applications/{id}/targets     → allowed next statuses
//	GET    /lifecycle/rejection-reasons   → advisory rejection reason catalog
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"kazitracker/tracker-service/internal/lifecycle"
)

// ─── Handler ─────────────────────────────────────────────────────────────────

// Handler exposes the Service over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all application routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/applications", h.handleApplications)
	mux.HandleFunc("/applications/", h.handleApplicationAction)
	mux.HandleFunc("/lifecycle/rejection-reasons", h.handleRejectionReasons)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleApplications handles GET and POST /applications
func (h *Handler) handleApplications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listApplications(w, r)
	case http.MethodPost:
		h.createApplication(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleApplicationAction handles /applications/{id} and
// /applications/{id}/{action}
func (h *Handler) handleApplicationAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 2: // /applications/{id}
		appID := parts[1]
		switch r.Method {
		case http.MethodGet:
			h.getApplication(w, r, appID)
		case http.MethodDelete:
			h.deleteApplication(w, r, appID)
		default:
			jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	case len(parts) == 3: // /applications/{id}/{action}
		appID, action := parts[1], parts[2]
		switch {
		case action == "transition" && r.Method == http.MethodPost:
			h.transition(w, r, appID)
		case action == "note" && r.Method == http.MethodPost:
			h.addNote(w, r, appID)
		case action == "targets" && r.Method == http.MethodGet:
			h.allowedTargets(w, r, appID)
		default:
			jsonError(w, fmt.Sprintf("unknown action %q", action), http.StatusNotFound)
		}
	default:
		jsonError(w, "invalid path", http.StatusNotFound)
	}
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	apps, err := h.svc.ListApplications(r.Context(), userID, r.URL.Query().Get("status"))
	if err != nil {
		h.writeError(w, "listApplications", err)
		return
	}
	jsonOK(w, apps)
}

func (h *Handler) createApplication(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body struct {
		JobID    string  `json:"jobId"`
		ResumeID *string `json:"resumeId"`
		Notes    *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.JobID == "" {
		jsonError(w, "body must contain jobId", http.StatusBadRequest)
		return
	}

	app, err := h.svc.CreateApplication(r.Context(), userID, body.JobID, body.ResumeID, body.Notes)
	if err != nil {
		h.writeError(w, "createApplication", err)
		return
	}
	jsonStatus(w, http.StatusCreated, app)
}

func (h *Handler) getApplication(w http.ResponseWriter, r *http.Request, appID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	app, err := h.svc.GetApplication(r.Context(), userID, appID)
	if err != nil {
		h.writeError(w, "getApplication", err)
		return
	}
	jsonOK(w, app)
}

func (h *Handler) deleteApplication(w http.ResponseWriter, r *http.Request, appID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteApplication(r.Context(), userID, appID); err != nil {
		h.writeError(w, "deleteApplication", err)
		return
	}
	jsonOK(w, map[string]string{"detail": "application deleted"})
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, appID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var in TransitionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.NewStatus == "" {
		jsonError(w, "body must contain newStatus", http.StatusBadRequest)
		return
	}

	app, err := h.svc.Transition(r.Context(), userID, appID, in)
	if err != nil {
		h.writeError(w, "transition", err)
		return
	}
	jsonOK(w, app)
}

func (h *Handler) addNote(w http.ResponseWriter, r *http.Request, appID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var body struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	app, err := h.svc.AddNote(r.Context(), userID, appID, body.Note)
	if err != nil {
		h.writeError(w, "addNote", err)
		return
	}
	jsonOK(w, app)
}

func (h *Handler) allowedTargets(w http.ResponseWriter, r *http.Request, appID string) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	targets, err := h.svc.AllowedTargets(r.Context(), userID, appID)
	if err != nil {
		h.writeError(w, "allowedTargets", err)
		return
	}
	jsonOK(w, map[string][]lifecycle.Status{"targets": targets})
}

// handleRejectionReasons serves the advisory reason catalog for UI
// dropdowns. No auth: the catalog is static configuration.
func (h *Handler) handleRejectionReasons(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	jsonOK(w, map[string]any{
		"reasons":     lifecycle.RejectionReasons,
		"otherPrefix": lifecycle.OtherReasonPrefix,
	})
}

// ─── Error mapping ────────────────────────────────────────────────────────────

// writeError maps service and lifecycle errors to HTTP responses.
// Validation errors carry structured detail so the UI can highlight
// the exact offending fields.
func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	var (
		illegal *lifecycle.IllegalTransitionError
		missing *lifecycle.MissingFieldsError
		order   *lifecycle.OrderError
		ve      *ValidationError
	)
	switch {
	case errors.Is(err, ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.As(err, &illegal):
		jsonError(w, illegal.Error(), http.StatusBadRequest)
	case errors.As(err, &missing):
		jsonStatus(w, http.StatusBadRequest, map[string]any{
			"error":         missing.Error(),
			"missingFields": missing.Fields,
		})
	case errors.As(err, &order):
		jsonStatus(w, http.StatusBadRequest, map[string]any{
			"error":             order.Error(),
			"conflictingFields": []string{order.Earlier, order.Later},
		})
	case errors.As(err, &ve):
		jsonError(w, ve.Msg, http.StatusBadRequest)
	default:
		log.Printf("[tracker] %s error: %v", op, err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

func jsonOK(w http.ResponseWriter, v any) {
	jsonStatus(w, http.StatusOK, v)
}

func jsonStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	jsonStatus(w, code, map[string]string{"error": msg})
}
