// HTTP handlers for deadlines.
//
// Routes:
//
//	GET    /deadlines                 → list user's deadlines by due date
//	POST   /deadlines                 → create deadline
//	POST   /deadlines/{id}/complete   → mark completed
//	DELETE /deadlines/{id}            → delete deadline
package deadline

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
)

// Handler exposes the Service over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler returns a configured Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts all deadline routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/deadlines", h.handleDeadlines)
	mux.HandleFunc("/deadlines/", h.handleDeadlineAction)
}

func (h *Handler) handleDeadlines(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	switch r.Method {
	case http.MethodGet:
		list, err := h.svc.List(r.Context(), userID)
		if err != nil {
			h.writeError(w, "list", err)
			return
		}
		jsonOK(w, list)
	case http.MethodPost:
		var in CreateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil ||
			in.ApplicationID == "" || in.Title == "" || in.DueDate.IsZero() {
			jsonError(w, "body must contain applicationId, title and dueDate", http.StatusBadRequest)
			return
		}
		d, err := h.svc.Create(r.Context(), userID, in)
		if err != nil {
			h.writeError(w, "create", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(d)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleDeadlineAction(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")

	switch {
	case len(parts) == 2 && r.Method == http.MethodDelete: // /deadlines/{id}
		if err := h.svc.Delete(r.Context(), userID, parts[1]); err != nil {
			h.writeError(w, "delete", err)
			return
		}
		jsonOK(w, map[string]string{"detail": "deadline deleted"})
	case len(parts) == 3 && parts[2] == "complete" && r.Method == http.MethodPost:
		d, err := h.svc.Complete(r.Context(), userID, parts[1])
		if err != nil {
			h.writeError(w, "complete", err)
			return
		}
		jsonOK(w, d)
	default:
		jsonError(w, fmt.Sprintf("invalid path %q", r.URL.Path), http.StatusNotFound)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, ErrNotFound) {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	log.Printf("[deadline] %s error: %v", op, err)
	jsonError(w, "internal error", http.StatusInternalServerError)
}

func jsonOK(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
