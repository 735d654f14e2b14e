// Package api exposes HTTP handlers for the activities service.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"time"

	"go.uber.org/zap"

	"example.com/activities/internal/domain"
)

const indexPath = "/static/index.html"

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service *domain.Service
	assets  fs.FS
	logger  *zap.Logger
}

// NewHandler builds a Handler. assets may be nil, in which case no static routes are served.
func NewHandler(service *domain.Service, assets fs.FS, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: service, assets: assets, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.root)
	mux.HandleFunc("GET /activities", h.listActivities)
	mux.HandleFunc("GET /activities/{activity_name}", h.getActivity)
	mux.HandleFunc("POST /activities/{activity_name}/signup", h.signup)
	mux.HandleFunc("DELETE /activities/{activity_name}/unregister", h.unregister)
	mux.HandleFunc("GET /healthz", healthz)
	if h.assets != nil {
		mux.HandleFunc("GET "+indexPath, h.index)
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(h.assets)))
	}
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, indexPath, http.StatusTemporaryRedirect)
}

// index serves the page directly; http.FileServer would redirect /index.html to the directory.
func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	page, err := fs.ReadFile(h.assets, "index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", time.Time{}, bytes.NewReader(page))
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := h.service.ListActivities(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	resp := make(ListActivitiesResponse, len(activities))
	for _, activity := range activities {
		resp[activity.Name] = toActivityView(activity)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request) {
	activity, err := h.service.GetActivity(r.Context(), r.PathValue("activity_name"))
	if err != nil {
		h.domainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toActivityView(*activity))
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	email, ok := emailParam(w, r)
	if !ok {
		return
	}

	message, err := h.service.Signup(r.Context(), r.PathValue("activity_name"), email)
	if err != nil {
		h.domainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: message})
}

func (h *Handler) unregister(w http.ResponseWriter, r *http.Request) {
	email, ok := emailParam(w, r)
	if !ok {
		return
	}

	message, err := h.service.Unregister(r.Context(), r.PathValue("activity_name"), email)
	if err != nil {
		h.domainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: message})
}

// emailParam requires the email query parameter to be present; an empty value is accepted.
func emailParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	values, ok := r.URL.Query()["email"]
	if !ok || len(values) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "validation_failed", "missing email query parameter")
		return "", false
	}
	return values[0], true
}

func (h *Handler) domainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Activity not found")
	case errors.Is(err, domain.ErrAlreadyRegistered):
		writeError(w, http.StatusBadRequest, "already_registered", "Student is already signed up")
	case errors.Is(err, domain.ErrNotRegistered):
		writeError(w, http.StatusBadRequest, "not_registered", "Student is not registered for this activity")
	case errors.Is(err, domain.ErrActivityFull):
		writeError(w, http.StatusBadRequest, "activity_full", "Activity is full")
	default:
		h.serverError(w, r, err)
	}
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeError(w, http.StatusInternalServerError, "server_error", "internal server error")
}

// ActivityView is the wire form of an activity; the name is the key of the enclosing object.
type ActivityView struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// ListActivitiesResponse maps activity name to its details.
type ListActivitiesResponse map[string]ActivityView

// MessageResponse carries a confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, ErrorResponse{Type: code, Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toActivityView(activity domain.Activity) ActivityView {
	participants := activity.Participants
	if participants == nil {
		participants = []string{}
	}
	return ActivityView{
		Description:     activity.Description,
		Schedule:        activity.Schedule,
		MaxParticipants: activity.MaxParticipants,
		Participants:    participants,
	}
}
