package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"funnel-engine/internal/common/errors"
	"funnel-engine/internal/common/logger"
	"funnel-engine/internal/models"
	"funnel-engine/internal/service"
)

type handler struct {
	svc *service.FunnelService
	log logger.Logger
}

// Step actions accepted by PATCH /api/sessions/{id}.
const (
	actionAnswer   = "answer"
	actionLead     = "lead"
	actionContinue = "continue"
	actionBack     = "back"
)

// End actions accepted by POST /api/sessions/{id}.
const (
	actionComplete = "complete"
	actionAbandon  = "abandon"
)

type stepRequest struct {
	Action   string            `json:"action"`
	AnswerID string            `json:"answerId,omitempty"`
	Fields   models.LeadFields `json:"fields,omitempty"`
}

type endRequest struct {
	Action string `json:"action"`
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) createSession(w http.ResponseWriter, r *http.Request) {
	meta := models.SessionMetadata{
		UserAgent: r.UserAgent(),
		IPAddress: r.RemoteAddr,
		Referrer:  r.Referer(),
	}

	view, err := h.svc.StartSession(r.Context(), meta)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *handler) listSessions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	sessions, err := h.svc.ListSessions(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": sessions})
}

func (h *handler) getSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetSession(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handler) stepSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var req stepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	var (
		view *service.SessionView
		err  error
	)
	switch req.Action {
	case actionAnswer:
		view, err = h.svc.AnswerQuestion(r.Context(), id, req.AnswerID)
	case actionLead:
		view, err = h.svc.SubmitLead(r.Context(), id, req.Fields)
	case actionContinue:
		view, err = h.svc.Continue(r.Context(), id)
	case actionBack:
		view, err = h.svc.GoBack(r.Context(), id)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown action"})
		return
	}

	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handler) endSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var req endRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	var (
		view *service.SessionView
		err  error
	)
	switch req.Action {
	case actionComplete:
		view, err = h.svc.Complete(r.Context(), id)
	case actionAbandon:
		view, err = h.svc.Abandon(r.Context(), id)
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown action"})
		return
	}

	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// writeError maps domain errors onto HTTP statuses. Unknown session ids are
// always a generic 404 so the endpoint does not confirm which ids exist.
func (h *handler) writeError(w http.ResponseWriter, err error) {
	if errors.IsNotFound(err) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "session not found"})
		return
	}

	if errors.IsValidation(err) {
		ve := err.(*errors.ValidationError)
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "validation failed",
			Fields: ve.FieldMessages(),
		})
		return
	}

	var stdErr *errors.StandardError
	if errors.AsStandard(err, &stdErr) {
		switch stdErr.Code {
		case errors.ErrCodeSessionEnded:
			writeJSON(w, http.StatusConflict, errorResponse{Error: stdErr.Message})
			return
		case errors.ErrCodeUnknownAnswer, errors.ErrCodeUnknownNode:
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: stdErr.Message})
			return
		}
	}

	h.log.WithError(err).Error("Request failed", nil)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
