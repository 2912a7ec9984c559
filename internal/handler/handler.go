// Package handler provides HTTP request handlers for the application.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/zap"

	"github.com/salesloop/reengage/internal/middleware"
	"github.com/salesloop/reengage/internal/models"
	"github.com/salesloop/reengage/internal/repository"
	"github.com/salesloop/reengage/internal/scheduler"
	"github.com/salesloop/reengage/internal/service"
)

const (
	errorCodeLeadNotFound       = "LEAD_NOT_FOUND"
	errorCodeInvalidRequest     = "INVALID_REQUEST"
	errorCodeLoopAlreadyRunning = "LOOP_ALREADY_RUNNING"
	errorCodeLoopNotRunning     = "LOOP_NOT_RUNNING"
)

const (
	errorMessageLeadNotFound      = "Lead not found"
	errorMessageFailedToSchedule  = "Failed to schedule follow-up"
	errorMessageFailedToCancel    = "Failed to cancel follow-ups"
	errorMessageFailedToGetHist   = "Failed to retrieve follow-up history"
	errorMessageFailedToRegister  = "Failed to register message"
	errorMessageLoopAlreadyOn     = "Loop is already running"
	errorMessageLoopAlreadyOff    = "Loop is not running"
	errorMessageFailedToStartLoop = "Failed to start loop"
	errorMessageFailedToStopLoop  = "Failed to stop loop"
)

// Handler serves the operational HTTP API.
type Handler struct {
	service *service.Service
	logger  *zap.Logger
}

// NewHandler creates a handler over the service layer.
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: svc,
		logger:  logger,
	}
}

// Routes builds the router for all API endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/leads/{leadID}/followups", func(r chi.Router) {
			r.Post("/", h.ScheduleFollowUp)
			r.Get("/", h.GetFollowUpHistory)
			r.Delete("/", h.CancelFollowUps)
		})

		r.Post("/messages", h.RegisterMessage)

		r.Route("/loops", func(r chi.Router) {
			r.Post("/executor/start", h.startLoop("executor"))
			r.Post("/executor/stop", h.stopLoop("executor"))
			r.Post("/monitor/start", h.startLoop("monitor"))
			r.Post("/monitor/stop", h.stopLoop("monitor"))
		})
	})

	return r
}

// ScheduleRequest is the body of a manual scheduling request.
type ScheduleRequest struct {
	Trigger string `json:"trigger,omitempty"`
}

// ScheduleFollowUp requests the next follow-up tier for a lead.
func (h *Handler) ScheduleFollowUp(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	var req ScheduleRequest
	if r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidRequest, "Invalid request body")
			return
		}
	}
	trigger := req.Trigger
	if trigger == "" {
		trigger = service.TriggerManual
	}

	outcome, err := h.service.FollowUp.Schedule(r.Context(), leadID, trigger)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(w, r, http.StatusNotFound, errorCodeLeadNotFound, errorMessageLeadNotFound)
			return
		}
		h.logger.Error("Failed to schedule follow-up",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("lead_id", leadID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedToSchedule)
		return
	}

	if !outcome.Skipped {
		render.Status(r, http.StatusCreated)
	}
	render.JSON(w, r, outcome)
}

// FollowUpHistoryResponse lists a lead's follow-ups, newest first.
type FollowUpHistoryResponse struct {
	FollowUps []*models.FollowUp `json:"follow_ups"`
	Total     int                `json:"total"`
}

// GetFollowUpHistory returns every follow-up recorded for a lead.
func (h *Handler) GetFollowUpHistory(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	followUps, err := h.service.FollowUp.History(r.Context(), leadID)
	if err != nil {
		h.logger.Error("Failed to get follow-up history",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("lead_id", leadID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedToGetHist)
		return
	}

	if followUps == nil {
		followUps = []*models.FollowUp{}
	}
	render.JSON(w, r, FollowUpHistoryResponse{
		FollowUps: followUps,
		Total:     len(followUps),
	})
}

// CancelRequest is the body of a cancellation request.
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// CancelResponse reports how many follow-ups a cancellation touched.
type CancelResponse struct {
	Cancelled int64 `json:"cancelled"`
}

// CancelFollowUps cancels all pending follow-ups for a lead.
func (h *Handler) CancelFollowUps(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")

	var req CancelRequest
	if r.ContentLength > 0 {
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidRequest, "Invalid request body")
			return
		}
	}
	reason := req.Reason
	if reason == "" {
		reason = "operator_request"
	}

	cancelled, err := h.service.FollowUp.CancelForLead(r.Context(), leadID, reason)
	if err != nil {
		h.logger.Error("Failed to cancel follow-ups",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("lead_id", leadID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedToCancel)
		return
	}

	render.JSON(w, r, CancelResponse{Cancelled: cancelled})
}

// MessageRequest is one inbound conversation turn.
type MessageRequest struct {
	LeadID  string `json:"lead_id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RegisterMessage records a conversation turn and refreshes inactivity
// tracking for the lead.
func (h *Handler) RegisterMessage(w http.ResponseWriter, r *http.Request) {
	var req MessageRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidRequest, "Invalid request body")
		return
	}

	role := models.MessageRole(req.Role)
	if req.LeadID == "" || req.Content == "" || (role != models.MessageRoleUser && role != models.MessageRoleAssistant) {
		h.sendError(w, r, http.StatusBadRequest, errorCodeInvalidRequest,
			"lead_id, content and a role of user or assistant are required")
		return
	}

	if err := h.service.Conversation.RegisterInbound(r.Context(), req.LeadID, role, req.Content); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.sendError(w, r, http.StatusNotFound, errorCodeLeadNotFound, errorMessageLeadNotFound)
			return
		}
		h.logger.Error("Failed to register message",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("lead_id", req.LeadID),
			zap.Error(err))
		h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedToRegister)
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "recorded"})
}

// LoopResponse reports a loop control action.
type LoopResponse struct {
	Loop    string `json:"loop"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type loopControl interface {
	Start(ctx context.Context) error
	Stop() error
	IsRunning() bool
}

func (h *Handler) loopByName(name string) loopControl {
	if name == "monitor" {
		return h.service.Monitor
	}
	return h.service.Executor
}

func (h *Handler) startLoop(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The loop must outlive the request.
		if err := h.loopByName(name).Start(context.Background()); err != nil {
			if errors.Is(err, scheduler.ErrSchedulerAlreadyRunning) {
				h.sendError(w, r, http.StatusConflict, errorCodeLoopAlreadyRunning, errorMessageLoopAlreadyOn)
				return
			}
			h.logger.Error("Failed to start loop",
				zap.String("loop", name), zap.Error(err))
			h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedToStartLoop)
			return
		}

		render.JSON(w, r, LoopResponse{Loop: name, Status: "started", Message: "Loop started successfully"})
	}
}

func (h *Handler) stopLoop(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.loopByName(name).Stop(); err != nil {
			if errors.Is(err, scheduler.ErrSchedulerNotRunning) {
				h.sendError(w, r, http.StatusConflict, errorCodeLoopNotRunning, errorMessageLoopAlreadyOff)
				return
			}
			h.logger.Error("Failed to stop loop",
				zap.String("loop", name), zap.Error(err))
			h.sendError(w, r, http.StatusInternalServerError, middleware.ErrorCodeInternal, errorMessageFailedToStopLoop)
			return
		}

		render.JSON(w, r, LoopResponse{Loop: name, Status: "stopped", Message: "Loop stopped successfully"})
	}
}

// HealthResponse is the health endpoint body.
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	Timestamp  time.Time         `json:"timestamp"`
}

// HealthCheck reports aggregate service health. An unhealthy database turns
// into a 503; everything else stays 200 so monitoring can read the degraded
// detail.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := h.service.Health.Check(r.Context())

	if health.Status == "unhealthy" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}

	render.JSON(w, r, HealthResponse{
		Status:     health.Status,
		Components: health.Components,
		Timestamp:  time.Now(),
	})
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func (h *Handler) sendError(w http.ResponseWriter, r *http.Request, statusCode int, errorCode, message string) {
	render.Status(r, statusCode)
	render.JSON(w, r, ErrorResponse{
		Error:     errorCode,
		Message:   message,
		Timestamp: time.Now(),
	})
}
