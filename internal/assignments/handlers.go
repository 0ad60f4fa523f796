package assignments

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"perfboard/internal/api"
	"perfboard/internal/requestctx"
)

type Handler struct {
	Service *Service
	Logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{Service: service, Logger: logger}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/periods/{periodID}/employees/{employeeID}/projects", h.HandleAssignProject)
	r.Delete("/periods/{periodID}/employees/{employeeID}/projects/{projectID}", h.HandleCancelProject)
	r.Post("/periods/{periodID}/employees/{employeeID}/wbs", h.HandleAssignWbs)
	r.Delete("/periods/{periodID}/employees/{employeeID}/wbs/{wbsItemID}", h.HandleCancelWbs)
	r.Put("/wbs/{wbsItemID}/criteria", h.HandleUpsertCriteria)
}

type assignProjectRequest struct {
	ProjectID string `json:"projectId"`
}

func (h *Handler) HandleAssignProject(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	var req assignProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProjectID == "" {
		api.Fail(w, http.StatusBadRequest, api.CodeInvalidRequest, "projectId is required", requestID)
		return
	}

	periodID := chi.URLParam(r, "periodID")
	employeeID := chi.URLParam(r, "employeeID")
	id, err := h.Service.AssignProject(r.Context(), periodID, employeeID, req.ProjectID)
	if err != nil {
		h.Logger.Error("assign project failed", "periodId", periodID, "employeeId", employeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternalError, "failed to assign project", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) HandleCancelProject(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	periodID := chi.URLParam(r, "periodID")
	employeeID := chi.URLParam(r, "employeeID")
	projectID := chi.URLParam(r, "projectID")

	err := h.Service.CancelProject(r.Context(), periodID, employeeID, projectID)
	switch {
	case errors.Is(err, ErrNotFound):
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "project assignment not found", requestID)
	case err != nil:
		h.Logger.Error("cancel project failed", "periodId", periodID, "employeeId", employeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternalError, "failed to cancel project assignment", requestID)
	default:
		api.Success(w, map[string]bool{"cancelled": true}, requestID)
	}
}

type assignWbsRequest struct {
	ProjectID string `json:"projectId"`
	WbsItemID string `json:"wbsItemId"`
}

func (h *Handler) HandleAssignWbs(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	var req assignWbsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProjectID == "" || req.WbsItemID == "" {
		api.Fail(w, http.StatusBadRequest, api.CodeInvalidRequest, "projectId and wbsItemId are required", requestID)
		return
	}

	periodID := chi.URLParam(r, "periodID")
	employeeID := chi.URLParam(r, "employeeID")
	id, err := h.Service.AssignWbs(r.Context(), periodID, employeeID, req.ProjectID, req.WbsItemID)
	if err != nil {
		h.Logger.Error("assign wbs failed", "periodId", periodID, "employeeId", employeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternalError, "failed to assign wbs item", requestID)
		return
	}
	api.Created(w, map[string]string{"id": id}, requestID)
}

func (h *Handler) HandleCancelWbs(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	periodID := chi.URLParam(r, "periodID")
	employeeID := chi.URLParam(r, "employeeID")
	wbsItemID := chi.URLParam(r, "wbsItemID")

	err := h.Service.CancelWbs(r.Context(), periodID, employeeID, wbsItemID)
	switch {
	case errors.Is(err, ErrNotFound):
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "wbs assignment not found", requestID)
	case err != nil:
		h.Logger.Error("cancel wbs failed", "periodId", periodID, "employeeId", employeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternalError, "failed to cancel wbs assignment", requestID)
	default:
		api.Success(w, map[string]bool{"cancelled": true}, requestID)
	}
}

type upsertCriteriaRequest struct {
	Criteria []CriterionInput `json:"criteria"`
}

func (h *Handler) HandleUpsertCriteria(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	var req upsertCriteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Fail(w, http.StatusBadRequest, api.CodeInvalidRequest, "invalid request body", requestID)
		return
	}

	wbsItemID := chi.URLParam(r, "wbsItemID")
	err := h.Service.UpsertCriteria(r.Context(), wbsItemID, req.Criteria)
	switch {
	case errors.Is(err, ErrInvalidImportance):
		api.Fail(w, http.StatusBadRequest, api.CodeInvalidImportance, err.Error(), requestID)
	case err != nil:
		h.Logger.Error("upsert criteria failed", "wbsItemId", wbsItemID, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternalError, "failed to update criteria", requestID)
	default:
		api.Success(w, map[string]int{"count": len(req.Criteria)}, requestID)
	}
}
