package dashboard

import (
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
	r.Get("/periods/{periodID}/status", h.HandlePeriodStatuses)
	r.Get("/periods/{periodID}/employees/{employeeID}/status", h.HandleEmployeeStatus)
	r.Get("/periods/{periodID}/employees/{employeeID}/assigned", h.HandleAssignedData)
	r.Get("/periods/{periodID}/my/assigned", h.HandleMyAssignedData)
	r.Get("/periods/{periodID}/evaluatees/{employeeID}/status", h.HandleEvaluateeStatus)
}

func (h *Handler) HandleEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	periodID := chi.URLParam(r, "periodID")
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.Service.ComputeEmployeeStatus(r.Context(), periodID, employeeID)
	if err != nil {
		h.Logger.Error("employee status failed", "periodId", periodID, "employeeId", employeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternalError, "failed to compute status", requestID)
		return
	}
	api.Success(w, result, requestID)
}

func (h *Handler) HandlePeriodStatuses(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	periodID := chi.URLParam(r, "periodID")

	results, err := h.Service.PeriodStatuses(r.Context(), periodID)
	if err != nil {
		h.Logger.Error("period statuses failed", "periodId", periodID, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternalError, "failed to compute period statuses", requestID)
		return
	}
	api.Success(w, results, requestID)
}

func (h *Handler) HandleAssignedData(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	employeeID := chi.URLParam(r, "employeeID")
	h.writeAssignedData(w, r, periodID, employeeID)
}

// HandleMyAssignedData resolves the employee from the authenticated identity.
func (h *Handler) HandleMyAssignedData(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity, ok := requestctx.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.CodeUnauthorized, "authentication required", requestID)
		return
	}
	h.writeAssignedData(w, r, chi.URLParam(r, "periodID"), identity.EmployeeID)
}

func (h *Handler) writeAssignedData(w http.ResponseWriter, r *http.Request, periodID, employeeID string) {
	requestID := requestctx.GetRequestID(r.Context())

	result, err := h.Service.AssignedData(r.Context(), periodID, employeeID)
	switch {
	case errors.Is(err, ErrNotFound):
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "employee is not mapped to this period", requestID)
	case errors.Is(err, ErrExcludedTarget):
		api.Fail(w, http.StatusUnprocessableEntity, api.CodeExcludedTarget, "employee is excluded from evaluation", requestID)
	case err != nil:
		h.Logger.Error("assigned data failed", "periodId", periodID, "employeeId", employeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternalError, "failed to load assigned data", requestID)
	default:
		api.Success(w, result, requestID)
	}
}

func (h *Handler) HandleEvaluateeStatus(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	identity, ok := requestctx.GetIdentity(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, api.CodeUnauthorized, "authentication required", requestID)
		return
	}
	periodID := chi.URLParam(r, "periodID")
	employeeID := chi.URLParam(r, "employeeID")

	result, err := h.Service.EvaluateeStatus(r.Context(), periodID, employeeID, identity.EmployeeID)
	switch {
	case errors.Is(err, ErrNotFound):
		api.Fail(w, http.StatusNotFound, api.CodeNotFound, "no active evaluation mapping for this employee", requestID)
	case err != nil:
		h.Logger.Error("evaluatee status failed", "periodId", periodID, "employeeId", employeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternalError, "failed to compute status", requestID)
	default:
		api.Success(w, result, requestID)
	}
}
