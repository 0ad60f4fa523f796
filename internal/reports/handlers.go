package reports

import (
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
	r.Get("/periods/{periodID}/employees/{employeeID}/report", h.HandleEvaluationSummary)
}

func (h *Handler) HandleEvaluationSummary(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	periodID := chi.URLParam(r, "periodID")
	employeeID := chi.URLParam(r, "employeeID")

	filePath, err := h.Service.GenerateEvaluationSummary(r.Context(), periodID, employeeID)
	if err != nil {
		h.Logger.Error("evaluation summary failed", "periodId", periodID, "employeeId", employeeID, "err", err)
		api.Fail(w, http.StatusInternalServerError, api.CodeInternalError, "failed to generate report", requestID)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="evaluation-summary.pdf"`)
	http.ServeFile(w, r, filePath)
}
