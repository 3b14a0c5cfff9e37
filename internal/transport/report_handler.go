package transport

import (
	"net/http"
	"time"

	"github.com/furankuhanma/cafe-bianca-pos-system/internal/middleware"
	"github.com/furankuhanma/cafe-bianca-pos-system/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// defaultReportWindow matches the analytics view's initial "week" filter.
const defaultReportWindow = 7 * 24 * time.Hour

// ReportHandler handles HTTP requests for sales reporting
type ReportHandler struct {
	reportService service.ReportService
	logger        *zap.Logger
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService service.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// RegisterRoutes registers all report routes
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/reports/summary", h.Summary)
}

// Summary aggregates completed orders over [start, end]; both bounds are
// RFC3339 query parameters and default to the last seven days.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	end := time.Now()
	start := end.Add(-defaultReportWindow)

	if raw := r.URL.Query().Get("end"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid end time")
			return
		}
		end = parsed
	}
	if raw := r.URL.Query().Get("start"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "invalid start time")
			return
		}
		start = parsed
	}

	if start.After(end) {
		middleware.RespondWithError(w, http.StatusBadRequest, "start must not be after end")
		return
	}

	summary, err := h.reportService.Summary(r.Context(), start, end)
	if err != nil {
		h.logger.Error("Failed to build sales summary", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to build sales summary")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, summary)
}
