package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozend/earnings-proxy/internal/adapters/http/dto"
	"github.com/ozend/earnings-proxy/internal/app"
)

// SummaryService produces earnings call summaries. It is satisfied by
// *app.SummaryService and declared here so handlers can be tested with
// a stub.
type SummaryService interface {
	GetSummary(ctx context.Context, ticker, quarter string) (*app.SummaryResult, error)
}

// SummaryHandler handles the summary endpoint.
type SummaryHandler struct {
	service SummaryService
	logger  *slog.Logger
}

// NewSummaryHandler creates a new summary handler.
func NewSummaryHandler(service SummaryService, logger *slog.Logger) *SummaryHandler {
	if service == nil {
		panic("summary handler requires a service")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SummaryHandler{
		service: service,
		logger:  logger,
	}
}

// GetSummary handles GET /summary?symbol=OZN&quarter=2026Q1.
// Query parameters are validated before any upstream work happens, so a
// malformed quarter never triggers a provider call.
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	var req dto.SummaryRequest

	err := dto.BindQueryAndValidate(c, &req)
	if err != nil {
		if dto.IsValidationError(err) {
			RespondWithValidationErrors(c, dto.ValidationErrors(err))
			return
		}

		RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "invalid query parameters")

		return
	}

	result, err := h.service.GetSummary(c.Request.Context(), req.Symbol, req.Quarter)
	if err != nil {
		RespondWithError(c, err)
		return
	}

	h.logger.InfoContext(c.Request.Context(), "summary served",
		"ticker", result.Summary.Ticker,
		"quarter", result.Summary.Quarter,
		"source", result.Summary.Source,
		"cached", result.Cached,
	)

	c.JSON(http.StatusOK, dto.NewSummaryResponse(result.Summary, result.Markdown, result.Cached))
}
