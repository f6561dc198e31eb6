package pipeline

import (
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hcm/fhirsync/internal/platform/fhir"
)

// maxBundleBytes caps inbound bundle payloads.
const maxBundleBytes = 10 << 20

// Handler exposes the ingestion pipeline over HTTP.
type Handler struct {
	pipeline *Pipeline
	log      zerolog.Logger
}

func NewHandler(p *Pipeline, log zerolog.Logger) *Handler {
	return &Handler{pipeline: p, log: log}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/consumeFHIR", h.ConsumeFHIR)
	g.POST("/validate", h.Validate)
}

// ConsumeFHIR ingests a bundle and answers with the consolidated metrics.
// Unreadable or invalid bundles get a 400; a run where any record type
// failed to reconcile gets a 500 alongside the partial metrics.
func (h *Handler) ConsumeFHIR(c echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBundleBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
	}

	result, err := h.pipeline.Run(c.Request().Context(), raw)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.Is(err, ErrParse):
			return c.JSON(http.StatusBadRequest, fhir.ErrorOutcome("request body is not a FHIR bundle"))
		case errors.As(err, &verr):
			return c.JSON(http.StatusBadRequest, map[string]interface{}{
				"error":  "bundle validation failed",
				"issues": verr.Errors,
			})
		default:
			h.log.Error().Err(err).Msg("bundle processing failed")
			return echo.NewHTTPError(http.StatusInternalServerError, "processing failed")
		}
	}

	if len(result.Errors) > 0 {
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"error":   "processing failed",
			"metrics": result.Metrics,
			"errors":  result.Errors,
		})
	}
	return c.JSON(http.StatusOK, result.Metrics)
}

// Validate runs the structural check without touching any domain service.
func (h *Handler) Validate(c echo.Context) error {
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxBundleBytes))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unreadable request body")
	}

	vr := h.pipeline.Validate(raw)
	if !vr.Valid {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"valid":   false,
			"issues":  vr.Errors(),
			"outcome": vr.ToOperationOutcome(),
		})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"valid": true})
}
