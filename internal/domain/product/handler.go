package product

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hcm/fhirsync/internal/platform/fhir"
	"github.com/hcm/fhirsync/pkg/pagination"
)

// Handler serves product variants projected back into searchset bundles.
type Handler struct {
	svc *Syncer
	log zerolog.Logger
}

func NewHandler(svc *Syncer, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/fetchAllProductVariants", h.FetchAllProductVariants)
}

func (h *Handler) FetchAllProductVariants(c echo.Context) error {
	pg := pagination.FromContext(c)

	var req struct {
		ProductVariant *searchBody `json:"ProductVariant,omitempty"`
	}
	_ = c.Bind(&req)
	var ids []string
	if req.ProductVariant != nil {
		ids = req.ProductVariant.ID
	}

	records, total, err := h.svc.Fetch(c.Request().Context(), ids, pg.Limit, pg.Offset)
	if err != nil {
		h.log.Error().Err(err).Msg("fetch product variants")
		return echo.NewHTTPError(http.StatusBadGateway, "product service unavailable")
	}

	resources := make([]interface{}, 0, len(records))
	for _, rec := range records {
		resources = append(resources, rec.ToFHIR())
	}
	return c.JSON(http.StatusOK, fhir.NewSearchBundle(resources, fhir.SearchBundleParams{
		RequestURL: c.Request().URL.Path,
		Limit:      pg.Limit,
		Offset:     pg.Offset,
		Total:      total,
	}))
}
