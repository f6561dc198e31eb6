package boundary

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hcm/fhirsync/internal/platform/db"
	"github.com/hcm/fhirsync/internal/platform/fhir"
	"github.com/hcm/fhirsync/pkg/pagination"
)

// Handler serves the boundary hierarchy: remote fetch projected as a
// searchset, and a cursor listing from the replica when one is wired.
type Handler struct {
	svc      *Syncer
	registry *db.Registry
	log      zerolog.Logger
}

func NewHandler(svc *Syncer, registry *db.Registry, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, registry: registry, log: log}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/fetchAllBoundaries", h.FetchAllBoundaries)
	if h.registry != nil {
		g.GET("/boundaries", h.ListBoundaries)
	}
}

func (h *Handler) FetchAllBoundaries(c echo.Context) error {
	pg := pagination.FromContext(c)

	var req struct {
		Boundary *struct {
			Code []string `json:"code"`
		} `json:"Boundary,omitempty"`
	}
	_ = c.Bind(&req)
	var codes []string
	if req.Boundary != nil {
		codes = req.Boundary.Code
	}

	relations, err := h.svc.Fetch(c.Request().Context(), codes)
	if err != nil {
		h.log.Error().Err(err).Msg("fetch boundaries")
		return echo.NewHTTPError(http.StatusBadGateway, "boundary service unavailable")
	}

	total := len(relations)
	page := relations
	if pg.Offset < len(page) {
		page = page[pg.Offset:]
	} else {
		page = nil
	}
	if len(page) > pg.Limit {
		page = page[:pg.Limit]
	}

	resources := make([]interface{}, 0, len(page))
	for _, rel := range page {
		resources = append(resources, rel.ToFHIR())
	}
	return c.JSON(http.StatusOK, fhir.NewSearchBundle(resources, fhir.SearchBundleParams{
		RequestURL: c.Request().URL.Path,
		Limit:      pg.Limit,
		Offset:     pg.Offset,
		Total:      total,
	}))
}

// ListBoundaries pages the replica with an id cursor instead of offsets so
// the listing stays stable while rows are inserted.
func (h *Handler) ListBoundaries(c echo.Context) error {
	page := db.BoundaryPage{
		AfterID: c.QueryParam("afterId"),
		Count:   pagination.FromContext(c).Limit,
	}
	if raw := c.QueryParam("lastModifiedDate"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			since, err = time.Parse("2006-01-02", raw)
		}
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid lastModifiedDate")
		}
		page.Since = &since
	}

	ctx := c.Request().Context()
	records, err := h.registry.Boundaries(ctx, page)
	if err != nil {
		h.log.Error().Err(err).Msg("list boundaries")
		return echo.NewHTTPError(http.StatusInternalServerError, "listing failed")
	}
	total, err := h.registry.CountBoundaries(ctx, page)
	if err != nil {
		h.log.Error().Err(err).Msg("count boundaries")
		return echo.NewHTTPError(http.StatusInternalServerError, "listing failed")
	}

	resources := make([]interface{}, 0, len(records))
	for _, rec := range records {
		resources = append(resources, LocationFromRecord(rec))
	}
	return c.JSON(http.StatusOK, fhir.NewSearchBundle(resources, fhir.SearchBundleParams{
		RequestURL: c.Request().URL.Path,
		Limit:      page.Count,
		Offset:     0,
		Total:      total,
	}))
}
