package facility

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hcm/fhirsync/internal/platform/db"
	"github.com/hcm/fhirsync/internal/platform/fhir"
	"github.com/hcm/fhirsync/pkg/pagination"
)

// Handler serves facility reads: remote fetch projected as a searchset, and
// cached single lookups from the registry replica when one is wired.
type Handler struct {
	svc      *Syncer
	registry *db.Registry
	log      zerolog.Logger
}

func NewHandler(svc *Syncer, registry *db.Registry, log zerolog.Logger) *Handler {
	return &Handler{svc: svc, registry: registry, log: log}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/fetchAllFacilities", h.FetchAllFacilities)
	if h.registry != nil {
		g.GET("/facilities/:id", h.GetFacility)
	}
}

func (h *Handler) FetchAllFacilities(c echo.Context) error {
	pg := pagination.FromContext(c)

	var req struct {
		Facility *searchBody `json:"Facility,omitempty"`
	}
	_ = c.Bind(&req)
	var ids []string
	if req.Facility != nil {
		ids = req.Facility.ID
	}

	records, total, err := h.svc.Fetch(c.Request().Context(), ids, pg.Limit, pg.Offset)
	if err != nil {
		h.log.Error().Err(err).Msg("fetch facilities")
		return echo.NewHTTPError(http.StatusBadGateway, "facility service unavailable")
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

// GetFacility reads one facility from the replica, cache first.
func (h *Handler) GetFacility(c echo.Context) error {
	rec, err := h.registry.Facility(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "facility not found")
		}
		h.log.Error().Err(err).Str("id", c.Param("id")).Msg("registry facility lookup")
		return echo.NewHTTPError(http.StatusInternalServerError, "lookup failed")
	}

	f := &Facility{
		ID:              rec.ID,
		TenantID:        rec.TenantID,
		Name:            rec.Name,
		Usage:           rec.Usage,
		StorageCapacity: rec.StorageCapacity,
	}
	return c.JSON(http.StatusOK, f.ToFHIR())
}
