package stock

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hcm/fhirsync/internal/platform/fhir"
	"github.com/hcm/fhirsync/pkg/pagination"
)

// Handler serves the outbound read API: domain records projected back into
// searchset bundles.
type Handler struct {
	stocks *Syncer
	recons *ReconciliationSyncer
	log    zerolog.Logger
}

func NewHandler(stocks *Syncer, recons *ReconciliationSyncer, log zerolog.Logger) *Handler {
	return &Handler{stocks: stocks, recons: recons, log: log}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/fetchAllStocks", h.FetchAllStocks)
	g.POST("/fetchAllStockReconciliation", h.FetchAllStockReconciliation)
}

// fetchRequest is the optional body narrowing a fetch to specific ids.
type fetchRequest struct {
	Stock               *searchBody `json:"Stock,omitempty"`
	StockReconciliation *searchBody `json:"StockReconciliation,omitempty"`
}

func (h *Handler) FetchAllStocks(c echo.Context) error {
	pg := pagination.FromContext(c)

	var req fetchRequest
	_ = c.Bind(&req)
	var ids []string
	if req.Stock != nil {
		ids = req.Stock.ID
	}

	records, total, err := h.stocks.Fetch(c.Request().Context(), ids, pg.Limit, pg.Offset)
	if err != nil {
		h.log.Error().Err(err).Msg("fetch stocks")
		return echo.NewHTTPError(http.StatusBadGateway, "stock service unavailable")
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

func (h *Handler) FetchAllStockReconciliation(c echo.Context) error {
	pg := pagination.FromContext(c)

	var req fetchRequest
	_ = c.Bind(&req)
	var ids []string
	if req.StockReconciliation != nil {
		ids = req.StockReconciliation.ID
	}

	records, total, err := h.recons.Fetch(c.Request().Context(), ids, pg.Limit, pg.Offset)
	if err != nil {
		h.log.Error().Err(err).Msg("fetch stock reconciliations")
		return echo.NewHTTPError(http.StatusBadGateway, "stock reconciliation service unavailable")
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
