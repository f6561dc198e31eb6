package stock

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hcm/fhirsync/internal/config"
	"github.com/hcm/fhirsync/internal/platform/digit"
)

// Syncer adapts the stock service's bulk contract for reconciliation. The
// search request carries a list of ids; the response collection names the
// records that already exist.
type Syncer struct {
	client *digit.Client
	urls   config.ServiceURLs
	log    zerolog.Logger
}

func NewSyncer(client *digit.Client, urls config.ServiceURLs, log zerolog.Logger) *Syncer {
	return &Syncer{
		client: client,
		urls:   urls,
		log:    log.With().Str("component", "stock_syncer").Logger(),
	}
}

type searchBody struct {
	ID []string `json:"id"`
}

type stockSearchRequest struct {
	RequestInfo digit.RequestInfo `json:"RequestInfo"`
	Stock       searchBody        `json:"Stock"`
}

type stockSearchResponse struct {
	TotalCount *int     `json:"totalCount,omitempty"`
	Stock      []*Stock `json:"Stock"`
}

type stockBulkRequest struct {
	RequestInfo digit.RequestInfo `json:"RequestInfo"`
	Stock       []*Stock          `json:"Stock"`
}

// CheckExisting returns the subset of ids the stock service already knows.
// An absent collection in the response means none exist.
func (s *Syncer) CheckExisting(ctx context.Context, ids []string) ([]string, error) {
	records, _, err := s.search(ctx, ids, len(ids), 0)
	if err != nil {
		return nil, fmt.Errorf("check existing stocks: %w", err)
	}
	existing := make([]string, 0, len(records))
	for _, rec := range records {
		existing = append(existing, rec.ID)
	}
	return existing, nil
}

func (s *Syncer) Create(ctx context.Context, records []*Stock) error {
	if s.urls.Create == "" {
		return fmt.Errorf("create stocks: no endpoint configured")
	}
	req := stockBulkRequest{RequestInfo: s.client.NewRequestInfo(), Stock: records}
	if err := s.client.Send(ctx, s.urls.Create, req); err != nil {
		return fmt.Errorf("create stocks: %w", err)
	}
	s.log.Info().Int("count", len(records)).Msg("stocks created")
	return nil
}

func (s *Syncer) Update(ctx context.Context, records []*Stock) error {
	if s.urls.Update == "" {
		return fmt.Errorf("update stocks: no endpoint configured")
	}
	req := stockBulkRequest{RequestInfo: s.client.NewRequestInfo(), Stock: records}
	if err := s.client.Send(ctx, s.urls.Update, req); err != nil {
		return fmt.Errorf("update stocks: %w", err)
	}
	s.log.Info().Int("count", len(records)).Msg("stocks updated")
	return nil
}

// Fetch pages through stock records for the outbound read API. The returned
// total is the service-side match count when provided, else the page length.
func (s *Syncer) Fetch(ctx context.Context, ids []string, limit, offset int) ([]*Stock, int, error) {
	records, total, err := s.search(ctx, ids, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch stocks: %w", err)
	}
	return records, total, nil
}

func (s *Syncer) search(ctx context.Context, ids []string, limit, offset int) ([]*Stock, int, error) {
	req := stockSearchRequest{
		RequestInfo: s.client.NewRequestInfo(),
		Stock:       searchBody{ID: ids},
	}
	var resp stockSearchResponse
	if err := s.client.Search(ctx, s.urls.Search, limit, offset, req, &resp); err != nil {
		return nil, 0, err
	}
	total := len(resp.Stock)
	if resp.TotalCount != nil {
		total = *resp.TotalCount
	}
	return resp.Stock, total, nil
}

// ReconciliationSyncer adapts the stock reconciliation service.
type ReconciliationSyncer struct {
	client *digit.Client
	urls   config.ServiceURLs
	log    zerolog.Logger
}

func NewReconciliationSyncer(client *digit.Client, urls config.ServiceURLs, log zerolog.Logger) *ReconciliationSyncer {
	return &ReconciliationSyncer{
		client: client,
		urls:   urls,
		log:    log.With().Str("component", "stock_recon_syncer").Logger(),
	}
}

type reconSearchRequest struct {
	RequestInfo         digit.RequestInfo `json:"RequestInfo"`
	StockReconciliation searchBody        `json:"StockReconciliation"`
}

type reconSearchResponse struct {
	TotalCount          *int              `json:"totalCount,omitempty"`
	StockReconciliation []*Reconciliation `json:"StockReconciliation"`
}

type reconBulkRequest struct {
	RequestInfo         digit.RequestInfo `json:"RequestInfo"`
	StockReconciliation []*Reconciliation `json:"StockReconciliation"`
}

func (s *ReconciliationSyncer) CheckExisting(ctx context.Context, ids []string) ([]string, error) {
	records, _, err := s.search(ctx, ids, len(ids), 0)
	if err != nil {
		return nil, fmt.Errorf("check existing stock reconciliations: %w", err)
	}
	existing := make([]string, 0, len(records))
	for _, rec := range records {
		existing = append(existing, rec.ID)
	}
	return existing, nil
}

func (s *ReconciliationSyncer) Create(ctx context.Context, records []*Reconciliation) error {
	if s.urls.Create == "" {
		return fmt.Errorf("create stock reconciliations: no endpoint configured")
	}
	req := reconBulkRequest{RequestInfo: s.client.NewRequestInfo(), StockReconciliation: records}
	if err := s.client.Send(ctx, s.urls.Create, req); err != nil {
		return fmt.Errorf("create stock reconciliations: %w", err)
	}
	s.log.Info().Int("count", len(records)).Msg("stock reconciliations created")
	return nil
}

func (s *ReconciliationSyncer) Update(ctx context.Context, records []*Reconciliation) error {
	if s.urls.Update == "" {
		return fmt.Errorf("update stock reconciliations: no endpoint configured")
	}
	req := reconBulkRequest{RequestInfo: s.client.NewRequestInfo(), StockReconciliation: records}
	if err := s.client.Send(ctx, s.urls.Update, req); err != nil {
		return fmt.Errorf("update stock reconciliations: %w", err)
	}
	s.log.Info().Int("count", len(records)).Msg("stock reconciliations updated")
	return nil
}

func (s *ReconciliationSyncer) Fetch(ctx context.Context, ids []string, limit, offset int) ([]*Reconciliation, int, error) {
	records, total, err := s.search(ctx, ids, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch stock reconciliations: %w", err)
	}
	return records, total, nil
}

func (s *ReconciliationSyncer) search(ctx context.Context, ids []string, limit, offset int) ([]*Reconciliation, int, error) {
	req := reconSearchRequest{
		RequestInfo:         s.client.NewRequestInfo(),
		StockReconciliation: searchBody{ID: ids},
	}
	var resp reconSearchResponse
	if err := s.client.Search(ctx, s.urls.Search, limit, offset, req, &resp); err != nil {
		return nil, 0, err
	}
	total := len(resp.StockReconciliation)
	if resp.TotalCount != nil {
		total = *resp.TotalCount
	}
	return resp.StockReconciliation, total, nil
}
