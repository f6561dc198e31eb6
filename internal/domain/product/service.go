package product

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hcm/fhirsync/internal/config"
	"github.com/hcm/fhirsync/internal/platform/digit"
)

// Syncer adapts the product registry's variant contract for reconciliation.
type Syncer struct {
	client *digit.Client
	urls   config.ServiceURLs
	log    zerolog.Logger
}

func NewSyncer(client *digit.Client, urls config.ServiceURLs, log zerolog.Logger) *Syncer {
	return &Syncer{
		client: client,
		urls:   urls,
		log:    log.With().Str("component", "product_variant_syncer").Logger(),
	}
}

type searchBody struct {
	ID []string `json:"id"`
}

type variantSearchRequest struct {
	RequestInfo    digit.RequestInfo `json:"RequestInfo"`
	ProductVariant searchBody        `json:"ProductVariant"`
}

type variantSearchResponse struct {
	TotalCount     *int       `json:"totalCount,omitempty"`
	ProductVariant []*Variant `json:"ProductVariant"`
}

type variantBulkRequest struct {
	RequestInfo     digit.RequestInfo `json:"RequestInfo"`
	ProductVariants []*Variant        `json:"ProductVariants"`
}

func (s *Syncer) CheckExisting(ctx context.Context, ids []string) ([]string, error) {
	records, _, err := s.search(ctx, ids, len(ids), 0)
	if err != nil {
		return nil, fmt.Errorf("check existing product variants: %w", err)
	}
	existing := make([]string, 0, len(records))
	for _, rec := range records {
		existing = append(existing, rec.ID)
	}
	return existing, nil
}

func (s *Syncer) Create(ctx context.Context, records []*Variant) error {
	if s.urls.Create == "" {
		return fmt.Errorf("create product variants: no endpoint configured")
	}
	req := variantBulkRequest{RequestInfo: s.client.NewRequestInfo(), ProductVariants: records}
	if err := s.client.Send(ctx, s.urls.Create, req); err != nil {
		return fmt.Errorf("create product variants: %w", err)
	}
	s.log.Info().Int("count", len(records)).Msg("product variants created")
	return nil
}

func (s *Syncer) Update(ctx context.Context, records []*Variant) error {
	if s.urls.Update == "" {
		return fmt.Errorf("update product variants: no endpoint configured")
	}
	req := variantBulkRequest{RequestInfo: s.client.NewRequestInfo(), ProductVariants: records}
	if err := s.client.Send(ctx, s.urls.Update, req); err != nil {
		return fmt.Errorf("update product variants: %w", err)
	}
	s.log.Info().Int("count", len(records)).Msg("product variants updated")
	return nil
}

func (s *Syncer) Fetch(ctx context.Context, ids []string, limit, offset int) ([]*Variant, int, error) {
	records, total, err := s.search(ctx, ids, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch product variants: %w", err)
	}
	return records, total, nil
}

func (s *Syncer) search(ctx context.Context, ids []string, limit, offset int) ([]*Variant, int, error) {
	req := variantSearchRequest{
		RequestInfo:    s.client.NewRequestInfo(),
		ProductVariant: searchBody{ID: ids},
	}
	var resp variantSearchResponse
	if err := s.client.Search(ctx, s.urls.Search, limit, offset, req, &resp); err != nil {
		return nil, 0, err
	}
	total := len(resp.ProductVariant)
	if resp.TotalCount != nil {
		total = *resp.TotalCount
	}
	return resp.ProductVariant, total, nil
}
