package facility

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hcm/fhirsync/internal/config"
	"github.com/hcm/fhirsync/internal/platform/digit"
)

// Syncer adapts the facility registry's bulk contract for reconciliation.
type Syncer struct {
	client *digit.Client
	urls   config.ServiceURLs
	log    zerolog.Logger
}

func NewSyncer(client *digit.Client, urls config.ServiceURLs, log zerolog.Logger) *Syncer {
	return &Syncer{
		client: client,
		urls:   urls,
		log:    log.With().Str("component", "facility_syncer").Logger(),
	}
}

type searchBody struct {
	ID []string `json:"id"`
}

type facilitySearchRequest struct {
	RequestInfo digit.RequestInfo `json:"RequestInfo"`
	Facility    searchBody        `json:"Facility"`
}

type facilitySearchResponse struct {
	TotalCount *int        `json:"totalCount,omitempty"`
	Facilities []*Facility `json:"Facilities"`
}

type facilityBulkRequest struct {
	RequestInfo digit.RequestInfo `json:"RequestInfo"`
	Facilities  []*Facility       `json:"Facilities"`
}

func (s *Syncer) CheckExisting(ctx context.Context, ids []string) ([]string, error) {
	records, _, err := s.search(ctx, ids, len(ids), 0)
	if err != nil {
		return nil, fmt.Errorf("check existing facilities: %w", err)
	}
	existing := make([]string, 0, len(records))
	for _, rec := range records {
		existing = append(existing, rec.ID)
	}
	return existing, nil
}

func (s *Syncer) Create(ctx context.Context, records []*Facility) error {
	if s.urls.Create == "" {
		return fmt.Errorf("create facilities: no endpoint configured")
	}
	req := facilityBulkRequest{RequestInfo: s.client.NewRequestInfo(), Facilities: records}
	if err := s.client.Send(ctx, s.urls.Create, req); err != nil {
		return fmt.Errorf("create facilities: %w", err)
	}
	s.log.Info().Int("count", len(records)).Msg("facilities created")
	return nil
}

func (s *Syncer) Update(ctx context.Context, records []*Facility) error {
	if s.urls.Update == "" {
		return fmt.Errorf("update facilities: no endpoint configured")
	}
	req := facilityBulkRequest{RequestInfo: s.client.NewRequestInfo(), Facilities: records}
	if err := s.client.Send(ctx, s.urls.Update, req); err != nil {
		return fmt.Errorf("update facilities: %w", err)
	}
	s.log.Info().Int("count", len(records)).Msg("facilities updated")
	return nil
}

func (s *Syncer) Fetch(ctx context.Context, ids []string, limit, offset int) ([]*Facility, int, error) {
	records, total, err := s.search(ctx, ids, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch facilities: %w", err)
	}
	return records, total, nil
}

func (s *Syncer) search(ctx context.Context, ids []string, limit, offset int) ([]*Facility, int, error) {
	req := facilitySearchRequest{
		RequestInfo: s.client.NewRequestInfo(),
		Facility:    searchBody{ID: ids},
	}
	var resp facilitySearchResponse
	if err := s.client.Search(ctx, s.urls.Search, limit, offset, req, &resp); err != nil {
		return nil, 0, err
	}
	total := len(resp.Facilities)
	if resp.TotalCount != nil {
		total = *resp.TotalCount
	}
	return resp.Facilities, total, nil
}
