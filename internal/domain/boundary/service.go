package boundary

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hcm/fhirsync/internal/config"
	"github.com/hcm/fhirsync/internal/platform/digit"
)

// Syncer adapts the boundary service for reconciliation. The boundary
// service has no bulk endpoints, so creates and updates go one relationship
// per request.
type Syncer struct {
	client        *digit.Client
	urls          config.ServiceURLs
	hierarchyType string
	log           zerolog.Logger
}

func NewSyncer(client *digit.Client, urls config.ServiceURLs, hierarchyType string, log zerolog.Logger) *Syncer {
	return &Syncer{
		client:        client,
		urls:          urls,
		hierarchyType: hierarchyType,
		log:           log.With().Str("component", "boundary_syncer").Logger(),
	}
}

type boundarySearchResponse struct {
	TenantBoundary []TenantBoundary `json:"TenantBoundary"`
}

type relationshipRequest struct {
	RequestInfo          digit.RequestInfo `json:"RequestInfo"`
	BoundaryRelationship *Relation         `json:"BoundaryRelationship"`
}

// CheckExisting searches the requested codes and reports which of them the
// boundary service already knows. The response is a forest, so it is
// flattened before intersecting with the request.
func (s *Syncer) CheckExisting(ctx context.Context, codes []string) ([]string, error) {
	criteria := digit.BoundaryCriteria{
		Codes:         codes,
		HierarchyType: s.hierarchyType,
	}
	var resp boundarySearchResponse
	if err := s.client.SearchBoundaries(ctx, s.urls.Search, criteria, &resp); err != nil {
		return nil, fmt.Errorf("check existing boundaries: %w", err)
	}

	requested := make(map[string]bool, len(codes))
	for _, code := range codes {
		requested[code] = true
	}
	existing := make([]string, 0, len(codes))
	for _, code := range FlattenHierarchy(resp.TenantBoundary) {
		if requested[code] {
			existing = append(existing, code)
		}
	}
	return existing, nil
}

func (s *Syncer) Create(ctx context.Context, records []*Relation) error {
	return s.send(ctx, s.urls.Create, "create", records)
}

func (s *Syncer) Update(ctx context.Context, records []*Relation) error {
	return s.send(ctx, s.urls.Update, "update", records)
}

func (s *Syncer) send(ctx context.Context, rawurl, op string, records []*Relation) error {
	if rawurl == "" {
		return fmt.Errorf("%s boundaries: no endpoint configured", op)
	}
	for _, rec := range records {
		req := relationshipRequest{
			RequestInfo:          s.client.NewRequestInfo(),
			BoundaryRelationship: rec,
		}
		if err := s.client.Send(ctx, rawurl, req); err != nil {
			return fmt.Errorf("%s boundary %s: %w", op, rec.Code, err)
		}
	}
	s.log.Info().Int("count", len(records)).Str("op", op).Msg("boundary relationships sent")
	return nil
}

// Fetch searches the given codes (all roots when empty) and returns the
// flattened relations with parents derived from the tree structure.
func (s *Syncer) Fetch(ctx context.Context, codes []string) ([]*Relation, error) {
	criteria := digit.BoundaryCriteria{
		Codes:           codes,
		HierarchyType:   s.hierarchyType,
		IncludeChildren: true,
	}
	var resp boundarySearchResponse
	if err := s.client.SearchBoundaries(ctx, s.urls.Search, criteria, &resp); err != nil {
		return nil, fmt.Errorf("fetch boundaries: %w", err)
	}

	var relations []*Relation
	var walk func(nodes []EnrichedBoundary, parent *string, tenantID string)
	walk = func(nodes []EnrichedBoundary, parent *string, tenantID string) {
		for _, n := range nodes {
			rel := &Relation{
				Code:          n.Code,
				TenantID:      tenantID,
				HierarchyType: s.hierarchyType,
				BoundaryType:  n.BoundaryType,
				Parent:        parent,
			}
			relations = append(relations, rel)
			code := n.Code
			walk(n.Children, &code, tenantID)
		}
	}
	for _, tb := range resp.TenantBoundary {
		walk(tb.Boundary, nil, tb.TenantID)
	}
	return relations, nil
}
