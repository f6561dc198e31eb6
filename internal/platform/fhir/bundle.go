package fhir

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Bundle represents a FHIR Bundle resource. Entry resources are kept raw so
// that each one can be decoded into its concrete type after inspection.
type Bundle struct {
	ResourceType string        `json:"resourceType"`
	ID           string        `json:"id,omitempty"`
	Meta         *Meta         `json:"meta,omitempty"`
	Type         string        `json:"type"`
	Total        *int          `json:"total,omitempty"`
	Link         []BundleLink  `json:"link,omitempty"`
	Entry        []BundleEntry `json:"entry,omitempty"`
	Timestamp    *time.Time    `json:"timestamp,omitempty"`
}

type BundleLink struct {
	Relation string `json:"relation"`
	URL      string `json:"url"`
}

type BundleEntry struct {
	FullURL  string          `json:"fullUrl,omitempty"`
	Resource json.RawMessage `json:"resource,omitempty"`
	Search   *BundleSearch   `json:"search,omitempty"`
}

type BundleSearch struct {
	Mode  string   `json:"mode,omitempty"`
	Score *float64 `json:"score,omitempty"`
}

// ParseBundle decodes raw JSON into a Bundle. A payload whose resourceType is
// not "Bundle" is rejected even when it is syntactically valid JSON.
func ParseBundle(raw []byte) (*Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if b.ResourceType != "Bundle" {
		return nil, fmt.Errorf("expected resourceType Bundle, got %q", b.ResourceType)
	}
	return &b, nil
}

// PeekResource decodes just the envelope of an entry's resource.
func (e *BundleEntry) PeekResource() (*Resource, error) {
	var r Resource
	if err := json.Unmarshal(e.Resource, &r); err != nil {
		return nil, fmt.Errorf("decode entry resource: %w", err)
	}
	return &r, nil
}

// SearchBundleParams holds pagination and link information for a searchset.
type SearchBundleParams struct {
	RequestURL string
	Limit      int
	Offset     int
	Total      int
}

// NewSearchBundle assembles a searchset Bundle from already-mapped resources.
// Entries get a urn:uuid fullUrl; self, first and next links follow the
// limit/offset the caller served.
func NewSearchBundle(resources []interface{}, params SearchBundleParams) *Bundle {
	now := time.Now().UTC()
	entries := make([]BundleEntry, 0, len(resources))
	for _, r := range resources {
		raw, err := json.Marshal(r)
		if err != nil {
			continue
		}
		entries = append(entries, BundleEntry{
			FullURL:  "urn:uuid:" + uuid.NewString(),
			Resource: raw,
			Search:   &BundleSearch{Mode: "match"},
		})
	}

	return &Bundle{
		ResourceType: "Bundle",
		ID:           uuid.NewString(),
		Type:         "searchset",
		Total:        &params.Total,
		Timestamp:    &now,
		Link:         buildPaginationLinks(params),
		Entry:        entries,
	}
}

func buildPaginationLinks(params SearchBundleParams) []BundleLink {
	pageURL := func(offset int) string {
		return fmt.Sprintf("%s?limit=%d&offset=%d", params.RequestURL, params.Limit, offset)
	}

	links := []BundleLink{
		{Relation: "self", URL: pageURL(params.Offset)},
		{Relation: "first", URL: pageURL(0)},
	}
	if next := params.Offset + params.Limit; next < params.Total {
		links = append(links, BundleLink{Relation: "next", URL: pageURL(next)})
	}
	return links
}

// FormatReference creates a FHIR reference string.
func FormatReference(resourceType, id string) string {
	return fmt.Sprintf("%s/%s", resourceType, id)
}
