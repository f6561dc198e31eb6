package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/hcm/fhirsync/internal/domain/boundary"
	"github.com/hcm/fhirsync/internal/domain/facility"
	"github.com/hcm/fhirsync/internal/domain/product"
	"github.com/hcm/fhirsync/internal/domain/stock"
	"github.com/hcm/fhirsync/internal/platform/events"
	"github.com/hcm/fhirsync/internal/platform/fhir"
)

// EntityMaps holds the dispatched bundle keyed per record type. Stock,
// reconciliation, facility and product maps are keyed by record id;
// boundaries are keyed by the Location name so partOf references can be
// resolved within the batch.
type EntityMaps struct {
	Stocks          map[string]*stock.Stock
	Reconciliations map[string]*stock.Reconciliation
	Facilities      map[string]*facility.Facility
	ProductVariants map[string]*product.Variant
	Boundaries      map[string]*boundary.Relation
}

func newEntityMaps() *EntityMaps {
	return &EntityMaps{
		Stocks:          make(map[string]*stock.Stock),
		Reconciliations: make(map[string]*stock.Reconciliation),
		Facilities:      make(map[string]*facility.Facility),
		ProductVariants: make(map[string]*product.Variant),
		Boundaries:      make(map[string]*boundary.Relation),
	}
}

// Dispatch routes every bundle entry to its record type. Locations split on
// profile: the facility profile makes a facility, the boundary profile a
// boundary relation, anything else is dropped. Entries of unknown resource
// types come back as failures, one per entry.
func Dispatch(doc *fhir.Bundle, tenantID, hierarchyType string, log zerolog.Logger) (*EntityMaps, []events.EntryFailure) {
	maps := newEntityMaps()
	var failures []events.EntryFailure

	for i, entry := range doc.Entry {
		peek, err := entry.PeekResource()
		if err != nil {
			failures = append(failures, entryFailure("", "", entry.Resource, fmt.Sprintf("entry %d: %v", i, err)))
			continue
		}

		if !fhir.IsSupportedResourceType(peek.ResourceType) {
			failures = append(failures, entryFailure(peek.ID, peek.ResourceType, entry.Resource,
				fmt.Sprintf("unsupported resource type %q", peek.ResourceType)))
			continue
		}

		switch peek.ResourceType {
		case "SupplyDelivery":
			var sd fhir.SupplyDelivery
			if err := json.Unmarshal(entry.Resource, &sd); err != nil {
				failures = append(failures, entryFailure(peek.ID, peek.ResourceType, entry.Resource, err.Error()))
				continue
			}
			rec, err := stock.FromSupplyDelivery(&sd, tenantID)
			if err != nil {
				failures = append(failures, entryFailure(peek.ID, peek.ResourceType, entry.Resource, err.Error()))
				continue
			}
			maps.Stocks[rec.ID] = rec

		case "InventoryReport":
			var ir fhir.InventoryReport
			if err := json.Unmarshal(entry.Resource, &ir); err != nil {
				failures = append(failures, entryFailure(peek.ID, peek.ResourceType, entry.Resource, err.Error()))
				continue
			}
			rec, err := stock.FromInventoryReport(&ir, tenantID)
			if err != nil {
				failures = append(failures, entryFailure(peek.ID, peek.ResourceType, entry.Resource, err.Error()))
				continue
			}
			maps.Reconciliations[rec.ID] = rec

		case "InventoryItem":
			var item fhir.InventoryItem
			if err := json.Unmarshal(entry.Resource, &item); err != nil {
				failures = append(failures, entryFailure(peek.ID, peek.ResourceType, entry.Resource, err.Error()))
				continue
			}
			rec, err := product.FromInventoryItem(&item, tenantID)
			if err != nil {
				failures = append(failures, entryFailure(peek.ID, peek.ResourceType, entry.Resource, err.Error()))
				continue
			}
			maps.ProductVariants[rec.ID] = rec

		case "Location":
			var loc fhir.Location
			if err := json.Unmarshal(entry.Resource, &loc); err != nil {
				failures = append(failures, entryFailure(peek.ID, peek.ResourceType, entry.Resource, err.Error()))
				continue
			}
			switch {
			case loc.Meta.HasProfile(fhir.ProfileFacilityLocation):
				rec, err := facility.FromLocation(&loc, tenantID)
				if err != nil {
					failures = append(failures, entryFailure(peek.ID, peek.ResourceType, entry.Resource, err.Error()))
					continue
				}
				maps.Facilities[rec.ID] = rec
			case loc.Meta.HasProfile(fhir.ProfileBoundary):
				rec, err := boundary.FromLocation(&loc, tenantID, hierarchyType)
				if err != nil {
					failures = append(failures, entryFailure(peek.ID, peek.ResourceType, entry.Resource, err.Error()))
					continue
				}
				maps.Boundaries[loc.Name] = rec
			default:
				// Locations without a recognised profile carry nothing to
				// sync and are not an error.
				log.Debug().Str("id", loc.ID).Msg("location has no recognised profile, skipping")
			}
		}
	}

	return maps, failures
}

func entryFailure(id, resourceType string, raw json.RawMessage, reason string) events.EntryFailure {
	return events.EntryFailure{
		ResourceID:   id,
		ResourceType: resourceType,
		FHIRResource: raw,
		ErrorReason:  reason,
	}
}
