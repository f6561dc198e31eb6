package stock

import (
	"fmt"
	"time"

	"github.com/hcm/fhirsync/internal/platform/fhir"
)

// FromSupplyDelivery extracts a ledger movement from the wire resource.
// Quantity, the first supplied item and the occurrence date are mandatory;
// everything else degrades to empty fields.
func FromSupplyDelivery(sd *fhir.SupplyDelivery, tenantID string) (*Stock, error) {
	if len(sd.SuppliedItem) == 0 {
		return nil, fmt.Errorf("supply delivery %s: missing suppliedItem", sd.ID)
	}
	item := sd.SuppliedItem[0]
	if item.Quantity == nil || item.Quantity.Value == nil {
		return nil, fmt.Errorf("supply delivery %s: missing quantity", sd.ID)
	}
	if sd.OccurrenceDateTime == "" {
		return nil, fmt.Errorf("supply delivery %s: missing occurrence date", sd.ID)
	}
	entered, err := parseWireDateTime(sd.OccurrenceDateTime)
	if err != nil {
		return nil, fmt.Errorf("supply delivery %s: bad occurrence date: %w", sd.ID, err)
	}

	// party and reference enums are not carried on the wire; the ledger
	// requires them, so they default here
	s := &Stock{
		ID:              sd.ID,
		TenantID:        tenantID,
		Quantity:        int(*item.Quantity.Value),
		WayBillNumber:   fhir.IdentifierValue(sd.Identifier, fhir.SystemWaybillNumber),
		DateOfEntry:     entered,
		SenderType:      PartyTypeWarehouse,
		ReceiverType:    PartyTypeWarehouse,
		ReferenceIDType: ReferenceIDTypeOther,
	}

	s.ProductVariantID = referencedID(item.ItemReference)
	s.ReceiverID = referencedID(sd.Destination)

	if ext := fhir.ExtensionByURL(item.Extension, fhir.ExtSupplyItemCondition); ext != nil {
		s.TransactionReason = conceptCode(ext.ValueCodeableConcept)
	}
	if ext := fhir.ExtensionByURL(sd.Extension, fhir.ExtSupplyStage); ext != nil {
		code := conceptCode(ext.ValueCodeableConcept)
		if code != "" && code != TransactionTypeReceived && code != TransactionTypeDispatched {
			return nil, fmt.Errorf("supply delivery %s: unknown transaction type %q", sd.ID, code)
		}
		s.TransactionType = code
	}
	if ext := fhir.ExtensionByURL(sd.Extension, fhir.ExtEventLocation); ext != nil {
		s.FacilityID = referencedID(ext.ValueReference)
	}
	if ext := fhir.ExtensionByURL(sd.Extension, fhir.ExtSenderLocation); ext != nil {
		s.SenderID = referencedID(ext.ValueReference)
	}

	return s, nil
}

// ToFHIR projects the movement back onto the wire shape. Party types and the
// reference id type are fixed placeholders on this direction; the ledger does
// not distinguish them yet.
func (s *Stock) ToFHIR() *fhir.SupplyDelivery {
	qty := float64(s.Quantity)
	sd := &fhir.SupplyDelivery{
		ResourceType:       "SupplyDelivery",
		ID:                 s.ID,
		Meta:               &fhir.Meta{Profile: []string{fhir.ProfileSupplyDelivery}},
		Status:             "completed",
		OccurrenceDateTime: formatWireDateTime(s.DateOfEntry),
		SuppliedItem: []fhir.SuppliedItem{{
			Quantity:      &fhir.Quantity{Value: &qty},
			ItemReference: identifiedRef("InventoryItem", fhir.SystemProductVariantID, s.ProductVariantID),
		}},
	}

	if s.WayBillNumber != "" {
		sd.Identifier = append(sd.Identifier, fhir.Identifier{
			System: fhir.SystemWaybillNumber,
			Value:  s.WayBillNumber,
		})
	}
	if s.TransactionReason != "" {
		sd.SuppliedItem[0].Extension = append(sd.SuppliedItem[0].Extension, fhir.Extension{
			URL:                  fhir.ExtSupplyItemCondition,
			ValueCodeableConcept: concept(fhir.SystemTransactionReason, s.TransactionReason),
		})
	}
	if s.TransactionType != "" {
		sd.Extension = append(sd.Extension, fhir.Extension{
			URL:                  fhir.ExtSupplyStage,
			ValueCodeableConcept: concept(fhir.SystemTransactionType, s.TransactionType),
		})
	}
	if s.FacilityID != "" {
		sd.Extension = append(sd.Extension, fhir.Extension{
			URL:            fhir.ExtEventLocation,
			ValueReference: facilityRef(s.FacilityID),
		})
	}
	if s.SenderID != "" {
		sd.Extension = append(sd.Extension, fhir.Extension{
			URL:            fhir.ExtSenderLocation,
			ValueReference: facilityRef(s.SenderID),
		})
	}
	if s.ReceiverID != "" {
		sd.Destination = facilityRef(s.ReceiverID)
	}

	return sd
}

// FromInventoryReport extracts a reconciliation from the wire resource. Only
// the first listing and its first item are read; the single reported quantity
// feeds both counts.
func FromInventoryReport(rep *fhir.InventoryReport, tenantID string) (*Reconciliation, error) {
	if rep.ReportedDateTime == "" {
		return nil, fmt.Errorf("inventory report %s: missing reportedDateTime", rep.ID)
	}
	reported, err := parseWireDateTime(rep.ReportedDateTime)
	if err != nil {
		return nil, fmt.Errorf("inventory report %s: bad reportedDateTime: %w", rep.ID, err)
	}
	if len(rep.InventoryListing) == 0 || len(rep.InventoryListing[0].Item) == 0 {
		return nil, fmt.Errorf("inventory report %s: missing inventory listing item", rep.ID)
	}

	listing := rep.InventoryListing[0]
	item := listing.Item[0]
	if item.Quantity == nil || item.Quantity.Value == nil {
		return nil, fmt.Errorf("inventory report %s: missing quantity", rep.ID)
	}
	count := int(*item.Quantity.Value)

	r := &Reconciliation{
		ID:                   rep.ID,
		TenantID:             tenantID,
		FacilityID:           referencedID(listing.Location),
		PhysicalCount:        count,
		CalculatedCount:      count,
		DateOfReconciliation: reported,
		ReferenceIDType:      ReferenceIDTypeOther,
	}
	if item.Item != nil {
		r.ProductVariantID = referencedID(item.Item.Reference)
	}
	return r, nil
}

// ToFHIR projects the reconciliation back onto the wire shape. The single
// listing quantity carries the calculated count; the physical count has no
// wire field of its own.
func (r *Reconciliation) ToFHIR() *fhir.InventoryReport {
	qty := float64(r.CalculatedCount)
	reported := formatWireDateTime(r.DateOfReconciliation)
	return &fhir.InventoryReport{
		ResourceType:     "InventoryReport",
		ID:               r.ID,
		Meta:             &fhir.Meta{Profile: []string{fhir.ProfileInventoryReport}},
		Status:           "active",
		CountType:        "snapshot",
		ReportedDateTime: reported,
		InventoryListing: []fhir.InventoryListing{{
			Location:         facilityRef(r.FacilityID),
			CountingDateTime: reported,
			Item: []fhir.InventoryListingItem{{
				Quantity: &fhir.Quantity{Value: &qty},
				Item: &fhir.CodeableReference{
					Reference: identifiedRef("InventoryItem", fhir.SystemProductVariantID, r.ProductVariantID),
				},
			}},
		}},
	}
}

// referencedID prefers the logical identifier over the literal reference.
func referencedID(ref *fhir.Reference) string {
	if ref == nil {
		return ""
	}
	if ref.Identifier != nil && ref.Identifier.Value != "" {
		return ref.Identifier.Value
	}
	return ref.RefID()
}

func conceptCode(c *fhir.CodeableConcept) string {
	if c == nil {
		return ""
	}
	if len(c.Coding) > 0 && c.Coding[0].Code != "" {
		return c.Coding[0].Code
	}
	return c.Text
}

func concept(system, code string) *fhir.CodeableConcept {
	return &fhir.CodeableConcept{Coding: []fhir.Coding{{System: system, Code: code}}}
}

func facilityRef(id string) *fhir.Reference {
	return &fhir.Reference{
		Reference:  fhir.FormatReference("Location", id),
		Identifier: &fhir.Identifier{System: fhir.SystemFacilityID, Value: id},
	}
}

func identifiedRef(resourceType, system, id string) *fhir.Reference {
	if id == "" {
		return nil
	}
	return &fhir.Reference{
		Reference:  fhir.FormatReference(resourceType, id),
		Identifier: &fhir.Identifier{System: system, Value: id},
	}
}

func parseWireDateTime(s string) (int64, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UnixMilli(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return 0, fmt.Errorf("unparseable datetime %q", s)
	}
	return t.UnixMilli(), nil
}

func formatWireDateTime(ms int64) string {
	if ms == 0 {
		return ""
	}
	return time.UnixMilli(ms).UTC().Format(time.RFC3339)
}
