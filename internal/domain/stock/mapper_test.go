package stock

import (
	"testing"

	"github.com/hcm/fhirsync/internal/platform/fhir"
)

func sampleStock() *Stock {
	return &Stock{
		ID:                "sd-1",
		TenantID:          "mz",
		FacilityID:        "f-1",
		ProductVariantID:  "PV-1",
		Quantity:          5,
		TransactionType:   TransactionTypeDispatched,
		TransactionReason: "RECEIVED",
		WayBillNumber:     "WB-100",
		SenderID:          "f-1",
		SenderType:        PartyTypeWarehouse,
		ReceiverID:        "f-2",
		ReceiverType:      PartyTypeWarehouse,
		ReferenceIDType:   ReferenceIDTypeOther,
		DateOfEntry:       1700000000000,
	}
}

func TestStockRoundTrip(t *testing.T) {
	want := sampleStock()
	got, err := FromSupplyDelivery(want.ToFHIR(), "mz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestFromSupplyDelivery_MissingQuantity(t *testing.T) {
	sd := sampleStock().ToFHIR()
	sd.SuppliedItem[0].Quantity = nil
	if _, err := FromSupplyDelivery(sd, "mz"); err == nil {
		t.Fatal("expected error for missing quantity")
	}
}

func TestFromSupplyDelivery_MissingOccurrence(t *testing.T) {
	sd := sampleStock().ToFHIR()
	sd.OccurrenceDateTime = ""
	if _, err := FromSupplyDelivery(sd, "mz"); err == nil {
		t.Fatal("expected error for missing occurrence date")
	}
}

func TestFromSupplyDelivery_MissingSuppliedItem(t *testing.T) {
	sd := sampleStock().ToFHIR()
	sd.SuppliedItem = nil
	if _, err := FromSupplyDelivery(sd, "mz"); err == nil {
		t.Fatal("expected error for missing supplied item")
	}
}

func TestFromSupplyDelivery_DateOnly(t *testing.T) {
	sd := sampleStock().ToFHIR()
	sd.OccurrenceDateTime = "2024-01-15"
	got, err := FromSupplyDelivery(sd, "mz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DateOfEntry != 1705276800000 {
		t.Errorf("unexpected dateOfEntry: %d", got.DateOfEntry)
	}
}

func TestFromSupplyDelivery_ReferenceFallback(t *testing.T) {
	// when the logical identifier is absent the literal reference id is used
	sd := sampleStock().ToFHIR()
	sd.SuppliedItem[0].ItemReference = &fhir.Reference{Reference: "InventoryItem/PV-9"}
	got, err := FromSupplyDelivery(sd, "mz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ProductVariantID != "PV-9" {
		t.Errorf("expected PV-9, got %s", got.ProductVariantID)
	}
}

func TestFromSupplyDelivery_UnknownTransactionType(t *testing.T) {
	sd := sampleStock().ToFHIR()
	ext := fhir.ExtensionByURL(sd.Extension, fhir.ExtSupplyStage)
	ext.ValueCodeableConcept.Coding[0].Code = "TRANSFERRED"
	if _, err := FromSupplyDelivery(sd, "mz"); err == nil {
		t.Fatal("expected error for unknown transaction type")
	}
}

func sampleReconciliation() *Reconciliation {
	return &Reconciliation{
		ID:                   "ir-1",
		TenantID:             "mz",
		FacilityID:           "f-1",
		ProductVariantID:     "PV-1",
		ReferenceIDType:      ReferenceIDTypeOther,
		PhysicalCount:        40,
		CalculatedCount:      40,
		DateOfReconciliation: 1700000000000,
	}
}

func TestReconciliationRoundTrip(t *testing.T) {
	want := sampleReconciliation()
	got, err := FromInventoryReport(want.ToFHIR(), "mz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestReconciliationToFHIR_QuantityIsCalculatedCount(t *testing.T) {
	rec := sampleReconciliation()
	rec.PhysicalCount = 35
	rec.CalculatedCount = 42
	rep := rec.ToFHIR()
	qty := rep.InventoryListing[0].Item[0].Quantity
	if qty == nil || qty.Value == nil || *qty.Value != 42 {
		t.Errorf("expected listing quantity 42, got %+v", qty)
	}
}

func TestFromInventoryReport_SingleQuantityFeedsBothCounts(t *testing.T) {
	got, err := FromInventoryReport(sampleReconciliation().ToFHIR(), "mz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PhysicalCount != got.CalculatedCount {
		t.Errorf("expected equal counts, got %d and %d", got.PhysicalCount, got.CalculatedCount)
	}
}

func TestFromInventoryReport_MissingQuantity(t *testing.T) {
	rep := sampleReconciliation().ToFHIR()
	rep.InventoryListing[0].Item[0].Quantity = nil
	if _, err := FromInventoryReport(rep, "mz"); err == nil {
		t.Fatal("expected error for missing quantity")
	}
}

func TestFromInventoryReport_MissingReportedDateTime(t *testing.T) {
	rep := sampleReconciliation().ToFHIR()
	rep.ReportedDateTime = ""
	if _, err := FromInventoryReport(rep, "mz"); err == nil {
		t.Fatal("expected error for missing reportedDateTime")
	}
}

func TestFromInventoryReport_MissingListing(t *testing.T) {
	rep := sampleReconciliation().ToFHIR()
	rep.InventoryListing = nil
	if _, err := FromInventoryReport(rep, "mz"); err == nil {
		t.Fatal("expected error for missing listing")
	}
}
