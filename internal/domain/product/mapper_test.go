package product

import (
	"testing"

	"github.com/hcm/fhirsync/internal/platform/fhir"
)

func sampleInventoryItem() *fhir.InventoryItem {
	return &fhir.InventoryItem{
		ResourceType: "InventoryItem",
		ID:           "pv-1",
		Meta:         &fhir.Meta{Profile: []string{fhir.ProfileInventoryItem}},
		Status:       "active",
		Identifier: []fhir.Identifier{
			{System: fhir.SystemProductVariantID, Value: "P-100"},
			{System: fhir.SystemSKU, Value: "SKU-100-200MG"},
		},
		Name: []fhir.InventoryItemName{{
			NameType: &fhir.Coding{System: fhir.SystemNameType, Code: "trade-name"},
			Language: "en",
			Name:     "Paracetamol 200mg",
		}},
	}
}

func TestFromInventoryItem(t *testing.T) {
	got, err := FromInventoryItem(sampleInventoryItem(), "mz")
	if err != nil {
		t.Fatalf("FromInventoryItem: %v", err)
	}

	want := Variant{
		ID:        "pv-1",
		TenantID:  "mz",
		ProductID: "P-100",
		SKU:       "SKU-100-200MG",
		Variation: "Paracetamol 200mg",
	}
	if *got != want {
		t.Errorf("got %+v, want %+v", *got, want)
	}
}

func TestFromInventoryItem_IdentifierFallback(t *testing.T) {
	item := sampleInventoryItem()
	item.ID = ""

	got, err := FromInventoryItem(item, "mz")
	if err != nil {
		t.Fatalf("FromInventoryItem: %v", err)
	}
	if got.ID != "P-100" {
		t.Errorf("id = %q, want identifier value P-100", got.ID)
	}
}

func TestFromInventoryItem_MissingProductIdentifier(t *testing.T) {
	item := sampleInventoryItem()
	item.Identifier = []fhir.Identifier{{System: fhir.SystemSKU, Value: "SKU-1"}}

	if _, err := FromInventoryItem(item, "mz"); err == nil {
		t.Error("expected error for item without product identifier")
	}
}

func TestVariantRoundTrip(t *testing.T) {
	want, err := FromInventoryItem(sampleInventoryItem(), "mz")
	if err != nil {
		t.Fatalf("FromInventoryItem: %v", err)
	}

	got, err := FromInventoryItem(want.ToFHIR(), "mz")
	if err != nil {
		t.Fatalf("FromInventoryItem after ToFHIR: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip: got %+v, want %+v", *got, *want)
	}
}

func TestToFHIR_OmitsEmptyOptionalFields(t *testing.T) {
	v := &Variant{ID: "pv-2", TenantID: "mz", ProductID: "P-200"}

	item := v.ToFHIR()
	if len(item.Identifier) != 1 {
		t.Errorf("expected only the product identifier, got %+v", item.Identifier)
	}
	if len(item.Name) != 0 {
		t.Errorf("expected no name entries, got %+v", item.Name)
	}
	if !item.Meta.HasProfile(fhir.ProfileInventoryItem) {
		t.Error("inventory item profile missing from meta")
	}
}

func TestToFHIR_PlaceholderInventoryFields(t *testing.T) {
	item := (&Variant{ID: "pv-1", TenantID: "mz", ProductID: "P-100"}).ToFHIR()

	if len(item.Category) != 1 {
		t.Fatal("category block missing")
	}
	if c := item.Category[0].Coding[0]; c.System != fhir.SystemProductCategory || c.Code != placeholderCategory {
		t.Errorf("category coding: %+v", c)
	}
	if item.BaseUnit == nil || item.BaseUnit.Coding[0].Code != placeholderBaseUnit {
		t.Errorf("baseUnit: %+v", item.BaseUnit)
	}
	if item.NetContent == nil || item.NetContent.Value == nil || *item.NetContent.Value != placeholderNetContent {
		t.Errorf("netContent: %+v", item.NetContent)
	}
	if len(item.ResponsibleOrganization) != 1 {
		t.Fatal("responsibleOrganization block missing")
	}
	ro := item.ResponsibleOrganization[0]
	if ro.Organization == nil || ro.Organization.Display != placeholderManufacturer {
		t.Errorf("responsible organization: %+v", ro.Organization)
	}
	if ro.Role == nil || ro.Role.Coding[0].Code != roleManufacturer {
		t.Errorf("responsible organization role: %+v", ro.Role)
	}
	inst := item.Instance
	if inst == nil {
		t.Fatal("instance block missing")
	}
	if len(inst.Identifier) != 1 || inst.Identifier[0].System != fhir.SystemGTIN {
		t.Errorf("instance identifier: %+v", inst.Identifier)
	}
	if inst.LotNumber != placeholderLotNumber || inst.Expiry != placeholderExpiry {
		t.Errorf("instance lot/expiry: %q %q", inst.LotNumber, inst.Expiry)
	}
}
