package boundary

import (
	"testing"

	"github.com/hcm/fhirsync/internal/platform/db"
	"github.com/hcm/fhirsync/internal/platform/fhir"
)

func strPtr(s string) *string { return &s }

func sampleBoundaryLocation() *fhir.Location {
	return &fhir.Location{
		ResourceType: "Location",
		ID:           "loc-district",
		Meta:         &fhir.Meta{Profile: []string{fhir.ProfileBoundary}},
		Name:         "MZ_01",
		Alias:        []string{"District"},
		Identifier: []fhir.Identifier{{
			System: fhir.SystemBoundaryCode,
			Value:  "MZ_01",
		}},
		PartOf: &fhir.Reference{Reference: "Location/loc-country"},
	}
}

func TestFromLocation(t *testing.T) {
	rel, err := FromLocation(sampleBoundaryLocation(), "mz", "ADMIN")
	if err != nil {
		t.Fatalf("FromLocation: %v", err)
	}
	if rel.Code != "MZ_01" || rel.TenantID != "mz" || rel.HierarchyType != "ADMIN" {
		t.Errorf("header fields: %+v", rel)
	}
	if rel.BoundaryType != "District" {
		t.Errorf("boundaryType = %q", rel.BoundaryType)
	}
	if rel.Parent == nil || *rel.Parent != "loc-country" {
		t.Errorf("parent = %v, want raw referenced id loc-country", rel.Parent)
	}
}

func TestFromLocation_MissingCode(t *testing.T) {
	loc := sampleBoundaryLocation()
	loc.Identifier = nil
	if _, err := FromLocation(loc, "mz", "ADMIN"); err == nil {
		t.Error("expected error for boundary location without code identifier")
	}
}

func TestResolveParents(t *testing.T) {
	relations := map[string]*Relation{
		"Mozambique": {Code: "MZ"},
		"Nampula":    {Code: "MZ_01", Parent: strPtr("Mozambique")},
		"Orphan":     {Code: "MZ_99", Parent: strPtr("NotInBatch")},
	}

	ResolveParents(relations)

	if relations["Mozambique"].Parent != nil {
		t.Errorf("root gained a parent: %v", *relations["Mozambique"].Parent)
	}
	if p := relations["Nampula"].Parent; p == nil || *p != "MZ" {
		t.Errorf("in-batch parent should resolve to the parent code, got %v", p)
	}
	if relations["Orphan"].Parent != nil {
		t.Errorf("out-of-batch parent should drop to nil, got %v", *relations["Orphan"].Parent)
	}
}

func TestFlattenHierarchy(t *testing.T) {
	boundaries := []TenantBoundary{{
		TenantID:      "mz",
		HierarchyType: "ADMIN",
		Boundary: []EnrichedBoundary{{
			Code: "MZ",
			Children: []EnrichedBoundary{
				{Code: "MZ_01", Children: []EnrichedBoundary{{Code: "MZ_01_01"}}},
				{Code: "MZ_02"},
			},
		}},
	}}

	codes := FlattenHierarchy(boundaries)
	want := []string{"MZ", "MZ_01", "MZ_01_01", "MZ_02"}
	if len(codes) != len(want) {
		t.Fatalf("flattened %d codes, want %d", len(codes), len(want))
	}
	for i := range want {
		if codes[i] != want[i] {
			t.Errorf("codes[%d] = %q, want %q", i, codes[i], want[i])
		}
	}
}

func TestRelationRoundTrip(t *testing.T) {
	want := &Relation{
		Code:          "MZ_01",
		TenantID:      "mz",
		HierarchyType: "ADMIN",
		BoundaryType:  "District",
		Parent:        strPtr("MZ"),
	}

	loc := want.ToFHIR()
	if loc.ID != "MZ_01" || loc.Name != "MZ_01" {
		t.Errorf("code should serve as both id and name: %q %q", loc.ID, loc.Name)
	}
	if !loc.Meta.HasProfile(fhir.ProfileBoundary) {
		t.Error("boundary profile missing from meta")
	}

	got, err := FromLocation(loc, "mz", "ADMIN")
	if err != nil {
		t.Fatalf("FromLocation after ToFHIR: %v", err)
	}
	if got.Code != want.Code || got.BoundaryType != want.BoundaryType {
		t.Errorf("round trip: got %+v want %+v", got, want)
	}
	if got.Parent == nil || *got.Parent != "MZ" {
		t.Errorf("round trip parent: %v", got.Parent)
	}
}

func TestLocationFromRecord(t *testing.T) {
	loc := LocationFromRecord(db.BoundaryRecord{
		ID:           "row-1",
		TenantID:     "mz",
		Code:         "MZ_02",
		BoundaryType: "District",
	})
	if loc.ID != "MZ_02" || len(loc.Alias) != 1 || loc.Alias[0] != "District" {
		t.Errorf("unexpected projection: %+v", loc)
	}
}
