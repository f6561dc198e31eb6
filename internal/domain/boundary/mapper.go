package boundary

import (
	"fmt"

	"github.com/hcm/fhirsync/internal/platform/db"
	"github.com/hcm/fhirsync/internal/platform/fhir"
)

// FromLocation extracts a boundary relation from a Location tagged with the
// boundary profile. The boundary code must be carried as an identifier; the
// parent code is taken raw from partOf and resolved against the batch later.
func FromLocation(loc *fhir.Location, tenantID, hierarchyType string) (*Relation, error) {
	code := fhir.IdentifierValue(loc.Identifier, fhir.SystemBoundaryCode)
	if code == "" {
		return nil, fmt.Errorf("boundary location: missing boundary code identifier")
	}

	rel := &Relation{
		Code:          code,
		TenantID:      tenantID,
		HierarchyType: hierarchyType,
	}
	if len(loc.Alias) > 0 {
		rel.BoundaryType = loc.Alias[0]
	}
	if loc.PartOf != nil {
		if parent := loc.PartOf.RefID(); parent != "" {
			rel.Parent = &parent
		}
	}
	return rel, nil
}

// ResolveParents rewrites each relation's parent to the referenced batch
// member's code, dropping parents that do not resolve within the batch.
func ResolveParents(relations map[string]*Relation) {
	for _, rel := range relations {
		if rel.Parent == nil {
			continue
		}
		parent, ok := relations[*rel.Parent]
		if !ok {
			rel.Parent = nil
			continue
		}
		code := parent.Code
		rel.Parent = &code
	}
}

// FlattenHierarchy walks the returned boundary trees depth first and
// collects every code, one per node.
func FlattenHierarchy(boundaries []TenantBoundary) []string {
	var codes []string
	var walk func(nodes []EnrichedBoundary)
	walk = func(nodes []EnrichedBoundary) {
		for _, n := range nodes {
			codes = append(codes, n.Code)
			walk(n.Children)
		}
	}
	for _, tb := range boundaries {
		walk(tb.Boundary)
	}
	return codes
}

// ToFHIR projects the relation onto a Location with the boundary profile.
// The code serves as both the resource id and the name.
func (r *Relation) ToFHIR() *fhir.Location {
	loc := &fhir.Location{
		ResourceType: "Location",
		ID:           r.Code,
		Meta:         &fhir.Meta{Profile: []string{fhir.ProfileBoundary}},
		Status:       "active",
		Name:         r.Code,
		Identifier: []fhir.Identifier{{
			System: fhir.SystemBoundaryCode,
			Value:  r.Code,
		}},
	}
	if r.BoundaryType != "" {
		loc.Alias = []string{r.BoundaryType}
	}
	if r.Parent != nil {
		loc.PartOf = &fhir.Reference{Reference: "Location/" + *r.Parent}
	}
	return loc
}

// LocationFromRecord projects a replica row for the boundary listing.
func LocationFromRecord(rec db.BoundaryRecord) *fhir.Location {
	rel := &Relation{
		Code:         rec.Code,
		TenantID:     rec.TenantID,
		BoundaryType: rec.BoundaryType,
	}
	return rel.ToFHIR()
}
