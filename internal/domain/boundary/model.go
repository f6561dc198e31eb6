package boundary

// Relation is one edge in the administrative boundary hierarchy. The code
// doubles as the natural key; the parent is nil for roots and for relations
// whose parent is not known locally.
type Relation struct {
	Code          string  `json:"code"`
	TenantID      string  `json:"tenantId"`
	HierarchyType string  `json:"hierarchyType"`
	BoundaryType  string  `json:"boundaryType"`
	Parent        *string `json:"parent,omitempty"`
}

// TenantBoundary is one hierarchy returned by the boundary relationship
// search for a tenant.
type TenantBoundary struct {
	TenantID      string             `json:"tenantId"`
	HierarchyType string             `json:"hierarchyType"`
	Boundary      []EnrichedBoundary `json:"boundary"`
}

// EnrichedBoundary is a node of the returned hierarchy tree.
type EnrichedBoundary struct {
	ID           string             `json:"id,omitempty"`
	Code         string             `json:"code"`
	BoundaryType string             `json:"boundaryType,omitempty"`
	Children     []EnrichedBoundary `json:"children,omitempty"`
}
