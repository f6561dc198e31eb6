package fhir

// SupplyDelivery is the R5 resource that carries a single stock movement.
type SupplyDelivery struct {
	ResourceType       string               `json:"resourceType"`
	ID                 string               `json:"id,omitempty"`
	Meta               *Meta                `json:"meta,omitempty"`
	Identifier         []Identifier         `json:"identifier,omitempty"`
	Status             string               `json:"status,omitempty"`
	Type               *CodeableConcept     `json:"type,omitempty"`
	SuppliedItem       []SuppliedItem       `json:"suppliedItem,omitempty"`
	OccurrenceDateTime string               `json:"occurrenceDateTime,omitempty"`
	Supplier           *Reference           `json:"supplier,omitempty"`
	Destination        *Reference           `json:"destination,omitempty"`
	Extension          []Extension          `json:"extension,omitempty"`
}

// SuppliedItem is one delivered item with its quantity. Item condition and
// extra codes travel as extensions on the item itself.
type SuppliedItem struct {
	Quantity      *Quantity  `json:"quantity,omitempty"`
	ItemReference *Reference `json:"itemReference,omitempty"`
	Extension     []Extension `json:"extension,omitempty"`
}
