package fhir

// InventoryItem describes one product variant (FHIR R5).
type InventoryItem struct {
	ResourceType            string                    `json:"resourceType"`
	ID                      string                    `json:"id,omitempty"`
	Meta                    *Meta                     `json:"meta,omitempty"`
	Status                  string                    `json:"status,omitempty"`
	Identifier              []Identifier              `json:"identifier,omitempty"`
	Category                []CodeableConcept         `json:"category,omitempty"`
	Name                    []InventoryItemName       `json:"name,omitempty"`
	ResponsibleOrganization []ResponsibleOrganization `json:"responsibleOrganization,omitempty"`
	BaseUnit                *CodeableConcept          `json:"baseUnit,omitempty"`
	NetContent              *Quantity                 `json:"netContent,omitempty"`
	Instance                *InventoryItemInstance    `json:"instance,omitempty"`
}

type InventoryItemName struct {
	NameType *Coding `json:"nameType,omitempty"`
	Language string  `json:"language,omitempty"`
	Name     string  `json:"name,omitempty"`
}

type ResponsibleOrganization struct {
	Role         *CodeableConcept `json:"role,omitempty"`
	Organization *Reference       `json:"organization,omitempty"`
}

type InventoryItemInstance struct {
	Identifier []Identifier `json:"identifier,omitempty"`
	LotNumber  string       `json:"lotNumber,omitempty"`
	Expiry     string       `json:"expiry,omitempty"`
}

// InventoryReport is a point-in-time stock count for one location (FHIR R5).
type InventoryReport struct {
	ResourceType     string             `json:"resourceType"`
	ID               string             `json:"id,omitempty"`
	Meta             *Meta              `json:"meta,omitempty"`
	Status           string             `json:"status,omitempty"`
	CountType        string             `json:"countType,omitempty"`
	ReportedDateTime string             `json:"reportedDateTime,omitempty"`
	Reporter         *Reference         `json:"reporter,omitempty"`
	InventoryListing []InventoryListing `json:"inventoryListing,omitempty"`
}

type InventoryListing struct {
	Location         *Reference             `json:"location,omitempty"`
	ItemStatus       *CodeableConcept       `json:"itemStatus,omitempty"`
	CountingDateTime string                 `json:"countingDateTime,omitempty"`
	Item             []InventoryListingItem `json:"item,omitempty"`
}

type InventoryListingItem struct {
	Category *CodeableConcept   `json:"category,omitempty"`
	Quantity *Quantity          `json:"quantity,omitempty"`
	Item     *CodeableReference `json:"item,omitempty"`
}
