package fhir

// Location represents both facilities and administrative boundaries; the
// meta.profile tag tells them apart.
type Location struct {
	ResourceType string            `json:"resourceType"`
	ID           string            `json:"id,omitempty"`
	Meta         *Meta             `json:"meta,omitempty"`
	Identifier   []Identifier      `json:"identifier,omitempty"`
	Status       string            `json:"status,omitempty"`
	Name         string            `json:"name,omitempty"`
	Alias        []string          `json:"alias,omitempty"`
	Description  string            `json:"description,omitempty"`
	Type         []CodeableConcept `json:"type,omitempty"`
	Address      *Address          `json:"address,omitempty"`
	Position     *Position         `json:"position,omitempty"`
	PartOf       *Reference        `json:"partOf,omitempty"`
}
