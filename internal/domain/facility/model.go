package facility

// Facility is a storage or service point in the facility registry.
type Facility struct {
	ID              string   `json:"id,omitempty"`
	TenantID        string   `json:"tenantId"`
	IsPermanent     bool     `json:"isPermanent"`
	Name            string   `json:"name,omitempty"`
	Usage           string   `json:"usage,omitempty"`
	StorageCapacity *int64   `json:"storageCapacity,omitempty"`
	Address         *Address `json:"address,omitempty"`
}

// Address keeps the three street lines separate; the wire shape flattens
// them into a positional list.
type Address struct {
	BuildingName string   `json:"buildingName,omitempty"`
	AddressLine1 string   `json:"addressLine1,omitempty"`
	AddressLine2 string   `json:"addressLine2,omitempty"`
	City         string   `json:"city,omitempty"`
	Pincode      string   `json:"pincode,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
}
