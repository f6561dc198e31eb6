package product

// Variant is one sellable or distributable form of a product in the product
// registry.
type Variant struct {
	ID        string `json:"id,omitempty"`
	TenantID  string `json:"tenantId"`
	ProductID string `json:"productId"`
	SKU       string `json:"sku,omitempty"`
	Variation string `json:"variation,omitempty"`
}
