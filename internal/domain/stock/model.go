package stock

// Transaction types carried on a stock ledger movement.
const (
	TransactionTypeReceived   = "RECEIVED"
	TransactionTypeDispatched = "DISPATCHED"
)

// Sender and receiver default to warehouses; staff-level attribution is not
// carried on the wire representation.
const (
	PartyTypeWarehouse = "WAREHOUSE"

	ReferenceIDTypeOther = "OTHER"
)

// Stock is one ledger movement in the stock service.
type Stock struct {
	ID                string `json:"id,omitempty"`
	TenantID          string `json:"tenantId"`
	FacilityID        string `json:"facilityId,omitempty"`
	ProductVariantID  string `json:"productVariantId,omitempty"`
	Quantity          int    `json:"quantity"`
	ReferenceID       string `json:"referenceId,omitempty"`
	ReferenceIDType   string `json:"referenceIdType,omitempty"`
	TransactionType   string `json:"transactionType,omitempty"`
	TransactionReason string `json:"transactionReason,omitempty"`
	WayBillNumber     string `json:"wayBillNumber,omitempty"`
	SenderID          string `json:"senderId,omitempty"`
	SenderType        string `json:"senderType,omitempty"`
	ReceiverID        string `json:"receiverId,omitempty"`
	ReceiverType      string `json:"receiverType,omitempty"`
	DateOfEntry       int64  `json:"dateOfEntry,omitempty"`
}

// Reconciliation is a point-in-time count in the stock reconciliation
// service. The wire report carries a single quantity which feeds both the
// calculated and physical counts.
type Reconciliation struct {
	ID                   string `json:"id,omitempty"`
	TenantID             string `json:"tenantId"`
	FacilityID           string `json:"facilityId,omitempty"`
	ProductVariantID     string `json:"productVariantId,omitempty"`
	ReferenceID          string `json:"referenceId,omitempty"`
	ReferenceIDType      string `json:"referenceIdType,omitempty"`
	PhysicalCount        int    `json:"physicalCount"`
	CalculatedCount      int    `json:"calculatedCount"`
	DateOfReconciliation int64  `json:"dateOfReconciliation,omitempty"`
}
