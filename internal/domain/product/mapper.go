package product

import (
	"fmt"

	"github.com/hcm/fhirsync/internal/platform/fhir"
)

// FromInventoryItem extracts a product variant. The variant id comes from
// the resource id, falling back to the product variant identifier.
func FromInventoryItem(item *fhir.InventoryItem, tenantID string) (*Variant, error) {
	id := item.ID
	if id == "" {
		id = fhir.IdentifierValue(item.Identifier, fhir.SystemProductVariantID)
	}
	if id == "" {
		return nil, fmt.Errorf("inventory item: missing id")
	}

	v := &Variant{
		ID:        id,
		TenantID:  tenantID,
		ProductID: fhir.IdentifierValue(item.Identifier, fhir.SystemProductVariantID),
		SKU:       fhir.IdentifierValue(item.Identifier, fhir.SystemSKU),
	}
	if v.ProductID == "" {
		return nil, fmt.Errorf("inventory item %s: missing product identifier", id)
	}
	if len(item.Name) > 0 {
		v.Variation = item.Name[0].Name
	}
	return v, nil
}

// The product registry does not track the inventory side of the resource
// yet, so category, base unit, net content, manufacturer and the instance
// block go out as fixed placeholders until real fields back them.
const (
	placeholderCategory     = "health-commodity"
	placeholderBaseUnit     = "BALE"
	placeholderNetContent   = float64(10)
	placeholderManufacturer = "Default Manufacturer"
	placeholderGTIN         = "00000000000000"
	placeholderLotNumber    = "LOT-0001"
	placeholderExpiry       = "2030-01-01"
	roleManufacturer        = "manufacturer"
)

// ToFHIR projects the variant onto an InventoryItem. The outbound shape is
// richer than the inbound one: the placeholder blocks have no inverse
// extraction, so only identity fields round trip.
func (v *Variant) ToFHIR() *fhir.InventoryItem {
	netContent := placeholderNetContent
	item := &fhir.InventoryItem{
		ResourceType: "InventoryItem",
		ID:           v.ID,
		Meta:         &fhir.Meta{Profile: []string{fhir.ProfileInventoryItem}},
		Status:       "active",
		Identifier: []fhir.Identifier{{
			System: fhir.SystemProductVariantID,
			Value:  v.ProductID,
		}},
		Category: []fhir.CodeableConcept{{
			Coding: []fhir.Coding{{
				System:  fhir.SystemProductCategory,
				Code:    placeholderCategory,
				Display: placeholderCategory,
			}},
		}},
		BaseUnit: &fhir.CodeableConcept{
			Coding: []fhir.Coding{{
				System:  fhir.SystemUnitOfMeasure,
				Code:    placeholderBaseUnit,
				Display: placeholderBaseUnit,
			}},
		},
		NetContent: &fhir.Quantity{Value: &netContent},
		ResponsibleOrganization: []fhir.ResponsibleOrganization{{
			Organization: &fhir.Reference{Display: placeholderManufacturer},
			Role: &fhir.CodeableConcept{
				Coding: []fhir.Coding{{
					System:  fhir.SystemOrganizationRole,
					Code:    roleManufacturer,
					Display: roleManufacturer,
				}},
			},
		}},
		Instance: &fhir.InventoryItemInstance{
			Identifier: []fhir.Identifier{{
				System: fhir.SystemGTIN,
				Value:  placeholderGTIN,
			}},
			LotNumber: placeholderLotNumber,
			Expiry:    placeholderExpiry,
		},
	}
	if v.SKU != "" {
		item.Identifier = append(item.Identifier, fhir.Identifier{
			System: fhir.SystemSKU,
			Value:  v.SKU,
		})
	}
	if v.Variation != "" {
		item.Name = []fhir.InventoryItemName{{
			NameType: &fhir.Coding{System: fhir.SystemNameType, Code: "trade-name"},
			Language: "en",
			Name:     v.Variation,
		}}
	}
	return item
}
