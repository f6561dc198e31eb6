package fhir

// Canonical profile URLs that disambiguate Location resources.
const (
	ProfileFacilityLocation = "https://digit.org/fhir/StructureDefinition/DIGITHCMFacilityLocation"
	ProfileBoundary         = "https://digit.org/fhir/StructureDefinition/DIGITHCMBoundary"
	ProfileSupplyDelivery   = "https://digit.org/fhir/StructureDefinition/DIGITHCMSupplyDelivery"
	ProfileInventoryItem    = "https://digit.org/fhir/StructureDefinition/DIGITHCMInventoryItem"
	ProfileInventoryReport  = "https://digit.org/fhir/StructureDefinition/DIGITHCMInventoryReport"
)

// Identifier systems used on inbound and outbound resources.
const (
	SystemFacilityID       = "https://digit.org/fhir/facilityid"
	SystemBoundaryCode     = "https://digit.org/fhir/boundarymasterdata"
	SystemProductVariantID = "http://digit.org/fhir/productVariant-identifier"
	SystemSKU              = "http://digit.org/fhir/productVariantSku-identifier"
	SystemGTIN             = "https://www.gs1.org"
	SystemWaybillNumber    = "https://digit.org/fhir/waybillnumber"
)

// Code systems.
const (
	SystemLocationType      = "https://digit.org/CodeSystem/DIGITHCM.Location.Types"
	SystemFacilityUsage     = "http://digit.org/fhir/CodeSystem/facilityUsage"
	SystemProductCategory   = "http://digit.org/fhir/CodeSystem/ProductVariant-Producttype"
	SystemTransactionReason = "https://digit.org/CodeSystem/DIGITHCM.Transaction.Reason"
	SystemTransactionType   = "https://digit.org/CodeSystem/DIGITHCM.Transaction.Type"
	SystemUnitOfMeasure     = "http://unitsofmeasure.org"
	SystemNameType          = "http://hl7.org/fhir/inventoryitem-nametype"
	SystemOrganizationRole  = "http://digit.org/fhir/CodeSystem/responsibleOrganization-role"
)

// Extension URLs carried by SupplyDelivery resources.
const (
	ExtSupplyItemCondition = "https://digit.org/fhir/StructureDefinition/supply-delivery-condition"
	ExtSupplyStage         = "https://digit.org/fhir/StructureDefinition/supply-delivery-stage"
	ExtEventLocation       = "https://digit.org/fhir/StructureDefinition/event-location"
	ExtSenderLocation      = "https://digit.org/fhir/StructureDefinition/supply-delivery-sender-location"
)
