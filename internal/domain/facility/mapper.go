package facility

import (
	"fmt"

	"github.com/hcm/fhirsync/internal/platform/fhir"
)

// facilityTypeCode is the fixed Location type distinguishing facilities from
// other location kinds.
const facilityTypeCode = "facility"

// FromLocation extracts a facility from a Location tagged with the facility
// profile. The id comes from the resource id, falling back to the facility
// identifier.
func FromLocation(loc *fhir.Location, tenantID string) (*Facility, error) {
	id := loc.ID
	if id == "" {
		id = fhir.IdentifierValue(loc.Identifier, fhir.SystemFacilityID)
	}
	if id == "" {
		return nil, fmt.Errorf("facility location: missing id")
	}

	f := &Facility{
		ID:          id,
		TenantID:    tenantID,
		IsPermanent: true,
		Name:        loc.Name,
	}
	for _, t := range loc.Type {
		if code := t.CodeBySystem(fhir.SystemFacilityUsage); code != "" {
			f.Usage = code
			break
		}
	}
	f.Address = addressFromWire(loc.Address, loc.Position)
	return f, nil
}

// addressFromWire reconstructs the street lines positionally: three lines
// carry a building name, fewer do not.
func addressFromWire(addr *fhir.Address, pos *fhir.Position) *Address {
	if addr == nil && pos == nil {
		return nil
	}
	out := &Address{}
	if addr != nil {
		switch len(addr.Line) {
		case 0:
		case 1:
			out.AddressLine1 = addr.Line[0]
		case 2:
			out.AddressLine1 = addr.Line[0]
			out.AddressLine2 = addr.Line[1]
		default:
			out.BuildingName = addr.Line[0]
			out.AddressLine1 = addr.Line[1]
			out.AddressLine2 = addr.Line[2]
		}
		out.City = addr.City
		out.Pincode = addr.PostalCode
	}
	if pos != nil {
		out.Latitude = pos.Latitude
		out.Longitude = pos.Longitude
	}
	return out
}

// ToFHIR projects the facility onto a Location with the facility profile.
func (f *Facility) ToFHIR() *fhir.Location {
	loc := &fhir.Location{
		ResourceType: "Location",
		ID:           f.ID,
		Meta:         &fhir.Meta{Profile: []string{fhir.ProfileFacilityLocation}},
		Status:       "active",
		Name:         f.Name,
		Identifier: []fhir.Identifier{{
			System: fhir.SystemFacilityID,
			Value:  f.ID,
		}},
		Type: []fhir.CodeableConcept{{
			Coding: []fhir.Coding{{System: fhir.SystemLocationType, Code: facilityTypeCode}},
		}},
	}
	if f.Usage != "" {
		loc.Type = append(loc.Type, fhir.CodeableConcept{
			Coding: []fhir.Coding{{System: fhir.SystemFacilityUsage, Code: f.Usage}},
		})
	}
	if f.Address != nil {
		addr := &fhir.Address{City: f.Address.City, PostalCode: f.Address.Pincode}
		for _, line := range []string{f.Address.BuildingName, f.Address.AddressLine1, f.Address.AddressLine2} {
			if line != "" {
				addr.Line = append(addr.Line, line)
			}
		}
		if len(addr.Line) > 0 || addr.City != "" || addr.PostalCode != "" {
			loc.Address = addr
		}
		if f.Address.Latitude != nil || f.Address.Longitude != nil {
			loc.Position = &fhir.Position{
				Latitude:  f.Address.Latitude,
				Longitude: f.Address.Longitude,
			}
		}
	}
	return loc
}
