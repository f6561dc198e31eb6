package fhir

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Issue severity and type codes used in OperationOutcome issues.
const (
	IssueSeverityError = "error"

	IssueTypeStructure = "structure"
	IssueTypeRequired  = "required"
	IssueTypeValue     = "value"
)

// referencePattern matches FHIR references in the format "ResourceType/id".
// The id charset is wider than the FHIR core grammar because boundary codes
// carry underscores.
var referencePattern = regexp.MustCompile(`^[A-Z][a-zA-Z]+/[a-zA-Z0-9\-\._]+$`)

// supportedResourceTypes lists the resource types this service ingests.
// Other types are accepted by the validator and rejected later per entry.
var supportedResourceTypes = map[string]bool{
	"SupplyDelivery":  true,
	"Location":        true,
	"InventoryItem":   true,
	"InventoryReport": true,
}

// ValidationResult holds the results of a bundle validation.
type ValidationResult struct {
	Valid  bool
	Issues []OperationOutcomeIssue
}

// ToOperationOutcome converts a ValidationResult into an OperationOutcome.
func (vr *ValidationResult) ToOperationOutcome() *OperationOutcome {
	return &OperationOutcome{
		ResourceType: "OperationOutcome",
		Issue:        vr.Issues,
	}
}

// Errors flattens the issues into plain diagnostic strings.
func (vr *ValidationResult) Errors() []string {
	out := make([]string, 0, len(vr.Issues))
	for _, issue := range vr.Issues {
		out = append(out, issue.Diagnostics)
	}
	return out
}

// Validator performs structural validation of inbound bundles before they are
// dispatched. It stands in for a full profile validator, which runs as a
// separate service in some deployments.
type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// ValidateBundle checks the raw payload: it must decode, declare resourceType
// Bundle, and every entry must carry a resource with a resourceType. Entries
// of unsupported types do not fail validation; the dispatcher reports those
// individually so the rest of the bundle still syncs.
func (v *Validator) ValidateBundle(raw []byte) *ValidationResult {
	result := &ValidationResult{Valid: true}

	var doc struct {
		ResourceType string `json:"resourceType"`
		Entry        []struct {
			Resource json.RawMessage `json:"resource"`
		} `json:"entry"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		result.fail(IssueTypeStructure, "invalid JSON: "+err.Error(), "")
		return result
	}

	if doc.ResourceType != "Bundle" {
		result.fail(IssueTypeValue, fmt.Sprintf("expected resourceType Bundle, got %q", doc.ResourceType), "resourceType")
		return result
	}

	for i, entry := range doc.Entry {
		path := fmt.Sprintf("entry[%d]", i)
		if len(entry.Resource) == 0 {
			result.fail(IssueTypeRequired, path+".resource is required", path+".resource")
			continue
		}
		var res Resource
		if err := json.Unmarshal(entry.Resource, &res); err != nil {
			result.fail(IssueTypeStructure, path+".resource is not a valid resource: "+err.Error(), path+".resource")
			continue
		}
		if res.ResourceType == "" {
			result.fail(IssueTypeRequired, path+".resource.resourceType is required", path+".resource.resourceType")
		}
	}

	return result
}

func (vr *ValidationResult) fail(code, diagnostics, expression string) {
	vr.Valid = false
	issue := OperationOutcomeIssue{
		Severity:    IssueSeverityError,
		Code:        code,
		Diagnostics: diagnostics,
	}
	if expression != "" {
		issue.Expression = []string{expression}
	}
	vr.Issues = append(vr.Issues, issue)
}

// IsSupportedResourceType reports whether this service can ingest the type.
func IsSupportedResourceType(rt string) bool {
	return supportedResourceTypes[rt]
}

// ValidateReferenceFormat validates that a reference matches "ResourceType/id".
func ValidateReferenceFormat(ref string) bool {
	return referencePattern.MatchString(ref)
}
