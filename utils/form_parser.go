package utils

import (
	"regexp"
	"strings"

	"github.com/docuverify/kyc-validation/dto"
)

// Label-anchored patterns for the self-attested form on page 1. The form has
// a fixed layout, so every label is matched exactly.
var formPatterns = map[string]*regexp.Regexp{
	dto.FieldPANNumber:  regexp.MustCompile(`PAN NUMBER\s+([A-Z]{5}[0-9]{4}[A-Z])`),
	dto.FieldFullName:   regexp.MustCompile(`FULL NAME\s+([A-Z ]+)`),
	dto.FieldFatherName: regexp.MustCompile(`FATHER NAME\s+([A-Z ]+)`),
	dto.FieldDOB:        regexp.MustCompile(`DATE OF BIRTH\s+\(dd/mm/yyyy\)\s+([0-9]{2}/[0-9]{2}/[0-9]{4})`),
}

// ParseFormFields extracts the four declared identity fields from the form
// page's text layer. Each pattern is evaluated independently; a field with
// no match is nil, never the empty string.
func ParseFormFields(text string) dto.Fields {
	fields := make(dto.Fields, len(formPatterns))
	for name, pattern := range formPatterns {
		fields[name] = captureField(pattern, text)
	}
	return fields
}

func captureField(pattern *regexp.Regexp, text string) *string {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return nil
	}
	return &v
}
