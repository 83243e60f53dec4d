package utils

import (
	"regexp"
	"strings"

	"github.com/docuverify/kyc-validation/dto"
)

// Patterns tuned for the unstructured layout of a printed PAN card. OCR
// output puts labels and values on separate lines, so \s* is allowed to
// cross line breaks.
var (
	cardPANPattern    = regexp.MustCompile(`\b([A-Z]{5}[0-9]{4}[A-Z])\b`)
	cardNamePattern   = regexp.MustCompile(`(?i)Name\s*[:\-]?\s*([A-Z ]{3,})`)
	cardFatherPattern = regexp.MustCompile(`(?i)Father['’]s\s+Name\s*[:\-]?\s*([A-Z ]{3,})`)
	cardDOBLabel      = regexp.MustCompile(`(?i)date\s*of\s*birth`)
	cardDOBValue      = regexp.MustCompile(`([0-9]{2}/[0-9]{2}/[0-9]{4})`)
)

// ParseCardFields extracts the four card fields from the recognized text
// blob (line detections joined with newlines). The PAN can appear anywhere;
// names follow their labels with an optional separator; the date of birth is
// the first dd/mm/yyyy value on the lines after the label, skipping
// intervening lines. Any field can be absent.
func ParseCardFields(text string) dto.Fields {
	return dto.Fields{
		dto.FieldPANNumber:  captureField(cardPANPattern, text),
		dto.FieldFullName:   captureField(cardNamePattern, text),
		dto.FieldFatherName: captureField(cardFatherPattern, text),
		dto.FieldDOB:        findCardDOB(text),
	}
}

func findCardDOB(text string) *string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !cardDOBLabel.MatchString(line) {
			continue
		}
		// The value may sit on the label line itself or a few lines below.
		if v := captureField(cardDOBValue, line); v != nil {
			return v
		}
		for _, next := range lines[i+1:] {
			if v := captureField(cardDOBValue, next); v != nil {
				return v
			}
		}
		return nil
	}
	return nil
}
