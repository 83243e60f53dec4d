package service

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/docuverify/kyc-validation/dto"
)

// StructuralValidator enforces the document preconditions before any
// expensive work runs: size cap, PDF well-formedness, exact page count.
type StructuralValidator struct {
	processor     PDFProcessor
	maxFileSizeMB int64
	requiredPages int
	logger        *slog.Logger
}

func NewStructuralValidator(processor PDFProcessor, maxFileSizeMB int64, requiredPages int, logger *slog.Logger) *StructuralValidator {
	return &StructuralValidator{
		processor:     processor,
		maxFileSizeMB: maxFileSizeMB,
		requiredPages: requiredPages,
		logger:        logger,
	}
}

// Validate checks the raw upload in order: size, format, page count. The
// size check runs before any parse attempt. A filename without the .pdf
// extension is only a logged warning; content validity governs.
func (v *StructuralValidator) Validate(contents []byte, filename string) error {
	sizeMB := float64(len(contents)) / (1024 * 1024)
	if sizeMB > float64(v.maxFileSizeMB) {
		return &dto.ValidationError{
			Status:  http.StatusRequestEntityTooLarge,
			Code:    dto.CodeFileTooLarge,
			Message: fmt.Sprintf("File size (%.2f MB) exceeds maximum allowed size (%d MB)", sizeMB, v.maxFileSizeMB),
		}
	}

	pageCount, err := v.processor.PageCount(contents)
	if err != nil {
		return &dto.ValidationError{
			Status:  http.StatusBadRequest,
			Code:    dto.CodeInvalidPDF,
			Message: "File is not a valid PDF or is corrupted",
		}
	}

	if pageCount != v.requiredPages {
		return &dto.ValidationError{
			Status:  http.StatusBadRequest,
			Code:    dto.CodeInvalidPageCount,
			Message: fmt.Sprintf("PDF must have exactly %d pages, found %d pages", v.requiredPages, pageCount),
		}
	}

	if filename != "" && !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		v.logger.Warn("file does not have .pdf extension but contains valid PDF content", "filename", filename)
	}

	return nil
}
