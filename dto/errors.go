package dto

import "fmt"

// Structural validation error codes.
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidPDF       = "INVALID_PDF"
	CodeInvalidPageCount = "INVALID_PAGE_COUNT"
	CodeProcessingFailed = "PROCESSING_FAILED"
)

// ValidationError is a client-caused structural rejection. It carries the
// HTTP status the handler should respond with.
type ValidationError struct {
	Status  int
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Branch names used in extraction failures.
const (
	BranchKYC  = "kyc_validation"
	BranchFace = "face_similarity"
)

// ExtractionError is a fatal failure inside one of the two concurrent
// branches. It aborts the whole pipeline; no partial verdict is returned.
type ExtractionError struct {
	Branch string
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Branch, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Branch, e.Reason)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
