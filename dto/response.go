package dto

// FieldError is one entry in the verdict's error list.
type FieldError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Metrics is the latency breakdown returned to the caller.
type Metrics struct {
	ProcessingMs float64 `json:"processing_ms"`
	OCRMs        float64 `json:"ocr_ms"`
	FaceMatchMs  float64 `json:"face_match_ms"`
}

// ValidationResponse is the verdict for POST /v1/validate-application.
type ValidationResponse struct {
	ApplicationID string                `json:"application_id"`
	FieldMatches  map[string]FieldMatch `json:"field_matches"`
	FieldPass     bool                  `json:"field_pass"`
	FaceMatch     FaceMatch             `json:"face_match"`
	OverallPass   bool                  `json:"overall_pass"`
	Errors        []FieldError          `json:"errors"`
	ProcessedAt   string                `json:"processed_at"`
	Metrics       Metrics               `json:"metrics"`
}

// ErrorResponse is the body returned for any non-200 outcome.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
