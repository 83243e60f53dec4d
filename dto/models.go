package dto

// Field names compared between the application form and the PAN card.
const (
	FieldPANNumber  = "pan_number"
	FieldFullName   = "full_name"
	FieldFatherName = "father_name"
	FieldDOB        = "dob"
)

// FieldNames lists the compared fields in response order.
var FieldNames = []string{FieldPANNumber, FieldFullName, FieldFatherName, FieldDOB}

// Fields maps a field name to its extracted value. A nil value means the
// field could not be read from that page; it is never the empty string.
type Fields map[string]*string

// Get returns the field value or "" when absent.
func (f Fields) Get(name string) string {
	if v, ok := f[name]; ok && v != nil {
		return *v
	}
	return ""
}

// FieldMatch is the per-field comparison outcome.
type FieldMatch struct {
	Score float64 `json:"score"`
	Pass  bool    `json:"pass"`
}

// FaceMatch is the face-comparison outcome.
type FaceMatch struct {
	Similarity float64 `json:"similarity"`
	Pass       bool    `json:"pass"`
}

// KYCLatency carries the card-branch stage timings in milliseconds.
type KYCLatency struct {
	FormExtractionMs float64 `json:"form_extraction_ms"`
	OCRMs            float64 `json:"rekognition_ocr_ms"`
	ComparisonMs     float64 `json:"comparison_ms"`
}

// FaceLatency carries the face-branch stage timings in milliseconds.
// FaceDetection stays zero under the direct comparison strategy.
type FaceLatency struct {
	ImagePreprocessing float64 `json:"image_preprocessing"`
	FaceDetection      float64 `json:"face_detection"`
	FaceComparison     float64 `json:"face_comparison"`
	Total              float64 `json:"total"`
}

// KYCResult is the output of the card-field extraction branch.
type KYCResult struct {
	FormFields  Fields
	CardFields  Fields
	MatchScores map[string]float64
	Latency     KYCLatency
}

// FaceResult is the output of the face evidence branch.
type FaceResult struct {
	Similarity float64
	Latency    FaceLatency
}
