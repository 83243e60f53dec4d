package service

import (
	"context"
	"image"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/docuverify/kyc-validation/client"
	"github.com/docuverify/kyc-validation/dto"
	"github.com/docuverify/kyc-validation/utils"
)

const (
	formPage = 1
	cardPage = 2
)

// KYCService runs the card-field branch: form fields from the page 1 text
// layer, card fields from the page 2 image via the text-recognition
// service, and fuzzy match scores for each field pair.
type KYCService struct {
	processor   PDFProcessor
	detector    client.TextDetector
	fallback    client.TextDetector
	resizeWidth int
	logger      *slog.Logger
}

// NewKYCService builds the branch. fallback may be nil; when set it is
// consulted only after the primary detector fails.
func NewKYCService(processor PDFProcessor, detector, fallback client.TextDetector, resizeWidth int, logger *slog.Logger) *KYCService {
	return &KYCService{
		processor:   processor,
		detector:    detector,
		fallback:    fallback,
		resizeWidth: resizeWidth,
		logger:      logger,
	}
}

func (s *KYCService) Process(ctx context.Context, pdfData []byte) (*dto.KYCResult, error) {
	var latency dto.KYCLatency

	t0 := time.Now()
	formText, err := s.processor.PageText(pdfData, formPage)
	if err != nil {
		return nil, &dto.ExtractionError{Branch: dto.BranchKYC, Reason: "form text extraction", Err: err}
	}
	formFields := utils.ParseFormFields(formText)
	latency.FormExtractionMs = millisSince(t0)
	s.logger.Info("form page extracted", "latency_ms", latency.FormExtractionMs)

	img, err := s.processor.FirstImage(pdfData, cardPage)
	if err != nil {
		return nil, &dto.ExtractionError{Branch: dto.BranchKYC, Reason: "card image extraction", Err: err}
	}

	resized := resizeToWidth(img, s.resizeWidth)
	imageBytes, err := encodeJPEG(resized)
	if err != nil {
		return nil, &dto.ExtractionError{Branch: dto.BranchKYC, Reason: "card image encoding", Err: err}
	}
	s.logger.Info("card image processed and resized", "width", s.resizeWidth)

	t1 := time.Now()
	cardText, err := s.recognizeText(ctx, imageBytes)
	if err != nil {
		return nil, &dto.ExtractionError{Branch: dto.BranchKYC, Reason: "card text recognition", Err: err}
	}
	latency.OCRMs = millisSince(t1)
	s.logger.Info("card OCR completed", "latency_ms", latency.OCRMs)

	// Newer PAN cards carry a QR code duplicating the printed fields; a
	// successful decode supplements the recognized text. Failure is silent.
	if qrText := decodeQRText(resized); qrText != "" {
		cardText = cardText + "\n" + qrText
		s.logger.Info("card QR decoded", "bytes", len(qrText))
	}

	cardFields := utils.ParseCardFields(cardText)

	t2 := time.Now()
	scores := map[string]float64{
		dto.FieldFullName:   utils.NameScore(formFields.Get(dto.FieldFullName), cardFields.Get(dto.FieldFullName)),
		dto.FieldFatherName: utils.NameScore(formFields.Get(dto.FieldFatherName), cardFields.Get(dto.FieldFatherName)),
		dto.FieldPANNumber:  utils.ExactScore(formFields.Get(dto.FieldPANNumber), cardFields.Get(dto.FieldPANNumber)),
		dto.FieldDOB:        utils.ExactScore(formFields.Get(dto.FieldDOB), cardFields.Get(dto.FieldDOB)),
	}
	latency.ComparisonMs = millisSince(t2)

	return &dto.KYCResult{
		FormFields:  formFields,
		CardFields:  cardFields,
		MatchScores: scores,
		Latency:     latency,
	}, nil
}

// recognizeText submits the card image to the primary detector and keeps
// line-level detections only, joined in detection order. The local fallback
// detector is tried when the primary fails.
func (s *KYCService) recognizeText(ctx context.Context, imageBytes []byte) (string, error) {
	detections, err := s.detector.DetectText(ctx, imageBytes)
	if err != nil && s.fallback != nil {
		s.logger.Warn("primary text detection failed, falling back", "error", err)
		detections, err = s.fallback.DetectText(ctx, imageBytes)
	}
	if err != nil {
		return "", err
	}

	var lines []string
	for _, d := range detections {
		if d.Kind == client.TextKindLine {
			lines = append(lines, d.Text)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func decodeQRText(img image.Image) string {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return ""
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return ""
	}
	return result.GetText()
}

func millisSince(t time.Time) float64 {
	return math.Round(float64(time.Since(t).Microseconds())/10) / 100
}
