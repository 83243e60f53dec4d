package service

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"math"
	"time"

	"github.com/docuverify/kyc-validation/client"
	"github.com/docuverify/kyc-validation/dto"
)

const (
	cardPhotoPage = 2
	livePhotoPage = 3
)

// FaceMatcher scores the similarity of two photo regions on a 0-100 scale.
// Implementations record their stage timings into lat.
type FaceMatcher interface {
	Match(ctx context.Context, source, target image.Image, lat *dto.FaceLatency) (float64, error)
}

// FaceService runs the face evidence branch: the identity-card photo from
// page 2 and the live photo from page 3, scored by the configured matcher.
type FaceService struct {
	processor   PDFProcessor
	matcher     FaceMatcher
	resizeWidth int
	logger      *slog.Logger
}

func NewFaceService(processor PDFProcessor, matcher FaceMatcher, resizeWidth int, logger *slog.Logger) *FaceService {
	return &FaceService{
		processor:   processor,
		matcher:     matcher,
		resizeWidth: resizeWidth,
		logger:      logger,
	}
}

func (s *FaceService) Process(ctx context.Context, pdfData []byte) (*dto.FaceResult, error) {
	start := time.Now()
	var latency dto.FaceLatency

	var photos [2]image.Image
	for i, page := range []int{cardPhotoPage, livePhotoPage} {
		img, err := s.processor.FirstImage(pdfData, page)
		if err != nil {
			return nil, &dto.ExtractionError{Branch: dto.BranchFace, Reason: "photo extraction", Err: err}
		}
		photos[i] = resizeToWidth(img, s.resizeWidth)
	}
	latency.ImagePreprocessing = millisSince(start)

	similarity, err := s.matcher.Match(ctx, photos[0], photos[1], &latency)
	if err != nil {
		return nil, &dto.ExtractionError{Branch: dto.BranchFace, Reason: "face comparison failed", Err: err}
	}

	latency.Total = millisSince(start)
	s.logger.Info("face comparison completed", "similarity", similarity, "latency_ms", latency.Total)

	return &dto.FaceResult{
		Similarity: math.Round(similarity*100) / 100,
		Latency:    latency,
	}, nil
}

// DirectFaceMatcher submits the two photos as source and target to the
// comparison primitive and reads the top match. An empty match list scores
// 0 rather than failing: the service resolved both regions, they just do
// not look alike.
type DirectFaceMatcher struct {
	comparer         client.FaceComparer
	thresholdPercent float32
}

func NewDirectFaceMatcher(comparer client.FaceComparer, thresholdPercent float32) *DirectFaceMatcher {
	return &DirectFaceMatcher{comparer: comparer, thresholdPercent: thresholdPercent}
}

func (m *DirectFaceMatcher) Match(ctx context.Context, source, target image.Image, lat *dto.FaceLatency) (float64, error) {
	sourceBytes, err := encodeJPEG(source)
	if err != nil {
		return 0, err
	}
	targetBytes, err := encodeJPEG(target)
	if err != nil {
		return 0, err
	}

	t := time.Now()
	matches, err := m.comparer.CompareFaces(ctx, sourceBytes, targetBytes, m.thresholdPercent)
	lat.FaceComparison = millisSince(t)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, nil
	}
	return matches[0].Similarity, nil
}

// CompositeFaceMatcher pastes both photos side-by-side, locates faces in
// the combined frame, crops the two regions and compares the crops. Unlike
// the direct strategy it requires both faces to be detectable: fewer than
// two is a fatal failure, not a zero score.
type CompositeFaceMatcher struct {
	detector         client.FaceDetector
	comparer         client.FaceComparer
	thresholdPercent float32
	logger           *slog.Logger
}

func NewCompositeFaceMatcher(detector client.FaceDetector, comparer client.FaceComparer, thresholdPercent float32, logger *slog.Logger) *CompositeFaceMatcher {
	return &CompositeFaceMatcher{
		detector:         detector,
		comparer:         comparer,
		thresholdPercent: thresholdPercent,
		logger:           logger,
	}
}

func (m *CompositeFaceMatcher) Match(ctx context.Context, source, target image.Image, lat *dto.FaceLatency) (float64, error) {
	combined := compositeSideBySide(source, target)
	combinedBytes, err := encodeJPEG(combined)
	if err != nil {
		return 0, err
	}

	t1 := time.Now()
	boxes, err := m.detector.DetectFaces(ctx, combinedBytes)
	lat.FaceDetection = millisSince(t1)
	if err != nil {
		return 0, err
	}
	if len(boxes) < 2 {
		return 0, fmt.Errorf("expected 2 faces but found %d", len(boxes))
	}
	m.logger.Info("face detection on combined image completed", "faces", len(boxes), "latency_ms", lat.FaceDetection)

	crops := make([][]byte, 0, 2)
	w, h := combined.Bounds().Dx(), combined.Bounds().Dy()
	for _, box := range boxes[:2] {
		left := int(box.Left * float64(w))
		top := int(box.Top * float64(h))
		right := left + int(box.Width*float64(w))
		bottom := top + int(box.Height*float64(h))

		crop := combined.SubImage(image.Rect(left, top, right, bottom).Intersect(combined.Bounds()))
		cropBytes, err := encodeJPEG(crop)
		if err != nil {
			return 0, err
		}
		crops = append(crops, cropBytes)
	}

	t2 := time.Now()
	matches, err := m.comparer.CompareFaces(ctx, crops[0], crops[1], m.thresholdPercent)
	lat.FaceComparison = millisSince(t2)
	if err != nil {
		return 0, err
	}
	if len(matches) == 0 {
		return 0, nil
	}
	return matches[0].Similarity, nil
}
