package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"

	"github.com/docuverify/kyc-validation/client"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testPhoto() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 8, 8))
}

// stubProcessor is a deterministic PDFProcessor backed by fixed pages.
type stubProcessor struct {
	pageCount    int
	pageCountErr error
	pageTexts    map[int]string
	images       map[int]image.Image
	called       bool
}

func (p *stubProcessor) PageCount(_ []byte) (int, error) {
	p.called = true
	if p.pageCountErr != nil {
		return 0, p.pageCountErr
	}
	return p.pageCount, nil
}

func (p *stubProcessor) PageText(_ []byte, page int) (string, error) {
	if text, ok := p.pageTexts[page]; ok {
		return text, nil
	}
	return "", nil
}

func (p *stubProcessor) FirstImage(_ []byte, page int) (image.Image, error) {
	if img, ok := p.images[page]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("no image found on page %d", page)
}

// stubDetector returns a fixed detection list.
type stubDetector struct {
	detections []client.TextDetection
	err        error
}

func (d *stubDetector) DetectText(_ context.Context, _ []byte) ([]client.TextDetection, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.detections, nil
}

// stubComparer returns a fixed match list.
type stubComparer struct {
	matches []client.FaceMatchCandidate
	err     error
}

func (c *stubComparer) CompareFaces(_ context.Context, _, _ []byte, _ float32) ([]client.FaceMatchCandidate, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.matches, nil
}

// stubFaceDetector returns fixed bounding boxes.
type stubFaceDetector struct {
	boxes []client.BoundingBox
	err   error
}

func (d *stubFaceDetector) DetectFaces(_ context.Context, _ []byte) ([]client.BoundingBox, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.boxes, nil
}

func lineDetections(lines ...string) []client.TextDetection {
	detections := make([]client.TextDetection, 0, len(lines))
	for _, line := range lines {
		detections = append(detections, client.TextDetection{Text: line, Kind: client.TextKindLine})
	}
	return detections
}

var errStub = errors.New("stub failure")
