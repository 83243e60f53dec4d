package client

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// TesseractClient is a local text detector used as the fallback when the
// remote service is unavailable. Tesseract output carries no detection
// kinds, so every non-empty line is surfaced as a LINE detection.
type TesseractClient struct {
	dataPath string
	logger   *slog.Logger
}

func NewTesseractClient(dataPath string, logger *slog.Logger) *TesseractClient {
	return &TesseractClient{
		dataPath: dataPath,
		logger:   logger,
	}
}

func (tc *TesseractClient) DetectText(ctx context.Context, image []byte) ([]TextDetection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ocr := gosseract.NewClient()
	defer ocr.Close()

	ocr.SetTessdataPrefix(tc.dataPath)
	if err := ocr.SetLanguage("eng"); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}

	if err := ocr.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := ocr.Text()
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	var detections []TextDetection
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		detections = append(detections, TextDetection{Text: line, Kind: TextKindLine})
	}

	tc.logger.Debug("tesseract fallback completed", "lines", len(detections))
	return detections, nil
}
