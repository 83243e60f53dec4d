package client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// Text detection kinds returned by the document-intelligence service.
const (
	TextKindLine = "LINE"
	TextKindWord = "WORD"
)

// TextDetection is one recognized text fragment in detection order.
type TextDetection struct {
	Text string
	Kind string
}

// FaceMatchCandidate is one face match, ordered by similarity descending.
type FaceMatchCandidate struct {
	Similarity float64
}

// BoundingBox locates a detected face as fractions of the frame size.
type BoundingBox struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// TextDetector recognizes text in an encoded image.
type TextDetector interface {
	DetectText(ctx context.Context, image []byte) ([]TextDetection, error)
}

// FaceComparer scores the similarity of the most prominent face in the
// source image against faces in the target image. An empty result means no
// match above the threshold.
type FaceComparer interface {
	CompareFaces(ctx context.Context, source, target []byte, thresholdPercent float32) ([]FaceMatchCandidate, error)
}

// FaceDetector locates faces in an encoded image.
type FaceDetector interface {
	DetectFaces(ctx context.Context, image []byte) ([]BoundingBox, error)
}

// RekognitionClient is the AWS Rekognition-backed implementation of the
// document-intelligence contracts.
type RekognitionClient struct {
	api    *rekognition.Client
	logger *slog.Logger
}

func NewRekognitionClient(ctx context.Context, region string, logger *slog.Logger) (*RekognitionClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &RekognitionClient{
		api:    rekognition.NewFromConfig(cfg),
		logger: logger,
	}, nil
}

func (c *RekognitionClient) DetectText(ctx context.Context, image []byte) ([]TextDetection, error) {
	out, err := c.api.DetectText(ctx, &rekognition.DetectTextInput{
		Image: &types.Image{Bytes: image},
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect-text failed: %w", err)
	}

	detections := make([]TextDetection, 0, len(out.TextDetections))
	for _, d := range out.TextDetections {
		detections = append(detections, TextDetection{
			Text: aws.ToString(d.DetectedText),
			Kind: string(d.Type),
		})
	}

	c.logger.Debug("rekognition detect-text completed", "detections", len(detections))
	return detections, nil
}

func (c *RekognitionClient) CompareFaces(ctx context.Context, source, target []byte, thresholdPercent float32) ([]FaceMatchCandidate, error) {
	out, err := c.api.CompareFaces(ctx, &rekognition.CompareFacesInput{
		SourceImage:         &types.Image{Bytes: source},
		TargetImage:         &types.Image{Bytes: target},
		SimilarityThreshold: aws.Float32(thresholdPercent),
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition compare-faces failed: %w", err)
	}

	matches := make([]FaceMatchCandidate, 0, len(out.FaceMatches))
	for _, m := range out.FaceMatches {
		matches = append(matches, FaceMatchCandidate{
			Similarity: float64(aws.ToFloat32(m.Similarity)),
		})
	}
	return matches, nil
}

func (c *RekognitionClient) DetectFaces(ctx context.Context, image []byte) ([]BoundingBox, error) {
	out, err := c.api.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image:      &types.Image{Bytes: image},
		Attributes: []types.Attribute{types.AttributeDefault},
	})
	if err != nil {
		return nil, fmt.Errorf("rekognition detect-faces failed: %w", err)
	}

	boxes := make([]BoundingBox, 0, len(out.FaceDetails))
	for _, f := range out.FaceDetails {
		if f.BoundingBox == nil {
			continue
		}
		boxes = append(boxes, BoundingBox{
			Left:   float64(aws.ToFloat32(f.BoundingBox.Left)),
			Top:    float64(aws.ToFloat32(f.BoundingBox.Top)),
			Width:  float64(aws.ToFloat32(f.BoundingBox.Width)),
			Height: float64(aws.ToFloat32(f.BoundingBox.Height)),
		})
	}
	return boxes, nil
}
