package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/docuverify/kyc-validation/dto"
)

// ValidationService is the identity cross-validation pipeline: structural
// validation, the two concurrent evidence branches, and verdict aggregation.
type ValidationService struct {
	validator *StructuralValidator
	kyc       *KYCService
	face      *FaceService

	textThreshold float64
	faceThreshold float64 // fraction in [0,1]; compared against similarity*100

	logger *slog.Logger
}

func NewValidationService(
	validator *StructuralValidator,
	kyc *KYCService,
	face *FaceService,
	textThreshold float64,
	faceThreshold float64,
	logger *slog.Logger,
) *ValidationService {
	return &ValidationService{
		validator:     validator,
		kyc:           kyc,
		face:          face,
		textThreshold: textThreshold,
		faceThreshold: faceThreshold,
		logger:        logger,
	}
}

// ValidateApplication runs the whole pipeline over the submitted document
// bytes. Structural failures return a *dto.ValidationError before either
// branch starts; a failure inside either branch aborts the join and no
// partial verdict is returned.
func (s *ValidationService) ValidateApplication(ctx context.Context, contents []byte, filename, applicationID string) (*dto.ValidationResponse, error) {
	if err := s.validator.Validate(contents, filename); err != nil {
		return nil, err
	}

	start := time.Now()

	// The two branches read the same immutable byte slice and write to
	// their own result slots; the errgroup join is their only sync point.
	// No cancellation on failure: the losing branch finishes and its
	// result is discarded.
	var (
		kycResult  *dto.KYCResult
		faceResult *dto.FaceResult
		g          errgroup.Group
	)
	g.Go(func() error {
		r, err := s.kyc.Process(ctx, contents)
		if err != nil {
			return err
		}
		kycResult = r
		return nil
	})
	g.Go(func() error {
		r, err := s.face.Process(ctx, contents)
		if err != nil {
			return err
		}
		faceResult = r
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	processingMs := millisSince(start)
	s.logger.Info("total processing time", "application_id", applicationID, "latency_ms", processingMs)

	fieldMatches := make(map[string]dto.FieldMatch, len(dto.FieldNames))
	fieldPass := true
	fieldErrors := []dto.FieldError{}
	for _, name := range dto.FieldNames {
		score := kycResult.MatchScores[name]
		pass := score >= s.textThreshold
		fieldMatches[name] = dto.FieldMatch{Score: score, Pass: pass}
		if !pass {
			fieldPass = false
			fieldErrors = append(fieldErrors, dto.FieldError{
				Code:    strings.ToUpper(name) + "_MISMATCH",
				Message: fmt.Sprintf("%s differs between Page 1 and PAN card", strings.ToUpper(strings.ReplaceAll(name, "_", " "))),
			})
		}
	}

	facePass := faceResult.Similarity >= s.faceThreshold*100

	return &dto.ValidationResponse{
		ApplicationID: applicationID,
		FieldMatches:  fieldMatches,
		FieldPass:     fieldPass,
		FaceMatch:     dto.FaceMatch{Similarity: faceResult.Similarity, Pass: facePass},
		OverallPass:   fieldPass && facePass,
		Errors:        fieldErrors,
		ProcessedAt:   time.Now().UTC().Format(time.RFC3339),
		Metrics: dto.Metrics{
			ProcessingMs: processingMs,
			OCRMs:        kycResult.Latency.OCRMs,
			FaceMatchMs:  faceResult.Latency.Total,
		},
	}, nil
}
