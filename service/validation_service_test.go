package service

import (
	"context"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docuverify/kyc-validation/client"
	"github.com/docuverify/kyc-validation/dto"
)

const testFormText = `FULL NAME JOHN A SMITH
FATHER NAME ROBERT JAMES SMITH
DATE OF BIRTH (dd/mm/yyyy) 01/02/1990
PAN NUMBER ABCDE1234F
`

func matchingCardDetections() []client.TextDetection {
	detections := lineDetections(
		"INCOME TAX DEPARTMENT",
		"Name",
		"JOHN SMITH",
		"Father's Name",
		"ROBERT SMITH",
		"Date of Birth",
		"01/02/1990",
		"ABCDE1234F",
	)
	// Word-level detections must be filtered out before parsing.
	return append(detections, client.TextDetection{Text: "ZZZZZ9999Z", Kind: client.TextKindWord})
}

func newTestPipeline(processor *stubProcessor, detector client.TextDetector, comparer client.FaceComparer) *ValidationService {
	logger := testLogger()
	return NewValidationService(
		NewStructuralValidator(processor, 10, 3, logger),
		NewKYCService(processor, detector, nil, 600, logger),
		NewFaceService(processor, NewDirectFaceMatcher(comparer, 70), 600, logger),
		80,
		0.7,
		logger,
	)
}

func fullDocumentProcessor() *stubProcessor {
	return &stubProcessor{
		pageCount: 3,
		pageTexts: map[int]string{1: testFormText},
		images:    map[int]image.Image{2: testPhoto(), 3: testPhoto()},
	}
}

func TestValidateApplicationAllPass(t *testing.T) {
	pipeline := newTestPipeline(
		fullDocumentProcessor(),
		&stubDetector{detections: matchingCardDetections()},
		&stubComparer{matches: []client.FaceMatchCandidate{{Similarity: 99.5}}},
	)

	resp, err := pipeline.ValidateApplication(context.Background(), []byte("%PDF"), "doc.pdf", "APP-1")
	require.NoError(t, err)

	assert.Equal(t, "APP-1", resp.ApplicationID)
	assert.Len(t, resp.FieldMatches, 4)
	for _, name := range dto.FieldNames {
		assert.Equal(t, 100.0, resp.FieldMatches[name].Score, "field %s", name)
		assert.True(t, resp.FieldMatches[name].Pass, "field %s", name)
	}
	assert.True(t, resp.FieldPass)
	assert.Equal(t, 99.5, resp.FaceMatch.Similarity)
	assert.True(t, resp.FaceMatch.Pass)
	assert.True(t, resp.OverallPass)
	assert.Empty(t, resp.Errors)
	assert.NotEmpty(t, resp.ProcessedAt)
}

func TestValidateApplicationFaceFailureDoesNotMaskFields(t *testing.T) {
	pipeline := newTestPipeline(
		fullDocumentProcessor(),
		&stubDetector{detections: matchingCardDetections()},
		&stubComparer{matches: []client.FaceMatchCandidate{{Similarity: 50}}},
	)

	resp, err := pipeline.ValidateApplication(context.Background(), []byte("%PDF"), "doc.pdf", "APP-2")
	require.NoError(t, err)

	assert.True(t, resp.FieldPass)
	assert.False(t, resp.FaceMatch.Pass)
	assert.Equal(t, 50.0, resp.FaceMatch.Similarity)
	assert.False(t, resp.OverallPass)
}

func TestValidateApplicationAbsentCardFieldScoresZero(t *testing.T) {
	detections := lineDetections(
		"Name",
		"JOHN SMITH",
		"Date of Birth",
		"01/02/1990",
		"ABCDE1234F",
	)
	pipeline := newTestPipeline(
		fullDocumentProcessor(),
		&stubDetector{detections: detections},
		&stubComparer{matches: []client.FaceMatchCandidate{{Similarity: 99.5}}},
	)

	resp, err := pipeline.ValidateApplication(context.Background(), []byte("%PDF"), "doc.pdf", "APP-3")
	require.NoError(t, err)

	assert.Equal(t, 0.0, resp.FieldMatches[dto.FieldFatherName].Score)
	assert.False(t, resp.FieldMatches[dto.FieldFatherName].Pass)
	assert.False(t, resp.FieldPass)
	assert.False(t, resp.OverallPass)

	codes := make([]string, 0, len(resp.Errors))
	for _, e := range resp.Errors {
		codes = append(codes, e.Code)
	}
	assert.Contains(t, codes, "FATHER_NAME_MISMATCH")
}

func TestValidateApplicationOCRErrorBelowThreshold(t *testing.T) {
	// One-character OCR error in the PAN: 90 is below 100 but above the
	// 80 threshold, so the field still passes.
	detections := lineDetections(
		"Name",
		"JOHN SMITH",
		"Father's Name",
		"ROBERT SMITH",
		"Date of Birth",
		"01/02/1990",
		"ABCDE1234G",
	)
	pipeline := newTestPipeline(
		fullDocumentProcessor(),
		&stubDetector{detections: detections},
		&stubComparer{matches: []client.FaceMatchCandidate{{Similarity: 99.5}}},
	)

	resp, err := pipeline.ValidateApplication(context.Background(), []byte("%PDF"), "doc.pdf", "APP-4")
	require.NoError(t, err)

	assert.Equal(t, 90.0, resp.FieldMatches[dto.FieldPANNumber].Score)
	assert.True(t, resp.FieldMatches[dto.FieldPANNumber].Pass)
}

func TestValidateApplicationMismatchedPANEmitsError(t *testing.T) {
	detections := lineDetections(
		"Name",
		"JOHN SMITH",
		"Father's Name",
		"ROBERT SMITH",
		"Date of Birth",
		"01/02/1990",
		"VWXYZ9999K",
	)
	pipeline := newTestPipeline(
		fullDocumentProcessor(),
		&stubDetector{detections: detections},
		&stubComparer{matches: []client.FaceMatchCandidate{{Similarity: 99.5}}},
	)

	resp, err := pipeline.ValidateApplication(context.Background(), []byte("%PDF"), "doc.pdf", "APP-9")
	require.NoError(t, err)

	match := resp.FieldMatches[dto.FieldPANNumber]
	assert.Less(t, match.Score, 80.0)
	assert.False(t, match.Pass)
	assert.False(t, resp.FieldPass)

	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "PAN_NUMBER_MISMATCH", resp.Errors[0].Code)
	assert.Contains(t, resp.Errors[0].Message, "PAN NUMBER")
}

func TestValidateApplicationBranchFailureAbortsPipeline(t *testing.T) {
	// No image on the live-photo page: the face branch fails even though
	// the text branch would succeed, and no partial verdict is returned.
	processor := fullDocumentProcessor()
	delete(processor.images, 3)

	pipeline := newTestPipeline(
		processor,
		&stubDetector{detections: matchingCardDetections()},
		&stubComparer{matches: []client.FaceMatchCandidate{{Similarity: 99.5}}},
	)

	resp, err := pipeline.ValidateApplication(context.Background(), []byte("%PDF"), "doc.pdf", "APP-5")
	require.Error(t, err)
	assert.Nil(t, resp)

	var extErr *dto.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, dto.BranchFace, extErr.Branch)
}

func TestValidateApplicationKYCBranchFailureAbortsPipeline(t *testing.T) {
	pipeline := newTestPipeline(
		fullDocumentProcessor(),
		&stubDetector{err: errStub},
		&stubComparer{matches: []client.FaceMatchCandidate{{Similarity: 99.5}}},
	)

	resp, err := pipeline.ValidateApplication(context.Background(), []byte("%PDF"), "doc.pdf", "APP-6")
	require.Error(t, err)
	assert.Nil(t, resp)

	var extErr *dto.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, dto.BranchKYC, extErr.Branch)
}

func TestValidateApplicationStructuralRejectionSkipsBranches(t *testing.T) {
	pipeline := newTestPipeline(
		&stubProcessor{pageCount: 2},
		&stubDetector{err: errStub},
		&stubComparer{err: errStub},
	)

	resp, err := pipeline.ValidateApplication(context.Background(), []byte("%PDF"), "doc.pdf", "APP-7")
	require.Error(t, err)
	assert.Nil(t, resp)

	var vErr *dto.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, dto.CodeInvalidPageCount, vErr.Code)
}

func TestValidateApplicationIdempotent(t *testing.T) {
	pipeline := newTestPipeline(
		fullDocumentProcessor(),
		&stubDetector{detections: matchingCardDetections()},
		&stubComparer{matches: []client.FaceMatchCandidate{{Similarity: 86.42}}},
	)

	first, err := pipeline.ValidateApplication(context.Background(), []byte("%PDF"), "doc.pdf", "APP-8")
	require.NoError(t, err)
	second, err := pipeline.ValidateApplication(context.Background(), []byte("%PDF"), "doc.pdf", "APP-8")
	require.NoError(t, err)

	// Identical verdicts, timestamps and latencies excluded.
	assert.Equal(t, first.FieldMatches, second.FieldMatches)
	assert.Equal(t, first.FieldPass, second.FieldPass)
	assert.Equal(t, first.FaceMatch, second.FaceMatch)
	assert.Equal(t, first.OverallPass, second.OverallPass)
	assert.Equal(t, first.Errors, second.Errors)
}
