package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/docuverify/kyc-validation/dto"
)

// ApplicationValidator is the pipeline contract the handler fulfills over
// HTTP.
type ApplicationValidator interface {
	ValidateApplication(ctx context.Context, contents []byte, filename, applicationID string) (*dto.ValidationResponse, error)
}

type ValidationHandler struct {
	validator ApplicationValidator
	logger    *slog.Logger
}

func NewValidationHandler(validator ApplicationValidator, logger *slog.Logger) *ValidationHandler {
	return &ValidationHandler{
		validator: validator,
		logger:    logger,
	}
}

// ValidateApplication handles POST /v1/validate-application: multipart
// field "file" plus an optional "application_id" form value.
func (h *ValidationHandler) ValidateApplication(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "FILE_MISSING",
			Message: "multipart field 'file' is required",
		})
		return
	}

	applicationID := c.PostForm("application_id")
	if applicationID == "" {
		applicationID = "APP-" + strings.ToUpper(uuid.NewString()[:8])
	}

	h.logger.Info("START request", "file", fileHeader.Filename, "application_id", applicationID)

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("failed to open upload", "application_id", applicationID, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    dto.CodeProcessingFailed,
			Message: err.Error(),
		})
		return
	}
	defer file.Close()

	contents, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("failed to read upload", "application_id", applicationID, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    dto.CodeProcessingFailed,
			Message: err.Error(),
		})
		return
	}

	response, err := h.validator.ValidateApplication(c.Request.Context(), contents, fileHeader.Filename, applicationID)
	if err != nil {
		h.sendError(c, applicationID, err)
		return
	}

	h.logger.Info("END request", "application_id", applicationID, "overall_pass", response.OverallPass)
	c.JSON(http.StatusOK, response)
}

// sendError maps structural rejections to their own status and code; every
// other failure is surfaced as a generic PROCESSING_FAILED while the cause
// is logged verbatim with the application id.
func (h *ValidationHandler) sendError(c *gin.Context, applicationID string, err error) {
	var vErr *dto.ValidationError
	if errors.As(err, &vErr) {
		h.logger.Warn("structural validation rejected", "application_id", applicationID, "code", vErr.Code, "message", vErr.Message)
		c.JSON(vErr.Status, dto.ErrorResponse{Code: vErr.Code, Message: vErr.Message})
		return
	}

	h.logger.Error("ERROR processing", "application_id", applicationID, "error", err.Error())
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Code:    dto.CodeProcessingFailed,
		Message: err.Error(),
	})
}
