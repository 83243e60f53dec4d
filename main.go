package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/docuverify/kyc-validation/client"
	"github.com/docuverify/kyc-validation/config"
	"github.com/docuverify/kyc-validation/handler"
	"github.com/docuverify/kyc-validation/service"
)

const serviceName = "identity-cross-validation"

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.LoadConfig()

	rekognitionClient, err := client.NewRekognitionClient(context.Background(), cfg.AWSRegion, logger)
	if err != nil {
		logger.Error("failed to initialize Rekognition client", "error", err)
		os.Exit(1)
	}
	tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath, logger)

	pdfProcessor := service.NewPDFProcessor()

	thresholdPercent := float32(cfg.FaceSimilarityThreshold * 100)
	var matcher service.FaceMatcher
	switch cfg.FaceMatchStrategy {
	case "composite":
		matcher = service.NewCompositeFaceMatcher(rekognitionClient, rekognitionClient, thresholdPercent, logger)
	default:
		matcher = service.NewDirectFaceMatcher(rekognitionClient, thresholdPercent)
	}

	validationService := service.NewValidationService(
		service.NewStructuralValidator(pdfProcessor, cfg.MaxFileSizeMB, cfg.RequiredPageCount, logger),
		service.NewKYCService(pdfProcessor, rekognitionClient, tesseractClient, cfg.ResizeWidth, logger),
		service.NewFaceService(pdfProcessor, matcher, cfg.ResizeWidth, logger),
		cfg.TextSimilarityThreshold,
		cfg.FaceSimilarityThreshold,
		logger,
	)

	validationHandler := handler.NewValidationHandler(validationService, logger)

	router := gin.Default()

	// Multipart memory cap (32 MB); oversized files still stream to disk
	// and are rejected by the structural validator.
	router.MaxMultipartMemory = 32 << 20

	router.Use(requestTiming(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   serviceName,
		})
	})

	api := router.Group("/v1")
	{
		api.POST("/validate-application", validationHandler.ValidateApplication)
	}

	logger.Info("starting server", "service", serviceName, "port", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// requestTiming logs the wall time of every request and echoes it in an
// X-Request-Time-Ms header, injected just before the first write.
func requestTiming(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Writer = &timingWriter{ResponseWriter: c.Writer, start: start}

		c.Next()

		totalMs := math.Round(float64(time.Since(start).Microseconds())/10) / 100
		logger.Info("TOTAL REQ-RES TIMING",
			"method", c.Request.Method,
			"url", c.Request.URL.Path,
			"total_time_ms", totalMs,
		)
	}
}

type timingWriter struct {
	gin.ResponseWriter
	start time.Time
	set   bool
}

func (w *timingWriter) WriteHeader(code int) {
	w.setHeader()
	w.ResponseWriter.WriteHeader(code)
}

func (w *timingWriter) Write(b []byte) (int, error) {
	w.setHeader()
	return w.ResponseWriter.Write(b)
}

func (w *timingWriter) setHeader() {
	if w.set || w.Written() {
		return
	}
	w.set = true
	ms := math.Round(float64(time.Since(w.start).Microseconds())/10) / 100
	w.Header().Set("X-Request-Time-Ms", fmt.Sprintf("%.2f", ms))
}
