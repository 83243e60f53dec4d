package config

import (
	"os"
	"strconv"
)

type Config struct {
	ServerPort        string
	AWSRegion         string
	TesseractDataPath string

	MaxFileSizeMB     int64
	RequiredPageCount int
	ResizeWidth       int

	TextSimilarityThreshold float64
	FaceSimilarityThreshold float64

	// FaceMatchStrategy selects the face comparison algorithm:
	// "direct" (source/target compare) or "composite" (detect then crop).
	FaceMatchStrategy string
}

func LoadConfig() *Config {
	return &Config{
		ServerPort:              envOr("SERVER_PORT", "8080"),
		AWSRegion:               envOr("AWS_REGION", "us-east-1"),
		TesseractDataPath:       envOr("TESSDATA_PREFIX", "/usr/share/tesseract-ocr/5/tessdata/"),
		MaxFileSizeMB:           envOrInt64("MAX_FILE_SIZE_MB", 10),
		RequiredPageCount:       int(envOrInt64("REQUIRED_PAGE_COUNT", 3)),
		ResizeWidth:             int(envOrInt64("RESIZE_WIDTH", 600)),
		TextSimilarityThreshold: envOrFloat("TEXT_SIMILARITY_THRESHOLD", 80),
		FaceSimilarityThreshold: envOrFloat("FACE_SIMILARITY_THRESHOLD", 0.7),
		FaceMatchStrategy:       envOr("FACE_MATCH_STRATEGY", "direct"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envOrFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
