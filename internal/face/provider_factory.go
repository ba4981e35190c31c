package face

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/audit"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/config"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/provider"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/provider/deepface"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/provider/mock"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/provider/rekognition"
)

// ProviderType defines supported emotion classifier types
type ProviderType string

const (
	// ProviderTypeDeepFace is the DeepFace REST service (default)
	ProviderTypeDeepFace ProviderType = "deepface"
	// ProviderTypeRekognition is AWS Rekognition DetectFaces
	ProviderTypeRekognition ProviderType = "rekognition"
	// ProviderTypeMock is a deterministic offline classifier
	ProviderTypeMock ProviderType = "mock"
)

// NewEmotionProvider creates an EmotionProvider instance based on configuration
//
// Environment variables:
//   - EMOTION_PROVIDER: "deepface", "rekognition" or "mock" (default: "deepface")
//   - DEEPFACE_URL, DEEPFACE_DETECTOR, DEEPFACE_TIMEOUT, DEEPFACE_RETRIES
//   - AWS_REGION plus the AWS SDK credential chain for Rekognition
func NewEmotionProvider(ctx context.Context, cfg *config.Config, auditLogger audit.Logger) (provider.EmotionProvider, error) {
	if auditLogger == nil {
		auditLogger = &audit.NoOpLogger{}
	}

	switch ProviderType(cfg.EmotionProvider) {
	case ProviderTypeDeepFace, "":
		return createDeepFaceProvider(cfg, auditLogger), nil

	case ProviderTypeRekognition:
		return createRekognitionProvider(ctx, cfg, auditLogger)

	case ProviderTypeMock:
		return mock.New(auditLogger), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s (supported: %s, %s, %s)",
			cfg.EmotionProvider, ProviderTypeDeepFace, ProviderTypeRekognition, ProviderTypeMock)
	}
}

// createRekognitionProvider creates an AWS Rekognition provider instance
func createRekognitionProvider(ctx context.Context, cfg *config.Config, auditLogger audit.Logger) (provider.EmotionProvider, error) {
	rekogConfig := rekognition.DefaultConfig()
	if cfg.AWSRegion != "" {
		rekogConfig.Region = cfg.AWSRegion
	}

	prov, err := rekognition.NewProvider(ctx, rekogConfig, rekognition.WithAuditLogger(auditLogger))
	if err != nil {
		return nil, fmt.Errorf("create rekognition provider: %w", err)
	}

	return prov, nil
}

// createDeepFaceProvider creates a DeepFace provider instance
func createDeepFaceProvider(cfg *config.Config, auditLogger audit.Logger) provider.EmotionProvider {
	deepfaceConfig := deepface.DefaultConfig()

	// empty values keep the defaults
	if cfg.DeepFaceURL != "" {
		deepfaceConfig.BaseURL = cfg.DeepFaceURL
	}
	if cfg.DeepFaceDetector != "" {
		deepfaceConfig.Detector = cfg.DeepFaceDetector
	}
	if cfg.DeepFaceTimeout > 0 {
		deepfaceConfig.Timeout = cfg.DeepFaceTimeout
	}
	if cfg.DeepFaceRetries >= 0 {
		deepfaceConfig.RetryCount = cfg.DeepFaceRetries
	}

	return deepface.NewProvider(deepfaceConfig, deepface.WithAuditLogger(auditLogger))
}
