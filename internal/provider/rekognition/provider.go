package rekognition

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/audit"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/domain"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/provider"
)

const (
	providerName = "rekognition"
	// maxImageSize is the maximum image size supported by AWS Rekognition (5MB)
	maxImageSize = 5 * 1024 * 1024
	// minImageSize is the minimum image size for valid processing
	minImageSize = 100
)

// emotionLabels maps Rekognition emotion types onto the DeepFace vocabulary
var emotionLabels = map[types.EmotionName]string{
	types.EmotionNameHappy:     domain.EmotionHappy,
	types.EmotionNameSad:       domain.EmotionSad,
	types.EmotionNameAngry:     domain.EmotionAngry,
	types.EmotionNameDisgusted: domain.EmotionDisgust,
	types.EmotionNameSurprised: domain.EmotionSurprise,
	types.EmotionNameFear:      domain.EmotionFear,
	types.EmotionNameCalm:      domain.EmotionNeutral,
	types.EmotionNameConfused:  domain.EmotionConfused,
}

// Provider implements provider.EmotionProvider using AWS Rekognition DetectFaces
type Provider struct {
	api         RekognitionAPI
	config      Config
	auditLogger audit.Logger
}

// ProviderOption defines optional configuration for Provider
type ProviderOption func(*Provider)

// WithAuditLogger sets the audit logger for the provider
func WithAuditLogger(logger audit.Logger) ProviderOption {
	return func(p *Provider) {
		p.auditLogger = logger
	}
}

// Ensure Provider implements provider.EmotionProvider interface at compile time
var _ provider.EmotionProvider = (*Provider)(nil)

// NewProvider creates a Rekognition provider backed by the AWS SDK
func NewProvider(ctx context.Context, cfg Config, opts ...ProviderOption) (*Provider, error) {
	client, err := NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create rekognition client: %w", err)
	}
	return NewProviderWithAPI(client, cfg, opts...), nil
}

// NewProviderWithAPI creates a provider around an existing API implementation
func NewProviderWithAPI(api RekognitionAPI, cfg Config, opts ...ProviderOption) *Provider {
	p := &Provider{
		api:         api,
		config:      cfg,
		auditLogger: &audit.NoOpLogger{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements provider.EmotionProvider
func (p *Provider) Name() string {
	return providerName
}

// validateImage checks if image data is valid for Rekognition processing
func validateImage(image []byte) error {
	if len(image) == 0 {
		return ErrInvalidImage
	}
	if len(image) < minImageSize {
		return fmt.Errorf("%w: image too small (%d bytes, minimum %d)", ErrInvalidImage, len(image), minImageSize)
	}
	if len(image) > maxImageSize {
		return fmt.Errorf("%w: image too large (%d bytes, maximum %d)", ErrInvalidImage, len(image), maxImageSize)
	}
	return nil
}

// AnalyzeEmotion runs DetectFaces with all attributes and returns the strongest
// emotion of the most confident face
func (p *Provider) AnalyzeEmotion(ctx context.Context, image []byte) (*provider.EmotionAnalysis, error) {
	metadata := map[string]string{"image_size": strconv.Itoa(len(image))}

	if err := validateImage(image); err != nil {
		p.logAudit(ctx, "", err, metadata)
		return nil, err
	}

	output, err := p.api.DetectFaces(ctx, &rekognition.DetectFacesInput{
		Image: &types.Image{
			Bytes: image,
		},
		Attributes: []types.Attribute{types.AttributeAll},
	})
	if err != nil {
		err = fmt.Errorf("detect faces: %w", ParseDetectError(err))
		p.logAudit(ctx, "", err, metadata)
		return nil, err
	}

	metadata["faces_count"] = strconv.Itoa(len(output.FaceDetails))

	analysis, err := p.dominantEmotion(output.FaceDetails)
	if err != nil {
		p.logAudit(ctx, "", err, metadata)
		return nil, err
	}

	p.logAudit(ctx, analysis.Dominant, nil, metadata)
	return analysis, nil
}

// dominantEmotion selects the most confident face above the threshold and
// its highest-confidence emotion
func (p *Provider) dominantEmotion(details []types.FaceDetail) (*provider.EmotionAnalysis, error) {
	var face *types.FaceDetail
	for i := range details {
		confidence := aws.ToFloat32(details[i].Confidence)
		if confidence < p.config.MinFaceConfidence {
			continue
		}
		if face == nil || confidence > aws.ToFloat32(face.Confidence) {
			face = &details[i]
		}
	}
	if face == nil {
		return nil, ErrNoFaceDetected
	}

	scores := make(map[string]float64, len(face.Emotions))
	var best types.EmotionName
	bestScore := float32(-1)
	for _, emotion := range face.Emotions {
		score := aws.ToFloat32(emotion.Confidence)
		scores[labelFor(emotion.Type)] = float64(score)
		if score > bestScore {
			best = emotion.Type
			bestScore = score
		}
	}

	label, ok := emotionLabels[best]
	if !ok {
		// UNKNOWN or no emotion attributes at all
		return nil, fmt.Errorf("%w: emotion %q", ErrNoFaceDetected, best)
	}

	analysis := &provider.EmotionAnalysis{
		Dominant: label,
		Scores:   scores,
	}
	if box := face.BoundingBox; box != nil {
		analysis.Region = &provider.BoundingBox{
			X:      float64(aws.ToFloat32(box.Left)),
			Y:      float64(aws.ToFloat32(box.Top)),
			Width:  float64(aws.ToFloat32(box.Width)),
			Height: float64(aws.ToFloat32(box.Height)),
		}
	}

	return analysis, nil
}

func labelFor(name types.EmotionName) string {
	if label, ok := emotionLabels[name]; ok {
		return label
	}
	return string(name)
}

// logAudit logs an audit event; audit failure does not affect the operation
func (p *Provider) logAudit(ctx context.Context, emotion string, err error, metadata map[string]string) {
	event := audit.Event{
		EventType: audit.EventEmotionAnalyzed,
		Provider:  providerName,
		Emotion:   emotion,
		Success:   err == nil,
		Metadata:  metadata,
	}
	if err != nil {
		event.Error = err.Error()
	}

	_ = p.auditLogger.Log(ctx, event)
}
