package deepface

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/audit"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/provider"
)

const providerName = "deepface"

// Provider implements provider.EmotionProvider using DeepFace API
type Provider struct {
	client      *Client
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

// NewProvider creates a new DeepFace provider
func NewProvider(config Config, opts ...ProviderOption) *Provider {
	p := &Provider{
		client:      NewClient(config),
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

// AnalyzeEmotion sends the image to DeepFace and returns the first face's dominant emotion
func (p *Provider) AnalyzeEmotion(ctx context.Context, image []byte) (*provider.EmotionAnalysis, error) {
	metadata := map[string]string{"image_size": strconv.Itoa(len(image))}

	resp, err := p.client.Analyze(ctx, toDataURL(image))
	if err != nil {
		err = fmt.Errorf("analyze emotion: %w", err)
		p.logAudit(ctx, "", err, metadata)
		return nil, err
	}

	analysis, err := firstFace(resp)
	if err != nil {
		p.logAudit(ctx, "", err, metadata)
		return nil, err
	}

	p.logAudit(ctx, analysis.Dominant, nil, metadata)
	return analysis, nil
}

// firstFace picks the first result. With enforce_detection off DeepFace reports a
// face_confidence of 0 when it fell back to the whole frame.
func firstFace(resp *AnalyzeResponse) (*provider.EmotionAnalysis, error) {
	if len(resp.Results) == 0 {
		return nil, ErrNoFaceInResponse
	}

	result := resp.Results[0]
	if result.FaceConfidence != nil && *result.FaceConfidence <= 0 {
		return nil, ErrNoFaceInResponse
	}

	dominant := strings.ToLower(strings.TrimSpace(result.DominantEmotion))
	if dominant == "" {
		dominant = highestScore(result.Emotion)
	}
	if dominant == "" {
		return nil, fmt.Errorf("%w: missing dominant_emotion", ErrInvalidResponse)
	}

	return &provider.EmotionAnalysis{
		Dominant: dominant,
		Scores:   result.Emotion,
		Region: &provider.BoundingBox{
			X:      float64(result.Region.X),
			Y:      float64(result.Region.Y),
			Width:  float64(result.Region.W),
			Height: float64(result.Region.H),
		},
	}, nil
}

// highestScore returns the label with the largest score, "" for an empty map
func highestScore(scores map[string]float64) string {
	best := ""
	bestScore := -1.0
	for label, score := range scores {
		if score > bestScore || (score == bestScore && label < best) {
			best = label
			bestScore = score
		}
	}
	return strings.ToLower(best)
}

func toDataURL(image []byte) string {
	return "data:" + http.DetectContentType(image) + ";base64," + base64.StdEncoding.EncodeToString(image)
}

// logAudit logs an audit event; failures never affect the analysis
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

// Ensure Provider implements provider.EmotionProvider
var _ provider.EmotionProvider = (*Provider)(nil)
