package mock

import (
	"context"
	"crypto/sha256"
	"encoding/binary"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/audit"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/domain"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/provider"
)

const (
	providerName = "mock"
	// imagens menores que isso são tratadas como "sem rosto"
	minImageSize = 1000
)

// Provider implementa provider.EmotionProvider para testes e desenvolvimento
type Provider struct {
	auditLogger audit.Logger
}

// New cria uma nova instância do MockProvider
func New(auditLogger audit.Logger) *Provider {
	if auditLogger == nil {
		auditLogger = &audit.NoOpLogger{}
	}
	return &Provider{auditLogger: auditLogger}
}

// Name implements provider.EmotionProvider
func (p *Provider) Name() string {
	return providerName
}

// AnalyzeEmotion escolhe um rótulo determinístico a partir do hash da imagem
func (p *Provider) AnalyzeEmotion(ctx context.Context, image []byte) (*provider.EmotionAnalysis, error) {
	if len(image) < minImageSize {
		_ = p.auditLogger.Log(ctx, audit.Event{
			EventType: audit.EventEmotionAnalyzed,
			Provider:  providerName,
			Error:     provider.ErrNoFaceDetected.Error(),
		})
		return nil, provider.ErrNoFaceDetected
	}

	label, scores := classify(image)

	_ = p.auditLogger.Log(ctx, audit.Event{
		EventType: audit.EventEmotionAnalyzed,
		Provider:  providerName,
		Emotion:   label,
		Success:   true,
	})

	return &provider.EmotionAnalysis{
		Dominant: label,
		Scores:   scores,
		Region: &provider.BoundingBox{
			X:      0.1,
			Y:      0.1,
			Width:  0.8,
			Height: 0.8,
		},
	}, nil
}

// classify gera scores determinísticos baseados no hash da imagem
func classify(image []byte) (string, map[string]float64) {
	hash := sha256.Sum256(image)
	labels := domain.ClassifierLabels
	dominant := labels[binary.BigEndian.Uint64(hash[:8])%uint64(len(labels))]

	scores := make(map[string]float64, len(labels))
	var rest float64
	for i, label := range labels {
		if label == dominant {
			continue
		}
		// cada rótulo restante recebe no máximo 5%
		score := float64(hash[8+i]) / 255.0 * 5
		scores[label] = score
		rest += score
	}
	scores[dominant] = 100 - rest

	return dominant, scores
}

var _ provider.EmotionProvider = (*Provider)(nil)
