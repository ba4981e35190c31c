package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/audit"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/chart"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/domain"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/imagedecode"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/metrics"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/provider"
)

// Reasons attached to classification failures in logs
const (
	ReasonDecodeFailed  = "decode_failed"
	ReasonNoFace        = "no_face"
	ReasonProviderError = "provider_error"
)

type EmotionLogRepositoryInterface interface {
	EnsureInitialized(ctx context.Context) error
	Append(ctx context.Context, record domain.EmotionRecord) error
	ReadAll(ctx context.Context) ([]domain.EmotionRecord, error)
}

// EventPublisher is notified after every recorded label
type EventPublisher interface {
	PublishEmotion(emotion string, recordedAt time.Time)
}

// Dashboard is everything the dashboard page renders
type Dashboard struct {
	Summary domain.EmotionSummary
	// ChartHTML is empty when there is nothing to plot
	ChartHTML string
}

type EmotionService struct {
	repo         EmotionLogRepositoryInterface
	provider     provider.EmotionProvider
	publisher    EventPublisher
	auditLogger  audit.Logger
	logger       *slog.Logger
	chartOptions chart.Options
	now          func() time.Time
}

func NewEmotionService(
	repo EmotionLogRepositoryInterface,
	emotionProvider provider.EmotionProvider,
	logger *slog.Logger,
) *EmotionService {
	return &EmotionService{
		repo:         repo,
		provider:     emotionProvider,
		auditLogger:  &audit.NoOpLogger{},
		logger:       logger,
		chartOptions: chart.DefaultOptions(),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *EmotionService) WithPublisher(p EventPublisher) *EmotionService {
	s.publisher = p
	return s
}

func (s *EmotionService) WithAuditLogger(l audit.Logger) *EmotionService {
	s.auditLogger = l
	return s
}

func (s *EmotionService) WithChartOptions(o chart.Options) *EmotionService {
	s.chartOptions = o
	return s
}

// Analyze classifies one capture and appends the label to the log.
// Any decoding or classification failure yields domain.EmotionNoFace; only a
// missing image or a failed write is returned as an error.
func (s *EmotionService) Analyze(ctx context.Context, dataURL string) (string, error) {
	if strings.TrimSpace(dataURL) == "" {
		return "", domain.ErrNoImageProvided
	}

	label := s.classify(ctx, dataURL)

	record := domain.EmotionRecord{Emotion: label, RecordedAt: s.now()}
	if err := s.repo.Append(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "failed to record emotion",
			slog.String("emotion", label),
			slog.String("error", err.Error()),
		)
		s.audit(ctx, label, err)
		return "", domain.ErrRecordFailed.WithError(err)
	}

	s.audit(ctx, label, nil)
	if s.publisher != nil {
		s.publisher.PublishEmotion(label, record.RecordedAt)
	}

	return label, nil
}

func (s *EmotionService) classify(ctx context.Context, dataURL string) string {
	img, err := imagedecode.Decode(dataURL)
	if err != nil {
		s.noFace(ctx, ReasonDecodeFailed, err)
		return domain.EmotionNoFace
	}

	analysis, err := s.provider.AnalyzeEmotion(ctx, img.Data)
	if err != nil {
		reason := ReasonProviderError
		if errors.Is(err, provider.ErrNoFaceDetected) {
			reason = ReasonNoFace
		}
		s.noFace(ctx, reason, err)
		return domain.EmotionNoFace
	}

	label := strings.TrimSpace(analysis.Dominant)
	if label == "" {
		s.noFace(ctx, ReasonProviderError, errors.New("empty dominant emotion"))
		return domain.EmotionNoFace
	}

	s.logger.DebugContext(ctx, "emotion classified",
		slog.String("emotion", label),
		slog.String("provider", s.provider.Name()),
		slog.String("format", img.Format),
		slog.Int("width", img.Width()),
		slog.Int("height", img.Height()),
	)

	return label
}

func (s *EmotionService) noFace(ctx context.Context, reason string, err error) {
	s.logger.WarnContext(ctx, "classification failed, recording sentinel",
		slog.String("reason", reason),
		slog.String("provider", s.provider.Name()),
		slog.String("error", err.Error()),
	)
}

// Summary aggregates the whole log
func (s *EmotionService) Summary(ctx context.Context) (domain.EmotionSummary, error) {
	records, err := s.repo.ReadAll(ctx)
	if err != nil {
		return domain.EmotionSummary{}, domain.ErrLogUnavailable.WithError(err)
	}
	return metrics.Aggregate(records), nil
}

// Dashboard aggregates the log and renders the pie chart when there is data
func (s *EmotionService) Dashboard(ctx context.Context) (*Dashboard, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{Summary: summary}
	if summary.IsEmpty() {
		return d, nil
	}

	html, err := chart.RenderPie(summary, s.chartOptions)
	if err != nil {
		return nil, domain.ErrInternal.WithError(err)
	}
	d.ChartHTML = html

	return d, nil
}

// Ready checks the log can be written to
func (s *EmotionService) Ready(ctx context.Context) error {
	if err := s.repo.EnsureInitialized(ctx); err != nil {
		return domain.ErrLogUnavailable.WithError(err)
	}
	return nil
}

func (s *EmotionService) audit(ctx context.Context, label string, err error) {
	event := audit.Event{
		EventType: audit.EventEmotionRecorded,
		Provider:  s.provider.Name(),
		Emotion:   label,
		Success:   err == nil,
		Metadata:  map[string]string{"no_face": strconv.FormatBool(label == domain.EmotionNoFace)},
	}
	if err != nil {
		event.Error = err.Error()
	}
	_ = s.auditLogger.Log(ctx, event)
}
