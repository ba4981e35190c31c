package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/domain"
	"github.com/saturnino-fabrica-de-software/emotiondash/internal/service"
)

// EmotionService interface for the service
type EmotionService interface {
	Analyze(ctx context.Context, dataURL string) (string, error)
	Summary(ctx context.Context) (domain.EmotionSummary, error)
	Dashboard(ctx context.Context) (*service.Dashboard, error)
	Ready(ctx context.Context) error
}

// AnalyzeRequest is the body of POST /analyze
type AnalyzeRequest struct {
	Image string `json:"image"`
}

// AnalyzeResponse response for analyze endpoint
type AnalyzeResponse struct {
	Emotion string `json:"emotion"`
}

// EmotionHandler handles the JSON emotion endpoints
type EmotionHandler struct {
	service EmotionService
	logger  *slog.Logger
}

// NewEmotionHandler creates a new EmotionHandler instance
func NewEmotionHandler(service EmotionService, logger *slog.Logger) *EmotionHandler {
	return &EmotionHandler{
		service: service,
		logger:  logger,
	}
}

// Analyze handles POST /analyze
func (h *EmotionHandler) Analyze(c *fiber.Ctx) error {
	var req AnalyzeRequest
	// the body is decoded as JSON whatever the Content-Type says
	if err := c.App().Config().JSONDecoder(c.Body(), &req); err != nil {
		h.logger.Debug("invalid analyze body", "error", err)
		return domain.ErrNoImageProvided
	}
	if strings.TrimSpace(req.Image) == "" {
		return domain.ErrNoImageProvided
	}

	emotion, err := h.service.Analyze(c.UserContext(), req.Image)
	if err != nil {
		return err
	}

	return c.JSON(AnalyzeResponse{Emotion: emotion})
}

// Summary handles GET /api/summary
func (h *EmotionHandler) Summary(c *fiber.Ctx) error {
	summary, err := h.service.Summary(c.UserContext())
	if err != nil {
		return err
	}

	return c.JSON(summary)
}
