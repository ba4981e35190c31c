package handler

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/web"
)

// PageHandler serves the HTML pages
type PageHandler struct {
	service  EmotionService
	renderer *web.Renderer
	logger   *slog.Logger
}

func NewPageHandler(service EmotionService, renderer *web.Renderer, logger *slog.Logger) *PageHandler {
	return &PageHandler{
		service:  service,
		renderer: renderer,
		logger:   logger,
	}
}

// Index handles GET /
func (h *PageHandler) Index(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := h.renderer.Index(&buf, web.IndexData{}); err != nil {
		return fmt.Errorf("render index: %w", err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

// Dashboard handles GET /dashboard
func (h *PageHandler) Dashboard(c *fiber.Ctx) error {
	dashboard, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	err = h.renderer.Dashboard(&buf, web.DashboardData{
		Summary:   dashboard.Summary,
		ChartHTML: dashboard.ChartHTML,
	})
	if err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}
