// Package web renders the capture and dashboard pages.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	DefaultIndexTitle     = "Emotion Capture"
	DefaultDashboardTitle = "Emotion Analysis Dashboard"
	// NoDataMessage is shown instead of a chart when the log is empty
	NoDataMessage = "No data yet!"
)

type IndexData struct {
	Title           string
	IntervalSeconds int
}

type DashboardData struct {
	Title     string
	Summary   domain.EmotionSummary
	ChartHTML string
}

// Renderer holds the parsed page templates
type Renderer struct {
	index     *template.Template
	dashboard *template.Template
}

func NewRenderer() (*Renderer, error) {
	index, err := template.ParseFS(templatesFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	dashboard, err := template.ParseFS(templatesFS, "templates/dashboard.html")
	if err != nil {
		return nil, fmt.Errorf("parse dashboard template: %w", err)
	}

	return &Renderer{index: index, dashboard: dashboard}, nil
}

// MustNewRenderer panics if the embedded templates do not parse
func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Renderer) Index(w io.Writer, data IndexData) error {
	if data.Title == "" {
		data.Title = DefaultIndexTitle
	}
	if data.IntervalSeconds <= 0 {
		data.IntervalSeconds = 3
	}
	return r.index.Execute(w, data)
}

func (r *Renderer) Dashboard(w io.Writer, data DashboardData) error {
	if data.Title == "" {
		data.Title = DefaultDashboardTitle
	}
	return r.dashboard.Execute(w, data)
}
