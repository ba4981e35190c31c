package chart

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/domain"
)

const (
	DefaultTitle = "Emotion Analysis Dashboard"

	// slice label: name, count and share of the total
	labelFormat = "{b}: {c} ({d}%)"
	chartID     = "emotion_pie"
)

// ErrNoData is returned when there is nothing to plot
var ErrNoData = errors.New("no emotion data to chart")

// Options controls the rendered chart
type Options struct {
	Title  string
	Width  string
	Height string
}

// DefaultOptions returns the dashboard chart settings
func DefaultOptions() Options {
	return Options{
		Title:  DefaultTitle,
		Width:  "100%",
		Height: "480px",
	}
}

// RenderPie renders a standalone HTML page containing one pie slice per label.
func RenderPie(summary domain.EmotionSummary, o Options) (string, error) {
	if summary.IsEmpty() || len(summary.Emotions) == 0 {
		return "", ErrNoData
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: o.Title,
			Width:     o.Width,
			Height:    o.Height,
			ChartID:   chartID,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: o.Title,
		}),
	)

	items := make([]opts.PieData, 0, len(summary.Emotions))
	for _, c := range summary.Emotions {
		items = append(items, opts.PieData{Name: c.Emotion, Value: c.Count})
	}

	pie.AddSeries("emotion", items).
		SetSeriesOptions(charts.WithLabelOpts(opts.Label{
			Formatter: labelFormat,
		}))

	var buf bytes.Buffer
	if err := pie.Render(&buf); err != nil {
		return "", fmt.Errorf("render pie chart: %w", err)
	}

	return buf.String(), nil
}
