package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
)

// AnalyzeRequest is the body posted by the capture page
type AnalyzeRequest struct {
	Image string `json:"image" example:"data:image/jpeg;base64,/9j/4AAQSkZJRgABAQ..."`
}

// AnalyzeResponse carries the recorded label
type AnalyzeResponse struct {
	Emotion string `json:"emotion" example:"happy"`
}

// EmotionCount is one slice of the summary
type EmotionCount struct {
	Emotion string `json:"emotion" example:"happy"`
	Count   int    `json:"count" example:"12"`
}

// SummaryResponse is the aggregated emotion log
type SummaryResponse struct {
	Total    int            `json:"total" example:"20"`
	Emotions []EmotionCount `json:"emotions"`
}

// HealthResponse is returned by the health endpoints
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`
	Version string `json:"version,omitempty" example:"0.1.0"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error" example:"No image provided"`
}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Emotion Dashboard API",
		Version:     "v1.0.0",
		Description: "Classifies webcam captures by facial emotion and aggregates the results",
		Host:        "localhost:5000",
		Path:        "/",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /analyze - Classify a capture
		endpoint.New(
			endpoint.POST,
			"/analyze",
			endpoint.WithTags("Emotions"),
			endpoint.WithSummary("Classify and record a capture"),
			endpoint.WithDescription("Decodes a base64 data URL, classifies the dominant facial emotion and appends it to the emotion log. Captures that cannot be decoded or classified are recorded as \"No Face Detected\"."),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithBody(AnalyzeRequest{}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(AnalyzeResponse{}, "200", "Emotion recorded"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Error: "No image provided"}, "400", "Bad Request"),
				response.New(ErrorResponse{Error: "Rate limit exceeded, please try again later"}, "429", "Too Many Requests"),
				response.New(ErrorResponse{Error: "Failed to record emotion"}, "500", "Internal Server Error"),
			}),
		),

		// GET /api/summary - Aggregated counts
		endpoint.New(
			endpoint.GET,
			"/api/summary",
			endpoint.WithTags("Emotions"),
			endpoint.WithSummary("Get emotion counts"),
			endpoint.WithDescription("Returns per-label counts ordered by count, ties in order of first appearance"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SummaryResponse{}, "200", "Summary computed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Error: "Emotion log is unavailable"}, "503", "Service Unavailable"),
			}),
		),

		// GET /health
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness probe"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Process is up"),
			}),
		),

		// GET /ready
		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness probe"),
			endpoint.WithDescription("Verifies the emotion log can be initialized"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{Status: "ready"}, "200", "Ready to serve"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(HealthResponse{Status: "unavailable"}, "503", "Service Unavailable"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
