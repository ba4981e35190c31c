package provider

import (
	"context"
	"errors"
)

// ErrNoFaceDetected is wrapped by every provider when the image holds no usable face
var ErrNoFaceDetected = errors.New("no face detected")

// EmotionProvider classifies the dominant facial emotion in an image
type EmotionProvider interface {
	// AnalyzeEmotion returns the dominant emotion of the first face found in the
	// encoded image. Implementations wrap ErrNoFaceDetected when there is no face.
	AnalyzeEmotion(ctx context.Context, image []byte) (*EmotionAnalysis, error)

	// Name identifies the provider in logs and audit events
	Name() string
}

// EmotionAnalysis is the classifier output for one face
type EmotionAnalysis struct {
	Dominant string `json:"dominant_emotion"`
	// Scores maps each label to the provider's confidence, as a percentage
	Scores map[string]float64 `json:"scores,omitempty"`
	Region *BoundingBox       `json:"region,omitempty"`
}

// BoundingBox represents the face area in the image
type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}
