package domain

import "time"

// EmotionNoFace is recorded whenever decoding or classification fails.
const EmotionNoFace = "No Face Detected"

// Canonical labels produced by the classifiers.
const (
	EmotionAngry    = "angry"
	EmotionDisgust  = "disgust"
	EmotionFear     = "fear"
	EmotionHappy    = "happy"
	EmotionSad      = "sad"
	EmotionSurprise = "surprise"
	EmotionNeutral  = "neutral"
	EmotionConfused = "confused"
)

// ClassifierLabels lists the DeepFace label set in its native order.
var ClassifierLabels = []string{
	EmotionAngry,
	EmotionDisgust,
	EmotionFear,
	EmotionHappy,
	EmotionSad,
	EmotionSurprise,
	EmotionNeutral,
}

// EmotionRecord is one row of the emotion log.
type EmotionRecord struct {
	Emotion string `json:"emotion"`
	// RecordedAt is only populated by stores that keep timestamps.
	RecordedAt time.Time `json:"recorded_at,omitempty"`
}

// EmotionCount is the number of records carrying a label.
type EmotionCount struct {
	Emotion string `json:"emotion"`
	Count   int    `json:"count"`
}

// EmotionSummary is the aggregated view of the whole log.
type EmotionSummary struct {
	Total    int            `json:"total"`
	Emotions []EmotionCount `json:"emotions"`
}

// IsEmpty reports whether the summary was built from an empty log.
func (s EmotionSummary) IsEmpty() bool {
	return s.Total == 0
}

// CountOf returns the count for label, or 0 when absent.
func (s EmotionSummary) CountOf(label string) int {
	for _, c := range s.Emotions {
		if c.Emotion == label {
			return c.Count
		}
	}
	return 0
}
