package ws

import (
	"time"
)

type EventType string

const (
	EventEmotionRecorded EventType = "emotion.recorded"
)

type Event struct {
	Type      EventType   `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// EmotionRecordedData is the payload of EventEmotionRecorded
type EmotionRecordedData struct {
	Emotion string `json:"emotion"`
}
