package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/domain"
)

func records(labels ...string) []domain.EmotionRecord {
	out := make([]domain.EmotionRecord, len(labels))
	for i, l := range labels {
		out[i] = domain.EmotionRecord{Emotion: l}
	}
	return out
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name    string
		records []domain.EmotionRecord
		want    []domain.EmotionCount
	}{
		{
			name:    "empty log",
			records: nil,
			want:    []domain.EmotionCount{},
		},
		{
			name:    "single label",
			records: records("happy"),
			want:    []domain.EmotionCount{{Emotion: "happy", Count: 1}},
		},
		{
			name:    "ordered by count",
			records: records("Happy", "Happy", "Sad"),
			want: []domain.EmotionCount{
				{Emotion: "Happy", Count: 2},
				{Emotion: "Sad", Count: 1},
			},
		},
		{
			name:    "less frequent label first in log",
			records: records("sad", "happy", "happy", "happy", "sad", "neutral"),
			want: []domain.EmotionCount{
				{Emotion: "happy", Count: 3},
				{Emotion: "sad", Count: 2},
				{Emotion: "neutral", Count: 1},
			},
		},
		{
			name:    "ties keep first appearance order",
			records: records("neutral", "fear", domain.EmotionNoFace, "fear", "neutral", domain.EmotionNoFace),
			want: []domain.EmotionCount{
				{Emotion: "neutral", Count: 2},
				{Emotion: "fear", Count: 2},
				{Emotion: domain.EmotionNoFace, Count: 2},
			},
		},
		{
			name:    "labels are case sensitive",
			records: records("happy", "Happy"),
			want: []domain.EmotionCount{
				{Emotion: "happy", Count: 1},
				{Emotion: "Happy", Count: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.records)

			assert.Equal(t, len(tt.records), got.Total)
			assert.Equal(t, tt.want, got.Emotions)
		})
	}
}

func TestAggregate_EmptyIsEmpty(t *testing.T) {
	summary := Aggregate([]domain.EmotionRecord{})

	assert.True(t, summary.IsEmpty())
	assert.NotNil(t, summary.Emotions)
}

func TestAggregate_CountsSumToTotal(t *testing.T) {
	input := records("happy", "sad", "happy", "angry", domain.EmotionNoFace, "sad", "happy")

	summary := Aggregate(input)

	sum := 0
	for _, c := range summary.Emotions {
		sum += c.Count
	}
	assert.Equal(t, len(input), sum)
	assert.Equal(t, 3, summary.CountOf("happy"))
	assert.Equal(t, 0, summary.CountOf("fear"))
}

func TestAggregate_Idempotent(t *testing.T) {
	input := records("happy", "sad", "sad", "surprise")

	first := Aggregate(input)
	second := Aggregate(input)

	assert.Equal(t, first, second)
	assert.Equal(t, "sad", input[1].Emotion, "input must not be modified")
}
