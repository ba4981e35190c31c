package metrics

import (
	"sort"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/domain"
)

// Aggregate counts records per label. Counts are ordered descending; equal
// counts keep the order in which the label first appeared in the log.
func Aggregate(records []domain.EmotionRecord) domain.EmotionSummary {
	summary := domain.EmotionSummary{
		Total:    len(records),
		Emotions: []domain.EmotionCount{},
	}

	index := make(map[string]int)
	for _, r := range records {
		i, ok := index[r.Emotion]
		if !ok {
			i = len(summary.Emotions)
			index[r.Emotion] = i
			summary.Emotions = append(summary.Emotions, domain.EmotionCount{Emotion: r.Emotion})
		}
		summary.Emotions[i].Count++
	}

	sort.SliceStable(summary.Emotions, func(a, b int) bool {
		return summary.Emotions[a].Count > summary.Emotions[b].Count
	})

	return summary
}
