package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/domain"
)

const createEmotionLogTable = `
	CREATE TABLE IF NOT EXISTS emotion_log (
		id BIGSERIAL PRIMARY KEY,
		emotion TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// PGEmotionLog stores the emotion log in the emotion_log table
type PGEmotionLog struct {
	pool PgxPool
}

var _ EmotionLogRepository = (*PGEmotionLog)(nil)

func NewPGEmotionLog(pool PgxPool) *PGEmotionLog {
	return &PGEmotionLog{pool: pool}
}

func (r *PGEmotionLog) EnsureInitialized(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createEmotionLogTable); err != nil {
		return fmt.Errorf("ensure emotion_log table: %w", err)
	}
	return nil
}

func (r *PGEmotionLog) Append(ctx context.Context, record domain.EmotionRecord) error {
	if strings.TrimSpace(record.Emotion) == "" {
		return ErrEmptyEmotion
	}

	recordedAt := record.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO emotion_log (emotion, created_at)
		VALUES ($1, $2)
	`

	if _, err := r.pool.Exec(ctx, query, record.Emotion, recordedAt); err != nil {
		return fmt.Errorf("append emotion: %w", err)
	}

	return nil
}

func (r *PGEmotionLog) ReadAll(ctx context.Context) ([]domain.EmotionRecord, error) {
	query := `
		SELECT emotion, created_at
		FROM emotion_log
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read emotion log: %w", err)
	}
	defer rows.Close()

	records := []domain.EmotionRecord{}
	for rows.Next() {
		var rec domain.EmotionRecord
		if err := rows.Scan(&rec.Emotion, &rec.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan emotion row: %w", err)
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate emotion rows: %w", err)
	}

	return records, nil
}
