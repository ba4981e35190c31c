package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/domain"
)

func newTestCSVLog(t *testing.T) *CSVEmotionLog {
	t.Helper()
	return NewCSVEmotionLog(filepath.Join(t.TempDir(), "emotion_log.csv"))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func labels(records []domain.EmotionRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Emotion
	}
	return out
}

func TestCSVEmotionLog_EnsureInitialized(t *testing.T) {
	ctx := context.Background()

	t.Run("creates header-only file", func(t *testing.T) {
		log := newTestCSVLog(t)

		require.NoError(t, log.EnsureInitialized(ctx))
		assert.Equal(t, "emotion\n", readFile(t, log.Path()))
	})

	t.Run("is idempotent", func(t *testing.T) {
		log := newTestCSVLog(t)

		require.NoError(t, log.EnsureInitialized(ctx))
		require.NoError(t, log.Append(ctx, domain.EmotionRecord{Emotion: "happy"}))
		require.NoError(t, log.EnsureInitialized(ctx))

		assert.Equal(t, "emotion\nhappy\n", readFile(t, log.Path()))
	})

	t.Run("writes header into zero-byte file", func(t *testing.T) {
		log := newTestCSVLog(t)
		require.NoError(t, os.WriteFile(log.Path(), nil, 0o644))

		require.NoError(t, log.EnsureInitialized(ctx))
		assert.Equal(t, "emotion\n", readFile(t, log.Path()))
	})

	t.Run("creates missing parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data", "logs", "emotion_log.csv")
		log := NewCSVEmotionLog(path)

		require.NoError(t, log.EnsureInitialized(ctx))
		assert.FileExists(t, path)
	})
}

func TestCSVEmotionLog_ReadAll(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		content *string
		want    []string
		wantErr error
	}{
		{
			name:    "missing file",
			content: nil,
			want:    []string{},
		},
		{
			name:    "zero-byte file",
			content: ptr(""),
			want:    []string{},
		},
		{
			name:    "header only",
			content: ptr("emotion\n"),
			want:    []string{},
		},
		{
			name:    "rows in order",
			content: ptr("emotion\nhappy\nhappy\nsad\n"),
			want:    []string{"happy", "happy", "sad"},
		},
		{
			name:    "blank lines are skipped",
			content: ptr("emotion\nhappy\n\n\nsad\n"),
			want:    []string{"happy", "sad"},
		},
		{
			name:    "sentinel label",
			content: ptr("emotion\nNo Face Detected\n"),
			want:    []string{domain.EmotionNoFace},
		},
		{
			name:    "wrong header",
			content: ptr("label\nhappy\n"),
			wantErr: ErrCorruptLog,
		},
		{
			name:    "extra columns",
			content: ptr("emotion\nhappy,sad\n"),
			wantErr: ErrCorruptLog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := newTestCSVLog(t)
			if tt.content != nil {
				require.NoError(t, os.WriteFile(log.Path(), []byte(*tt.content), 0o644))
			}

			records, err := log.ReadAll(ctx)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, labels(records))
		})
	}
}

func TestCSVEmotionLog_Append(t *testing.T) {
	ctx := context.Background()

	t.Run("appends one row per call", func(t *testing.T) {
		log := newTestCSVLog(t)
		require.NoError(t, log.EnsureInitialized(ctx))

		for _, label := range []string{"happy", "happy", "sad"} {
			require.NoError(t, log.Append(ctx, domain.EmotionRecord{Emotion: label}))
		}

		records, err := log.ReadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"happy", "happy", "sad"}, labels(records))
	})

	t.Run("restores header after the file was deleted", func(t *testing.T) {
		log := newTestCSVLog(t)
		require.NoError(t, log.EnsureInitialized(ctx))
		require.NoError(t, os.Remove(log.Path()))

		require.NoError(t, log.Append(ctx, domain.EmotionRecord{Emotion: "fear"}))

		assert.Equal(t, "emotion\nfear\n", readFile(t, log.Path()))
	})

	t.Run("terminates a row without trailing newline", func(t *testing.T) {
		log := newTestCSVLog(t)
		require.NoError(t, os.WriteFile(log.Path(), []byte("emotion\nsad"), 0o644))

		require.NoError(t, log.Append(ctx, domain.EmotionRecord{Emotion: "happy"}))

		records, err := log.ReadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"sad", "happy"}, labels(records))
		assert.Equal(t, "emotion\nsad\nhappy\n", readFile(t, log.Path()))
	})

	t.Run("terminates a header without trailing newline", func(t *testing.T) {
		log := newTestCSVLog(t)
		require.NoError(t, os.WriteFile(log.Path(), []byte("emotion"), 0o644))

		require.NoError(t, log.Append(ctx, domain.EmotionRecord{Emotion: "happy"}))

		records, err := log.ReadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"happy"}, labels(records))
	})

	t.Run("initialization leaves a terminated file untouched", func(t *testing.T) {
		log := newTestCSVLog(t)
		require.NoError(t, os.WriteFile(log.Path(), []byte("emotion\nsad\n"), 0o644))

		require.NoError(t, log.EnsureInitialized(ctx))
		assert.Equal(t, "emotion\nsad\n", readFile(t, log.Path()))
	})

	t.Run("quotes labels containing commas", func(t *testing.T) {
		log := newTestCSVLog(t)

		require.NoError(t, log.Append(ctx, domain.EmotionRecord{Emotion: "happy, mostly"}))

		records, err := log.ReadAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"happy, mostly"}, labels(records))
	})

	t.Run("rejects blank labels", func(t *testing.T) {
		log := newTestCSVLog(t)

		err := log.Append(ctx, domain.EmotionRecord{Emotion: "  "})
		require.ErrorIs(t, err, ErrEmptyEmotion)
		assert.NoFileExists(t, log.Path())
	})

	t.Run("honours cancelled context", func(t *testing.T) {
		log := newTestCSVLog(t)
		require.NoError(t, log.EnsureInitialized(ctx))

		// hold the cross-process lock so Append has to wait
		other := NewCSVEmotionLog(log.Path())
		unlock, err := other.acquire(ctx, false)
		require.NoError(t, err)
		defer unlock()

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		err = log.Append(cancelled, domain.EmotionRecord{Emotion: "happy"})
		require.Error(t, err)
		assert.Equal(t, "emotion\n", readFile(t, log.Path()))
	})
}

func TestCSVEmotionLog_ConcurrentAppends(t *testing.T) {
	ctx := context.Background()
	log := newTestCSVLog(t)
	require.NoError(t, log.EnsureInitialized(ctx))

	const writers = 50
	var wg sync.WaitGroup
	errs := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- log.Append(ctx, domain.EmotionRecord{Emotion: fmt.Sprintf("label-%d", i%5)})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	records, err := log.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, writers)
}

func TestCSVEmotionLog_SeparateInstancesShareFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "emotion_log.csv")
	first := NewCSVEmotionLog(path)
	second := NewCSVEmotionLog(path)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, first.Append(ctx, domain.EmotionRecord{Emotion: "happy"}))
		}()
		go func() {
			defer wg.Done()
			assert.NoError(t, second.Append(ctx, domain.EmotionRecord{Emotion: "sad"}))
		}()
	}
	wg.Wait()

	records, err := first.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 40)
}

func TestCSVEmotionLog_ReadersSeeWholeRowsWhileAnotherInstanceWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "emotion_log.csv")
	reader := NewCSVEmotionLog(path)
	writer := NewCSVEmotionLog(path)
	require.NoError(t, writer.EnsureInitialized(ctx))

	const rows = 100
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < rows; i++ {
			assert.NoError(t, writer.Append(ctx, domain.EmotionRecord{Emotion: "surprise"}))
		}
	}()

	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				records, err := reader.ReadAll(ctx)
				if !assert.NoError(t, err) {
					return
				}
				for _, rec := range records {
					assert.Equal(t, "surprise", rec.Emotion)
				}
			}
		}()
	}
	wg.Wait()

	records, err := reader.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, records, rows)
	assert.False(t, reader.lock.Locked() || reader.lock.RLocked(), "lock released after reads")
}

func ptr[T any](v T) *T {
	return &v
}
