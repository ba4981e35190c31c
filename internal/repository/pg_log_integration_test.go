//go:build integration

package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/saturnino-fabrica-de-software/emotiondash/internal/domain"
)

func setupIntegrationTest(t *testing.T) (*pgxpool.Pool, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "emotiondash_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("postgres://test:test@%s:%s/emotiondash_test?sslmode=disable", host, port.Port())

	db, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		_ = container.Terminate(ctx)
	}

	return db, cleanup
}

func TestPGEmotionLog_Integration(t *testing.T) {
	db, cleanup := setupIntegrationTest(t)
	defer cleanup()

	ctx := context.Background()
	repo := NewPGEmotionLog(db)

	require.NoError(t, repo.EnsureInitialized(ctx))
	require.NoError(t, repo.EnsureInitialized(ctx), "initialization must be idempotent")

	records, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	for _, label := range []string{"happy", "happy", domain.EmotionNoFace} {
		require.NoError(t, repo.Append(ctx, domain.EmotionRecord{Emotion: label}))
	}

	records, err = repo.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"happy", "happy", domain.EmotionNoFace}, labels(records))
	for _, r := range records {
		assert.False(t, r.RecordedAt.IsZero())
	}

	t.Run("concurrent appends are all kept", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 25; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, repo.Append(ctx, domain.EmotionRecord{Emotion: "sad"}))
			}()
		}
		wg.Wait()

		records, err := repo.ReadAll(ctx)
		require.NoError(t, err)
		assert.Len(t, records, 28)
	})
}
