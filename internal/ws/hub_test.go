package ws

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func testClient(hub *Hub, buffer int) *Client {
	return &Client{
		id:   uuid.New(),
		hub:  hub,
		send: make(chan []byte, buffer),
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub(slog.Default())

	assert.NotNil(t, hub)
	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.broadcast)
	assert.NotNil(t, hub.register)
	assert.NotNil(t, hub.unregister)
}

func TestHub_AddAndRemoveClient(t *testing.T) {
	hub, _ := testHub(t)
	client := testClient(hub, 1)

	require.True(t, hub.Register(client))
	assert.Eventually(t, func() bool { return hub.ConnectedClients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Unregister(client)
	assert.Eventually(t, func() bool { return hub.ConnectedClients() == 0 }, time.Second, 10*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open, "send channel is closed on unregister")
}

func TestHub_PublishEmotion(t *testing.T) {
	hub, _ := testHub(t)
	first := testClient(hub, 10)
	second := testClient(hub, 10)

	require.True(t, hub.Register(first))
	require.True(t, hub.Register(second))
	require.Eventually(t, func() bool { return hub.ConnectedClients() == 2 }, time.Second, 10*time.Millisecond)

	recordedAt := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	hub.PublishEmotion("happy", recordedAt)

	for _, client := range []*Client{first, second} {
		select {
		case msg := <-client.send:
			var event struct {
				Type      EventType           `json:"type"`
				Data      EmotionRecordedData `json:"data"`
				Timestamp time.Time           `json:"timestamp"`
			}
			require.NoError(t, json.Unmarshal(msg, &event))
			assert.Equal(t, EventEmotionRecorded, event.Type)
			assert.Equal(t, "happy", event.Data.Emotion)
			assert.True(t, recordedAt.Equal(event.Timestamp))
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for message")
		}
	}
}

func TestHub_FansOutToEveryClient(t *testing.T) {
	hub, _ := testHub(t)
	first := testClient(hub, 10)
	second := testClient(hub, 10)

	require.True(t, hub.Register(first))
	require.True(t, hub.Register(second))
	require.Eventually(t, func() bool { return hub.ConnectedClients() == 2 }, time.Second, 10*time.Millisecond)

	hub.PublishEmotion("sad", time.Now().UTC())

	for _, client := range []*Client{first, second} {
		select {
		case msg := <-client.send:
			assert.Contains(t, string(msg), `"type":"emotion.recorded"`)
			assert.Contains(t, string(msg), `"emotion":"sad"`)
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for message")
		}
	}
}

func TestHub_DropsSlowClient(t *testing.T) {
	hub, _ := testHub(t)
	slow := testClient(hub, 0)

	require.True(t, hub.Register(slow))
	require.Eventually(t, func() bool { return hub.ConnectedClients() == 1 }, time.Second, 10*time.Millisecond)

	hub.PublishEmotion("fear", time.Now())

	assert.Eventually(t, func() bool { return hub.ConnectedClients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestHub_StopsOnContextCancel(t *testing.T) {
	hub, cancel := testHub(t)
	client := testClient(hub, 1)

	require.True(t, hub.Register(client))
	require.Eventually(t, func() bool { return hub.ConnectedClients() == 1 }, time.Second, 10*time.Millisecond)

	cancel()

	select {
	case <-hub.done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	assert.Equal(t, 0, hub.ConnectedClients())
	assert.False(t, hub.Register(testClient(hub, 1)), "register after stop is rejected")
	hub.Unregister(client) // must not block
}
