package outbox

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicFor(t *testing.T) {
	w := &Worker{}
	assert.Equal(t, "conversation.events.v1", w.topicFor("conversation.created"))
	assert.Equal(t, "contact.events.v1", w.topicFor("contact.updated"))
	assert.Equal(t, "task.events.v1", w.topicFor("task.deleted"))
	assert.Equal(t, "heartbeat.events.v1", w.topicFor("heartbeat"))

	prefixed := &Worker{TopicPrefix: "stage."}
	assert.Equal(t, "stage.task.events.v1", prefixed.topicFor("task.created"))
}

func TestFormatPayloadCloudEvents(t *testing.T) {
	w := &Worker{Source: "app://teamdesk"}
	occurred := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	doc := &EventDocument{
		ID:         "rec-1",
		Name:       "task.created",
		Payload:    []byte(`{"task_id":"t1","creator_id":"alice"}`),
		OccurredAt: occurred,
		Aggregate:  "t1",
		Headers:    map[string]string{"traceparent": "00-abc-def-01"},
	}

	payload, headers, err := w.formatPayload(doc)
	require.NoError(t, err)
	assert.Equal(t, "application/cloudevents+json", headers["content-type"])
	assert.Equal(t, "00-abc-def-01", headers["traceparent"])

	var evt map[string]any
	require.NoError(t, json.Unmarshal(payload, &evt))
	assert.Equal(t, "1.0", evt["specversion"])
	assert.Equal(t, "task.created.v1", evt["type"])
	assert.Equal(t, "app://teamdesk", evt["source"])
	assert.Equal(t, "00-abc-def-01", evt["traceparent"])
	assert.NotEmpty(t, evt["id"])

	data, ok := evt["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "t1", data["task_id"])
	assert.Equal(t, "alice", data["creator_id"])
}

func TestFormatPayloadRejectsMalformedPayload(t *testing.T) {
	w := &Worker{}
	_, _, err := w.formatPayload(&EventDocument{Payload: []byte("not json")})
	require.Error(t, err)
}

func TestNextRetryFollowsBackoffSchedule(t *testing.T) {
	w := &Worker{Backoff: []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}}

	before := time.Now()
	first := w.nextRetry(0)
	assert.WithinDuration(t, before.Add(time.Second), first, 200*time.Millisecond)

	// Attempts past the schedule reuse the last step.
	last := w.nextRetry(10)
	assert.WithinDuration(t, before.Add(30*time.Second), last, 200*time.Millisecond)
}

func TestRunRequiresDependencies(t *testing.T) {
	w := &Worker{}
	err := w.Run(t.Context())
	assert.ErrorIs(t, err, ErrWorkerNotConfigured)
}
