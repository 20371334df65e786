package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageRoundTrip(t *testing.T) {
	msg, err := NewMessage("msg-1", MsgTypeChapterGen, "tenant-1", "proj-1", &ChapterGenPayload{
		JobID:      "job-1",
		ChapterNum: 12,
	})
	require.NoError(t, err)

	var payload ChapterGenPayload
	require.NoError(t, msg.UnmarshalPayload(&payload))
	assert.Equal(t, "job-1", payload.JobID)
	assert.Equal(t, 12, payload.ChapterNum)
}

func TestMessageMetadata(t *testing.T) {
	msg := &Message{}
	assert.Equal(t, "", msg.GetMetadata("retry_count"))

	msg.SetMetadata("retry_count", "2")
	assert.Equal(t, "2", msg.GetMetadata("retry_count"))
}

func TestStreamDLQ(t *testing.T) {
	assert.Equal(t, "dlq:stream:chapter:gen", StreamChapterGen.DLQStream())
}

func TestCalculateBackoff(t *testing.T) {
	cfg := BackoffConfig{Initial: time.Second, Max: 30 * time.Second, Multiplier: 2}

	assert.Equal(t, time.Second, cfg.CalculateBackoff(0))
	assert.Equal(t, 2*time.Second, cfg.CalculateBackoff(1))
	assert.Equal(t, 8*time.Second, cfg.CalculateBackoff(3))
	// 超过上限后封顶
	assert.Equal(t, 30*time.Second, cfg.CalculateBackoff(10))
}
