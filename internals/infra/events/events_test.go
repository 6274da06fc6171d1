package events

import (
	"context"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKafkaPublisherWithoutBrokerIsNop(t *testing.T) {
	p := NewKafkaPublisher("", "edudbt-events", "", "")
	_, ok := p.(Nop)
	assert.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), New(UserRegistered, "u1", nil)))
	assert.NoError(t, p.Close())
}

func TestEventEnvelope(t *testing.T) {
	ev := New(QuizAttemptCompleted, "user-1", map[string]any{"score": 12})
	b, err := sonic.Marshal(ev)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, sonic.Unmarshal(b, &out))
	assert.Equal(t, "quiz.attempt.completed", out["type"])
	assert.Contains(t, out, "occurred_at")
	assert.NotContains(t, out, "Key")
	assert.EqualValues(t, 12, out["data"].(map[string]any)["score"])
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Publish(context.Background(), New(UserRegistered, "a", nil)))
	require.NoError(t, r.Publish(context.Background(), New(ApplicationStatus, "a", nil)))
	assert.Equal(t, []string{UserRegistered, ApplicationStatus}, r.Types())
}
