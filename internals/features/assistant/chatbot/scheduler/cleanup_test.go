package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudbt_backend/internals/features/assistant/chatbot/model"
	"edudbt_backend/internals/features/assistant/chatbot/repository"
)

func TestRunChatCleanup(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryChatRepository()
	now := time.Now().UTC()

	for id, exp := range map[string]time.Time{
		"old-1": now.Add(-time.Hour),
		"old-2": now.Add(-48 * time.Hour),
		"live":  now.Add(time.Hour),
	} {
		require.NoError(t, repo.Create(ctx, &model.ChatHistoryModel{ChatSessionID: id, ChatExpiresAt: exp, ChatLastActivity: now}))
	}

	n, err := repo.CountExpired(ctx, now)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.Equal(t, 3, repo.Len(), "counting must not delete")

	assert.EqualValues(t, 2, RunChatCleanup(ctx, repo))
	assert.Equal(t, 1, repo.Len())
	_, err = repo.FindLive(ctx, "live", now)
	assert.NoError(t, err)

	assert.Zero(t, RunChatCleanup(ctx, repo))
}
