package service

import (
	"context"
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudbt_backend/internals/features/users/notifications/model"
	"edudbt_backend/internals/features/users/notifications/repository"
	helper "edudbt_backend/internals/helpers"
)

func TestNotificationLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := NewNotificationService(repository.NewMemoryNotificationRepository())
	asha, ravi := uuid.New(), uuid.New()

	svc.Notify(ctx, asha, model.NotificationTypeQuiz, "Quiz passed", "You scored 100%")
	svc.Notify(ctx, asha, model.NotificationTypeApplication, "Application approved", "EDU-2026-0000ABCD")
	svc.Notify(ctx, ravi, model.NotificationTypeInfo, "Welcome", "")

	page := helper.NewPaging(1, 10, 10, 100)
	res, err := svc.List(ctx, asha, false, page)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)
	assert.EqualValues(t, 2, res.Unread)
	assert.Equal(t, "Application approved", res.Rows[0].NotificationTitle, "newest first")

	// someone else's notification is not found
	err = svc.MarkRead(ctx, ravi, res.Rows[0].NotificationID)
	var fe *fiber.Error
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, fiber.StatusNotFound, fe.Code)

	require.NoError(t, svc.MarkRead(ctx, asha, res.Rows[0].NotificationID))
	res, err = svc.List(ctx, asha, true, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)
	assert.EqualValues(t, 1, res.Unread)

	n, err := svc.MarkAllRead(ctx, asha)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	res, err = svc.List(ctx, ravi, true, page)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Unread, "other users are untouched")
}
