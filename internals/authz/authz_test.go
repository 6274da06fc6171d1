package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	student := Principal{UserID: uuid.New(), Role: "student"}
	admin := Principal{UserID: uuid.New(), Role: "admin"}
	anon := Principal{}

	assert.True(t, Can(student, QuizAttempt))
	assert.True(t, Can(student, ChatUse))
	assert.True(t, Can(student, ApplicationApply))
	assert.False(t, Can(student, ContentWrite))
	assert.False(t, Can(student, ApplicationReview))
	assert.False(t, Can(student, UserManage))

	for _, a := range []Action{ContentWrite, QuizManage, ApplicationReview, UserManage, ReportRead} {
		assert.True(t, Can(admin, a), a)
	}

	assert.True(t, Can(anon, ChatUse))
	assert.False(t, Can(anon, QuizAttempt))

	unknown := Principal{UserID: uuid.New(), Role: "owner"}
	assert.False(t, Can(unknown, QuizAttempt))
}

func TestCanAccessOwned(t *testing.T) {
	owner := Principal{UserID: uuid.New(), Role: "student"}
	other := Principal{UserID: uuid.New(), Role: "student"}
	admin := Principal{UserID: uuid.New(), Role: "admin"}

	assert.True(t, CanAccessOwned(owner, owner.UserID, ApplicationReview))
	assert.False(t, CanAccessOwned(other, owner.UserID, ApplicationReview))
	assert.True(t, CanAccessOwned(admin, owner.UserID, ApplicationReview))
	assert.False(t, CanAccessOwned(Principal{}, uuid.Nil, ApplicationReview))
}
