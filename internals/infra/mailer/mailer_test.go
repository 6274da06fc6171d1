package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithoutKeyIsConsole(t *testing.T) {
	m := New("", "EduDBT", "no-reply@edudbt.in")
	c, ok := m.(*Console)
	require.True(t, ok)

	require.NoError(t, c.Send(context.Background(), Message{ToEmail: "a@b.in", Subject: "Reset", Text: "link"}))
	assert.Len(t, c.Sent(), 1)
	assert.Equal(t, "Reset", c.Sent()[0].Subject)
}

func TestSendGridPrepare(t *testing.T) {
	s := NewSendGrid("key", "EduDBT", "no-reply@edudbt.in")
	m := s.prepare(Message{ToName: "Asha", ToEmail: "asha@example.in", Subject: "Reset your password", Text: "hi", HTML: "<p>hi</p>"})

	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "[EduDBT] Reset your password", m.Personalizations[0].Subject)
	assert.Equal(t, "asha@example.in", m.Personalizations[0].To[0].Address)
	assert.Equal(t, "no-reply@edudbt.in", m.From.Address)
	assert.Len(t, m.Content, 2)
}
