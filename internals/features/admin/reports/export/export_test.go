package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudbt_backend/internals/features/admin/reports/repository"
)

func sample() *repository.Summary {
	return &repository.Summary{
		GeneratedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Users:        repository.UserTotals{Total: 10, AadhaarLinked: 4, ByRole: map[string]int64{"student": 9, "admin": 1}},
		Content:      repository.ContentTotals{Total: 7, Published: 6, ByCategory: map[string]int64{"dbt": 2}},
		Quizzes:      repository.QuizTotals{Quizzes: 2, Attempts: 4, Passed: 3},
		Applications: map[string]int64{"draft": 2, "approved": 1},
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatTable, sample()))
	out := buf.String()

	assert.Contains(t, out, "SECTION")
	assert.Contains(t, out, "role admin")
	assert.Contains(t, out, "75.00")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("approved")), bytes.Index(buf.Bytes(), []byte("draft")), "keys are sorted")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sample()))

	var back repository.Summary
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &back))
	assert.EqualValues(t, 4, back.Users.AadhaarLinked)
	assert.EqualValues(t, 1, back.Applications["approved"])
}

func TestWriteUnknownFormat(t *testing.T) {
	assert.Error(t, Write(&bytes.Buffer{}, "xml", sample()))
}
