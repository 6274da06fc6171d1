package quizzes

import (
	"os"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudbt_backend/internals/features/learning/quizzes/dto"
	helper "edudbt_backend/internals/helpers"
)

func TestSeedDataIsValid(t *testing.T) {
	raw, err := os.ReadFile("data_quizzes.json")
	require.NoError(t, err)
	var inputs []dto.CreateQuizRequest
	require.NoError(t, sonic.Unmarshal(raw, &inputs))
	require.NotEmpty(t, inputs)

	for _, in := range inputs {
		in.Normalize()
		require.NoError(t, helper.Validate(&in), in.Title)
		for i, q := range in.Questions {
			m := q.ToModel(uuid.New(), i+1)
			assert.NoError(t, m.ValidateShape(), "%s question %d", in.Title, i+1)
		}
	}

	basics := inputs[0]
	require.Len(t, basics.Questions, 12)
	total := 0.0
	for _, q := range basics.Questions {
		total += q.Marks
	}
	assert.Equal(t, 12.0, total)
	require.NotNil(t, basics.PassingScore)
	assert.Equal(t, 60.0, *basics.PassingScore)
}
