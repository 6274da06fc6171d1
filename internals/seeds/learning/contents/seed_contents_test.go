package contents

import (
	"os"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edudbt_backend/internals/features/learning/content/dto"
	helper "edudbt_backend/internals/helpers"
)

func TestSeedDataIsValid(t *testing.T) {
	raw, err := os.ReadFile("data_contents.json")
	require.NoError(t, err)
	var inputs []dto.CreateContentRequest
	require.NoError(t, sonic.Unmarshal(raw, &inputs))
	require.NotEmpty(t, inputs)

	slugs := map[string]bool{}
	for _, in := range inputs {
		in.Normalize()
		assert.NoError(t, helper.Validate(&in), in.Title)
		slug := in.Slug
		if slug == "" {
			slug = in.Title
		}
		slug = helper.Slugify(slug, 200)
		assert.NotEmpty(t, slug, in.Title)
		assert.False(t, slugs[slug], "duplicate slug %s", slug)
		slugs[slug] = true
	}
}
