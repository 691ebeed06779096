package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retro-ai-online/backend/internal/character"
	apperrors "retro-ai-online/backend/internal/errors"
)

func TestParse_TavernCard(t *testing.T) {
	raw := []byte(`{
		"char_name": "Aria",
		"char_persona": "Cheerful and curious.",
		"char_greeting": "Hello there!",
		"char_description": "A wandering bard.",
		"mes_example": "<START>\nUser: Hi\nAria: Hello!"
	}`)

	c, err := character.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "Aria", c.Name)
	assert.Equal(t, "Cheerful and curious.", c.Personality)
	assert.Equal(t, "Hello there!", c.FirstMessage)
	assert.Equal(t, "A wandering bard.", c.Description)
	assert.Equal(t, "<START>\nUser: Hi\nAria: Hello!", c.ExampleMessages)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestParse_CharaCardV2ShortCircuit(t *testing.T) {
	// When spec is chara_card_v2, only the data object counts. The top-level
	// name here must be ignored.
	raw := []byte(`{
		"spec": "chara_card_v2",
		"name": "WRONG",
		"char_greeting": "WRONG",
		"data": {
			"name": "Mira",
			"description": "Desc from card",
			"personality": "Stoic",
			"first_mes": "Greetings.",
			"mes_example": "examples here"
		}
	}`)

	c, err := character.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "Mira", c.Name)
	assert.Equal(t, "Desc from card", c.Description)
	assert.Equal(t, "Stoic", c.Personality)
	assert.Equal(t, "Greetings.", c.FirstMessage)
	assert.Equal(t, "examples here", c.ExampleMessages)
	assert.Nil(t, c.Avatar)
}

func TestParse_CharaCardV2WithoutDataFallsThrough(t *testing.T) {
	// A v2 spec tag without a data object degrades to the normal search.
	raw := []byte(`{"spec": "chara_card_v2", "name": "Fallback Name"}`)

	c, err := character.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Fallback Name", c.Name)
}

func TestParse_PriorityOrder(t *testing.T) {
	t.Run("top-level name beats char_name and data.name", func(t *testing.T) {
		raw := []byte(`{"name": "First", "char_name": "Second", "data": {"name": "Third"}}`)
		c, err := character.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "First", c.Name)
	})

	t.Run("char_name beats data.name", func(t *testing.T) {
		raw := []byte(`{"char_name": "Second", "data": {"name": "Third"}, "bot_name": "Fourth"}`)
		c, err := character.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "Second", c.Name)
	})

	t.Run("empty string candidates are skipped", func(t *testing.T) {
		raw := []byte(`{"name": "", "char_name": "Kept"}`)
		c, err := character.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "Kept", c.Name)
	})

	t.Run("non-string candidates are skipped", func(t *testing.T) {
		raw := []byte(`{"name": 42, "char_name": "Kept"}`)
		c, err := character.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "Kept", c.Name)
	})

	t.Run("first_message candidates in order", func(t *testing.T) {
		raw := []byte(`{"greeting": "Fourth", "welcome_message": "Seventh", "first_mes": "Third"}`)
		c, err := character.Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, "Third", c.FirstMessage)
	})
}

func TestParse_CharacterWrapper(t *testing.T) {
	raw := []byte(`{"character": {"name": "Wrapped", "persona": "Inner persona"}}`)

	c, err := character.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Wrapped", c.Name)
	assert.Equal(t, "Inner persona", c.Personality)
}

func TestParse_AvatarPointer(t *testing.T) {
	t.Run("set from avatar_uri", func(t *testing.T) {
		raw := []byte(`{"name": "A", "avatar_uri": "data:image/png;base64,xyz"}`)
		c, err := character.Parse(raw)
		require.NoError(t, err)
		require.NotNil(t, c.Avatar)
		assert.Equal(t, "data:image/png;base64,xyz", *c.Avatar)
	})

	t.Run("nil when absent", func(t *testing.T) {
		raw := []byte(`{"name": "A"}`)
		c, err := character.Parse(raw)
		require.NoError(t, err)
		assert.Nil(t, c.Avatar)
	})
}

func TestParse_Defaults(t *testing.T) {
	c, err := character.Parse([]byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, character.DefaultName, c.Name)
	assert.Empty(t, c.Description)
	assert.Empty(t, c.Personality)
	assert.Empty(t, c.FirstMessage)
	assert.Empty(t, c.ExampleMessages)
	assert.Nil(t, c.Avatar)
}

func TestParse_Errors(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		_, err := character.Parse([]byte("   "))
		assert.ErrorIs(t, err, apperrors.ErrParse)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := character.Parse([]byte("{not json"))
		assert.ErrorIs(t, err, apperrors.ErrParse)
	})

	t.Run("JSON null", func(t *testing.T) {
		_, err := character.Parse([]byte("null"))
		assert.ErrorIs(t, err, apperrors.ErrParse)
	})

	t.Run("non-object root yields defaults", func(t *testing.T) {
		c, err := character.Parse([]byte(`"just a string"`))
		require.NoError(t, err)
		assert.Equal(t, character.DefaultName, c.Name)
	})
}

func TestFromValue_DataAsSecondarySource(t *testing.T) {
	c, err := character.FromValue(map[string]any{
		"data": map[string]any{
			"name":          "From Data",
			"description":   "Nested description",
			"first_message": "Nested greeting",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "From Data", c.Name)
	assert.Equal(t, "Nested description", c.Description)
	assert.Equal(t, "Nested greeting", c.FirstMessage)
}

func TestParse_FreshIdentityPerCall(t *testing.T) {
	raw := []byte(`{"name": "Same Card"}`)

	a, err := character.Parse(raw)
	require.NoError(t, err)
	b, err := character.Parse(raw)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}
