package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_KnownKeys(t *testing.T) {
	for _, key := range []string{"analyze-job", "generate-deck", "cover-letter"} {
		template, err := Get("generation.json", key)
		require.NoError(t, err, "key %s", key)
		assert.NotEmpty(t, template)
	}
}

func TestGet_UnknownKey(t *testing.T) {
	_, err := Get("generation.json", "nonexistent")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nonexistent")
}

func TestGet_UnknownFile(t *testing.T) {
	_, err := Get("missing.json", "any")
	assert.Error(t, err)
}

func TestMustGet_PanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() {
		MustGet("generation.json", "nonexistent")
	})
}

func TestFormat(t *testing.T) {
	got := Format("Analyze {{.JobText}} with {{.Schema}}", map[string]string{
		"JobText": "the posting",
		"Schema":  "the schema",
	})
	assert.Equal(t, "Analyze the posting with the schema", got)
}

func TestFormat_UnusedPlaceholderSurvives(t *testing.T) {
	got := Format("{{.Known}} and {{.Unknown}}", map[string]string{"Known": "x"})
	assert.Equal(t, "x and {{.Unknown}}", got)
}

func TestPrompts_ContainPlaceholders(t *testing.T) {
	analyze := MustGet("generation.json", "analyze-job")
	assert.Contains(t, analyze, "{{.JobText}}")
	assert.Contains(t, analyze, "{{.Schema}}")

	deck := MustGet("generation.json", "generate-deck")
	assert.Contains(t, deck, "{{.PainPoints}}")
	assert.Contains(t, deck, "{{.Tone}}")
	assert.Contains(t, deck, "{{.Projects}}")

	letter := MustGet("generation.json", "cover-letter")
	assert.Contains(t, letter, "{{.PainPoints}}")
	assert.Contains(t, letter, "{{.Persona}}")
}
