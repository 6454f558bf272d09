package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEngine(t *testing.T) {
	for in, want := range map[string]Engine{
		"":         EngineStaged,
		"staged":   EngineStaged,
		"Markdown": EngineMarkdown,
		"md":       EngineMarkdown,
	} {
		got, err := ParseEngine(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseEngine("latex")
	assert.Error(t, err)
}

func TestRendererStagedSanitizes(t *testing.T) {
	r := Renderer{Engine: EngineStaged, Sanitize: true}
	out, err := r.Render("# Intro\n\nhello <script>alert(1)</script> **world**")
	require.NoError(t, err)
	assert.Contains(t, out, "<h3>Intro</h3>")
	assert.Contains(t, out, "<strong>world</strong>")
	assert.NotContains(t, out, "<script>")
}

func TestRendererStagedRaw(t *testing.T) {
	r := Renderer{Engine: EngineStaged}
	out, err := r.Render("a <em>b</em>")
	require.NoError(t, err)
	assert.Equal(t, "<p>a <em>b</em></p>", out)
}

func TestRendererMarkdown(t *testing.T) {
	r := Renderer{Engine: EngineMarkdown, Sanitize: true}
	out, err := r.Render("# Title\n\n- a\n- b\n\n**bold**")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "<li>a</li>")
	assert.Contains(t, out, "<strong>bold</strong>")
}

func TestSanitizeKeepsLessonSubset(t *testing.T) {
	in := `<p onclick="x()">a<br>b</p><h3>t</h3><ul><li><strong>i</strong></li></ul><img src="x">`
	out := Sanitize(in)
	assert.NotContains(t, out, "onclick")
	assert.NotContains(t, out, "<img")
	for _, tag := range []string{"<p>", "<h3>", "<ul>", "<li>", "<strong>"} {
		assert.Contains(t, out, tag)
	}
	assert.True(t, strings.Contains(out, "<br>") || strings.Contains(out, "<br/>"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "a\nb", Normalize("  a\r\nb \n"))
}
