package present

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/tutor/internal/render"
	"github.com/mithrel/tutor/pkg/api"
)

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"plain": ModePlain, "pretty": ModePretty, "json": ModeJSON, "ndjson": ModeNDJSON, "html": ModeHTML, "tui": ModeTUI} {
		got, ok := ParseMode(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got)
	}
	_, ok := ParseMode("yaml")
	assert.False(t, ok)
}

func TestDefaultModeForBuffer(t *testing.T) {
	assert.Equal(t, ModePlain, DefaultMode(&bytes.Buffer{}))
}

func TestRenderResultPlainQuiz(t *testing.T) {
	q := api.Quiz{Quiz: []api.QuizQuestion{{Question: "2+2?", Options: []string{"3", "4"}, CorrectAnswer: "4", Explanation: "math"}}}
	var buf bytes.Buffer
	require.NoError(t, RenderResult(&buf, q, Options{Mode: ModePlain}))
	assert.Equal(t, "1. 2+2?\n   [ ] 3\n   [*] 4\n   Explanation: math\n\n", buf.String())
}

func TestRenderResultHTMLLesson(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{Mode: ModeHTML, Renderer: render.Renderer{Engine: render.EngineStaged, Sanitize: true}}
	require.NoError(t, RenderResult(&buf, api.LessonContent{LessonContent: "# Hi\n\n- a\n- b"}, opts))
	assert.Equal(t, "<h3>Hi</h3><ul><li>a</li><li>b</li></ul>\n", buf.String())
}

func TestRenderResultHTMLCourse(t *testing.T) {
	var buf bytes.Buffer
	c := api.CourseOutline{CourseTitle: "Go", Modules: []api.ModuleInfo{{ModuleID: "m1", ModuleTitle: "Basics"}}}
	require.NoError(t, RenderResult(&buf, c, Options{Mode: ModeHTML}))
	assert.Contains(t, buf.String(), "<h1>Go</h1>")
	assert.Contains(t, buf.String(), "<h3>Basics</h3>")
}

func TestRenderDraftJSONAndPlain(t *testing.T) {
	d, err := api.NewDraft(api.KindModule, "Basics", "", api.ModuleRequest{}, api.ModuleOutline{
		ModuleIntroduction: "intro",
		Lessons:            []api.LessonInfo{{LessonID: "l1", LessonTitle: "Vars", LessonObjective: "declare"}},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RenderDraft(&buf, d, Options{Mode: ModeJSON}))
	var back api.Draft
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, d.ID, back.ID)

	buf.Reset()
	require.NoError(t, RenderDraft(&buf, d, Options{Mode: ModePlain}))
	assert.Contains(t, buf.String(), "intro")
	assert.Contains(t, buf.String(), "l1")

	require.Error(t, RenderDraft(&buf, d, Options{Mode: ModeTUI}))
	require.Error(t, RenderDraft(&buf, api.Draft{Kind: "essay", Payload: []byte(`{}`)}, Options{Mode: ModePlain}))
}

func TestRenderDraftsPlainAndNDJSON(t *testing.T) {
	drafts := []api.Draft{{ID: "abc", Kind: api.KindLesson, Title: "Vars"}, {ID: "def", Kind: api.KindQuiz, Title: "Quiz"}}
	var buf bytes.Buffer
	require.NoError(t, RenderDrafts(context.Background(), &buf, drafts, Options{Mode: ModePlain, Headers: true}))
	assert.Contains(t, buf.String(), "kind")
	assert.Contains(t, buf.String(), "Vars")

	buf.Reset()
	require.NoError(t, RenderDrafts(context.Background(), &buf, drafts, Options{Mode: ModeNDJSON}))
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}
