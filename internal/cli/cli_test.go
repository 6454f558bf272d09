package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/tutor/internal/config"
	"github.com/mithrel/tutor/internal/wire"
	"github.com/mithrel/tutor/pkg/api"
)

// isolate points config and data lookups at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// savedID pulls the draft id from "saved <kind> draft <id>".
func savedID(t *testing.T, stderr string) string {
	t.Helper()
	for _, line := range strings.Split(stderr, "\n") {
		if strings.HasPrefix(line, "saved ") {
			f := strings.Fields(line)
			return f[len(f)-1]
		}
	}
	t.Fatalf("no saved draft line in %q", stderr)
	return ""
}

type fakeBackend struct {
	mu      sync.Mutex
	modules []api.ModuleRequest
	lessons []api.LessonRequest
	quizzes []api.QuizRequest
}

func (f *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/plan-course", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.CourseOutline{
			CourseTitle:       "Go basics",
			CourseDescription: "Intro to Go",
			Modules: []api.ModuleInfo{
				{ModuleID: "m1", ModuleTitle: "Syntax", ModuleSummary: "Types and control flow"},
			},
		})
	})
	mux.HandleFunc("POST /api/v1/plan-module", func(w http.ResponseWriter, r *http.Request) {
		var req api.ModuleRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		f.modules = append(f.modules, req)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(api.ModuleOutline{
			ModuleIntroduction: "Welcome",
			Lessons:            []api.LessonInfo{{LessonID: "l1", LessonTitle: "Variables", LessonObjective: "Declare variables"}},
		})
	})
	mux.HandleFunc("POST /api/v1/create-lesson-content", func(w http.ResponseWriter, r *http.Request) {
		var req api.LessonRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		f.lessons = append(f.lessons, req)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(api.LessonContent{LessonContent: "# Variables\n\nUse **var**."})
	})
	mux.HandleFunc("POST /api/v1/create-quiz", func(w http.ResponseWriter, r *http.Request) {
		var req api.QuizRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.mu.Lock()
		f.quizzes = append(f.quizzes, req)
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(api.Quiz{Quiz: []api.QuizQuestion{
			{Question: "Keyword?", Options: []string{"var", "let"}, CorrectAnswer: "var"},
		}})
	})
	mux.HandleFunc("GET /api/v2/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.Health{Status: "healthy", APIVersion: "2.0", Model: "m"})
	})
	mux.HandleFunc("POST /api/v2/feedback", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(api.FeedbackResult{Status: "success", FeedbackID: "fb-1", Message: "Thanks"})
	})
	return mux
}

func TestFormatCommandReadsStdin(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, "# Title\n\n- a\n- b", "--db", "mem://", "format")
	require.NoError(t, err)
	assert.Equal(t, "<h3>Title</h3><ul><li>a</li><li>b</li></ul>\n", out)
}

func TestFormatCommandJSONAndFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "lesson.txt")
	require.NoError(t, os.WriteFile(path, []byte("plain **bold**"), 0o600))

	out, _, err := runCLI(t, "", "--db", "mem://", "format", "--json", path)
	require.NoError(t, err)
	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "<p>plain <strong>bold</strong></p>", got["html"])
}

func TestFormatCommandRejectsUnknownEngine(t *testing.T) {
	isolate(t)
	_, _, err := runCLI(t, "x", "--db", "mem://", "format", "--engine", "rtf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "render.engine")
}

func TestWizardCommandsChainThroughDrafts(t *testing.T) {
	dir := isolate(t)
	fb := &fakeBackend{}
	srv := httptest.NewServer(fb.handler(t))
	t.Cleanup(srv.Close)
	base := []string{"--backend", srv.URL, "--db", "sqlite://" + filepath.Join(dir, "drafts.db")}
	run := func(args ...string) (string, string) {
		t.Helper()
		out, errOut, err := runCLI(t, "", append(append([]string{}, base...), args...)...)
		require.NoError(t, err, errOut)
		return out, errOut
	}

	out, errOut := run("course", "plan", "--title", "Go basics", "--description", "Intro",
		"--audience", "devs", "--time", "1w", "--objective", "write a CLI", "-o", "json")
	var course api.CourseOutline
	require.NoError(t, json.Unmarshal([]byte(out), &course))
	assert.Equal(t, "Go basics", course.CourseTitle)
	courseID := savedID(t, errOut)

	_, errOut = run("module", "plan", "--from", courseID, "--module", "m1", "-o", "plain")
	moduleID := savedID(t, errOut)
	require.Len(t, fb.modules, 1)
	assert.Equal(t, api.ModuleRequest{
		CourseTitle:       "Go basics",
		CourseDescription: "Intro to Go",
		ModuleTitle:       "Syntax",
		ModuleSummary:     "Types and control flow",
	}, fb.modules[0])

	out, errOut = run("lesson", "create", "--from", moduleID, "--lesson", "l1", "--objective", "Use var", "-o", "html")
	lessonID := savedID(t, errOut)
	assert.Equal(t, "<h3>Variables</h3><p>Use <strong>var</strong>.</p>\n", out)
	require.Len(t, fb.lessons, 1)
	assert.Equal(t, "Use var", fb.lessons[0].LessonObjective)
	assert.Equal(t, "Syntax", fb.lessons[0].ModuleTitle)

	out, _ = run("quiz", "create", "--from", lessonID, "-o", "plain")
	assert.Contains(t, out, "[*] var")
	require.Len(t, fb.quizzes, 1)
	assert.Equal(t, "Variables", fb.quizzes[0].LessonTitle)

	out, _ = run("draft", "list", "-o", "json")
	var drafts []api.Draft
	require.NoError(t, json.Unmarshal([]byte(out), &drafts))
	require.Len(t, drafts, 4)

	out, _ = run("draft", "list", "--kind", "lesson", "-o", "plain", "--noheaders")
	assert.Equal(t, 1, strings.Count(out, "\n"))
	assert.Contains(t, out, "Variables")

	out, _ = run("draft", "find", "Varbls", "-o", "plain", "--noheaders")
	assert.Contains(t, out, lessonID)

	out, _ = run("draft", "show", courseID, "-o", "json")
	var shown api.Draft
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, api.KindCourse, shown.Kind)

	out, _ = run("draft", "rm", courseID)
	assert.Equal(t, "Deleted "+courseID+"\n", out)
	_, _, err := runCLI(t, "", append(append([]string{}, base...), "draft", "show", courseID)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no draft matches")
}

func TestModulePlanRejectsWrongDraftKind(t *testing.T) {
	dir := isolate(t)
	fb := &fakeBackend{}
	srv := httptest.NewServer(fb.handler(t))
	t.Cleanup(srv.Close)
	base := []string{"--backend", srv.URL, "--db", "sqlite://" + filepath.Join(dir, "drafts.db")}

	_, errOut, err := runCLI(t, "", append(base, "course", "plan", "--title", "T", "--description", "D",
		"--audience", "A", "--time", "1w")...)
	require.NoError(t, err)
	courseID := savedID(t, errOut)

	_, _, err = runCLI(t, "", append(base, "lesson", "create", "--from", courseID, "--lesson", "l1")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a course draft")

	_, _, err = runCLI(t, "", append(base, "module", "plan", "--from", courseID)...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--module is required")
	assert.Empty(t, fb.modules)
}

func TestCoursePlanValidationSkipsBackend(t *testing.T) {
	isolate(t)
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	t.Cleanup(srv.Close)

	_, _, err := runCLI(t, "", "--backend", srv.URL, "--db", "mem://", "course", "plan", "--title", "T", "--difficulty", "guru")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "difficulty_level")
	assert.False(t, called)
}

func TestHealthAndFeedbackCommands(t *testing.T) {
	dir := isolate(t)
	fb := &fakeBackend{}
	srv := httptest.NewServer(fb.handler(t))
	t.Cleanup(srv.Close)
	base := []string{"--backend", srv.URL, "--db", "sqlite://" + filepath.Join(dir, "drafts.db")}

	out, _, err := runCLI(t, "", append(base, "health")...)
	require.NoError(t, err)
	assert.Contains(t, out, "healthy")

	_, errOut, err := runCLI(t, "", append(base, "course", "plan", "--title", "T", "--description", "D",
		"--audience", "A", "--time", "1w")...)
	require.NoError(t, err)
	id := savedID(t, errOut)

	out, _, err = runCLI(t, "", append(base, "feedback", id, "--rating", "5")...)
	require.NoError(t, err)
	assert.Equal(t, "Thanks (fb-1)\n", out)

	_, _, err = runCLI(t, "", append(base, "feedback", id, "--rating", "9")...)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "between 1 and 5")
}

func TestHealthReportsUnreachableBackend(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, _, err := runCLI(t, "", "--backend", url, "--db", "mem://", "health")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not reachable")
}

func TestConfigGenerate(t *testing.T) {
	dir := isolate(t)
	out := filepath.Join(dir, "cfg", "config.toml")

	stdout, _, err := runCLI(t, "", "config", "generate", "--output", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+out)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend")

	_, _, err = runCLI(t, "", "config", "generate", "--output", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	stdout, _, err = runCLI(t, "", "config", "generate", "--output", out, "--update")
	require.NoError(t, err)
	assert.Contains(t, stdout, "already up to date")

	_, _, err = runCLI(t, "", "config", "generate", "--output", out, "--update", "--overwrite")
	require.Error(t, err)
}

func TestConfigShowAppliesFlagOverrides(t *testing.T) {
	isolate(t)
	out, _, err := runCLI(t, "", "--db", "mem://", "--backend", "http://example.test:9000", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "backend.url = http://example.test:9000\n")
	assert.Contains(t, out, "db_url = mem://\n")
}

func TestApplyEdit(t *testing.T) {
	isolate(t)
	v := viper.New()
	require.NoError(t, config.Load(context.Background(), v))
	v.Set("db_url", "mem://")
	app, err := wire.BuildApp(context.Background(), v)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	ctx := context.Background()

	lesson, err := api.NewDraft(api.KindLesson, "Old", "", api.LessonRequest{}, api.LessonContent{LessonContent: "old"})
	require.NoError(t, err)
	lesson, err = app.Store.Drafts.PutDraft(ctx, lesson)
	require.NoError(t, err)

	body, err := editableBody(lesson)
	require.NoError(t, err)
	assert.Equal(t, "old", body)

	saved, err := applyEdit(ctx, app, lesson, "Title: New\n---\n# Better\n\ntext\n")
	require.NoError(t, err)
	assert.Equal(t, "New", saved.Title)
	var lc api.LessonContent
	require.NoError(t, saved.Decode(&lc))
	assert.Equal(t, "# Better\n\ntext", lc.LessonContent)
	assert.NotEqual(t, lesson.Hash, saved.Hash)

	course, err := api.NewDraft(api.KindCourse, "C", "", api.CourseRequest{}, api.CourseOutline{CourseTitle: "C"})
	require.NoError(t, err)
	body, err = editableBody(course)
	require.NoError(t, err)
	assert.Contains(t, body, "\n  \"course_title\": \"C\"")

	_, err = applyEdit(ctx, app, course, "Title: C\n---\n{\"course_title\": 1}")
	require.Error(t, err)
	_, err = applyEdit(ctx, app, course, "Title: C\n---\n{\"unknown\": true}")
	require.Error(t, err)
	saved, err = applyEdit(ctx, app, course, "Title: C\n---\n{\"course_title\": \"D\"}")
	require.NoError(t, err)
	var co api.CourseOutline
	require.NoError(t, saved.Decode(&co))
	assert.Equal(t, "D", co.CourseTitle)
}
