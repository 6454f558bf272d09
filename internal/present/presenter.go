package present

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/mithrel/tutor/internal/present/format"
	"github.com/mithrel/tutor/internal/present/tui"
	"github.com/mithrel/tutor/internal/render"
	"github.com/mithrel/tutor/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
	ModeHTML
	ModeTUI
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	// Width is the word wrap for pretty output.
	Width int
	// Renderer turns lesson text into HTML for ModeHTML.
	Renderer render.Renderer
	// Browser hooks for ModeTUI.
	Browse tui.Hooks
}

// ParseMode parses a string like "plain", "pretty", "json", "ndjson", "html", "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	case "html":
		return ModeHTML, true
	case "tui":
		return ModeTUI, true
	default:
		return ModePlain, false
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// DefaultMode picks pretty output for terminals and plain otherwise.
func DefaultMode(w io.Writer) Mode {
	if IsTerminal(w) {
		return ModePretty
	}
	return ModePlain
}

// RenderDrafts renders a list of drafts according to options.
func RenderDrafts(ctx context.Context, w io.Writer, drafts []api.Draft, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, drafts, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONDrafts(w, drafts)
	case ModeTUI:
		sel, err := tui.BrowseDrafts(ctx, drafts, opts.Headers, opts.Browse)
		if err != nil || sel == nil {
			return err
		}
		return RenderDraft(w, *sel, Options{Mode: ModePretty, Width: opts.Width, Renderer: opts.Renderer})
	default:
		// Pretty lists stay tabular.
		return format.WritePlainDrafts(w, drafts, opts.Headers)
	}
}

// RenderDraft renders one stored draft, decoding its payload by kind.
func RenderDraft(w io.Writer, d api.Draft, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, d, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONDrafts(w, []api.Draft{d})
	case ModeTUI:
		return fmt.Errorf("tui output is only available for draft lists")
	}
	v, err := decodePayload(d)
	if err != nil {
		return err
	}
	if opts.Mode == ModePretty {
		md, err := markdownFor(v)
		if err != nil {
			return err
		}
		return format.WritePretty(w, "# "+d.Title+"\n\n"+format.DraftHeader(d)+md, opts.Width)
	}
	return RenderResult(w, v, opts)
}

func decodePayload(d api.Draft) (any, error) {
	var err error
	switch d.Kind {
	case api.KindCourse:
		var v api.CourseOutline
		err = d.Decode(&v)
		return v, err
	case api.KindModule:
		var v api.ModuleOutline
		err = d.Decode(&v)
		return v, err
	case api.KindLesson:
		var v api.LessonContent
		err = d.Decode(&v)
		return v, err
	case api.KindQuiz:
		var v api.Quiz
		err = d.Decode(&v)
		return v, err
	}
	return nil, fmt.Errorf("unknown draft kind %q", d.Kind)
}

func markdownFor(v any) (string, error) {
	switch x := v.(type) {
	case api.CourseOutline:
		return format.CourseMarkdown(x), nil
	case api.ModuleOutline:
		return format.ModuleMarkdown(x), nil
	case api.LessonContent:
		return x.LessonContent, nil
	case api.Quiz:
		return format.QuizMarkdown(x), nil
	}
	return "", fmt.Errorf("cannot present %T", v)
}

// RenderResult renders a generation result: a course or module outline,
// lesson content or a quiz.
func RenderResult(w io.Writer, v any, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSON(w, v, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteJSON(w, v, false)
	case ModePretty:
		md, err := markdownFor(v)
		if err != nil {
			return err
		}
		return format.WritePretty(w, md, opts.Width)
	case ModeHTML:
		return writeHTML(w, v, opts.Renderer)
	case ModeTUI:
		return fmt.Errorf("tui output is only available for draft lists")
	}
	switch x := v.(type) {
	case api.CourseOutline:
		return format.WritePlainCourse(w, x)
	case api.ModuleOutline:
		return format.WritePlainModule(w, x)
	case api.LessonContent:
		return format.WritePlainLesson(w, x)
	case api.Quiz:
		return format.WritePlainQuiz(w, x)
	}
	return fmt.Errorf("cannot present %T", v)
}

// writeHTML runs lesson text through the configured renderer; outlines and
// quizzes are laid out as markdown first and rendered with goldmark.
func writeHTML(w io.Writer, v any, r render.Renderer) error {
	var (
		out string
		err error
	)
	if l, ok := v.(api.LessonContent); ok {
		out, err = r.Render(l.LessonContent)
	} else {
		var md string
		if md, err = markdownFor(v); err == nil {
			out, err = render.Renderer{Engine: render.EngineMarkdown, Sanitize: true}.Render(md)
		}
	}
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out+"\n")
	return err
}
