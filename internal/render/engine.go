package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// Engine selects how lesson text becomes HTML.
type Engine string

const (
	// EngineStaged is FormatContent.
	EngineStaged Engine = "staged"
	// EngineMarkdown parses the text as CommonMark.
	EngineMarkdown Engine = "markdown"
)

// ParseEngine accepts "staged" or "markdown" (case-insensitive). Empty means staged.
func ParseEngine(s string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(EngineStaged):
		return EngineStaged, nil
	case string(EngineMarkdown), "md", "commonmark":
		return EngineMarkdown, nil
	default:
		return "", fmt.Errorf("unknown render engine %q (want staged|markdown)", s)
	}
}

var md = goldmark.New(
	goldmark.WithExtensions(extension.Strikethrough, extension.Linkify),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Renderer turns lesson text into HTML that can be inserted into a page.
type Renderer struct {
	Engine   Engine
	Sanitize bool
}

// Render runs the configured engine and, if enabled, the sanitizer.
func (r Renderer) Render(content string) (string, error) {
	switch r.Engine {
	case EngineMarkdown:
		var buf bytes.Buffer
		if err := md.Convert([]byte(content), &buf); err != nil {
			return "", fmt.Errorf("render markdown: %w", err)
		}
		if r.Sanitize {
			return markdownPolicy.Sanitize(buf.String()), nil
		}
		return buf.String(), nil
	case EngineStaged, "":
		out := FormatContent(content)
		if r.Sanitize {
			out = Sanitize(out)
		}
		return out, nil
	default:
		return "", fmt.Errorf("unknown render engine %q", r.Engine)
	}
}
