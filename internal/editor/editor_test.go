package editor

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestParseEditedDraft(t *testing.T) {
	input := `# tutor lesson draft
# comment line
Title: Variables
---
# Intro

Body line 2
`
	title, body := ParseEditedDraft(input)
	if title != "Variables" {
		t.Fatalf("title=%q", title)
	}
	if body != "# Intro\n\nBody line 2" {
		t.Fatalf("body=%q", body)
	}
}

func TestParseEditedDraftWithoutSeparator(t *testing.T) {
	title, body := ParseEditedDraft("Title: Only\n")
	if title != "Only" || body != "" {
		t.Fatalf("title=%q body=%q", title, body)
	}
}

func TestComposeDraftRoundTrip(t *testing.T) {
	content := ComposeDraft("lesson", "Title", "- a\n- b")
	if !strings.Contains(content, "Title: Title") {
		t.Fatalf("expected title line, got %q", content)
	}
	if !strings.Contains(content, "---\n- a\n- b\n") {
		t.Fatalf("expected body separator, got %q", content)
	}
	title, body := ParseEditedDraft(content)
	if title != "Title" || body != "- a\n- b" {
		t.Fatalf("round trip title=%q body=%q", title, body)
	}
}

func TestPathForDraft(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	path, err := PathForDraft("abc")
	if err != nil {
		t.Fatalf("PathForDraft error: %v", err)
	}
	if path != filepath.Join(dir, "tutor", "abc.tutor.md") {
		t.Fatalf("PathForDraft=%q", path)
	}
}

func TestOpenAtWithScriptedEditor(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	dir := t.TempDir()
	t.Setenv("VISUAL", "sed -i.bak s/old/new/")
	path := filepath.Join(dir, "d.tutor.md")
	out, changed, err := OpenAt(path, []byte("Title: old\n"))
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	if !changed || string(out) != "Title: new\n" {
		t.Fatalf("changed=%v out=%q", changed, out)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("temp file should be removed, stat err=%v", err)
	}
}
