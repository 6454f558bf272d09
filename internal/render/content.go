package render

import (
	"regexp"
	"strings"
)

const (
	pOpen  = "<p>"
	pClose = "</p>"
)

var (
	headingBody = regexp.MustCompile(`^#+\s+(.+)$`)
	bulletBody  = regexp.MustCompile(`^\s*-\s+(.+)$`)
	bulletNext  = regexp.MustCompile(`<br>\s*-\s+`)
	boldSpan    = regexp.MustCompile(`\*\*(.+?)\*\*`)
	blockTag    = regexp.MustCompile(`</?(?:p|h3|ul|li)>`)
)

// FormatContent turns loosely structured generated text into a small HTML
// subset: <p>, <h3>, <ul>/<li>, <strong> and <br>.
//
// The transform is a fixed sequence of rewrites and each stage sees the
// previous stage's output:
//
//  1. blank lines become paragraph boundaries, other newlines become <br>
//  2. the whole result is wrapped in <p> unless it already starts with <p>
//  3. a paragraph that is entirely "# title" becomes <h3>title</h3>
//  4. a paragraph that is entirely "- item" becomes a one-item <ul>
//  5. inside such a list, "<br>- next" starts another <li>
//  6. **text** becomes <strong>text</strong>
//
// Stages 3 to 6 never match across a block boundary, so every tag the
// transform opens is also closed. The output is not meant to be fed back in:
// FormatContent(FormatContent(s)) generally differs from FormatContent(s).
//
// A bullet line that follows ordinary text inside the same paragraph is
// left as "text<br>- item"; only a paragraph that starts as a bullet grows a
// list.
func FormatContent(content string) string {
	out := strings.ReplaceAll(content, "\r\n", "\n")

	out = strings.ReplaceAll(out, "\n\n", pClose+pOpen)
	out = strings.ReplaceAll(out, "\n", "<br>")

	if !strings.HasPrefix(out, pOpen) {
		out = pOpen + out + pClose
	}

	out = rewriteParagraphs(out, headingBody, func(title string) string {
		return "<h3>" + title + "</h3>"
	})

	out = rewriteParagraphs(out, bulletBody, func(item string) string {
		return "<ul><li>" + continueList(item) + "</li></ul>"
	})

	return emphasize(out)
}

// rewriteParagraphs replaces every <p>body</p> whose body matches re as a
// whole. body ends at the first </p> after the opening tag, so a match never
// reaches into the next paragraph. wrap receives the first submatch.
func rewriteParagraphs(s string, re *regexp.Regexp, wrap func(string) string) string {
	var b strings.Builder
	last := 0
	for i := 0; i < len(s); {
		open := strings.Index(s[i:], pOpen)
		if open < 0 {
			break
		}
		open += i
		start := open + len(pOpen)
		end := strings.Index(s[start:], pClose)
		if end < 0 {
			break
		}
		end += start
		m := re.FindStringSubmatch(s[start:end])
		if m == nil {
			i = open + 1
			continue
		}
		b.WriteString(s[last:open])
		b.WriteString(wrap(m[1]))
		last = end + len(pClose)
		i = last
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

// continueList closes the current item and opens the next one at every
// "<br>- " marker of a list body. It never opens a <ul> of its own.
func continueList(item string) string {
	return bulletNext.ReplaceAllString(item, "</li><li>")
}

// emphasize applies **bold** inside each run of text between block tags.
func emphasize(s string) string {
	tags := blockTag.FindAllStringIndex(s, -1)
	if len(tags) == 0 {
		return boldSpan.ReplaceAllString(s, "<strong>$1</strong>")
	}
	var b strings.Builder
	b.Grow(len(s))
	last := 0
	for _, t := range tags {
		b.WriteString(boldSpan.ReplaceAllString(s[last:t[0]], "<strong>$1</strong>"))
		b.WriteString(s[t[0]:t[1]])
		last = t[1]
	}
	b.WriteString(boldSpan.ReplaceAllString(s[last:], "<strong>$1</strong>"))
	return b.String()
}
