package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatContent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "<p></p>"},
		{"plain", "Just some text", "<p>Just some text</p>"},
		{"paragraphs", "Hello\n\nWorld", "<p>Hello</p><p>World</p>"},
		{"line break", "Line1\nLine2", "<p>Line1<br>Line2</p>"},
		{"crlf", "Line1\r\nLine2", "<p>Line1<br>Line2</p>"},
		{"heading", "# Title", "<h3>Title</h3>"},
		{"deep heading", "### Deep Title", "<h3>Deep Title</h3>"},
		{"heading needs space", "#Title", "<p>#Title</p>"},
		{"heading mid paragraph", "see # not a heading", "<p>see # not a heading</p>"},
		{"heading then text", "# Intro\n\nBody text", "<h3>Intro</h3><p>Body text</p>"},
		{"single bullet", "- item one", "<ul><li>item one</li></ul>"},
		{"indented bullet", "  -   spaced", "<ul><li>spaced</li></ul>"},
		{"bullet list", "- a\n- b\n- c", "<ul><li>a</li><li>b</li><li>c</li></ul>"},
		{"bold", "a **bold** word", "<p>a <strong>bold</strong> word</p>"},
		{"two bolds", "**a** and **b**", "<p><strong>a</strong> and <strong>b</strong></p>"},
		{"unmatched bold", "a ** b", "<p>a ** b</p>"},
		{"bold in heading", "# The **key** idea", "<h3>The <strong>key</strong> idea</h3>"},
		{"bold in item", "- **Term**: meaning", "<ul><li><strong>Term</strong>: meaning</li></ul>"},
		{"triple newline", "a\n\n\nb", "<p>a</p><p><br>b</p>"},
		{"leading blank line", "\n\nText", "<p></p><p>Text</p>"},
		{"already paragraph", "<p>raw", "<p>raw"},
		{"heading with break", "# Title\nmore", "<h3>Title<br>more</h3>"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatContent(tc.in))
		})
	}
}

func TestFormatContentMixedDocument(t *testing.T) {
	in := "# Overview\n\nVariables hold **values**.\n\n- int\n- string\n\n## Next\n\nPractice."
	want := "<h3>Overview</h3>" +
		"<p>Variables hold <strong>values</strong>.</p>" +
		"<ul><li>int</li><li>string</li></ul>" +
		"<h3>Next</h3>" +
		"<p>Practice.</p>"
	assert.Equal(t, want, FormatContent(in))
}

func TestFormatContentBulletAfterTextStaysLiteral(t *testing.T) {
	// Only a paragraph that begins as a bullet grows a list.
	got := FormatContent("Remember:\n- one\n- two")
	assert.Equal(t, "<p>Remember:<br>- one<br>- two</p>", got)
	assert.NotContains(t, got, "<li>")
}

func TestFormatContentDoesNotCrossParagraphs(t *testing.T) {
	got := FormatContent("# \n\nnext")
	assert.Equal(t, "<p># </p><p>next</p>", got)

	got = FormatContent("**open\n\nclose**")
	assert.Equal(t, "<p>**open</p><p>close**</p>", got)
}

func TestFormatContentBalancedTags(t *testing.T) {
	inputs := []string{
		"",
		"# \n\n- \n\n**",
		"- a\ntext\n- b\n\n# h\n- x",
		"x\n- y\n\n- z\n-w\n- **v**",
		"**a\nb** c **d",
		"\n\n\n\n",
		"# **bold heading**\n\n  - item\n  - item two",
	}
	for _, in := range inputs {
		out := FormatContent(in)
		for _, tag := range []string{"p", "h3", "ul", "li", "strong"} {
			assert.Equal(t,
				strings.Count(out, "<"+tag+">"),
				strings.Count(out, "</"+tag+">"),
				"unbalanced <%s> for %q: %s", tag, in, out)
		}
	}
}

func TestFormatContentDeterministic(t *testing.T) {
	in := "# T\n\n- a\n- b\n\n**x**"
	require.Equal(t, FormatContent(in), FormatContent(in))
}

func TestFormatContentNotIdempotent(t *testing.T) {
	// Feeding formatted output back in is outside the contract.
	once := FormatContent("# Title")
	twice := FormatContent(once)
	assert.Equal(t, "<h3>Title</h3>", once)
	assert.NotEqual(t, once, twice)
}
