package render

import "github.com/microcosm-cc/bluemonday"

// lessonPolicy admits exactly the elements FormatContent can emit.
var lessonPolicy = newLessonPolicy()

func newLessonPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "h3", "ul", "li", "strong", "br")
	return p
}

// Sanitize strips every element and attribute outside the lesson subset.
// Generated text is not escaped by FormatContent, so anything headed for a
// page as trusted markup should pass through here first.
func Sanitize(html string) string {
	return lessonPolicy.Sanitize(html)
}

// markdownPolicy covers what goldmark produces for ordinary CommonMark.
var markdownPolicy = bluemonday.UGCPolicy()
