package api

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCourseRequestValidate(t *testing.T) {
	ok := CourseRequest{
		Title:          "Intro to Go",
		Description:    "Learn the language",
		TargetAudience: "Developers",
		TimeAvailable:  "2 weeks",
	}
	require.NoError(t, ok.Validate())

	bad := CourseRequest{PreferredFormat: "slides", DifficultyLevel: "easy"}
	err := bad.Validate()
	require.Error(t, err)
	for _, want := range []string{"title is required", "description is required", "preferred_format", "difficulty_level"} {
		assert.Contains(t, err.Error(), want)
	}
	var fe *FieldError
	assert.True(t, errors.As(err, &fe))
}

func TestLessonRequestValidate(t *testing.T) {
	err := LessonRequest{CourseTitle: "c", ModuleTitle: "m", LessonTitle: " "}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lesson_title is required")
	assert.Contains(t, err.Error(), "lesson_objective is required")
}

func TestSplitObjectives(t *testing.T) {
	assert.Equal(t, []string{}, SplitObjectives(""))
	assert.Equal(t, []string{"one", "  two"}, SplitObjectives("one\r\n\n  two\n   \n"))
}

func TestParseDraftKind(t *testing.T) {
	k, err := ParseDraftKind("lesson")
	require.NoError(t, err)
	assert.Equal(t, KindLesson, k)
	_, err = ParseDraftKind("chapter")
	assert.Error(t, err)
}

func TestOutlineLookup(t *testing.T) {
	c := CourseOutline{Modules: []ModuleInfo{{ModuleID: "m1", ModuleTitle: "One"}}}
	m, ok := c.Module("m1")
	assert.True(t, ok)
	assert.Equal(t, "One", m.ModuleTitle)
	_, ok = c.Module("m2")
	assert.False(t, ok)
}

func TestFeedbackValidate(t *testing.T) {
	require.NoError(t, Feedback{ContentID: "c", ContentType: "lesson", Rating: 5}.Validate())
	err := Feedback{Rating: 9}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rating must be between 1 and 5")
	assert.Contains(t, err.Error(), "content_id is required")
}
