package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraft_ContentHash(t *testing.T) {
	base, err := NewDraft(KindLesson, "Loops", "s1",
		LessonRequest{CourseTitle: "Go", ModuleTitle: "Basics", LessonTitle: "Loops", LessonObjective: "Iterate"},
		LessonContent{LessonContent: "# Loops\n\nfor i := range n"})
	require.NoError(t, err)
	assert.Equal(t, base.ContentHash(), base.Hash)

	t.Run("ids and times are ignored", func(t *testing.T) {
		other := base
		other.ID = "other"
		other.SessionID = "s2"
		other.UpdatedAt = other.UpdatedAt.Add(1)
		assert.Equal(t, base.Hash, other.ContentHash())
	})

	t.Run("payload changes the hash", func(t *testing.T) {
		other := base
		other.Payload = json.RawMessage(`{"lesson_content":"changed"}`)
		assert.NotEqual(t, base.Hash, other.ContentHash())
	})

	t.Run("field boundaries matter", func(t *testing.T) {
		a := Draft{Kind: KindLesson, Title: "ab", Payload: json.RawMessage("c")}
		b := Draft{Kind: KindLesson, Title: "a", Payload: json.RawMessage("bc")}
		assert.NotEqual(t, a.ContentHash(), b.ContentHash())
	})
}

func TestDraftDecode(t *testing.T) {
	d, err := NewDraft(KindQuiz, "Quiz", "", LessonRequest{}, Quiz{Quiz: []QuizQuestion{{Question: "Q", Options: []string{"a", "b"}, CorrectAnswer: "b"}}})
	require.NoError(t, err)
	var q Quiz
	require.NoError(t, d.Decode(&q))
	require.Len(t, q.Quiz, 1)
	assert.True(t, q.Quiz[0].IsCorrect("b"))
	assert.False(t, q.Quiz[0].IsCorrect("a"))
	assert.NotEmpty(t, d.ID)
}

func TestHashString(t *testing.T) {
	assert.Equal(t, HashString("x"), HashString("x"))
	assert.NotEqual(t, HashString("x"), HashString("y"))
	assert.Len(t, HashString("x"), 64)
}
