package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefOf_PrefersPopulated(t *testing.T) {
	id := uint(9)
	course := &Course{CourseCode: "CS101"}
	course.ID = 9

	ref := RefOf(&id, course)
	got, ok := ref.Populated()
	require.True(t, ok)
	assert.Equal(t, "CS101", got.CourseCode)

	ref = RefOf[Course](&id, nil)
	assert.Equal(t, uint(9), ref.ID())
	_, ok = ref.Populated()
	assert.False(t, ok)

	empty := RefOf[Course](nil, nil)
	assert.Zero(t, empty.ID())
	_, ok = empty.Populated()
	assert.False(t, ok)
}

func TestAnswerQuestionRef(t *testing.T) {
	a := SurveyAnswer{QuestionID: 5}
	assert.Equal(t, uint(5), a.QuestionRef().ID())

	q := &StudentQuestion{Question: "Q"}
	q.ID = 5
	a.Question = q
	got, ok := a.QuestionRef().Populated()
	require.True(t, ok)
	assert.Equal(t, "Q", got.Question)
}

func TestClassStudentIDs_Dedup(t *testing.T) {
	c := Class{Students: []ClassStudent{
		{ClassID: 1, StudentID: 3},
		{ClassID: 1, StudentID: 3},
		{ClassID: 1, StudentID: 0},
		{ClassID: 1, StudentID: 4},
	}}
	assert.Equal(t, []uint{3, 4}, c.StudentIDs())
}

func TestStyles(t *testing.T) {
	assert.True(t, IsRatingStyle(ResponseStyleRating))
	assert.False(t, IsRatingStyle(ResponseStyleOpenEnded))
	assert.True(t, IsOpenEndedStyle(ResponseStyleOpenEnded))
	assert.True(t, IsValidAssignmentMode("department"))
	assert.False(t, IsValidEvaluationType("Dept"))
	assert.True(t, IsValidSurveyStatus(SurveyArchived))
	assert.False(t, IsValidSurveyStatus("Closed"))
}
