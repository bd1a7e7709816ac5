package service

import (
	"time"

	"survegio_backend/internal/model"
)

func uintPtr(v uint) *uint { return &v }

func question(id uint, text string) model.StudentQuestion {
	q := model.StudentQuestion{Question: text}
	q.ID = id
	return q
}

func group(title, style string, questions ...model.StudentQuestion) model.StudentSurveyGroup {
	return model.StudentSurveyGroup{Title: title, ResponseStyle: style, Questions: questions}
}

func answer(questionID uint, value string) model.SurveyAnswer {
	return model.SurveyAnswer{QuestionID: questionID, AnswerValue: value}
}

func response(id uint, answers ...model.SurveyAnswer) model.StudentSurveyResponse {
	r := model.StudentSurveyResponse{
		SurveyID:    1,
		SubmittedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Answers:     answers,
	}
	r.ID = id
	return r
}

func classResponse(id, classID uint, answers ...model.SurveyAnswer) model.StudentSurveyResponse {
	r := response(id, answers...)
	r.ClassID = uintPtr(classID)
	return r
}

func teacher(id uint, first, last string) *model.Teacher {
	t := &model.Teacher{FirstName: first, LastName: last}
	t.ID = id
	return t
}

func class(id uint, section string, tch *model.Teacher, studentIDs ...uint) model.Class {
	c := model.Class{Section: section, Teacher: tch}
	c.ID = id
	if tch != nil {
		c.TeacherID = uintPtr(tch.ID)
	}
	for i, sid := range studentIDs {
		cs := model.ClassStudent{ClassID: id, StudentID: sid}
		cs.ID = id*1000 + uint(i) + 1
		c.Students = append(c.Students, cs)
	}
	return c
}

func student(id uint, number, first, last string) *model.Student {
	s := &model.Student{StudentNumber: number, FirstName: first, LastName: last}
	s.ID = id
	return s
}
