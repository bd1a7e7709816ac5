package service

import (
	"math"
	"strconv"
	"strings"

	"survegio_backend/internal/model"
)

const (
	minRating = 1
	maxRating = 5
)

// ParseRating 解析评分；无法解析或非有限数返回 false，绝不当作 0
func ParseRating(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Average 空切片返回 0
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// AnswersFor 汇总所有答卷中指向 questionID 的答案
func AnswersFor(questionID uint, responses []model.StudentSurveyResponse) []model.SurveyAnswer {
	var out []model.SurveyAnswer
	for _, r := range responses {
		for _, a := range r.Answers {
			if a.QuestionRef().ID() == questionID {
				out = append(out, a)
			}
		}
	}
	return out
}

func RatingValues(answers []model.SurveyAnswer) []float64 {
	values := make([]float64, 0, len(answers))
	for _, a := range answers {
		if v, ok := ParseRating(a.AnswerValue); ok {
			values = append(values, v)
		}
	}
	return values
}

// Distribution 四舍五入（.5 向上）后按整数计数
func Distribution(values []float64) map[string]int {
	dist := make(map[string]int)
	for _, v := range values {
		key := strconv.FormatInt(int64(math.Floor(v+0.5)), 10)
		dist[key]++
	}
	return dist
}

// Comments 开放题中非空白的原始文本
func Comments(answers []model.SurveyAnswer) []string {
	var out []string
	for _, a := range answers {
		if strings.TrimSpace(a.AnswerValue) != "" {
			out = append(out, a.AnswerValue)
		}
	}
	return out
}

// StatsFor 单题统计；评分题计算均值和分布，开放题只计数
func StatsFor(question model.StudentQuestion, responseStyle string, responses []model.StudentSurveyResponse) model.QuestionStats {
	answers := AnswersFor(question.ID, responses)
	stat := model.QuestionStats{
		QuestionID:     question.ID,
		QuestionText:   question.Question,
		ResponseStyle:  responseStyle,
		TotalResponses: len(answers),
	}

	if model.IsRatingStyle(responseStyle) {
		values := RatingValues(answers)
		avg := Average(values)
		stat.Average = &avg
		stat.Distribution = Distribution(values)
	}

	return stat
}

// QuestionStatsFor 按题组顺序计算所有题目的统计
func QuestionStatsFor(groups []model.StudentSurveyGroup, responses []model.StudentSurveyResponse) []model.QuestionStats {
	stats := []model.QuestionStats{}
	for _, g := range groups {
		for _, q := range g.Questions {
			if q.ID == 0 {
				continue
			}
			stats = append(stats, StatsFor(q, g.ResponseStyle, responses))
		}
	}
	return stats
}

// InRangeRatings 所有答案中落在 [1,5] 的数值，用于分组和教师概览
func InRangeRatings(responses []model.StudentSurveyResponse) []float64 {
	var values []float64
	for _, r := range responses {
		for _, a := range r.Answers {
			v, ok := ParseRating(a.AnswerValue)
			if ok && v >= minRating && v <= maxRating {
				values = append(values, v)
			}
		}
	}
	return values
}

// GroupResponses 按调用方给出的分类键分组
func GroupResponses(responses []model.StudentSurveyResponse, keyFn func(model.StudentSurveyResponse) string) map[string]model.ResponseGroup {
	groups := make(map[string]model.ResponseGroup)
	for _, r := range responses {
		key := keyFn(r)
		g := groups[key]
		g.Responses = append(g.Responses, r)
		groups[key] = g
	}
	for key, g := range groups {
		g.AverageRating = Average(InRangeRatings(g.Responses))
		groups[key] = g
	}
	return groups
}

// ResponsesByYearLevel 固定年级始终出现；年级为空的答卷归入 Unknown
func ResponsesByYearLevel(responses []model.StudentSurveyResponse) map[string]model.ResponseGroup {
	groups := GroupResponses(responses, func(r model.StudentSurveyResponse) string {
		if strings.TrimSpace(r.YearLevel) == "" {
			return model.UnknownYearLevel
		}
		return r.YearLevel
	})
	for _, yl := range model.YearLevels {
		if _, ok := groups[yl]; !ok {
			groups[yl] = model.ResponseGroup{Responses: []model.StudentSurveyResponse{}}
		}
	}
	return groups
}

// SummarizeInstructors 已分配班级按教师汇总，顺序为教师首次出现的顺序
func SummarizeInstructors(classes []model.Class, assigned map[uint]bool, responses []model.StudentSurveyResponse) []model.InstructorSummary {
	type acc struct {
		summary model.InstructorSummary
		ratings []float64
	}
	var order []uint
	byTeacher := make(map[uint]*acc)

	for _, c := range classes {
		if !assigned[c.ID] {
			continue
		}
		ref := c.TeacherRef()
		if ref.ID() == 0 {
			continue
		}
		a, ok := byTeacher[ref.ID()]
		if !ok {
			a = &acc{summary: model.InstructorSummary{ID: ref.ID(), Name: teacherName(ref)}}
			byTeacher[ref.ID()] = a
			order = append(order, ref.ID())
		}
		classResponses := ResponsesForClass(responses, c.ID)
		a.summary.ClassCount++
		a.summary.ResponseCount += len(classResponses)
		a.ratings = append(a.ratings, InRangeRatings(classResponses)...)
	}

	out := make([]model.InstructorSummary, 0, len(order))
	for _, id := range order {
		a := byTeacher[id]
		a.summary.AverageRating = Average(a.ratings)
		out = append(out, a.summary)
	}
	return out
}

func ResponsesForClass(responses []model.StudentSurveyResponse, classID uint) []model.StudentSurveyResponse {
	var out []model.StudentSurveyResponse
	for _, r := range responses {
		if r.InClass(classID) {
			out = append(out, r)
		}
	}
	return out
}

func teacherName(ref model.Ref[model.Teacher]) string {
	if t, ok := ref.Populated(); ok {
		return t.FullName()
	}
	return ""
}
