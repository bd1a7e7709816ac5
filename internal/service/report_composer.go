package service

import (
	"fmt"
	"math"

	"survegio_backend/internal/model"
	"survegio_backend/internal/util"
)

// ReportComposer 基于一次数据快照生成报表。只读，不做任何 I/O
type ReportComposer struct {
	Survey           model.StudentEvaluationSurvey
	Terms            []model.AcademicTerm
	Offices          []model.SchoolOffice
	Classes          []model.Class
	Students         []model.Student
	AssignedClassIDs []uint
	AssignedStudents int
	DepartmentIDs    []uint
	Responses        []model.StudentSurveyResponse
}

type questionLocation struct {
	group    *model.StudentSurveyGroup
	question *model.StudentQuestion
}

// TermLabel 返回 "{学年} - {学期}"，无法解析时为空
func (c *ReportComposer) TermLabel() string {
	ref := c.Survey.TermRef()
	term, ok := ref.Populated()
	if !ok {
		term = findByID(c.Terms, ref.ID())
	}
	if term == nil {
		return ""
	}
	return fmt.Sprintf("%s - %s", term.SchoolYear, term.Semester)
}

func (c *ReportComposer) assignedClasses() map[uint]bool {
	set := make(map[uint]bool, len(c.AssignedClassIDs))
	for _, id := range c.AssignedClassIDs {
		set[id] = true
	}
	return set
}

// ClassPopulation 班级内去重后的学生数
func ClassPopulation(class model.Class) int {
	return len(class.StudentIDs())
}

// TotalAssignedStudentsClass 已分配班级的学生总数（跨班级去重）
func (c *ReportComposer) TotalAssignedStudentsClass() int {
	assigned := c.assignedClasses()
	seen := make(map[uint]struct{})
	for _, cls := range c.Classes {
		if !assigned[cls.ID] {
			continue
		}
		for _, sid := range cls.StudentIDs() {
			seen[sid] = struct{}{}
		}
	}
	return len(seen)
}

// TotalAssignedStudentsOffice 按分配方式计算部门问卷的基数
func (c *ReportComposer) TotalAssignedStudentsOffice() int {
	switch c.Survey.AssignmentMode {
	case model.AssignmentAll:
		return len(EligibleStudentIDs(c.Students))
	case model.AssignmentDepartment:
		return len(StudentIDsInDepartments(c.Students, c.DepartmentIDs))
	case model.AssignmentSpecific:
		return c.AssignedStudents
	}
	return 0
}

// ExpectedStudents ceil(基数 * 比例 / 100)
func (c *ReportComposer) ExpectedStudents() int {
	base := c.TotalAssignedStudentsOffice()
	if c.Survey.EvaluationType == model.EvaluationClass {
		base = c.TotalAssignedStudentsClass()
	}
	return ExpectedCount(base, c.Survey.StudentPercentage)
}

func (c *ReportComposer) Overview() model.EvaluationOverview {
	expected := c.ExpectedStudents()
	pending := expected - len(c.Responses)
	if pending < 0 {
		pending = 0
	}
	classIDs := append([]uint{}, c.AssignedClassIDs...)
	return model.EvaluationOverview{
		SurveyID:                    c.Survey.ID,
		Title:                       c.Survey.Title,
		EvaluationType:              c.Survey.EvaluationType,
		AssignmentMode:              c.Survey.AssignmentMode,
		StudentPercentage:           c.Survey.StudentPercentage,
		AcademicTerm:                c.TermLabel(),
		AssignedClassIDs:            classIDs,
		AssignedStudentCount:        c.AssignedStudents,
		TotalAssignedStudentsClass:  c.TotalAssignedStudentsClass(),
		TotalAssignedStudentsOffice: c.TotalAssignedStudentsOffice(),
		TotalExpectedStudents:       expected,
		TotalResponses:              len(c.Responses),
		PendingResponses:            pending,
	}
}

func (c *ReportComposer) QuestionStats() []model.QuestionStats {
	return QuestionStatsFor(c.Survey.QuestionGroups, c.Responses)
}

func (c *ReportComposer) YearLevels() map[string]model.ResponseGroup {
	return ResponsesByYearLevel(c.Responses)
}

// Instructors 仅班级问卷有教师概览
func (c *ReportComposer) Instructors() []model.InstructorSummary {
	if c.Survey.EvaluationType != model.EvaluationClass {
		return []model.InstructorSummary{}
	}
	return SummarizeInstructors(c.Classes, c.assignedClasses(), c.Responses)
}

// groupStats 按题组汇总评分题统计，同时收集开放题评论和全部评分值
func (c *ReportComposer) groupStats(responses []model.StudentSurveyResponse) ([]model.GroupQuestionStats, []string, []float64) {
	stats := []model.GroupQuestionStats{}
	comments := []string{}
	var ratings []float64

	for _, g := range c.Survey.QuestionGroups {
		gs := model.GroupQuestionStats{GroupTitle: g.Title}
		for _, q := range g.Questions {
			answers := AnswersFor(q.ID, responses)
			switch {
			case model.IsRatingStyle(g.ResponseStyle):
				values := RatingValues(answers)
				ratings = append(ratings, values...)
				gs.Questions = append(gs.Questions, model.QuestionSummary{
					QuestionText:   q.Question,
					Average:        Average(values),
					Distribution:   Distribution(values),
					TotalResponses: len(values),
				})
			case model.IsOpenEndedStyle(g.ResponseStyle):
				comments = append(comments, Comments(answers)...)
			}
		}
		if len(gs.Questions) > 0 {
			stats = append(stats, gs)
		}
	}
	return stats, comments, ratings
}

// InstructorReport 教师不带任何已分配班级时返回 nil
func (c *ReportComposer) InstructorReport(instructorID uint) *model.InstructorReportData {
	assigned := c.assignedClasses()

	var (
		classes          []model.ClassEvaluationData
		allRatings       []float64
		totalRespondents int
		totalStudents    int
		name             string
	)

	for _, cls := range c.Classes {
		ref := cls.TeacherRef()
		if !assigned[cls.ID] || ref.ID() == 0 || ref.ID() != instructorID {
			continue
		}
		if name == "" {
			name = teacherName(ref)
		}

		classResponses := ResponsesForClass(c.Responses, cls.ID)
		population := ClassPopulation(cls)
		stats, comments, ratings := c.groupStats(classResponses)
		allRatings = append(allRatings, ratings...)

		totalRespondents += len(classResponses)
		totalStudents += population

		data := model.ClassEvaluationData{
			ClassID:          cls.ID,
			Section:          cls.Section,
			TotalRespondents: len(classResponses),
			TotalStudents:    population,
			ResponseRate:     responseRate(len(classResponses), population),
			OverallAverage:   Average(ratings),
			QuestionStats:    stats,
			Comments:         comments,
		}
		if course, ok := cls.CourseRef().Populated(); ok {
			data.CourseCode = course.CourseCode
			data.CourseName = course.CourseName
		}
		classes = append(classes, data)
	}

	if len(classes) == 0 {
		return nil
	}

	return &model.InstructorReportData{
		InstructorID:     instructorID,
		InstructorName:   name,
		AcademicTerm:     c.TermLabel(),
		TotalClasses:     len(classes),
		TotalRespondents: totalRespondents,
		TotalStudents:    totalStudents,
		// 汇总全部评分题原始值，不做 [1,5] 过滤，与 InstructorSummary.AverageRating 可能不同
		OverallAverage:   Average(allRatings),
		ResponseRate:     responseRate(totalRespondents, totalStudents),
		Classes:          classes,
	}
}

// OfficeReport 非部门问卷或部门无法解析时返回 nil
func (c *ReportComposer) OfficeReport() *model.OfficeReportData {
	if c.Survey.EvaluationType != model.EvaluationOffice {
		return nil
	}
	ref := c.Survey.OfficeRef()
	office, ok := ref.Populated()
	if !ok {
		office = findByID(c.Offices, ref.ID())
	}
	if office == nil || ref.ID() == 0 {
		return nil
	}

	expected := c.ExpectedStudents()
	stats, comments, ratings := c.groupStats(c.Responses)

	return &model.OfficeReportData{
		OfficeID:         office.ID,
		OfficeName:       office.Name,
		SurveyTitle:      c.Survey.Title,
		AcademicTerm:     c.TermLabel(),
		TotalRespondents: len(c.Responses),
		TotalExpected:    expected,
		ResponseRate:     responseRate(len(c.Responses), expected),
		OverallAverage:   Average(ratings),
		QuestionStats:    stats,
		Comments:         comments,
		Responses:        c.responseDetails(),
	}
}

func (c *ReportComposer) responseDetails() []model.ResponseDetail {
	locations := c.questionIndex()
	students := make(map[uint]*model.Student, len(c.Students))
	for i := range c.Students {
		students[c.Students[i].ID] = &c.Students[i]
	}

	details := make([]model.ResponseDetail, 0, len(c.Responses))
	for _, r := range c.Responses {
		ref := r.StudentRef()
		st, ok := ref.Populated()
		if !ok {
			st = students[ref.ID()]
		}

		d := model.ResponseDetail{
			SubmittedAt: r.SubmittedAt.Format(util.TimeFormat),
			Answers:     make([]model.AnswerDetail, 0, len(r.Answers)),
		}
		if st != nil {
			d.StudentName = st.FullName()
			d.StudentNumber = st.StudentNumber
			if dept := st.Department; dept != nil {
				d.Program = dept.ProgramName()
			}
		}

		for _, a := range r.Answers {
			qref := a.QuestionRef()
			ad := model.AnswerDetail{AnswerValue: a.AnswerValue}
			if loc, ok := locations[qref.ID()]; ok {
				ad.GroupTitle = loc.group.Title
				ad.QuestionText = loc.question.Question
				ad.ResponseStyle = loc.group.ResponseStyle
			} else if q, ok := qref.Populated(); ok {
				ad.QuestionText = q.Question
			}
			d.Answers = append(d.Answers, ad)
		}
		details = append(details, d)
	}
	return details
}

func (c *ReportComposer) questionIndex() map[uint]questionLocation {
	index := make(map[uint]questionLocation)
	for gi := range c.Survey.QuestionGroups {
		g := &c.Survey.QuestionGroups[gi]
		for qi := range g.Questions {
			q := &g.Questions[qi]
			if _, ok := index[q.ID]; !ok {
				index[q.ID] = questionLocation{group: g, question: q}
			}
		}
	}
	return index
}

// EligibleStudentIDs 有选课记录的学生
func EligibleStudentIDs(students []model.Student) []uint {
	var ids []uint
	for _, s := range students {
		if len(s.Classes) > 0 {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

func StudentIDsInDepartments(students []model.Student, departmentIDs []uint) []uint {
	set := make(map[uint]bool, len(departmentIDs))
	for _, id := range departmentIDs {
		set[id] = true
	}
	var ids []uint
	for _, s := range students {
		if s.DepartmentID != nil && set[*s.DepartmentID] {
			ids = append(ids, s.ID)
		}
	}
	return ids
}

// responseRate 百分比，保留两位小数；分母为 0 时为 0
func responseRate(respondents, population int) float64 {
	if population <= 0 {
		return 0
	}
	return round2(float64(respondents) / float64(population) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func findByID[T model.Identified](items []T, id uint) *T {
	if id == 0 {
		return nil
	}
	for i := range items {
		if items[i].RefID() == id {
			return &items[i]
		}
	}
	return nil
}
