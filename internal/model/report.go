package model

// 以下为报表派生结构，不落库，每次请求重新计算

// QuestionStats 单题统计
type QuestionStats struct {
	QuestionID     uint           `json:"questionId"`
	QuestionText   string         `json:"questionText"`
	ResponseStyle  string         `json:"responseStyle"`
	TotalResponses int            `json:"totalResponses"`
	Average        *float64       `json:"average,omitempty"`
	Distribution   map[string]int `json:"distribution,omitempty"`
}

type QuestionSummary struct {
	QuestionText   string         `json:"questionText"`
	Average        float64        `json:"average"`
	Distribution   map[string]int `json:"distribution"`
	TotalResponses int            `json:"totalResponses"`
}

type GroupQuestionStats struct {
	GroupTitle string            `json:"groupTitle"`
	Questions  []QuestionSummary `json:"questions"`
}

type ClassEvaluationData struct {
	ClassID          uint                 `json:"classId"`
	Section          string               `json:"section"`
	CourseCode       string               `json:"courseCode"`
	CourseName       string               `json:"courseName"`
	TotalRespondents int                  `json:"totalRespondents"`
	TotalStudents    int                  `json:"totalStudents"`
	ResponseRate     float64              `json:"responseRate"`
	OverallAverage   float64              `json:"overallAverage"`
	QuestionStats    []GroupQuestionStats `json:"questionStats"`
	Comments         []string             `json:"comments"`
}

type InstructorReportData struct {
	InstructorID     uint                  `json:"instructorId"`
	InstructorName   string                `json:"instructorName"`
	AcademicTerm     string                `json:"academicTerm"`
	TotalClasses     int                   `json:"totalClasses"`
	TotalRespondents int                   `json:"totalRespondents"`
	TotalStudents    int                   `json:"totalStudents"`
	OverallAverage   float64               `json:"overallAverage"`
	ResponseRate     float64               `json:"responseRate"`
	Classes          []ClassEvaluationData `json:"classes"`
}

type AnswerDetail struct {
	GroupTitle    string `json:"groupTitle"`
	QuestionText  string `json:"questionText"`
	AnswerValue   string `json:"answerValue"`
	ResponseStyle string `json:"responseStyle"`
}

type ResponseDetail struct {
	StudentName   string         `json:"studentName"`
	StudentNumber string         `json:"studentNumber"`
	Program       string         `json:"program"`
	SubmittedAt   string         `json:"submittedAt"`
	Answers       []AnswerDetail `json:"answers"`
}

type OfficeReportData struct {
	OfficeID         uint                 `json:"officeId"`
	OfficeName       string               `json:"officeName"`
	SurveyTitle      string               `json:"surveyTitle"`
	AcademicTerm     string               `json:"academicTerm"`
	TotalRespondents int                  `json:"totalRespondents"`
	TotalExpected    int                  `json:"totalExpected"`
	ResponseRate     float64              `json:"responseRate"`
	OverallAverage   float64              `json:"overallAverage"`
	QuestionStats    []GroupQuestionStats `json:"questionStats"`
	Comments         []string             `json:"comments"`
	Responses        []ResponseDetail     `json:"responses"`
}

// ResponseGroup 按分类键分组后的答卷
type ResponseGroup struct {
	Responses     []StudentSurveyResponse `json:"responses"`
	AverageRating float64                 `json:"averageRating"`
}

type InstructorSummary struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	ClassCount    int     `json:"classCount"`
	ResponseCount int     `json:"responseCount"`
	AverageRating float64 `json:"averageRating"`
}

// EvaluationOverview 问卷评估概览
type EvaluationOverview struct {
	SurveyID                    uint    `json:"surveyId"`
	Title                       string  `json:"title"`
	EvaluationType              string  `json:"evaluationType"`
	AssignmentMode              string  `json:"assignmentMode"`
	StudentPercentage           float64 `json:"studentPercentage"`
	AcademicTerm                string  `json:"academicTerm"`
	AssignedClassIDs            []uint  `json:"assignedClassIds"`
	AssignedStudentCount        int     `json:"assignedStudentCount"`
	TotalAssignedStudentsClass  int     `json:"totalAssignedStudentsClass"`
	TotalAssignedStudentsOffice int     `json:"totalAssignedStudentsOffice"`
	TotalExpectedStudents       int     `json:"totalExpectedStudents"`
	TotalResponses              int     `json:"totalResponses"`
	PendingResponses            int     `json:"pendingResponses"`
}
