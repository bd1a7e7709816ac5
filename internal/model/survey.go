package model

import (
	"strings"
	"time"
)

const (
	EvaluationClass  = "Class"
	EvaluationOffice = "Office"

	AssignmentAll        = "all"
	AssignmentDepartment = "department"
	AssignmentSpecific   = "specific"

	SurveyDraft    = "Draft"
	SurveyActive   = "Active"
	SurveyArchived = "Archived"

	ResponseStyleRating    = "Rating-Scale Questions"
	ResponseStyleOpenEnded = "Open-Ended Question"
)

// YearLevels 年级分组的固定顺序
var YearLevels = []string{"1st Year", "2nd Year", "3rd Year", "4th Year"}

const UnknownYearLevel = "Unknown"

// swagger:model StudentEvaluationSurvey
type StudentEvaluationSurvey struct {
	BaseModel
	Title             string               `gorm:"size:255;not null" json:"title"`
	Instruction       string               `gorm:"type:text" json:"instruction"`
	SurveyStart       *time.Time           `json:"survey_start"`
	SurveyEnd         *time.Time           `json:"survey_end"`
	Status            string               `gorm:"size:20;default:'Draft'" json:"is_active"`
	AcademicTermID    *uint                `gorm:"index" json:"academic_term_id"`
	AcademicTerm      *AcademicTerm        `gorm:"foreignKey:AcademicTermID" json:"academic_term,omitempty"`
	EvaluationType    string               `gorm:"size:20;default:'Class'" json:"evaluation_type"`
	OfficeID          *uint                `gorm:"index" json:"office_id"`
	Office            *SchoolOffice        `gorm:"foreignKey:OfficeID" json:"office,omitempty"`
	AssignmentMode    string               `gorm:"size:20;default:'all'" json:"assignment_mode"`
	StudentPercentage float64              `gorm:"default:100" json:"student_percentage"`
	QuestionGroups    []StudentSurveyGroup `gorm:"foreignKey:SurveyID" json:"question_group"`
}

func (StudentEvaluationSurvey) TableName() string {
	return "student_evaluation_surveys"
}

func (s StudentEvaluationSurvey) RefID() uint { return s.ID }

func (s StudentEvaluationSurvey) TermRef() Ref[AcademicTerm] {
	return RefOf(s.AcademicTermID, s.AcademicTerm)
}

func (s StudentEvaluationSurvey) OfficeRef() Ref[SchoolOffice] {
	return RefOf(s.OfficeID, s.Office)
}

// StudentSurveyGroup 问卷中的题组
type StudentSurveyGroup struct {
	BaseModel
	SurveyID      uint              `gorm:"index;not null" json:"survey_id"`
	Number        int               `gorm:"default:0" json:"number"`
	Title         string            `gorm:"size:255" json:"title"`
	ResponseStyle string            `gorm:"size:50" json:"response_style"`
	Questions     []StudentQuestion `gorm:"foreignKey:GroupID" json:"questions"`
}

func (StudentSurveyGroup) TableName() string {
	return "student_survey_groups"
}

type StudentQuestion struct {
	BaseModel
	GroupID  uint   `gorm:"index;not null" json:"group_id"`
	Question string `gorm:"type:text;not null" json:"question"`
	Sort     int    `gorm:"default:0" json:"sort"`
}

func (StudentQuestion) TableName() string {
	return "student_questions"
}

func (q StudentQuestion) RefID() uint { return q.ID }

func IsRatingStyle(style string) bool {
	return strings.Contains(strings.ToLower(style), "rating")
}

func IsOpenEndedStyle(style string) bool {
	return strings.Contains(strings.ToLower(style), "open")
}

func IsValidEvaluationType(t string) bool {
	return t == EvaluationClass || t == EvaluationOffice
}

func IsValidAssignmentMode(m string) bool {
	switch m {
	case AssignmentAll, AssignmentDepartment, AssignmentSpecific:
		return true
	}
	return false
}

func IsValidSurveyStatus(s string) bool {
	switch s {
	case SurveyDraft, SurveyActive, SurveyArchived:
		return true
	}
	return false
}

// SurveySettings 保存问卷时可修改的设置字段
type SurveySettings struct {
	Title             string     `json:"title"`
	Instruction       string     `json:"instruction"`
	SurveyStart       *time.Time `json:"survey_start"`
	SurveyEnd         *time.Time `json:"survey_end"`
	Status            string     `json:"is_active"`
	AcademicTermID    *uint      `json:"academic_term_id"`
	EvaluationType    string     `json:"evaluation_type"`
	OfficeID          *uint      `json:"office_id"`
	AssignmentMode    string     `json:"assignment_mode"`
	StudentPercentage float64    `json:"student_percentage"`
}

// Apply 把设置写回问卷实体
func (s SurveySettings) Apply(survey *StudentEvaluationSurvey) {
	survey.Title = s.Title
	survey.Instruction = s.Instruction
	survey.SurveyStart = s.SurveyStart
	survey.SurveyEnd = s.SurveyEnd
	if s.Status != "" {
		survey.Status = s.Status
	}
	survey.AcademicTermID = s.AcademicTermID
	survey.AcademicTerm = nil
	survey.EvaluationType = s.EvaluationType
	survey.OfficeID = s.OfficeID
	survey.Office = nil
	survey.AssignmentMode = s.AssignmentMode
	survey.StudentPercentage = s.StudentPercentage
}
