package model

import "time"

// StudentSurveyResponse 学生提交的问卷，只追加不修改
type StudentSurveyResponse struct {
	BaseModel
	SurveyID    uint           `gorm:"index;not null" json:"survey_id"`
	StudentID   *uint          `gorm:"index" json:"student_id"`
	Student     *Student       `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	ClassID     *uint          `gorm:"index" json:"class_id,omitempty"`
	OfficeID    *uint          `gorm:"index" json:"office_id,omitempty"`
	SubmittedAt time.Time      `json:"submitted_at"`
	YearLevel   string         `gorm:"size:20" json:"year_level,omitempty"`
	Answers     []SurveyAnswer `gorm:"foreignKey:ResponseID" json:"answers"`
}

func (StudentSurveyResponse) TableName() string {
	return "student_survey_responses"
}

func (r StudentSurveyResponse) StudentRef() Ref[Student] {
	return RefOf(r.StudentID, r.Student)
}

// InClass 是否为指定班级的答卷
func (r StudentSurveyResponse) InClass(classID uint) bool {
	return r.ClassID != nil && *r.ClassID == classID
}

type SurveyAnswer struct {
	BaseModel
	ResponseID  uint             `gorm:"index;not null" json:"response_id"`
	QuestionID  uint             `gorm:"index;not null" json:"question_id"`
	Question    *StudentQuestion `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	AnswerValue string           `gorm:"type:text" json:"answer_value"`
}

func (SurveyAnswer) TableName() string {
	return "survey_answers"
}

func (a SurveyAnswer) QuestionRef() Ref[StudentQuestion] {
	if a.Question != nil {
		return PopulatedRef(a.Question)
	}
	return IDRef[StudentQuestion](a.QuestionID)
}
