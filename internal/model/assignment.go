package model

const (
	RelationClasses     = "classes"
	RelationStudents    = "students"
	RelationDepartments = "departments"
)

// AssignmentEntry 统一后的关联记录：JunctionID 为 0 表示待新建
type AssignmentEntry struct {
	JunctionID uint `json:"id,omitempty"`
	MemberID   uint `json:"member_id"`
}

// AssignmentWrite 一次关系整体替换写入
type AssignmentWrite struct {
	Relation string
	Entries  []AssignmentEntry
}

type SurveyClass struct {
	JunctionModel
	SurveyID uint `gorm:"index;not null" json:"survey_id"`
	ClassID  uint `gorm:"index;not null" json:"classes_id"`
}

func (SurveyClass) TableName() string {
	return "survey_classes"
}

type SurveyStudent struct {
	JunctionModel
	SurveyID  uint `gorm:"index;not null" json:"survey_id"`
	StudentID uint `gorm:"index;not null" json:"students_id"`
}

func (SurveyStudent) TableName() string {
	return "survey_students"
}

type SurveyDepartment struct {
	JunctionModel
	SurveyID     uint `gorm:"index;not null" json:"survey_id"`
	DepartmentID uint `gorm:"index;not null" json:"department_id"`
}

func (SurveyDepartment) TableName() string {
	return "survey_departments"
}
