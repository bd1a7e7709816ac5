package model

import (
	"strings"
	"time"
)

type Program struct {
	BaseModel
	ProgramCode string `gorm:"size:50;index" json:"programCode"`
	ProgramName string `gorm:"size:255" json:"programName"`
}

func (Program) TableName() string {
	return "programs"
}

func (p Program) RefID() uint { return p.ID }

type Department struct {
	BaseModel
	ProgramID *uint    `gorm:"index" json:"program_id"`
	Program   *Program `gorm:"foreignKey:ProgramID" json:"name,omitempty"`
}

func (Department) TableName() string {
	return "departments"
}

func (d Department) RefID() uint { return d.ID }

// ProgramName 院系对应的专业名称，未加载时为空
func (d Department) ProgramName() string {
	if d.Program == nil {
		return ""
	}
	return d.Program.ProgramName
}

type Student struct {
	BaseModel
	StudentNumber string         `gorm:"size:50;uniqueIndex" json:"student_number"`
	FirstName     string         `gorm:"size:100" json:"first_name"`
	MiddleName    string         `gorm:"size:100" json:"middle_name"`
	LastName      string         `gorm:"size:100" json:"last_name"`
	Email         string         `gorm:"size:255" json:"email"`
	Gender        string         `gorm:"size:1" json:"gender"`
	DepartmentID  *uint          `gorm:"index" json:"department_id"`
	Department    *Department    `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	YearLevel     string         `gorm:"size:20" json:"year_level"`
	IsActive      string         `gorm:"size:20;default:'Active'" json:"is_active"`
	Classes       []ClassStudent `gorm:"foreignKey:StudentID" json:"class_id,omitempty"`
}

func (Student) TableName() string {
	return "students"
}

func (s Student) RefID() uint { return s.ID }

func (s Student) FullName() string {
	return joinName(s.FirstName, s.MiddleName, s.LastName)
}

type Teacher struct {
	BaseModel
	FirstName  string `gorm:"size:100" json:"first_name"`
	MiddleName string `gorm:"size:100" json:"middle_name"`
	LastName   string `gorm:"size:100" json:"last_name"`
	Position   string `gorm:"size:50" json:"position"`
	Gender     string `gorm:"size:1" json:"gender"`
	Email      string `gorm:"size:255" json:"email"`
	IsActive   string `gorm:"size:20;default:'Active'" json:"is_active"`
}

func (Teacher) TableName() string {
	return "teachers"
}

func (t Teacher) RefID() uint { return t.ID }

func (t Teacher) FullName() string {
	return joinName(t.FirstName, t.MiddleName, t.LastName)
}

type Course struct {
	BaseModel
	CourseCode string `gorm:"size:50;index" json:"courseCode"`
	CourseName string `gorm:"size:255" json:"courseName"`
}

func (Course) TableName() string {
	return "courses"
}

func (c Course) RefID() uint { return c.ID }

type AcademicTerm struct {
	BaseModel
	SchoolYear string     `gorm:"size:20" json:"schoolYear"`
	Semester   string     `gorm:"size:50" json:"semester"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	Status     string     `gorm:"size:20;default:'Draft'" json:"status"` // Active, Draft, Archived
}

func (AcademicTerm) TableName() string {
	return "academic_terms"
}

func (t AcademicTerm) RefID() uint { return t.ID }

type SchoolOffice struct {
	BaseModel
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsActive    bool   `gorm:"default:true" json:"is_active"`
}

func (SchoolOffice) TableName() string {
	return "school_offices"
}

func (o SchoolOffice) RefID() uint { return o.ID }

type Class struct {
	BaseModel
	Section        string         `gorm:"size:50" json:"section"`
	CourseID       *uint          `gorm:"index" json:"course_id"`
	Course         *Course        `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	TeacherID      *uint          `gorm:"index" json:"teacher_id"`
	Teacher        *Teacher       `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	AcademicTermID *uint          `gorm:"index" json:"acadTerm_id"`
	Students       []ClassStudent `gorm:"foreignKey:ClassID" json:"student_id,omitempty"`
}

func (Class) TableName() string {
	return "classes"
}

func (c Class) RefID() uint { return c.ID }

func (c Class) TeacherRef() Ref[Teacher] {
	return RefOf(c.TeacherID, c.Teacher)
}

func (c Class) CourseRef() Ref[Course] {
	return RefOf(c.CourseID, c.Course)
}

// StudentIDs 班级内去重后的学生 ID，保持首次出现的顺序
func (c Class) StudentIDs() []uint {
	seen := make(map[uint]struct{}, len(c.Students))
	ids := make([]uint, 0, len(c.Students))
	for _, cs := range c.Students {
		if cs.StudentID == 0 {
			continue
		}
		if _, ok := seen[cs.StudentID]; ok {
			continue
		}
		seen[cs.StudentID] = struct{}{}
		ids = append(ids, cs.StudentID)
	}
	return ids
}

// ClassStudent 班级选课关联
type ClassStudent struct {
	JunctionModel
	ClassID   uint `gorm:"index;not null" json:"classes_id"`
	StudentID uint `gorm:"index;not null" json:"students_id"`
}

func (ClassStudent) TableName() string {
	return "class_students"
}

func joinName(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
