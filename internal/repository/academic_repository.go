package repository

import (
	"context"

	"survegio_backend/internal/model"

	"gorm.io/gorm"
)

// AcademicRepository 学生、班级、学期、部门等基础数据，只读
type AcademicRepository struct {
	DB *gorm.DB
}

func NewAcademicRepository(db *gorm.DB) *AcademicRepository {
	return &AcademicRepository{DB: db}
}

func (r *AcademicRepository) FetchStudents(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	err := r.DB.WithContext(ctx).
		Preload("Classes").
		Preload("Department.Program").
		Order("id ASC").
		Find(&students).Error
	return students, err
}

func (r *AcademicRepository) FetchEligibleStudents(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.DB.WithContext(ctx).
		Model(&model.ClassStudent{}).
		Joins("JOIN students ON students.id = class_students.student_id AND students.deleted_at IS NULL").
		Distinct().
		Pluck("class_students.student_id", &ids).Error
	return ids, err
}

func (r *AcademicRepository) FetchStudentsInDepartments(ctx context.Context, departmentIDs []uint) ([]uint, error) {
	var ids []uint
	if len(departmentIDs) == 0 {
		return ids, nil
	}
	err := r.DB.WithContext(ctx).
		Model(&model.Student{}).
		Where("department_id IN ?", departmentIDs).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *AcademicRepository) FetchClasses(ctx context.Context, ids []uint) ([]model.Class, error) {
	var classes []model.Class
	query := r.DB.WithContext(ctx).
		Preload("Students").
		Preload("Teacher").
		Preload("Course")
	if len(ids) > 0 {
		query = query.Where("id IN ?", ids)
	}
	err := query.Order("id ASC").Find(&classes).Error
	return classes, err
}

func (r *AcademicRepository) FetchAcademicTerms(ctx context.Context) ([]model.AcademicTerm, error) {
	var terms []model.AcademicTerm
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&terms).Error
	return terms, err
}

func (r *AcademicRepository) FetchSchoolOffices(ctx context.Context) ([]model.SchoolOffice, error) {
	var offices []model.SchoolOffice
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&offices).Error
	return offices, err
}

func (r *AcademicRepository) FetchDepartments(ctx context.Context) ([]model.Department, error) {
	var departments []model.Department
	err := r.DB.WithContext(ctx).Preload("Program").Order("id ASC").Find(&departments).Error
	return departments, err
}
