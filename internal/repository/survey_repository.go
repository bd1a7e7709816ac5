package repository

import (
	"context"
	"errors"
	"fmt"

	"survegio_backend/internal/model"
	"survegio_backend/internal/util"

	"gorm.io/gorm"
)

type SurveyRepository struct {
	DB *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{DB: db}
}

// relationTable 关系名 -> 关联表与成员列
type relationTable struct {
	value  interface{}
	table  string
	member string
	rows   func(surveyID uint, memberIDs []uint) interface{}
}

var relationTables = map[string]relationTable{
	model.RelationClasses: {
		value:  &model.SurveyClass{},
		table:  model.SurveyClass{}.TableName(),
		member: "class_id",
		rows: func(surveyID uint, ids []uint) interface{} {
			rows := make([]model.SurveyClass, len(ids))
			for i, id := range ids {
				rows[i] = model.SurveyClass{SurveyID: surveyID, ClassID: id}
			}
			return &rows
		},
	},
	model.RelationStudents: {
		value:  &model.SurveyStudent{},
		table:  model.SurveyStudent{}.TableName(),
		member: "student_id",
		rows: func(surveyID uint, ids []uint) interface{} {
			rows := make([]model.SurveyStudent, len(ids))
			for i, id := range ids {
				rows[i] = model.SurveyStudent{SurveyID: surveyID, StudentID: id}
			}
			return &rows
		},
	},
	model.RelationDepartments: {
		value:  &model.SurveyDepartment{},
		table:  model.SurveyDepartment{}.TableName(),
		member: "department_id",
		rows: func(surveyID uint, ids []uint) interface{} {
			rows := make([]model.SurveyDepartment, len(ids))
			for i, id := range ids {
				rows[i] = model.SurveyDepartment{SurveyID: surveyID, DepartmentID: id}
			}
			return &rows
		},
	},
}

func lookupRelation(relation string) (relationTable, error) {
	rt, ok := relationTables[relation]
	if !ok {
		return relationTable{}, fmt.Errorf("%w: %s", util.ErrInvalidRelation, relation)
	}
	return rt, nil
}

func (r *SurveyRepository) FetchSurveyConfig(ctx context.Context, surveyID uint) (*model.StudentEvaluationSurvey, error) {
	var survey model.StudentEvaluationSurvey
	err := r.DB.WithContext(ctx).
		Preload("AcademicTerm").
		Preload("Office").
		Preload("QuestionGroups", func(db *gorm.DB) *gorm.DB {
			return db.Order("number ASC, id ASC")
		}).
		Preload("QuestionGroups.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort ASC, id ASC")
		}).
		First(&survey, surveyID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSurveyNotFound
	}
	if err != nil {
		return nil, err
	}
	return &survey, nil
}

func updateSettings(tx *gorm.DB, surveyID uint, settings model.SurveySettings) error {
	updates := map[string]interface{}{
		"title":              settings.Title,
		"instruction":        settings.Instruction,
		"survey_start":       settings.SurveyStart,
		"survey_end":         settings.SurveyEnd,
		"academic_term_id":   settings.AcademicTermID,
		"evaluation_type":    settings.EvaluationType,
		"office_id":          settings.OfficeID,
		"assignment_mode":    settings.AssignmentMode,
		"student_percentage": settings.StudentPercentage,
	}
	if settings.Status != "" {
		updates["status"] = settings.Status
	}
	return tx.Model(&model.StudentEvaluationSurvey{}).
		Where("id = ?", surveyID).
		Updates(updates).Error
}

func (r *SurveyRepository) FetchAssignmentMapping(ctx context.Context, surveyID uint, relation string) ([]model.AssignmentEntry, error) {
	rt, err := lookupRelation(relation)
	if err != nil {
		return nil, err
	}
	var entries []model.AssignmentEntry
	err = r.DB.WithContext(ctx).
		Table(rt.table).
		Select("id AS junction_id, "+rt.member+" AS member_id").
		Where("survey_id = ?", surveyID).
		Order("id ASC").
		Scan(&entries).Error
	return entries, err
}

// SaveSurvey 在一个事务中更新问卷设置并替换关联：
// 未出现在 Entries 中的旧记录删除，JunctionID 为 0 的新建
func (r *SurveyRepository) SaveSurvey(ctx context.Context, surveyID uint, settings model.SurveySettings, writes ...model.AssignmentWrite) error {
	for _, w := range writes {
		if _, err := lookupRelation(w.Relation); err != nil {
			return err
		}
	}

	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateSettings(tx, surveyID, settings); err != nil {
			return fmt.Errorf("update settings: %w", err)
		}
		for _, w := range writes {
			if err := replaceAssignments(tx, surveyID, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func replaceAssignments(tx *gorm.DB, surveyID uint, w model.AssignmentWrite) error {
	rt := relationTables[w.Relation]

	var keep, create []uint
	for _, e := range w.Entries {
		if e.JunctionID != 0 {
			keep = append(keep, e.JunctionID)
		} else if e.MemberID != 0 {
			create = append(create, e.MemberID)
		}
	}

	del := tx.Where("survey_id = ?", surveyID)
	if len(keep) > 0 {
		del = del.Where("id NOT IN ?", keep)
	}
	if err := del.Delete(rt.value).Error; err != nil {
		return fmt.Errorf("delete %s: %w", w.Relation, err)
	}

	if len(create) > 0 {
		if err := tx.CreateInBatches(rt.rows(surveyID, create), 500).Error; err != nil {
			return fmt.Errorf("insert %s: %w", w.Relation, err)
		}
	}
	return nil
}

func (r *SurveyRepository) FetchResponses(ctx context.Context, surveyID uint) ([]model.StudentSurveyResponse, error) {
	var responses []model.StudentSurveyResponse
	err := r.DB.WithContext(ctx).
		Preload("Answers").
		Preload("Student.Department.Program").
		Where("survey_id = ?", surveyID).
		Order("submitted_at ASC, id ASC").
		Find(&responses).Error
	return responses, err
}
