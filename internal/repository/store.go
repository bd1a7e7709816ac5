package repository

import "gorm.io/gorm"

// Store 组合问卷与基础数据仓库，作为评估服务的数据源
type Store struct {
	*SurveyRepository
	*AcademicRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		SurveyRepository:   NewSurveyRepository(db),
		AcademicRepository: NewAcademicRepository(db),
	}
}
