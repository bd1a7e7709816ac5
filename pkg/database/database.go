package database

import (
	"fmt"

	"survegio_backend/internal/config"
	"survegio_backend/internal/model"
	"survegio_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models 需要迁移的全部表
func Models() []interface{} {
	return []interface{}{
		&model.Program{},
		&model.Department{},
		&model.Student{},
		&model.Teacher{},
		&model.Course{},
		&model.AcademicTerm{},
		&model.SchoolOffice{},
		&model.Class{},
		&model.ClassStudent{},
		&model.StudentEvaluationSurvey{},
		&model.StudentSurveyGroup{},
		&model.StudentQuestion{},
		&model.StudentSurveyResponse{},
		&model.SurveyAnswer{},
		&model.SurveyClass{},
		&model.SurveyStudent{},
		&model.SurveyDepartment{},
	}
}

func DSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)
}

// InitDB release 模式下默认不迁移，除非显式指定 --migrate
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Info
	if cfg.Server.Mode == "release" {
		level = gormlogger.Warn
	}

	db, err := gorm.Open(mysql.Open(DSN(&cfg.Database)), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Database connection established",
		zap.String("host", cfg.Database.Host),
		zap.String("db", cfg.Database.DBName),
	)

	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := db.AutoMigrate(Models()...); err != nil {
			return nil, err
		}
		logger.Log.Info("Database migration completed", zap.Int("tables", len(Models())))
	}

	return db, nil
}
