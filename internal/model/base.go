package model

import (
	"time"

	"gorm.io/gorm"
)

// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"date_created"`
	UpdatedAt time.Time      `json:"date_updated"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// JunctionModel 多对多关联记录，只有 ID 没有审计字段
type JunctionModel struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`
}
