// Package entity 定义领域实体
package entity

import (
	"time"
)

// WorldCategory 世界观条目分类
type WorldCategory string

const (
	WorldCategoryGeography  WorldCategory = "geography"
	WorldCategoryMagic      WorldCategory = "magic"
	WorldCategoryTechnology WorldCategory = "technology"
	WorldCategorySociety    WorldCategory = "society"
	WorldCategoryHistory    WorldCategory = "history"
)

// WorldSetting 世界观设定条目
// Constraints 是硬性规则，一致性检查时逐条校验。
type WorldSetting struct {
	ID          string        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID   string        `json:"project_id" gorm:"type:uuid;index;not null"`
	Category    WorldCategory `json:"category" gorm:"type:varchar(50);not null"`
	Name        string        `json:"name" gorm:"type:varchar(255);not null"`
	Detail      string        `json:"detail,omitempty" gorm:"type:text"`
	Constraints StringSlice   `json:"constraints,omitempty" gorm:"type:jsonb"`
	VectorID    string        `json:"vector_id,omitempty" gorm:"type:varchar(255)"`
	CreatedAt   time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (WorldSetting) TableName() string {
	return "world_settings"
}

// NewWorldSetting 创建世界观条目
func NewWorldSetting(projectID string, category WorldCategory, name, detail string) *WorldSetting {
	now := time.Now()
	return &WorldSetting{
		ProjectID:   projectID,
		Category:    category,
		Name:        name,
		Detail:      detail,
		Constraints: StringSlice{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ValidCategory 校验分类合法性
func ValidCategory(c WorldCategory) bool {
	switch c {
	case WorldCategoryGeography, WorldCategoryMagic, WorldCategoryTechnology,
		WorldCategorySociety, WorldCategoryHistory:
		return true
	}
	return false
}
