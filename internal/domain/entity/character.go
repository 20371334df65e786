// Package entity 定义领域实体
package entity

import (
	"time"
)

// CharacterRole 角色定位
type CharacterRole string

const (
	RoleProtagonist CharacterRole = "protagonist"
	RoleAntagonist  CharacterRole = "antagonist"
	RoleSupporting  CharacterRole = "supporting"
)

const (
	// CharacterImportanceMin 角色重要性下限
	CharacterImportanceMin = 1
	// CharacterImportanceMax 角色重要性上限
	CharacterImportanceMax = 10
)

// DevelopmentEntry 角色成长记录
type DevelopmentEntry struct {
	ChapterNum int    `json:"chapter_num"`
	Change     string `json:"change"`
}

// Character 角色实体
type Character struct {
	ID            string             `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProjectID     string             `json:"project_id" gorm:"type:uuid;index;not null"`
	Name          string             `json:"name" gorm:"type:varchar(255);not null"`
	Aliases       StringSlice        `json:"aliases,omitempty" gorm:"type:jsonb"`
	Role          CharacterRole      `json:"role" gorm:"type:varchar(50);default:'supporting'"`
	Traits        StringSlice        `json:"traits,omitempty" gorm:"type:jsonb"`
	Motivation    string             `json:"motivation,omitempty" gorm:"type:text"`
	Background    string             `json:"background,omitempty" gorm:"type:text"`
	Relationships map[string]string  `json:"relationships,omitempty" gorm:"type:jsonb;serializer:json"`
	Development   []DevelopmentEntry `json:"development,omitempty" gorm:"type:jsonb;serializer:json"`
	Importance    int                `json:"importance" gorm:"default:5"`
	FirstAppear   int                `json:"first_appear" gorm:"default:0"`
	LastAppear    int                `json:"last_appear" gorm:"default:0"`
	AppearCount   int                `json:"appear_count" gorm:"default:0"`
	VectorID      string             `json:"vector_id,omitempty" gorm:"type:varchar(255)"`
	CreatedAt     time.Time          `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time          `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (Character) TableName() string {
	return "characters"
}

// NewCharacter 创建新角色
func NewCharacter(projectID, name string, role CharacterRole, importance int) *Character {
	if role == "" {
		role = RoleSupporting
	}
	importance = ClampImportance(importance)
	now := time.Now()
	return &Character{
		ProjectID:     projectID,
		Name:          name,
		Role:          role,
		Aliases:       StringSlice{},
		Traits:        StringSlice{},
		Relationships: make(map[string]string),
		Importance:    importance,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ClampImportance 将重要性收敛到合法区间
func ClampImportance(v int) int {
	if v < CharacterImportanceMin {
		return CharacterImportanceMax / 2
	}
	if v > CharacterImportanceMax {
		return CharacterImportanceMax
	}
	return v
}

// RecordAppearance 记录角色在某章出场
func (c *Character) RecordAppearance(chapterNum int) {
	if c.FirstAppear == 0 || chapterNum < c.FirstAppear {
		c.FirstAppear = chapterNum
	}
	if chapterNum > c.LastAppear {
		c.LastAppear = chapterNum
	}
	c.AppearCount++
	c.UpdatedAt = time.Now()
}

// AddDevelopment 追加角色成长记录
func (c *Character) AddDevelopment(chapterNum int, change string) {
	if change == "" {
		return
	}
	c.Development = append(c.Development, DevelopmentEntry{ChapterNum: chapterNum, Change: change})
	c.UpdatedAt = time.Now()
}

// IsProtagonist 是否主角
func (c *Character) IsProtagonist() bool {
	return c.Role == RoleProtagonist
}
