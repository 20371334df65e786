// Package dto 提供 HTTP 层数据传输对象
package dto

import (
	"time"

	"longnovel-ai/internal/domain/entity"
)

// CharacterResponse 角色响应
type CharacterResponse struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	Aliases       []string                  `json:"aliases,omitempty"`
	Role          string                    `json:"role"`
	Traits        []string                  `json:"traits,omitempty"`
	Motivation    string                    `json:"motivation,omitempty"`
	Background    string                    `json:"background,omitempty"`
	Relationships map[string]string         `json:"relationships,omitempty"`
	Development   []entity.DevelopmentEntry `json:"development,omitempty"`
	Importance    int                       `json:"importance"`
	FirstAppear   int                       `json:"first_appear,omitempty"`
	LastAppear    int                       `json:"last_appear,omitempty"`
	AppearCount   int                       `json:"appear_count"`
	CreatedAt     time.Time                 `json:"created_at"`
}

// WorldSettingResponse 世界观条目响应
type WorldSettingResponse struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Name        string    `json:"name"`
	Detail      string    `json:"detail,omitempty"`
	Constraints []string  `json:"constraints,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// FoundationResponse 设定生成结果
type FoundationResponse struct {
	Characters    []*CharacterResponse    `json:"characters"`
	WorldSettings []*WorldSettingResponse `json:"world_settings"`
}

// UpdateCharacterRequest 更新角色请求，零值字段不更新
type UpdateCharacterRequest struct {
	Aliases       []string          `json:"aliases,omitempty"`
	Traits        []string          `json:"traits,omitempty"`
	Motivation    string            `json:"motivation,omitempty"`
	Background    string            `json:"background,omitempty"`
	Relationships map[string]string `json:"relationships,omitempty"`
	Importance    int               `json:"importance,omitempty"`
}

// UpdateWorldSettingRequest 更新世界观条目请求
type UpdateWorldSettingRequest struct {
	Detail      string   `json:"detail,omitempty"`
	Constraints []string `json:"constraints,omitempty"`
}

// ToCharacterResponse 实体转换为响应
func ToCharacterResponse(ch *entity.Character) *CharacterResponse {
	if ch == nil {
		return nil
	}
	return &CharacterResponse{
		ID:            ch.ID,
		Name:          ch.Name,
		Aliases:       ch.Aliases,
		Role:          string(ch.Role),
		Traits:        ch.Traits,
		Motivation:    ch.Motivation,
		Background:    ch.Background,
		Relationships: ch.Relationships,
		Development:   ch.Development,
		Importance:    ch.Importance,
		FirstAppear:   ch.FirstAppear,
		LastAppear:    ch.LastAppear,
		AppearCount:   ch.AppearCount,
		CreatedAt:     ch.CreatedAt,
	}
}

// ToWorldSettingResponse 实体转换为响应
func ToWorldSettingResponse(w *entity.WorldSetting) *WorldSettingResponse {
	if w == nil {
		return nil
	}
	return &WorldSettingResponse{
		ID:          w.ID,
		Category:    string(w.Category),
		Name:        w.Name,
		Detail:      w.Detail,
		Constraints: w.Constraints,
		CreatedAt:   w.CreatedAt,
	}
}

// ToFoundationResponse 实体集合转换为响应
func ToFoundationResponse(characters []*entity.Character, world []*entity.WorldSetting) *FoundationResponse {
	resp := &FoundationResponse{
		Characters:    make([]*CharacterResponse, 0, len(characters)),
		WorldSettings: make([]*WorldSettingResponse, 0, len(world)),
	}
	for _, ch := range characters {
		resp.Characters = append(resp.Characters, ToCharacterResponse(ch))
	}
	for _, w := range world {
		resp.WorldSettings = append(resp.WorldSettings, ToWorldSettingResponse(w))
	}
	return resp
}
