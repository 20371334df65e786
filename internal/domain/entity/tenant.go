// Package entity 定义领域实体
package entity

import (
	"time"
)

// TenantStatus 租户状态
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
	TenantStatusDeleted   TenantStatus = "deleted"
)

// TenantQuota 租户配额，零值或缺省字段表示不限制
type TenantQuota struct {
	MaxProjects           int   `json:"max_projects"`
	MaxChaptersPerProject int   `json:"max_chapters_per_project"`
	MaxTokensPerDay       int64 `json:"max_tokens_per_day"`
}

// DefaultTenantQuota 新建租户的初始配额。
// 日 Token 上限按单章约 8k token、日更 50 章估算。
func DefaultTenantQuota() *TenantQuota {
	return &TenantQuota{
		MaxProjects:           50,
		MaxChaptersPerProject: 2000,
		MaxTokensPerDay:       400000,
	}
}

// TenantSettings 租户设置
type TenantSettings struct {
	DefaultModel    string `json:"default_model,omitempty"`
	DefaultLanguage string `json:"default_language,omitempty"`
}

// Tenant 租户实体
type Tenant struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Slug      string          `json:"slug"`
	Settings  *TenantSettings `json:"settings,omitempty"`
	Quota     *TenantQuota    `json:"quota,omitempty"`
	Status    TenantStatus    `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewTenant 创建新租户
func NewTenant(name, slug string) *Tenant {
	now := time.Now()
	return &Tenant{
		Name:      name,
		Slug:      slug,
		Status:    TenantStatusActive,
		Quota:     DefaultTenantQuota(),
		Settings:  &TenantSettings{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsActive 检查租户是否活跃
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}
