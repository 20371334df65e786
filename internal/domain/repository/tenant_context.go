// Package repository 定义数据访问层接口
package repository

import "context"

// TenantContextManager 管理数据库会话的租户上下文。
// 租户标记随事务生效，调用方须在事务内使用。
type TenantContextManager interface {
	// SetTenant 设置当前事务的租户
	SetTenant(ctx context.Context, tenantID string) error
	// ClearTenant 清除当前事务的租户
	ClearTenant(ctx context.Context) error
}
