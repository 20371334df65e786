package handler

import (
	"context"
	"fmt"

	"longnovel-ai/internal/application/quota"
	"longnovel-ai/internal/domain/entity"
	"longnovel-ai/internal/domain/repository"
	"longnovel-ai/internal/interfaces/http/dto"
	apperrors "longnovel-ai/pkg/errors"
	"longnovel-ai/pkg/logger"

	"github.com/gin-gonic/gin"
)

// precheckQuota 生成前检查租户当日 Token 配额是否已耗尽
func precheckQuota(ctx context.Context, quotaChecker *quota.TokenQuotaChecker, tenant *entity.Tenant) error {
	if quotaChecker == nil || tenant == nil {
		return nil
	}
	_, _, err := quotaChecker.CheckDailyTokens(ctx, tenant.ID, tenant.Quota)
	return err
}

// withTenantTx 在租户事务中执行
func withTenantTx(ctx context.Context, txMgr repository.Transactor, tenantCtx repository.TenantContextManager, tenantID string, fn func(context.Context) error) error {
	if txMgr == nil || tenantCtx == nil {
		return fmt.Errorf("transaction dependencies not configured")
	}
	return txMgr.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := tenantCtx.SetTenant(txCtx, tenantID); err != nil {
			return err
		}
		return fn(txCtx)
	})
}

// respondError 将应用错误映射为 HTTP 响应
func respondError(c *gin.Context, err error, fallback string) {
	if apperrors.IsAppError(err) {
		appErr := apperrors.AsAppError(err)
		dto.ErrorWithDetail(c, appErr.HTTPStatus, appErr.Message, &dto.ErrorDetail{
			ErrorCode: string(appErr.Code),
			Details:   appErr.Detail,
		})
		return
	}
	logger.Error(c.Request.Context(), fallback, err)
	dto.InternalError(c, fallback)
}
