package repository

import (
	"context"

	"storeorders/internal/domain/model"
)

// 監査ログの絞り込み（nilは条件なし）
type AuditLogFilter struct {
	ResourceType *model.AuditResourceType
	ResourceID   *int64
	ActorUserID  *int64
	// 0なら既定件数
	Limit int
}

// 管理操作（ステータス・支払い変更、顧客インポート）の記録
type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	// 新しい順
	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
