package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 対象（注文）ごとの監査ログの取り方。新しい順に返す。
type AuditLogFilter struct {
	ResourceType model.AuditResourceType
	ResourceID   string
	Limit        int
	Offset       int
}

type AuditLogRepository interface {
	//同じTxの中で1件保存
	Create(ctx context.Context, log model.AuditLog) error

	List(ctx context.Context, filter AuditLogFilter) ([]model.AuditLog, error)
}
