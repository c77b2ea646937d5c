package repository

import (
	"context"

	repo "storefront/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	orders            repo.OrderRepository
	orderItems        repo.OrderItemRepository
	shippingAddresses repo.ShippingAddressRepository
	auditLogs         repo.AuditLogRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposGorm) ShippingAddresses() repo.ShippingAddressRepository {
	return r.shippingAddresses
}
func (r *txReposGorm) AuditLogs() repo.AuditLogRepository { return r.auditLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがerrorを返したらrollback
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:            NewOrderGormRepository(tx),
			orderItems:        NewOrderItemGormRepository(tx),
			shippingAddresses: NewShippingAddressGormRepository(tx),
			auditLogs:         NewAuditLogGormRepository(tx),
		}
		return fn(r)
	})
}
