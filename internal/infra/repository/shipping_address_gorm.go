package repository

import (
	"context"

	"storefront/internal/domain/model"

	"gorm.io/gorm"
)

type ShippingAddressGormRepository struct {
	db *gorm.DB
}

func NewShippingAddressGormRepository(db *gorm.DB) *ShippingAddressGormRepository {
	return &ShippingAddressGormRepository{db: db}
}

// 住所を作成
func (r *ShippingAddressGormRepository) Create(ctx context.Context, address *model.ShippingAddress) error {
	if err := r.db.WithContext(ctx).Create(address).Error; err != nil {
		return translateError("create shipping address", err)
	}
	return nil
}
