package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 配送先住所は注文と一緒に作るだけ（更新APIはない）
type ShippingAddressRepository interface {
	Create(ctx context.Context, address *model.ShippingAddress) error
}
