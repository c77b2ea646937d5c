package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 一覧の並び替えに使える項目（APIのsortBy → カラム）
var OrderSortColumns = map[string]string{
	"createdAt":     "created_at",
	"total":         "total",
	"status":        "status",
	"customerName":  "customer_name",
	"customerEmail": "customer_email",
}

// 注文一覧の絞り込み条件。
// CustomerIDが入っていれば「自分の注文」になる。
type OrderListFilter struct {
	CustomerID *int64
	Status     model.OrderStatus
	Search     string
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

type OrderRepository interface {
	//注文を作成（関連は保存しない）
	Create(ctx context.Context, order *model.Order) error
	//配送先住所を紐づける
	LinkShippingAddress(ctx context.Context, orderID string, addressID string) error

	//明細・住所・顧客をまとめて取得
	FindByID(ctx context.Context, orderID string) (model.Order, error)
	List(ctx context.Context, f OrderListFilter) ([]model.Order, int64, error)

	UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error

	//注文・明細・住所を削除する
	Delete(ctx context.Context, orderID string) error
}
