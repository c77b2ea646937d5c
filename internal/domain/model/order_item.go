package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 購入時点のスナップショット。作成後は更新しない。
type OrderItem struct {
	ID      string `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID string `gorm:"type:varchar(36);not null;index" json:"order_id"`
	//リクエスト内の並び順
	LineNo int `gorm:"not null" json:"line_no"`

	//商品への参照のみ（商品が消えても残る）
	ProductID    string          `gorm:"type:varchar(64);not null;index" json:"product_id"`
	ProductTitle string          `gorm:"type:varchar(255);not null" json:"product_title"`
	Quantity     int64           `gorm:"not null" json:"quantity"`
	Price        decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Image        string          `gorm:"type:text;not null" json:"image"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
}

// 小計（単価×数量）
func (it OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(it.Quantity))
}
