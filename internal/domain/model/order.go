package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// 遷移できる次のステータス（終端は空）
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// 定義済みのステータスか
func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

// DELIVERED / CANCELLED はこれ以上変更できない
func (s OrderStatus) IsTerminal() bool {
	next, ok := orderTransitions[s]
	return ok && len(next) == 0
}

// s から next へ遷移できるか
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, n := range orderTransitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID         string `gorm:"type:varchar(36);primaryKey" json:"id"`
	CustomerID int64  `gorm:"not null;index" json:"customer_id"`

	//注文時点の顧客情報
	CustomerName  string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail string `gorm:"type:varchar(255);not null" json:"customer_email"`

	Total  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	Status OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`

	//チェックアウトのTx内だけnil
	ShippingAddressID *string `gorm:"type:varchar(36);uniqueIndex" json:"shipping_address_id"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Customer        *User            `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ShippingAddress *ShippingAddress `gorm:"foreignKey:ShippingAddressID" json:"shipping_address,omitempty"`
	Items           []OrderItem      `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}
