package model

import "time"

// 配送先住所（1注文につき1件）
type ShippingAddress struct {
	ID      string `gorm:"type:varchar(36);primaryKey" json:"id"`
	OrderID string `gorm:"type:varchar(36);not null;uniqueIndex" json:"order_id"`

	//番地など
	Street string `gorm:"type:varchar(255);not null" json:"street"`
	City   string `gorm:"type:varchar(255);not null" json:"city"`
	State  string `gorm:"type:varchar(100);not null" json:"state"`

	//郵便番号
	ZipCode string `gorm:"type:varchar(20);not null" json:"zip_code"`
	Country string `gorm:"type:varchar(100);not null" json:"country"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
