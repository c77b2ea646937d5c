package usecase

import (
	"time"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 未指定時の国
const DefaultCountry = "United States"

type OrderItemInput struct {
	ProductID    string
	ProductTitle string
	Quantity     int64
	Price        decimal.Decimal
	Image        string
}

// Street が空なら Address を使う（フロントは address で送ってくる）
type ShippingAddressInput struct {
	Street  string
	Address string
	City    string
	State   string
	ZipCode string
	Country string
}

type CustomerInfoInput struct {
	Name  string
	Email string
}

type PlaceOrderInput struct {
	Items           []OrderItemInput
	Total           decimal.Decimal
	ShippingAddress ShippingAddressInput
	CustomerInfo    *CustomerInfoInput
}

// 管理画面からの注文作成。合計はサーバーで計算する。
type AdminCreateOrderInput struct {
	CustomerID      int64
	Items           []OrderItemInput
	ShippingAddress ShippingAddressInput
}

// 一覧のクエリ（handlerで文字列から詰める）
type OrderListQuery struct {
	Status     string
	Search     string
	CustomerID *int64
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

type OrderItemOutput struct {
	ID           string          `json:"id"`
	ProductID    string          `json:"productId"`
	ProductTitle string          `json:"productTitle"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
}

type ShippingAddressOutput struct {
	ID      string `json:"id"`
	OrderID string `json:"orderId"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type CustomerOutput struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderOutput struct {
	ID                string                 `json:"id"`
	CustomerID        int64                  `json:"customerId"`
	CustomerName      string                 `json:"customerName"`
	CustomerEmail     string                 `json:"customerEmail"`
	Total             decimal.Decimal        `json:"total"`
	Status            string                 `json:"status"`
	ShippingAddressID string                 `json:"shippingAddressId"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
	Customer          *CustomerOutput        `json:"customer,omitempty"`
	ShippingAddress   *ShippingAddressOutput `json:"shippingAddress"`
	Items             []OrderItemOutput      `json:"items"`
}

// 201で返す最小限の形
type OrderSummary struct {
	ID        string          `json:"id"`
	Total     decimal.Decimal `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

func (o OrderOutput) Summary() OrderSummary {
	return OrderSummary{ID: o.ID, Total: o.Total, Status: o.Status, CreatedAt: o.CreatedAt}
}

type Pagination struct {
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"currentPage"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

type OrderListOutput struct {
	Orders     []OrderOutput `json:"orders"`
	Pagination Pagination    `json:"pagination"`
}

type AuditLogOutput struct {
	ID          int64     `json:"id"`
	ActorUserID int64     `json:"actorUserId"`
	Action      string    `json:"action"`
	ResourceID  string    `json:"resourceId"`
	Before      string    `json:"before"`
	After       string    `json:"after"`
	CreatedAt   time.Time `json:"createdAt"`
}

// pages = ceil(total/limit)
func NewPagination(total int64, page int, limit int) Pagination {
	pages := 0
	if limit > 0 {
		pages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Total:       total,
		Pages:       pages,
		CurrentPage: page,
		HasNext:     page < pages,
		HasPrev:     page > 1,
	}
}

// Σ 単価×数量
func SumItems(items []OrderItemInput) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}

func toOrderOutput(o model.Order) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(o.Items))
	for _, it := range o.Items {
		outItems = append(outItems, OrderItemOutput{
			ID:           it.ID,
			ProductID:    it.ProductID,
			ProductTitle: it.ProductTitle,
			Quantity:     it.Quantity,
			Price:        it.Price,
			Image:        it.Image,
		})
	}

	out := OrderOutput{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Total:         o.Total,
		Status:        string(o.Status),
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		Items:         outItems,
	}
	if o.ShippingAddressID != nil {
		out.ShippingAddressID = *o.ShippingAddressID
	}
	if a := o.ShippingAddress; a != nil {
		out.ShippingAddress = &ShippingAddressOutput{
			ID:      a.ID,
			OrderID: a.OrderID,
			Street:  a.Street,
			City:    a.City,
			State:   a.State,
			ZipCode: a.ZipCode,
			Country: a.Country,
		}
	}
	if u := o.Customer; u != nil {
		out.Customer = &CustomerOutput{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return out
}

func toOrderOutputs(orders []model.Order) []OrderOutput {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		outs = append(outs, toOrderOutput(o))
	}
	return outs
}
