package handler

import (
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	ProductID    string          `json:"productId"`
	ProductTitle string          `json:"productTitle"`
	Quantity     int64           `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	Image        string          `json:"image"`
}

type ShippingAddressRequest struct {
	Street  string `json:"street"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type CustomerInfoRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrderCreateRequest struct {
	Items           []OrderItemRequest     `json:"items"`
	Total           decimal.Decimal        `json:"total"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
	CustomerInfo    *CustomerInfoRequest   `json:"customerInfo"`
}

type AdminOrderCreateRequest struct {
	CustomerID      int64                  `json:"customerId"`
	Items           []OrderItemRequest     `json:"items"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress"`
}

type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

func (r OrderCreateRequest) toInput() usecase.PlaceOrderInput {
	in := usecase.PlaceOrderInput{
		Items:           toItemInputs(r.Items),
		Total:           r.Total,
		ShippingAddress: r.ShippingAddress.toInput(),
	}
	if r.CustomerInfo != nil {
		in.CustomerInfo = &usecase.CustomerInfoInput{
			Name:  r.CustomerInfo.Name,
			Email: r.CustomerInfo.Email,
		}
	}
	return in
}

func (r AdminOrderCreateRequest) toInput() usecase.AdminCreateOrderInput {
	return usecase.AdminCreateOrderInput{
		CustomerID:      r.CustomerID,
		Items:           toItemInputs(r.Items),
		ShippingAddress: r.ShippingAddress.toInput(),
	}
}

func (r ShippingAddressRequest) toInput() usecase.ShippingAddressInput {
	return usecase.ShippingAddressInput{
		Street:  r.Street,
		Address: r.Address,
		City:    r.City,
		State:   r.State,
		ZipCode: r.ZipCode,
		Country: r.Country,
	}
}

func toItemInputs(items []OrderItemRequest) []usecase.OrderItemInput {
	out := make([]usecase.OrderItemInput, 0, len(items))
	for _, it := range items {
		out = append(out, usecase.OrderItemInput{
			ProductID:    it.ProductID,
			ProductTitle: it.ProductTitle,
			Quantity:     it.Quantity,
			Price:        it.Price,
			Image:        it.Image,
		})
	}
	return out
}
