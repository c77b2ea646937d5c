package validator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storefront/internal/domain/model"
	"storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
)

var (
	ErrItemsRequired    = errors.New("items are required")
	ErrInvalidTotal     = errors.New("total must be greater than 0")
	ErrAddressRequired  = errors.New("shipping address street and city are required")
	ErrProductID        = errors.New("productId is required")
	ErrProductTitle     = errors.New("productTitle is required")
	ErrImage            = errors.New("image is required")
	ErrQuantity         = errors.New("quantity must be at least 1")
	ErrPrice            = errors.New("price must be greater than 0")
	ErrPricePrecision   = errors.New("price must have at most 2 decimal places")
	ErrPriceTooLarge    = errors.New("price is too large")
	ErrTotalPrecision   = errors.New("total must have at most 2 decimal places")
	ErrTotalTooLarge    = errors.New("total is too large")
	ErrInvalidCustomer  = errors.New("invalid customerId")
	ErrInvalidStatus    = errors.New("invalid status")
	ErrInvalidSortBy    = errors.New("invalid sortBy")
	ErrInvalidSortOrder = errors.New("invalid sortOrder")
	ErrInvalidPage      = errors.New("invalid page")
	ErrInvalidLimit     = errors.New("invalid limit")
)

// 1ページの上限
const MaxLimit = 100

// numeric(12,2)に収まる上限（これ未満）
var maxAmount = decimal.New(1, 10)

type orderValidator struct{}

// Usecaseは interface を依存注入
func NewOrderValidator() usecase.OrderValidator {
	return &orderValidator{}
}

// チェックアウトの入力を検証（Txの前に呼ぶ）
func (v *orderValidator) ValidatePlaceOrder(ctx context.Context, in usecase.PlaceOrderInput) error {
	if err := validateItems(in.Items); err != nil {
		return err
	}
	switch {
	case !in.Total.IsPositive():
		return ErrInvalidTotal
	case !hasCents(in.Total):
		return ErrTotalPrecision
	case in.Total.GreaterThanOrEqual(maxAmount):
		return ErrTotalTooLarge
	}
	return validateAddress(in.ShippingAddress)
}

func (v *orderValidator) ValidateAdminCreateOrder(ctx context.Context, in usecase.AdminCreateOrderInput) error {
	if in.CustomerID <= 0 {
		return ErrInvalidCustomer
	}
	if err := validateItems(in.Items); err != nil {
		return err
	}
	//合計はサーバーで出すので桁あふれだけ見る
	if usecase.SumItems(in.Items).GreaterThanOrEqual(maxAmount) {
		return ErrTotalTooLarge
	}
	return validateAddress(in.ShippingAddress)
}

func (v *orderValidator) ValidateListQuery(ctx context.Context, q usecase.OrderListQuery) error {
	if q.Status != "" && !model.OrderStatus(q.Status).Valid() {
		return ErrInvalidStatus
	}
	if q.SortBy != "" {
		if _, ok := repository.OrderSortColumns[q.SortBy]; !ok {
			return ErrInvalidSortBy
		}
	}
	switch strings.ToLower(q.SortOrder) {
	case "", "asc", "desc":
	default:
		return ErrInvalidSortOrder
	}
	if q.Page < 1 {
		return ErrInvalidPage
	}
	if q.Limit < 1 || q.Limit > MaxLimit {
		return ErrInvalidLimit
	}
	return nil
}

func validateItems(items []usecase.OrderItemInput) error {
	if len(items) == 0 {
		return ErrItemsRequired
	}

	for i, it := range items {
		var err error
		switch {
		case strings.TrimSpace(it.ProductID) == "":
			err = ErrProductID
		case strings.TrimSpace(it.ProductTitle) == "":
			err = ErrProductTitle
		case strings.TrimSpace(it.Image) == "":
			err = ErrImage
		case it.Quantity < 1:
			err = ErrQuantity
		case !it.Price.IsPositive():
			err = ErrPrice
		case !hasCents(it.Price):
			err = ErrPricePrecision
		case it.Price.GreaterThanOrEqual(maxAmount):
			err = ErrPriceTooLarge
		}
		if err != nil {
			return fmt.Errorf("items[%d]: %w", i, err)
		}
	}
	return nil
}

// DBで丸められないよう小数は2桁まで
func hasCents(d decimal.Decimal) bool {
	return d.Equal(d.Round(2))
}

// street（またはaddress）とcityは必須
func validateAddress(a usecase.ShippingAddressInput) error {
	street := strings.TrimSpace(a.Street)
	if street == "" {
		street = strings.TrimSpace(a.Address)
	}
	if street == "" || strings.TrimSpace(a.City) == "" {
		return ErrAddressRequired
	}
	return nil
}
