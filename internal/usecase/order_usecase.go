package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"storefront/internal/auth"
	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// usecaseがValidatorInterfaceに依存する約束
type OrderValidator interface {
	ValidatePlaceOrder(ctx context.Context, in PlaceOrderInput) error
	ValidateAdminCreateOrder(ctx context.Context, in AdminCreateOrderInput) error
	ValidateListQuery(ctx context.Context, q OrderListQuery) error
}

type OrderUsecase struct {
	tx        repo.TransactionManager
	users     repo.UserRepository
	validator OrderValidator
	ids       IDGenerator
	clock     Clock
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	validator OrderValidator,
	ids IDGenerator,
	clock Clock,
) *OrderUsecase {
	return &OrderUsecase{tx: tx, users: users, validator: validator, ids: ids, clock: clock}
}

// チェックアウト。住所・注文・明細を1つのTxで作る。
func (u *OrderUsecase) PlaceOrder(ctx context.Context, id auth.Identity, in PlaceOrderInput) (OrderOutput, error) {
	if id.UserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.validator.ValidatePlaceOrder(ctx, in); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	name, email, err := u.resolveCustomer(ctx, id, in.CustomerInfo)
	if err != nil {
		return OrderOutput{}, err
	}

	//合計はクライアントの値をそのまま使う。ずれていたらログに残す。
	if computed := SumItems(in.Items); !computed.Equal(in.Total) {
		logger.FromCtx(ctx).Warn("checkout total mismatch",
			zap.Int64("customer_id", id.UserID),
			zap.String("submitted", in.Total.StringFixed(2)),
			zap.String("computed", computed.StringFixed(2)),
		)
	}

	draft := orderDraft{
		customerID:    id.UserID,
		customerName:  name,
		customerEmail: email,
		total:         in.Total,
		items:         in.Items,
		address:       in.ShippingAddress,
	}

	var out OrderOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := createOrderTx(ctx, r, u.ids, u.clock, draft)
		if err != nil {
			return err
		}
		out = toOrderOutput(o)
		return nil
	})
	if err != nil {
		return OrderOutput{}, passOrInternal(ctx, "place order", err)
	}

	logger.FromCtx(ctx).Info("order placed",
		zap.String("order_id", out.ID),
		zap.Int64("customer_id", id.UserID),
		zap.Int("items", len(out.Items)),
	)
	return out, nil
}

// 自分の注文一覧
func (u *OrderUsecase) ListMyOrders(ctx context.Context, id auth.Identity, q OrderListQuery) (OrderListOutput, error) {
	if id.UserID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//顧客は検索なし、自分の注文だけ
	q.Search = ""
	q.CustomerID = &id.UserID
	out, err := listOrders(ctx, u.tx, u.validator, q)
	if err != nil {
		return OrderListOutput{}, err
	}
	for i := range out.Orders {
		out.Orders[i].Customer = nil
	}
	return out, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, id auth.Identity, orderID string) (OrderOutput, error) {
	if id.UserID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(orderID) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return err
		}
		if o.CustomerID != id.UserID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		out = toOrderOutput(o)
		out.Customer = nil
		return nil
	})
	if err != nil {
		return OrderOutput{}, passOrInternal(ctx, "get my order", err)
	}
	return out, nil
}

// 名前/メールは リクエスト → トークン → ユーザー行 の順で埋める
func (u *OrderUsecase) resolveCustomer(ctx context.Context, id auth.Identity, info *CustomerInfoInput) (string, string, error) {
	var name, email string
	if info != nil {
		name = strings.TrimSpace(info.Name)
		email = strings.TrimSpace(info.Email)
	}
	if name == "" {
		name = id.Name
	}
	if email == "" {
		email = id.Email
	}
	if name != "" && email != "" {
		return name, email, nil
	}

	user, err := u.users.FindByID(ctx, id.UserID)
	if err != nil {
		return "", "", internalError(ctx, "find customer", err)
	}
	if user != nil {
		if name == "" {
			name = user.Name
		}
		if email == "" {
			email = user.Email
		}
	}
	return name, email, nil
}

type orderDraft struct {
	customerID    int64
	customerName  string
	customerEmail string
	total         decimal.Decimal
	items         []OrderItemInput
	address       ShippingAddressInput
}

// チェックアウトと管理画面の作成で共通のTx手順。
// 注文 → 住所 → 注文へ住所を紐づけ → 明細 → 取り直し。
func createOrderTx(ctx context.Context, r repo.TxRepos, ids IDGenerator, clock Clock, d orderDraft) (model.Order, error) {
	now := clock.Now()
	orderID := ids.NewID()

	order := model.Order{
		ID:            orderID,
		CustomerID:    d.customerID,
		CustomerName:  d.customerName,
		CustomerEmail: d.customerEmail,
		Total:         d.total,
		Status:        model.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := r.Orders().Create(ctx, &order); err != nil {
		return model.Order{}, err
	}

	addr := toShippingAddress(ids.NewID(), orderID, d.address, now)
	if err := r.ShippingAddresses().Create(ctx, &addr); err != nil {
		return model.Order{}, err
	}

	if err := r.Orders().LinkShippingAddress(ctx, orderID, addr.ID); err != nil {
		return model.Order{}, err
	}

	items := make([]model.OrderItem, 0, len(d.items))
	for i, it := range d.items {
		items = append(items, model.OrderItem{
			ID:           ids.NewID(),
			OrderID:      orderID,
			LineNo:       i + 1,
			ProductID:    strings.TrimSpace(it.ProductID),
			ProductTitle: strings.TrimSpace(it.ProductTitle),
			Quantity:     it.Quantity,
			Price:        it.Price,
			Image:        strings.TrimSpace(it.Image),
			CreatedAt:    now,
		})
	}
	if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
		return model.Order{}, err
	}

	return r.Orders().FindByID(ctx, orderID)
}

// 入力の揺れ（address/street、国の省略）をここで確定させる
func toShippingAddress(id string, orderID string, in ShippingAddressInput, now time.Time) model.ShippingAddress {
	street := strings.TrimSpace(in.Street)
	if street == "" {
		street = strings.TrimSpace(in.Address)
	}
	country := strings.TrimSpace(in.Country)
	if country == "" {
		country = DefaultCountry
	}
	return model.ShippingAddress{
		ID:        id,
		OrderID:   orderID,
		Street:    street,
		City:      strings.TrimSpace(in.City),
		State:     strings.TrimSpace(in.State),
		ZipCode:   strings.TrimSpace(in.ZipCode),
		Country:   country,
		CreatedAt: now,
	}
}

func listOrders(ctx context.Context, tx repo.TransactionManager, v OrderValidator, q OrderListQuery) (OrderListOutput, error) {
	if err := v.ValidateListQuery(ctx, q); err != nil {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	f := repo.OrderListFilter{
		CustomerID: q.CustomerID,
		Status:     model.OrderStatus(q.Status),
		Search:     q.Search,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
		Page:       q.Page,
		Limit:      q.Limit,
	}

	var out OrderListOutput
	err := tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().List(ctx, f)
		if err != nil {
			return err
		}
		out = OrderListOutput{
			Orders:     toOrderOutputs(orders),
			Pagination: NewPagination(total, q.Page, q.Limit),
		}
		return nil
	})
	if err != nil {
		return OrderListOutput{}, passOrInternal(ctx, "list orders", err)
	}
	return out, nil
}
