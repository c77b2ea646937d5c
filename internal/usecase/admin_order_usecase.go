package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/auth"
	"storefront/internal/domain/model"
	"storefront/internal/logger"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	users     repo.UserRepository
	validator OrderValidator
	ids       IDGenerator
	clock     Clock
}

func NewAdminOrderUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	validator OrderValidator,
	ids IDGenerator,
	clock Clock,
) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, users: users, validator: validator, ids: ids, clock: clock}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

// 注文一覧（検索・顧客絞り込みあり）
func (u *AdminOrderUsecase) List(ctx context.Context, actor auth.Identity, q OrderListQuery) (OrderListOutput, error) {
	if err := requireAdmin(actor); err != nil {
		return OrderListOutput{}, err
	}
	return listOrders(ctx, u.tx, u.validator, q)
}

func (u *AdminOrderUsecase) Get(ctx context.Context, actor auth.Identity, orderID string) (OrderOutput, error) {
	if err := requireAdmin(actor); err != nil {
		return OrderOutput{}, err
	}
	if strings.TrimSpace(orderID) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}
		out = toOrderOutput(o)
		return nil
	})
	if err != nil {
		return OrderOutput{}, passOrInternal(ctx, "get order", err)
	}
	return out, nil
}

// 管理画面から注文を作る。合計は明細から計算し直す。
func (u *AdminOrderUsecase) Create(ctx context.Context, actor auth.Identity, in AdminCreateOrderInput) (OrderOutput, error) {
	if err := requireAdmin(actor); err != nil {
		return OrderOutput{}, err
	}
	if err := u.validator.ValidateAdminCreateOrder(ctx, in); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	customer, err := u.users.FindByID(ctx, in.CustomerID)
	if err != nil {
		return OrderOutput{}, internalError(ctx, "find customer", err)
	}
	if customer == nil {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "customer not found")
	}

	draft := orderDraft{
		customerID:    customer.ID,
		customerName:  customer.Name,
		customerEmail: customer.Email,
		total:         SumItems(in.Items),
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

		return u.audit(ctx, r, actor, model.AuditActionCreateOrder, o.ID, nil, statusSnapshot(o))
	})
	if err != nil {
		return OrderOutput{}, passOrInternal(ctx, "admin create order", err)
	}
	return out, nil
}

// ステータス更新。遷移表にない変更は400。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actor auth.Identity, orderID string, in AdminUpdateOrderStatusInput) (OrderOutput, error) {
	if err := requireAdmin(actor); err != nil {
		return OrderOutput{}, err
	}
	next := model.OrderStatus(strings.ToUpper(strings.TrimSpace(in.Status)))
	if !next.Valid() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	return u.changeStatus(ctx, actor, orderID, next, model.AuditActionUpdateOrderStatus)
}

// 論理キャンセル（明細・住所は残す）
func (u *AdminOrderUsecase) Cancel(ctx context.Context, actor auth.Identity, orderID string) (OrderOutput, error) {
	if err := requireAdmin(actor); err != nil {
		return OrderOutput{}, err
	}
	return u.changeStatus(ctx, actor, orderID, model.OrderStatusCancelled, model.AuditActionCancelOrder)
}

// 物理削除（明細・住所もまとめて消す）
func (u *AdminOrderUsecase) Delete(ctx context.Context, actor auth.Identity, orderID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if strings.TrimSpace(orderID) == "" {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}

		if err := r.Orders().Delete(ctx, orderID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return err
		}

		return u.audit(ctx, r, actor, model.AuditActionDeleteOrder, orderID, statusSnapshot(o), nil)
	})
	if err != nil {
		return passOrInternal(ctx, "delete order", err)
	}

	logger.FromCtx(ctx).Warn("order hard deleted",
		zap.String("order_id", orderID),
		zap.Int64("actor_user_id", actor.UserID),
	)
	return nil
}

// 注文ごとの監査ログ
func (u *AdminOrderUsecase) AuditLogs(ctx context.Context, actor auth.Identity, orderID string) ([]AuditLogOutput, error) {
	if err := requireAdmin(actor); err != nil {
		return []AuditLogOutput{}, err
	}

	var outs []AuditLogOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		logs, err := r.AuditLogs().List(ctx, repo.AuditLogFilter{
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			Limit:        200,
		})
		if err != nil {
			return err
		}
		outs = make([]AuditLogOutput, 0, len(logs))
		for _, l := range logs {
			outs = append(outs, AuditLogOutput{
				ID:          l.ID,
				ActorUserID: l.ActorUserID,
				Action:      string(l.Action),
				ResourceID:  l.ResourceID,
				Before:      l.BeforeJSON,
				After:       l.AfterJSON,
				CreatedAt:   l.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return []AuditLogOutput{}, passOrInternal(ctx, "list audit logs", err)
	}
	return outs, nil
}

func (u *AdminOrderUsecase) changeStatus(
	ctx context.Context,
	actor auth.Identity,
	orderID string,
	next model.OrderStatus,
	action model.AuditAction,
) (OrderOutput, error) {
	if strings.TrimSpace(orderID) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := findOrder(ctx, r, orderID)
		if err != nil {
			return err
		}

		// すでに同じなら何もしない（200）
		if o.Status == next {
			out = toOrderOutput(o)
			return nil
		}
		// 終端ガード
		if o.Status.IsTerminal() {
			return NewHTTPError(http.StatusBadRequest, "cannot change "+strings.ToLower(string(o.Status))+" order")
		}
		if !o.Status.CanTransitionTo(next) {
			return NewHTTPError(http.StatusBadRequest, "invalid status transition")
		}

		before := statusSnapshot(o)
		if err := r.Orders().UpdateStatus(ctx, orderID, next); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return err
		}
		o.Status = next

		if err := u.audit(ctx, r, actor, action, orderID, before, statusSnapshot(o)); err != nil {
			return err
		}

		out = toOrderOutput(o)
		return nil
	})
	if err != nil {
		return OrderOutput{}, passOrInternal(ctx, "change order status", err)
	}
	return out, nil
}

func (u *AdminOrderUsecase) audit(
	ctx context.Context,
	r repo.TxRepos,
	actor auth.Identity,
	action model.AuditAction,
	orderID string,
	before interface{},
	after interface{},
) error {
	return r.AuditLogs().Create(ctx, model.AuditLog{
		ActorUserID:  actor.UserID,
		Action:       action,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		BeforeJSON:   toJSON(before),
		AfterJSON:    toJSON(after),
		CreatedAt:    u.clock.Now(),
	})
}

func requireAdmin(actor auth.Identity) error {
	if actor.UserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if !actor.IsAdmin() {
		return NewHTTPError(http.StatusForbidden, "admin only")
	}
	return nil
}

func findOrder(ctx context.Context, r repo.TxRepos, orderID string) (model.Order, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return o, err
}

type orderSnapshot struct {
	Status string `json:"status"`
	Total  string `json:"total"`
	Items  int    `json:"items"`
}

func statusSnapshot(o model.Order) *orderSnapshot {
	return &orderSnapshot{
		Status: string(o.Status),
		Total:  o.Total.StringFixed(2),
		Items:  len(o.Items),
	}
}

func toJSON(v interface{}) string {
	if v == nil {
		return ""
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
