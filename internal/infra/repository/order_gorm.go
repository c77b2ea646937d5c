package repository

import (
	"context"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	defaultOrderLimit = 10
	maxOrderLimit     = 100
)

// LIKEのワイルドカードをエスケープ
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

// 注文の行だけ作る（住所・明細は別リポジトリ）
func (r *OrderGormRepository) Create(ctx context.Context, order *model.Order) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error; err != nil {
		return translateError("create order", err)
	}
	return nil
}

func (r *OrderGormRepository) LinkShippingAddress(ctx context.Context, orderID string, addressID string) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("shipping_address_id", addressID)

	if res.Error != nil {
		return translateError("link shipping address", res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID string) (model.Order, error) {
	var o model.Order
	err := withOrderRelations(r.db.WithContext(ctx)).
		Where("id = ?", orderID).
		First(&o).Error
	if err != nil {
		return model.Order{}, translateError("find order", err)
	}
	return o, nil
}

func (r *OrderGormRepository) List(ctx context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > maxOrderLimit {
		f.Limit = defaultOrderLimit
	}

	var total int64
	if err := applyOrderFilter(r.db.WithContext(ctx).Model(&model.Order{}), f).
		Count(&total).Error; err != nil {
		return []model.Order{}, 0, translateError("count orders", err)
	}

	var items []model.Order
	offset := (f.Page - 1) * f.Limit
	err := withOrderRelations(applyOrderFilter(r.db.WithContext(ctx), f)).
		Order(orderByClause(f.SortBy, f.SortOrder)).
		Order("id desc").
		Limit(f.Limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, 0, translateError("list orders", err)
	}

	return items, total, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return translateError("update order status", res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細→住所→注文の順で消す。Tx内で呼ぶこと。
func (r *OrderGormRepository) Delete(ctx context.Context, orderID string) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error; err != nil {
		return translateError("delete order items", err)
	}
	if err := db.Where("order_id = ?", orderID).Delete(&model.ShippingAddress{}).Error; err != nil {
		return translateError("delete shipping address", err)
	}

	res := db.Where("id = ?", orderID).Delete(&model.Order{})
	if res.Error != nil {
		return translateError("delete order", res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func withOrderRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer").
		Preload("ShippingAddress").
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("line_no asc")
		})
}

func applyOrderFilter(q *gorm.DB, f repo.OrderListFilter) *gorm.DB {
	//自分の注文
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}

	//status 絞り込み
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	//id / 名前 / メールのどれかに部分一致（大文字小文字は無視）
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
		q = q.Where(
			"LOWER(id) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(customer_email) LIKE ?",
			like, like, like,
		)
	}
	return q
}

func orderByClause(sortBy string, sortOrder string) string {
	col, ok := repo.OrderSortColumns[sortBy]
	if !ok {
		col = "created_at"
	}
	dir := "desc"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "asc"
	}
	return col + " " + dir
}
