package server_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
)

// DBなしでルーティング〜usecaseを通すためのメモリ実装。
// WithinTxはスナップショットを取り、fnがエラーなら巻き戻す。
type memDB struct {
	mu     sync.Mutex
	orders map[string]model.Order
	addrs  map[string]model.ShippingAddress
	items  map[string][]model.OrderItem
	audits []model.AuditLog

	users *memUsers
}

func newMemDB(users *memUsers) *memDB {
	return &memDB{
		orders: map[string]model.Order{},
		addrs:  map[string]model.ShippingAddress{},
		items:  map[string][]model.OrderItem{},
		users:  users,
	}
}

func (d *memDB) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	orders := make(map[string]model.Order, len(d.orders))
	for k, v := range d.orders {
		orders[k] = v
	}
	addrs := make(map[string]model.ShippingAddress, len(d.addrs))
	for k, v := range d.addrs {
		addrs[k] = v
	}
	items := make(map[string][]model.OrderItem, len(d.items))
	for k, v := range d.items {
		items[k] = v
	}
	audits := d.audits

	if err := fn(memTx{d}); err != nil {
		d.orders, d.addrs, d.items, d.audits = orders, addrs, items, audits
		return err
	}
	return nil
}

type memTx struct{ d *memDB }

func (t memTx) Orders() repo.OrderRepository                       { return memOrders{t.d} }
func (t memTx) OrderItems() repo.OrderItemRepository               { return memItems{t.d} }
func (t memTx) ShippingAddresses() repo.ShippingAddressRepository { return memAddrs{t.d} }
func (t memTx) AuditLogs() repo.AuditLogRepository                 { return memAudits{t.d} }

type memOrders struct{ d *memDB }

func (r memOrders) Create(_ context.Context, o *model.Order) error {
	if _, ok := r.d.orders[o.ID]; ok {
		return repo.ErrConflict
	}
	row := *o
	row.Customer, row.ShippingAddress, row.Items = nil, nil, nil
	r.d.orders[o.ID] = row
	return nil
}

func (r memOrders) LinkShippingAddress(_ context.Context, orderID string, addressID string) error {
	o, ok := r.d.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	id := addressID
	o.ShippingAddressID = &id
	r.d.orders[orderID] = o
	return nil
}

func (r memOrders) FindByID(_ context.Context, orderID string) (model.Order, error) {
	o, ok := r.d.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return r.load(o), nil
}

func (r memOrders) load(o model.Order) model.Order {
	if o.ShippingAddressID != nil {
		if a, ok := r.d.addrs[*o.ShippingAddressID]; ok {
			o.ShippingAddress = &a
		}
	}
	its := append([]model.OrderItem(nil), r.d.items[o.ID]...)
	sort.Slice(its, func(i, j int) bool { return its[i].LineNo < its[j].LineNo })
	o.Items = its
	if u, _ := r.d.users.FindByID(context.Background(), o.CustomerID); u != nil {
		o.Customer = u
	}
	return o
}

func (r memOrders) List(_ context.Context, f repo.OrderListFilter) ([]model.Order, int64, error) {
	matched := make([]model.Order, 0)
	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, o := range r.d.orders {
		if f.CustomerID != nil && o.CustomerID != *f.CustomerID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(o.ID), search) &&
			!strings.Contains(strings.ToLower(o.CustomerName), search) &&
			!strings.Contains(strings.ToLower(o.CustomerEmail), search) {
			continue
		}
		matched = append(matched, o)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	start := (f.Page - 1) * f.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]model.Order, 0, end-start)
	for _, o := range matched[start:end] {
		out = append(out, r.load(o))
	}
	return out, total, nil
}

func (r memOrders) UpdateStatus(_ context.Context, orderID string, status model.OrderStatus) error {
	o, ok := r.d.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	r.d.orders[orderID] = o
	return nil
}

func (r memOrders) Delete(_ context.Context, orderID string) error {
	if _, ok := r.d.orders[orderID]; !ok {
		return repo.ErrNotFound
	}
	delete(r.d.items, orderID)
	for id, a := range r.d.addrs {
		if a.OrderID == orderID {
			delete(r.d.addrs, id)
		}
	}
	delete(r.d.orders, orderID)
	return nil
}

type memItems struct{ d *memDB }

func (r memItems) CreateBulk(_ context.Context, orderID string, items []model.OrderItem) error {
	for i := range items {
		items[i].OrderID = orderID
	}
	r.d.items[orderID] = append(append([]model.OrderItem(nil), r.d.items[orderID]...), items...)
	return nil
}

type memAddrs struct{ d *memDB }

func (r memAddrs) Create(_ context.Context, a *model.ShippingAddress) error {
	r.d.addrs[a.ID] = *a
	return nil
}

type memAudits struct{ d *memDB }

func (r memAudits) Create(_ context.Context, log model.AuditLog) error {
	log.ID = int64(len(r.d.audits) + 1)
	r.d.audits = append(r.d.audits, log)
	return nil
}

func (r memAudits) List(_ context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	out := make([]model.AuditLog, 0)
	for i := len(r.d.audits) - 1; i >= 0; i-- {
		l := r.d.audits[i]
		if l.ResourceType != f.ResourceType || l.ResourceID != f.ResourceID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[int64]model.User
}

func newMemUsers(users ...model.User) *memUsers {
	m := &memUsers{users: map[int64]model.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u.ID = int64(len(m.users) + 1)
	m.users[u.ID] = *u
	return nil
}

func (m *memUsers) FindByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}
