// Package memstore keeps the catalog, orders and pay list in memory for
// service and handler tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"shop-backend/internal/models"
)

type db struct {
	mu         sync.Mutex
	seq        int
	categories map[int]*models.Category
	items      map[int]*models.Item
	orders     map[int]*models.Order
	payList    map[int]*models.PayListEntry
	clock      func() time.Time
}

func (d *db) next() int {
	d.seq++
	return d.seq
}

// Store groups the four in-memory stores over shared state.
type Store struct {
	Categories *Categories
	Items      *Items
	Orders     *Orders
	PayList    *PayList
}

func New() *Store {
	d := &db{
		categories: map[int]*models.Category{},
		items:      map[int]*models.Item{},
		orders:     map[int]*models.Order{},
		payList:    map[int]*models.PayListEntry{},
		clock:      time.Now,
	}
	return &Store{
		Categories: &Categories{d},
		Items:      &Items{d},
		Orders:     &Orders{d},
		PayList:    &PayList{d},
	}
}

// Categories mirrors repositories.CategoryRepository.
type Categories struct{ d *db }

func (c *Categories) List(ctx context.Context) ([]*models.Category, error) {
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	out := make([]*models.Category, 0, len(c.d.categories))
	for _, cat := range c.d.categories {
		cp := *cat
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (c *Categories) Get(ctx context.Context, id int) (*models.Category, error) {
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	cat, ok := c.d.categories[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *cat
	return &cp, nil
}

func (c *Categories) FindByName(ctx context.Context, name string) (*models.Category, error) {
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	for _, cat := range c.d.categories {
		if cat.Name == name {
			cp := *cat
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (c *Categories) Create(ctx context.Context, name string) (*models.Category, error) {
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	for _, cat := range c.d.categories {
		if cat.Name == name {
			return nil, models.ErrConflict
		}
	}
	now := c.d.clock()
	cat := &models.Category{ID: c.d.next(), Name: name, CreatedAt: now, UpdatedAt: now}
	c.d.categories[cat.ID] = cat
	cp := *cat
	return &cp, nil
}

func (c *Categories) Rename(ctx context.Context, id int, name string) (*models.Category, error) {
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	cat, ok := c.d.categories[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	for _, other := range c.d.categories {
		if other.ID != id && other.Name == name {
			return nil, models.ErrConflict
		}
	}
	cat.Name = name
	cat.UpdatedAt = c.d.clock()
	cp := *cat
	return &cp, nil
}

// Delete removes the category and its items.
func (c *Categories) Delete(ctx context.Context, id int) (int64, error) {
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	if _, ok := c.d.categories[id]; !ok {
		return 0, models.ErrNotFound
	}
	var removed int64
	for itemID, it := range c.d.items {
		if it.CategoryID == id {
			delete(c.d.items, itemID)
			removed++
		}
	}
	delete(c.d.categories, id)
	return removed, nil
}

// Items mirrors repositories.ItemRepository.
type Items struct{ d *db }

// withCategory copies an item and fills in its category name. Callers hold the lock.
func (s *Items) withCategory(it *models.Item) *models.Item {
	cp := *it
	if cat, ok := s.d.categories[it.CategoryID]; ok {
		cp.CategoryName = cat.Name
	}
	return &cp
}

func (s *Items) collect(keep func(*models.Item) bool) []*models.Item {
	out := []*models.Item{}
	for _, it := range s.d.items {
		if keep(it) {
			out = append(out, s.withCategory(it))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CategoryName != out[j].CategoryName {
			return out[i].CategoryName < out[j].CategoryName
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Items) List(ctx context.Context, categoryID *int) ([]*models.Item, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	return s.collect(func(it *models.Item) bool {
		return categoryID == nil || it.CategoryID == *categoryID
	}), nil
}

func (s *Items) ListOrdered(ctx context.Context) ([]*models.Item, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	return s.collect(func(it *models.Item) bool { return it.Quantity > 0 }), nil
}

func (s *Items) Get(ctx context.Context, id int) (*models.Item, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	it, ok := s.d.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return s.withCategory(it), nil
}

func (s *Items) FindByNameAndCategory(ctx context.Context, name string, categoryID int) (*models.Item, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	found := s.collect(func(it *models.Item) bool {
		return it.Name == name && it.CategoryID == categoryID
	})
	if len(found) == 0 {
		return nil, models.ErrNotFound
	}
	return found[0], nil
}

func (s *Items) Create(ctx context.Context, item *models.Item) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	now := s.d.clock()
	item.ID = s.d.next()
	item.CreatedAt = now
	item.UpdatedAt = now
	cp := *item
	s.d.items[item.ID] = &cp
	if cat, ok := s.d.categories[item.CategoryID]; ok {
		item.CategoryName = cat.Name
	}
	return nil
}

func (s *Items) Rename(ctx context.Context, id int, name string) (*models.Item, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	it, ok := s.d.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	it.Name = name
	it.UpdatedAt = s.d.clock()
	return s.withCategory(it), nil
}

func (s *Items) SetQuantity(ctx context.Context, id, quantity int, at time.Time) (*models.Item, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	it, ok := s.d.items[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	it.Quantity = quantity
	it.QuantityUpdatedAt = &at
	it.UpdatedAt = s.d.clock()
	return s.withCategory(it), nil
}

func (s *Items) Delete(ctx context.Context, id int) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.items[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.d.items, id)
	return nil
}

// ResetQuantities zeroes the given items, or every item when ids is nil.
func (s *Items) ResetQuantities(ctx context.Context, ids []int) (int64, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var wanted map[int]bool
	if ids != nil {
		wanted = make(map[int]bool, len(ids))
		for _, id := range ids {
			wanted[id] = true
		}
	}
	var n int64
	for _, it := range s.d.items {
		if it.Quantity <= 0 || (wanted != nil && !wanted[it.ID]) {
			continue
		}
		it.Quantity = 0
		it.QuantityUpdatedAt = nil
		n++
	}
	return n, nil
}

func (s *Items) ResetOrdered(ctx context.Context, snapshot map[int]int) (int64, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var n int64
	for id, qty := range snapshot {
		it, ok := s.d.items[id]
		if !ok || it.Quantity <= 0 || it.Quantity != qty {
			continue
		}
		it.Quantity = 0
		it.QuantityUpdatedAt = nil
		n++
	}
	return n, nil
}

func (s *Items) ResetStale(ctx context.Context, cutoff time.Time) (int64, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var n int64
	for _, it := range s.d.items {
		if it.Quantity <= 0 {
			continue
		}
		if it.QuantityUpdatedAt != nil && !it.QuantityUpdatedAt.Before(cutoff) {
			continue
		}
		it.Quantity = 0
		it.QuantityUpdatedAt = nil
		n++
	}
	return n, nil
}

// Orders mirrors repositories.OrderRepository.
type Orders struct{ d *db }

func copyOrder(o *models.Order) *models.Order {
	cp := *o
	cp.Items = append([]models.OrderLine(nil), o.Items...)
	if o.SentAt != nil {
		at := *o.SentAt
		cp.SentAt = &at
	}
	return &cp
}

func (s *Orders) Create(ctx context.Context, o *models.Order) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	now := s.d.clock()
	o.ID = s.d.next()
	if o.Status == "" {
		o.Status = models.OrderStatusPending
	}
	o.CreatedAt = now
	o.UpdatedAt = now
	s.d.orders[o.ID] = copyOrder(o)
	return nil
}

func (s *Orders) List(ctx context.Context) ([]*models.Order, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	out := make([]*models.Order, 0, len(s.d.orders))
	for _, o := range s.d.orders {
		out = append(out, copyOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *Orders) Get(ctx context.Context, id int) (*models.Order, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	o, ok := s.d.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return copyOrder(o), nil
}

func (s *Orders) transition(id int, from string, apply func(*models.Order)) (*models.Order, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	o, ok := s.d.orders[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	if o.Status != from {
		return nil, models.ErrOrderAlreadySent
	}
	apply(o)
	o.UpdatedAt = s.d.clock()
	return copyOrder(o), nil
}

func (s *Orders) Claim(ctx context.Context, id int, verifiedBy string) (*models.Order, error) {
	return s.transition(id, models.OrderStatusPending, func(o *models.Order) {
		o.Status = models.OrderStatusVerified
		o.VerifiedBy = verifiedBy
	})
}

func (s *Orders) MarkSent(ctx context.Context, id int, at time.Time) (*models.Order, error) {
	return s.transition(id, models.OrderStatusVerified, func(o *models.Order) {
		o.Status = models.OrderStatusSent
		o.SentAt = &at
	})
}

func (s *Orders) Release(ctx context.Context, id int) error {
	_, err := s.transition(id, models.OrderStatusVerified, func(o *models.Order) {
		o.Status = models.OrderStatusPending
		o.VerifiedBy = ""
	})
	return err
}

// PayList mirrors repositories.PayListRepository.
type PayList struct{ d *db }

func (s *PayList) List(ctx context.Context) ([]*models.PayListEntry, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	out := []*models.PayListEntry{}
	for _, e := range s.d.payList {
		if !e.IsDeleted {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *PayList) Total(ctx context.Context) (float64, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	var total float64
	for _, e := range s.d.payList {
		if !e.IsDeleted {
			total += e.Amount
		}
	}
	return total, nil
}

func (s *PayList) Create(ctx context.Context, e *models.PayListEntry) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	now := s.d.clock()
	e.ID = s.d.next()
	e.CreatedAt = now
	e.UpdatedAt = now
	cp := *e
	s.d.payList[e.ID] = &cp
	return nil
}

func (s *PayList) ToggleDeleted(ctx context.Context, id int) (*models.PayListEntry, error) {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	e, ok := s.d.payList[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	e.IsDeleted = !e.IsDeleted
	e.UpdatedAt = s.d.clock()
	cp := *e
	return &cp, nil
}

func (s *PayList) Delete(ctx context.Context, id int) error {
	s.d.mu.Lock()
	defer s.d.mu.Unlock()
	if _, ok := s.d.payList[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.d.payList, id)
	return nil
}
