package services

import (
	"context"
	"errors"
	"time"

	"shop-backend/internal/cache"
	"shop-backend/internal/importer"
	"shop-backend/internal/models"
	"shop-backend/internal/timeutil"
)

// catalogStore adapts the category and item stores to importer.Store.
type catalogStore struct {
	categories CategoryStore
	items      ItemStore
	now        func() time.Time
}

func (c *catalogStore) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	return c.categories.FindByName(ctx, name)
}

// CreateCategory falls back to a lookup when a concurrent import won the race.
func (c *catalogStore) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	cat, err := c.categories.Create(ctx, name)
	if errors.Is(err, models.ErrConflict) {
		return c.categories.FindByName(ctx, name)
	}
	return cat, err
}

func (c *catalogStore) FindItem(ctx context.Context, name string, categoryID int) (*models.Item, error) {
	return c.items.FindByNameAndCategory(ctx, name, categoryID)
}

func (c *catalogStore) CreateItem(ctx context.Context, categoryID int, name string, quantity int) (*models.Item, error) {
	item := &models.Item{CategoryID: categoryID, Name: name, Quantity: quantity}
	if quantity > 0 {
		at := c.now()
		item.QuantityUpdatedAt = &at
	}
	if err := c.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

type ImportService struct {
	importer *importer.Importer
	events   EventPublisher
}

func NewImportService(categories CategoryStore, items ItemStore, events EventPublisher) *ImportService {
	store := &catalogStore{categories: categories, items: items, now: timeutil.Now}
	return &ImportService{importer: importer.New(store), events: publisherOrNoop(events)}
}

// Import reconciles an uploaded workbook with the catalog.
func (s *ImportService) Import(ctx context.Context, data []byte) (*models.ImportResult, error) {
	res, err := s.importer.Import(ctx, data)
	if err != nil {
		return nil, err
	}
	if res.CategoriesCreated > 0 || res.ItemsCreated > 0 {
		cache.InvalidateCategoryCaches(ctx)
	}
	s.events.Publish(EventImportCompleted, res)
	return res, nil
}
