package services

import (
	"context"
	"log"
	"strings"
	"time"

	"shop-backend/internal/cache"
	"shop-backend/internal/metrics"
	"shop-backend/internal/models"
	"shop-backend/internal/timeutil"
)

type ItemService struct {
	items      ItemStore
	categories CategoryStore
	events     EventPublisher
	now        func() time.Time
}

func NewItemService(items ItemStore, categories CategoryStore, events EventPublisher) *ItemService {
	return &ItemService{items: items, categories: categories, events: publisherOrNoop(events), now: timeutil.Now}
}

func (s *ItemService) List(ctx context.Context, categoryID *int) ([]*models.Item, error) {
	return cached(ctx, cache.ItemsKey(categoryID), func(ctx context.Context) ([]*models.Item, error) {
		return s.items.List(ctx, categoryID)
	})
}

// ListOrdered returns the items that currently carry a quantity.
func (s *ItemService) ListOrdered(ctx context.Context) ([]*models.Item, error) {
	return cached(ctx, cache.OrderedItemsKey, s.items.ListOrdered)
}

func (s *ItemService) Create(ctx context.Context, req models.CreateItemRequest) (*models.Item, error) {
	name := strings.TrimSpace(req.Name)
	if req.CategoryID <= 0 || name == "" {
		return nil, models.NewValidationError("", "categoryId and name are required")
	}
	qty := 0
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	if qty < 0 {
		return nil, models.NewValidationError("quantity", "Quantity cannot be negative")
	}

	category, err := s.categories.Get(ctx, req.CategoryID)
	if err != nil {
		return nil, named(err, "Category")
	}

	item := &models.Item{CategoryID: category.ID, CategoryName: category.Name, Name: name, Quantity: qty}
	if qty > 0 {
		at := s.now()
		item.QuantityUpdatedAt = &at
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	s.changed(ctx, EventCatalogChanged, nil)
	return item, nil
}

func (s *ItemService) Rename(ctx context.Context, id int, name string) (*models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name", "Item name is required")
	}
	item, err := s.items.Rename(ctx, id, name)
	if err != nil {
		return nil, named(err, "Item")
	}
	s.changed(ctx, EventCatalogChanged, nil)
	return item, nil
}

// SetQuantity records the pending order quantity of an item.
func (s *ItemService) SetQuantity(ctx context.Context, id int, quantity *int) (*models.Item, error) {
	if quantity == nil {
		return nil, models.NewValidationError("quantity", "Quantity is required")
	}
	if *quantity < 0 {
		return nil, models.NewValidationError("quantity", "Quantity cannot be negative")
	}
	item, err := s.items.SetQuantity(ctx, id, *quantity, s.now())
	if err != nil {
		return nil, named(err, "Item")
	}
	s.changed(ctx, EventItemQuantity, map[string]int{"id": item.ID, "quantity": item.Quantity})
	return item, nil
}

func (s *ItemService) Delete(ctx context.Context, id int) error {
	if err := s.items.Delete(ctx, id); err != nil {
		return named(err, "Item")
	}
	s.changed(ctx, EventCatalogChanged, nil)
	return nil
}

// ResetAll zeroes every pending quantity.
func (s *ItemService) ResetAll(ctx context.Context) (int64, error) {
	n, err := s.items.ResetQuantities(ctx, nil)
	if err != nil {
		return 0, err
	}
	metrics.QuantityResetsTotal.WithLabelValues("manual").Add(float64(n))
	s.changed(ctx, EventItemsReset, map[string]int64{"count": n})
	return n, nil
}

// ResetStaleQuantities zeroes quantities untouched for longer than olderThan.
func (s *ItemService) ResetStaleQuantities(ctx context.Context, olderThan time.Duration) (int64, error) {
	n, err := s.items.ResetStale(ctx, s.now().Add(-olderThan))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.Printf("[Scheduler] Reset %d stale quantities older than %s", n, olderThan)
		metrics.QuantityResetsTotal.WithLabelValues("stale").Add(float64(n))
		s.changed(ctx, EventItemsReset, map[string]int64{"count": n})
	}
	return n, nil
}

func (s *ItemService) changed(ctx context.Context, event string, payload any) {
	cache.InvalidateItemCaches(ctx)
	s.events.Publish(event, payload)
}
