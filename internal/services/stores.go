package services

import (
	"context"
	"time"

	"shop-backend/internal/models"
)

// CategoryStore is implemented by repositories.CategoryRepository.
type CategoryStore interface {
	List(ctx context.Context) ([]*models.Category, error)
	Get(ctx context.Context, id int) (*models.Category, error)
	FindByName(ctx context.Context, name string) (*models.Category, error)
	Create(ctx context.Context, name string) (*models.Category, error)
	Rename(ctx context.Context, id int, name string) (*models.Category, error)
	Delete(ctx context.Context, id int) (int64, error)
}

// ItemStore is implemented by repositories.ItemRepository.
type ItemStore interface {
	List(ctx context.Context, categoryID *int) ([]*models.Item, error)
	ListOrdered(ctx context.Context) ([]*models.Item, error)
	Get(ctx context.Context, id int) (*models.Item, error)
	FindByNameAndCategory(ctx context.Context, name string, categoryID int) (*models.Item, error)
	Create(ctx context.Context, item *models.Item) error
	Rename(ctx context.Context, id int, name string) (*models.Item, error)
	SetQuantity(ctx context.Context, id, quantity int, at time.Time) (*models.Item, error)
	Delete(ctx context.Context, id int) error
	ResetQuantities(ctx context.Context, ids []int) (int64, error)
	ResetOrdered(ctx context.Context, snapshot map[int]int) (int64, error)
	ResetStale(ctx context.Context, cutoff time.Time) (int64, error)
}

// OrderStore is implemented by repositories.OrderRepository.
type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	List(ctx context.Context) ([]*models.Order, error)
	Get(ctx context.Context, id int) (*models.Order, error)
	Claim(ctx context.Context, id int, verifiedBy string) (*models.Order, error)
	MarkSent(ctx context.Context, id int, at time.Time) (*models.Order, error)
	Release(ctx context.Context, id int) error
}

// PayListStore is implemented by repositories.PayListRepository.
type PayListStore interface {
	List(ctx context.Context) ([]*models.PayListEntry, error)
	Total(ctx context.Context) (float64, error)
	Create(ctx context.Context, e *models.PayListEntry) error
	ToggleDeleted(ctx context.Context, id int) (*models.PayListEntry, error)
	Delete(ctx context.Context, id int) error
}

// EventPublisher fans inventory events out to live clients.
type EventPublisher interface {
	Publish(eventType string, payload any)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, any) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

const (
	EventCatalogChanged  = "catalog.changed"
	EventItemQuantity    = "item.quantity"
	EventItemsReset      = "items.reset"
	EventOrderPlaced     = "order.placed"
	EventOrderSent       = "order.sent"
	EventImportCompleted = "import.completed"
	EventPayListChanged  = "paylist.changed"
)
