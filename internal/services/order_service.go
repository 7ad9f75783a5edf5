package services

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"sort"
	"strings"
	"time"

	"shop-backend/internal/archive"
	"shop-backend/internal/cache"
	"shop-backend/internal/documents"
	"shop-backend/internal/mailer"
	"shop-backend/internal/metrics"
	"shop-backend/internal/models"
	"shop-backend/internal/timeutil"
)

// OrderArchiver keeps a copy of the documents of a sent order.
type OrderArchiver interface {
	StoreOrder(ctx context.Context, orderID int, docs ...archive.Document) error
}

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	pdfContentType  = "application/pdf"
)

type OrderService struct {
	orders   OrderStore
	items    ItemStore
	docs     *documents.Generator
	mail     mailer.Mailer
	brand    mailer.Brand
	archiver OrderArchiver
	events   EventPublisher
	now      func() time.Time
}

func NewOrderService(orders OrderStore, items ItemStore, docs *documents.Generator, m mailer.Mailer, brand mailer.Brand, events EventPublisher) *OrderService {
	return &OrderService{
		orders: orders,
		items:  items,
		docs:   docs,
		mail:   m,
		brand:  brand,
		events: publisherOrNoop(events),
		now:    timeutil.Now,
	}
}

// SetArchiver enables archiving of sent order documents.
func (s *OrderService) SetArchiver(a OrderArchiver) {
	s.archiver = a
}

// Place stores a pending order. Without explicit lines the order is the
// current pending quantities, which are then reset.
func (s *OrderService) Place(ctx context.Context, req models.PlaceOrderRequest) (*models.Order, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, models.NewValidationError("email", "Email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return nil, models.NewValidationError("email", "A valid email address is required")
	}

	lines, snapshot, err := s.collectLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, models.NewValidationError("items", "No items selected for the order")
	}

	order := &models.Order{
		Email:   addr.Address,
		Message: strings.TrimSpace(req.Message),
		Items:   lines,
		Status:  models.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	metrics.OrdersPlacedTotal.Inc()
	log.Printf("[Orders] Order %d placed for %s with %d line(s)", order.ID, order.Email, len(lines))

	if snapshot != nil {
		// Quantities edited since the snapshot stay pending for the next order.
		n, err := s.items.ResetOrdered(ctx, snapshot)
		if err != nil {
			log.Printf("[Orders] Order %d stored but quantity reset failed: %v", order.ID, err)
		} else {
			metrics.QuantityResetsTotal.WithLabelValues("order").Add(float64(n))
		}
		cache.InvalidateItemCaches(ctx)
		s.events.Publish(EventItemsReset, map[string]int64{"count": n})
	}
	s.events.Publish(EventOrderPlaced, map[string]int{"id": order.ID})
	return order, nil
}

func (s *OrderService) collectLines(ctx context.Context, explicit []models.OrderLine) ([]models.OrderLine, map[int]int, error) {
	if len(explicit) > 0 {
		lines := make([]models.OrderLine, 0, len(explicit))
		for i, l := range explicit {
			name := strings.TrimSpace(l.Name)
			if name == "" || l.Quantity <= 0 {
				return nil, nil, models.NewValidationError(fmt.Sprintf("items[%d]", i), "each item needs a name and a positive quantity")
			}
			lines = append(lines, models.OrderLine{Category: strings.TrimSpace(l.Category), Name: name, Quantity: l.Quantity})
		}
		return lines, nil, nil
	}

	items, err := s.items.ListOrdered(ctx)
	if err != nil {
		return nil, nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CategoryName != items[j].CategoryName {
			return items[i].CategoryName < items[j].CategoryName
		}
		return items[i].Name < items[j].Name
	})

	lines := make([]models.OrderLine, 0, len(items))
	snapshot := make(map[int]int, len(items))
	for _, it := range items {
		if it.Quantity <= 0 {
			continue
		}
		lines = append(lines, models.OrderLine{Category: it.CategoryName, Name: it.Name, Quantity: it.Quantity})
		snapshot[it.ID] = it.Quantity
	}
	return lines, snapshot, nil
}

func (s *OrderService) List(ctx context.Context) ([]*models.Order, error) {
	return s.orders.List(ctx)
}

func (s *OrderService) Get(ctx context.Context, id int) (*models.Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, named(err, "Order")
	}
	return o, nil
}

// RenderPDF renders the stored snapshot of an order.
func (s *OrderService) RenderPDF(ctx context.Context, id int) ([]byte, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.docs.RenderPDF(o.Items, timeutil.Display(s.now()), documents.DefaultTitle)
}

func (s *OrderService) RenderSpreadsheet(ctx context.Context, id int) ([]byte, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.docs.RenderSpreadsheet(o.Items, timeutil.Display(s.now()), documents.DefaultTitle)
}

// VerifyAndSend claims a pending order, emails both documents to the
// supplier and marks the order sent. A failed send puts the order back to
// pending so it can be retried.
func (s *OrderService) VerifyAndSend(ctx context.Context, id int, verifiedBy string) (*models.Order, error) {
	order, err := s.orders.Claim(ctx, id, verifiedBy)
	if err != nil {
		return nil, named(err, "Order")
	}

	now := s.now()
	stamp := timeutil.Display(now)
	xlsx, err := s.docs.RenderSpreadsheet(order.Items, stamp, documents.DefaultTitle)
	if err != nil {
		s.release(ctx, id)
		return nil, err
	}
	pdf, err := s.docs.RenderPDF(order.Items, stamp, documents.DefaultTitle)
	if err != nil {
		s.release(ctx, id)
		return nil, err
	}

	msg, err := mailer.ComposeOrderEmail(s.brand, order.Email, order.Message, xlsx, pdf, now)
	if err != nil {
		s.release(ctx, id)
		return nil, err
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		metrics.OrderEmailFailuresTotal.Inc()
		log.Printf("[Orders] Email for order %d failed: %v", id, err)
		s.release(ctx, id)
		return nil, fmt.Errorf("%w: %v", models.ErrMailDelivery, err)
	}

	if s.archiver != nil {
		err := s.archiver.StoreOrder(ctx, id,
			archive.Document{Filename: "order.xlsx", ContentType: xlsxContentType, Content: xlsx},
			archive.Document{Filename: "order.pdf", ContentType: pdfContentType, Content: pdf},
		)
		if err != nil {
			log.Printf("[Archive] Order %d documents not archived: %v", id, err)
		}
	}

	sent, err := s.orders.MarkSent(ctx, id, now)
	if err != nil {
		log.Printf("[Orders] Error: order %d was emailed but is still verified, confirm it with POST /api/orders/%d/mark-sent: %v", id, id, err)
		return nil, fmt.Errorf("order %d emailed but not marked sent: %w", id, err)
	}
	metrics.OrdersSentTotal.Inc()
	log.Printf("[Orders] Order %d verified by %s and sent to %s", id, verifiedBy, sent.Email)
	s.events.Publish(EventOrderSent, map[string]int{"id": id})
	return sent, nil
}

// ConfirmSent moves a verified order to sent without emailing it again. It
// repairs orders whose email went out but whose status update failed.
func (s *OrderService) ConfirmSent(ctx context.Context, id int) (*models.Order, error) {
	sent, err := s.orders.MarkSent(ctx, id, s.now())
	if err != nil {
		return nil, named(err, "Order")
	}
	metrics.OrdersSentTotal.Inc()
	log.Printf("[Orders] Order %d confirmed as sent", id)
	s.events.Publish(EventOrderSent, map[string]int{"id": id})
	return sent, nil
}

func (s *OrderService) release(ctx context.Context, id int) {
	if err := s.orders.Release(context.WithoutCancel(ctx), id); err != nil {
		log.Printf("[Orders] Failed to return order %d to pending: %v", id, err)
	}
}
