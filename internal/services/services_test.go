package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"shop-backend/internal/archive"
	"shop-backend/internal/auth"
	"shop-backend/internal/config"
	"shop-backend/internal/documents"
	"shop-backend/internal/mailer"
	"shop-backend/internal/models"
	"shop-backend/internal/repositories/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

type recordedEvent struct {
	Type    string
	Payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(eventType string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{eventType, payload})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fakeArchiver struct {
	orderID int
	names   []string
	err     error
}

func (a *fakeArchiver) StoreOrder(_ context.Context, orderID int, docs ...archive.Document) error {
	a.orderID = orderID
	for _, d := range docs {
		a.names = append(a.names, d.Filename)
	}
	return a.err
}

func intPtr(v int) *int { return &v }

func seedCatalog(t *testing.T, store *memstore.Store, quantities map[string]map[string]int) map[string]int {
	t.Helper()
	ctx := context.Background()
	ids := map[string]int{}
	for catName, items := range quantities {
		cat, err := store.Categories.Create(ctx, catName)
		require.NoError(t, err)
		for name, qty := range items {
			it := &models.Item{CategoryID: cat.ID, Name: name, Quantity: qty}
			if qty > 0 {
				at := fixedNow
				it.QuantityUpdatedAt = &at
			}
			require.NoError(t, store.Items.Create(ctx, it))
			ids[name] = it.ID
		}
	}
	return ids
}

func TestCategoryService_CreateValidatesAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	events := &recordingPublisher{}
	svc := NewCategoryService(store.Categories, events)

	_, err := svc.Create(ctx, "   ")
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Category name is required", verr.Message)

	c, err := svc.Create(ctx, "  Produce ")
	require.NoError(t, err)
	assert.Equal(t, "Produce", c.Name)

	_, err = svc.Create(ctx, "Produce")
	assert.ErrorIs(t, err, models.ErrConflict)

	assert.Equal(t, []string{EventCatalogChanged}, events.types())
}

func TestCategoryService_DeleteCascadesItems(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	ids := seedCatalog(t, store, map[string]map[string]int{"Produce": {"Apples": 1, "Pears": 0}})
	svc := NewCategoryService(store.Categories, nil)

	item, err := store.Items.Get(ctx, ids["Apples"])
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, item.CategoryID))

	items, err := store.Items.List(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, items)

	err = svc.Delete(ctx, item.CategoryID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.EqualError(t, err, "Category not found")
}

func TestItemService_Create(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := NewItemService(store.Items, store.Categories, nil)
	svc.now = func() time.Time { return fixedNow }

	cat, err := store.Categories.Create(ctx, "Dairy")
	require.NoError(t, err)

	_, err = svc.Create(ctx, models.CreateItemRequest{Name: "Milk"})
	assert.EqualError(t, err, "categoryId and name are required")

	_, err = svc.Create(ctx, models.CreateItemRequest{CategoryID: cat.ID, Name: "Milk", Quantity: intPtr(-1)})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Create(ctx, models.CreateItemRequest{CategoryID: cat.ID + 100, Name: "Milk"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	plain, err := svc.Create(ctx, models.CreateItemRequest{CategoryID: cat.ID, Name: " Milk "})
	require.NoError(t, err)
	assert.Equal(t, "Milk", plain.Name)
	assert.Equal(t, "Dairy", plain.CategoryName)
	assert.Equal(t, 0, plain.Quantity)
	assert.Nil(t, plain.QuantityUpdatedAt)

	stocked, err := svc.Create(ctx, models.CreateItemRequest{CategoryID: cat.ID, Name: "Butter", Quantity: intPtr(4)})
	require.NoError(t, err)
	require.NotNil(t, stocked.QuantityUpdatedAt)
	assert.Equal(t, fixedNow, *stocked.QuantityUpdatedAt)
}

func TestItemService_SetQuantity(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	ids := seedCatalog(t, store, map[string]map[string]int{"Dairy": {"Milk": 0}})
	events := &recordingPublisher{}
	svc := NewItemService(store.Items, store.Categories, events)
	svc.now = func() time.Time { return fixedNow }

	_, err := svc.SetQuantity(ctx, ids["Milk"], nil)
	assert.Error(t, err)
	_, err = svc.SetQuantity(ctx, ids["Milk"], intPtr(-2))
	assert.Error(t, err)
	_, err = svc.SetQuantity(ctx, 999, intPtr(1))
	assert.EqualError(t, err, "Item not found")

	item, err := svc.SetQuantity(ctx, ids["Milk"], intPtr(6))
	require.NoError(t, err)
	assert.Equal(t, 6, item.Quantity)
	assert.Equal(t, fixedNow, *item.QuantityUpdatedAt)
	assert.Equal(t, []string{EventItemQuantity}, events.types())

	ordered, err := svc.ListOrdered(ctx)
	require.NoError(t, err)
	require.Len(t, ordered, 1)
	assert.Equal(t, "Milk", ordered[0].Name)
}

func TestItemService_ResetStaleQuantities(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	ids := seedCatalog(t, store, map[string]map[string]int{"Dairy": {"Milk": 2, "Butter": 3, "Cheese": 0}})
	events := &recordingPublisher{}
	svc := NewItemService(store.Items, store.Categories, events)

	// Butter was touched recently, Milk two hours ago.
	_, err := store.Items.SetQuantity(ctx, ids["Milk"], 2, fixedNow.Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = store.Items.SetQuantity(ctx, ids["Butter"], 3, fixedNow.Add(-10*time.Minute))
	require.NoError(t, err)

	svc.now = func() time.Time { return fixedNow }
	n, err := svc.ResetStaleQuantities(ctx, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	milk, _ := store.Items.Get(ctx, ids["Milk"])
	butter, _ := store.Items.Get(ctx, ids["Butter"])
	assert.Equal(t, 0, milk.Quantity)
	assert.Equal(t, 3, butter.Quantity)
	assert.Equal(t, []string{EventItemsReset}, events.types())

	n, err = svc.ResetStaleQuantities(ctx, time.Hour)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Len(t, events.types(), 1)
}

func TestItemService_ResetAll(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seedCatalog(t, store, map[string]map[string]int{"A": {"x": 1, "y": 2}, "B": {"z": 0}})
	svc := NewItemService(store.Items, store.Categories, nil)

	n, err := svc.ResetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	ordered, err := svc.ListOrdered(ctx)
	require.NoError(t, err)
	assert.Empty(t, ordered)
}

func newOrderService(store *memstore.Store, m mailer.Mailer, events EventPublisher) *OrderService {
	brand := mailer.Brand{Name: "SANT CORPORATION", SupportEmail: "support@example.com", Phone: "555"}
	svc := NewOrderService(store.Orders, store.Items, documents.NewGenerator(brand.Name), m, brand, events)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestOrderService_PlaceSnapshotsAndResetsQuantities(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	ids := seedCatalog(t, store, map[string]map[string]int{
		"Produce": {"Bananas": 3, "Apples": 10, "Kiwis": 0},
		"Dairy":   {"Milk": 2},
	})
	events := &recordingPublisher{}
	svc := newOrderService(store, mailer.NewLogMailer(), events)

	order, err := svc.Place(ctx, models.PlaceOrderRequest{Email: "supplier@example.com", Message: " rush "})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "rush", order.Message)
	assert.Equal(t, []models.OrderLine{
		{Category: "Dairy", Name: "Milk", Quantity: 2},
		{Category: "Produce", Name: "Apples", Quantity: 10},
		{Category: "Produce", Name: "Bananas", Quantity: 3},
	}, order.Items)

	for _, name := range []string{"Apples", "Bananas", "Milk"} {
		it, err := store.Items.Get(ctx, ids[name])
		require.NoError(t, err)
		assert.Zero(t, it.Quantity, name)
	}
	assert.Equal(t, []string{EventItemsReset, EventOrderPlaced}, events.types())

	_, err = svc.Place(ctx, models.PlaceOrderRequest{Email: "supplier@example.com"})
	assert.EqualError(t, err, "items: No items selected for the order")
}

// editingItems changes stock right after the order snapshot is taken.
type editingItems struct {
	*memstore.Items
	afterList func()
}

func (e *editingItems) ListOrdered(ctx context.Context) ([]*models.Item, error) {
	items, err := e.Items.ListOrdered(ctx)
	if e.afterList != nil {
		e.afterList()
	}
	return items, err
}

func TestOrderService_PlaceKeepsQuantitiesEditedAfterSnapshot(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	ids := seedCatalog(t, store, map[string]map[string]int{"Produce": {"Apples": 10, "Pears": 4}})
	items := &editingItems{Items: store.Items, afterList: func() {
		_, err := store.Items.SetQuantity(ctx, ids["Apples"], 15, fixedNow.Add(time.Second))
		require.NoError(t, err)
	}}
	brand := mailer.Brand{Name: "SANT CORPORATION"}
	svc := NewOrderService(store.Orders, items, documents.NewGenerator(brand.Name), mailer.NewLogMailer(), brand, nil)

	order, err := svc.Place(ctx, models.PlaceOrderRequest{Email: "supplier@example.com"})
	require.NoError(t, err)
	assert.Equal(t, []models.OrderLine{
		{Category: "Produce", Name: "Apples", Quantity: 10},
		{Category: "Produce", Name: "Pears", Quantity: 4},
	}, order.Items)

	apples, _ := store.Items.Get(ctx, ids["Apples"])
	assert.Equal(t, 15, apples.Quantity)
	pears, _ := store.Items.Get(ctx, ids["Pears"])
	assert.Zero(t, pears.Quantity)
}

func TestOrderService_PlaceExplicitLines(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	ids := seedCatalog(t, store, map[string]map[string]int{"Produce": {"Apples": 10}})
	svc := newOrderService(store, mailer.NewLogMailer(), nil)

	order, err := svc.Place(ctx, models.PlaceOrderRequest{
		Email: "supplier@example.com",
		Items: []models.OrderLine{{Category: "Misc", Name: "Tape", Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.OrderLine{{Category: "Misc", Name: "Tape", Quantity: 2}}, order.Items)

	apples, _ := store.Items.Get(ctx, ids["Apples"])
	assert.Equal(t, 10, apples.Quantity)

	_, err = svc.Place(ctx, models.PlaceOrderRequest{
		Email: "supplier@example.com",
		Items: []models.OrderLine{{Name: "Tape", Quantity: 0}},
	})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestOrderService_PlaceValidatesEmail(t *testing.T) {
	svc := newOrderService(memstore.New(), mailer.NewLogMailer(), nil)
	for _, email := range []string{"", "not-an-email", "Bob <bob@example.com>"} {
		_, err := svc.Place(context.Background(), models.PlaceOrderRequest{Email: email})
		var verr *models.ValidationError
		assert.ErrorAs(t, err, &verr, email)
	}
}

func placeOrder(t *testing.T, store *memstore.Store, svc *OrderService) *models.Order {
	t.Helper()
	seedCatalog(t, store, map[string]map[string]int{"Produce": {"Apples": 10}})
	order, err := svc.Place(context.Background(), models.PlaceOrderRequest{Email: "supplier@example.com", Message: "Deliver Monday"})
	require.NoError(t, err)
	return order
}

func TestOrderService_VerifyAndSend(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	m := mailer.NewLogMailer()
	events := &recordingPublisher{}
	svc := newOrderService(store, m, events)
	arch := &fakeArchiver{}
	svc.SetArchiver(arch)
	order := placeOrder(t, store, svc)

	sent, err := svc.VerifyAndSend(ctx, order.ID, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusSent, sent.Status)
	assert.Equal(t, "admin@example.com", sent.VerifiedBy)
	require.NotNil(t, sent.SentAt)
	assert.Equal(t, fixedNow, *sent.SentAt)

	require.Len(t, m.Sent(), 1)
	msg := m.Sent()[0]
	assert.Equal(t, "supplier@example.com", msg.To)
	assert.Equal(t, "Purchase Order Request – SANT CORPORATION", msg.Subject)
	assert.Contains(t, msg.Text, "Deliver Monday")
	require.Len(t, msg.Attachments, 2)
	assert.Equal(t, "order.xlsx", msg.Attachments[0].Filename)
	assert.Equal(t, "order.pdf", msg.Attachments[1].Filename)
	assert.True(t, strings.HasPrefix(string(msg.Attachments[1].Content), "%PDF"))

	assert.Equal(t, order.ID, arch.orderID)
	assert.Equal(t, []string{"order.xlsx", "order.pdf"}, arch.names)
	assert.Contains(t, events.types(), EventOrderSent)

	_, err = svc.VerifyAndSend(ctx, order.ID, "admin@example.com")
	assert.ErrorIs(t, err, models.ErrOrderAlreadySent)
	assert.Len(t, m.Sent(), 1)

	_, err = svc.VerifyAndSend(ctx, 4242, "admin@example.com")
	assert.EqualError(t, err, "Order not found")
}

func TestOrderService_VerifyAndSendMailFailureReleasesOrder(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	m := mailer.NewLogMailer()
	m.Err = errors.New("smtp: connection refused")
	svc := newOrderService(store, m, nil)
	order := placeOrder(t, store, svc)

	_, err := svc.VerifyAndSend(ctx, order.ID, "admin@example.com")
	assert.ErrorIs(t, err, models.ErrMailDelivery)

	stored, err := svc.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, stored.Status)
	assert.Empty(t, stored.VerifiedBy)

	m.Err = nil
	sent, err := svc.VerifyAndSend(ctx, order.ID, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusSent, sent.Status)
}

func TestOrderService_ArchiveFailureDoesNotBlockSend(t *testing.T) {
	store := memstore.New()
	svc := newOrderService(store, mailer.NewLogMailer(), nil)
	svc.SetArchiver(&fakeArchiver{err: errors.New("bucket unavailable")})
	order := placeOrder(t, store, svc)

	sent, err := svc.VerifyAndSend(context.Background(), order.ID, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusSent, sent.Status)
}

type stuckOrders struct {
	*memstore.Orders
	markErr error
}

func (o *stuckOrders) MarkSent(ctx context.Context, id int, at time.Time) (*models.Order, error) {
	if o.markErr != nil {
		err := o.markErr
		o.markErr = nil
		return nil, err
	}
	return o.Orders.MarkSent(ctx, id, at)
}

func TestOrderService_ConfirmSentRepairsVerifiedOrder(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	m := mailer.NewLogMailer()
	orders := &stuckOrders{Orders: store.Orders, markErr: errors.New("connection reset")}
	brand := mailer.Brand{Name: "SANT CORPORATION"}
	svc := NewOrderService(orders, store.Items, documents.NewGenerator(brand.Name), m, brand, nil)
	svc.now = func() time.Time { return fixedNow }
	order := placeOrder(t, store, svc)

	_, err := svc.VerifyAndSend(ctx, order.ID, "admin@example.com")
	require.Error(t, err)
	assert.Len(t, m.Sent(), 1)
	stored, _ := svc.Get(ctx, order.ID)
	assert.Equal(t, models.OrderStatusVerified, stored.Status)

	_, err = svc.VerifyAndSend(ctx, order.ID, "admin@example.com")
	assert.ErrorIs(t, err, models.ErrOrderAlreadySent)

	sent, err := svc.ConfirmSent(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusSent, sent.Status)
	assert.Equal(t, fixedNow, *sent.SentAt)
	assert.Len(t, m.Sent(), 1)

	_, err = svc.ConfirmSent(ctx, order.ID)
	assert.ErrorIs(t, err, models.ErrOrderAlreadySent)
	_, err = svc.ConfirmSent(ctx, 4242)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestOrderService_RenderDocuments(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := newOrderService(store, mailer.NewLogMailer(), nil)
	order := placeOrder(t, store, svc)

	pdf, err := svc.RenderPDF(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(pdf), "%PDF"))

	xlsx, err := svc.RenderSpreadsheet(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(xlsx), "PK"))

	_, err = svc.RenderPDF(ctx, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPayListService(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := NewPayListService(store.PayList, nil)
	amount := func(v float64) *float64 { return &v }

	_, err := svc.Create(ctx, models.CreatePayListRequest{Date: "2024-01-02", CheckNo: "1"})
	assert.EqualError(t, err, "All fields are required")

	_, err = svc.Create(ctx, models.CreatePayListRequest{Date: "02/01/2024", CheckNo: "1", PaidTo: "A", Amount: amount(5)})
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	older, err := svc.Create(ctx, models.CreatePayListRequest{Date: "2024-01-02", CheckNo: "101", PaidTo: "Acme", Amount: amount(250.5)})
	require.NoError(t, err)
	newer, err := svc.Create(ctx, models.CreatePayListRequest{Date: "2024-02-10", CheckNo: "102", PaidTo: "Globex", Amount: amount(100)})
	require.NoError(t, err)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)

	total, err := svc.Total(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 350.5, total.Total, 0.001)

	toggled, err := svc.ToggleDeleted(ctx, older.ID)
	require.NoError(t, err)
	assert.True(t, toggled.IsDeleted)

	total, err = svc.Total(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 100, total.Total, 0.001)

	require.NoError(t, svc.Delete(ctx, newer.ID))
	assert.ErrorIs(t, svc.Delete(ctx, newer.ID), models.ErrNotFound)
}

type stubTokens struct{}

func (stubTokens) GenerateToken(email string) (string, error) { return "token-for-" + email, nil }

func TestAdminAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc := NewAdminAuthService(AdminCredentials{Email: "admin@example.com", Password: "s3cret", MaxAttempts: 5}, stubTokens{})

	_, err := svc.Login(ctx, models.LoginRequest{Email: "admin@example.com"}, "1.2.3.4")
	var verr *models.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "admin@example.com", Password: "nope"}, "1.2.3.4")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "other@example.com", Password: "s3cret"}, "1.2.3.4")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "ADMIN@example.com", Password: "s3cret"}, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, "token-for-admin@example.com", resp.Token)
}

func TestAdminAuthService_LoginWithHashAndJWT(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpirationHours = 1
	cfg.JWT.Issuer = "shop-backend"
	jwtManager := auth.NewJWTManager(cfg)

	svc := NewAdminAuthService(AdminCredentials{Email: "admin@example.com", PasswordHash: hash}, jwtManager)
	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.com", Password: "hunter2"}, "k")
	require.NoError(t, err)

	claims, err := jwtManager.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestAdminAuthService_NoCredentialConfigured(t *testing.T) {
	svc := NewAdminAuthService(AdminCredentials{}, stubTokens{})
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "a@b.c", Password: "x"}, "k")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}
