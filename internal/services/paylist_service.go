package services

import (
	"context"
	"strings"

	"shop-backend/internal/cache"
	"shop-backend/internal/models"
	"shop-backend/internal/timeutil"
)

type PayListService struct {
	repo   PayListStore
	events EventPublisher
}

func NewPayListService(repo PayListStore, events EventPublisher) *PayListService {
	return &PayListService{repo: repo, events: publisherOrNoop(events)}
}

func (s *PayListService) List(ctx context.Context) ([]*models.PayListEntry, error) {
	return cached(ctx, cache.PayListKey, s.repo.List)
}

func (s *PayListService) Total(ctx context.Context) (*models.PayListTotal, error) {
	total, err := cached(ctx, cache.PayListTotalKey, s.repo.Total)
	if err != nil {
		return nil, err
	}
	return &models.PayListTotal{Total: total}, nil
}

func (s *PayListService) Create(ctx context.Context, req models.CreatePayListRequest) (*models.PayListEntry, error) {
	checkNo := strings.TrimSpace(req.CheckNo)
	paidTo := strings.TrimSpace(req.PaidTo)
	if strings.TrimSpace(req.Date) == "" || checkNo == "" || paidTo == "" || req.Amount == nil {
		return nil, models.NewValidationError("", "All fields are required")
	}
	if *req.Amount < 0 {
		return nil, models.NewValidationError("amount", "amount must not be negative")
	}
	date, err := timeutil.ParseDate(req.Date)
	if err != nil {
		return nil, models.NewValidationError("date", "date must be YYYY-MM-DD")
	}

	e := &models.PayListEntry{
		Date:    date,
		CheckNo: checkNo,
		PaidTo:  paidTo,
		Amount:  *req.Amount,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	s.changed(ctx)
	return e, nil
}

// ToggleDeleted flips the soft-delete flag of an entry.
func (s *PayListService) ToggleDeleted(ctx context.Context, id int) (*models.PayListEntry, error) {
	e, err := s.repo.ToggleDeleted(ctx, id)
	if err != nil {
		return nil, named(err, "Pay list entry")
	}
	s.changed(ctx)
	return e, nil
}

func (s *PayListService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return named(err, "Pay list entry")
	}
	s.changed(ctx)
	return nil
}

func (s *PayListService) changed(ctx context.Context) {
	cache.InvalidatePayListCaches(ctx)
	s.events.Publish(EventPayListChanged, nil)
}
