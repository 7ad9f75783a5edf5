package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"shop-backend/internal/cache"
	"shop-backend/internal/models"
)

type CategoryService struct {
	repo   CategoryStore
	events EventPublisher
}

func NewCategoryService(repo CategoryStore, events EventPublisher) *CategoryService {
	return &CategoryService{repo: repo, events: publisherOrNoop(events)}
}

func (s *CategoryService) List(ctx context.Context) ([]*models.Category, error) {
	return cached(ctx, cache.CategoriesKey, s.repo.List)
}

func (s *CategoryService) Create(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name", "Category name is required")
	}

	if _, err := s.repo.FindByName(ctx, name); err == nil {
		return nil, models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	c, err := s.repo.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	s.changed(ctx)
	return c, nil
}

func (s *CategoryService) Rename(ctx context.Context, id int, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name", "Category name is required")
	}
	c, err := s.repo.Rename(ctx, id, name)
	if err != nil {
		return nil, named(err, "Category")
	}
	s.changed(ctx)
	return c, nil
}

// Delete removes a category together with its items.
func (s *CategoryService) Delete(ctx context.Context, id int) error {
	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return named(err, "Category")
	}
	log.Printf("[Catalog] Deleted category %d and %d item(s)", id, removed)
	s.changed(ctx)
	return nil
}

func (s *CategoryService) changed(ctx context.Context) {
	cache.InvalidateCategoryCaches(ctx)
	s.events.Publish(EventCatalogChanged, nil)
}
