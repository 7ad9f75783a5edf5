package importer

import (
	"context"
	"errors"
	"fmt"

	"shop-backend/internal/models"
)

// Store is the persistence the importer needs. Find methods return
// models.ErrNotFound when nothing matches.
type Store interface {
	FindCategoryByName(ctx context.Context, name string) (*models.Category, error)
	CreateCategory(ctx context.Context, name string) (*models.Category, error)
	FindItem(ctx context.Context, name string, categoryID int) (*models.Item, error)
	CreateItem(ctx context.Context, categoryID int, name string, quantity int) (*models.Item, error)
}

type ReconcileResult struct {
	CategoriesCreated int
	ItemsCreated      int
}

// Reconcile find-or-creates every category and item in groups. Existing
// items keep their stored quantity.
func Reconcile(ctx context.Context, store Store, groups []Group) (ReconcileResult, error) {
	var res ReconcileResult
	categoryIDs := make(map[string]int)

	for _, g := range groups {
		id, ok := categoryIDs[g.Name]
		if !ok {
			cat, err := store.FindCategoryByName(ctx, g.Name)
			switch {
			case errors.Is(err, models.ErrNotFound):
				cat, err = store.CreateCategory(ctx, g.Name)
				if err != nil {
					return res, fmt.Errorf("create category %q: %w", g.Name, err)
				}
				res.CategoriesCreated++
			case err != nil:
				return res, fmt.Errorf("find category %q: %w", g.Name, err)
			}
			id = cat.ID
			categoryIDs[g.Name] = id
		}

		for _, it := range g.Items {
			_, err := store.FindItem(ctx, it.Name, id)
			if err == nil {
				continue
			}
			if !errors.Is(err, models.ErrNotFound) {
				return res, fmt.Errorf("find item %q: %w", it.Name, err)
			}
			if _, err := store.CreateItem(ctx, id, it.Name, it.Quantity); err != nil {
				return res, fmt.Errorf("create item %q: %w", it.Name, err)
			}
			res.ItemsCreated++
		}
	}
	return res, nil
}
