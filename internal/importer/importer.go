// Package importer turns an inventory workbook into categories and items.
// Category boundaries are inferred from cell fill colour.
package importer

import (
	"bytes"
	"context"
	"log"

	"shop-backend/internal/metrics"
	"shop-backend/internal/models"
)

type Importer struct {
	store Store
}

func New(store Store) *Importer {
	return &Importer{store: store}
}

// Import parses the workbook and reconciles it with the store. Running it
// twice with the same file creates nothing the second time.
func (im *Importer) Import(ctx context.Context, data []byte) (*models.ImportResult, error) {
	if len(data) == 0 {
		return nil, models.NewValidationError("file", "No file uploaded")
	}

	sheet, err := ReadWorkbook(bytes.NewReader(data))
	if err != nil {
		log.Printf("[Import] Unreadable workbook: %v", err)
		return nil, models.NewValidationError("file", "File is not a readable .xlsx workbook")
	}

	parsed := Parse(sheet)
	for _, w := range parsed.Warnings {
		log.Printf("[Import] %s", w)
	}
	metrics.ImportRowsTotal.WithLabelValues("category").Add(float64(parsed.Stats.Categories))
	metrics.ImportRowsTotal.WithLabelValues("item").Add(float64(parsed.Stats.Items))
	metrics.ImportRowsTotal.WithLabelValues("orphan").Add(float64(parsed.Stats.Orphans))
	metrics.ImportRowsTotal.WithLabelValues("skipped").Add(float64(parsed.Stats.Skipped))

	rec, err := Reconcile(ctx, im.store, parsed.Groups)
	if err != nil {
		return nil, err
	}

	log.Printf("[Import] %d categories (%d new), %d items (%d new)",
		parsed.Stats.Categories, rec.CategoriesCreated, parsed.Stats.Items, rec.ItemsCreated)

	warnings := parsed.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return &models.ImportResult{
		CategoriesCreated: rec.CategoriesCreated,
		ItemsCreated:      rec.ItemsCreated,
		CategoriesSeen:    parsed.Stats.Categories,
		ItemsSeen:         parsed.Stats.Items,
		Warnings:          warnings,
	}, nil
}
