// Package documents renders an order as a spreadsheet and as a PDF.
// Rendering is pure: no I/O, and the input lines are drawn in the order given.
package documents

import (
	"strconv"
	"strings"

	"shop-backend/internal/models"
)

const DefaultTitle = "Order Summary"

const placeholder = "-"

type Generator struct {
	brand    string
	layout   Layout
	compress bool
}

func NewGenerator(brand string) *Generator {
	return &Generator{brand: brand, layout: DefaultLayout(), compress: true}
}

func (g *Generator) Brand() string { return g.brand }

func subtitle(title, timestamp string) string {
	if title == "" {
		title = DefaultTitle
	}
	return title + " — " + timestamp
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return placeholder
	}
	return s
}

func quantityText(q int) string {
	return strconv.Itoa(q)
}

// lineText returns the display values of a line, category first.
func lineText(l models.OrderLine) (string, string, string) {
	return orPlaceholder(l.Category), orPlaceholder(l.Name), quantityText(l.Quantity)
}
