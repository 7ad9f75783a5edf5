package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRow(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want RowKind
	}{
		{"blank", Cell{}, Skip},
		{"whitespace", Cell{Text: "   "}, Skip},
		{"filled blank", Cell{Text: "", Filled: true}, Skip},
		{"items header", Cell{Text: "Items Name"}, Skip},
		{"qty header filled", Cell{Text: " qty ", Filled: true}, Skip},
		{"category", Cell{Text: "Produce", Filled: true}, CategoryMarker},
		{"item", Cell{Text: "Apples"}, ItemRow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRow(tt.cell))
		})
	}
}

func TestCategoryNameCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "Fresh Produce", categoryName("  Fresh \t  Produce "))
}
