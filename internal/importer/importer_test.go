package importer

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shop-backend/internal/models"
)

type fakeStore struct {
	categories []*models.Category
	items      []*models.Item
}

func (s *fakeStore) FindCategoryByName(_ context.Context, name string) (*models.Category, error) {
	for _, c := range s.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeStore) CreateCategory(_ context.Context, name string) (*models.Category, error) {
	c := &models.Category{ID: len(s.categories) + 1, Name: name}
	s.categories = append(s.categories, c)
	return c, nil
}

func (s *fakeStore) FindItem(_ context.Context, name string, categoryID int) (*models.Item, error) {
	for _, it := range s.items {
		if it.Name == name && it.CategoryID == categoryID {
			return it, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *fakeStore) CreateItem(_ context.Context, categoryID int, name string, quantity int) (*models.Item, error) {
	it := &models.Item{ID: len(s.items) + 1, CategoryID: categoryID, Name: name, Quantity: quantity}
	s.items = append(s.items, it)
	return it, nil
}

// buildWorkbook writes values into Sheet1 and gives the listed cells a
// solid fill.
func buildWorkbook(t *testing.T, values map[string]any, filled ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	style, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC000"}},
	})
	require.NoError(t, err)
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)

	for axis, v := range values {
		require.NoError(t, f.SetCellValue("Sheet1", axis, v))
		require.NoError(t, f.SetCellStyle("Sheet1", axis, axis, bold))
	}
	for _, axis := range filled {
		require.NoError(t, f.SetCellStyle("Sheet1", axis, axis, style))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func produceWorkbook(t *testing.T) []byte {
	return buildWorkbook(t, map[string]any{
		"A1": "ITEMS NAME", "B1": "QTY",
		"A2": "Produce",
		"A3": "Apples", "B3": 10,
		"A4": "Bananas", "B4": 3,
		"A5": "qty",
		"C2": "  Dry   Goods ",
		"C3": "Rice", "D3": "n/a",
	}, "A2", "C2")
}

func TestReadWorkbookDetectsFill(t *testing.T) {
	sheet, err := ReadWorkbook(bytesReader(produceWorkbook(t)))
	require.NoError(t, err)

	assert.True(t, sheet.Cell(2, 1).Filled)
	assert.Equal(t, "Produce", sheet.Cell(2, 1).Text)
	assert.False(t, sheet.Cell(3, 1).Filled, "bold font alone is not a fill")
	assert.Equal(t, "10", sheet.Cell(3, 2).Text)
}

// rewriteParts copies an xlsx package, passing each part through edit.
// Returning false from edit drops the part.
func rewriteParts(t *testing.T, data []byte, edit func(name string, body []byte) ([]byte, bool)) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, part := range zr.File {
		rc, err := part.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())

		body, keep := edit(part.Name, body)
		if !keep {
			continue
		}
		w, err := zw.Create(part.Name)
		require.NoError(t, err)
		_, err = w.Write(body)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return out.Bytes()
}

func editStyles(replace ...string) func(string, []byte) ([]byte, bool) {
	return func(name string, body []byte) ([]byte, bool) {
		if name == "xl/styles.xml" {
			body = []byte(strings.NewReplacer(replace...).Replace(string(body)))
		}
		return body, true
	}
}

func withoutTheme(name string, body []byte) ([]byte, bool) {
	return body, !strings.HasPrefix(name, "xl/theme/")
}

func TestReadWorkbookFillVariants(t *testing.T) {
	base := produceWorkbook(t)

	cases := map[string][]byte{
		"theme colour":  rewriteParts(t, base, editStyles(`rgb="FFFFC000"`, `theme="4"`)),
		"no theme part": rewriteParts(t, base, withoutTheme),
		"theme colour without theme part": rewriteParts(t,
			rewriteParts(t, base, editStyles(`rgb="FFFFC000"`, `theme="4"`)), withoutTheme),
		"foreground colour without pattern": rewriteParts(t,
			rewriteParts(t, base, editStyles(`patternType="solid"`, `patternType="none"`)), withoutTheme),
	}

	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			sheet, err := ReadWorkbook(bytes.NewReader(data))
			require.NoError(t, err)

			assert.True(t, sheet.Cell(2, 1).Filled)
			assert.Equal(t, CategoryMarker, ClassifyRow(sheet.Cell(2, 1)))
			assert.False(t, sheet.Cell(3, 1).Filled)

			res := Parse(sheet)
			require.Len(t, res.Groups, 2)
			assert.Equal(t, "Produce", res.Groups[0].Name)
			assert.Equal(t, []ParsedItem{{"Apples", 10}, {"Bananas", 3}}, res.Groups[0].Items)
		})
	}
}

func TestReadWorkbookUsesRawQuantities(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	fill, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC000"}},
	})
	require.NoError(t, err)
	pcs := `0 "pcs"`
	pcsStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &pcs})
	require.NoError(t, err)
	dollars := `[$$-409]#,##0`
	dollarStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dollars})
	require.NoError(t, err)

	for axis, v := range map[string]any{"A2": "Produce", "A3": "Apples", "B3": 10, "A4": "Pears", "B4": 1200} {
		require.NoError(t, f.SetCellValue("Sheet1", axis, v))
	}
	require.NoError(t, f.SetCellStyle("Sheet1", "A2", "A2", fill))
	require.NoError(t, f.SetCellStyle("Sheet1", "B3", "B3", pcsStyle))
	require.NoError(t, f.SetCellStyle("Sheet1", "B4", "B4", dollarStyle))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	sheet, err := ReadWorkbook(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	res := Parse(sheet)

	require.Len(t, res.Groups, 1)
	assert.Equal(t, []ParsedItem{{"Apples", 10}, {"Pears", 1200}}, res.Groups[0].Items)
	assert.Empty(t, res.Warnings)
}

func TestImportCreatesCategoriesAndItems(t *testing.T) {
	store := &fakeStore{}
	res, err := New(store).Import(context.Background(), produceWorkbook(t))
	require.NoError(t, err)

	assert.Equal(t, 2, res.CategoriesCreated)
	assert.Equal(t, 3, res.ItemsCreated)
	assert.Equal(t, 2, res.CategoriesSeen)
	assert.Equal(t, 3, res.ItemsSeen)
	assert.Len(t, res.Warnings, 1)

	require.Len(t, store.categories, 2)
	assert.Equal(t, "Produce", store.categories[0].Name)
	assert.Equal(t, "Dry Goods", store.categories[1].Name)

	byName := map[string]*models.Item{}
	for _, it := range store.items {
		byName[it.Name] = it
	}
	assert.Equal(t, 10, byName["Apples"].Quantity)
	assert.Equal(t, 3, byName["Bananas"].Quantity)
	assert.Equal(t, 0, byName["Rice"].Quantity)
	assert.Equal(t, store.categories[1].ID, byName["Rice"].CategoryID)
}

func TestImportIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	data := produceWorkbook(t)
	im := New(store)

	_, err := im.Import(context.Background(), data)
	require.NoError(t, err)
	res, err := im.Import(context.Background(), data)
	require.NoError(t, err)

	assert.Zero(t, res.CategoriesCreated)
	assert.Zero(t, res.ItemsCreated)
	assert.Len(t, store.categories, 2)
	assert.Len(t, store.items, 3)
}

func TestImportKeepsExistingQuantities(t *testing.T) {
	store := &fakeStore{}
	c, _ := store.CreateCategory(context.Background(), "Produce")
	_, _ = store.CreateItem(context.Background(), c.ID, "Apples", 99)

	res, err := New(store).Import(context.Background(), produceWorkbook(t))
	require.NoError(t, err)

	assert.Equal(t, 1, res.CategoriesCreated)
	assert.Equal(t, 2, res.ItemsCreated)
	apples, err := store.FindItem(context.Background(), "Apples", c.ID)
	require.NoError(t, err)
	assert.Equal(t, 99, apples.Quantity)
}

func TestImportRejectsMissingOrInvalidFile(t *testing.T) {
	im := New(&fakeStore{})

	_, err := im.Import(context.Background(), nil)
	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))

	_, err = im.Import(context.Background(), []byte("not a workbook"))
	require.True(t, errors.As(err, &verr))
}

type failingStore struct{ fakeStore }

func (s *failingStore) CreateItem(context.Context, int, string, int) (*models.Item, error) {
	return nil, errors.New("disk full")
}

func TestImportPropagatesStoreErrors(t *testing.T) {
	_, err := New(&failingStore{}).Import(context.Background(), produceWorkbook(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func bytesReader(b []byte) *bytes.Reader { return bytes.NewReader(b) }
