package documents

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf/v2"

	"shop-backend/internal/models"
)

type rgb struct{ r, g, b int }

var (
	brandBlue  = rgb{0x0D, 0x47, 0xA1}
	headerBlue = rgb{0x19, 0x76, 0xD2}
	rowShade   = rgb{0xF3, 0xF6, 0xFA}
	bodyText   = rgb{0x33, 0x33, 0x33}
	mutedText  = rgb{0x66, 0x66, 0x66}
	white      = rgb{0xFF, 0xFF, 0xFF}
)

const fontFamily = "Helvetica"

type pdfWriter struct {
	pdf    *gofpdf.Fpdf
	layout Layout
	tr     func(string) string
}

// RenderPDF draws the order table on A4 pages. The column header band is
// repeated at the top of every page.
func (g *Generator) RenderPDF(lines []models.OrderLine, timestamp, title string) ([]byte, error) {
	l := g.layout
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(l.Margin, l.Margin, l.Margin)
	pdf.SetAutoPageBreak(false, l.Margin)
	pdf.SetCompression(g.compress)
	pdf.SetTitle(subtitle(title, timestamp), true)
	pdf.SetAuthor(g.brand, true)

	w := &pdfWriter{pdf: pdf, layout: l, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	plan := l.Plan(len(lines))

	pdf.AddPage()
	w.banner(g.brand, subtitle(title, timestamp))

	for i, page := range plan.Pages {
		if i > 0 {
			pdf.AddPage()
		}
		w.header(page.Header)
		for _, row := range page.Rows {
			w.row(row, lines[row.Index])
		}
	}

	cols := l.Columns()
	if plan.Empty {
		w.setFont("", 10, bodyText)
		w.text(cols.Category+8, plan.EmptyY-4, l.TableWidth()-16, l.RowHeight, "No items in this order.", "LM")
	}

	w.setFont("", 9, mutedText)
	w.text(l.Left(), plan.FooterY, l.ContentWidth(), 12, "Generated: "+timestamp, "LM")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *pdfWriter) banner(brand, sub string) {
	l := w.layout
	w.setFont("B", 18, brandBlue)
	w.text(l.Left(), l.Margin, l.ContentWidth(), l.TitleHeight, brand, "CM")
	w.setFont("", 12, bodyText)
	w.text(l.Left(), l.Margin+l.TitleHeight+l.TitleGap, l.ContentWidth(), l.SubtitleHeight, sub, "CM")
}

func (w *pdfWriter) header(h HeaderBand) {
	l := w.layout
	cols := l.Columns()
	w.fill(headerBlue)
	w.pdf.Rect(l.Left(), h.Y, l.TableWidth(), l.HeaderHeight, "F")

	w.setFont("B", 11, white)
	w.text(cols.Category+8, h.Y, 180, l.HeaderHeight, "Category", "LM")
	w.text(cols.Item+8, h.Y, cols.Quantity-cols.Item-8, l.HeaderHeight, "Item", "LM")
	w.text(cols.Quantity, h.Y, 56, l.HeaderHeight, "Quantity", "RM")
}

func (w *pdfWriter) row(r RowBand, line models.OrderLine) {
	l := w.layout
	cols := l.Columns()
	top := r.Y - 4
	if r.Shaded {
		w.fill(rowShade)
		w.pdf.Rect(l.Left(), top, l.TableWidth(), l.RowHeight, "F")
	}

	category, name, qty := lineText(line)
	w.setFont("", 10, bodyText)
	w.text(cols.Category+8, top, 180, l.RowHeight, category, "LM")
	w.text(cols.Item+8, top, cols.Quantity-cols.Item-8, l.RowHeight, name, "LM")
	w.text(cols.Quantity, top, 56, l.RowHeight, qty, "RM")
}

func (w *pdfWriter) setFont(style string, size float64, c rgb) {
	w.pdf.SetFont(fontFamily, style, size)
	w.pdf.SetTextColor(c.r, c.g, c.b)
}

func (w *pdfWriter) fill(c rgb) {
	w.pdf.SetFillColor(c.r, c.g, c.b)
}

func (w *pdfWriter) text(x, y, width, height float64, s, align string) {
	w.pdf.SetXY(x, y)
	w.pdf.CellFormat(width, height, w.fit(w.tr(s), width), "", 0, align, false, 0, "")
}

// fit shortens s with an ellipsis until it fits in width.
func (w *pdfWriter) fit(s string, width float64) string {
	if w.pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && w.pdf.GetStringWidth(s+"...") > width {
		_, size := utf8.DecodeLastRuneInString(s)
		s = s[:len(s)-size]
	}
	return s + "..."
}
