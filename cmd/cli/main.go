// Command shopctl inspects the catalog from a terminal, runs workbook
// imports and renders order documents offline.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"shop-backend/internal/config"
	"shop-backend/internal/db"
	"shop-backend/internal/documents"
	"shop-backend/internal/models"
	"shop-backend/internal/repositories"
	"shop-backend/internal/services"
	"shop-backend/internal/timeutil"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/olekukonko/tablewriter"
)

const usage = `usage: shopctl <command> [flags]

commands:
  categories                  list categories
  items [-category ID]        list items
  orders                      list order history
  paylist                     list pay list entries and the total
  import -file FILE.xlsx      import a workbook into the catalog
  render -in ORDER.json -out DIR [-title T]
                              write order.pdf and order.xlsx for an order
`

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:], os.Stdout); err != nil {
		log.Fatalf("shopctl %s: %v", os.Args[1], err)
	}
}

func run(cmd string, args []string, out io.Writer) error {
	switch cmd {
	case "render":
		return renderCmd(args, out)
	case "categories", "items", "orders", "paylist", "import":
	default:
		return fmt.Errorf("unknown command %q\n\n%s", cmd, usage)
	}

	cfg := config.Load()
	if err := timeutil.SetLocation(cfg.Brand.Timezone); err != nil {
		return err
	}
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	switch cmd {
	case "categories":
		return categoriesCmd(ctx, pool, out)
	case "items":
		return itemsCmd(ctx, pool, args, out)
	case "orders":
		return ordersCmd(ctx, pool, out)
	case "paylist":
		return payListCmd(ctx, pool, out)
	default:
		return importCmd(ctx, pool, args, out)
	}
}

func renderTable(out io.Writer, header []string, rows [][]string) error {
	table := tablewriter.NewWriter(out)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

func categoriesCmd(ctx context.Context, pool *pgxpool.Pool, out io.Writer) error {
	categories, err := repositories.NewCategoryRepository(pool).List(ctx)
	if err != nil {
		return err
	}
	return renderTable(out, []string{"ID", "Name", "Created"}, categoryRows(categories))
}

func categoryRows(categories []*models.Category) [][]string {
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{strconv.Itoa(c.ID), c.Name, timeutil.Display(c.CreatedAt)})
	}
	return rows
}

func itemsCmd(ctx context.Context, pool *pgxpool.Pool, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("items", flag.ContinueOnError)
	category := fs.Int("category", 0, "only list items of this category ID")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var categoryID *int
	if *category > 0 {
		categoryID = category
	}
	items, err := repositories.NewItemRepository(pool).List(ctx, categoryID)
	if err != nil {
		return err
	}
	return renderTable(out, []string{"ID", "Category", "Name", "Qty"}, itemRows(items))
}

func itemRows(items []*models.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		rows = append(rows, []string{strconv.Itoa(it.ID), it.CategoryName, it.Name, strconv.Itoa(it.Quantity)})
	}
	return rows
}

func ordersCmd(ctx context.Context, pool *pgxpool.Pool, out io.Writer) error {
	orders, err := repositories.NewOrderRepository(pool).List(ctx)
	if err != nil {
		return err
	}
	return renderTable(out, []string{"ID", "Email", "Lines", "Status", "Verified By", "Created"}, orderRows(orders))
}

func orderRows(orders []*models.Order) [][]string {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			strconv.Itoa(o.ID), o.Email, strconv.Itoa(len(o.Items)), o.Status, o.VerifiedBy, timeutil.Display(o.CreatedAt),
		})
	}
	return rows
}

func payListCmd(ctx context.Context, pool *pgxpool.Pool, out io.Writer) error {
	repo := repositories.NewPayListRepository(pool)
	entries, err := repo.List(ctx)
	if err != nil {
		return err
	}
	total, err := repo.Total(ctx)
	if err != nil {
		return err
	}
	rows := payListRows(entries)
	rows = append(rows, []string{"", "", "", "TOTAL", strconv.FormatFloat(total, 'f', 2, 64)})
	return renderTable(out, []string{"ID", "Date", "Check No", "Paid To", "Amount"}, rows)
}

func payListRows(entries []*models.PayListEntry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			strconv.Itoa(e.ID), e.Date.Format(timeutil.DateLayout), e.CheckNo, e.PaidTo, strconv.FormatFloat(e.Amount, 'f', 2, 64),
		})
	}
	return rows
}

func importCmd(ctx context.Context, pool *pgxpool.Pool, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	file := fs.String("file", "", "workbook to import")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return fmt.Errorf("-file is required")
	}
	data, err := os.ReadFile(*file)
	if err != nil {
		return err
	}

	svc := services.NewImportService(repositories.NewCategoryRepository(pool), repositories.NewItemRepository(pool), nil)
	res, err := svc.Import(ctx, data)
	if err != nil {
		return err
	}
	if err := renderTable(out, []string{"", "Seen", "Created"}, [][]string{
		{"Categories", strconv.Itoa(res.CategoriesSeen), strconv.Itoa(res.CategoriesCreated)},
		{"Items", strconv.Itoa(res.ItemsSeen), strconv.Itoa(res.ItemsCreated)},
	}); err != nil {
		return err
	}
	for _, w := range res.Warnings {
		fmt.Fprintln(out, "warning:", w)
	}
	return nil
}

func renderCmd(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	in := fs.String("in", "", "order JSON: an order object or an array of lines")
	outDir := fs.String("out", ".", "output directory")
	title := fs.String("title", documents.DefaultTitle, "document title")
	brand := fs.String("brand", "SANT CORPORATION", "company name printed on the documents")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("-in is required")
	}
	data, err := os.ReadFile(*in)
	if err != nil {
		return err
	}
	lines, err := decodeLines(data)
	if err != nil {
		return err
	}

	paths, err := writeDocuments(documents.NewGenerator(*brand), lines, *outDir, *title, timeutil.Display(timeutil.Now()))
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintln(out, "wrote", p)
	}
	return nil
}

// decodeLines accepts either a stored order or a bare list of lines.
func decodeLines(data []byte) ([]models.OrderLine, error) {
	var lines []models.OrderLine
	if err := json.Unmarshal(data, &lines); err == nil {
		return lines, nil
	}
	var order models.Order
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, fmt.Errorf("decode order: %w", err)
	}
	return order.Items, nil
}

func writeDocuments(gen *documents.Generator, lines []models.OrderLine, dir, title, stamp string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	pdf, err := gen.RenderPDF(lines, stamp, title)
	if err != nil {
		return nil, err
	}
	xlsx, err := gen.RenderSpreadsheet(lines, stamp, title)
	if err != nil {
		return nil, err
	}

	files := []struct {
		name    string
		content []byte
	}{{"order.pdf", pdf}, {"order.xlsx", xlsx}}

	var paths []string
	for _, f := range files {
		p := filepath.Join(dir, f.name)
		if err := os.WriteFile(p, f.content, 0o644); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, nil
}
