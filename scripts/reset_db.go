package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	"shop-backend/internal/cache"
	"shop-backend/internal/config"
	"shop-backend/internal/db"
)

// resetTables are emptied in this order; schema_migrations is kept.
var resetTables = []string{"orders", "items", "categories", "pay_list"}

func main() {
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	keepCatalog := flag.Bool("keep-catalog", false, "only clear orders and the pay list")
	flag.Parse()

	tables := resetTables
	if *keepCatalog {
		tables = []string{"orders", "pay_list"}
	}

	fmt.Println("========================================")
	fmt.Println("   Reset Database for Testing")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Printf("This will DELETE ALL ROWS from: %s\n", strings.Join(tables, ", "))
	fmt.Println("and restart their ID sequences.")
	fmt.Println()

	if !*yes {
		fmt.Print("Type 'yes' to confirm: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" {
			fmt.Println("Reset cancelled.")
			return
		}
	}

	cfg := config.Load()
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	query := fmt.Sprintf("TRUNCATE %s RESTART IDENTITY", strings.Join(tables, ", "))
	if _, err := pool.Exec(ctx, query); err != nil {
		log.Fatalf("Reset failed: %v", err)
	}

	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err == nil {
		cache.InvalidateCategoryCaches(ctx)
		cache.InvalidatePayListCaches(ctx)
	}

	fmt.Println("Database reset complete.")
}
