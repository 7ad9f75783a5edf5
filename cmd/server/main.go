package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shop-backend/internal/archive"
	"shop-backend/internal/auth"
	"shop-backend/internal/cache"
	"shop-backend/internal/config"
	"shop-backend/internal/database"
	"shop-backend/internal/db"
	"shop-backend/internal/documents"
	h "shop-backend/internal/http"
	"shop-backend/internal/handlers"
	"shop-backend/internal/health"
	"shop-backend/internal/mailer"
	"shop-backend/internal/middleware"
	"shop-backend/internal/monitoring"
	"shop-backend/internal/repositories"
	"shop-backend/internal/scheduler"
	"shop-backend/internal/services"
	"shop-backend/internal/timeutil"
	"shop-backend/migrations"
)

func main() {
	skipMigrations := flag.Bool("skip-migrations", false, "do not apply pending migrations on startup")
	migrateOnly := flag.Bool("migrate-only", false, "apply pending migrations and exit")
	flag.Parse()

	cfg := config.Load()

	if err := timeutil.SetLocation(cfg.Brand.Timezone); err != nil {
		log.Printf("[Config] Unknown timezone %q, using local time: %v", cfg.Brand.Timezone, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Database unavailable: %v", err)
	}
	defer pool.Close()
	log.Printf("Connected to database: %s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)

	if !*skipMigrations {
		if err := database.NewMigrator(pool, migrations.FS).RunMigrations(ctx); err != nil {
			log.Fatalf("Migrations failed: %v", err)
		}
	}
	if *migrateOnly {
		return
	}

	// Redis is optional; without it every request reads Postgres
	if err := cache.Init(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (serving straight from Postgres)", err)
	}

	// Live inventory events
	hub := monitoring.NewHub()
	go hub.Run(ctx)

	// Repositories
	categoryRepo := repositories.NewCategoryRepository(pool)
	itemRepo := repositories.NewItemRepository(pool)
	orderRepo := repositories.NewOrderRepository(pool)
	payListRepo := repositories.NewPayListRepository(pool)

	// Mail delivery falls back to logging when SMTP is not configured
	var orderMailer mailer.Mailer
	if cfg.Mail.Enabled {
		orderMailer = mailer.NewSMTPMailer(mailer.SMTPConfig{
			Host:     cfg.Mail.Host,
			Port:     cfg.Mail.Port,
			User:     cfg.Mail.User,
			Password: cfg.Mail.Password,
			FromName: cfg.Mail.FromName,
		})
		log.Printf("[Mailer] Sending through %s:%d as %s", cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User)
	} else {
		orderMailer = mailer.NewLogMailer()
		log.Printf("[Mailer] EMAIL_USER/EMAIL_PASS not set, order emails will only be logged")
	}

	brand := mailer.Brand{Name: cfg.Brand.Name, SupportEmail: cfg.Brand.SupportEmail, Phone: cfg.Brand.Phone}
	jwtManager := auth.NewJWTManager(cfg)

	// Services
	categoryService := services.NewCategoryService(categoryRepo, hub)
	itemService := services.NewItemService(itemRepo, categoryRepo, hub)
	importService := services.NewImportService(categoryRepo, itemRepo, hub)
	orderService := services.NewOrderService(orderRepo, itemRepo, documents.NewGenerator(cfg.Brand.Name), orderMailer, brand, hub)
	payListService := services.NewPayListService(payListRepo, hub)
	adminAuthService := services.NewAdminAuthService(services.AdminCredentials{
		Email:        cfg.Admin.Email,
		Password:     cfg.Admin.Password,
		PasswordHash: cfg.Admin.PasswordHash,
		TOTPSecret:   cfg.Admin.TOTPSecret,
		MaxAttempts:  cfg.Admin.MaxAttempts,
	}, jwtManager)

	archiver, err := archive.NewS3(ctx, cfg.Archive)
	if err != nil {
		log.Printf("[Archive] Disabled: %v", err)
	} else if archiver != nil {
		orderService.SetArchiver(archiver)
	}

	// Stale quantity reset
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		after := time.Duration(cfg.Scheduler.ResetAfterMinutes) * time.Minute
		sched, err = scheduler.New(cfg.Scheduler.Spec, after, itemService)
		if err != nil {
			log.Fatalf("[Scheduler] %v", err)
		}
		sched.Start()
	}

	// Handlers
	router := h.NewRouter(
		handlers.NewAdminAuthHandler(adminAuthService),
		handlers.NewCategoryHandler(categoryService),
		handlers.NewItemHandler(itemService),
		handlers.NewImportHandler(importService, cfg.Import.MaxUploadMB),
		handlers.NewOrderHandler(orderService),
		handlers.NewPayListHandler(payListService),
		handlers.NewHealthHandler(health.NewHealthChecker(pool, hub)),
		hub,
		middleware.NewAuthMiddleware(jwtManager),
	)

	corsMiddleware := middleware.NewCORS(cfg)

	// Wrap with panic recovery, metrics and request logging
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(middleware.APILogging(corsMiddleware(router))))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
