package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"spareparts-backend/internal/auth"
	"spareparts-backend/internal/cache"
	"spareparts-backend/internal/config"
	"spareparts-backend/internal/database"
	"spareparts-backend/internal/db"
	"spareparts-backend/internal/handlers"
	"spareparts-backend/internal/health"
	internalhttp "spareparts-backend/internal/http"
	"spareparts-backend/internal/middleware"
	"spareparts-backend/internal/monitoring"
	"spareparts-backend/internal/repositories"
	"spareparts-backend/internal/services"
	"spareparts-backend/internal/storage"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.RunMigrations(ctx, pool, "migrations"); err != nil {
		log.Fatalf("migrations failed: %v", err)
	}
	cancel()

	if err := cache.Init(); err != nil {
		log.Printf("[Main] redis unavailable, running without cache: %v", err)
	}

	r2, err := storage.NewR2Client(cfg)
	if err != nil {
		log.Fatalf("r2 client init failed: %v", err)
	}
	if r2 == nil {
		log.Printf("[Main] R2 not configured, image uploads disabled")
	}

	// Repositories
	billRepo := repositories.NewBillRepository(pool)
	partRepo := repositories.NewSparePartRepository(pool)
	customerRepo := repositories.NewCustomerRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	seqRepo := repositories.NewSequenceRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	billingService := services.NewBillingService(pool, billRepo, partRepo, customerRepo, seqRepo)
	queryService := services.NewBillQueryService(billRepo)
	customerService := services.NewCustomerService(customerRepo)
	partService := services.NewSparePartService(partRepo, r2)
	userService := services.NewUserService(userRepo, jwtManager)
	totpService := services.NewTOTPService(userRepo)

	monitor := monitoring.NewMonitor(pool)
	checker := health.NewChecker(pool)

	h := internalhttp.Handlers{
		Auth:       handlers.NewAuthHandler(userService, totpService),
		Bills:      handlers.NewBillHandler(billingService, queryService),
		Customers:  handlers.NewCustomerHandler(customerService),
		SpareParts: handlers.NewSparePartHandler(partService),
		Admin:      handlers.NewAdminHandler(billingService, userService, totpService),
		Monitoring: handlers.NewMonitoringHandler(monitor),
		Health:     handlers.NewHealthHandler(checker),
	}

	authMw := middleware.NewAuthMiddleware(jwtManager)
	router := internalhttp.NewRouter(cfg, h, authMw)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("[Main] listening on %s", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server stopped: %v", err)
	}
}
