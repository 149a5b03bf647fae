package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	appmw "github.com/ateliersoft/atelier-backend/internal/middleware"
	"github.com/ateliersoft/atelier-backend/internal/modules/auth"
	"github.com/ateliersoft/atelier-backend/internal/modules/authz"
	"github.com/ateliersoft/atelier-backend/internal/modules/catalog"
	"github.com/ateliersoft/atelier-backend/internal/modules/customer"
	"github.com/ateliersoft/atelier-backend/internal/modules/fabric"
	"github.com/ateliersoft/atelier-backend/internal/modules/insights"
	"github.com/ateliersoft/atelier-backend/internal/modules/order"
	"github.com/ateliersoft/atelier-backend/internal/modules/production"
	"github.com/ateliersoft/atelier-backend/internal/modules/recipe"
	"github.com/ateliersoft/atelier-backend/internal/modules/reporting"
	"github.com/ateliersoft/atelier-backend/internal/modules/supplier"
	"github.com/ateliersoft/atelier-backend/internal/modules/user"
)

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL is not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Fatal("failed to reach database", zap.Error(err))
	}

	// Repositories.
	userRepo := user.NewPostgresRepository(db)
	authzRepo := authz.NewPostgresRepository(db)
	catalogRepo := catalog.NewPostgresRepository(db)
	fabricRepo := fabric.NewPostgresRepository(db)
	recipeRepo := recipe.NewPostgresRepository(db)
	orderRepo := order.NewPostgresRepository(db)
	productionRepo := production.NewPostgresRepository(db)
	customerRepo := customer.NewPostgresRepository(db)
	supplierRepo := supplier.NewPostgresRepository(db)
	reportingRepo := reporting.NewPostgresRepository(db)
	insightsRepo := insights.NewPostgresRepository(db)

	// Access control snapshot.
	enforcer := authz.NewEnforcer(authzRepo, logger)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := enforcer.Load(ctx); err != nil {
		cancel()
		logger.Fatal("failed to load permissions", zap.Error(err))
	}
	cancel()

	// Services.
	userService := user.NewService(userRepo)
	authService := auth.NewService(userRepo, secret)
	authzService := authz.NewService(authzRepo, enforcer)
	catalogService := catalog.NewService(catalogRepo)
	fabricService := fabric.NewService(fabricRepo)
	recipeService := recipe.NewService(recipeRepo)
	orderService := order.NewService(orderRepo)
	productionService := production.NewService(productionRepo)
	customerService := customer.NewService(customerRepo)
	supplierService := supplier.NewService(supplierRepo)
	reportingService := reporting.NewService(reportingRepo)
	insightsGateway := insights.NewOpenAIGateway(
		os.Getenv("OPENAI_API_KEY"), os.Getenv("OPENAI_BASE_URL"), os.Getenv("OPENAI_MODEL"))
	insightsService := insights.NewService(insightsRepo, insightsGateway, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(appmw.RequestLogger(logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Public routes.
	auth.NewHandler(authService).RegisterRoutes(r)
	userHandler := user.NewHandler(userService)
	userHandler.RegisterPublicRoutes(r)

	// Protected routes: valid token plus a permission for the resource.
	r.Group(func(r chi.Router) {
		r.Use(auth.Verifier(secret))
		r.Use(authz.Middleware(enforcer))

		userHandler.RegisterRoutes(r)
		authz.NewHandler(authzService).RegisterRoutes(r)
		catalog.NewHandler(catalogService).RegisterRoutes(r)
		fabric.NewHandler(fabricService).RegisterRoutes(r)
		recipe.NewHandler(recipeService).RegisterRoutes(r)
		order.NewHandler(orderService).RegisterRoutes(r)
		production.NewHandler(productionService).RegisterRoutes(r)
		customer.NewHandler(customerService).RegisterRoutes(r)
		supplier.NewHandler(supplierService).RegisterRoutes(r)
		reporting.NewHandler(reportingService).RegisterRoutes(r)
		insights.NewHandler(insightsService).RegisterRoutes(r)
	})

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("api listening", zap.String("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
