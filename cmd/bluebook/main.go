package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/bluebook-erp/bluebook/internal/app"
	"github.com/bluebook-erp/bluebook/internal/auth"
	"github.com/bluebook-erp/bluebook/internal/business"
	"github.com/bluebook-erp/bluebook/internal/categories"
	"github.com/bluebook-erp/bluebook/internal/contacts"
	"github.com/bluebook-erp/bluebook/internal/platform/cache"
	"github.com/bluebook-erp/bluebook/internal/platform/db"
	"github.com/bluebook-erp/bluebook/internal/products"
	"github.com/bluebook-erp/bluebook/internal/purchasing"
	"github.com/bluebook-erp/bluebook/internal/services"
	"github.com/bluebook-erp/bluebook/jobs"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	denylist := auth.NewDenylist(redisClient)
	authService := auth.NewService(auth.NewRepository(pool))
	authHandler := auth.NewHandler(logger, authService, tokens, denylist)
	authMiddleware := auth.Middleware{Tokens: tokens, Denylist: denylist, Logger: logger}

	contactService := contacts.NewService(contacts.NewRepository(pool))
	contactHandler := contacts.NewHandler(logger, contactService)

	productCategoryService := categories.NewService(categories.NewRepository(pool, categories.KindProduct))
	productCategoryHandler := categories.NewHandler(logger, productCategoryService)
	serviceCategoryService := categories.NewService(categories.NewRepository(pool, categories.KindService))
	serviceCategoryHandler := categories.NewHandler(logger, serviceCategoryService)

	productService := products.NewService(products.NewRepository(pool), productCategoryService)
	productHandler := products.NewHandler(logger, productService)

	serviceService := services.NewService(services.NewRepository(pool), serviceCategoryService)
	serviceHandler := services.NewHandler(logger, serviceService)

	businessService := business.NewService(business.NewRepository(pool))
	businessHandler := business.NewHandler(logger, businessService)

	purchasingService := purchasing.NewService(
		purchasing.NewRepository(pool),
		contactService,
		businessService,
		app.Catalog{Products: productService, Services: serviceService},
	)
	purchasingHandler := purchasing.NewHandler(logger, purchasingService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:                 logger,
		Config:                 cfg,
		AuthHandler:            authHandler,
		AuthMiddleware:         authMiddleware,
		ContactHandler:         contactHandler,
		ProductHandler:         productHandler,
		ServiceHandler:         serviceHandler,
		ProductCategoryHandler: productCategoryHandler,
		ServiceCategoryHandler: serviceCategoryHandler,
		BusinessHandler:        businessHandler,
		PurchasingHandler:      purchasingHandler,
		JobHandler:             jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
