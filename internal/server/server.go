// Package server is the composition root: it loads config, connects the
// backing services and wires repositories, services and controllers together.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/kirana/app/controllers"
	"github.com/shashiranjanraj/kirana/app/repositories"
	"github.com/shashiranjanraj/kirana/app/routes"
	"github.com/shashiranjanraj/kirana/app/services"
	"github.com/shashiranjanraj/kirana/config"
	"github.com/shashiranjanraj/kirana/database/indexes"
	"github.com/shashiranjanraj/kirana/internal/kernel"
	"github.com/shashiranjanraj/kirana/pkg/cache"
	"github.com/shashiranjanraj/kirana/pkg/database"
	"github.com/shashiranjanraj/kirana/pkg/gateway"
	"github.com/shashiranjanraj/kirana/pkg/logger"
	"github.com/shashiranjanraj/kirana/pkg/queue"
	"github.com/shashiranjanraj/kirana/pkg/router"
)

// Start boots the application and blocks until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := database.Connect(ctx); err != nil {
		return err
	}
	defer database.Disconnect(context.Background())

	// Mirror warnings and errors into the logs collection alongside stdout.
	sink := logger.NewMongoSink(database.DB().Collection("logs"), slog.LevelWarn)
	defer sink.Close()
	logger.SetHandler(logger.NewMultiHandler(logger.L.Handler(), sink))

	if err := cache.Connect(ctx); err != nil {
		logger.Warn("cache unavailable, continuing without it", "error", err)
	}

	if err := indexes.Ensure(ctx, database.DB()); err != nil {
		return err
	}

	if cache.RDB != nil && config.QueueDriver() == "redis" {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	services.RegisterJobs()
	queue.StartWorkers(ctx, 2)

	handler := kernel.NewHandler(buildRoutes())

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("kirana listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildRoutes wires the full dependency graph and returns the route
// registration callback for the kernel.
func buildRoutes() func(*router.Router) {
	db := database.DB()

	categoryRepo := repositories.NewMongoCategoryRepository(db)
	productRepo := repositories.NewMongoProductRepository(db, categoryRepo)
	orderRepo := repositories.NewMongoOrderRepository(db)
	userRepo := repositories.NewMongoUserRepository(db)

	catalog := services.NewCatalogService(productRepo, categoryRepo)
	checkout := services.NewCheckoutService(orderRepo, userRepo, newGateway())
	auth := services.NewAuthService(userRepo)

	productCtrl := controllers.NewProductController(catalog)
	checkoutCtrl := controllers.NewCheckoutController(checkout)
	authCtrl := controllers.NewAuthController(auth)

	return func(r *router.Router) {
		routes.RegisterAPI(r, productCtrl, checkoutCtrl, authCtrl)
	}
}

// newGateway returns the Braintree gateway when credentials are configured,
// otherwise an in-memory fake so local development works out of the box.
func newGateway() gateway.PaymentGateway {
	if config.BraintreeMerchantID() == "" {
		logger.Warn("no braintree credentials, using fake payment gateway")
		return gateway.NewFake()
	}
	return gateway.NewBraintree()
}
