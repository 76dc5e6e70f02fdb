package main

import (
	"context"
	"database/sql"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"kuku/internal/auth"
	"kuku/internal/commons"
	"kuku/internal/config"
	"kuku/internal/dashboard"
	"kuku/internal/infrastructure/lock"
	"kuku/internal/infrastructure/logger"
	"kuku/internal/infrastructure/mysql"
	"kuku/internal/infrastructure/redisstore"
	"kuku/internal/infrastructure/sqlite"
	"kuku/internal/order"
	"kuku/internal/payment"
	"kuku/internal/payment/gateway"
	paymentservice "kuku/internal/payment/service"
	"kuku/internal/product"
	"kuku/internal/server"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the gRPC health probe",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := commons.LoadConfig(path)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			return runServe(cfg)
		},
	}
}

func runServe(cfg *config.Config) error {
	zapLogger, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer zapLogger.Sync()

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()
	zapLogger.Info("database connected", zap.String("driver", cfg.Database.Driver))

	var locker paymentservice.OrderLocker = lock.NewKeyedMutex()
	var events paymentservice.EventStore = paymentservice.NoopEventStore{}
	if cfg.Redis.Addr != "" {
		client, err := redisstore.NewClient(context.Background(), cfg.Redis)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer client.Close()
		locker = redisstore.NewOrderLocker(client, cfg.Payment.LockTTL, zapLogger)
		events = redisstore.NewEventStore(client)
		zapLogger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		zapLogger.Info("redis not configured, using in-process order locks")
	}

	verifier, err := gateway.NewVerifier(cfg.Payment)
	if err != nil {
		return err
	}
	if cfg.Payment.WebhookSecret == "" {
		zapLogger.Warn("PAYMENT_WEBHOOK_SECRET is empty, every webhook will be rejected")
	}

	productModule := product.NewModule(db, zapLogger)
	authModule := auth.NewModule(cfg.Auth, zapLogger)

	router := server.NewRouter(server.Handlers{
		Product:      productModule.Controller,
		Order:        order.NewModule(db, cfg, productModule.Service, zapLogger),
		Payment:      payment.NewModule(db, cfg, verifier, locker, events, zapLogger),
		Dashboard:    dashboard.NewModule(db, zapLogger),
		Auth:         authModule.Controller,
		RequireAdmin: authModule.RequireAdmin,
	}, zapLogger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.GRPC.Port > 0 {
		healthSrv := server.NewHealthServer(cfg.GRPC.Port, db, zapLogger)
		go func() {
			if err := healthSrv.Start(); err != nil {
				zapLogger.Error("grpc health server error", zap.Error(err))
			}
		}()
		defer healthSrv.Stop()
	}

	if err := server.New(cfg.Server, router, zapLogger).Run(ctx); err != nil {
		return err
	}

	zapLogger.Info("server stopped gracefully")
	return nil
}

// openDatabase opens the pool for the configured driver. SQLite gets its
// schema applied on open.
func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.NewConnection(cfg)
	case config.DriverSQLite:
		return sqlite.NewConnection(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
