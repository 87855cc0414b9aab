package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/wichananm65/shopease/internal/cart"
	"github.com/wichananm65/shopease/internal/config"
	"github.com/wichananm65/shopease/internal/coupon"
	"github.com/wichananm65/shopease/internal/logging"
	"github.com/wichananm65/shopease/internal/order"
	"github.com/wichananm65/shopease/internal/product"
	"github.com/wichananm65/shopease/internal/server"
	"github.com/wichananm65/shopease/internal/session"
	"github.com/wichananm65/shopease/internal/user"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const shutdownTimeout = 10 * time.Second

type ServeOptions struct {
	*RootOptions
	Addr string
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the ShopEase HTTP API.

Configuration comes from the environment (and the --env-file). STORE_DRIVER
selects where per-user records live: memory, sqlite or postgres.

Example:
  shopease serve
  STORE_DRIVER=sqlite SQLITE_PATH=./shopease.db shopease serve --addr :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (overrides SHOPEASE_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.Addr != "" {
		cfg.Addr = opts.Addr
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	if cfg.UsesDevSecret() {
		logger.Warn("JWT_SECRET is not set, using the development secret")
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records, closeRecords, err := openRecords(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open record store: %w", err)
	}
	defer func() {
		if err := closeRecords(); err != nil {
			logger.Error("error closing record store", zap.Error(err))
		}
	}()

	products, err := loadProducts(cfg.CatalogFile)
	if err != nil {
		return err
	}
	seedCoupons, err := loadCoupons(cfg.CouponsFile)
	if err != nil {
		return err
	}
	coupons := coupon.NewCatalog(seedCoupons)

	users, err := user.MockUsers(bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	publisher := openPublisher(cfg, logger)
	defer publisher.Close()

	sessions := session.NewManager(session.Config{
		Records:   records,
		Coupons:   coupons,
		Factory:   order.NewFactory(nil, nil),
		Gateway:   order.SimulatedGateway{Delay: cfg.OrderDelay},
		Publisher: publisher,
		Cart: cart.Options{
			NotificationTTL:     cfg.NotificationTTL,
			StrictCouponRecheck: cfg.StrictCouponRecheck,
		},
		Logger: logger,
	})

	app := server.NewApp(server.Deps{
		Products: product.NewService(product.NewInMemoryRepository(products)),
		Coupons:  coupons,
		Users:    user.NewService(user.NewInMemoryRepository(users)),
		Sessions: sessions,
		Tokens:   user.TokenConfig{Secret: []byte(cfg.JWTSecret), TTL: cfg.TokenTTL},
		Logger:   logger,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Addr), zap.Int("products", len(products)))
		errCh <- app.Listen(cfg.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		logger.Error("server shutdown", zap.Error(err))
	}
	sessions.CloseAll(shutdownCtx)
	return nil
}
