package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/wichananm65/shopease/internal/config"
	"github.com/wichananm65/shopease/internal/coupon"
	"github.com/wichananm65/shopease/internal/db"
	"github.com/wichananm65/shopease/internal/events"
	"github.com/wichananm65/shopease/internal/product"
	"github.com/wichananm65/shopease/internal/storage"
	"go.uber.org/zap"
)

func openRecords(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Store, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverSQLite:
		st, err := storage.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("record store ready", zap.String("driver", cfg.StoreDriver), zap.String("path", cfg.SQLitePath))
		return st, st.Close, nil
	case config.DriverPostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(conn, logger); err != nil {
			conn.Close()
			return nil, nil, err
		}
		logger.Info("record store ready", zap.String("driver", cfg.StoreDriver))
		return storage.NewPostgresStore(conn), conn.Close, nil
	default:
		logger.Info("record store ready", zap.String("driver", config.DriverMemory))
		st := storage.NewMemoryStore()
		return st, st.Close, nil
	}
}

func loadProducts(path string) ([]product.Product, error) {
	if path == "" {
		return product.Defaults(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return product.LoadYAML(f)
}

func loadCoupons(path string) ([]coupon.Coupon, error) {
	if path == "" {
		return coupon.Defaults(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open coupons: %w", err)
	}
	defer f.Close()
	return coupon.LoadYAML(f)
}

// openPublisher connects to RabbitMQ when a URL is configured. An unreachable
// broker only disables events.
func openPublisher(cfg config.Config, logger *zap.Logger) events.Publisher {
	if cfg.RabbitMQURL == "" {
		return events.NoopPublisher{}
	}
	p, err := events.DialRabbit(cfg.RabbitMQURL, events.PublisherOptions{})
	if err != nil {
		logger.Warn("rabbitmq unavailable, order events disabled", zap.Error(err))
		return events.NoopPublisher{}
	}
	logger.Info("publishing order events", zap.String("exchange", events.EventsExchange))
	return p
}
