// Package server assembles the fiber application: CORS, request logging,
// public routes, the JWT gate and the protected routes.
package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/wichananm65/shopease/internal/account"
	"github.com/wichananm65/shopease/internal/cart"
	"github.com/wichananm65/shopease/internal/checkout"
	"github.com/wichananm65/shopease/internal/coupon"
	"github.com/wichananm65/shopease/internal/landing"
	"github.com/wichananm65/shopease/internal/order"
	"github.com/wichananm65/shopease/internal/payment"
	"github.com/wichananm65/shopease/internal/product"
	"github.com/wichananm65/shopease/internal/recommended"
	"github.com/wichananm65/shopease/internal/session"
	"github.com/wichananm65/shopease/internal/user"
	"go.uber.org/zap"
)

type Deps struct {
	Products *product.Service
	Coupons  *coupon.Catalog
	Users    *user.Service
	Sessions *session.Manager
	Tokens   user.TokenConfig
	Logger   *zap.Logger
}

func NewApp(d Deps) *fiber.App {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	setupCORS(app)
	app.Use(requestLogger(d.Logger.Named("http")))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "sessions": d.Sessions.Len()})
	})

	userHandler := user.NewHandler(d.Users, d.Sessions, d.Tokens)
	cartHandler := cart.NewHandler(d.Sessions, d.Products, d.Coupons)

	userHandler.RegisterPublicRoutes(app)
	product.NewHandler(d.Products).RegisterPublicRoutes(app)
	recommended.NewHandler(recommended.NewService(d.Products)).RegisterPublicRoutes(app)
	landing.NewHandler(landing.Defaults()).RegisterPublicRoutes(app)
	cartHandler.RegisterPublicRoutes(app)
	payment.NewHandler().RegisterPublicRoutes(app)

	app.Use(jwtware.New(jwtware.Config{
		SigningKey: d.Tokens.Secret,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	}))

	userHandler.RegisterProtectedRoutes(app)
	account.NewHandler(d.Sessions).RegisterProtectedRoutes(app)
	cartHandler.RegisterProtectedRoutes(app)
	checkout.NewHandler(d.Sessions).RegisterProtectedRoutes(app)
	order.NewHandler(d.Sessions).RegisterProtectedRoutes(app)

	return app
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Info("request",
			zap.String("method", c.Method()),
			zap.String("url", c.OriginalURL()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("latency", time.Since(start)))
		return err
	}
}
