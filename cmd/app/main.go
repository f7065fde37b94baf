package main

import (
	"context"
	"log"
	"time"

	"github.com/werawoot/krua-thai/external/abstractapi"
	"github.com/werawoot/krua-thai/external/midtrans"

	"github.com/werawoot/krua-thai/internal/config"
	"github.com/werawoot/krua-thai/internal/db"
	"github.com/werawoot/krua-thai/internal/middleware"
	"github.com/werawoot/krua-thai/internal/repository"
	"github.com/werawoot/krua-thai/internal/services"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// ======================
	// INFRA
	// ======================
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	middleware.SetSecret(cfg.Auth.JWTSecret)

	pool, err := db.Connect(context.Background(), cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	// ======================
	// EXTERNALS
	// ======================
	var emailValidator services.EmailValidator
	if cfg.Email.ReputationCheck {
		emailValidator, err = abstractapi.NewReputationValidator(
			cfg.Email.AbstractKey, time.Duration(cfg.Email.TimeoutSeconds)*time.Second)
		if err != nil {
			logger.Fatal("email reputation validator init failed", zap.Error(err))
		}
	} else {
		emailValidator = services.NewLocalValidator()
	}

	snapClient := midtrans.NewSnapClient(cfg.Midtrans.ServerKey, cfg.Midtrans.Environment)

	// ======================
	// REPOSITORIES
	// ======================
	userRepo := repository.NewUserRepository(pool)
	categoryRepo := repository.NewCategoryRepository(pool)
	menuRepo := repository.NewMenuRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	paymentRepo := repository.NewPaymentRepository(pool)
	subscriptionRepo := repository.NewSubscriptionRepository(pool)

	// ======================
	// SERVICES
	// ======================
	authSvc := services.NewAuthService(userRepo, emailValidator)
	userSvc := services.NewUserService(userRepo)
	categorySvc := services.NewCategoryService(categoryRepo)
	menuSvc := services.NewMenuService(menuRepo, categoryRepo)
	cartSvc := services.NewCartService(cartRepo, menuRepo, logger)
	checkoutSvc := services.NewCheckoutService(userRepo, orderRepo, paymentRepo, cartRepo, logger)
	orderSvc := services.NewOrderService(orderRepo, userRepo)
	paymentSvc := services.NewPaymentService(paymentRepo, orderRepo, userRepo, snapClient, cfg.Midtrans.ServerKey, logger)
	subscriptionSvc := services.NewSubscriptionService(subscriptionRepo, menuRepo)

	// ======================
	// ECHO
	// ======================
	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	api := e.Group("/api")

	// ======================
	// ROUTES (ONLY REGISTRATION)
	// ======================
	registerAuthRoutes(api, authSvc, cfg.Auth.TokenTTLHours)
	registerProfileRoutes(api, userSvc)
	registerCategoryRoutes(api, categorySvc)
	registerMenuRoutes(api, menuSvc)
	registerCartRoutes(api, cartSvc)
	registerCheckoutRoutes(api, checkoutSvc)
	registerOrderRoutes(api, orderSvc)
	registerPaymentRoutes(api, paymentSvc)
	registerSubscriptionRoutes(api, subscriptionSvc)

	// ======================
	// SERVER
	// ======================
	logger.Info("starting server", zap.String("port", cfg.Server.Port))
	e.Logger.Fatal(e.Start(":" + cfg.Server.Port))
}
