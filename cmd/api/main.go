package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "credit-backoffice/internal/adapter/http"
	appmw "credit-backoffice/internal/adapter/middleware"
	"credit-backoffice/internal/adapter/repository/mysql"
	"credit-backoffice/internal/config"
	accDomain "credit-backoffice/internal/domain/account"
	finDomain "credit-backoffice/internal/domain/financing"
	invDomain "credit-backoffice/internal/domain/investment"
	"credit-backoffice/internal/domain/rates"
	auditlog "credit-backoffice/internal/infrastructure/audit"
	"credit-backoffice/internal/infrastructure/cache"
	"credit-backoffice/internal/infrastructure/db"
	"credit-backoffice/internal/infrastructure/ratestore"
	"credit-backoffice/internal/usecase/financing"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}
	if err := gdb.AutoMigrate(
		&invDomain.Investment{},
		&finDomain.Financing{},
		&finDomain.Installment{},
		&accDomain.Account{},
		&accDomain.Transaction{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	rateProvider := ratestore.NewRedisProvider(rdb, rates.Static{
		rates.KeyPenaltyRate:         cfg.PenaltyRateDefault,
		rates.KeyFinancingPercentage: cfg.FinancingPercentageDefault,
	})

	uc := financing.NewUsecase(
		mysql.NewInvestmentRepository(gdb),
		mysql.NewFinancingRepository(gdb),
		mysql.NewInstallmentRepository(gdb),
		mysql.NewGormUoW(gdb),
		rateProvider,
		auditlog.NewLogEmitter(),
	)

	h := httpadp.NewHandler()
	ih := httpadp.NewInvestmentHandler(uc)
	fh := httpadp.NewFinancingHandler(uc)
	nh := httpadp.NewInstallmentHandler(uc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	e.GET("/health", h.Health)

	// idempotency covers every mutating route; GETs pass through
	api := e.Group("", appmw.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))
	api.POST("/investments", ih.CreateInvestment)
	api.GET("/investments/:investment_id", ih.GetInvestment)
	api.POST("/investments/:investment_id/adjust-value", ih.AdjustValue)
	api.POST("/investments/:investment_id/liquidate", ih.Liquidate)
	api.POST("/financings", fh.CreateFinancing)
	api.GET("/financings/:financing_id", fh.GetFinancing)
	api.POST("/financings/:financing_id/liquidate", fh.Liquidate)
	api.POST("/installments/:installment_id/pay", nh.Pay)
	api.POST("/installments/:installment_id/waive-penalty", nh.WaivePenalty)
	api.POST("/installments/:installment_id/extend-due-date", nh.ExtendDueDate)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
