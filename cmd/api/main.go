package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/authors-report/internal/application/auth"
	"github.com/jhoicas/authors-report/internal/application/author"
	"github.com/jhoicas/authors-report/internal/application/ingestion"
	"github.com/jhoicas/authors-report/internal/application/ports"
	"github.com/jhoicas/authors-report/internal/application/reports"
	"github.com/jhoicas/authors-report/internal/domain/report"
	"github.com/jhoicas/authors-report/internal/infrastructure/kontur"
	"github.com/jhoicas/authors-report/internal/infrastructure/lifepos"
	infralock "github.com/jhoicas/authors-report/internal/infrastructure/lock"
	infrapdf "github.com/jhoicas/authors-report/internal/infrastructure/pdf"
	"github.com/jhoicas/authors-report/internal/infrastructure/postgres"
	"github.com/jhoicas/authors-report/internal/infrastructure/sheets"
	infraxlsx "github.com/jhoicas/authors-report/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/authors-report/internal/interfaces/http"
	"github.com/jhoicas/authors-report/pkg/config"
	"github.com/jhoicas/authors-report/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("commission_rate", cfg.Report.CommissionRate.String()).
		Msg("iniciando aplicación")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	saleRecordRepo := postgres.NewSaleRecordRepository(pool)

	ledger, err := sheets.NewLedger(ctx, cfg.Sheets)
	if err != nil {
		log.Fatal().Err(err).Msg("cliente de Google Sheets")
	}
	salesSource := lifepos.NewClient(cfg.LifePOS, log.Component("lifepos"))
	inventorySource := kontur.NewClient(cfg.Kontur)

	calc := report.NewCalculator(cfg.Report.CommissionRate)

	// Lock de sincronización: Redis si está configurado; si no, solo dentro del proceso.
	var locker ports.Locker = infralock.NewLocalLocker()
	if cfg.Redis.Enabled() {
		rdb, err := infralock.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer rdb.Close()
		locker = infralock.NewRedisLocker(rdb)
		log.Info().Str("addr", cfg.Redis.Address).Msg("lock de sincronización en Redis")
	}

	syncUC := ingestion.NewSyncUseCase(salesSource, inventorySource, saleRecordRepo, calc, log.Component("sync"))
	reportUC := reports.NewUseCase(saleRecordRepo, ledger, calc, cfg.Report.Timeout)
	exportUC := reports.NewExportUseCase(reportUC, infraxlsx.NewExporter(), infrapdf.NewMarotoReportExporter())
	authorUC := author.NewUseCase(userRepo, ledger)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	if cfg.Sync.Enabled {
		scheduler := ingestion.NewScheduler(syncUC, locker, ingestion.SchedulerConfig{
			Interval: cfg.Sync.Interval,
			Timeout:  cfg.Sync.Timeout,
			LockTTL:  cfg.Sync.LockTTL,
		}, log.Component("scheduler"))
		go scheduler.Start(ctx)
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.Report.Timeout + time.Second*10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.AccessLog(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Authors Report API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		AuthorUC:  authorUC,
		ReportUC:  reportUC,
		ExportUC:  exportUC,
		Sync:      syncUC,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
