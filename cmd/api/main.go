package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/trolley-api/internal/application/allocation"
	"github.com/jhoicas/trolley-api/internal/application/catalog"
	"github.com/jhoicas/trolley-api/internal/application/drawers"
	"github.com/jhoicas/trolley-api/internal/application/ledger"
	"github.com/jhoicas/trolley-api/internal/application/packing"
	"github.com/jhoicas/trolley-api/internal/domain/repository"
	"github.com/jhoicas/trolley-api/internal/infrastructure/lock"
	"github.com/jhoicas/trolley-api/internal/infrastructure/memory"
	"github.com/jhoicas/trolley-api/internal/infrastructure/postgres"
	"github.com/jhoicas/trolley-api/internal/infrastructure/qrcode"
	"github.com/jhoicas/trolley-api/internal/infrastructure/report"
	httpRouter "github.com/jhoicas/trolley-api/internal/interfaces/http"
	"github.com/jhoicas/trolley-api/pkg/config"
	"github.com/jhoicas/trolley-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// txRunner une los dos puertos transaccionales que implementan ambos adaptadores.
type txRunner interface {
	allocation.TxRunner
	catalog.TxRunner
}

// stores adaptadores de persistencia seleccionados por STORE_DRIVER.
type stores struct {
	batches  repository.BatchRepository
	drawers  repository.DrawerRepository
	layouts  repository.DrawerLayoutRepository
	statuses repository.DrawerStatusRepository
	history  repository.RestockHistoryRepository
	tx       txRunner
	close    func()
}

func openStores(ctx context.Context, cfg *config.Config, log *logger.Logger) stores {
	if cfg.Store.Driver == config.StoreDriverMemory {
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		s := memory.NewStore()
		batches, drawerRepo, layouts, statuses, history := s.Repos()
		return stores{
			batches: batches, drawers: drawerRepo, layouts: layouts, statuses: statuses, history: history,
			tx: memory.NewTxRunner(s), close: func() {},
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.Store.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		log.Info().Msg("esquema aplicado")
	}
	return stores{
		batches:  postgres.NewBatchRepository(pool),
		drawers:  postgres.NewDrawerRepository(pool),
		layouts:  postgres.NewDrawerLayoutRepository(pool),
		statuses: postgres.NewDrawerStatusRepository(pool),
		history:  postgres.NewRestockHistoryRepository(pool),
		tx:       postgres.NewTxRunner(pool),
		close:    pool.Close,
	}
}

func newLocker(ctx context.Context, cfg *config.Config, log *logger.Logger) (allocation.DrawerLocker, func()) {
	if !cfg.Redis.Enabled() {
		log.Info().Msg("bloqueo por cajón en proceso (REDIS_ADDR vacío)")
		return lock.NewKeyedLocker(), func() {}
	}
	rdb, err := lock.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
	}
	log.Info().Str("addr", cfg.Redis.Addr).Msg("bloqueo por cajón distribuido (Redis)")
	return lock.NewRedisLocker(rdb, cfg.Redis.LockTTL(), log), func() { _ = rdb.Close() }
}

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
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	st := openStores(ctx, cfg, log)
	defer st.close()

	locker, closeLocker := newLocker(ctx, cfg, log)
	defer closeLocker()

	catalogUC := catalog.NewUseCase(st.batches, st.tx, cfg.FEFO.ExpiringDays, cfg.FEFO.CriticalDays)
	drawersUC := drawers.NewUseCase(st.drawers, st.layouts, qrcode.NewRenderer())
	tracker := allocation.NewTracker(st.drawers, st.statuses, st.tx, locker, log, cfg.FEFO.RestockThresholdPct)
	ledgerUC := ledger.NewUseCase(st.history, report.NewXLSXRenderer())
	workflow := packing.NewWorkflow(drawersUC, tracker, ledgerUC, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Trolley API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		AppName:   cfg.App.Name,
		CatalogUC: catalogUC,
		DrawersUC: drawersUC,
		Tracker:   tracker,
		LedgerUC:  ledgerUC,
		Packing:   workflow,
		JWTSecret: cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
