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
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/estoque-api/internal/application/auth"
	"github.com/jhoicas/estoque-api/internal/application/catalog"
	"github.com/jhoicas/estoque-api/internal/application/inventory"
	"github.com/jhoicas/estoque-api/internal/domain/repository"
	"github.com/jhoicas/estoque-api/internal/infrastructure/metrics"
	"github.com/jhoicas/estoque-api/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/estoque-api/internal/infrastructure/pdf"
	"github.com/jhoicas/estoque-api/internal/infrastructure/session"
	"github.com/jhoicas/estoque-api/internal/infrastructure/store"
	httpRouter "github.com/jhoicas/estoque-api/internal/interfaces/http"
	"github.com/jhoicas/estoque-api/pkg/config"
	"github.com/jhoicas/estoque-api/pkg/logger"

	_ "github.com/jhoicas/estoque-api/docs"
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
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("configuración inválida")
	}
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	db, err := store.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("conexión a la base de datos")
	}
	defer db.Close()

	// Sesiones revocadas: Redis si está configurado (varias instancias), si no en memoria.
	var sessions repository.SessionStore
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		sessions = session.NewRedisStore(rdb)
	} else {
		sessions = session.NewMemoryStore(time.Duration(cfg.JWT.Expiration) * time.Minute)
	}

	m := metrics.New()
	notifiers := notify.Multi{notify.NewLogNotifier(log.Named("low_stock")), m}
	if cfg.AMQP.URL != "" {
		rabbit, err := notify.DialRabbit(cfg.AMQP.URL, cfg.AMQP.Queue)
		if err != nil {
			log.Fatal().Err(err).Str("queue", cfg.AMQP.Queue).Msg("conexión a RabbitMQ")
		}
		defer rabbit.Close()
		notifiers = append(notifiers, rabbit)
	}

	authUC := auth.NewAuthUseCase(db.Users, sessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogUC := catalog.NewCatalogUseCase(db.Tx, db.Products, db.Categories)
	ledgerUC := inventory.NewLedgerUseCase(db.Tx, db.Stock,
		inventory.WithNotifier(notifiers),
		inventory.WithObserver(m),
		inventory.WithLogger(log.Named("ledger")),
	)
	replenishmentUC := inventory.NewReplenishmentUseCase(db.Stock)
	historyUC := inventory.NewHistoryUseCase(db.Movements, infrapdf.NewMarotoPDFGenerator(cfg.App.Name, time.Local))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Estoque API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:             authUC,
		CatalogUC:          catalogUC,
		LedgerUC:           ledgerUC,
		ReplenishmentUC:    replenishmentUC,
		HistoryUC:          historyUC,
		Metrics:            m,
		Log:                log,
		CookieName:         cfg.Session.CookieName,
		HistoryRequireAuth: cfg.App.HistoryRequireAuth,
		IsDevelopment:      cfg.App.IsDevelopment(),
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
