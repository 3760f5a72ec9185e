package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"storefront/internal/config"
	"storefront/internal/docstore"
	"storefront/internal/http/handlers"
	"storefront/internal/identity"
	applog "storefront/internal/log"
	"storefront/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	out := io.Writer(os.Stdout)
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			applog.Warn("log.file.open", err, map[string]any{"path": cfg.LogFile})
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
			applog.SetOutput(out)
		}
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		applog.Warn("uploads.mkdir", err, map[string]any{"dir": cfg.UploadDir})
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		applog.Warn("db.open", err, map[string]any{"dsn": cfg.DBDSN})
		os.Exit(1)
	}
	defer db.Close()

	store := docstore.NewSQLStore(db)
	users := identity.NewSQLProvider(db)

	if cfg.SeedDemo {
		if err := repos.SeedIfEmpty(context.Background(), store); err != nil {
			applog.Warn("db.seed", err, nil)
		}
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    cfg.BodyLimit,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{Output: out}))
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))
	app.Use(cors.New())

	deps := handlers.NewDeps(store, users, cfg)
	deps.Mount(app)

	// 404 for everything else
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Route not found"})
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() { errc <- app.Listen(":" + cfg.Port) }()
	applog.Info(nil, "server.start", map[string]any{"port": cfg.Port, "api_url": cfg.APIURL})

	select {
	case err := <-errc:
		if err != nil {
			applog.Warn("server.listen", err, nil)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			applog.Warn("server.shutdown", err, nil)
		}
		applog.Info(nil, "server.stop", nil)
	}
}
