package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadp "library-backend/internal/adapter/http"
	"library-backend/internal/adapter/middleware"
	"library-backend/internal/adapter/repository/mysql"
	"library-backend/internal/config"
	"library-backend/internal/infrastructure/cache"
	"library-backend/internal/usecase/auth"
	"library-backend/internal/usecase/borrowing"
	"library-backend/internal/usecase/catalog"
	"library-backend/internal/usecase/reconcile"

	"github.com/labstack/echo/v4"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "listen port, overrides APP_PORT"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := loadConfig()
			if p := c.String("port"); p != "" {
				cfg.AppPort = p
			}
			return runServe(ctx, cfg)
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database migrations",
		Action: func(ctx context.Context, c *cli.Command) error {
			gdb, err := openDB(ctx, loadConfig())
			if err != nil {
				return err
			}
			closeDB(gdb)
			slog.Info("migrations applied")
			return nil
		},
	}
}

func seedCommand() *cli.Command {
	return &cli.Command{
		Name:  "seed",
		Usage: "Create the superuser from ADMIN_USERNAME and ADMIN_PASSWORD",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg := loadConfig()
			if cfg.AdminPassword == "" {
				return errors.New("ADMIN_PASSWORD is required")
			}
			gdb, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeDB(gdb)
			return seedAdmin(ctx, cfg, gdb)
		},
	}
}

func reconcileCommand() *cli.Command {
	return &cli.Command{
		Name:  "reconcile",
		Usage: "Report books whose available count is outside [0, quantity]",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print findings as JSON"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			gdb, err := openDB(ctx, loadConfig())
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			findings, err := reconcile.NewJob(mysql.NewBookRepository(gdb)).Run(ctx)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(findings)
			}
			for _, f := range findings {
				fmt.Printf("%s\t%s\tquantity=%d\tavailable=%d\n", f.BookID, f.Title, f.Quantity, f.Available)
			}
			return nil
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	gdb, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB(gdb)

	if err := seedAdmin(ctx, cfg, gdb); err != nil {
		return err
	}

	rdb, err := cache.Open(ctx, cfg)
	if err != nil {
		return err
	}
	var idem echo.MiddlewareFunc
	if rdb != nil {
		defer rdb.Close()
		idem = middleware.Idempotency(rdb, cfg.IdempotencyTTL())
	}

	if cfg.ReconcileSchedule != "" {
		job := reconcile.NewJob(mysql.NewBookRepository(gdb))
		if err := job.Start(cfg.ReconcileSchedule); err != nil {
			return fmt.Errorf("RECONCILE_SCHEDULE: %w", err)
		}
		defer job.Stop()
	}

	issuer := newIssuer(cfg)
	tx := mysql.NewGormUoW(gdb)
	catalogUC := catalog.NewUsecase(mysql.NewBookRepository(gdb), mysql.NewCategoryRepository(gdb), tx)
	authUC := auth.NewUsecase(mysql.NewUserRepository(gdb), mysql.NewRefreshTokenRepository(gdb), issuer)

	e := echo.New()
	e.HideBanner = true
	middleware.Register(e)
	httpadp.RegisterRoutes(e, httpadp.Handlers{
		Health:    httpadp.NewHandler(),
		Auth:      httpadp.NewAuthHandler(authUC),
		Category:  httpadp.NewCategoryHandler(catalogUC),
		Book:      httpadp.NewBookHandler(catalogUC),
		Borrowing: httpadp.NewBorrowingHandler(borrowing.NewUsecase(mysql.NewBorrowingRepository(gdb), tx)),
	}, issuer, idem)

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + cfg.AppPort
		slog.Info("listening", "addr", addr, "env", cfg.AppEnv, "db", cfg.DBDriver)
		errCh <- e.Start(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
