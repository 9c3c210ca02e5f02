package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/travel-expense/api"
	"github.com/frahmantamala/travel-expense/internal"
	"github.com/frahmantamala/travel-expense/internal/database"
	"github.com/frahmantamala/travel-expense/internal/reference"
	refRepository "github.com/frahmantamala/travel-expense/internal/reference/repository"
	"github.com/frahmantamala/travel-expense/internal/transport/middleware"
	"github.com/frahmantamala/travel-expense/internal/transport/rest"
	"github.com/frahmantamala/travel-expense/pkg/logger"
	"github.com/frahmantamala/travel-expense/web"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Migrate and seed the database, then serve the HTML pages and the JSON API.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return startHTTPServer(ctx)
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *database.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer(ctx context.Context) error {
	deps, err := initializeDependencies(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	}()

	cfg := deps.Config.Server
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		deps.Logger.Info("Starting HTTP server", "address", server.Addr, "base_currency", deps.Config.App.BaseCurrency)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		deps.Logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	deps.Logger.Info("Server stopped")
	return nil
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	cfg, db, err := openDatabase()
	if err != nil {
		return nil, err
	}
	lg := logger.LoggerWrapper()

	ok := false
	defer func() {
		if !ok {
			_ = db.Close()
		}
	}()

	version, err := db.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	lg.Info("Database migrated", "driver", db.Driver, "version", version)

	refService := reference.NewService(refRepository.New(db.Gorm), lg)
	if err := refService.Seed(ctx, cfg.App.BaseCurrency); err != nil {
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}
	if err := refService.VerifyBaseCurrency(ctx, cfg.App.BaseCurrency); err != nil {
		return nil, fmt.Errorf("invalid base currency: %w", err)
	}

	templates, err := fs.Sub(web.TemplatesFS, "templates")
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return nil, err
	}

	handlers, err := rest.NewHandlers(db, cfg, templates, lg)
	if err != nil {
		return nil, err
	}

	doc, err := middleware.LoadOpenAPI(ctx, api.OpenAPI)
	if err != nil {
		return nil, err
	}
	validate, err := middleware.OpenAPIValidator(doc, handlers.Base)
	if err != nil {
		return nil, err
	}

	ok = true
	return &Dependencies{
		Config: cfg,
		DB:     db,
		Router: rest.NewRouter(handlers, static, validate, lg),
		Logger: lg,
	}, nil
}
