package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/employee-directory/internal"
	"github.com/frahmantamala/employee-directory/internal/auth"
	"github.com/frahmantamala/employee-directory/internal/core/events"
	"github.com/frahmantamala/employee-directory/internal/employee"
	"github.com/frahmantamala/employee-directory/internal/graph"
	"github.com/frahmantamala/employee-directory/internal/metrics"
	"github.com/frahmantamala/employee-directory/internal/transport/rest"
	"github.com/frahmantamala/employee-directory/internal/user"
	"github.com/frahmantamala/employee-directory/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server serving the GraphQL endpoint and the REST helpers`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config    *internal.Config
	Store     *Store
	Bus       *events.EventBus
	Router    *chi.Mux
	Logger    *slog.Logger
	Employees *employee.Service
	Auth      *auth.Service
}

func startHTTPServer() {
	deps, err := initializeDependencies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "env", deps.Config.App.Env, "store", deps.Config.Store.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		if err := deps.Bus.Wait(ctx); err != nil {
			deps.Logger.Error("Event handlers did not drain", "error", err)
		}
		if err := deps.Store.Close(); err != nil {
			deps.Logger.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func initializeDependencies(ctx context.Context) (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := config.Observability.Logging
	if err := logger.Configure(os.Stdout, logCfg.Level, logCfg.Format); err != nil {
		return nil, err
	}
	lg := logger.LoggerWrapper()

	if config.UsesDevSecret() {
		lg.Warn("JWT secret not configured, using the development fallback")
	}

	store, err := openStore(config.Store, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}
	if store.DB != nil {
		if err := autoMigrate(store.DB); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate store: %w", err)
		}
	}

	deps, err := buildDependencies(config, store, lg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	if config.Store.Seed {
		if err := seedDirectory(ctx, deps, lg); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to seed store: %w", err)
		}
	}

	return deps, nil
}

// buildDependencies wires services, the GraphQL schema and the router on top
// of an opened store.
func buildDependencies(config *internal.Config, store *Store, lg *slog.Logger) (*Dependencies, error) {
	bus := events.NewEventBus(lg)
	events.NewAuditLog(lg).Register(bus)

	employeeService := employee.NewService(store.Employees, bus, lg)
	userService := user.NewService(store.Users, lg)
	tokens := auth.NewJWTTokenGenerator(config.SigningSecret(), config.Security.TokenDuration)
	authService := auth.NewService(store.Users, employeeService, tokens, bus, lg, config.Security.BCryptCost)

	var recorder *metrics.Recorder
	var metricsHandler http.Handler
	if config.Observability.Metrics.Enabled {
		recorder = metrics.NewRecorder(config.Observability.Metrics.SlowOperationTime, lg)
		metricsHandler = recorder.Handler()
	}

	resolver := graph.NewResolver(employeeService, userService, authService, recorder, lg)
	schema, err := graph.NewSchema(resolver, graph.SchemaOptions{
		DisableIntrospection: config.IsProduction(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse GraphQL schema: %w", err)
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Routes{
		AllowedOrigins: config.Server.Origins(),
		AuthHandler:    auth.NewHandler(authService),
		UserHandler:    user.NewHandler(userService),
		GraphQL:        graph.NewHandler(schema, config.Server.MaxBodyBytes),
		Metrics:        metricsHandler,
		MetricsPath:    config.Observability.Metrics.Path,
		HealthChecks:   store.HealthChecks(),
	}, lg)

	return &Dependencies{
		Config:    config,
		Store:     store,
		Bus:       bus,
		Router:    router,
		Logger:    lg,
		Employees: employeeService,
		Auth:      authService,
	}, nil
}
