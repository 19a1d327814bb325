package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"property-assistant/internal/config"
	"property-assistant/internal/handler"
	"property-assistant/internal/logger"
	"property-assistant/internal/repository"
	"property-assistant/internal/service"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "property-assistant",
	Short:         "Conversational property search assistant",
	Long:          "property-assistant serves a chat API that extracts buyer preferences, ranks a property catalog and answers through an LLM.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server (default)",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd, rankCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	zlog := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	defer zlog.Sync()

	for _, w := range cfg.Warnings {
		zlog.Warn("configuration fallback", zap.String("warning", w))
	}

	zlog.Info("Property Assistant",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection when a component needs it
	var repo *repository.PostgresRepository
	if cfg.UsesPostgres() {
		repo, err = repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			return err
		}
		defer repo.Close()

		if err := repo.EnsureSchema(ctx); err != nil {
			return err
		}
		zlog.Info("connected to PostgreSQL")
	}

	source, catalogPath := catalogSource(cfg, repo)
	catalogs := service.NewCatalogStore(source, zlog)
	if _, err := catalogs.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load %s catalog: %w", cfg.Catalog.Source, err)
	}

	llm, err := service.NewLLMClient(ctx, &cfg.LLM, zlog)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM: %w", err)
	}

	// Initialize services
	sessions := repository.NewSessionCache(cfg.Session.TTL, cfg.Session.CleanupInterval, cfg.Session.HistoryTurns)
	deps := service.ChatDeps{
		Catalogs:     catalogs,
		Sessions:     sessions,
		Extractor:    service.NewPreferenceExtractor(),
		Ranker:       newRanker(cfg),
		Suggester:    service.NewSuggestionGenerator(cfg.Ranking.SuggestionLimit),
		LLM:          llm,
		ContextTurns: cfg.Session.ContextTurns,
		Logger:       zlog,
	}
	if repo != nil && cfg.PostgreSQL.TurnLogEnabled {
		deps.TurnLogger = repo
	}
	chatService := service.NewChatService(deps)

	places := service.NewGooglePlaces(cfg.Maps.APIKey, "", zlog)
	propertyService := service.NewPropertyService(catalogs, places, cfg.Maps.DefaultRadius)
	scheduleService := service.NewScheduleService(repository.NewAppointmentStore(cfg.Schedule.Path), zlog)
	adminService := service.NewAdminService(catalogs, catalogPath, zlog)

	router := handler.NewRouter(handler.RouterDeps{
		Chat:     handler.NewChatHandler(chatService, zlog),
		Property: handler.NewPropertyHandler(propertyService),
		Schedule: handler.NewScheduleHandler(scheduleService, zlog),
		Admin:    handler.NewAdminHandler(adminService, zlog),
		Server:   cfg.Server,
		Build:    handler.BuildInfo{Version: Version, BuildTime: BuildTime, GitCommit: GitCommit},
		Logger:   zlog,
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: router}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("starting server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	zlog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	zlog.Info("server stopped")
	return nil
}

// catalogSource returns the configured property source and, for the JSON
// source, the file Excel uploads are written to
func catalogSource(cfg *config.Config, repo *repository.PostgresRepository) (service.PropertySource, string) {
	if cfg.Catalog.Source == "postgres" {
		return repo, ""
	}
	return repository.NewJSONPropertySource(cfg.Catalog.Path), cfg.Catalog.Path
}

func newRanker(cfg *config.Config) *service.Ranker {
	weights := service.RankingWeights{
		Location:  cfg.Ranking.WeightLocation,
		BHK:       cfg.Ranking.WeightBHK,
		Budget:    cfg.Ranking.WeightBudget,
		Amenity:   cfg.Ranking.WeightAmenity,
		Proximity: cfg.Ranking.WeightProximity,
		Text:      cfg.Ranking.WeightText,
	}
	return service.NewRanker(service.NewScoringEngine(weights), cfg.Ranking.TopK)
}
