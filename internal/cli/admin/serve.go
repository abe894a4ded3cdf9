package admin

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/shulman33/careerchat/internal/api/handlers"
	"github.com/shulman33/careerchat/internal/chat"
	"github.com/shulman33/careerchat/internal/config"
	"github.com/shulman33/careerchat/internal/database"
	"github.com/shulman33/careerchat/internal/llm"
	"github.com/shulman33/careerchat/internal/notify"
	"github.com/shulman33/careerchat/internal/profile"
	"github.com/shulman33/careerchat/internal/repository"
	"github.com/shulman33/careerchat/internal/server"
	"github.com/shulman33/careerchat/internal/service"
	"github.com/shulman33/careerchat/internal/telemetry"
	"github.com/shulman33/careerchat/internal/tools"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the chat server",
		Long:  "Start the careerchat API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().Bool("no-seed", false, "Skip seeding the knowledge store from the profile")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	prof, err := profile.Load(cfg.ProfileDir, cfg.PersonaName)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	qaRepo := repository.NewQARepository(pool)

	noSeed, _ := cmd.Flags().GetBool("no-seed")
	if !noSeed {
		inserted, err := service.NewSeeder(qaRepo, prof).Seed(ctx)
		if err != nil {
			return fmt.Errorf("failed to seed knowledge store: %w", err)
		}
		if inserted > 0 {
			log.Printf("seeded knowledge store with %d entries", inserted)
		}
	}

	chatClient := llm.NewClientWithConfig(llm.Config{
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.ChatModel,
		Timeout: cfg.ModelCallTimeout,
	})

	var evaluator chat.ReplyEvaluator
	if cfg.HasEvaluator() {
		evalClient := llm.NewGeminiClient(cfg.GoogleAPIKey, cfg.EvaluatorModel, cfg.ModelCallTimeout)
		evaluator = service.NewEvaluator(evalClient, prof)
	} else {
		log.Println("no evaluator credentials set, reply evaluation disabled")
		evaluator = service.AcceptAll{}
	}

	var pusher notify.Pusher = notify.NoopPusher{}
	if cfg.HasPushover() {
		pusher = notify.NewPushoverClient(cfg.PushoverToken, cfg.PushoverUser)
	} else {
		log.Println("no Pushover credentials set, push notifications disabled")
	}

	var emailSender notify.EmailSender = notify.NoopEmailSender{}
	if cfg.HasEmail() {
		sesClient, err := notify.NewSESClient(ctx, cfg.SESRegion, cfg.EmailSender, cfg.EmailOwner)
		if err != nil {
			return fmt.Errorf("failed to create SES client: %w", err)
		}
		emailSender = sesClient
	} else {
		log.Println("no email configuration set, follow-up emails disabled")
	}

	matcher := service.NewMatcher(qaRepo, chatClient)
	guardrails := service.NewGuardrails(chatClient)
	summarizer := service.NewSummarizer(chatClient)

	registry := tools.NewRegistry()
	tools.RegisterQATools(registry, qaRepo, matcher, pusher)
	tools.RegisterEmailTool(registry, summarizer, emailSender)

	orchestrator := chat.NewOrchestrator(prof, chatClient, guardrails, evaluator, registry)

	routerCfg := server.RouterConfig{
		ChatHandler: handlers.NewChatHandler(orchestrator),
		QAHandler:   handlers.NewQAHandler(qaRepo),
	}

	router := server.NewRouter(routerCfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
