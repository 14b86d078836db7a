package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	sheetsadapter "github.com/emiliopalmerini/activitybot/internal/adapters/sheets"
	"github.com/emiliopalmerini/activitybot/internal/adapters/turso"
	"github.com/emiliopalmerini/activitybot/internal/bot"
	"github.com/emiliopalmerini/activitybot/internal/database"
	"github.com/emiliopalmerini/activitybot/internal/infrastructure/config"
	"github.com/emiliopalmerini/activitybot/internal/migrate"
	"github.com/emiliopalmerini/activitybot/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the bot",
	Long: `Start the Telegram long-poll loop and the operational HTTP server
(/healthz, /metrics).

Configuration comes from the environment:
  TELEGRAM_BOT_TOKEN        bot token (required)
  BACKEND                   "turso" (default) or "sheets"
  TURSO_DATABASE_URL        database URL or file DSN (turso backend)
  TURSO_AUTH_TOKEN          auth token for remote databases
  GOOGLE_CREDENTIALS_JSON   service-account key (sheets backend)
  HTTP_ADDR                 operational server address (default :8081)`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := config.LoadBot()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Info().Msg("shutting down")
		cancel()
	}()

	var stores bot.Stores
	var sessions bot.SheetSessions

	switch cfg.Backend {
	case config.BackendTurso:
		db, err := database.New(cfg.Database.URL, cfg.Database.AuthToken)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()

		if err := migrate.NewRunner(db).All(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		stores = bot.SingleStore{Store: turso.NewStore(db)}

	case config.BackendSheets:
		registry, err := sheetsadapter.NewRegistry(ctx, []byte(cfg.Sheets.CredentialsJSON))
		if err != nil {
			return fmt.Errorf("failed to initialize sheets client: %w", err)
		}
		stores = registry
		sessions = registry
	}

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	httpSrv := server.New(cfg.HTTPAddr)
	go func() {
		if err := server.Run(ctx, httpSrv); err != nil {
			log.Error().Err(err).Msg("http server")
		}
	}()

	log.Info().
		Str("backend", cfg.Backend).
		Str("http_addr", cfg.HTTPAddr).
		Str("bot", api.Self.UserName).
		Msg("bot started")

	if err := bot.New(api, stores, sessions, log).Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
