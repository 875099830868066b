package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-telegram/bot"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"FunnelBot/config"
	"FunnelBot/handler"
	"FunnelBot/model"
	"FunnelBot/repo"
)

var cfg config.Config

// rootCmd runs the registration bot
var rootCmd = &cobra.Command{
	Use:   "funnelbot",
	Short: "FunnelBot - multi-step registration bot",
	Long: `FunnelBot walks students, founders, mentors, vendors and working
professionals through their registration on Telegram and submits the
answers to the community backend.

Run without arguments to start the bot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		return setupLogger(cfg)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBot(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(personasCmd, submitCmd, progressCmd)
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("funnelbot failed")
		os.Exit(1)
	}
}

func setupLogger(cfg config.Config) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("error parsing FUNNEL_LOG_LEVEL: %w", err)
	}
	if cfg.Debug {
		level = zerolog.DebugLevel
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
	zerolog.SetGlobalLevel(level)
	return nil
}

func runBot(ctx context.Context) error {
	if err := cfg.RequireBotToken(); err != nil {
		return err
	}

	catalogue, err := model.LoadCatalogue()
	if err != nil {
		return err
	}

	backend := repo.NewBackendClient(cfg.APIURL, cfg.HTTPTimeout)
	opts := []handler.Option{
		handler.WithLogger(log.Logger),
		handler.WithProgress(backend),
	}

	if cfg.FirebaseEnabled() {
		fc, err := InitializeFirebase(ctx)
		if err != nil {
			return err
		}
		opts = append(opts, handler.WithIdentityVerifier(fc), handler.WithProgress(fc))
	} else if cfg.RequireSignIn {
		log.Warn().Msg("FIREBASE_SERVICE_ACCOUNT_KEY_PATH not set, sign-in is unavailable")
	}

	h := handler.NewRegistrationBotHandler(catalogue, backend, cfg, opts...)

	b, err := bot.New(cfg.BotToken, bot.WithDefaultHandler(h.Handler))
	if err != nil {
		return fmt.Errorf("error creating bot: %w", err)
	}

	log.Info().Str("api_url", cfg.APIURL).Strs("personas", catalogue.IDs()).Msg("bot started")
	b.Start(ctx)
	log.Info().Msg("bot stopped")
	return nil
}

// InitializeFirebase initializes the Firebase connector and returns it
func InitializeFirebase(ctx context.Context) (*repo.FirebaseConnector, error) {
	firebaseConnector, err := repo.NewFirebaseConnector(ctx, cfg.FirebaseKeyPath, cfg.FirebaseDatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("error creating Firebase connector: %w", err)
	}
	if cfg.FirebaseDatabaseURL == "" {
		log.Info().Msg("FIREBASE_DATABASE_URL not set, progress is not mirrored to Firebase")
	}
	return firebaseConnector, nil
}
