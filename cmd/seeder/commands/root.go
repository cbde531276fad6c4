package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/app"
	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/app/config"
	"github.com/aria3ppp/delivery-areas-seeder/internal/areas/seed"

	"github.com/spf13/cobra"
)

var (
	baseURL     string
	accessToken string
	apiKey      string
	delay       time.Duration
)

// Execute runs the seeder CLI. A non-nil error means the run aborted and has
// already been logged.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "seeder",
		Short:         "Create the delivery areas on the admin API and verify they landed",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a runner) error {
				return a.Run(ctx)
			})
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&baseURL, "base-url", "", "admin API base url (overrides SEEDER_BASE_URL)")
	flags.StringVar(&accessToken, "access-token", "", "bearer token (overrides SEEDER_ACCESS_TOKEN)")
	flags.StringVar(&apiKey, "api-key", "", "API key (overrides SEEDER_API_KEY)")
	flags.DurationVar(&delay, "delay", 0, "delay between create requests (overrides SEEDER_REQUEST_DELAY)")

	root.AddCommand(verifyCmd(), listCmd(), inspectCmd())
	return root
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check that every delivery area exists remotely",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a runner) error {
				a.VerifyAllAdded(ctx)
				return a.Err()
			})
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print every remote delivery area sorted by fee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a runner) error {
				a.DisplayAllAreas(ctx)
				return a.Err()
			})
		},
	}
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print the raw answers of the delivery areas endpoint for each credential combination",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, a runner) error {
				return a.Inspect(ctx)
			})
		},
	}
}

type runner interface {
	Run(ctx context.Context) error
	VerifyAllAdded(ctx context.Context) bool
	DisplayAllAreas(ctx context.Context)
	Inspect(ctx context.Context) error
	Err() error
}

func run(cmd *cobra.Command, fn func(ctx context.Context, a runner) error) (err error) {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := loadConfig(cmd)
	if err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("invalid configuration", slog.Any("error", err))
		return err
	}

	logger := newLogger(cfg.LogLevel)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
			logger.Error("fatal error", slog.Any("error", err), slog.String("stack", string(debug.Stack())))
		}
	}()

	a := app.New(cfg, seed.Default(), nil, cmd.OutOrStdout(), logger)
	if err := fn(ctx, a); err != nil {
		logger.Error("fatal error", slog.Any("error", err))
		return err
	}

	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.APIConfig.BaseURL = baseURL
	}
	if flags.Changed("access-token") {
		cfg.APIConfig.AccessToken = accessToken
	}
	if flags.Changed("api-key") {
		cfg.APIConfig.APIKey = apiKey
	}
	if flags.Changed("delay") {
		cfg.RunConfig.RequestDelay = delay
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newLogger(level slog.Level) *slog.Logger {
	if _, enabled := os.LookupEnv("DEBUG"); enabled {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
