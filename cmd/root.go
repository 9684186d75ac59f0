package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/bitpart/dataapi/config"
	"github.com/bitpart/dataapi/dataapi"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *dataapi.Client
	appFs   = afero.NewOsFs()

	version   = "dev"
	buildTime = "unknown"

	// Global flags
	debug  bool
	siteID int
)

var errAuthFailed = errors.New("authentication failed")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dataapi",
	Short: "Command line client for the Movable Type Data API",
	Long: `dataapi talks to a Movable Type Data API endpoint. It can list, read,
create, update and delete entries and content data, publish templates and
upload assets.`,
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// SetVersion records build information reported by the version command
func SetVersion(v, bt string) {
	version = v
	buildTime = bt
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "trace HTTP requests and responses")
	rootCmd.PersistentFlags().IntVarP(&siteID, "site", "s", 0, "site id (overrides dataapi.site_id)")
}

// loadConfig loads the configuration and sets up the logger
func loadConfig(cmd *cobra.Command) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("debug") {
		cfg.DataAPI.Debug = debug
	}
	if cfg.DataAPI.Debug {
		cfg.Logging.Level = "debug"
	}
	if cmd.Flags().Changed("site") {
		cfg.DataAPI.SiteID = siteID
	}

	logger = setupLogger(cfg.Logging, os.Stderr)
	return nil
}

// initializeApp initializes the configuration and the Data API client
func initializeApp(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}

	client = dataapi.New(cfg.DataAPI.Username, cfg.DataAPI.Password, cfg.DataAPI.URL,
		dataapi.WithClientID(cfg.DataAPI.ClientID),
		dataapi.WithTimeout(cfg.DataAPI.Timeout),
		dataapi.WithProxy(cfg.DataAPI.Proxy),
		dataapi.WithDebug(cfg.DataAPI.Debug),
		dataapi.WithLogger(logger.With().Str("component", "dataapi").Logger()),
		dataapi.WithUserAgent("dataapi-cli/"+version),
		dataapi.WithFs(appFs),
	)

	logger.Debug().
		Str("url", client.BaseURL()).
		Int("site_id", cfg.DataAPI.SiteID).
		Msg("Data API client ready")

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig, out *os.File) zerolog.Logger {
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		return zerolog.New(out).With().Timestamp().Logger()
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isTerminal(out),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// authenticate signs in before calls that need an access token
func authenticate(ctx context.Context) error {
	token, err := client.Authenticate(ctx)
	if err != nil {
		return err
	}
	if token == "" {
		return fmt.Errorf("%w for user %s", errAuthFailed, cfg.DataAPI.Username)
	}

	logger.Debug().Str("user", cfg.DataAPI.Username).Msg("Authenticated")
	return nil
}
