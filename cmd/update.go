package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"

	"github.com/bitpart/dataapi/config"
)

var (
	updateRepository string
	checkOnly        bool
)

// versionCmd prints build information
var versionCmd = &cobra.Command{
	Use:               "version",
	Short:             "Print version information",
	Args:              cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dataapi %s (built %s, %s/%s)\n", version, buildTime, runtime.GOOS, runtime.GOARCH)
	},
}

// selfUpdateCmd replaces the running binary with the latest release
var selfUpdateCmd = &cobra.Command{
	Use:               "self-update",
	Short:             "Update dataapi to the latest release",
	Args:              cobra.NoArgs,
	PersistentPreRunE: prepareSelfUpdate,
	RunE:              runSelfUpdate,
}

func init() {
	rootCmd.AddCommand(versionCmd, selfUpdateCmd)

	selfUpdateCmd.Flags().StringVar(&updateRepository, "repository", "", "GitHub repository (owner/name) to update from")
	selfUpdateCmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether an update is available")
}

// prepareSelfUpdate loads the config when there is one. Updating must keep
// working without a configured Data API endpoint.
func prepareSelfUpdate(cmd *cobra.Command, args []string) error {
	if err := loadConfig(cmd); err != nil {
		cfg = &config.Config{
			Logging: config.LoggingConfig{Level: "info", Format: "console", Color: true},
			Update:  config.UpdateConfig{Repository: config.DefaultRepository},
		}
		logger = setupLogger(cfg.Logging, os.Stderr)
		logger.Debug().Err(err).Msg("Continuing without configuration")
	}
	if updateRepository == "" {
		updateRepository = cfg.Update.Repository
	}
	return nil
}

func runSelfUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	current, err := semver.ParseTolerant(version)
	if err != nil {
		return fmt.Errorf("cannot update a development build (version %q)", version)
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(updateRepository))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s/%s in %s", runtime.GOOS, runtime.GOARCH, updateRepository)
	}

	if latest.LessOrEqual(current.String()) {
		logger.Info().Str("version", current.String()).Msg("Already up to date")
		return nil
	}

	if checkOnly {
		fmt.Fprintf(cmd.OutOrStdout(), "update available: %s -> %s\n", current, latest.Version())
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	logger.Info().
		Str("from", current.String()).
		Str("to", latest.Version()).
		Msg("Updated to the latest release")
	return nil
}
