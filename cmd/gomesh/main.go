package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/philipparndt/gomesh/internal/config"
	"github.com/philipparndt/gomesh/internal/loader"
	"github.com/philipparndt/gomesh/internal/logging"
	"github.com/philipparndt/gomesh/version"
)

var (
	flagConfig         string
	flagFormat         string
	flagLogLevel       string
	flagLogFormat      string
	flagEndSolidPrefix bool

	cfg    = config.Default()
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "gomesh",
	Short: "Inspect and measure STL and OBJ mesh files",
	Long: `gomesh decodes STL (ASCII and binary) and Wavefront OBJ files and reports
their contents: counts, dimensions, surface area, edges and faces.
OpenSCAD sources are rendered to STL first, and .xz compressed inputs are
unpacked transparently.`,
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "Config file (default $"+config.EnvFile+" or ./"+config.DefaultFile+")")
	flags.StringVarP(&flagFormat, "format", "f", "", "Input format: stl, obj or scad (default: from file extension)")
	flags.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&flagLogFormat, "log-format", "", "Log format: text or json")
	flags.BoolVar(&flagEndSolidPrefix, "endsolid-prefix", false, "Accept \"endsolid <name>\" as the ASCII STL terminator")
}

// setup loads the configuration, applies flag overrides and installs the logger
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(flagConfig)
	if err != nil {
		return usageErrorf("%v", err)
	}

	if cmd.Flags().Changed("log-level") {
		c.Log.Level = flagLogLevel
	}
	if cmd.Flags().Changed("log-format") {
		c.Log.Format = flagLogFormat
	}
	if cmd.Flags().Changed("endsolid-prefix") {
		c.STL.EndSolidPrefix = flagEndSolidPrefix
	}

	l, err := logging.Setup(cmd.ErrOrStderr(), c.Log.Level, c.Log.Format)
	if err != nil {
		return usageErrorf("%v", err)
	}

	cfg = c
	logger = l
	return nil
}

// load decodes a file with the current configuration
func load(ctx context.Context, path string) (*loader.Result, error) {
	format, err := loader.ParseFormat(flagFormat)
	if err != nil {
		return nil, err
	}

	l := loader.New(loader.Options{
		Format:         format,
		EndSolidPrefix: cfg.STL.EndSolidPrefix,
		Logger:         logger,
	})
	return l.Load(ctx, path)
}

// displayCount returns the -n flag value, or the configured default when unset
func displayCount(cmd *cobra.Command, flagValue int) (int, error) {
	if !cmd.Flags().Changed("count") {
		return cfg.Display.Count, nil
	}
	if flagValue < 0 {
		return 0, usageErrorf("count must not be negative: %d", flagValue)
	}
	return flagValue, nil
}

func main() {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}
