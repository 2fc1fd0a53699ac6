// Package cli provides the command-line interface for imgconv.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/svdgoor/Tools/internal/codec"
	"github.com/svdgoor/Tools/internal/config"
	"github.com/svdgoor/Tools/internal/service"
	"golang.org/x/term"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Flags
	directory    bool
	recursive    bool
	verbose      bool
	workers      int
	configFile   string
	logFile      string
	progressMode string
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "imgconv <path>",
	Short: "Generate missing png, jpg and webp siblings for images",
	Long: `Imgconv converts images to the other supported formats.

For every png, jpg or webp file it writes a same-named sibling in each other
format that does not exist yet. Existing files are never overwritten, so
running it again only fills in what is missing.

Examples:
  imgconv photo.png
  imgconv ./pictures --directory
  imgconv ./pictures --recursive --workers 8
  imgconv ./pictures -r --progress bar --log-file convert.log`,
	Version:      Version,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE:         runConvert,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	registerFlags(rootCmd)
}

func registerFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&directory, "directory", "d", false, "convert all images in a directory")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recursively convert images in subdirectories (implies --directory)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.Flags().IntVarP(&workers, "workers", "w", service.DefaultWorkers, "number of concurrent conversions")
	cmd.Flags().StringVar(&configFile, "config", "", "YAML config file with defaults")
	cmd.Flags().StringVar(&logFile, "log-file", "", "also write JSON logs to this file")
	cmd.Flags().StringVar(&progressMode, "progress", string(config.ProgressLog), "progress display: log | bar")
}

func runConvert(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel())
	defer func() {
		if err := cleanup(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
	}()

	dirMode := directory || recursive
	logger.Debug("arguments",
		"path", path,
		"directory", dirMode,
		"recursive", recursive,
		"workers", cfg.Workers,
		"progress", cfg.Progress,
	)

	opts := service.BatchOptions{
		Workers:   cfg.Workers,
		Directory: dirMode,
		Recursive: recursive,
	}
	c := codec.New(codec.Options{
		JPEGQuality: cfg.JPEGQuality,
		WebPQuality: cfg.WebPQuality,
	})

	ctx := context.Background()
	var summary *service.Summary
	if cfg.Progress == config.ProgressBar && term.IsTerminal(int(os.Stdout.Fd())) {
		summary, err = runWithProgressBar(ctx, c, logger, opts, path)
	} else {
		summary, err = service.NewBatch(c, logger, opts).Run(ctx, path)
	}

	if err != nil {
		// Bad input is reported but is not a usage error.
		reportRunError(logger, err, dirMode)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), renderSummary(defaultTheme, summary))
	return nil
}

// loadConfig builds the effective configuration: defaults or the config
// file, overridden by flags given on the command line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		cfg, err = config.LoadFile(configFile)
		if err != nil {
			return cfg, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("progress") {
		cfg.Progress = config.ProgressMode(progressMode)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func reportRunError(logger *slog.Logger, err error, dirMode bool) {
	if errors.Is(err, service.ErrInvalidPath) {
		logger.Error("invalid path provided", "error", err)
		if !dirMode {
			logger.Error("if you want to specify a folder, use --directory")
		}
		return
	}
	logger.Error("conversion failed", "error", err)
}
