package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"imagescraper/internal/di"
	"imagescraper/internal/domain/entity"
	"imagescraper/internal/infrastructure/config"
	"imagescraper/internal/infrastructure/env"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	count            int
	maxMissed        int
	headless         bool
	minRes           string
	maxRes           string
	outputDir        string
	prefix           string
	keepFilenames    bool
	saveFormat       string
	workers          int
	engineName       string
	debugScreenshots bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape <term> [term...]",
	Short: "Harvest and download images for one or more search terms",
	Long: `Search for every term, harvest up to --count full-size image addresses and
download them into <out>/<term>/<prefix>-<index>.<format>.

Settings are layered: built-in defaults, then the config file, then
IMAGESCRAPER_* environment variables (also read from .env), then flags.`,
	Example: `  # Ten cat pictures into ./photos/cat
  imagescraper scrape cat

  # Two terms, at least Full HD, saved as PNG, one browser at a time
  imagescraper scrape "red fox" "arctic fox" --min-res 1920x1080 --format png --workers 1

  # Watch the browser work
  imagescraper scrape owl --headless=false`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	f := scrapeCmd.Flags()
	f.IntVarP(&count, "count", "n", 10, "number of images to collect per term")
	f.IntVar(&maxMissed, "max-missed", 10, "give up on a term after this many thumbnails without a usable image")
	f.BoolVar(&headless, "headless", true, "run the browser without a window")
	f.StringVar(&minRes, "min-res", "0x0", "minimum resolution WxH (inclusive)")
	f.StringVar(&maxRes, "max-res", "9999x9999", "maximum resolution WxH (inclusive)")
	f.StringVarP(&outputDir, "out", "o", "photos", "root directory; each term gets a subdirectory")
	f.StringVar(&prefix, "prefix", "", "file name prefix (default is the term)")
	f.BoolVar(&keepFilenames, "keep-filenames", false, "name files after the image URL when possible")
	f.StringVar(&saveFormat, "format", "jpg", "output format: "+strings.Join(entity.SaveFormats, ", ")+"; anything else keeps the source format")
	f.IntVarP(&workers, "workers", "w", 0, "maximum terms processed at once (0 = all)")
	f.StringVar(&engineName, "engine", "google", "search engine")
	f.BoolVar(&debugScreenshots, "debug-screenshots", false, "save a screenshot when a search shows no results")
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, env.NewEnvService(config.EnvPrefix))
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, cmd.Flags(), cmd.Root().PersistentFlags()); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	container, err := di.NewContainer(cfg, di.Streams{Out: cmd.OutOrStdout(), Log: cmd.ErrOrStderr()})
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container.Logger.Info("Scrape started", "terms", args, "count", cfg.Search.Count, "version", version)
	reports := container.Batch.Run(ctx, args, cfg.QueryTemplate())

	failed := 0
	for _, r := range reports {
		if r.Status() == entity.TermStatusFailed {
			failed++
		}
	}
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	if failed == len(reports) && failed > 0 {
		return fmt.Errorf("all %d terms failed", failed)
	}
	return nil
}

// applyFlags copies only the flags the user actually set, so file and env
// values survive flag defaults.
func applyFlags(cfg *config.Config, flags, global *pflag.FlagSet) error {
	if flags.Changed("count") {
		cfg.Search.Count = count
	}
	if flags.Changed("max-missed") {
		cfg.Search.MaxMissed = maxMissed
	}
	if flags.Changed("headless") {
		cfg.Search.Headless = headless
	}
	if flags.Changed("min-res") {
		res, err := entity.ParseResolution(minRes)
		if err != nil {
			return fmt.Errorf("--min-res: %w", err)
		}
		cfg.Search.MinResolution = res
	}
	if flags.Changed("max-res") {
		res, err := entity.ParseResolution(maxRes)
		if err != nil {
			return fmt.Errorf("--max-res: %w", err)
		}
		cfg.Search.MaxResolution = res
	}
	if flags.Changed("out") {
		cfg.Output.Root = outputDir
	}
	if flags.Changed("prefix") {
		cfg.Output.Prefix = prefix
	}
	if flags.Changed("keep-filenames") {
		cfg.Output.KeepFilenames = keepFilenames
	}
	if flags.Changed("format") {
		cfg.Output.Format = saveFormat
	}
	if flags.Changed("workers") {
		cfg.Batch.Workers = workers
	}
	if flags.Changed("engine") {
		cfg.Search.Engine = engineName
	}
	if flags.Changed("debug-screenshots") {
		cfg.Logging.DebugScreenshots = debugScreenshots
	}
	if global.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if global.Changed("log-dir") {
		cfg.Logging.Dir = logDir
	}
	return nil
}
