package di

import (
	"fmt"
	"io"

	"imagescraper/internal/application/port/input"
	"imagescraper/internal/application/port/output"
	"imagescraper/internal/infrastructure/browser/rod"
	"imagescraper/internal/infrastructure/config"
	"imagescraper/internal/infrastructure/httpfetch"
	"imagescraper/internal/infrastructure/imagestore"
	"imagescraper/internal/infrastructure/logger"
	"imagescraper/internal/infrastructure/searchengine"
	"imagescraper/internal/infrastructure/userinteraction"
	"imagescraper/internal/usecase/batch"
	"imagescraper/internal/usecase/harvester"
	"imagescraper/internal/usecase/orchestrator"

	"github.com/google/uuid"
)

type Container struct {
	RunID    string
	Config   *config.Config
	Logger   output.LoggerPort
	Browser  output.BrowserPort
	Reporter output.ReporterPort
	Scraper  input.TermScraper
	Batch    input.BatchRunner

	root *logger.LoggerAdapter
}

// Streams lets callers redirect output. Nil fields fall back to the
// process's stdout and stderr.
type Streams struct {
	Out io.Writer
	Log io.Writer
}

func NewContainer(cfg *config.Config, streams Streams) (*Container, error) {
	runID := uuid.NewString()

	root, err := logger.NewLoggerAdapter(logger.Config{
		Level:   cfg.Logging.Level,
		Dir:     cfg.Logging.Dir,
		RunName: runID[:8],
		Console: streams.Log,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	log := root.WithField("run_id", runID)

	engine, err := searchengine.Lookup(cfg.Search.Engine)
	if err != nil {
		root.Close()
		return nil, err
	}

	browserCfg := rod.DefaultConfig()
	browserCfg.Bin = cfg.Browser.Bin
	browserCfg.NoSandbox = cfg.Browser.NoSandbox
	browserCfg.SlowMotion = cfg.Browser.SlowMotion
	if cfg.Browser.Timeout > 0 {
		browserCfg.Timeout = cfg.Browser.Timeout
	}
	browser := rod.NewBrowserAdapter(browserCfg, log)

	fetcher, err := httpfetch.New(httpfetch.Config{
		Timeout: cfg.Fetch.Timeout,
		MaxSize: cfg.Fetch.MaxSize,
	}, log)
	if err != nil {
		root.Close()
		return nil, fmt.Errorf("failed to create fetcher: %w", err)
	}

	store := imagestore.New(log)

	harvest := harvester.New(engine, harvestTimings(cfg.Timings), log)
	if cfg.Logging.DebugScreenshots {
		harvest = harvest.WithScreenshots(store)
	}

	reporter := userinteraction.NewConsoleReporter(streams.Out)
	scraper := orchestrator.New(browser, harvest, fetcher, store, reporter, log)
	runner := batch.New(scraper, reporter, log, cfg.Batch.Workers)

	return &Container{
		RunID:    runID,
		Config:   cfg,
		Logger:   log,
		Browser:  browser,
		Reporter: reporter,
		Scraper:  scraper,
		Batch:    runner,
		root:     root,
	}, nil
}

// harvestTimings keeps the defaults for any timing left at zero.
func harvestTimings(c config.TimingsConfig) harvester.Timings {
	t := harvester.DefaultTimings()
	if c.Wait > 0 {
		t.Wait = c.Wait
	}
	if c.Click > 0 {
		t.Click = c.Click
	}
	if c.Attribute > 0 {
		t.Attribute = c.Attribute
	}
	if c.LoadMorePause > 0 {
		t.LoadMorePause = c.LoadMorePause
	}
	if c.SettlePause > 0 {
		t.SettlePause = c.SettlePause
	}
	return t
}

func (c *Container) Close() {
	if c.root != nil {
		c.root.Close()
	}
}
