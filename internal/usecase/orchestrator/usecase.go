package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"imagescraper/internal/application/port/input"
	"imagescraper/internal/application/port/output"
	"imagescraper/internal/domain/entity"
)

var _ input.TermScraper = (*UseCase)(nil)

type UseCase struct {
	browser   output.BrowserPort
	harvester input.Harvester
	fetcher   output.ImageFetcher
	store     output.ImageStore
	reporter  output.ReporterPort
	logger    output.LoggerPort
}

func New(
	browser output.BrowserPort,
	harvester input.Harvester,
	fetcher output.ImageFetcher,
	store output.ImageStore,
	reporter output.ReporterPort,
	logger output.LoggerPort,
) *UseCase {
	return &UseCase{
		browser:   browser,
		harvester: harvester,
		fetcher:   fetcher,
		store:     store,
		reporter:  reporter,
		logger:    logger,
	}
}

// Scrape runs harvest then download for one term. All URLs are harvested
// before the first download starts, and downloads run one at a time in URL
// order. Failures end up in the report, never in a panic or a returned error.
func (uc *UseCase) Scrape(ctx context.Context, query entity.SearchQuery) *entity.TermReport {
	start := time.Now()
	report := &entity.TermReport{Term: query.Term, Dir: query.OutputDir}
	defer func() { report.Duration = time.Since(start) }()

	log := uc.logger.WithField("term", query.Term)

	if err := query.Validate(); err != nil {
		report.Err = err
		log.Error("Invalid search query", "error", err)
		return report
	}

	uc.reporter.ShowTermStart(ctx, query.Term)

	session, err := uc.browser.NewSession(ctx, output.SessionOptions{Headless: query.Headless})
	if err != nil {
		report.Err = fmt.Errorf("open browser session: %w", err)
		log.Error("Browser session failed", "error", err)
		return report
	}

	harvest, err := uc.harvester.Harvest(ctx, session, query)
	report.Harvest = harvest
	if err != nil {
		report.Err = err
		log.Error("Harvest failed", "error", err)
		return report
	}

	if err := uc.store.Prepare(query.OutputDir); err != nil {
		report.Err = err
		log.Error("Cannot prepare image dir", "dir", query.OutputDir, "error", err)
		return report
	}

	log.Info("Saving images, please wait...", "count", len(harvest.URLs), "dir", query.OutputDir)
	for index, url := range harvest.URLs {
		if err := ctx.Err(); err != nil {
			report.Err = err
			break
		}
		result := uc.saveOne(ctx, query, index, url, log)
		report.Images = append(report.Images, result)
		uc.reporter.ShowImage(ctx, query.Term, result)
	}

	log.Info("Downloading and saving images completed",
		"urls", len(harvest.URLs),
		"saved", report.Count(entity.OutcomeSaved),
		"rejected", report.Count(entity.OutcomeRejected),
		"failed", report.Count(entity.OutcomeFailed),
	)
	if report.Count(entity.OutcomeSaved) < len(harvest.URLs) {
		log.Info("Some images were skipped because of their format, resolution or download errors")
	}
	return report
}

// saveOne fetches and stores the image at position index. The index is the
// URL's position, so skipped images still use up their number.
func (uc *UseCase) saveOne(ctx context.Context, query entity.SearchQuery, index int, url string, log output.LoggerPort) entity.ImageResult {
	result := entity.ImageResult{Index: index, URL: url}

	data, err := uc.fetcher.Fetch(ctx, url)
	if err != nil {
		result.Outcome = entity.OutcomeFailed
		result.Err = err
		return result
	}

	path, err := uc.store.Save(data, output.SaveRequest{
		Dir:        query.OutputDir,
		BaseName:   baseName(query, url),
		Index:      index,
		SaveFormat: query.SaveFormat,
		Bounds:     query.Bounds,
	})
	switch {
	case errors.Is(err, entity.ErrResolutionRejected):
		result.Outcome = entity.OutcomeRejected
		result.Err = err
		log.Info("Skipping image", "index", index, "reason", err)
	case err != nil:
		result.Outcome = entity.OutcomeFailed
		result.Err = err
		log.Error("Failed to save downloaded image", "index", index, "url", url, "error", err)
	default:
		result.Outcome = entity.OutcomeSaved
		result.Path = path
		log.Info("Image saved", "index", index, "path", path)
	}
	return result
}
