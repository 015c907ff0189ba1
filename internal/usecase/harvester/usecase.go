package harvester

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"imagescraper/internal/application/port/input"
	"imagescraper/internal/application/port/output"
	"imagescraper/internal/domain/entity"
	"imagescraper/internal/infrastructure/searchengine"
)

var _ input.Harvester = (*UseCase)(nil)

const (
	noResultsShot     = "_no_results.jpg"
	noResultsSnapshot = "_no_results.html"
)

type Timings struct {
	Wait          time.Duration
	Click         time.Duration
	Attribute     time.Duration
	LoadMorePause time.Duration
	SettlePause   time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		Wait:          10 * time.Second,
		Click:         10 * time.Second,
		Attribute:     1 * time.Second,
		LoadMorePause: 3 * time.Second,
		SettlePause:   1 * time.Second,
	}
}

// Sleeper pauses for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

type UseCase struct {
	engine  searchengine.Engine
	timings Timings
	logger  output.LoggerPort
	sleep   Sleeper
	shots   output.DiagnosticsSink
}

func New(engine searchengine.Engine, timings Timings, logger output.LoggerPort) *UseCase {
	return &UseCase{
		engine:  engine,
		timings: timings,
		logger:  logger,
		sleep:   sleepContext,
	}
}

func (uc *UseCase) WithSleeper(s Sleeper) *UseCase {
	uc.sleep = s
	return uc
}

// WithScreenshots stores a page screenshot and a cleaned DOM snapshot in the
// term directory when no results appear.
func (uc *UseCase) WithScreenshots(sink output.DiagnosticsSink) *UseCase {
	uc.shots = sink
	return uc
}

// Harvest collects up to query.Target image URLs from the results page. The
// session is closed before returning. A short result is not an error; only a
// page without any thumbnails is.
func (uc *UseCase) Harvest(ctx context.Context, session output.Session, query entity.SearchQuery) (entity.HarvestResult, error) {
	log := uc.logger.WithField("term", query.Term)
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn("Failed to close browser session", "error", err)
		}
	}()

	log.Info("Gathering image links", "target", query.Target, "max_missed", query.FailureBudget)

	if err := session.Navigate(ctx, uc.engine.SearchURL(query.Term)); err != nil {
		return entity.HarvestResult{}, fmt.Errorf("open results page: %w", err)
	}

	thumbs, err := uc.firstThumbnails(ctx, session)
	if err != nil {
		if ctx.Err() == nil {
			uc.captureNoResults(ctx, session, query, log)
		}
		return entity.HarvestResult{}, err
	}

	state := &entity.HarvestState{}
	for !state.Done(query.Target, query.FailureBudget, len(thumbs)) {
		if err := ctx.Err(); err != nil {
			return state.Result(), err
		}

		thumbs = uc.loadMore(ctx, session, thumbs, log)
		if state.Examined >= len(thumbs) {
			break
		}

		position := state.Examined
		found, err := uc.examine(ctx, session, thumbs[position], position, state)
		if err != nil {
			log.Warn("Unexpected candidate error", "candidate", position+1, "error", err)
		}
		if !found {
			state.Failures++
			log.Error("Failed to retrieve image url", "candidate", position+1, "failures", state.Failures)
		}
		state.Examined++

		thumbs = uc.refresh(ctx, session, thumbs, log)
	}

	log.Info("Search ended", "found", len(state.Collected), "examined", state.Examined, "failures", state.Failures)
	return state.Result(), nil
}

func (uc *UseCase) firstThumbnails(ctx context.Context, session output.Session) ([]output.Element, error) {
	err := session.WaitVisible(ctx, []string{uc.engine.Thumbnail}, uc.timings.Wait)
	if err != nil && !errors.Is(err, entity.ErrAmbiguousMatch) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", entity.ErrNoResults, err)
	}

	thumbs, err := session.Elements(ctx, uc.engine.Thumbnail)
	if err != nil {
		return nil, fmt.Errorf("list thumbnails: %w", err)
	}
	if len(thumbs) == 0 {
		return nil, entity.ErrNoResults
	}
	return thumbs, nil
}

// examine opens one thumbnail, reads the full-size image address and closes
// the detail view again on every path out.
func (uc *UseCase) examine(ctx context.Context, session output.Session, thumb output.Element, position int, state *entity.HarvestState) (found bool, err error) {
	fail := func(stage string, cause error) error {
		return &entity.CandidateError{Position: position, Stage: stage, Err: cause}
	}

	defer func() {
		if !state.DetailOpen {
			return
		}
		if cerr := thumb.Click(ctx, uc.timings.Click); cerr != nil {
			err = errors.Join(err, fail("close detail", cerr))
		}
		state.DetailOpen = false
	}()

	if err := thumb.ScrollIntoView(ctx, uc.timings.Click); err != nil {
		return false, fail("scroll", err)
	}
	if err := thumb.Click(ctx, uc.timings.Click); err != nil {
		return false, fail("open detail", err)
	}
	state.DetailOpen = true

	err = session.WaitVisible(ctx, uc.engine.FullImage, uc.timings.Wait)
	if err != nil && !errors.Is(err, entity.ErrAmbiguousMatch) {
		return false, fail("wait full image", err)
	}

	if err := uc.sleep(ctx, uc.timings.SettlePause); err != nil {
		return false, fail("settle", err)
	}

	src, err := uc.firstSource(ctx, session)
	if err != nil {
		return false, fail("read source", err)
	}
	if src == "" {
		return false, nil
	}

	state.Collected = append(state.Collected, src)
	return true, nil
}

// firstSource scans the full-image variants in order and returns the first
// acceptable address. Attribute errors skip the element; the last one is
// reported only if nothing was found.
func (uc *UseCase) firstSource(ctx context.Context, session output.Session) (string, error) {
	var lastErr error
	for _, selector := range uc.engine.FullImage {
		elements, err := session.Elements(ctx, selector)
		if err != nil {
			lastErr = err
			continue
		}
		for _, el := range elements {
			src, ok, err := el.Attribute(ctx, uc.engine.SourceAttr, uc.timings.Attribute)
			if err != nil {
				lastErr = err
				continue
			}
			if ok && uc.engine.AcceptURL(src) {
				return src, nil
			}
		}
	}
	return "", lastErr
}

func (uc *UseCase) loadMore(ctx context.Context, session output.Session, thumbs []output.Element, log output.LoggerPort) []output.Element {
	if uc.engine.LoadMore == "" {
		return thumbs
	}

	buttons, err := session.Elements(ctx, uc.engine.LoadMore)
	if err != nil || len(buttons) == 0 {
		return thumbs
	}
	visible, err := buttons[0].Visible(ctx)
	if err != nil || !visible {
		return thumbs
	}

	if err := buttons[0].Click(ctx, uc.timings.Click); err != nil {
		log.Warn("Load more click failed", "error", err)
		return thumbs
	}
	log.Debug("Loading more results")

	if err := uc.sleep(ctx, uc.timings.LoadMorePause); err != nil {
		return thumbs
	}
	return uc.refresh(ctx, session, thumbs, log)
}

// refresh re-queries the thumbnail set. Handles go stale when the grid grows,
// so positions are only valid against the latest snapshot.
func (uc *UseCase) refresh(ctx context.Context, session output.Session, prev []output.Element, log output.LoggerPort) []output.Element {
	thumbs, err := session.Elements(ctx, uc.engine.Thumbnail)
	if err != nil {
		log.Warn("Failed to refresh thumbnails", "error", err)
		return prev
	}
	return thumbs
}

func (uc *UseCase) captureNoResults(ctx context.Context, session output.Session, query entity.SearchQuery, log output.LoggerPort) {
	if uc.shots == nil {
		return
	}
	if shot, err := session.Screenshot(ctx); err != nil {
		log.Warn("No results screenshot failed", "error", err)
	} else if path, err := uc.shots.SaveScreenshot(filepath.Join(query.OutputDir, noResultsShot), shot); err != nil {
		log.Warn("No results screenshot not saved", "error", err)
	} else {
		log.Info("Saved no results screenshot", "path", path)
	}

	if markup, err := session.HTML(ctx); err != nil {
		log.Warn("No results page snapshot failed", "error", err)
	} else if path, err := uc.shots.SaveSnapshot(filepath.Join(query.OutputDir, noResultsSnapshot), markup); err != nil {
		log.Warn("No results page snapshot not saved", "error", err)
	} else {
		log.Info("Saved no results page snapshot", "path", path)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
