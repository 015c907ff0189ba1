package batch

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime/debug"
	"strings"

	"golang.org/x/sync/errgroup"

	"imagescraper/internal/application/port/input"
	"imagescraper/internal/application/port/output"
	"imagescraper/internal/domain/entity"
)

var _ input.BatchRunner = (*UseCase)(nil)

type UseCase struct {
	scraper  input.TermScraper
	reporter output.ReporterPort
	logger   output.LoggerPort
	workers  int
}

// New builds a runner that scrapes at most workers terms at once. Zero or
// less means no limit.
func New(scraper input.TermScraper, reporter output.ReporterPort, logger output.LoggerPort, workers int) *UseCase {
	return &UseCase{
		scraper:  scraper,
		reporter: reporter,
		logger:   logger,
		workers:  workers,
	}
}

// Run scrapes every distinct term. Each term gets its own browser session
// and its own directory under template.OutputDir, and one term failing
// never stops the others. Reports come back in term order.
func (uc *UseCase) Run(ctx context.Context, terms []string, template entity.SearchQuery) []*entity.TermReport {
	unique := DistinctTerms(terms)
	dirs := TermDirs(unique)
	reports := make([]*entity.TermReport, len(unique))

	uc.logger.Info("Starting batch", "terms", len(unique), "workers", uc.workers, "root", template.OutputDir)

	var g errgroup.Group
	if uc.workers > 0 {
		g.SetLimit(uc.workers)
	}
	for i, term := range unique {
		g.Go(func() error {
			reports[i] = uc.runTerm(ctx, term, dirs[i], template)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range reports {
		if r.Status() == entity.TermStatusFailed {
			failed++
		}
	}
	uc.logger.Info("Batch finished", "terms", len(reports), "failed", failed)
	uc.reporter.ShowSummary(ctx, reports)
	return reports
}

func (uc *UseCase) runTerm(ctx context.Context, term, dir string, template entity.SearchQuery) (report *entity.TermReport) {
	query := template
	query.Term = term
	query.OutputDir = filepath.Join(template.OutputDir, dir)

	defer func() {
		if r := recover(); r != nil {
			uc.logger.Error("Term pipeline panicked", "term", term, "panic", r, "stack", string(debug.Stack()))
			report = &entity.TermReport{
				Term: term,
				Dir:  query.OutputDir,
				Err:  fmt.Errorf("term %q panicked: %v", term, r),
			}
		}
	}()

	return uc.scraper.Scrape(ctx, query)
}

// DistinctTerms trims terms and drops blanks and repeats, keeping the first
// occurrence order.
func DistinctTerms(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// TermDir turns a search term into a single directory name.
func TermDir(term string) string {
	return entity.SafeName(strings.TrimSpace(term))
}

// TermDirs maps distinct terms to distinct directory names. Terms that clean
// to the same name, compared case-insensitively, get a numeric suffix in
// order of appearance.
func TermDirs(terms []string) []string {
	dirs := make([]string, len(terms))
	taken := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		taken[strings.ToLower(TermDir(t))] = struct{}{}
	}
	claimed := make(map[string]struct{}, len(terms))
	for i, t := range terms {
		dir := TermDir(t)
		if _, dup := claimed[strings.ToLower(dir)]; dup {
			base := dir
			for n := 2; ; n++ {
				dir = fmt.Sprintf("%s-%d", base, n)
				key := strings.ToLower(dir)
				_, inUse := taken[key]
				_, isClaimed := claimed[key]
				if !inUse && !isClaimed {
					break
				}
			}
		}
		claimed[strings.ToLower(dir)] = struct{}{}
		dirs[i] = dir
	}
	return dirs
}
