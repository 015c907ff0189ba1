package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"imagescraper/internal/application/port/output"
	"imagescraper/internal/domain/entity"
)

type fakeSession struct {
	closed bool
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error { return nil }

func (s *fakeSession) Elements(ctx context.Context, selector string) ([]output.Element, error) {
	return nil, nil
}

func (s *fakeSession) WaitVisible(ctx context.Context, selectors []string, timeout time.Duration) error {
	return nil
}

func (s *fakeSession) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	return &entity.Screenshot{}, nil
}

func (s *fakeSession) HTML(ctx context.Context) (string, error) { return "", nil }

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

type fakeBrowser struct {
	err      error
	sessions []*fakeSession
	opts     []output.SessionOptions
}

func (b *fakeBrowser) NewSession(ctx context.Context, opts output.SessionOptions) (output.Session, error) {
	b.opts = append(b.opts, opts)
	if b.err != nil {
		return nil, b.err
	}
	s := &fakeSession{}
	b.sessions = append(b.sessions, s)
	return s, nil
}

type fakeHarvester struct {
	result  entity.HarvestResult
	err     error
	queries []entity.SearchQuery
}

func (h *fakeHarvester) Harvest(ctx context.Context, session output.Session, query entity.SearchQuery) (entity.HarvestResult, error) {
	h.queries = append(h.queries, query)
	_ = session.Close()
	return h.result, h.err
}

// fakeFetcher returns the URL itself as the body unless an error is set.
type fakeFetcher struct {
	errs    map[string]error
	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.fetched = append(f.fetched, url)
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	return []byte(url), nil
}

// fakeStore decides the outcome from the body, which is the source URL.
type fakeStore struct {
	rejected   map[string]bool
	broken     map[string]bool
	prepareErr error
	prepared   []string
	requests   []output.SaveRequest
}

func (s *fakeStore) Prepare(dir string) error {
	s.prepared = append(s.prepared, dir)
	return s.prepareErr
}

func (s *fakeStore) Save(data []byte, req output.SaveRequest) (string, error) {
	s.requests = append(s.requests, req)
	url := string(data)
	switch {
	case s.rejected[url]:
		return "", fmt.Errorf("%w: 10x10", entity.ErrResolutionRejected)
	case s.broken[url]:
		return "", &entity.DecodeOrSaveError{Op: "decode", Err: fmt.Errorf("unknown format")}
	}
	return filepath.Join(req.Dir, fmt.Sprintf("%s-%d.jpg", req.BaseName, req.Index)), nil
}

type recordingReporter struct {
	mu      sync.Mutex
	started []string
	images  []entity.ImageResult
	reports []*entity.TermReport
}

func (r *recordingReporter) ShowTermStart(ctx context.Context, term string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, term)
}

func (r *recordingReporter) ShowImage(ctx context.Context, term string, result entity.ImageResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images = append(r.images, result)
}

func (r *recordingReporter) ShowSummary(ctx context.Context, reports []*entity.TermReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = reports
}
