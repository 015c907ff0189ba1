package harvester

import (
	"context"
	"errors"
	"time"

	"imagescraper/internal/application/port/output"
	"imagescraper/internal/domain/entity"
	"imagescraper/internal/infrastructure/searchengine"
)

var errTimeout = errors.New("context deadline exceeded")

type fakeThumb struct {
	// detail holds the src attributes shown by the detail view.
	detail    []string
	variant   string
	ambiguous bool
	clickErr  error
	clicks    int
}

func thumbWith(src ...string) *fakeThumb {
	return &fakeThumb{detail: src}
}

func brokenThumb() *fakeThumb {
	return &fakeThumb{}
}

// fakePage models a results grid whose detail view toggles on thumbnail click.
type fakePage struct {
	engine     searchengine.Engine
	thumbs     []*fakeThumb
	more       []*fakeThumb
	loadedMore bool
	open       int
	navigated  string
	closed     bool
	shot       *entity.Screenshot
}

func newFakePage(thumbs ...*fakeThumb) *fakePage {
	return &fakePage{engine: searchengine.GoogleImages(), thumbs: thumbs, open: -1}
}

func (p *fakePage) Navigate(ctx context.Context, url string) error {
	p.navigated = url
	return nil
}

func (p *fakePage) Elements(ctx context.Context, selector string) ([]output.Element, error) {
	switch selector {
	case p.engine.Thumbnail:
		out := make([]output.Element, len(p.thumbs))
		for i := range p.thumbs {
			out[i] = &fakeThumbElement{page: p, index: i}
		}
		return out, nil
	case p.engine.LoadMore:
		if len(p.more) > 0 && !p.loadedMore {
			return []output.Element{&fakeButton{page: p}}, nil
		}
		return nil, nil
	}

	if p.open < 0 {
		return nil, nil
	}
	thumb := p.thumbs[p.open]
	if selector != thumb.variantOrDefault(p.engine) {
		return nil, nil
	}
	out := make([]output.Element, len(thumb.detail))
	for i, src := range thumb.detail {
		out[i] = &fakeImage{src: src}
	}
	return out, nil
}

func (p *fakePage) WaitVisible(ctx context.Context, selectors []string, timeout time.Duration) error {
	if len(selectors) == 1 && selectors[0] == p.engine.Thumbnail {
		if len(p.thumbs) == 0 {
			return errTimeout
		}
		return nil
	}
	if p.open < 0 || len(p.thumbs[p.open].detail) == 0 {
		return errTimeout
	}
	if p.thumbs[p.open].ambiguous {
		return entity.ErrAmbiguousMatch
	}
	return nil
}

func (p *fakePage) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	p.shot = &entity.Screenshot{Data: []byte{0xff, 0xd8, 0xff}, Format: "jpeg"}
	return p.shot, nil
}

func (p *fakePage) HTML(ctx context.Context) (string, error) {
	return "<html><body><p>No results</p></body></html>", nil
}

func (p *fakePage) Close() error {
	p.closed = true
	return nil
}

func (t *fakeThumb) variantOrDefault(e searchengine.Engine) string {
	if t.variant != "" {
		return t.variant
	}
	return e.FullImage[0]
}

type fakeThumbElement struct {
	page  *fakePage
	index int
}

func (e *fakeThumbElement) Visible(ctx context.Context) (bool, error) { return true, nil }

func (e *fakeThumbElement) ScrollIntoView(ctx context.Context, timeout time.Duration) error {
	return nil
}

func (e *fakeThumbElement) Click(ctx context.Context, timeout time.Duration) error {
	thumb := e.page.thumbs[e.index]
	if thumb.clickErr != nil {
		return thumb.clickErr
	}
	thumb.clicks++
	if e.page.open == e.index {
		e.page.open = -1
	} else {
		e.page.open = e.index
	}
	return nil
}

func (e *fakeThumbElement) Attribute(ctx context.Context, name string, timeout time.Duration) (string, bool, error) {
	return "", false, nil
}

type fakeButton struct {
	page *fakePage
}

func (b *fakeButton) Visible(ctx context.Context) (bool, error) { return true, nil }

func (b *fakeButton) ScrollIntoView(ctx context.Context, timeout time.Duration) error { return nil }

func (b *fakeButton) Click(ctx context.Context, timeout time.Duration) error {
	b.page.thumbs = append(b.page.thumbs, b.page.more...)
	b.page.loadedMore = true
	return nil
}

func (b *fakeButton) Attribute(ctx context.Context, name string, timeout time.Duration) (string, bool, error) {
	return "", false, nil
}

type fakeImage struct {
	src string
}

func (i *fakeImage) Visible(ctx context.Context) (bool, error) { return true, nil }

func (i *fakeImage) ScrollIntoView(ctx context.Context, timeout time.Duration) error { return nil }

func (i *fakeImage) Click(ctx context.Context, timeout time.Duration) error { return nil }

func (i *fakeImage) Attribute(ctx context.Context, name string, timeout time.Duration) (string, bool, error) {
	if name != "src" || i.src == "" {
		return "", false, nil
	}
	return i.src, true, nil
}

type recordingSleeper struct {
	pauses []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.pauses = append(s.pauses, d)
	return ctx.Err()
}

type memorySink struct {
	paths    []string
	snapshot string
}

func (m *memorySink) SaveScreenshot(path string, shot *entity.Screenshot) (string, error) {
	m.paths = append(m.paths, path)
	return path, nil
}

func (m *memorySink) SaveSnapshot(path string, rawHTML string) (string, error) {
	m.paths = append(m.paths, path)
	m.snapshot = rawHTML
	return path, nil
}
