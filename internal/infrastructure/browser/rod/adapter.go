package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"sync"
	"time"

	"imagescraper/internal/application/port/output"
	"imagescraper/internal/domain/entity"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var (
	_ output.BrowserPort = (*BrowserAdapter)(nil)
	_ output.Session     = (*Session)(nil)
	_ output.Element     = (*Element)(nil)
)

const (
	defaultTimeout     = 30 * time.Second
	maxScreenshotWidth = 1280
)

type BrowserConfig struct {
	// Bin is the browser executable. Empty lets rod find or download one.
	Bin        string
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
	DevTools   bool
	Trace      bool
}

func DefaultConfig() BrowserConfig {
	return BrowserConfig{
		SlowMotion: 0,
		Timeout:    defaultTimeout,
		NoSandbox:  true,
		DevTools:   false,
	}
}

// BrowserAdapter launches one browser process per session so that every
// search term drives its own page.
type BrowserAdapter struct {
	cfg    BrowserConfig
	logger output.LoggerPort
}

func NewBrowserAdapter(cfg BrowserConfig, logger output.LoggerPort) *BrowserAdapter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &BrowserAdapter{cfg: cfg, logger: logger}
}

func (b *BrowserAdapter) NewSession(ctx context.Context, opts output.SessionOptions) (output.Session, error) {
	l := launcher.New().
		Context(ctx).
		Headless(opts.Headless).
		Devtools(b.cfg.DevTools).
		NoSandbox(b.cfg.NoSandbox).
		Delete("use-mock-keychain")
	if b.cfg.Bin != "" {
		l = l.Bin(b.cfg.Bin)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		Trace(b.cfg.Trace).
		SlowMotion(b.cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	b.logger.Debug("Browser session started", "headless", opts.Headless)

	return &Session{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  b.cfg.Timeout,
	}, nil
}

type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration

	closeOnce sync.Once
	closeErr  error
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	p := s.page.Context(ctx).Timeout(s.timeout)
	if err := p.Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("page load failed: %w", err)
	}
	return nil
}

func (s *Session) Elements(ctx context.Context, selector string) ([]output.Element, error) {
	els, err := s.page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}
	out := make([]output.Element, len(els))
	for i, el := range els {
		out[i] = &Element{el: el}
	}
	return out, nil
}

// WaitVisible races the selectors until one of them has a visible match. Each
// branch skips hidden matches, so a hidden element under one selector never
// settles the race. It never reports entity.ErrAmbiguousMatch.
func (s *Session) WaitVisible(ctx context.Context, selectors []string, timeout time.Duration) error {
	if len(selectors) == 0 {
		return fmt.Errorf("no selectors to wait for")
	}

	p := s.page.Context(ctx).Timeout(timeout)
	race := p.Race()
	for _, selector := range selectors {
		race = race.ElementFunc(func(p *rod.Page) (*rod.Element, error) {
			return firstVisible(p, selector)
		})
	}

	if _, err := race.Do(); err != nil {
		return fmt.Errorf("wait for %v: %w", selectors, err)
	}
	return nil
}

// firstVisible returns the first visible match of selector. No visible match
// is reported as not found so the race keeps polling.
func firstVisible(p *rod.Page, selector string) (*rod.Element, error) {
	elements, err := p.Elements(selector)
	if err != nil {
		return nil, err
	}
	for _, el := range elements {
		if visible, err := el.Visible(); err == nil && visible {
			return el, nil
		}
	}
	return nil, &rod.ElementNotFoundError{}
}

func (s *Session) Screenshot(ctx context.Context) (*entity.Screenshot, error) {
	imgBytes, err := s.page.Context(ctx).Timeout(s.timeout).Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}

	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: 75}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}

	return &entity.Screenshot{
		Data:   buf.Bytes(),
		Format: "jpeg",
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}, nil
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	markup, err := s.page.Context(ctx).Timeout(s.timeout).HTML()
	if err != nil {
		return "", fmt.Errorf("page html: %w", err)
	}
	return markup, nil
}

// Close shuts the page, the browser and the Chrome process. Safe to call
// more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.page != nil {
			_ = s.page.Close()
		}
		if s.browser != nil {
			s.closeErr = s.browser.Close()
		}
		if s.launcher != nil {
			s.launcher.Kill()
			s.launcher.Cleanup()
		}
	})
	return s.closeErr
}

type Element struct {
	el *rod.Element
}

func (e *Element) Visible(ctx context.Context) (bool, error) {
	return e.el.Context(ctx).Visible()
}

func (e *Element) ScrollIntoView(ctx context.Context, timeout time.Duration) error {
	return e.el.Context(ctx).Timeout(timeout).ScrollIntoView()
}

func (e *Element) Click(ctx context.Context, timeout time.Duration) error {
	if err := e.el.Context(ctx).Timeout(timeout).Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	return nil
}

func (e *Element) Attribute(ctx context.Context, name string, timeout time.Duration) (string, bool, error) {
	v, err := e.el.Context(ctx).Timeout(timeout).Attribute(name)
	if err != nil {
		return "", false, err
	}
	if v == nil {
		return "", false, nil
	}
	return *v, true, nil
}
