package output

import (
	"context"
	"time"

	"imagescraper/internal/domain/entity"
)

type SessionOptions struct {
	Headless bool
}

// BrowserPort opens browser sessions. Every session is exclusive to one
// caller and must be closed by it.
type BrowserPort interface {
	NewSession(ctx context.Context, opts SessionOptions) (Session, error)
}

type Session interface {
	Navigate(ctx context.Context, url string) error

	// Elements returns a fresh snapshot of all elements matching selector.
	// Handles from earlier snapshots may be stale after the DOM changes.
	Elements(ctx context.Context, selector string) ([]Element, error)

	// WaitVisible blocks until an element matching any of selectors is
	// visible. It returns entity.ErrAmbiguousMatch when several alternatives
	// matched at once.
	WaitVisible(ctx context.Context, selectors []string, timeout time.Duration) error

	Screenshot(ctx context.Context) (*entity.Screenshot, error)

	// HTML returns the current DOM serialized as markup.
	HTML(ctx context.Context) (string, error)

	Close() error
}

type Element interface {
	Visible(ctx context.Context) (bool, error)
	ScrollIntoView(ctx context.Context, timeout time.Duration) error
	Click(ctx context.Context, timeout time.Duration) error

	// Attribute returns the attribute value and whether it is present.
	Attribute(ctx context.Context, name string, timeout time.Duration) (string, bool, error)
}
