package entity

import (
	"fmt"
	"strconv"
	"strings"
)

type Resolution struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

func (r Resolution) String() string {
	return fmt.Sprintf("%dx%d", r.Width, r.Height)
}

// ParseResolution accepts "WxH" (also "W,H").
func ParseResolution(s string) (Resolution, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	sep := "x"
	if strings.Contains(s, ",") {
		sep = ","
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return Resolution{}, fmt.Errorf("invalid resolution %q: want WxH", s)
	}
	w, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid resolution width %q: %w", parts[0], err)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Resolution{}, fmt.Errorf("invalid resolution height %q: %w", parts[1], err)
	}
	if w < 0 || h < 0 {
		return Resolution{}, fmt.Errorf("invalid resolution %q: negative size", s)
	}
	return Resolution{Width: w, Height: h}, nil
}

type ResolutionBounds struct {
	Min Resolution
	Max Resolution
}

// Contains reports whether w x h lies inside the bounds. Both ends are inclusive
// and the axes are checked independently.
func (b ResolutionBounds) Contains(w, h int) bool {
	return b.Min.Width <= w && w <= b.Max.Width &&
		b.Min.Height <= h && h <= b.Max.Height
}

type SearchQuery struct {
	Term          string
	Target        int
	FailureBudget int
	Headless      bool
	Bounds        ResolutionBounds
	OutputDir     string
	FilePrefix    string
	KeepFilenames bool
	SaveFormat    string
}

func (q SearchQuery) Validate() error {
	switch {
	case strings.TrimSpace(q.Term) == "":
		return fmt.Errorf("%w: empty search term", ErrInvalidQuery)
	case q.Target < 1:
		return fmt.Errorf("%w: target count must be positive, got %d", ErrInvalidQuery, q.Target)
	case q.FailureBudget < 1:
		return fmt.Errorf("%w: failure budget must be positive, got %d", ErrInvalidQuery, q.FailureBudget)
	case q.Bounds.Min.Width > q.Bounds.Max.Width || q.Bounds.Min.Height > q.Bounds.Max.Height:
		return fmt.Errorf("%w: min resolution %s exceeds max %s", ErrInvalidQuery, q.Bounds.Min, q.Bounds.Max)
	case q.OutputDir == "":
		return fmt.Errorf("%w: empty output directory", ErrInvalidQuery)
	}
	return nil
}

// Prefix is the file name base for saved images; it defaults to the term.
func (q SearchQuery) Prefix() string {
	if q.FilePrefix != "" {
		return q.FilePrefix
	}
	return q.Term
}
