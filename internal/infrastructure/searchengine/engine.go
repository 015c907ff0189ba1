package searchengine

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Engine is the selector table for one image-search site. Markup changes on
// the site are fixed here and nowhere else.
type Engine struct {
	Name string

	// SearchURL renders the results page address for a term.
	SearchURL func(term string) string

	Thumbnail string
	LoadMore  string

	// FullImage lists the known detail-view image variants, in preference
	// order. Any of them counts as the full-size image.
	FullImage []string

	// SourceAttr is the attribute holding the image address.
	SourceAttr string

	// ProxyMarkers identify thumbnail-cache addresses that must be skipped.
	ProxyMarkers []string
}

// AcceptURL reports whether src is a direct, fetchable image address.
func (e Engine) AcceptURL(src string) bool {
	src = strings.TrimSpace(src)
	if src == "" {
		return false
	}
	u, err := url.Parse(src)
	if err != nil || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	for _, marker := range e.ProxyMarkers {
		if strings.Contains(src, marker) {
			return false
		}
	}
	return true
}

func (e Engine) Validate() error {
	switch {
	case e.Name == "":
		return fmt.Errorf("engine without name")
	case e.SearchURL == nil:
		return fmt.Errorf("engine %s: missing search url builder", e.Name)
	case e.Thumbnail == "":
		return fmt.Errorf("engine %s: missing thumbnail selector", e.Name)
	case len(e.FullImage) == 0:
		return fmt.Errorf("engine %s: missing full image selectors", e.Name)
	case e.SourceAttr == "":
		return fmt.Errorf("engine %s: missing source attribute", e.Name)
	}
	return nil
}

var engines = map[string]func() Engine{
	"google": GoogleImages,
}

func Lookup(name string) (Engine, error) {
	build, ok := engines[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Engine{}, fmt.Errorf("unknown search engine %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return build(), nil
}

func Names() []string {
	names := make([]string, 0, len(engines))
	for name := range engines {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
