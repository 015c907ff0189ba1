package pagedump

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

var ErrNoBody = errors.New("no <body> in page")

type Config struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// MaxAttrLen caps attribute values such as inline data: URIs.
	MaxAttrLen    int
	MaxOutputSize int
}

// DefaultConfig keeps the attributes result grids are selected by (class,
// jsname, jsaction, data-*) and drops what only bloats the dump.
var DefaultConfig = Config{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe",
		"link", "meta", "head", "title",
	},
	AttrsToRemove: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority", "tabindex",
	},
	MaxAttrLen:    200,
	MaxOutputSize: 512 << 10,
}

// Clean reduces a rendered page to its body markup for offline inspection.
func Clean(rawHTML string, cfg *Config) (string, error) {
	if cfg == nil {
		cfg = &DefaultConfig
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	body := findBodyNode(doc)
	if body == nil {
		return "", ErrNoBody
	}

	cleanNode(body, cfg)

	var sb strings.Builder
	if err := html.Render(&sb, body); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return truncate(sb.String(), cfg.MaxOutputSize), nil
}

func findBodyNode(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBodyNode(c); b != nil {
			return b
		}
	}
	return nil
}

// cleanNode drops comments and noise tags below n and filters attributes.
func cleanNode(n *html.Node, cfg *Config) {
	if n.Type == html.CommentNode {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	if isOneOf(n.Data, cfg.TagsToRemove...) {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		return
	}

	n.Attr = filterAttributes(n.Attr, cfg)

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		cleanNode(c, cfg)
		c = next
	}
}

func filterAttributes(attrs []html.Attribute, cfg *Config) []html.Attribute {
	var kept []html.Attribute
	for _, attr := range attrs {
		if isOneOf(attr.Key, cfg.AttrsToRemove...) ||
			strings.HasPrefix(attr.Key, "aria-") ||
			strings.HasPrefix(attr.Key, "on") {
			continue
		}
		if cfg.MaxAttrLen > 0 && len(attr.Val) > cfg.MaxAttrLen {
			attr.Val = cutUTF8(attr.Val, cfg.MaxAttrLen) + "..."
		}
		kept = append(kept, attr)
	}
	return kept
}

func truncate(s string, maxSize int) string {
	if maxSize > 0 && len(s) > maxSize {
		return cutUTF8(s, maxSize) + "\n<!-- truncated -->"
	}
	return s
}

// cutUTF8 returns at most n bytes of s without splitting a character.
func cutUTF8(s string, n int) string {
	if n >= len(s) {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
