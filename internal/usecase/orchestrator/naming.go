package orchestrator

import (
	"net/url"
	"path"
	"strings"

	"imagescraper/internal/domain/entity"
)

const maxStemLen = 80

// baseName picks the file name base: the URL's own file name when the query
// keeps original names and one can be derived, the query prefix otherwise.
// The result is always a single path element.
func baseName(query entity.SearchQuery, rawURL string) string {
	if query.KeepFilenames {
		if stem := urlStem(rawURL); stem != "" {
			return entity.SafeName(stem)
		}
	}
	return entity.SafeName(query.Prefix())
}

func urlStem(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return ""
	}
	name = strings.TrimSuffix(name, path.Ext(name))

	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, name)
	name = strings.Trim(name, "_")
	if len(name) > maxStemLen {
		name = name[:maxStemLen]
	}
	return name
}
