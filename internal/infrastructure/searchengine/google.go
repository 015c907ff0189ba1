package searchengine

import (
	"net/url"
)

const googleSearchBase = "https://www.google.com/search"

func GoogleImages() Engine {
	return Engine{
		Name:      "google",
		SearchURL: googleSearchURL,
		Thumbnail: `[jsname="Q4LuWd"]`,
		LoadMore:  `[jsaction="Pmjnye"]`,
		FullImage: []string{
			".n3VNCb",
			".iPVvYb",
			".r48jcc",
			".pT0Scc",
		},
		SourceAttr: "src",
		// encrypted-tbn*.gstatic.com serves the cached thumbnails
		ProxyMarkers: []string{"encrypted"},
	}
}

func googleSearchURL(term string) string {
	q := url.Values{}
	q.Set("q", term)
	q.Set("source", "lnms")
	q.Set("tbm", "isch")
	q.Set("sa", "X")
	q.Set("biw", "1920")
	q.Set("bih", "947")
	return googleSearchBase + "?" + q.Encode()
}
