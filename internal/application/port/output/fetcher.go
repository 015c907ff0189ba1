package output

import "context"

type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
