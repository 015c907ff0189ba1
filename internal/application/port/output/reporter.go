package output

import (
	"context"

	"imagescraper/internal/domain/entity"
)

// ReporterPort renders run progress for the operator.
type ReporterPort interface {
	ShowTermStart(ctx context.Context, term string)
	ShowImage(ctx context.Context, term string, result entity.ImageResult)
	ShowSummary(ctx context.Context, reports []*entity.TermReport)
}
