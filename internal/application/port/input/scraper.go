package input

import (
	"context"

	"imagescraper/internal/application/port/output"
	"imagescraper/internal/domain/entity"
)

type Harvester interface {
	Harvest(ctx context.Context, session output.Session, query entity.SearchQuery) (entity.HarvestResult, error)
}

type TermScraper interface {
	Scrape(ctx context.Context, query entity.SearchQuery) *entity.TermReport
}

type BatchRunner interface {
	Run(ctx context.Context, terms []string, template entity.SearchQuery) []*entity.TermReport
}
