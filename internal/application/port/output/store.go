package output

import "imagescraper/internal/domain/entity"

type SaveRequest struct {
	Dir        string
	BaseName   string
	Index      int
	SaveFormat string
	Bounds     entity.ResolutionBounds
}

// ImageStore validates downloaded images and writes them to disk.
type ImageStore interface {
	Prepare(dir string) error
	Save(data []byte, req SaveRequest) (string, error)
}

// DiagnosticsSink keeps page captures taken when a search goes wrong.
type DiagnosticsSink interface {
	SaveScreenshot(path string, shot *entity.Screenshot) (string, error)
	SaveSnapshot(path string, rawHTML string) (string, error)
}
