package batch

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"imagescraper/internal/application/port/output"
	"imagescraper/internal/domain/entity"
	"imagescraper/internal/infrastructure/imagestore"
	"imagescraper/internal/infrastructure/logger"
	"imagescraper/internal/usecase/orchestrator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSession struct{}

func (nopSession) Navigate(ctx context.Context, url string) error { return nil }

func (nopSession) Elements(ctx context.Context, selector string) ([]output.Element, error) {
	return nil, nil
}

func (nopSession) WaitVisible(ctx context.Context, selectors []string, timeout time.Duration) error {
	return nil
}

func (nopSession) Screenshot(ctx context.Context) (*entity.Screenshot, error) { return nil, nil }

func (nopSession) HTML(ctx context.Context) (string, error) { return "", nil }

func (nopSession) Close() error { return nil }

type nopBrowser struct{}

func (nopBrowser) NewSession(ctx context.Context, opts output.SessionOptions) (output.Session, error) {
	return nopSession{}, nil
}

type oneURLHarvester struct{}

func (oneURLHarvester) Harvest(ctx context.Context, session output.Session, query entity.SearchQuery) (entity.HarvestResult, error) {
	return entity.HarvestResult{URLs: []string{"https://img.example.com/a.png"}, Examined: 1}, nil
}

type pngFetcher struct {
	data []byte
}

func (f pngFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f.data, nil
}

func newPipeline(t *testing.T) *UseCase {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 8, 8))))

	log := logger.NewNop()
	reporter := &summaryRecorder{}
	scraper := orchestrator.New(nopBrowser{}, oneURLHarvester{}, pngFetcher{data: buf.Bytes()}, imagestore.New(log), reporter, log)
	return New(scraper, reporter, log, 0)
}

func TestRun_TermsWithPathCharactersStayInsideRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "photos")
	tmpl := template()
	tmpl.OutputDir = root
	tmpl.SaveFormat = "png"
	tmpl.Bounds.Max = entity.Resolution{Width: 9999, Height: 9999}

	reports := newPipeline(t).Run(context.Background(), []string{"AC/DC", "../../escape"}, tmpl)

	require.Len(t, reports, 2)
	for _, r := range reports {
		require.NoError(t, r.Err, r.Term)
		require.Len(t, r.Images, 1, r.Term)
		assert.Equal(t, entity.OutcomeSaved, r.Images[0].Outcome, r.Term)
		assert.Equal(t, r.Dir, filepath.Dir(r.Images[0].Path), r.Term)
	}
	assert.FileExists(t, filepath.Join(root, "AC_DC", "AC_DC-0.png"))
	assert.FileExists(t, filepath.Join(root, ".._.._escape", ".._.._escape-0.png"))

	entries, err := os.ReadDir(base)
	require.NoError(t, err)
	require.Len(t, entries, 1, "nothing written beside the output root")
	assert.Equal(t, "photos", entries[0].Name())
}

func TestRun_CollidingTermsGetSeparateDirectories(t *testing.T) {
	root := t.TempDir()
	tmpl := template()
	tmpl.OutputDir = root
	tmpl.SaveFormat = "png"
	tmpl.Bounds.Max = entity.Resolution{Width: 9999, Height: 9999}

	reports := newPipeline(t).Run(context.Background(), []string{"a:b", "a_b"}, tmpl)

	require.Len(t, reports, 2)
	assert.NotEqual(t, reports[0].Dir, reports[1].Dir)
	assert.FileExists(t, filepath.Join(root, "a_b", "a_b-0.png"))
	assert.FileExists(t, filepath.Join(root, "a_b-2", "a_b-0.png"))
}
