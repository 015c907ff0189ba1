package di

import (
	"bytes"
	"testing"
	"time"

	"imagescraper/internal/infrastructure/config"
	"imagescraper/internal/usecase/harvester"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContainer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Dir = t.TempDir()

	var out, logs bytes.Buffer
	c, err := NewContainer(cfg, Streams{Out: &out, Log: &logs})
	require.NoError(t, err)
	defer c.Close()

	assert.Len(t, c.RunID, 36)
	assert.NotNil(t, c.Batch)
	assert.NotNil(t, c.Scraper)
	assert.NotNil(t, c.Browser)
	assert.Same(t, cfg, c.Config)
}

func TestNewContainer_UnknownEngine(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Search.Engine = "altavista"

	_, err := NewContainer(cfg, Streams{Log: &bytes.Buffer{}})
	assert.ErrorContains(t, err, "unknown search engine")
}

func TestNewContainer_BadLogLevel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Logging.Level = "loud"

	_, err := NewContainer(cfg, Streams{})
	assert.ErrorContains(t, err, "failed to create logger")
}

func TestHarvestTimings(t *testing.T) {
	got := harvestTimings(config.TimingsConfig{SettlePause: 250 * time.Millisecond})

	want := harvester.DefaultTimings()
	want.SettlePause = 250 * time.Millisecond
	assert.Equal(t, want, got)
}
