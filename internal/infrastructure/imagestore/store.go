package imagestore

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"imagescraper/internal/application/port/output"
	"imagescraper/internal/domain/entity"
	"imagescraper/internal/infrastructure/pagedump"

	"github.com/disintegration/imaging"
)

var (
	_ output.ImageStore      = (*Store)(nil)
	_ output.DiagnosticsSink = (*Store)(nil)
)

const defaultJPEGQuality = 95

// ErrUnsafeName rejects base names that are not a single path element.
var ErrUnsafeName = errors.New("file name base is not a single path element")

type Store struct {
	logger      output.LoggerPort
	jpegQuality int
}

func New(logger output.LoggerPort) *Store {
	return &Store{
		logger:      logger,
		jpegQuality: defaultJPEGQuality,
	}
}

// Prepare creates dir and its parents.
func (s *Store) Prepare(dir string) error {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("Image dir not found, creating a new folder", "dir", dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create image dir: %w", err)
	}
	return nil
}

// Save validates data against req and writes it as
// {BaseName}-{Index}.{ext}, replacing any file of the same name.
func (s *Store) Save(data []byte, req output.SaveRequest) (string, error) {
	if entity.SafeName(req.BaseName) != req.BaseName {
		return "", &entity.DecodeOrSaveError{Op: "save", Err: fmt.Errorf("%w: %q", ErrUnsafeName, req.BaseName)}
	}

	art, err := decode(data)
	if err != nil {
		return "", &entity.DecodeOrSaveError{Op: "decode", Err: err}
	}

	if !req.Bounds.Contains(art.Width, art.Height) {
		return "", fmt.Errorf("%w: %dx%d", entity.ErrResolutionRejected, art.Width, art.Height)
	}

	ext, format := resolveFormat(req.SaveFormat, art.Format)
	path := filepath.Join(req.Dir, fmt.Sprintf("%s-%d.%s", req.BaseName, req.Index, ext))

	if format == art.Format {
		err = writeAtomic(path, data)
	} else {
		err = s.encode(path, art, format)
	}
	if err != nil {
		return "", &entity.DecodeOrSaveError{Op: "save", Err: err}
	}
	return path, nil
}

func (s *Store) SaveScreenshot(path string, shot *entity.Screenshot) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}
	if err := writeAtomic(path, shot.Data); err != nil {
		return "", err
	}
	return path, nil
}

// SaveSnapshot writes a cleaned copy of a page's markup.
func (s *Store) SaveSnapshot(path string, rawHTML string) (string, error) {
	cleaned, err := pagedump.Clean(rawHTML, nil)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}
	if err := writeAtomic(path, []byte(cleaned)); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Store) encode(path string, art *entity.ImageArtifact, format entity.Format) error {
	target, err := imaging.FormatFromExtension(string(format))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, toRGB(art.Image), target, imaging.JPEGQuality(s.jpegQuality)); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return writeAtomic(path, buf.Bytes())
}

// resolveFormat returns the file extension and the output format. Requests
// outside entity.SaveFormats keep the source format.
func resolveFormat(requested string, source entity.Format) (string, entity.Format) {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if entity.IsSaveFormat(requested) {
		return requested, entity.ParseFormat(requested)
	}
	return string(source), source
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write temporary file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temporary file: %w", err)
	}
	return nil
}
