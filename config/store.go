package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// ErrNotFound is returned when no config is stored under a key.
var ErrNotFound = errors.New("chart config not found")

// Store loads and saves chart configs by an opaque key.
type Store interface {
	Load(ctx context.Context, key string) (*ChartConfig, error)
	Save(ctx context.Context, key string, cfg ChartConfig) error
}

// AFSStore keeps one YAML document per key under a base URL
// (file://, mem:// or any scheme afs understands).
type AFSStore struct {
	fs      afs.Service
	baseURL string
	logger  *slog.Logger
}

// NewAFSStore creates a store rooted at baseURL.
func NewAFSStore(baseURL string) *AFSStore {
	return &AFSStore{
		fs:      afs.New(),
		baseURL: baseURL,
		logger:  slog.Default().With(slog.String("module", "config")),
	}
}

func (s *AFSStore) location(key string) string {
	return url.Join(s.baseURL, key+".yaml")
}

// Load reads the config stored under key.
func (s *AFSStore) Load(ctx context.Context, key string) (*ChartConfig, error) {
	URL := s.location(key)
	ok, err := s.fs.Exists(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to check %s: %w", URL, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	data, err := s.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", URL, err)
	}
	cfg, err := Decode(data, FormatYAML)
	if err != nil {
		return nil, err
	}
	if cfg.Key == "" {
		cfg.Key = key
	}
	return cfg, nil
}

// LoadURL reads a single config document from any URL afs understands.
// The format follows the extension.
func LoadURL(ctx context.Context, URL string) (*ChartConfig, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", URL, err)
	}
	return Decode(data, FormatFromPath(URL))
}

// Save writes cfg under key, replacing any previous version.
func (s *AFSStore) Save(ctx context.Context, key string, cfg ChartConfig) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	cfg.Key = key
	data, err := Encode(cfg, FormatYAML)
	if err != nil {
		return err
	}
	URL := s.location(key)
	if err := s.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to upload %s: %w", URL, err)
	}
	s.logger.Debug("chart config saved", slog.String("key", key), slog.String("url", URL))
	return nil
}
