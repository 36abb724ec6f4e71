// Package imagefilter downloads remote images and returns a small greyscale
// JPEG rendition of them.
package imagefilter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/disintegration/imaging"
	"github.com/sagarc03/todos"
)

const (
	DefaultWidth        = 256
	DefaultHeight       = 256
	DefaultQuality      = 60
	DefaultMaxBytes     = 10 << 20
	DefaultMaxPixels    = 16 << 20
	DefaultFetchTimeout = 15 * time.Second
)

// ErrUnprocessable is returned when the image cannot be fetched or decoded.
var ErrUnprocessable = errors.New("image could not be processed")

type Config struct {
	Enabled      bool          `mapstructure:"enabled"`
	Width        int           `mapstructure:"width" validate:"gte=0"`
	Height       int           `mapstructure:"height" validate:"gte=0"`
	Quality      int           `mapstructure:"quality" validate:"gte=0,lte=100"`
	MaxBytes     int64         `mapstructure:"max_bytes" validate:"gte=0"`
	MaxPixels    int64         `mapstructure:"max_pixels" validate:"gte=0"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`

	// AllowPrivateNetworks permits image URLs that resolve to loopback,
	// private or link-local addresses.
	AllowPrivateNetworks bool `mapstructure:"allow_private_networks"`
}

type Filter struct {
	cfg    Config
	client *http.Client
}

type Option func(*Filter)

// WithHTTPClient replaces the fetch client. The client is used as is, without
// the non-public address check.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Filter) {
		f.client = client
	}
}

// New creates a Filter. Zero config values fall back to the defaults.
func New(cfg Config, opts ...Option) *Filter {
	if cfg.Width <= 0 {
		cfg.Width = DefaultWidth
	}
	if cfg.Height <= 0 {
		cfg.Height = DefaultHeight
	}
	if cfg.Quality <= 0 {
		cfg.Quality = DefaultQuality
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	if cfg.MaxPixels <= 0 {
		cfg.MaxPixels = DefaultMaxPixels
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}

	f := &Filter{
		cfg:    cfg,
		client: newClient(cfg.FetchTimeout, cfg.AllowPrivateNetworks),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Filter downloads imageURL, resizes it to the configured size, converts it
// to greyscale and encodes it as JPEG.
//
// An invalid URL, a host resolving to a non-public address or a remote 404
// wraps todos.ErrInvalidInput; any other failure, including images above the
// pixel limit, wraps ErrUnprocessable.
func (f *Filter) Filter(ctx context.Context, imageURL string) ([]byte, error) {
	if err := validateURL(imageURL); err != nil {
		return nil, fmt.Errorf("filter image: %w", err)
	}

	src, err := f.fetch(ctx, imageURL)
	if err != nil {
		return nil, fmt.Errorf("filter image: %w", err)
	}

	if err := f.checkDimensions(src); err != nil {
		return nil, fmt.Errorf("filter image: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("filter image: decode: %w: %w", ErrUnprocessable, err)
	}

	out := imaging.Resize(img, f.cfg.Width, f.cfg.Height, imaging.Lanczos)
	out = imaging.Grayscale(out)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(f.cfg.Quality)); err != nil {
		return nil, fmt.Errorf("filter image: encode: %w: %w", ErrUnprocessable, err)
	}

	slog.DebugContext(ctx, "filtered image", "source_bytes", len(src), "output_bytes", buf.Len())
	return buf.Bytes(), nil
}

func (f *Filter) fetch(ctx context.Context, imageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", todos.ErrInvalidInput, err)
	}

	resp, err := f.client.Do(req)
	if errors.Is(err, ErrForbiddenAddress) {
		slog.DebugContext(ctx, "image fetch refused", "error", err)
		return nil, fmt.Errorf("fetch: %w: %w", todos.ErrInvalidInput, ErrForbiddenAddress)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch: %w: %w", ErrUnprocessable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: image not found at image_url", todos.ErrInvalidInput)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("fetch: %w: unexpected status %d", ErrUnprocessable, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.cfg.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("fetch: %w: %w", ErrUnprocessable, err)
	}
	if int64(len(data)) > f.cfg.MaxBytes {
		return nil, fmt.Errorf("fetch: %w: image larger than %d bytes", ErrUnprocessable, f.cfg.MaxBytes)
	}

	return data, nil
}

// checkDimensions reads only the image header and rejects images whose
// decoded size would exceed the pixel limit.
func (f *Filter) checkDimensions(src []byte) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return fmt.Errorf("decode header: %w: %w", ErrUnprocessable, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("decode header: %w: empty image", ErrUnprocessable)
	}
	if int64(cfg.Width)*int64(cfg.Height) > f.cfg.MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnprocessable, cfg.Width, cfg.Height, f.cfg.MaxPixels)
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: image_url must be an absolute http(s) URL", todos.ErrInvalidInput)
	}
	return nil
}
