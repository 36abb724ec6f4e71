package attachment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	stowry "github.com/sagarc03/stowry-go"
)

// StowryConfig configures a StowryLocator.
type StowryConfig struct {
	Endpoint  string        `mapstructure:"endpoint"`
	AccessKey string        `mapstructure:"access_key"`
	SecretKey string        `mapstructure:"secret_key"`
	Prefix    string        `mapstructure:"prefix"` // Object path prefix, e.g. "attachments/"
	URLExpiry time.Duration `mapstructure:"url_expiry"`
}

// StowryLocator issues upload URLs signed with the stowry native scheme.
type StowryLocator struct {
	client   *stowry.Client
	endpoint string
	prefix   string
	expiry   time.Duration
}

func NewStowryLocator(cfg StowryConfig) (*StowryLocator, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("new stowry locator: endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("new stowry locator: access key and secret key are required")
	}
	if _, err := url.ParseRequestURI(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("new stowry locator: invalid endpoint: %w", err)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = DefaultURLExpiry
	}

	endpoint := strings.TrimSuffix(cfg.Endpoint, "/")
	return &StowryLocator{
		client:   stowry.NewClient(endpoint, cfg.AccessKey, cfg.SecretKey),
		endpoint: endpoint,
		prefix:   strings.Trim(cfg.Prefix, "/"),
		expiry:   expiry,
	}, nil
}

func (l *StowryLocator) objectPath(attachmentID string) string {
	if l.prefix == "" {
		return "/" + attachmentID
	}
	return "/" + l.prefix + "/" + attachmentID
}

// PublicURL returns the read URL of the attachment object.
func (l *StowryLocator) PublicURL(attachmentID string) string {
	return l.endpoint + l.objectPath(attachmentID)
}

// PresignUpload returns a PUT URL for the attachment object.
// Signing is local; ctx is only checked for cancellation.
func (l *StowryLocator) PresignUpload(ctx context.Context, attachmentID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("presign upload: %w", err)
	}
	if attachmentID == "" {
		return "", errors.New("presign upload: attachment id is required")
	}

	return l.client.PresignPut(l.objectPath(attachmentID), int(l.expiry/time.Second)), nil
}
