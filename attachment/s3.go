package attachment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DefaultURLExpiry is the lifetime of a signed upload URL.
const DefaultURLExpiry = 60 * time.Second

// Presigner signs S3 PutObject requests. *s3.PresignClient satisfies it.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Config configures an S3Locator.
type S3Config struct {
	Bucket        string        `mapstructure:"bucket"`
	Region        string        `mapstructure:"region"`
	Endpoint      string        `mapstructure:"endpoint"`        // Custom endpoint (MinIO, LocalStack)
	UsePathStyle  bool          `mapstructure:"use_path_style"`  // Path-style addressing for custom endpoints
	PublicBaseURL string        `mapstructure:"public_base_url"` // Overrides the virtual-hosted public URL
	URLExpiry     time.Duration `mapstructure:"url_expiry"`

	// Static credentials; when empty the default AWS credential chain is used.
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
}

// S3Locator issues signed S3 upload URLs for attachments.
type S3Locator struct {
	presigner Presigner
	bucket    string
	baseURL   string
	expiry    time.Duration
}

// NewS3Locator creates a locator signing with presigner.
func NewS3Locator(presigner Presigner, cfg S3Config) (*S3Locator, error) {
	if presigner == nil {
		return nil, errors.New("new s3 locator: presigner is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("new s3 locator: bucket is required")
	}
	if cfg.Region == "" && cfg.PublicBaseURL == "" {
		return nil, errors.New("new s3 locator: region or public base url is required")
	}

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	} else if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("new s3 locator: invalid public base url: %w", err)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = DefaultURLExpiry
	}

	return &S3Locator{
		presigner: presigner,
		bucket:    cfg.Bucket,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		expiry:    expiry,
	}, nil
}

// NewS3LocatorFromConfig builds the S3 presign client from an AWS config.
func NewS3LocatorFromConfig(awsCfg aws.Config, cfg S3Config) (*S3Locator, error) {
	if cfg.Region != "" {
		awsCfg.Region = cfg.Region
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewS3Locator(s3.NewPresignClient(client), cfg)
}

// PublicURL returns the read URL of the attachment object.
func (l *S3Locator) PublicURL(attachmentID string) string {
	return l.baseURL + "/" + url.PathEscape(attachmentID)
}

// PresignUpload returns a PUT URL for the attachment object valid for the configured expiry.
func (l *S3Locator) PresignUpload(ctx context.Context, attachmentID string) (string, error) {
	if attachmentID == "" {
		return "", errors.New("presign upload: attachment id is required")
	}

	req, err := l.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(attachmentID),
	}, s3.WithPresignExpires(l.expiry))
	if err != nil {
		return "", fmt.Errorf("presign upload %s: %w", attachmentID, err)
	}

	return req.URL, nil
}
