package attachment

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/sagarc03/todos"
)

// Supported storage types.
const (
	TypeS3     = "s3"
	TypeStowry = "stowry"
)

// Config selects and configures the attachment backend.
type Config struct {
	Type   string       `mapstructure:"type" validate:"required,oneof=s3 stowry"`
	S3     S3Config     `mapstructure:"s3"`
	Stowry StowryConfig `mapstructure:"stowry"`
}

// NewLocator builds the locator selected by cfg.Type.
func NewLocator(ctx context.Context, cfg Config) (todos.AttachmentLocator, error) {
	switch cfg.Type {
	case TypeS3:
		var opts []func(*awsconfig.LoadOptions) error
		if cfg.S3.Region != "" {
			opts = append(opts, awsconfig.WithRegion(cfg.S3.Region))
		}
		if cfg.S3.AccessKeyID != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, ""),
			))
		}

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("new locator: load aws config: %w", err)
		}

		locator, err := NewS3LocatorFromConfig(awsCfg, cfg.S3)
		if err != nil {
			return nil, err
		}
		return locator, nil
	case TypeStowry:
		locator, err := NewStowryLocator(cfg.Stowry)
		if err != nil {
			return nil, err
		}
		return locator, nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
