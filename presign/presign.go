// Package presign issues capability URLs against an S3-compatible object
// store. Each URL grants one operation on one object for a fixed lifetime.
package presign

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"time"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
)

const (
	DefaultURLTTL = time.Hour
	// MaxURLTTL is the longest lifetime SigV4 query signing allows.
	MaxURLTTL = 7 * 24 * time.Hour
)

// Config selects and configures the signing backend.
type Config struct {
	// Backend is "s3" (aws-sdk-go-v2) or "minio" (minio-go).
	Backend string `mapstructure:"backend" validate:"required,oneof=s3 minio"`
	// Endpoint overrides the store address. For s3 it is a full URL and may be
	// empty for AWS itself; for minio it is host[:port].
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket" validate:"required"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	// UseSSL is honoured by the minio backend only.
	UseSSL bool `mapstructure:"use_ssl"`
	// PathStyle forces path-style bucket addressing.
	PathStyle bool `mapstructure:"path_style"`
	// URLTTL is the lifetime of every issued URL.
	URLTTL time.Duration `mapstructure:"url_ttl"`
}

func (c Config) withDefaults() (Config, error) {
	if c.Bucket == "" {
		return c, errors.New("bucket is required")
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.URLTTL <= 0 {
		c.URLTTL = DefaultURLTTL
	}
	if c.URLTTL > MaxURLTTL {
		return c, fmt.Errorf("url ttl %s exceeds maximum of %s", c.URLTTL, MaxURLTTL)
	}
	return c, nil
}

// New builds the issuer selected by cfg.Backend.
func New(ctx context.Context, cfg Config) (mediastore.URLIssuer, error) {
	switch cfg.Backend {
	case "s3":
		return NewS3(ctx, cfg)
	case "minio":
		return NewMinio(cfg)
	default:
		return nil, fmt.Errorf("new presigner: unsupported backend: %q", cfg.Backend)
	}
}

// attachment builds a Content-Disposition value that makes browsers save the
// object under name.
func attachment(name string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return "attachment"
}

func checkRequest(req mediastore.CapabilityRequest) error {
	if req.ObjectKey == "" {
		return fmt.Errorf("%w: object key cannot be empty", mediastore.ErrInvalidInput)
	}
	switch req.Operation {
	case mediastore.OperationRead, mediastore.OperationWrite:
		return nil
	default:
		return fmt.Errorf("%w: unknown operation %q", mediastore.ErrInvalidInput, req.Operation)
	}
}

func contentTypeOf(req mediastore.CapabilityRequest) string {
	if req.ContentType == "" {
		return mediastore.DefaultContentType
	}
	return req.ContentType
}
