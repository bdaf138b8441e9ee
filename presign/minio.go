package presign

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
)

// Minio signs URLs with minio-go. The region is always set explicitly so
// signing never needs a bucket-location round trip.
type Minio struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

func NewMinio(cfg Config) (*Minio, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("new minio presigner: %w", err)
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("new minio presigner: endpoint is required")
	}

	opts := &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       cfg.UseSSL,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupAuto,
	}
	if cfg.PathStyle {
		opts.BucketLookup = minio.BucketLookupPath
	}

	client, err := minio.New(cfg.Endpoint, opts)
	if err != nil {
		return nil, fmt.Errorf("new minio presigner: %w", err)
	}

	return &Minio{client: client, bucket: cfg.Bucket, ttl: cfg.URLTTL}, nil
}

func (p *Minio) Issue(ctx context.Context, req mediastore.CapabilityRequest) (mediastore.Capability, error) {
	if err := checkRequest(req); err != nil {
		return mediastore.Capability{}, fmt.Errorf("issue minio url: %w", err)
	}

	var signed *url.URL
	var err error

	switch req.Operation {
	case mediastore.OperationWrite:
		// Signing Content-Type makes the store reject uploads of any other type.
		headers := http.Header{}
		headers.Set("Content-Type", contentTypeOf(req))
		signed, err = p.client.PresignHeader(ctx, http.MethodPut, p.bucket, req.ObjectKey, p.ttl, nil, headers)

	case mediastore.OperationRead:
		params := url.Values{}
		params.Set("response-content-type", contentTypeOf(req))
		if req.DownloadName != "" {
			params.Set("response-content-disposition", attachment(req.DownloadName))
		}
		signed, err = p.client.PresignedGetObject(ctx, p.bucket, req.ObjectKey, p.ttl, params)
	}
	if err != nil {
		return mediastore.Capability{}, fmt.Errorf("issue minio %s url: %w: %w", req.Operation, mediastore.ErrDependency, err)
	}

	slog.DebugContext(ctx, "capability url issued", "backend", "minio", "operation", req.Operation, "key", req.ObjectKey)

	return mediastore.Capability{URL: signed.String(), ExpiresIn: p.ttl}, nil
}
