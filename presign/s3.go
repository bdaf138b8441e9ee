package presign

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	mediastore "github.com/YamesYamerson/secure-multimedia-storage"
)

// S3 signs URLs with the AWS SDK. It works against AWS and any
// S3-compatible store reachable at Config.Endpoint.
type S3 struct {
	client *s3.PresignClient
	bucket string
	ttl    time.Duration
}

// NewS3 builds an S3 presigner. Static credentials are used when both keys
// are set; otherwise the default AWS credential chain applies.
func NewS3(ctx context.Context, cfg Config) (*S3, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("new s3 presigner: %w", err)
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("new s3 presigner: load config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
		// Otherwise PUT URLs carry a checksum of an empty body.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return &S3{
		client: s3.NewPresignClient(client),
		bucket: cfg.Bucket,
		ttl:    cfg.URLTTL,
	}, nil
}

func (p *S3) Issue(ctx context.Context, req mediastore.CapabilityRequest) (mediastore.Capability, error) {
	if err := checkRequest(req); err != nil {
		return mediastore.Capability{}, fmt.Errorf("issue s3 url: %w", err)
	}

	var url string
	switch req.Operation {
	case mediastore.OperationWrite:
		contentType := contentTypeOf(req)
		signed, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(p.bucket),
			Key:         aws.String(req.ObjectKey),
			ContentType: aws.String(contentType),
		}, s3.WithPresignExpires(p.ttl), signContentType(contentType))
		if err != nil {
			return mediastore.Capability{}, fmt.Errorf("issue s3 write url: %w: %w", mediastore.ErrDependency, err)
		}
		url = signed.URL

	case mediastore.OperationRead:
		in := &s3.GetObjectInput{
			Bucket:              aws.String(p.bucket),
			Key:                 aws.String(req.ObjectKey),
			ResponseContentType: aws.String(contentTypeOf(req)),
		}
		if req.DownloadName != "" {
			in.ResponseContentDisposition = aws.String(attachment(req.DownloadName))
		}
		signed, err := p.client.PresignGetObject(ctx, in, s3.WithPresignExpires(p.ttl))
		if err != nil {
			return mediastore.Capability{}, fmt.Errorf("issue s3 read url: %w: %w", mediastore.ErrDependency, err)
		}
		url = signed.URL
	}

	slog.DebugContext(ctx, "capability url issued", "backend", "s3", "operation", req.Operation, "key", req.ObjectKey)

	return mediastore.Capability{URL: url, ExpiresIn: p.ttl}, nil
}

// signContentType makes the presigner sign Content-Type. The SDK leaves the
// header out of X-Amz-SignedHeaders for body-less PUTs, which would let an
// upload declare any type.
func signContentType(contentType string) func(*s3.PresignOptions) {
	return func(o *s3.PresignOptions) {
		o.Presigner = contentTypeSigner{next: o.Presigner, contentType: contentType}
	}
}

type contentTypeSigner struct {
	next        s3.HTTPPresignerV4
	contentType string
}

func (s contentTypeSigner) PresignHTTP(
	ctx context.Context, credentials aws.Credentials, r *http.Request,
	payloadHash string, service string, region string, signingTime time.Time,
	optFns ...func(*v4.SignerOptions),
) (string, http.Header, error) {
	r = r.Clone(ctx)
	r.Header.Set("Content-Type", s.contentType)
	return s.next.PresignHTTP(ctx, credentials, r, payloadHash, service, region, signingTime, optFns...)
}
