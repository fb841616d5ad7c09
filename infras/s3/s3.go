package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"washbay/config"
	"washbay/infras/otel"
	"washbay/shared/constant"
)

const (
	otelAttrObjectKey = "s3.key"
	otelAttrBucket    = "s3.bucket"
	otelAttrSize      = "s3.size"

	defaultRegion = "auto"
)

// ObjectStore writes objects into the configured bucket.
type ObjectStore interface {
	// Put stores body under key and returns its public URL.
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type objectStore struct {
	client       *s3.Client
	bucket       string
	publicDomain string
	otel         otel.Otel
}

func New(config *config.Config, otel otel.Otel) ObjectStore {
	cfg := config.External.S3

	region := cfg.Region
	if region == constant.Empty {
		region = defaultRegion
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, constant.Empty)),
		awsConfig.WithRegion(region),
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load object storage configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.APIEndpoint != constant.Empty {
			o.BaseEndpoint = aws.String(cfg.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	return &objectStore{
		client:       client,
		bucket:       cfg.BucketName,
		publicDomain: cfg.PublicDomain,
		otel:         otel,
	}
}

func (o *objectStore) Put(ctx context.Context, key, contentType string, body []byte) (location string, err error) {
	ctx, scope := o.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".Put")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		otelAttrObjectKey: key,
		otelAttrBucket:    o.bucket,
		otelAttrSize:      len(body),
	})

	_, err = o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(o.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		log.Error().Err(err).Str("bucket", o.bucket).Str("key", key).Msg("failed to put object")

		return constant.Empty, fmt.Errorf("failed to put object %s: %w", key, err)
	}

	location, err = url.JoinPath(o.publicDomain, key)
	if err != nil {
		return constant.Empty, fmt.Errorf("failed to build object url: %w", err)
	}

	return location, nil
}
