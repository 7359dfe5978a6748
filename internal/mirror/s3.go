package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/erazemk/boardtrack/internal/model"
)

// S3 is a gateway storing the snapshot as a single JSON object in an
// S3-compatible bucket (AWS S3 or MinIO), for teams that want the mirror in
// object storage instead of a spreadsheet.
type S3 struct {
	client *s3.Client
	bucket string
	key    string
}

// S3Config holds construction parameters. Credentials come from the default
// AWS chain.
type S3Config struct {
	Region   string
	Bucket   string
	Key      string // object key, default "snapshot.json"
	Endpoint string // optional custom endpoint (e.g. MinIO)
}

// NewS3 creates an S3 gateway from config.
func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	if cfg.Key == "" {
		cfg.Key = "snapshot.json"
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3{client: client, bucket: cfg.Bucket, key: cfg.Key}, nil
}

// FetchSnapshot reads and decodes the snapshot object. A missing object is
// "no data yet" and returns an empty snapshot.
func (g *S3) FetchSnapshot(ctx context.Context) (model.Snapshot, error) {
	out, err := g.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &g.bucket,
		Key:    &g.key,
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return model.Snapshot{}, nil
		}
		return model.Snapshot{}, fmt.Errorf("%w: fetching s3://%s/%s: %v", ErrTransport, g.bucket, g.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: reading s3://%s/%s: %v", ErrTransport, g.bucket, g.key, err)
	}
	var snap model.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: decoding s3://%s/%s: %v", ErrTransport, g.bucket, g.key, err)
	}
	return snap, nil
}

// PushSnapshot overwrites the snapshot object.
func (g *S3) PushSnapshot(ctx context.Context, snap model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	contentType := "application/json"
	_, err = g.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &g.bucket,
		Key:         &g.key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return fmt.Errorf("%w: pushing s3://%s/%s: %v", ErrTransport, g.bucket, g.key, err)
	}
	return nil
}
