// Package s3 archives backups in an S3-compatible bucket (AWS S3 or MinIO).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vbonduro/shishalog/internal/backupstore"
)

const (
	keyPrefix   = "backups/"
	ext         = ".json"
	contentType = "application/json"
)

type Config struct {
	Bucket    string
	Region    string
	Endpoint  string // optional, e.g. a MinIO URL
	PathStyle bool
}

type Store struct {
	client *s3.Client
	bucket string
}

// New builds a store from cfg. Credentials come from the default AWS chain.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewFromConfig(awsCfg, cfg), nil
}

// NewFromConfig builds a store from an already loaded AWS config.
func NewFromConfig(awsCfg aws.Config, cfg Config, optFns ...func(*s3.Options)) *Store {
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		for _, fn := range optFns {
			fn(o)
		}
	})
	return &Store{client: client, bucket: cfg.Bucket}
}

func objectKey(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, "/\\") {
		return "", fmt.Errorf("%w: %q", backupstore.ErrInvalidKey, key)
	}
	return keyPrefix + key + ext, nil
}

func (s *Store) Save(ctx context.Context, key string, r io.Reader) error {
	objKey, err := objectKey(key)
	if err != nil {
		return err
	}
	// Backups are small; buffering gives the SDK a seekable body with a length.
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &objKey,
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put backup %s: %w", key, err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	objKey, err := objectKey(key)
	if err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &objKey})
	if err != nil {
		if isNotFound(err) {
			return nil, backupstore.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get backup %s: %w", key, err)
	}
	return out.Body, nil
}

// Delete removes the backup. S3 deletes are idempotent, so existence is
// checked first to report ErrNotFound.
func (s *Store) Delete(ctx context.Context, key string) error {
	objKey, err := objectKey(key)
	if err != nil {
		return err
	}
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &objKey}); err != nil {
		if isNotFound(err) {
			return backupstore.ErrNotFound
		}
		return fmt.Errorf("failed to head backup %s: %w", key, err)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &objKey}); err != nil {
		return fmt.Errorf("failed to delete backup %s: %w", key, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]backupstore.Info, error) {
	infos := []backupstore.Info{}
	prefix := keyPrefix
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            &s.bucket,
			Prefix:            &prefix,
			ContinuationToken: token,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list backups: %w", err)
		}
		for _, obj := range out.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), keyPrefix)
			if !strings.HasSuffix(name, ext) || strings.Contains(name, "/") {
				continue
			}
			infos = append(infos, backupstore.Info{
				Key:       strings.TrimSuffix(name, ext),
				Size:      aws.ToInt64(obj.Size),
				CreatedAt: aws.ToTime(obj.LastModified),
			})
		}
		if aws.ToBool(out.IsTruncated) && out.NextContinuationToken != nil {
			token = out.NextContinuationToken
			continue
		}
		break
	}
	backupstore.SortNewestFirst(infos)
	return infos, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == 404
}
