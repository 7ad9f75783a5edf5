// Package archive keeps a copy of sent order documents in S3-compatible
// object storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"shop-backend/internal/config"
)

// ObjectPutter is the subset of the S3 client the archiver uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Archiver struct {
	client ObjectPutter
	bucket string
	prefix string
}

func New(client ObjectPutter, bucket, prefix string) *Archiver {
	return &Archiver{client: client, bucket: bucket, prefix: prefix}
}

// NewS3 builds an archiver from config. It returns nil when archiving is
// disabled.
func NewS3(ctx context.Context, cfg config.ArchiveConfig) (*Archiver, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("archive bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("configure s3 client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	log.Printf("[Archive] Order documents will be archived to bucket %s", cfg.Bucket)
	return New(client, cfg.Bucket, cfg.Prefix), nil
}

// Key returns the object key of a document of an order.
func (a *Archiver) Key(orderID int, filename string) string {
	return path.Join(a.prefix, fmt.Sprint(orderID), filename)
}

type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

// StoreOrder uploads every document of an order.
func (a *Archiver) StoreOrder(ctx context.Context, orderID int, docs ...Document) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, d := range docs {
		key := a.Key(orderID, d.Filename)
		_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(a.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(d.Content),
			ContentType: aws.String(d.ContentType),
		})
		if err != nil {
			return fmt.Errorf("upload %s: %w", key, err)
		}
	}
	log.Printf("[Archive] Stored %d document(s) for order %d", len(docs), orderID)
	return nil
}
