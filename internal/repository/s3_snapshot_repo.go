package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ObjectAPI is the part of *s3.Client the snapshot repository needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type s3SnapshotRepository struct {
	client ObjectAPI
	bucket string
	key    string
}

// NewS3SnapshotRepository stores the snapshot as one JSON object in bucket.
func NewS3SnapshotRepository(client ObjectAPI, bucket, key string) SnapshotRepository {
	if key == "" {
		key = DefaultSnapshotKey
	}
	return &s3SnapshotRepository{client: client, bucket: bucket, key: key}
}

func (r *s3SnapshotRepository) Save(ctx context.Context, snap Snapshot) error {
	data, err := EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(r.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload snapshot s3://%s/%s: %w", r.bucket, r.key, err)
	}
	return nil
}

func (r *s3SnapshotRepository) Load(ctx context.Context) (Snapshot, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(r.key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return Snapshot{}, ErrSnapshotNotFound
		}
		return Snapshot{}, fmt.Errorf("failed to download snapshot s3://%s/%s: %w", r.bucket, r.key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot body: %w", err)
	}
	return DecodeSnapshot(data)
}
