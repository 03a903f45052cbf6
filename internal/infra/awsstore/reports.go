// Where: internal/infra/awsstore/reports.go
// What: S3 run report store.
package awsstore

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ReportStore uploads JSON run reports to a bucket.
type ReportStore struct {
	client s3API
	bucket string
}

// Put writes body to key.
func (r *ReportStore) Put(ctx context.Context, key string, body []byte) error {
	if r == nil || r.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	return err
}
