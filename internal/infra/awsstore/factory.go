// Where: internal/infra/awsstore/factory.go
// What: AWS SDK configuration for the ledger and report store.
// Why: Encapsulate region, endpoint and credential resolution in one place.
package awsstore

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const defaultAWSRegion = "us-east-1"

// Settings selects the AWS account and endpoint used for bookkeeping.
type Settings struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// NewLedger returns a DynamoDB-backed ledger writing to table.
func NewLedger(ctx context.Context, table string, settings Settings) (*Ledger, error) {
	if table == "" {
		return nil, fmt.Errorf("ledger table is required")
	}
	cfg, err := loadAWSConfig(ctx, settings)
	if err != nil {
		return nil, err
	}
	client := dynamodb.NewFromConfig(cfg, func(options *dynamodb.Options) {
		if settings.Endpoint != "" {
			options.BaseEndpoint = aws.String(settings.Endpoint)
		}
	})
	return &Ledger{client: client, table: table}, nil
}

// NewReportStore returns an S3-backed report store writing to bucket.
func NewReportStore(ctx context.Context, bucket string, settings Settings) (*ReportStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("report bucket is required")
	}
	cfg, err := loadAWSConfig(ctx, settings)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if settings.Endpoint != "" {
			options.BaseEndpoint = aws.String(settings.Endpoint)
			options.UsePathStyle = true
		}
	})
	return &ReportStore{client: client, bucket: bucket}, nil
}

func loadAWSConfig(ctx context.Context, settings Settings) (aws.Config, error) {
	region := settings.Region
	if region == "" {
		region = os.Getenv("AWS_REGION")
	}
	if region == "" {
		region = defaultAWSRegion
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if settings.AccessKey != "" && settings.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(settings.AccessKey, settings.SecretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load aws config: %w", err)
	}
	return cfg, nil
}
