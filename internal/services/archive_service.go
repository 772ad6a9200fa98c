// internal/services/archive_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/chemist-backend/internal/config"
)

// ReportArchiver stores inventory report snapshots outside the database.
type ReportArchiver interface {
	Archive(ctx context.Context, report *InventoryReport) (*ArchiveResult, error)
}

type ArchiveResult struct {
	Bucket     string `json:"bucket"`
	Key        string `json:"key"`
	URL        string `json:"url"`
	Size       int64  `json:"size"`
	ArchivedAt string `json:"archived_at"`
}

// S3ReportArchiver writes reports as JSON objects under a dated prefix.
type S3ReportArchiver struct {
	client s3iface.S3API
	bucket string
	prefix string
	region string
	clock  Clock
}

func NewS3ReportArchiver(cfg config.AWSConfig) (*S3ReportArchiver, error) {
	awsConfig := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.AccessKeyID != "" {
		awsConfig.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return NewS3ReportArchiverWithClient(s3.New(sess), cfg, SystemClock), nil
}

func NewS3ReportArchiverWithClient(client s3iface.S3API, cfg config.AWSConfig, clock Clock) *S3ReportArchiver {
	if clock == nil {
		clock = SystemClock
	}
	return &S3ReportArchiver{
		client: client,
		bucket: cfg.ReportBucket,
		prefix: cfg.ReportPrefix,
		region: cfg.Region,
		clock:  clock,
	}
}

func (a *S3ReportArchiver) Archive(ctx context.Context, report *InventoryReport) (*ArchiveResult, error) {
	body, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	now := a.clock().UTC()
	key := a.objectKey(now)

	_, err = a.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String("application/json"),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload report to S3: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"bucket": a.bucket,
		"key":    key,
		"size":   len(body),
	}).Info("Inventory report archived")

	return &ArchiveResult{
		Bucket:     a.bucket,
		Key:        key,
		URL:        a.objectURL(key),
		Size:       int64(len(body)),
		ArchivedAt: now.Format(timestampLayout),
	}, nil
}

// objectKey is <prefix>/YYYY/MM/DD/inventory_<time>_<id>.json.
func (a *S3ReportArchiver) objectKey(now time.Time) string {
	id := uuid.New().String()[:8]
	name := fmt.Sprintf("inventory_%s_%s.json", now.Format("150405"), id)
	return path.Join(a.prefix, now.Format("2006/01/02"), name)
}

func (a *S3ReportArchiver) objectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, key)
}
