package blob

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"codeshareforum/pkg/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Store uploads attachments to S3 and hands back a durable URL that is
// usable immediately for display or download.
type Store struct {
	s3Client *s3.S3
	bucket   string
	now      func() time.Time
}

func NewStore(cfg *config.Config) (*Store, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		),
	}

	// Support MinIO for local development
	if cfg.AWSEndpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.AWSEndpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
		if cfg.S3UseSSL == "false" {
			awsConfig.DisableSSL = aws.Bool(true)
		}
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	store := &Store{
		s3Client: s3.New(sess),
		bucket:   cfg.S3BucketName,
		now:      time.Now,
	}

	// Ensure bucket exists (for MinIO)
	_, err = store.s3Client.HeadBucket(&s3.HeadBucketInput{
		Bucket: aws.String(cfg.S3BucketName),
	})
	if err != nil {
		_, _ = store.s3Client.CreateBucket(&s3.CreateBucketInput{
			Bucket: aws.String(cfg.S3BucketName),
		})
	}

	return store, nil
}

// UploadImage stores a post or profile image under the owning user's namespace.
func (s *Store) UploadImage(userID string, r io.Reader, contentType string) (string, error) {
	key := fmt.Sprintf("images/%s/%d", userID, s.now().UnixMilli())
	if contentType == "" {
		contentType = "image/jpeg"
	}
	return s.upload(key, r, contentType)
}

// UploadFile stores an arbitrary attachment, keeping the display name in the key.
func (s *Store) UploadFile(userID, name string, r io.Reader, contentType string) (string, error) {
	key := fmt.Sprintf("files/%s/%d-%s", userID, s.now().UnixMilli(), name)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return s.upload(key, r, contentType)
}

func (s *Store) upload(key string, r io.Reader, contentType string) (string, error) {
	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, r); err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	_, err := s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return s.objectURL(key), nil
}

func (s *Store) DeleteFile(key string) error {
	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

func (s *Store) objectURL(key string) string {
	// Generate URL based on endpoint (MinIO or AWS S3)
	endpoint := aws.StringValue(s.s3Client.Config.Endpoint)
	if endpoint != "" && !strings.Contains(endpoint, "amazonaws.com") {
		protocol := "http"
		if s.s3Client.Config.DisableSSL != nil && !*s.s3Client.Config.DisableSSL {
			protocol = "https"
		}
		endpoint = strings.TrimPrefix(endpoint, "http://")
		endpoint = strings.TrimPrefix(endpoint, "https://")
		return fmt.Sprintf("%s://%s/%s/%s", protocol, endpoint, s.bucket, key)
	}

	region := aws.StringValue(s.s3Client.Config.Region)
	if region == "" {
		region = "us-east-1"
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, region, key)
}
