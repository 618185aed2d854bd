// Package storage persists resumes and generated reports in S3-compatible
// object storage. Resume objects live under {userID}/{uuid}.{ext} in the
// resumes bucket; report PDFs live at {reportID}.pdf in the reports bucket.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"github.com/hirejourne/prep-agent/internal/config"
)

// MaxResumeSize caps resume uploads at 5MB.
const MaxResumeSize = 5 << 20

var resumeContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// ErrObjectNotFound is returned when a requested object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// s3API is the slice of the S3 client the storage layer calls.
type s3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Client wraps an S3-compatible backend with the bucket layout the
// service expects.
type Client struct {
	s3  s3API
	cfg config.StorageConfig

	// backoff overrides the verification retry base delay; zero means 1s.
	backoff time.Duration
}

// NewClient builds a storage client from configuration. A non-empty
// endpoint switches to path-style addressing for S3-compatible backends.
func NewClient(ctx context.Context, cfg config.StorageConfig) (*Client, error) {
	optFns := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		optFns = append(optFns, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, optFns...)
	if err != nil {
		return nil, fmt.Errorf("failed to build AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{s3: s3Client, cfg: cfg}, nil
}

// UploadResume stores a resume for a user and returns its public URL.
// The object key is user-scoped with a fresh UUID so concurrent uploads
// of identically named files never collide.
func (c *Client) UploadResume(ctx context.Context, userID uuid.UUID, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("resume file is empty")
	}
	if len(data) > MaxResumeSize {
		return "", fmt.Errorf("resume file exceeds the %dMB limit", MaxResumeSize>>20)
	}

	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := resumeContentTypes[ext]
	if !ok {
		return "", fmt.Errorf("unsupported resume file type %q: must be pdf, doc, or docx", ext)
	}

	key := fmt.Sprintf("%s/%s%s", userID, uuid.NewString(), ext)
	if err := c.put(ctx, c.cfg.ResumesBucket, key, data, contentType); err != nil {
		return "", fmt.Errorf("failed to upload resume: %w", err)
	}
	return c.PublicURL(c.cfg.ResumesBucket, key), nil
}

// UploadReport stores a generated PDF report and returns its public URL.
// Re-uploading for the same report ID overwrites the previous object.
func (c *Client) UploadReport(ctx context.Context, reportID uuid.UUID, pdf []byte) (string, error) {
	if len(pdf) == 0 {
		return "", fmt.Errorf("report PDF is empty")
	}

	key := reportID.String() + ".pdf"
	if err := c.put(ctx, c.cfg.ReportsBucket, key, pdf, "application/pdf"); err != nil {
		return "", fmt.Errorf("failed to upload report: %w", err)
	}
	return c.PublicURL(c.cfg.ReportsBucket, key), nil
}

func (c *Client) put(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to put object %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Get retrieves an object's bytes, or ErrObjectNotFound.
func (c *Client) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucket, key, err)
	}
	defer out.Body.Close()

	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(out.Body); err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return buf.Bytes(), nil
}

// Exists reports whether an object is present.
func (c *Client) Exists(ctx context.Context, bucket, key string) (bool, error) {
	_, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object %s/%s: %w", bucket, key, err)
	}
	return true, nil
}

// Delete removes an object. Deleting a missing object is not an error.
func (c *Client) Delete(ctx context.Context, bucket, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (c *Client) copy(ctx context.Context, bucket, srcKey, dstKey string) error {
	_, err := c.s3.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(bucket),
		CopySource: aws.String(bucket + "/" + srcKey),
		Key:        aws.String(dstKey),
	})
	if err != nil {
		return fmt.Errorf("failed to copy object %s to %s: %w", srcKey, dstKey, err)
	}
	return nil
}

// ResumesBucket returns the configured resumes bucket name.
func (c *Client) ResumesBucket() string { return c.cfg.ResumesBucket }

// ReportsBucket returns the configured reports bucket name.
func (c *Client) ReportsBucket() string { return c.cfg.ReportsBucket }

// PublicURL derives the externally visible URL for an object.
func (c *Client) PublicURL(bucket, key string) string {
	if c.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(c.cfg.Endpoint, "/"), bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, c.cfg.Region, key)
}

// KeyFromURL extracts the object key from a stored URL for the given
// bucket. It accepts path-style URLs, virtual-hosted URLs, and the
// legacy /object/public/{bucket}/{key} form produced by the previous
// storage backend. The second return is false when the URL does not
// reference the bucket.
func KeyFromURL(rawURL, bucket string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return "", false
	}
	p := strings.TrimPrefix(u.Path, "/")

	if rest, ok := strings.CutPrefix(p, "object/public/"+bucket+"/"); ok && rest != "" {
		return rest, true
	}
	if idx := strings.Index(p, "/object/public/" + bucket + "/"); idx >= 0 {
		rest := p[idx+len("/object/public/"+bucket+"/"):]
		if rest != "" {
			return rest, true
		}
	}
	if rest, ok := strings.CutPrefix(p, bucket+"/"); ok && rest != "" {
		return rest, true
	}
	if strings.HasPrefix(u.Host, bucket+".") && p != "" {
		return p, true
	}
	return "", false
}

func isNotFoundError(err error) bool {
	var nsk *s3types.NoSuchKey
	var nf *s3types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}
