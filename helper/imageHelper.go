package helper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/ramlakhangupta/City-Food-Explorer-Backend/apperror"
)

// ImageUpload is one uploaded file as received from a multipart form.
type ImageUpload struct {
	Filename string
	Body     io.Reader
}

// ImageStore persists an uploaded image and returns the reference stored on
// the dish: a file name for local storage, a URL for S3. Remove deletes a
// reference returned by Save.
type ImageStore interface {
	Save(ctx context.Context, upload ImageUpload) (string, error)
	Remove(ctx context.Context, ref string) error
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeFilename(name string) string {
	name = unsafeFileChars.ReplaceAllString(filepath.Base(name), "_")
	if name == "" || name == "." || name == "_" {
		return "image"
	}
	return name
}

// readImage reads at most maxBytes from the upload and checks that the
// content sniffs as an image.
func readImage(upload ImageUpload, maxBytes int64) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(upload.Body, maxBytes+1))
	if err != nil {
		return nil, "", apperror.Storage("Could not read uploaded image", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", apperror.Validation("img must be at most %d bytes", maxBytes)
	}
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", apperror.Validation("img must be an image, got %s", contentType)
	}
	return data, contentType, nil
}

// LocalImageStore writes uploads under dir; they are served from /uploads.
type LocalImageStore struct {
	dir      string
	maxBytes int64
}

func NewLocalImageStore(dir string, maxBytes int64) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalImageStore{dir: dir, maxBytes: maxBytes}, nil
}

func (s *LocalImageStore) Save(_ context.Context, upload ImageUpload) (string, error) {
	data, _, err := readImage(upload, s.maxBytes)
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString()[:8], sanitizeFilename(upload.Filename))
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", apperror.Storage("Could not store uploaded image", err)
	}
	return name, nil
}

func (s *LocalImageStore) Remove(_ context.Context, ref string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(ref)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove image %s: %w", ref, err)
	}
	return nil
}

type s3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3ImageStore uploads images to a bucket and returns their public URL.
type S3ImageStore struct {
	client    s3Client
	bucket    string
	publicURL string
	maxBytes  int64
}

func NewS3ImageStore(ctx context.Context, bucket, region, publicURL string, maxBytes int64) (*S3ImageStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config for S3: %w", err)
	}
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3ImageStore{
		client:    s3.NewFromConfig(cfg),
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		maxBytes:  maxBytes,
	}, nil
}

func (s *S3ImageStore) Save(ctx context.Context, upload ImageUpload) (string, error) {
	data, contentType, err := readImage(upload, s.maxBytes)
	if err != nil {
		return "", err
	}

	ext := filepath.Ext(sanitizeFilename(upload.Filename))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	key := fmt.Sprintf("dishes/%s%s", uuid.NewString(), ext)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", apperror.Storage("Could not upload image", err)
	}
	return s.publicURL + "/" + key, nil
}

func (s *S3ImageStore) Remove(ctx context.Context, ref string) error {
	key := strings.TrimPrefix(ref, s.publicURL+"/")
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
