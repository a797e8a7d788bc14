// Package storage uploads and deletes media objects on S3-compatible storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"vidtube/internal/apperr"
	"vidtube/internal/config"
	"vidtube/internal/logging"
	"vidtube/internal/model"
)

// ErrKeyOutsideKind is returned when a delete names a key outside its kind's folder.
var ErrKeyOutsideKind = errors.New("storage: key does not belong to media kind")

// objectAPI is the subset of *s3.Client used for images and deletes.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// streamUploader is the subset of *manager.Uploader used for video files.
type streamUploader interface {
	Upload(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// S3Store implements the blob store on an S3-compatible bucket.
type S3Store struct {
	client    objectAPI
	uploader  streamUploader
	bucket    string
	publicURL string
}

// NewS3Store builds a client for the configured endpoint. An empty endpoint
// means AWS itself.
func NewS3Store(ctx context.Context, cfg *config.Config) (*S3Store, error) {
	if cfg.S3Bucket == "" || cfg.S3PublicURL == "" {
		return nil, fmt.Errorf("missing S3 bucket configuration")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3Region),
	}
	if cfg.S3AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKeyID, cfg.S3SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = true
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return newS3Store(client, uploader, cfg.S3Bucket, cfg.S3PublicURL), nil
}

func newS3Store(client objectAPI, uploader streamUploader, bucket, publicURL string) *S3Store {
	return &S3Store{
		client:    client,
		uploader:  uploader,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}
}

// Upload validates the file for kind, normalizes images to JPEG and stores
// the object under a fresh key.
func (s *S3Store) Upload(ctx context.Context, kind model.MediaKind, file model.MediaFile) (*model.UploadResult, error) {
	if kind.IsImage() {
		return s.uploadImage(ctx, kind, file)
	}
	return s.uploadVideo(ctx, file)
}

func (s *S3Store) uploadImage(ctx context.Context, kind model.MediaKind, file model.MediaFile) (*model.UploadResult, error) {
	data, _, err := readAndValidateImage(file, kind.MaxSize())
	if err != nil {
		return nil, err
	}

	width, height := kind.Dimensions()
	jpegBytes, err := resizeToJPEG(data, width, height, 85)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("%s/%s%s", kind.Folder(), uuid.NewString(), model.ImageExt)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(jpegBytes),
		ContentType:  aws.String(model.ContentTypeJPEG),
		CacheControl: aws.String(model.MediaCacheControl),
		ACL:          s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return nil, apperr.Wrap(model.ErrUploadFailed, err)
	}

	return &model.UploadResult{URL: s.urlFor(key), Key: key}, nil
}

// uploadVideo streams the file through the multipart uploader without
// buffering it whole.
func (s *S3Store) uploadVideo(ctx context.Context, file model.MediaFile) (*model.UploadResult, error) {
	contentType := baseContentType(file.ContentType)
	if !model.IsAllowedContentType(model.MediaVideo, contentType) {
		return nil, model.ErrInvalidMediaType
	}
	if file.Size > model.MaxVideoSize {
		return nil, model.ErrFileTooLarge
	}

	key := fmt.Sprintf("%s/%s%s", model.MediaVideo.Folder(), uuid.NewString(), model.VideoExt(contentType))
	body := &limitedReader{r: file.Reader, remaining: model.MaxVideoSize}
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String(model.MediaCacheControl),
		ACL:          s3types.ObjectCannedACLPublicRead,
	})
	if body.exceeded {
		return nil, model.ErrFileTooLarge
	}
	if err != nil {
		return nil, apperr.Wrap(model.ErrUploadFailed, err)
	}

	return &model.UploadResult{URL: s.urlFor(key), Key: key}, nil
}

// Delete removes an object by key. The key must sit in the folder of kind,
// so a stale or forged key cannot reach another kind's objects. An empty key
// is a no-op.
func (s *S3Store) Delete(ctx context.Context, key string, kind model.MediaKind) error {
	if key == "" {
		return nil
	}
	if !kind.Valid() || !strings.HasPrefix(key, kind.Folder()+"/") {
		return fmt.Errorf("delete %s as %q: %w", key, kind, ErrKeyOutsideKind)
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	logging.Component(ctx, "storage").WithField("key", key).Debug("object deleted")
	return nil
}

func (s *S3Store) urlFor(key string) string {
	return fmt.Sprintf("%s/%s", s.publicURL, key)
}

// limitedReader fails the upload once more than remaining bytes were read.
type limitedReader struct {
	r         io.Reader
	remaining int64
	exceeded  bool
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		l.exceeded = true
		return n, model.ErrFileTooLarge
	}
	return n, err
}
