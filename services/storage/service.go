package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/opentracing/opentracing-go"

	"github.com/mtauhidul/ats-backend-demo-sub000/interfaces"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/config"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/tracing"
	"github.com/mtauhidul/ats-backend-demo-sub000/internal/utils"
	"github.com/mtauhidul/ats-backend-demo-sub000/services/storage/aws_client"
)

// uploadTimeout bounds a single transfer. Video payloads can reach tens of
// MB over slow links.
const uploadTimeout = 5 * time.Minute

type objectStorageService struct {
	client         aws_client.S3Client
	region         string
	documentBucket string
	videoBucket    string
	cdnDomain      string
}

func NewStorageService(client aws_client.S3Client, cfg *config.StorageConfig) interfaces.StorageService {
	return &objectStorageService{
		client:         client,
		region:         cfg.Region,
		documentBucket: cfg.DocumentBucket,
		videoBucket:    cfg.VideoBucket,
		cdnDomain:      cfg.CDNDomain,
	}
}

func (s *objectStorageService) UploadDocument(ctx context.Context, content []byte, filename string) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "objectStorageService.UploadDocument")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("filename", filename)
	span.SetTag("size", len(content))

	return s.upload(ctx, s.documentBucket, "resumes", content, filename)
}

func (s *objectStorageService) UploadVideo(ctx context.Context, content []byte, filename string) (string, error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "objectStorageService.UploadVideo")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("filename", filename)
	span.SetTag("size", len(content))

	return s.upload(ctx, s.videoBucket, "videos", content, filename)
}

func (s *objectStorageService) Delete(ctx context.Context, key string) error {
	span, ctx := opentracing.StartSpanFromContext(ctx, "objectStorageService.Delete")
	defer span.Finish()
	tracing.SetDefaultServiceSpanTags(ctx, span)
	span.SetTag("key", key)

	// Keys are prefixed with their folder; the folder decides the bucket.
	bucket := s.documentBucket
	if strings.HasPrefix(key, "videos/") {
		bucket = s.videoBucket
	}
	return s.client.Delete(ctx, bucket, key)
}

func (s *objectStorageService) upload(ctx context.Context, bucket, folder string, content []byte, filename string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	key := objectKey(folder, filename)

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	uploadInput := s3manager.UploadInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	}

	if err := s.client.Upload(ctx, uploadInput); err != nil {
		return "", err
	}

	return s.publicURL(bucket, key), nil
}

// objectKey namespaces uploads by folder and a random prefix so colliding
// filenames from different applicants never overwrite each other.
func objectKey(folder, filename string) string {
	safe := strings.ReplaceAll(filepath.Base(filename), " ", "_")
	return fmt.Sprintf("%s/%s_%s", folder, utils.GenerateNanoIDWithPrefix("obj", 12), safe)
}

func (s *objectStorageService) publicURL(bucket, key string) string {
	if s.cdnDomain != "" {
		return "https://" + s.cdnDomain + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.region, key)
}
