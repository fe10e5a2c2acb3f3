package publish

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/diillson/bcra-dashboard-go/internal/domain/repository"
	"github.com/diillson/bcra-dashboard-go/internal/shared/types"
)

// objectPutter is the part of the S3 client used to upload files.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3PublisherImpl implementa o PublishRepository com cache de clientes.
type S3PublisherImpl struct {
	clientCache map[string]objectPutter
	newClient   func(ctx context.Context, target types.PublishConfig) (objectPutter, error)
	mu          sync.Mutex
}

// NewS3Publisher cria uma nova implementação do PublishRepository.
func NewS3Publisher() repository.PublishRepository {
	return &S3PublisherImpl{
		clientCache: make(map[string]objectPutter),
		newClient:   newS3Client,
	}
}

func newS3Client(ctx context.Context, target types.PublishConfig) (objectPutter, error) {
	var opts []func(*config.LoadOptions) error
	if target.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(target.Profile))
	}
	if target.Region != "" {
		opts = append(opts, config.WithRegion(target.Region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for profile %q: %w", target.Profile, err)
	}
	return s3.NewFromConfig(cfg), nil
}

func (p *S3PublisherImpl) getClient(ctx context.Context, target types.PublishConfig) (objectPutter, error) {
	cacheKey := fmt.Sprintf("%s-%s", target.Profile, target.Region)

	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clientCache[cacheKey]; ok {
		return client, nil
	}

	client, err := p.newClient(ctx, target)
	if err != nil {
		return nil, err
	}
	p.clientCache[cacheKey] = client
	return client, nil
}

// Publish envia cada arquivo para s3://bucket/prefix/nome e devolve as URIs publicadas.
// Uma falha não interrompe os demais uploads.
func (p *S3PublisherImpl) Publish(ctx context.Context, target types.PublishConfig, paths []string) ([]string, error) {
	if target.Bucket == "" {
		return nil, errors.New("publish bucket is not configured")
	}

	client, err := p.getClient(ctx, target)
	if err != nil {
		return nil, err
	}

	var uris []string
	var errs []error
	for _, filePath := range paths {
		key := objectKey(target.Prefix, filePath)
		if err := putFile(ctx, client, target.Bucket, key, filePath); err != nil {
			errs = append(errs, fmt.Errorf("uploading %s: %w", filePath, err))
			continue
		}
		uris = append(uris, fmt.Sprintf("s3://%s/%s", target.Bucket, key))
	}
	return uris, errors.Join(errs...)
}

func putFile(ctx context.Context, client objectPutter, bucket, key, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType(filePath)),
	})
	return err
}

// objectKey joins the prefix and the file's base name with forward slashes.
func objectKey(prefix, filePath string) string {
	name := filepath.Base(filePath)
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

func contentType(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return "text/csv; charset=utf-8"
	case ".json":
		return "application/json"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".pdf":
		return "application/pdf"
	case ".db":
		return "application/vnd.sqlite3"
	}
	if ct := mime.TypeByExtension(filepath.Ext(filePath)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
