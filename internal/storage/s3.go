// Package storage guarda as fotos das vistorias em um bucket S3.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/oklog/ulid/v2"
)

//go:generate mockgen -source=s3.go -destination=mocks/storage_mock.go -package=mocks

// ObjectStore é o armazenamento de objetos usado pelos serviços.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	KeyFromURL(rawURL string) (string, error)
}

// S3API é o subconjunto do cliente S3 usado pelo S3Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Options descreve a conexão com o bucket.
type Options struct {
	Region          string
	Bucket          string
	Endpoint        string // ex.: http://localstack:4566
	AccessKeyID     string
	SecretAccessKey string
	PublicBaseURL   string
}

// NewS3Client carrega a configuração AWS e cria o cliente S3.
// Com Endpoint definido o cliente usa path-style, como exige o LocalStack.
func NewS3Client(ctx context.Context, opts Options) (*s3.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, "")))
	}
	if opts.Endpoint != "" {
		resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
			if service == s3.ServiceID {
				return aws.Endpoint{URL: opts.Endpoint, SigningRegion: region, HostnameImmutable: true}, nil
			}
			return aws.Endpoint{}, &aws.EndpointNotFoundError{}
		})
		loadOpts = append(loadOpts, config.WithEndpointResolverWithOptions(resolver))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.UsePathStyle = true
		}
	}), nil
}

// S3Store implementa ObjectStore sobre um bucket S3.
type S3Store struct {
	client  S3API
	bucket  string
	baseURL string
}

// NewS3Store cria um S3Store. A URL pública vem de PublicBaseURL, do endpoint
// local (path-style) ou do padrão virtual-hosted da AWS.
func NewS3Store(client S3API, opts Options) *S3Store {
	base := strings.TrimRight(opts.PublicBaseURL, "/")
	if base == "" {
		base = PublicBaseURL(opts.Bucket, opts.Region, opts.Endpoint)
	}
	return &S3Store{client: client, bucket: opts.Bucket, baseURL: base}
}

// PublicBaseURL monta o prefixo das URLs públicas dos objetos.
func PublicBaseURL(bucket, region, endpoint string) string {
	if endpoint != "" {
		return strings.TrimRight(endpoint, "/") + "/" + bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}

// Put envia o objeto e devolve sua URL pública.
func (s *S3Store) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return s.URL(key), nil
}

// Delete remove o objeto do bucket.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// URL devolve a URL pública de uma chave.
func (s *S3Store) URL(key string) string {
	return s.baseURL + "/" + key
}

// KeyFromURL extrai a chave do objeto a partir da URL gravada no banco.
func (s *S3Store) KeyFromURL(rawURL string) (string, error) {
	if strings.HasPrefix(rawURL, s.baseURL+"/") {
		return strings.TrimPrefix(rawURL, s.baseURL+"/"), nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid object url %q: %w", rawURL, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	key = strings.TrimPrefix(key, s.bucket+"/")
	if key == "" {
		return "", fmt.Errorf("invalid object url %q: empty key", rawURL)
	}
	return key, nil
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// NewPhotoKey gera a chave de uma foto: prefixo da OS, ULID e o nome original saneado.
func NewPhotoKey(orderID int64, filename string) string {
	name := unsafeChars.ReplaceAllString(path.Base(filename), "_")
	if name == "" || name == "." || name == "_" {
		name = "foto"
	}
	return fmt.Sprintf("os/%d/%s-%s", orderID, ulid.Make().String(), name)
}

var _ ObjectStore = (*S3Store)(nil)
