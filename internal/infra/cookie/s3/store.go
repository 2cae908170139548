// Package s3 implements a cookie Store on an S3-compatible bucket (AWS S3 or
// MinIO). Each jar is one object holding tab-delimited lines.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"rnacolumns/internal/cookie/core"
)

const (
	objectSuffix  = ".cookie"
	contentType   = "text/tab-separated-values"
	defaultRegion = "us-east-1"
)

// Store implements core.Store with one object per jar under prefix.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
	mu     sync.Mutex
}

var _ core.Store = (*Store)(nil)

// Config holds explicit construction parameters (mostly for tests). For prod
// we rely primarily on environment variables.
type Config struct {
	Region    string
	Bucket    string
	Prefix    string // optional key prefix, e.g. "cookies/"
	Endpoint  string // optional; if set enables custom endpoint (e.g. MinIO)
	PathStyle bool
}

// Environment variables:
//   RNACOLUMNS_COOKIE_S3_BUCKET=<bucket> (required)
//   RNACOLUMNS_COOKIE_S3_REGION=<region> (default us-east-1)
//   RNACOLUMNS_COOKIE_S3_PREFIX=<prefix> (optional)
//   RNACOLUMNS_COOKIE_S3_ENDPOINT=<url> (optional, for MinIO)
//   RNACOLUMNS_COOKIE_S3_PATH_STYLE=true|false (default false)
//   AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)

// New creates an S3 cookie store from Config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Store{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// ConfigFromEnv reads the RNACOLUMNS_COOKIE_S3_* variables.
func ConfigFromEnv() (Config, error) {
	bucket := os.Getenv("RNACOLUMNS_COOKIE_S3_BUCKET")
	if bucket == "" {
		return Config{}, fmt.Errorf("RNACOLUMNS_COOKIE_S3_BUCKET required for s3 driver")
	}
	return Config{
		Bucket:    bucket,
		Region:    os.Getenv("RNACOLUMNS_COOKIE_S3_REGION"),
		Prefix:    os.Getenv("RNACOLUMNS_COOKIE_S3_PREFIX"),
		Endpoint:  os.Getenv("RNACOLUMNS_COOKIE_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("RNACOLUMNS_COOKIE_S3_PATH_STYLE"), "true"),
	}, nil
}

// OpenFromEnv constructs an S3 store from process environment.
func OpenFromEnv(ctx context.Context) (*Store, error) {
	cfg, err := ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	return New(ctx, cfg)
}

// Driver returns the cookie driver identifier.
func (s *Store) Driver() core.Driver { return core.DriverS3 }

// Bucket returns the configured bucket name.
func (s *Store) Bucket() string { return s.bucket }

func (s *Store) objectKey(jar string) (string, error) {
	if err := core.ValidateJar(jar); err != nil {
		return "", err
	}
	return s.prefix + jar + objectSuffix, nil
}

func (s *Store) load(ctx context.Context, key string) (map[string]string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		if isNotFound(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	defer func() { _ = out.Body.Close() }()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	entries, err := core.DecodeJar(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return entries, nil
}

func (s *Store) save(ctx context.Context, key string, entries map[string]string) error {
	if len(entries) == 0 {
		if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &key}); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		return nil
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(core.EncodeJar(entries)),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

// Get returns the stored value for key.
func (s *Store) Get(ctx context.Context, jar, key string) (string, bool, error) {
	obj, err := s.objectKey(jar)
	if err != nil {
		return "", false, err
	}
	entries, err := s.load(ctx, obj)
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

// Put creates or replaces key. The read-modify-write is serialized within
// this process only; concurrent writers on other hosts race on the object.
func (s *Store) Put(ctx context.Context, jar, key, value string) error {
	obj, err := s.objectKey(jar)
	if err != nil {
		return err
	}
	if err := core.ValidateEntry(key, value); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load(ctx, obj)
	if err != nil {
		return err
	}
	entries[key] = value
	return s.save(ctx, obj, entries)
}

// Delete removes key returning true if it existed.
func (s *Store) Delete(ctx context.Context, jar, key string) (bool, error) {
	obj, err := s.objectKey(jar)
	if err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load(ctx, obj)
	if err != nil {
		return false, err
	}
	if _, ok := entries[key]; !ok {
		return false, nil
	}
	delete(entries, key)
	if err := s.save(ctx, obj, entries); err != nil {
		return false, err
	}
	return true, nil
}

// Keys lists the jar's keys in ascending order.
func (s *Store) Keys(ctx context.Context, jar string) ([]string, error) {
	obj, err := s.objectKey(jar)
	if err != nil {
		return nil, err
	}
	entries, err := s.load(ctx, obj)
	if err != nil {
		return nil, err
	}
	return core.SortedKeys(entries), nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var status interface{ HTTPStatusCode() int }
	return errors.As(err, &status) && status.HTTPStatusCode() == http.StatusNotFound
}
