// Package archive keeps an optional copy of processed results in Google Cloud Storage.
package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strconv"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
)

type Archiver interface {
	// Archive stores data and returns its public URL.
	Archive(ctx context.Context, accountID, filename string, data []byte) (string, error)
}

type GCSArchiver struct {
	cl         *storage.Client
	bucketName string
	uploadPath string
	timeout    time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

type GCSOptions struct {
	Bucket  string
	Prefix  string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// NewGCSArchiver uses application default credentials.
func NewGCSArchiver(ctx context.Context, opts GCSOptions) (*GCSArchiver, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 50 * time.Second
	}

	return &GCSArchiver{
		cl:         client,
		bucketName: opts.Bucket,
		uploadPath: opts.Prefix,
		timeout:    timeout,
		logger:     opts.Logger.With().Str("component", "archive").Logger(),
		now:        time.Now,
	}, nil
}

func (a *GCSArchiver) Archive(ctx context.Context, accountID, filename string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	object := objectPath(a.uploadPath, accountID, filename, a.now())

	wc := a.cl.Bucket(a.bucketName).Object(object).NewWriter(ctx)
	if _, err := io.Copy(wc, bytes.NewReader(data)); err != nil {
		_ = wc.Close()
		return "", fmt.Errorf("io.Copy: %w", err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("Writer.Close: %w", err)
	}

	url := publicURL(a.bucketName, object)
	a.logger.Debug().Str("object", object).Int("bytes", len(data)).Msg("archived result")
	return url, nil
}

func (a *GCSArchiver) Close() error {
	return a.cl.Close()
}

func objectPath(prefix, accountID, filename string, now time.Time) string {
	unique := strconv.FormatInt(now.UnixNano(), 10) + "_" + path.Base(filename)
	return prefix + path.Join(accountID, unique)
}

func publicURL(bucket, object string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, object)
}

// Noop discards results. It is used when no bucket is configured.
type Noop struct{}

func (Noop) Archive(context.Context, string, string, []byte) (string, error) {
	return "", nil
}
