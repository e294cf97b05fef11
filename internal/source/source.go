// Package source resolves an input location into an importer.File. A
// location is either a local path or an s3://bucket/key URL.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	s3config "github.com/aws/aws-sdk-go-v2/config"
	s3credentials "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/metcalfc/folio/config"
	"github.com/metcalfc/folio/internal/importer"
	"github.com/metcalfc/folio/internal/logger"
)

const s3Scheme = "s3://"

// ErrInvalidLocation is returned for s3:// URLs without a bucket or key.
var ErrInvalidLocation = errors.New("invalid location")

// Getter is the part of the S3 client the opener needs.
type Getter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Opener reads manuscripts from disk or object storage. The S3 client is
// created on first use so purely local runs never load AWS configuration.
type Opener struct {
	cfg        config.Config
	warnBytes  int64
	clientOnce sync.Once
	client     Getter
	clientErr  error
}

// New returns an Opener for cfg.
func New(cfg config.Config) *Opener {
	return &Opener{
		cfg:       cfg,
		warnBytes: int64(cfg.Import.WarnSizeMB) << 20,
	}
}

// NewWithClient returns an Opener that fetches s3:// locations through c.
func NewWithClient(cfg config.Config, c Getter) *Opener {
	o := New(cfg)
	o.clientOnce.Do(func() { o.client = c })
	return o
}

// IsRemote reports whether location names an object in S3.
func IsRemote(location string) bool {
	return strings.HasPrefix(location, s3Scheme)
}

// ParseS3 splits an s3://bucket/key URL.
func ParseS3(location string) (bucket, key string, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrInvalidLocation, err)
	}
	bucket = u.Host
	key = strings.TrimPrefix(u.Path, "/")
	if u.Scheme != "s3" || bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidLocation, location)
	}
	return bucket, key, nil
}

// baseName returns the file name of a location, which decides its format.
func baseName(location string) (string, error) {
	if !IsRemote(location) {
		return filepath.Base(location), nil
	}
	_, key, err := ParseS3(location)
	if err != nil {
		return "", err
	}
	return path.Base(key), nil
}

// Open reads the file at location. Locations whose extension is not a
// supported format fail with importer.ErrUnsupportedFormat before anything
// is read or fetched.
func (o *Opener) Open(ctx context.Context, location string) (importer.File, error) {
	name, err := baseName(location)
	if err != nil {
		return importer.File{}, err
	}
	if _, err := importer.DetectFormat(name); err != nil {
		return importer.File{}, err
	}

	var f importer.File
	if IsRemote(location) {
		f, err = o.openS3(ctx, location)
	} else {
		f, err = openLocal(location)
	}
	if err != nil {
		return importer.File{}, err
	}

	if o.warnBytes > 0 && int64(len(f.Data)) > o.warnBytes {
		logger.Warn("%s is %.1f MB, larger than the %d MB recommended for import",
			f.Name, float64(len(f.Data))/(1<<20), o.cfg.Import.WarnSizeMB)
	}
	return f, nil
}

func openLocal(p string) (importer.File, error) {
	abs := p
	if !filepath.IsAbs(abs) {
		cwd, err := os.Getwd()
		if err != nil {
			return importer.File{}, err
		}
		abs = filepath.Join(cwd, p)
	}
	return importer.ReadFile(abs)
}

func (o *Opener) openS3(ctx context.Context, location string) (importer.File, error) {
	bucket, key, err := ParseS3(location)
	if err != nil {
		return importer.File{}, err
	}

	c, err := o.s3Client(ctx)
	if err != nil {
		return importer.File{}, fmt.Errorf("s3 client: %w", err)
	}

	out, err := c.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return importer.File{}, fmt.Errorf("fetching %s: %w", location, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return importer.File{}, fmt.Errorf("reading %s: %w", location, err)
	}

	logger.Debug("fetched %s (%d bytes)", location, len(data))
	return importer.File{Name: path.Base(key), Data: data}, nil
}

func (o *Opener) s3Client(ctx context.Context) (Getter, error) {
	o.clientOnce.Do(func() {
		o.client, o.clientErr = newS3Client(ctx, o.cfg)
	})
	return o.client, o.clientErr
}

func newS3Client(ctx context.Context, cfg config.Config) (*s3.Client, error) {
	s3cfg := cfg.S3
	region := s3cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := []func(*s3config.LoadOptions) error{
		s3config.WithRegion(region),
	}
	if s3cfg.AccessKey != "" && s3cfg.SecretKey != "" {
		opts = append(opts, s3config.WithCredentialsProvider(
			s3credentials.NewStaticCredentialsProvider(s3cfg.AccessKey, s3cfg.SecretKey, ""),
		))
	}

	awsCfg, err := s3config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = s3cfg.PathStyle
		if s3cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(s3cfg.Endpoint)
		}
	}), nil
}
