// Package objectstorage saves files either to local disk or to a S3-like bucket
package objectstorage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/cardinal-bot/cardinal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	TypeLocal  = "local"
	TypeS3Like = "s3-like"
)

// A simple abstraction for object storage
type ObjectStorage struct {
	c *config.ObjectStorageConfig

	// If s3-like
	minio *minio.Client

	// if s3-like
	cdnMinio *minio.Client
}

func New(c *config.ObjectStorageConfig) (o *ObjectStorage, err error) {
	o = &ObjectStorage{
		c: c,
	}

	switch c.Type {
	case TypeS3Like:
		o.minio, err = minio.New(c.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
			Secure: c.Secure,
		})

		if err != nil {
			return nil, err
		}

		cdnEndpoint := c.CdnEndpoint
		if cdnEndpoint == "" {
			cdnEndpoint = c.Endpoint
		}

		o.cdnMinio, err = minio.New(cdnEndpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(c.AccessKey, c.SecretKey, ""),
			Secure: c.CdnSecure,
		})

		if err != nil {
			return nil, err
		}
	case TypeLocal:
		err = os.MkdirAll(c.Path, 0755)

		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.New("invalid object storage type")
	}

	return o, nil
}

// Saves a file to the object storage
//
// Note that 'expiry' is not supported for local storage
func (o *ObjectStorage) Save(ctx context.Context, dir, filename, contentType string, data *bytes.Buffer, expiry time.Duration) error {
	switch o.c.Type {
	case TypeLocal:
		err := os.MkdirAll(filepath.Join(o.c.Path, dir), 0755)

		if err != nil {
			return err
		}

		f, err := os.Create(filepath.Join(o.c.Path, dir, filename))

		if err != nil {
			return err
		}

		defer f.Close()

		_, err = io.Copy(f, data)

		return err
	case TypeS3Like:
		p := minio.PutObjectOptions{
			ContentType: contentType,
		}

		if expiry != 0 {
			p.Expires = time.Now().Add(expiry)
		}

		_, err := o.minio.PutObject(ctx, o.c.Path, path.Join(dir, filename), data, int64(data.Len()), p)

		return err
	default:
		return fmt.Errorf("operation not supported for object storage type %s", o.c.Type)
	}
}

// Returns the url to the file
func (o *ObjectStorage) GetUrl(ctx context.Context, dir, filename string, urlExpiry time.Duration) (*url.URL, error) {
	switch o.c.Type {
	case TypeLocal:
		return &url.URL{
			Scheme: "file",
			Path:   filepath.Join(o.c.Path, dir, filename),
		}, nil
	case TypeS3Like:
		p, err := o.cdnMinio.PresignedGetObject(ctx, o.c.Path, path.Join(dir, filename), urlExpiry, nil)

		if err != nil {
			return nil, err
		}

		return p, nil
	default:
		return nil, fmt.Errorf("operation not supported for object storage type %s", o.c.Type)
	}
}

// Deletes a file
func (o *ObjectStorage) Delete(ctx context.Context, dir, filename string) error {
	switch o.c.Type {
	case TypeLocal:
		return os.Remove(filepath.Join(o.c.Path, dir, filename))
	case TypeS3Like:
		return o.minio.RemoveObject(ctx, o.c.Path, path.Join(dir, filename), minio.RemoveObjectOptions{})
	default:
		return fmt.Errorf("operation not supported for object storage type %s", o.c.Type)
	}
}
