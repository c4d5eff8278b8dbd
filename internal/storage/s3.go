// Package storage mirrors output artifacts to S3 when a bucket is
// configured. Mirroring is an offsite copy, never the serving path.
package storage

import (
    "bytes"
    "context"
    "fmt"
    "io"
    "os"
    "path"
    "path/filepath"

    "github.com/aws/aws-sdk-go-v2/aws"
    awscfg "github.com/aws/aws-sdk-go-v2/config"
    "github.com/aws/aws-sdk-go-v2/feature/s3/manager"
    "github.com/aws/aws-sdk-go-v2/service/s3"
    "github.com/rs/zerolog/log"
)

// Mirror uploads local artifacts to an S3 bucket under a fixed key prefix.
// With a non-empty password every object is sealed with a password-derived
// AES-GCM envelope before upload.
type Mirror struct {
    client   *s3.Client
    uploader *manager.Uploader
    bucket   string
    prefix   string
    password string
}

// NewMirror builds a Mirror from the ambient AWS configuration.
func NewMirror(ctx context.Context, bucket, prefix, password string) (*Mirror, error) {
    if bucket == "" {
        return nil, fmt.Errorf("mirror bucket not configured")
    }
    cfg, err := awscfg.LoadDefaultConfig(ctx)
    if err != nil {
        return nil, fmt.Errorf("load AWS config: %w", err)
    }
    client := s3.NewFromConfig(cfg)
    return &Mirror{
        client:   client,
        uploader: manager.NewUploader(client),
        bucket:   bucket,
        prefix:   prefix,
        password: password,
    }, nil
}

// Upload copies one local file to s3://<bucket>/<prefix>/<basename>.
func (m *Mirror) Upload(ctx context.Context, localPath string) error {
    key := path.Join(m.prefix, filepath.Base(localPath))
    if m.password != "" {
        return m.uploadSealed(ctx, localPath, key)
    }

    f, err := os.Open(localPath)
    if err != nil {
        return fmt.Errorf("open artifact: %w", err)
    }
    defer f.Close()

    if _, err := m.uploader.Upload(ctx, &s3.PutObjectInput{
        Bucket: aws.String(m.bucket),
        Key:    aws.String(key),
        Body:   f,
    }); err != nil {
        return fmt.Errorf("upload to s3://%s/%s: %w", m.bucket, key, err)
    }

    log.Debug().Str("bucket", m.bucket).Str("key", key).Msg("artifact mirrored")
    return nil
}

func (m *Mirror) uploadSealed(ctx context.Context, localPath, key string) error {
    data, err := os.ReadFile(localPath)
    if err != nil {
        return fmt.Errorf("read artifact: %w", err)
    }
    sealed, err := sealGCM(data, m.password)
    if err != nil {
        return fmt.Errorf("encrypt artifact: %w", err)
    }

    if _, err := m.client.PutObject(ctx, &s3.PutObjectInput{
        Bucket: aws.String(m.bucket),
        Key:    aws.String(key),
        Body:   bytes.NewReader(sealed),
        Metadata: map[string]string{
            "name":              filepath.Base(localPath),
            "encrypted":         "true",
            "encryption-format": gcmMagic,
        },
    }); err != nil {
        return fmt.Errorf("upload to s3://%s/%s: %w", m.bucket, key, err)
    }

    log.Debug().Str("bucket", m.bucket).Str("key", key).Int("sealed_size", len(sealed)).Msg("artifact mirrored encrypted")
    return nil
}

// Fetch retrieves a mirrored object, unsealing it when a password is set.
func (m *Mirror) Fetch(ctx context.Context, key string) ([]byte, error) {
    out, err := m.client.GetObject(ctx, &s3.GetObjectInput{
        Bucket: aws.String(m.bucket),
        Key:    aws.String(path.Join(m.prefix, key)),
    })
    if err != nil {
        return nil, fmt.Errorf("get s3://%s/%s: %w", m.bucket, key, err)
    }
    defer out.Body.Close()

    data, err := io.ReadAll(out.Body)
    if err != nil {
        return nil, fmt.Errorf("read s3://%s/%s: %w", m.bucket, key, err)
    }
    if m.password != "" {
        return openGCM(data, m.password)
    }
    return data, nil
}

// Ping verifies the bucket is reachable.
func (m *Mirror) Ping(ctx context.Context) error {
    _, err := m.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(m.bucket)})
    return err
}
