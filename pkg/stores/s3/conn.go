package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
}

/*
Conn is a thin wrapper over a minio client bound to a single bucket.
*/
type Conn struct {
	client *minio.Client
	bucket string
}

func NewConn(cfg Config) (*Conn, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})

	if err != nil {
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	return &Conn{client: client, bucket: cfg.Bucket}, nil
}

/*
EnsureBucket creates the bucket when it does not exist yet.
*/
func (conn *Conn) EnsureBucket(ctx context.Context) error {
	exists, err := conn.client.BucketExists(ctx, conn.bucket)

	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", conn.bucket, err)
	}

	if exists {
		return nil
	}

	if err = conn.client.MakeBucket(ctx, conn.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", conn.bucket, err)
	}

	log.Info("created bucket", "bucket", conn.bucket)

	return nil
}

func (conn *Conn) Put(ctx context.Context, key string, data []byte) error {
	_, err := conn.client.PutObject(
		ctx,
		conn.bucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"},
	)

	return err
}

/*
Get reads the whole object. Missing keys come back as ErrNoSuchKey.
*/
func (conn *Conn) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := conn.client.GetObject(ctx, conn.bucket, key, minio.GetObjectOptions{})

	if err != nil {
		return nil, mapError(err)
	}

	defer obj.Close()

	data, err := io.ReadAll(obj)

	if err != nil {
		return nil, mapError(err)
	}

	return data, nil
}

func mapError(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return ErrNoSuchKey
	}

	return err
}
