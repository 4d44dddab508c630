package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"cpsms-backend/config"

	"github.com/minio/minio-go/v7"
)

type Provider interface {
	UploadVisitorPhoto(ctx context.Context, visitorID string, fileReader io.Reader, fileSize int64, contentType string) (key string, err error)
	GetVisitorPhoto(ctx context.Context, visitorID string) ([]byte, error)
	DeleteVisitorPhoto(ctx context.Context, visitorID string) error
}

var Instance Provider

func NewInstance(s3client *minio.Client) {
	Instance = &impl{
		s3client: s3client,
	}
}

type impl struct {
	s3client *minio.Client
}

func (i impl) UploadVisitorPhoto(ctx context.Context, visitorID string, fileReader io.Reader, fileSize int64, contentType string) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := visitorPhotoKey(visitorID)
	_, err := i.s3client.PutObject(ctx, config.Conf.S3.BucketName, key, fileReader, fileSize, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return key, nil
}

func (i impl) GetVisitorPhoto(ctx context.Context, visitorID string) ([]byte, error) {
	obj, err := i.s3client.GetObject(ctx, config.Conf.S3.BucketName, visitorPhotoKey(visitorID), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	buf := bytes.Buffer{}
	_, err = io.Copy(&buf, obj)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (i impl) DeleteVisitorPhoto(ctx context.Context, visitorID string) error {
	return i.s3client.RemoveObject(ctx, config.Conf.S3.BucketName, visitorPhotoKey(visitorID), minio.RemoveObjectOptions{})
}

func visitorPhotoKey(visitorID string) string {
	return fmt.Sprintf("visitors/%s/photo", visitorID)
}
