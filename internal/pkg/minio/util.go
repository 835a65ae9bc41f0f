package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
)

// UploadFile 上传文件到MinIO
func UploadFile(ctx context.Context, bucket, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// GetSignedURL 生成带过期时间的下载链接，私有桶对外暴露用
func GetSignedURL(ctx context.Context, bucket, objectName string, expiry time.Duration) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	reqParams := make(url.Values)
	presignedURL, err := Client.PresignedGetObject(ctx, bucket, objectName, expiry, reqParams)
	if err != nil {
		return "", fmt.Errorf("failed to presign object: %w", err)
	}
	return presignedURL.String(), nil
}

// DeleteFile 删除MinIO中的文件
func DeleteFile(ctx context.Context, bucket, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	err := Client.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// DeletePrefix 递归删除指定前缀下的全部对象，投递删除时清理其整个目录
func DeletePrefix(ctx context.Context, bucket, prefix string) (int, error) {
	if Client == nil {
		return 0, fmt.Errorf("minio client is not initialized")
	}

	objectCh := Client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	deleted := 0
	for object := range objectCh {
		if object.Err != nil {
			return deleted, object.Err
		}
		err := Client.RemoveObject(ctx, bucket, object.Key, minio.RemoveObjectOptions{})
		if err != nil {
			return deleted, fmt.Errorf("failed to delete %s: %w", object.Key, err)
		}
		deleted++
	}

	return deleted, nil
}
