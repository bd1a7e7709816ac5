package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"survegio_backend/internal/config"
	"survegio_backend/internal/util"
	"survegio_backend/pkg/logger"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// StorageProvider 报表文件的存储后端
type StorageProvider interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// LocalStorageProvider 写入本地目录，通过 /exports 静态路由访问
type LocalStorageProvider struct {
	Root string
}

func (p *LocalStorageProvider) path(key string) (string, error) {
	dst := filepath.Join(p.Root, filepath.FromSlash(key))
	rel, err := filepath.Rel(p.Root, dst)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return dst, nil
}

func (p *LocalStorageProvider) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	dst, err := p.path(key)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}
	return p.URL(key), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, key string) error {
	dst, err := p.path(key)
	if err != nil {
		return err
	}
	return os.Remove(dst)
}

func (p *LocalStorageProvider) URL(key string) string {
	return "/exports/" + key
}

// MinioStorageProvider MinIO 对象存储
type MinioStorageProvider struct {
	Bucket string
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Bucket: cfg.MinioBucket, Client: client}, nil
}

func (p *MinioStorageProvider) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.URL(key), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, key string) error {
	return p.Client.RemoveObject(ctx, p.Bucket, key, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) URL(key string) string {
	return "/" + p.Bucket + "/" + key
}

// OSSStorageProvider 阿里云 OSS
type OSSStorageProvider struct {
	Endpoint string
	Bucket   string
	Client   *oss.Client
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Endpoint: cfg.OSSEndpoint, Bucket: cfg.OSSBucket, Client: client}, nil
}

func (p *OSSStorageProvider) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	bucket, err := p.Client.Bucket(p.Bucket)
	if err != nil {
		return "", err
	}
	if err := bucket.PutObject(key, reader, oss.ContentType(contentType), oss.WithContext(ctx)); err != nil {
		return "", err
	}
	return p.URL(key), nil
}

func (p *OSSStorageProvider) Delete(ctx context.Context, key string) error {
	bucket, err := p.Client.Bucket(p.Bucket)
	if err != nil {
		return err
	}
	return bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (p *OSSStorageProvider) URL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s", p.Bucket, p.Endpoint, key)
}

// NewStorageProvider 按配置选择后端，远端初始化失败时退回本地目录
func NewStorageProvider(cfg *config.StorageConfig) StorageProvider {
	switch cfg.Type {
	case util.StorageMinio:
		p, err := NewMinioStorageProvider(cfg)
		if err == nil {
			return p
		}
		logger.Log.Warn("MinIO storage unavailable, falling back to local", zap.Error(err))
	case util.StorageOSS:
		p, err := NewOSSStorageProvider(cfg)
		if err == nil {
			return p
		}
		logger.Log.Warn("OSS storage unavailable, falling back to local", zap.Error(err))
	}
	return &LocalStorageProvider{Root: cfg.LocalPath}
}
