package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"kittygram_backend/internal/config"
	"kittygram_backend/internal/model"
	"kittygram_backend/internal/util"
	"kittygram_backend/pkg/logger"
	"kittygram_backend/pkg/monitoring"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// LocalMediaURL 本地存储对外的路径前缀，由 router 静态挂载
const LocalMediaURL = "/media/"

const bucketCheckTimeout = 5 * time.Second

// ObjectStore 图片的落地位置，key 统一用 / 分隔
type ObjectStore interface {
	Put(ctx context.Context, key string, img *util.ImageFile) error
	Remove(ctx context.Context, key string) error
	URL(key string) string
}

// LocalStore 写本地目录
type LocalStore struct {
	Root string
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.Root, filepath.FromSlash(key))
}

// Put 先写临时文件再 rename，读者不会看到写了一半的图片
func (s *LocalStore) Put(ctx context.Context, key string, img *util.ImageFile) error {
	dst := s.path(key)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(img.Data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}

func (s *LocalStore) Remove(ctx context.Context, key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (s *LocalStore) URL(key string) string {
	return LocalMediaURL + key
}

type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore 连接并确认 bucket 存在，不存在则创建
func NewMinioStore(cfg *config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), bucketCheckTimeout)
	defer cancel()
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.MinioBucket, err)
		}
	}
	return &MinioStore{client: client, bucket: cfg.MinioBucket}, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, img *util.ImageFile) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, img.Reader(), img.Size(), minio.PutObjectOptions{
		ContentType: img.ContentType,
	})
	return err
}

func (s *MinioStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{})
}

// URL 相对路径，由网关把 /<bucket>/ 转发到 MinIO
func (s *MinioStore) URL(key string) string {
	return "/" + s.bucket + "/" + key
}

type OSSStore struct {
	bucket   *oss.Bucket
	endpoint string
}

func NewOSSStore(cfg *config.StorageConfig) (*OSSStore, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, err
	}
	return &OSSStore{bucket: bucket, endpoint: cfg.OSSEndpoint}, nil
}

func (s *OSSStore) Put(ctx context.Context, key string, img *util.ImageFile) error {
	return s.bucket.PutObject(key, img.Reader(), oss.ContentType(img.ContentType), oss.WithContext(ctx))
}

func (s *OSSStore) Remove(ctx context.Context, key string) error {
	return s.bucket.DeleteObject(key, oss.WithContext(ctx))
}

func (s *OSSStore) URL(key string) string {
	host := strings.TrimPrefix(strings.TrimPrefix(s.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.bucket.BucketName, host, key)
}

// StorageService 按配置选择存储，远端不可用时回退到本地目录
type StorageService struct {
	Store ObjectStore
}

func NewStorageService(cfg *config.Config) *StorageService {
	var (
		store ObjectStore
		err   error
	)
	switch cfg.Storage.Type {
	case util.StorageMinio:
		store, err = NewMinioStore(&cfg.Storage)
	case util.StorageOSS:
		store, err = NewOSSStore(&cfg.Storage)
	}

	if err != nil {
		logger.Log.Error("remote storage unavailable, falling back to local",
			zap.String("type", cfg.Storage.Type),
			zap.String("local_path", cfg.Storage.LocalPath),
			zap.Error(err),
		)
	}
	if err != nil || store == nil {
		store = &LocalStore{Root: cfg.Storage.LocalPath}
	}

	return &StorageService{Store: store}
}

// SaveImage 写入猫的图片，返回对象 key
func (s *StorageService) SaveImage(ctx context.Context, img *util.ImageFile) (string, error) {
	key := model.NewCatImageKey(img.Ext)
	if err := s.Store.Put(ctx, key, img); err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	monitoring.ImagesStored.Inc()
	return key, nil
}

// DeleteQuietly 尽力删除，失败只记录日志
func (s *StorageService) DeleteQuietly(ctx context.Context, key string) {
	if err := s.Store.Remove(ctx, key); err != nil {
		logger.Log.Warn("failed to delete stored file", zap.String("key", key), zap.Error(err))
	}
}

func (s *StorageService) Delete(ctx context.Context, key string) error {
	return s.Store.Remove(ctx, key)
}

// LocalRoot 实际落在本地磁盘时返回根目录，包括远端回退到本地的情况
func (s *StorageService) LocalRoot() (string, bool) {
	if local, ok := s.Store.(*LocalStore); ok {
		return local.Root, true
	}
	return "", false
}

func (s *StorageService) GetURL(key string) string {
	return s.Store.URL(key)
}
