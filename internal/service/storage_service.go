package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"school_edu_backend/internal/config"
	"school_edu_backend/internal/util"
	"school_edu_backend/pkg/logger"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// ObjectStore 题目图片的存储后端
type ObjectStore interface {
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	// URL 返回可保存到题目中的地址；相对地址在响应时按请求 host 补全
	URL(key string) string
}

// LocalStore 本地磁盘，通过 /uploads 静态路由访问
type LocalStore struct {
	Root string
}

func (s *LocalStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	dst := filepath.Join(s.Root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, reader)
	return err
}

func (s *LocalStore) URL(key string) string {
	return "/uploads/" + key
}

type MinioStore struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStore(cfg *config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStore{Config: cfg, Client: client}, nil
}

func (s *MinioStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.Client.PutObject(ctx, s.Config.MinioBucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (s *MinioStore) URL(key string) string {
	return fmt.Sprintf("http://%s/%s/%s", s.Config.MinioEndpoint, s.Config.MinioBucket, key)
}

// OSSStore 阿里云OSS
type OSSStore struct {
	Config *config.StorageConfig
	Client *oss.Client
}

func NewOSSStore(cfg *config.StorageConfig) (*OSSStore, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSStore{Config: cfg, Client: client}, nil
}

func (s *OSSStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	bucket, err := s.Client.Bucket(s.Config.OSSBucket)
	if err != nil {
		return err
	}
	return bucket.PutObject(key, reader, oss.ContentType(contentType), oss.WithContext(ctx))
}

func (s *OSSStore) URL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s", s.Config.OSSBucket, s.Config.OSSEndpoint, key)
}

type StorageService struct {
	Store ObjectStore
	now   func() time.Time
}

// NewStorageService 按配置选择后端，远端初始化失败时回退到本地磁盘
func NewStorageService(cfg *config.Config) *StorageService {
	var store ObjectStore
	switch cfg.Storage.Type {
	case util.StorageMinio:
		s, err := NewMinioStore(&cfg.Storage)
		if err != nil {
			logger.Log.Warn("minio init failed, falling back to local storage", zap.Error(err))
		} else {
			store = s
		}
	case util.StorageOSS:
		s, err := NewOSSStore(&cfg.Storage)
		if err != nil {
			logger.Log.Warn("oss init failed, falling back to local storage", zap.Error(err))
		} else {
			store = s
		}
	}

	if store == nil {
		store = &LocalStore{Root: cfg.Storage.LocalPath}
	}
	return &StorageService{Store: store, now: time.Now}
}

// SaveQuestionImage 校验并保存题目图片，返回写入题目的 image_path
func (s *StorageService) SaveQuestionImage(ctx context.Context, filename string, reader io.ReadSeeker, size int64) (string, error) {
	if size <= 0 || size > util.MaxImageSizeBytes {
		return "", fmt.Errorf("%w: image size must be between 1 byte and %d bytes", util.ErrValidation, util.MaxImageSizeBytes)
	}
	if !util.HasAllowedExtension(filename, util.AllowedImageExtensions) {
		return "", fmt.Errorf("%w: unsupported image extension %q", util.ErrValidation, filepath.Ext(filename))
	}

	contentType, err := util.ValidateMimeType(reader, []string{util.MimeImage})
	if err != nil {
		return "", fmt.Errorf("%w: %v", util.ErrValidation, err)
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	key := path.Join(
		util.QuestionImageDir,
		s.now().Format("200601"),
		uuid.NewString()+strings.ToLower(filepath.Ext(filename)),
	)
	if err := s.Store.Put(ctx, key, reader, size, contentType); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}

	logger.Log.Info("question image stored", zap.String("key", key), zap.Int64("size", size))
	return s.Store.URL(key), nil
}
