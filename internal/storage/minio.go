package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"resume-match-go/internal/config"
	"resume-match-go/internal/logger"
)

// MinIO 对象存储适配器, 保存上传的原始简历文件
type MinIO struct {
	client *minio.Client
	config *config.MinIOConfig
}

// NewMinIO 创建客户端, 确保简历桶存在并设置过期策略
func NewMinIO(cfg *config.MinIOConfig) (*MinIO, error) {
	if cfg == nil {
		return nil, fmt.Errorf("minio配置不能为nil")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio地址不能为空")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建MinIO客户端失败: %w", err)
	}

	m := &MinIO{client: client, config: cfg}
	if err := m.ensureBucket(cfg.ResumeBucket); err != nil {
		return nil, err
	}
	if cfg.ResumeExpireDays > 0 {
		if err := m.setupBucketLifecycle(cfg.ResumeBucket, cfg.ResumeExpireDays); err != nil {
			// 过期策略失败不阻塞启动, 有些部署形态不支持lifecycle
			logger.Warn().Err(err).Str("bucket", cfg.ResumeBucket).Msg("设置桶过期策略失败")
		}
	}
	return m, nil
}

func (m *MinIO) ensureBucket(bucketName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := m.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("检查桶 %s 是否存在失败: %w", bucketName, err)
	}
	if exists {
		return nil
	}

	if err := m.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: m.config.Location}); err != nil {
		return fmt.Errorf("创建桶 %s 失败: %w", bucketName, err)
	}
	return nil
}

func (m *MinIO) setupBucketLifecycle(bucketName string, expireDays int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	lc := lifecycle.NewConfiguration()
	lc.Rules = []lifecycle.Rule{{
		ID:         "expire-resume-files",
		Status:     "Enabled",
		Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(expireDays)},
	}}
	return m.client.SetBucketLifecycle(ctx, bucketName, lc)
}

// UploadResumeFile 上传原始简历文件, 返回 minio://bucket/key 形式的存储路径
func (m *MinIO) UploadResumeFile(ctx context.Context, submissionUUID, fileExt string, reader io.Reader, fileSize int64) (string, error) {
	if submissionUUID == "" {
		return "", fmt.Errorf("submission_uuid不能为空")
	}
	if !strings.HasPrefix(fileExt, ".") && fileExt != "" {
		fileExt = "." + fileExt
	}

	objectKey := path.Join("resumes", submissionUUID+fileExt)
	_, err := m.client.PutObject(ctx, m.config.ResumeBucket, objectKey, reader, fileSize, minio.PutObjectOptions{
		ContentType: "application/pdf",
	})
	if err != nil {
		return "", fmt.Errorf("上传简历文件失败: %w", err)
	}

	return FormatMinIOPath(m.config.ResumeBucket, objectKey), nil
}

// GetResumeFile 下载对象内容
func (m *MinIO) GetResumeFile(ctx context.Context, bucket, objectKey string) ([]byte, error) {
	if bucket == "" {
		bucket = m.config.ResumeBucket
	}

	object, err := m.client.GetObject(ctx, bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("获取对象 %s/%s 失败: %w", bucket, objectKey, err)
	}
	defer object.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, object); err != nil {
		return nil, fmt.Errorf("读取对象 %s/%s 失败: %w", bucket, objectKey, err)
	}
	return buf.Bytes(), nil
}

// FormatMinIOPath 拼接 minio://bucket/key 路径
func FormatMinIOPath(bucket, objectKey string) string {
	return fmt.Sprintf("minio://%s/%s", bucket, objectKey)
}

// ParseMinIOPath 解析 minio://bucket/key 路径
func ParseMinIOPath(p string) (bucket, objectKey string, err error) {
	const scheme = "minio://"
	if !strings.HasPrefix(p, scheme) {
		return "", "", fmt.Errorf("不是minio路径: %s", p)
	}

	rest := strings.TrimPrefix(p, scheme)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("minio路径缺少桶名或对象名: %s", p)
	}
	return parts[0], parts[1], nil
}
