package publish

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Uploader 把 OTA 镜像推到 S3 兼容存储
// 设备端的 OTA 拉取逻辑只认 <name>/<env>/<progname>.bin 这个布局
type Uploader struct {
	client *s3.Client
	bucket string
}

// Config 用于初始化 Uploader
type Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// NewUploader 初始化 S3 客户端 (适配 AWS SDK v2 最新规范)
func NewUploader(ctx context.Context, cfg Config) (*Uploader, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("publish bucket not configured")
	}

	// 1. 加载基础配置 (仅包含 Region 和 Credentials)
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	// 2. 创建 S3 客户端时，注入特定于 S3 的配置
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// 自建 OTA 服务器多半是 MinIO，指定了 Endpoint 就覆盖默认值
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}

		// 【关键】MinIO 必须强制使用 Path Style
		// 即: http://host:9000/bucket/key
		o.UsePathStyle = true
	})

	return &Uploader{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Key 返回镜像在 bucket 里的存放位置
// 布局: <固件名>/<环境>/<程序名>.bin
// 程序名里带版本号，所以 key 天然不会跨版本冲突
func Key(name, env, progName string) string {
	return path.Join(name, env, progName+".bin")
}

// Has 检查镜像是否已经发布过
func (u *Uploader) Has(ctx context.Context, key string) (bool, error) {
	_, err := u.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})

	if err == nil {
		return true, nil
	}

	var notFound *s3types.NotFound
	var noKey *s3types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noKey) {
		return false, nil
	}
	return false, fmt.Errorf("s3 head failed: %w", err)
}

// UploadFile 上传一个本地镜像文件
// 幂等性：同 key 已存在就跳过（key 里含版本，重复 key 就是同一次构建的产物）
func (u *Uploader) UploadFile(ctx context.Context, key, localPath string) error {
	exists, err := u.Has(ctx, key)
	if err != nil {
		return fmt.Errorf("publish existence check failed: %w", err)
	}
	if exists {
		fmt.Printf("⚠️  Already published, skipping: %s\n", key)
		return nil
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer f.Close()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("s3 put failed: %w", err)
	}
	return nil
}
