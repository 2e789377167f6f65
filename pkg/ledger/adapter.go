package ledger

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config 账本的数据库配置
// 默认是本地 SQLite 文件；CI 农场想共享一份账本就配 postgres + DSN
type Config struct {
	Driver string // "sqlite" | "postgres"
	Path   string // sqlite 文件路径
	DSN    string // postgres 连接串
}

// DB 封装 GORM 实例，作为账本的入口
type DB struct {
	conn *gorm.DB
}

// Open 按配置打开数据库并迁移表结构
func Open(cfg Config) (*DB, error) {
	var dialector gorm.Dialector

	switch cfg.Driver {
	case "sqlite", "":
		// 账本目录可能还不存在（第一次构建）
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create ledger dir: %w", err)
		}
		dialector = sqlite.Open(cfg.Path)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported ledger driver: %q", cfg.Driver)
	}

	// 构建 hook 里不想看 GORM 刷屏，日志静音
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	// 自动迁移表结构
	if err := db.AutoMigrate(&BuildRecord{}); err != nil {
		return nil, fmt.Errorf("ledger migration failed: %w", err)
	}

	return &DB{conn: db}, nil
}

// NewWithConn 允许用现有的 GORM 连接初始化
// 单元测试用内存 SQLite 时走这里
func NewWithConn(conn *gorm.DB) *DB {
	return &DB{conn: conn}
}

// AutoMigrate 迁移表结构
func (d *DB) AutoMigrate(models ...any) error {
	return d.conn.AutoMigrate(models...)
}

func (d *DB) GetConn() *gorm.DB {
	return d.conn
}
