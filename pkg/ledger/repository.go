package ledger

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// Repository 封装所有对账本数据库的操作
type Repository struct {
	db *DB
}

func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// Record 写入一条构建记录
// defines 在这里序列化成 JSON，调用方不用关心存储形态
func (r *Repository) Record(ctx context.Context, rec *BuildRecord, defines map[string]string) error {
	if defines != nil {
		data, err := json.Marshal(defines)
		if err != nil {
			return fmt.Errorf("failed to encode defines: %w", err)
		}
		rec.Defines = datatypes.JSON(data)
	}

	if err := r.db.GetConn().WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to record build: %w", err)
	}
	return nil
}

// Recent 按时间倒序列出最近的构建
// env 非空时只看那个环境的
func (r *Repository) Recent(ctx context.Context, env string, limit int) ([]BuildRecord, error) {
	// 同一秒内可能有多条记录，拿 id 做次级排序保证稳定
	q := r.db.GetConn().WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if env != "" {
		q = q.Where("env = ?", env)
	}

	var records []BuildRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query builds: %w", err)
	}
	return records, nil
}

// LatestForEnv 返回某个环境最近一次构建，没有则返回 nil
func (r *Repository) LatestForEnv(ctx context.Context, env string) (*BuildRecord, error) {
	records, err := r.Recent(ctx, env, 1)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}
