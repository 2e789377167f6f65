package ledger

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestRepo 构建隔离的测试环境（内存 SQLite）
func setupTestRepo(t *testing.T) *Repository {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	ledgerDB := NewWithConn(db)
	require.NoError(t, ledgerDB.AutoMigrate(&BuildRecord{}))

	return NewRepository(ledgerDB)
}

// mustRecord 写入记录，失败直接终止测试
func mustRecord(t *testing.T, repo *Repository, rec *BuildRecord, defines map[string]string, msgAndArgs ...any) {
	t.Helper() // 关键：报错时回溯栈帧
	err := repo.Record(context.Background(), rec, defines)
	require.NoError(t, err, msgAndArgs...)
}
