package ledger

import (
	"time"

	"gorm.io/datatypes"
)

// BuildRecord 是一次固件构建在账本里的投影
// 用于回答 “这块板子上次刷的是哪个版本” 这类问题 (fwhook log)
type BuildRecord struct {
	ID uint `gorm:"primaryKey"`

	// 基础维度 (B-Tree 索引，适合按环境/版本过滤)
	Env     string `gorm:"index;type:varchar(100)"`
	Name    string `gorm:"type:varchar(255)"`
	Version string `gorm:"index;type:varchar(100)"`

	// 组装出来的产物名
	ProgName    string `gorm:"type:varchar(255)"`
	ProgNameOTA string `gorm:"type:varchar(255)"`

	// Defines: 注入的预处理器宏，非结构化，存 JSON
	// 宏的集合会随 hook 变体变化，不值得为它建列
	Defines datatypes.JSON

	// 复制出来的烧录文件路径 + 校验和
	Artifact string `gorm:"type:text"`
	Checksum string `gorm:"type:char(64)"`

	CreatedAt time.Time
}

// TableName 强制指定表名
func (BuildRecord) TableName() string {
	return "builds"
}
