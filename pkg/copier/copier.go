package copier

import (
	"errors"
)

var ErrSourceMissing = errors.New("source artifact not found")

// Copier 是“复制一个文件”这件事的抽象
// 两个实现：Native (纯 Go 流复制) 和 Posix (调 cp)。
// 启动时按宿主系统选一次，之后不再判断 OS。
type Copier interface {
	// Copy 把 src 复制成 dst，dst 已存在则覆盖
	// src 不存在必须返回 ErrSourceMissing——编排器要靠这个失败来中止构建
	Copy(src, dst string) error
}

// ForOS 按宿主系统选实现
// Windows 没有 cp，用纯 Go 实现；其余系统保持原 hook 的 cp 语义
func ForOS(goos string) Copier {
	if goos == "windows" {
		return &Native{}
	}
	return &Posix{}
}
