package copier

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Native 用 Go 标准库做流复制，不依赖任何外部命令
type Native struct{}

func (n *Native) Copy(src, dst string) error {
	in, err := os.Open(src)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrSourceMissing, src)
	}
	if err != nil {
		return err
	}
	defer in.Close()

	// 原子写：先写临时文件，复制完整后再 Rename 到目标名
	// 避免烧录工具读到写了一半的镜像
	dir := filepath.Dir(dst)
	tempFile, err := os.CreateTemp(dir, "copy-*")
	if err != nil {
		return err
	}
	defer os.Remove(tempFile.Name())

	if _, err := io.Copy(tempFile, in); err != nil {
		tempFile.Close()
		return fmt.Errorf("copy failed: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return err
	}

	return os.Rename(tempFile.Name(), dst)
}
