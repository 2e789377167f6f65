package copier

import (
	"fmt"
	"os"
	"os/exec"
)

// Posix 调用 cp(1)，保持原 post-build hook 的行为
type Posix struct{}

func (p *Posix) Copy(src, dst string) error {
	// 先 Stat 一下，把“源不存在”和“cp 自身失败”区分开
	// cp 对两种情况的退出码是一样的，错误信息却差很多
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrSourceMissing, src)
	}

	out, err := exec.Command("cp", src, dst).CombinedOutput()
	if err != nil {
		return fmt.Errorf("cp failed: %v: %s", err, out)
	}
	return nil
}
