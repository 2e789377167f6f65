package artifact

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"fwhook/pkg/identity"
)

// otaSuffix 标记无线升级 (OTA) 交付用的镜像
const otaSuffix = "_OTA"

var ErrUnknownDuplicate = errors.New("unknown duplicate variant")

// Names 是组装好的产物名
// ProgName 是“裸名”，ProgNameOTA 在其后加 _OTA，链接器实际输出的是 OTA 名
type Names struct {
	ProgName    string
	ProgNameOTA string
}

// Compose 按固定格式拼产物名: <名字>_<环境>_v<版本>
// 注意策略：envName 和 version 里如果有下划线之类的“拆分符”，原样透传。
// 这不是 bug，是刻意的——构建工具不该替用户猜文件名该长什么样。
func Compose(id identity.Identity, envName string) Names {
	prog := fmt.Sprintf("%s_%s_v%s", id.DisplayName, envName, id.Version)
	return Names{
		ProgName:    prog,
		ProgNameOTA: prog + otaSuffix,
	}
}

// Defines 返回要注入的预处理器宏
// FW_NAME 用的是 RawName（带转义引号的原始形态），编译器展开后才是字符串字面量
func Defines(id identity.Identity) map[string]string {
	return map[string]string{
		"FW_NAME":    id.RawName,
		"FW_VERSION": id.Version,
	}
}

// DuplicateVariant 决定复制出来的烧录文件叫什么
type DuplicateVariant string

const (
	// DuplicateFlasher: 在源文件名后缀前插 _FLASHER
	// 例: out.bin -> out_FLASHER.bin
	DuplicateFlasher DuplicateVariant = "flasher"
	// DuplicateFlash: 用裸程序名 + _FLASH
	// 例: Room_env_v1_OTA.bin -> Room_env_v1_FLASH.bin
	DuplicateFlash DuplicateVariant = "flash"
)

// DestFor 根据复制变体推导目标路径，目标始终和源在同一目录
func DestFor(src string, variant DuplicateVariant, progName string) (string, error) {
	dir := filepath.Dir(src)
	ext := filepath.Ext(src)

	switch variant {
	case DuplicateFlasher:
		base := strings.TrimSuffix(filepath.Base(src), ext)
		return filepath.Join(dir, base+"_FLASHER"+ext), nil
	case DuplicateFlash:
		return filepath.Join(dir, progName+"_FLASH"+ext), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDuplicate, variant)
	}
}
