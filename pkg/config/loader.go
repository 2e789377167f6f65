package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// Load 初始化配置
// projectDir: PlatformIO 工程根目录（里面应该有 platformio.ini）
// cfgFile: 可选，用户显式指定的配置文件路径（覆盖默认搜索）
//
// PlatformIO 的配置是 INI。新版 Viper 砍掉了内置的 INI 支持，
// 所以这里用 ini.v1 自己解析，再把键值灌进 Viper——
// 默认值、环境变量覆盖、取值接口都还是走 Viper，调用方无感。
func Load(projectDir, cfgFile string) error {
	// 1. 设置默认值 (Defaults)
	setDefaults(projectDir)

	// 2. 读取环境变量 (FWHOOK_FIRMWARE_STRICT_VERSION 等)
	viper.SetEnvPrefix("FWHOOK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// 3. 定位并解析配置文件
	// 注意：跟一般 CLI 工具不同，这里找不到配置文件就是硬错误。
	// 没有 platformio.ini 就没有 firmware.name_*，后面所有 hook 都无法工作。
	path := cfgFile
	if path == "" {
		path = filepath.Join(projectDir, "platformio.ini")
	}

	f, err := ini.Load(path)
	if err != nil {
		return fmt.Errorf("failed to read project config %s: %w", path, err)
	}

	// 4. 灌进 Viper
	// INI 的 [section] + key 摊平成 "section.key"
	merged := make(map[string]any)
	for _, section := range f.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		values := make(map[string]any)
		for _, key := range section.Keys() {
			values[key.Name()] = key.Value()
		}
		merged[section.Name()] = values
	}
	if err := viper.MergeConfigMap(merged); err != nil {
		return fmt.Errorf("failed to merge project config: %w", err)
	}

	return nil
}

func setDefaults(projectDir string) {
	// 固件相关默认值
	// variant 决定固件名的取法：per-chip 按芯片选 key，unified 只读 firmware.name
	viper.SetDefault("firmware.variant", "per-chip")
	viper.SetDefault("firmware.strict_version", false)

	// 构建账本 (Build Ledger) 默认值
	// 默认用本地 SQLite 文件；CI 共享场景可以配 postgres + dsn
	viper.SetDefault("ledger.driver", "sqlite")
	viper.SetDefault("ledger.path", filepath.Join(projectDir, ".fwhook", "ledger.db"))

	// 发布 (OTA 上传) 默认值
	viper.SetDefault("publish.region", "us-east-1")
}

// BuildDir 返回当前环境的构建输出目录
// PlatformIO 的约定是 .pio/build/<env>，允许用 firmware.build_dir 覆盖
func BuildDir(projectDir, envName string) string {
	if dir := viper.GetString("firmware.build_dir"); dir != "" {
		return dir
	}
	return filepath.Join(projectDir, ".pio", "build", envName)
}
