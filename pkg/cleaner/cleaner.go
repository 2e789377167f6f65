package cleaner

import (
	"os"
	"path/filepath"

	gitignore "github.com/sabhiram/go-gitignore"
)

// Cleaner 负责清掉构建目录里的过期固件产物
// 每次构建的文件名里都带版本号，换个 tag 再构建，旧镜像就永远躺在那里了
type Cleaner struct {
	matcher  *gitignore.GitIgnore
	buildDir string
	keep     map[string]bool
}

// New 初始化清理器
// buildDir: 要清理的构建输出目录
// keep: 本次构建自己的产物文件名，绝对不能删
func New(buildDir string, keep []string) (*Cleaner, error) {
	// 1. 定义默认匹配规则 (Hardcoded Defaults)
	// 只认我们自己生成的三类产物，别的文件一概不碰——
	// 构建目录里还有编译器的 .o/.elf，删了会触发全量重编
	defaultRules := []string{
		"*_OTA.bin",
		"*_FLASHER.bin",
		"*_FLASH.bin",
	}

	var matcher *gitignore.GitIgnore
	var err error

	// 2. 检查用户是否有 .fwhookclean 文件（追加自定义规则）
	cleanFilePath := filepath.Join(buildDir, ".fwhookclean")

	if _, errStat := os.Stat(cleanFilePath); errStat == nil {
		matcher, err = gitignore.CompileIgnoreFileAndLines(cleanFilePath, defaultRules...)
	} else {
		matcher = gitignore.CompileIgnoreLines(defaultRules...)
	}
	if err != nil {
		return nil, err
	}

	keepSet := make(map[string]bool, len(keep))
	for _, name := range keep {
		keepSet[name] = true
	}

	return &Cleaner{
		matcher:  matcher,
		buildDir: buildDir,
		keep:     keepSet,
	}, nil
}

// Clean 删除匹配的过期产物，返回删掉的文件名
// 只看构建目录顶层，固件镜像不会出现在子目录里
func (c *Cleaner) Clean() ([]string, error) {
	entries, err := os.ReadDir(c.buildDir)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		if c.keep[name] {
			continue // 当前构建的产物
		}
		if !c.matcher.MatchesPath(name) {
			continue
		}

		if err := os.Remove(filepath.Join(c.buildDir, name)); err != nil {
			return removed, err
		}
		removed = append(removed, name)
	}

	return removed, nil
}
