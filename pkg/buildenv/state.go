package buildenv

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fxamacker/cbor/v2"
)

// ErrNoState: post/publish 在 inject 之前被调用了
var ErrNoState = errors.New("build state not found (did the pre-build hook run?)")

// State 是显式的构建环境对象，取代 SCons 那种“到处 env.Append”的隐式全局状态
// 每个 hook 步骤只通过它读写，读了什么写了什么一目了然。
//
// 生命周期：inject 创建并落盘，post/publish 加载只读。
// 各个 hook 是独立进程，状态必须过文件系统。
type State struct {
	// EnvName 是本次构建激活的 PlatformIO 环境名 ($PIOENV)
	EnvName string `cbor:"env"`

	// BuildDir 是构建输出目录
	BuildDir string `cbor:"bd"`

	// BuildFlags 是要追加给编译器的参数 (-DFW_NAME=... 等)
	BuildFlags []string `cbor:"bf"`

	// ProgName 是链接器输出名 (OTA 后缀版)，ProgNameRaw 是裸名
	ProgName    string `cbor:"pn"`
	ProgNameRaw string `cbor:"pnr"`

	// 固件身份，post 记账本时要用，免得再跑一次解析
	FirmwareName string            `cbor:"fn"`
	Version      string            `cbor:"ver"`
	Defines      map[string]string `cbor:"def"`

	// vars 驱动 Subst 的变量表
	vars map[string]string
}

// NewState 创建初始状态
// inject 写入: EnvName, BuildDir (以及后续的 flags 和程序名)
func NewState(envName, buildDir string) *State {
	s := &State{
		EnvName:  envName,
		BuildDir: buildDir,
	}
	s.rebuildVars()
	return s
}

// AppendBuildFlags 追加编译参数
// 对应 SCons 的 env.Append(BUILD_FLAGS=...)
func (s *State) AppendBuildFlags(flags ...string) {
	s.BuildFlags = append(s.BuildFlags, flags...)
}

// SetProgNames 设置两个程序名变量
// 对应 SCons 的 env.Replace(PROGNAME=..., PROGNAME_RAW=...)
func (s *State) SetProgNames(raw, ota string) {
	s.ProgNameRaw = raw
	s.ProgName = ota
	s.rebuildVars()
}

// SetIdentity 记录解析出来的固件身份
func (s *State) SetIdentity(name, version string, defines map[string]string) {
	s.FirmwareName = name
	s.Version = version
	s.Defines = defines
}

// rebuildVars 同步变量表，保证 Subst 看到的总是最新值
func (s *State) rebuildVars() {
	s.vars = map[string]string{
		"PIOENV":       s.EnvName,
		"BUILD_DIR":    s.BuildDir,
		"PROGNAME":     s.ProgName,
		"PROGNAME_RAW": s.ProgNameRaw,
	}
}

// Subst 展开 $VAR 和 ${VAR} 形式的引用
// 这是编排器变量替换设施的本地版本，比如:
//
//	Subst("$BUILD_DIR/${PROGNAME}.bin")
//
// 未知变量展开成空串（跟 SCons 行为一致），不报错。
func (s *State) Subst(tmpl string) string {
	return os.Expand(tmpl, func(name string) string {
		return s.vars[name]
	})
}

// statePath 返回状态文件的物理路径
func statePath(buildDir string) string {
	return filepath.Join(buildDir, ".fwhook", "state.cbor")
}

// Save 把状态落盘
// 原子写：先写临时文件再 Rename，保证读到的状态要么没有、要么完整
func (s *State) Save() error {
	path := statePath(s.BuildDir)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create state dir: %w", err)
	}

	data, err := cbor.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, "state-*")
	if err != nil {
		return err
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(data); err != nil {
		tempFile.Close()
		return err
	}
	tempFile.Close() // 必须先关闭才能 Rename

	return os.Rename(tempFile.Name(), path)
}

// Load 从构建目录加载先前 inject 写下的状态
func Load(buildDir string) (*State, error) {
	data, err := os.ReadFile(statePath(buildDir))
	if os.IsNotExist(err) {
		return nil, ErrNoState
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read build state: %w", err)
	}

	var s State
	if err := cbor.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("build state is corrupted: %w", err)
	}
	s.rebuildVars()
	return &s, nil
}
