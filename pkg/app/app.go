// pkg/app/app.go
package app

import (
	"fmt"
	"runtime"

	"fwhook/pkg/config"
	"fwhook/pkg/copier"
	"fwhook/pkg/gitver"
	"fwhook/pkg/identity"
	"fwhook/pkg/ledger"

	"github.com/spf13/viper"
)

// App 是整个工具的依赖容器 (Dependency Container)
// 每个 hook 子命令都从这里拿服务，自己不做组装
type App struct {
	ProjectDir string
	EnvName    string
	BuildDir   string

	// Git 用接口类型，集成测试可以换成假的
	Git    identity.Describer
	Copier copier.Copier
	Ledger *ledger.Repository // 账本打不开时为 nil，调用方要判
}

// NewApp 是工厂函数，负责组装
// 它遵循 Viper 的配置，但不知道具体的 CLI 命令
func NewApp(projectDir, envName string) (*App, error) {
	// 1. 环境名是一切推导的输入，缺了没法继续
	if envName == "" {
		return nil, fmt.Errorf("environment name not set (use --env or $PIOENV)")
	}

	buildDir := config.BuildDir(projectDir, envName)

	// 2. 复制实现按宿主系统选一次，之后各命令不再关心 OS
	cp := copier.ForOS(runtime.GOOS)

	// 3. 账本是旁路功能：打不开只警告，不能因为它挡住构建
	var repo *ledger.Repository
	db, err := ledger.Open(ledger.Config{
		Driver: viper.GetString("ledger.driver"),
		Path:   viper.GetString("ledger.path"),
		DSN:    viper.GetString("ledger.dsn"),
	})
	if err != nil {
		fmt.Printf("⚠️  Warning: build ledger unavailable: %v\n", err)
	} else {
		repo = ledger.NewRepository(db)
	}

	return &App{
		ProjectDir: projectDir,
		EnvName:    envName,
		BuildDir:   buildDir,
		Git:        gitver.NewClient(projectDir),
		Copier:     cp,
		Ledger:     repo,
	}, nil
}
