package commands

import (
	"fmt"
	"os"

	"fwhook/pkg/app"
	"fwhook/pkg/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile    string
	projectDir string
	envName    string

	// 全局应用实例，供子命令使用
	FW *app.App
)

var rootCmd = &cobra.Command{
	Use:   "fwhook",
	Short: "PlatformIO firmware build hooks",
	Long: `fwhook runs as pre/post-build hooks of a PlatformIO firmware project:
it derives the firmware name and version, injects preprocessor defines,
renames output binaries and duplicates them for flashing tools.`,
	// 【关键】PersistentPreRunE 会在所有子命令执行前运行
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// 环境名优先取 --env，没有就看编排器留下的 $PIOENV
		if envName == "" {
			envName = os.Getenv("PIOENV")
		}

		// 统一初始化 App
		var err error
		FW, err = app.NewApp(projectDir, envName)
		if err != nil {
			return fmt.Errorf("failed to initialize fwhook: %w", err)
		}
		return nil
	},
}

// Execute 是入口
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// 在初始化时，加载配置
	cobra.OnInitialize(initConfig)

	// 全局参数
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <project-dir>/platformio.ini)")
	rootCmd.PersistentFlags().StringVar(&projectDir, "project-dir", ".", "PlatformIO project directory")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "active build environment name (default $PIOENV)")
}

// initConfig 读取配置文件和环境变量
func initConfig() {
	if err := config.Load(projectDir, cfgFile); err != nil {
		fmt.Println("Config error:", err)
		os.Exit(1)
	}
}
