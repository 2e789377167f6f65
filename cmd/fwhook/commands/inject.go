package commands

import (
	"context"
	"fmt"

	"fwhook/pkg/artifact"
	"fwhook/pkg/buildenv"
	"fwhook/pkg/identity"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var printFlags bool

var injectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Pre-build hook: derive firmware identity and inject build metadata",
	Long: `Resolve the firmware name from platformio.ini and the version from git tags,
compose the output program names, and persist build flags and name variables
for the compile/link phases and the later hooks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 0. 防御检查
		if FW == nil {
			return fmt.Errorf("application not initialized")
		}

		ctx := context.Background()

		// ---------------------------------------------------------
		// Phase 1: 解析固件身份 (名字 + 版本)
		// ---------------------------------------------------------
		resolver := &identity.Resolver{Git: FW.Git}
		id, err := resolver.Resolve(ctx, FW.EnvName, viper.GetViper())
		if err != nil {
			return fmt.Errorf("failed to resolve firmware identity: %w", err)
		}

		// ---------------------------------------------------------
		// Phase 2: 组装产物名和宏定义
		// ---------------------------------------------------------
		names := artifact.Compose(id, FW.EnvName)
		defines := artifact.Defines(id)

		// ---------------------------------------------------------
		// Phase 3: 写入显式的构建环境状态
		// ---------------------------------------------------------
		// 写入: BuildFlags, ProgName, ProgNameRaw
		state := buildenv.NewState(FW.EnvName, FW.BuildDir)
		state.AppendBuildFlags(
			fmt.Sprintf("-DFW_NAME=%s", defines["FW_NAME"]),
			fmt.Sprintf("-DFW_VERSION=%s", defines["FW_VERSION"]),
		)
		state.SetProgNames(names.ProgName, names.ProgNameOTA)
		state.SetIdentity(id.DisplayName, id.Version, defines)

		if err := state.Save(); err != nil {
			return fmt.Errorf("failed to persist build state: %w", err)
		}

		// ---------------------------------------------------------
		// Phase 4: 输出给编排器
		// ---------------------------------------------------------
		// --print-flags 让桥接脚本直接读取 stdout 来应用这些值
		if printFlags {
			for _, f := range state.BuildFlags {
				fmt.Println(f)
			}
		}

		fmt.Printf("✅ %s (PROGNAME=%s)\n", names.ProgName, names.ProgNameOTA)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(injectCmd)

	injectCmd.Flags().BoolVar(&printFlags, "print-flags", false, "print the injected build flags to stdout")
}
