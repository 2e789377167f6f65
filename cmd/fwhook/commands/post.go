package commands

import (
	"context"
	"fmt"
	"time"

	"fwhook/pkg/artifact"
	"fwhook/pkg/buildenv"
	"fwhook/pkg/copier"
	"fwhook/pkg/ledger"

	"github.com/spf13/cobra"
)

var duplicateVariant string

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post-build hook: duplicate the firmware binary for flashing tools",
	Long: `Copy the compiled binary to the filename the flashing tool expects.
The "flasher" variant appends _FLASHER to the binary name; the "flash"
variant names the copy after the raw (pre-OTA) program name with _FLASH.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if FW == nil {
			return fmt.Errorf("application not initialized")
		}

		ctx := context.Background()
		start := time.Now()

		// 1. 加载 inject 留下的构建状态
		// 读取: BuildDir, ProgName, ProgNameRaw, 变量表
		state, err := buildenv.Load(FW.BuildDir)
		if err != nil {
			return err
		}

		// 2. 推导源路径和目标路径
		// 源就是链接器刚产出的二进制，路径模板跟原 hook 一字不差
		src := state.Subst("$BUILD_DIR/${PROGNAME}.bin")
		dst, err := artifact.DestFor(src, artifact.DuplicateVariant(duplicateVariant), state.ProgNameRaw)
		if err != nil {
			return err
		}

		// 3. 执行复制
		// 失败就失败，这一步没有恢复逻辑——让编排器把构建打断
		if err := FW.Copier.Copy(src, dst); err != nil {
			return fmt.Errorf("artifact copy failed: %w", err)
		}

		// 4. 校验复制结果（顺便拿到校验和给账本）
		sum, err := copier.Verify(ctx, src, dst)
		if err != nil {
			return fmt.Errorf("artifact verification failed: %w", err)
		}

		// 5. 记账
		// 账本失败只警告：产物已经是对的，不能让记录动作毁掉一次好构建
		if FW.Ledger != nil {
			rec := &ledger.BuildRecord{
				Env:         state.EnvName,
				Name:        state.FirmwareName,
				Version:     state.Version,
				ProgName:    state.ProgNameRaw,
				ProgNameOTA: state.ProgName,
				Artifact:    dst,
				Checksum:    sum,
			}
			if err := FW.Ledger.Record(ctx, rec, state.Defines); err != nil {
				fmt.Printf("⚠️  Warning: failed to record build: %v\n", err)
			}
		}

		fmt.Printf("✅ %s (%s, %s)\n", dst, sum[:8], time.Since(start))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(postCmd)

	postCmd.Flags().StringVar(&duplicateVariant, "variant", "flasher", `duplicate naming variant: "flasher" or "flash"`)
}
