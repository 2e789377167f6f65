package commands

import (
	"errors"
	"fmt"

	"fwhook/pkg/buildenv"
	"fwhook/pkg/cleaner"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove stale firmware artifacts from the build directory",
	Long: `Delete old versioned firmware images (*_OTA.bin, *_FLASHER.bin, *_FLASH.bin)
left behind by previous builds. The artifacts of the current build, if any,
are always kept. Extra patterns can be listed in <build_dir>/.fwhookclean.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if FW == nil {
			return fmt.Errorf("application not initialized")
		}

		// 1. 当前构建的产物要保住
		// 没有状态文件也没关系——说明本轮还没构建过，没什么要保的
		var keep []string
		state, err := buildenv.Load(FW.BuildDir)
		if err == nil {
			keep = []string{
				state.ProgName + ".bin",
				state.ProgName + "_FLASHER.bin",
				state.ProgNameRaw + "_FLASH.bin",
			}
		} else if !errors.Is(err, buildenv.ErrNoState) {
			return err
		}

		// 2. 执行清理
		c, err := cleaner.New(FW.BuildDir, keep)
		if err != nil {
			return fmt.Errorf("failed to init cleaner: %w", err)
		}

		removed, err := c.Clean()
		if err != nil {
			return fmt.Errorf("clean failed: %w", err)
		}

		if len(removed) == 0 {
			fmt.Println("Nothing to clean.")
			return nil
		}
		for _, name := range removed {
			fmt.Printf("removed %s\n", name)
		}
		fmt.Printf("✅ Cleaned %d stale artifact(s)\n", len(removed))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}
