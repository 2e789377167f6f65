package commands

import (
	"context"
	"fmt"

	"fwhook/pkg/buildenv"
	"fwhook/pkg/publish"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Upload the OTA image to the firmware store",
	Long: `Upload the OTA binary of the current build to S3-compatible storage so
devices can pull it over the air. Bucket and credentials come from the
[publish] section of platformio.ini or FWHOOK_* environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if FW == nil {
			return fmt.Errorf("application not initialized")
		}

		ctx := context.Background()

		// 1. 加载构建状态
		// 读取: BuildDir, ProgName, FirmwareName, EnvName
		state, err := buildenv.Load(FW.BuildDir)
		if err != nil {
			return err
		}

		// 2. 组装上传目标
		uploader, err := publish.NewUploader(ctx, publish.Config{
			Endpoint:        viper.GetString("publish.endpoint"),
			Region:          viper.GetString("publish.region"),
			Bucket:          viper.GetString("publish.bucket"),
			AccessKeyID:     viper.GetString("publish.access_key_id"),
			SecretAccessKey: viper.GetString("publish.secret_access_key"),
		})
		if err != nil {
			return fmt.Errorf("failed to init publisher: %w", err)
		}

		key := publish.Key(state.FirmwareName, state.EnvName, state.ProgName)
		localPath := state.Subst("$BUILD_DIR/${PROGNAME}.bin")

		// 3. 上传
		// 这是 publish 自己的主任务，失败就是命令失败（跟账本的旁路写入不同）
		if err := uploader.UploadFile(ctx, key, localPath); err != nil {
			return fmt.Errorf("publish failed: %w", err)
		}

		fmt.Printf("✅ Published %s\n", key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}
