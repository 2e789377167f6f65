package commands

import (
	"context"
	"fmt"
	"time"

	"fwhook/pkg/ledger"

	"github.com/spf13/cobra"
)

var logLimit int

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recorded build history",
	Long:  `Display recent builds for the active environment from the build ledger.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if FW == nil {
			return fmt.Errorf("app not initialized")
		}
		if FW.Ledger == nil {
			return fmt.Errorf("build ledger is not available")
		}

		ctx := context.Background()

		records, err := FW.Ledger.Recent(ctx, FW.EnvName, logLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No builds recorded yet.")
			return nil
		}

		for i := range records {
			printBuildLog(&records[i])
		}
		return nil
	},
}

// printBuildLog 格式化输出，仿 git log 的形状
func printBuildLog(r *ledger.BuildRecord) {
	const (
		colorYellow = "\033[33m"
		colorReset  = "\033[0m"
	)

	fmt.Printf("%sbuild %s%s\n", colorYellow, r.ProgName, colorReset)
	fmt.Printf("Env:      %s\n", r.Env)
	fmt.Printf("Version:  %s\n", r.Version)
	fmt.Printf("Date:     %s\n", r.CreatedAt.Format(time.RFC1123))
	fmt.Printf("Artifact: %s (%s)\n\n", r.Artifact, shortSum(r.Checksum))
}

func shortSum(sum string) string {
	if len(sum) > 8 {
		return sum[:8]
	}
	return sum
}

func init() {
	rootCmd.AddCommand(logCmd)

	logCmd.Flags().IntVar(&logLimit, "limit", 10, "maximum number of builds to show")
}
