// Command mapengine is a development/inspection aid, not a packaged
// end-user CLI (spec §13, §14's Non-goals) — the same role the teacher's
// cmd/debug_reconcile plays alongside its packaged start command.
package main

import (
	"fmt"
	"os"

	"mapengine/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "mapengine",
	Short: "Scene assembly and tile pipeline debug CLI",
	Long: `mapengine drives the scene assembly and tile pipeline core outside of an
embedding renderer, for local debugging and inspection.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	execute()
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		cfg := &logger.Config{Level: "debug", Format: "console"}
		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
