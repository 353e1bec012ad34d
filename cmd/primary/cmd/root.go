package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	log zerolog.Logger

	flagPrimaryAddr string
	flagMaxMsgSize  uint
	flagRetries     uint64
)

var rootCmd = &cobra.Command{
	Use:   "primary",
	Short: "Run a primary node or report batches to one",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportOwnCmd)
	rootCmd.AddCommand(reportPeerCmd)
	rootCmd.AddCommand(workersCmd)
}
