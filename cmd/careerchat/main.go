package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shulman33/careerchat/internal/cli"
	"github.com/shulman33/careerchat/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "careerchat",
		Short: "Careerchat CLI - Talk to the career assistant from the terminal",
		Long: `Careerchat CLI provides commands to chat with the career assistant and
manage its Q&A knowledge store over HTTP.

Environment variables:
  CAREERCHAT_SERVER_URL   Server base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("server", "", "Server base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.ChatCmd())
	rootCmd.AddCommand(client.QACmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
