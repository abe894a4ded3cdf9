package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shulman33/careerchat/internal/cli"
	"github.com/shulman33/careerchat/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "careerchatd",
		Short: "Careerchat daemon and admin CLI",
		Long:  "Careerchat daemon for running the chat API server and managing the Q&A knowledge store",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.QACmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
