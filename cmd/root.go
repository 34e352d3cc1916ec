// Package cmd wires the starkbot CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "starkbot",
	Short: "starkbot — chat gateway for the Starknet answer queue",
	Long:  "starkbot bridges chat channels to a Redis-backed worker queue:\ncommands become jobs, job results come back as chat replies.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = Version
}
