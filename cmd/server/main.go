package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "kuku",
		Short:         "kuku - poultry and egg shop backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("config", "", "path to a YAML config file (environment variables override it)")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(hashPasswordCmd())
	rootCmd.AddCommand(schemaCmd())

	return rootCmd
}
