package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var catalogPath string
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "importctl",
		Short:         "Extract media schedules and browse the publisher catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "Catalog dataset path (defaults to the embedded dataset)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(newExtractCommand(&catalogPath, &logLevel))
	rootCmd.AddCommand(newCatalogCommand(&catalogPath))

	return rootCmd
}
