package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	var logLevel string
	var logFile string

	var rootCmd = &cobra.Command{
		Use:           "pyrite",
		Short:         "ICPC contest resolver",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// the terminal presenter owns the screen, so it always logs to a file
			toFile := logFile != "" || cmd.Name() == "resolve"
			path := logFile
			if path == "" {
				path = "pyrite.log"
			}
			return InitializeLogger(logLevel, toFile, path)
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level [debug, info, warn, error]")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.AddCommand(
		newCheckCmd(),
		newStandingsCmd(),
		newConfigCmd(),
		newResolveCmd(),
		newServeCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
