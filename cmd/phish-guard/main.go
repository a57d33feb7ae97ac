package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mikey/phish-guard/internal/di"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &di.CLIFlags{}

	root := &cobra.Command{
		Use:          "phish-guard",
		Short:        "Phishing risk scoring for email metadata",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	root.PersistentFlags().BoolVarP(&flags.Verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	root.PersistentFlags().StringVar(&flags.ModelPath, "model", "", "Path to the classifier artifact")

	root.AddCommand(
		newAnalyzeCmd(flags),
		newTrainCmd(flags),
		newServeCmd(flags),
	)
	return root
}

// buildCLI builds the CLI container and invokes fn with its dependencies
func buildCLI(flags *di.CLIFlags, fn interface{}) error {
	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}
	return container.Invoke(fn)
}
