package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mikey/phish-guard/internal/core"
	"github.com/mikey/phish-guard/internal/di"
	"github.com/mikey/phish-guard/internal/factory"
	"github.com/mikey/phish-guard/internal/ports"
)

func newServeCmd(flags *di.CLIFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP scoring API",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := di.BuildContainer(flags)
			if err != nil {
				return err
			}
			return container.Invoke(func(
				logger *zap.Logger,
				filters *factory.FilterFactory,
				cacheRepo core.CacheRepository,
			) error {
				defer logger.Sync()

				httpFilter, err := filters.CreateHTTPFilter()
				if err != nil {
					return err
				}
				var server ports.EmailFilter = httpFilter

				errCh := make(chan error, 1)
				go func() {
					errCh <- server.Start()
				}()

				select {
				case err := <-errCh:
					if err != nil {
						logger.Error("HTTP server failed", zap.Error(err))
						return err
					}
				case <-cmd.Context().Done():
					logger.Info("Shutting down...")
					if err := server.Stop(); err != nil {
						logger.Error("Failed to stop server", zap.Error(err))
					}
				}

				// Stop the cache cleaner if needed
				if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
					stopper.Stop()
				}

				logger.Info("Shutdown complete")
				return nil
			})
		},
	}
}
