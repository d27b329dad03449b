// File: cmd/hubstore/root.go
package main

import (
	"context"
	"fmt"
	"hubstore/internal/flags"
	"hubstore/internal/logger"
	"hubstore/pkg/storage"
	"os"

	"github.com/spf13/cobra"
)

const (
	exitFailure      = 1
	exitProvisioning = 2
)

type rootFlags struct {
	debug      bool
	configPath string
	driver     string
}

func newRootCmd() *cobra.Command {
	rf := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "hubstore",
		Short: "hubstore manages the file storage behind a multi-tenant file hub.",
		Long: `A CLI over the hub's storage drivers. Writes, lists and deletes files in tenant
namespaces on Google Cloud Storage, Amazon S3, MinIO or a local directory,
and provisions the backing bucket.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log := logger.NewLogger(rf.debug)
			app, err := newApp(rf.configPath, cmd.InOrStdin(), cmd.OutOrStdout(), log)
			if err != nil {
				return err
			}
			cmd.SetContext(contextWithApp(cmd.Context(), app))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&rf.debug, flags.Debug, flags.DebugShort, false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rf.configPath, flags.Config, "", "Path to the config file (default ~/.config/hubstore/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rf.driver, flags.Driver, flags.DriverShort, "", "Driver to use for this invocation, overriding the 'driver' setting")

	rootCmd.AddCommand(newFilesCmds(rf)...)
	rootCmd.AddCommand(newDriverCmds(rf)...)
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

// Execute runs the CLI and returns the process exit code
func Execute(ctx context.Context) int {
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if storage.IsProvisioningError(err) {
			return exitProvisioning
		}
		return exitFailure
	}
	return 0
}
