// File: cmd/hubstore/driver_cmd.go
package main

import (
	"errors"
	"fmt"
	"hubstore/internal/flags"
	"hubstore/internal/provider/registry"
	"hubstore/internal/service"
	"hubstore/pkg/formatter"
	"strings"

	"github.com/spf13/cobra"
)

func newDriverCmds(rf *rootFlags) []*cobra.Command {
	var output string

	urlCmd := &cobra.Command{
		Use:   "url",
		Short: "Print the public read URL prefix of the active driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}
			hub, _, err := app.openHub(cmd.Context(), rf.driver)
			if err != nil {
				return err
			}
			defer hub.Close()

			fmt.Fprintln(cmd.OutOrStdout(), hub.ReadURLPrefix())
			return nil
		},
	}

	provisionCmd := &cobra.Command{
		Use:   "provision",
		Short: "Make sure the configured bucket exists",
		Long:  `Checks the configured bucket (or storage root) and creates it when missing. Safe to run repeatedly.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}
			hub, driverName, err := app.openHub(cmd.Context(), rf.driver)
			if err != nil {
				return err
			}
			defer hub.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Bucket '%s' is ready on driver %s.\n", hub.BucketName(), driverName)
			return nil
		},
	}

	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Describe the active driver and its bucket usage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}
			out, err := formatter.NewHubFormatter(output)
			if err != nil {
				return err
			}
			hub, driverName, err := app.openHub(cmd.Context(), rf.driver)
			if err != nil {
				return err
			}
			defer hub.Close()

			usage, err := hub.BucketUsage(cmd.Context())
			if err != nil {
				if !errors.Is(err, service.ErrUsageUnsupported) {
					app.Logger.Warn("Bucket usage unavailable", "error", err)
				}
				usage = -1
			}

			rendered, err := out.FormatDriverDetails(formatter.DriverDetails{
				Driver:        driverName,
				Provider:      hub.Driver().ProviderName(),
				Bucket:        hub.BucketName(),
				ReadURLPrefix: hub.ReadURLPrefix(),
				UsageBytes:    usage,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
	infoCmd.Flags().StringVarP(&output, flags.Output, flags.OutputShort, formatter.OutputTable, "Output format: table or yaml")

	driversCmd := &cobra.Command{
		Use:   "drivers",
		Short: "List supported and configured drivers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			table := formatter.NewTable([]string{"DRIVER", "CONFIGURED", "ACTIVE"})
			active, _ := app.Factory.ActiveDriverName()
			if rf.driver != "" {
				active = strings.ToLower(rf.driver)
			}
			for _, name := range registry.GetSupportedDrivers() {
				table.AddRow([]string{name, yesNo(app.Factory.IsConfigured(name)), yesNo(name == active)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.String())
			return nil
		},
	}

	return []*cobra.Command{urlCmd, provisionCmd, infoCmd, driversCmd}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
