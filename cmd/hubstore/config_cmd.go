// File: cmd/hubstore/config_cmd.go
package main

import (
	"fmt"
	"hubstore/internal/config"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration settings",
		Long: `Manage driver configuration. Values are stored in the config file; HUBSTORE_* environment
variables (e.g. HUBSTORE_GCP_BUCKET) override them at runtime.`,
	}

	configSetCmd := &cobra.Command{
		Use:   "set [key] [value]",
		Short: "Set a configuration key-value pair",
		Long:  `Sets a configuration value. For example: 'hubstore config set disk.storage_root /srv/hub'`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			key := strings.ToLower(args[0])
			value := args[1]

			if err := app.ConfigManager.SetValue(key, value); err != nil {
				return fmt.Errorf("error setting configuration: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration set: %s = %s\n", key, displayValue(key, value))
			return nil
		},
	}

	configGetCmd := &cobra.Command{
		Use:   "get [key]",
		Short: "Get a configuration value by key",
		Long:  `Retrieves a configuration value for a given key. For example: 'hubstore config get gcp.bucket'`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			key := strings.ToLower(args[0])
			value, exists := app.ConfigManager.GetValue(key)

			if !exists || value == "" {
				return fmt.Errorf("configuration key '%s' not found or not set", key)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, displayValue(key, value))
			return nil
		},
	}

	configDeleteCmd := &cobra.Command{
		Use:   "delete [key]",
		Short: "Delete a configuration value by key",
		Long:  `Deletes a configuration value for a given key. For example: 'hubstore config delete aws.endpoint'`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			key := strings.ToLower(args[0])
			deleted, err := app.ConfigManager.DeleteValue(key)
			if err != nil {
				return fmt.Errorf("error deleting configuration: %w", err)
			}
			if !deleted {
				return fmt.Errorf("configuration key '%s' not found", key)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration key '%s' deleted\n", key)
			return nil
		},
	}

	configListCmd := &cobra.Command{
		Use:   "list",
		Short: "List all current configuration values",
		Long:  `Displays every configured key-value pair, with secrets redacted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			displaySettings := make(map[string]interface{})
			for k, v := range flattenConfigMap(app.ConfigManager.GetAllSettings()) {
				if s, ok := v.(string); ok && s == "" {
					continue
				}
				if v != nil {
					displaySettings[k] = v
				}
			}

			if len(displaySettings) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No configuration values set. Use 'hubstore config set <key> <value>'. Known keys: %s\n", strings.Join(config.KnownKeys(), ", "))
				return nil
			}

			keys := make([]string, 0, len(displaySettings))
			for k := range displaySettings {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			fmt.Fprintf(cmd.OutOrStdout(), "Current configuration (%s):\n", app.ConfigManager.Path())
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s = %v\n", k, displaySettings[k])
			}
			return nil
		},
	}

	configCmd.AddCommand(configSetCmd, configGetCmd, configDeleteCmd, configListCmd)
	return configCmd
}

func displayValue(key, value string) string {
	if config.IsSecretKey(key) {
		return "********"
	}
	return value
}

// Recursively flattens a nested map (like Viper's config) into a flat map with dot notation keys
func flattenConfigMap(nestedMap map[string]interface{}) map[string]interface{} {
	flattenedMap := make(map[string]interface{})

	var flatten func(string, interface{})
	flatten = func(prefix string, value interface{}) {
		switch v := value.(type) {
		case map[string]interface{}:
			for k, val := range v {
				newPrefix := k
				if prefix != "" {
					newPrefix = prefix + "." + k
				}
				flatten(newPrefix, val)
			}
		default:
			if prefix != "" {
				flattenedMap[prefix] = value
			}
		}
	}

	flatten("", nestedMap)
	return flattenedMap
}
