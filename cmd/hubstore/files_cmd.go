// File: cmd/hubstore/files_cmd.go
package main

import (
	"fmt"
	"hubstore/internal/flags"
	"hubstore/pkg/formatter"
	"hubstore/pkg/storage"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const defaultContentType = "application/octet-stream"

type filesFlags struct {
	contentType string
	page        string
	all         bool
	output      string
	force       bool
}

func newFilesCmds(rf *rootFlags) []*cobra.Command {
	cmdFlags := filesFlags{}

	writeCmd := &cobra.Command{
		Use:   "write [top] [path] [local-file]",
		Short: "Write a file into a tenant namespace",
		Long: `Streams a local file (or stdin when local-file is '-' or omitted) to <top>/<path>
and prints the public URL it is readable at.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			top, path := args[0], args[1]
			source := "-"
			if len(args) == 3 {
				source = args[2]
			}

			var content io.ReadCloser
			var length int64
			hub, _, err := app.openHubWhile(cmd.Context(), rf.driver, func() error {
				var err error
				content, length, err = openSource(source, cmd.InOrStdin())
				return err
			})
			if content != nil {
				defer content.Close()
			}
			if err != nil {
				return err
			}
			defer hub.Close()

			contentType := resolveContentType(cmdFlags.contentType, path)
			url, err := hub.WriteFile(cmd.Context(), top, path, content, length, contentType)
			if err != nil {
				return fmt.Errorf("error writing '%s/%s': %w", top, path, err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), url)
			return nil
		},
	}
	writeCmd.Flags().StringVarP(&cmdFlags.contentType, flags.ContentType, flags.ContentTypeShort, "", "Content type to store (default: derived from the path extension)")

	listCmd := &cobra.Command{
		Use:   "list [prefix]",
		Short: "List files under a prefix",
		Long: `Lists one page of files stored under the prefix, relative to it. Use --page with the
token printed by a previous call to continue, or --all to fetch every page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}
			out, err := formatter.NewHubFormatter(cmdFlags.output)
			if err != nil {
				return err
			}

			hub, _, err := app.openHub(cmd.Context(), rf.driver)
			if err != nil {
				return err
			}
			defer hub.Close()

			prefix := args[0]
			listing := formatter.FileListing{Prefix: prefix}
			if cmdFlags.all {
				listing.Files, err = hub.ListAllFiles(cmd.Context(), prefix)
			} else {
				var result storage.ListFilesResult
				result, err = hub.ListFiles(cmd.Context(), prefix, cmdFlags.page)
				listing.Files, listing.NextPage = result.Entries, result.Page
			}
			if err != nil {
				return fmt.Errorf("error listing '%s': %w", prefix, err)
			}

			base := hub.ReadURLPrefix() + storage.ListPrefix(prefix)
			for _, name := range listing.Files {
				listing.URLs = append(listing.URLs, base+name)
			}

			rendered, err := out.FormatFileList(listing)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
	listCmd.Flags().StringVar(&cmdFlags.page, flags.Page, "", "Continuation token from a previous listing")
	listCmd.Flags().BoolVarP(&cmdFlags.all, flags.All, flags.AllShort, false, "Follow continuation tokens until the listing is exhausted")
	listCmd.Flags().StringVarP(&cmdFlags.output, flags.Output, flags.OutputShort, formatter.OutputTable, "Output format: table or yaml")
	listCmd.MarkFlagsMutuallyExclusive(flags.Page, flags.All)

	tenantsCmd := &cobra.Command{
		Use:   "tenants [prefix...]",
		Short: "List every file of several tenants at once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}
			out, err := formatter.NewHubFormatter(cmdFlags.output)
			if err != nil {
				return err
			}

			hub, _, err := app.openHub(cmd.Context(), rf.driver)
			if err != nil {
				return err
			}
			defer hub.Close()

			results, err := hub.ListTenants(cmd.Context(), args)
			if err != nil {
				return err
			}

			for _, prefix := range args {
				rendered, err := out.FormatFileList(formatter.FileListing{Prefix: prefix, Files: results[prefix]})
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSectionTitle(prefix))
				fmt.Fprintln(cmd.OutOrStdout(), rendered)
			}
			return nil
		},
	}
	tenantsCmd.Flags().StringVarP(&cmdFlags.output, flags.Output, flags.OutputShort, formatter.OutputTable, "Output format: table or yaml")

	deleteCmd := &cobra.Command{
		Use:   "delete [top] [path]",
		Short: "Delete a file from a tenant namespace",
		Long:  `Deletes <top>/<path>. You are asked to type the object key back unless --force is given.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := appFromContext(cmd.Context())
			if err != nil {
				return err
			}

			top, path := args[0], args[1]
			key := storage.ObjectKey(top, path)

			if !cmdFlags.force {
				confirmed, err := app.Prompter.Confirm(fmt.Sprintf("This permanently deletes '%s'.", key), key)
				if err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled.")
					return nil
				}
			}

			hub, _, err := app.openHub(cmd.Context(), rf.driver)
			if err != nil {
				return err
			}
			defer hub.Close()

			if err := hub.DeleteFile(cmd.Context(), top, path); err != nil {
				return fmt.Errorf("error deleting '%s': %w", key, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "File '%s' deleted.\n", key)
			return nil
		},
	}
	deleteCmd.Flags().BoolVarP(&cmdFlags.force, flags.Force, flags.ForceShort, false, "Skip the confirmation prompt")

	return []*cobra.Command{writeCmd, listCmd, tenantsCmd, deleteCmd}
}

// Opens the upload source. Stdin has no known length and is reported as -1.
func openSource(source string, stdin io.Reader) (io.ReadCloser, int64, error) {
	if source == "-" {
		return io.NopCloser(stdin), -1, nil
	}

	f, err := os.Open(source)
	if err != nil {
		return nil, 0, fmt.Errorf("error opening '%s': %w", source, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("error reading '%s': %w", source, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, 0, fmt.Errorf("'%s' is a directory", source)
	}
	return f, info.Size(), nil
}

// An explicit --content-type wins; otherwise the type registered for the extension is used
func resolveContentType(explicit, path string) string {
	if explicit != "" {
		return explicit
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct
	}
	return defaultContentType
}
