// File: pkg/formatter/hub_formatter.go
package formatter

import (
	"fmt"
	"hubstore/pkg/common"
	"hubstore/pkg/storage"
	"strings"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output
const (
	OutputTable = "table"
	OutputYAML  = "yaml"
)

// A listing page as rendered by the CLI
type FileListing struct {
	Prefix   string   `yaml:"prefix"`
	Files    []string `yaml:"files"`
	URLs     []string `yaml:"urls,omitempty"`
	NextPage string   `yaml:"next_page,omitempty"`
}

// Summary of the active driver
type DriverDetails struct {
	Driver        string          `yaml:"driver"`
	Provider      common.Provider `yaml:"provider"`
	Bucket        string          `yaml:"bucket,omitempty"`
	ReadURLPrefix string          `yaml:"read_url_prefix"`
	// Negative when the driver cannot report usage
	UsageBytes int64 `yaml:"usage_bytes"`
}

type HubFormatter struct {
	output string
}

func NewHubFormatter(output string) (*HubFormatter, error) {
	output = strings.ToLower(strings.TrimSpace(output))
	switch output {
	case "", OutputTable:
		return &HubFormatter{output: OutputTable}, nil
	case OutputYAML:
		return &HubFormatter{output: OutputYAML}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (expected %s or %s)", output, OutputTable, OutputYAML)
	}
}

func (f *HubFormatter) FormatFileList(listing FileListing) (string, error) {
	if f.output == OutputYAML {
		return toYAML(listing)
	}

	if len(listing.Files) == 0 {
		return fmt.Sprintf("No files found under '%s'.", listing.Prefix), nil
	}

	headers := []string{"FILE"}
	if len(listing.URLs) == len(listing.Files) {
		headers = append(headers, "URL")
	}
	table := NewTable(headers)
	for i, name := range listing.Files {
		row := []string{name}
		if len(headers) > 1 {
			row = append(row, listing.URLs[i])
		}
		table.AddRow(row)
	}

	result := table.String()
	if listing.NextPage != "" {
		result += fmt.Sprintf("\nMore files available. Continue with --page '%s'", listing.NextPage)
	}
	return result, nil
}

func (f *HubFormatter) FormatDriverDetails(details DriverDetails) (string, error) {
	if f.output == OutputYAML {
		return toYAML(details)
	}

	var sb strings.Builder
	sb.WriteString(FormatHeaderSection("Driver: " + details.Driver))
	sb.WriteString("\n\n")
	sb.WriteString(FormatSectionTitle("Overview"))
	sb.WriteString("\n")

	overview := NewTable([]string{"Parameter", "Value"})
	overview.AddRow([]string{"Provider", string(details.Provider)})
	if details.Bucket != "" {
		overview.AddRow([]string{"Bucket", details.Bucket})
	}
	overview.AddRow([]string{"Read URL Prefix", details.ReadURLPrefix})
	overview.AddRow([]string{"Usage", storage.FormatBytes(details.UsageBytes)})

	sb.WriteString(overview.String())
	return sb.String(), nil
}

func toYAML(v any) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode output as YAML: %w", err)
	}
	return string(out), nil
}
