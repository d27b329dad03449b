// File: internal/flags/flags.go
package flags

// Centralized definitions for CLI flags used across the application

const (
	// Driver flags override the configured backend for a single invocation
	Driver      = "driver"
	DriverShort = "D"

	// Top flags name the tenant namespace (storage top level) an operation runs in
	Top      = "top"
	TopShort = "t"

	// Page flags resume a listing from a continuation token printed by a previous call
	Page = "page"

	// All flags make list follow continuation tokens until the listing is exhausted
	All      = "all"
	AllShort = "a"

	// ContentType flags set the content type stored with a written object
	ContentType      = "content-type"
	ContentTypeShort = "c"

	// Output flags select the output format (table or yaml)
	Output      = "output"
	OutputShort = "o"

	// Force flags are used to bypass interactive confirmation prompts for destructive operations
	Force      = "force"
	ForceShort = "f"

	// Debug flags are used to enable verbose logging
	Debug      = "debug"
	DebugShort = "d"

	// Config flags point at an alternative configuration file
	Config = "config"
)
