// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// App is the canonical application identifier used for filesystem paths, keyring entries and CLI branding.
	App = "shortdrama"

	// Brand is the human readable product name used in share texts and notifications.
	Brand = "ShortDrama"

	// Version is the current application semantic version string.
	Version = "0.3.0"

	// Repository is the GitHub owner/name that publishes releases.
	Repository = "shortdrama-cli/shortdrama"

	// UserAgent is the default HTTP User-Agent string used for requests to the catalog and account APIs.
	UserAgent = "shortdrama-cli/" + Version
)

// Build metadata, populated through -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
