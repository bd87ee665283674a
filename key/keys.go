// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Catalog API - these keys locate and parameterize the publishing content API.
const (
	CatalogBaseURL      = "catalog.base_url"
	CatalogAPIKey       = "catalog.api_key"
	CatalogAPISecret    = "catalog.api_secret"
	CatalogCampaignID   = "catalog.campaign_id"
	CatalogServiceID    = "catalog.service_id"
	CatalogLocale       = "catalog.locale"
	CatalogItemsPerPage = "catalog.items_per_page"
	CatalogTimeout      = "catalog.timeout"
)

// Account API - these keys configure the authentication and account info service.
const (
	AccountBaseURL   = "account.base_url"
	AccountServiceID = "account.service_id"
)

// Session - these keys govern restoring a persisted login on startup.
const (
	SessionRestoreAttempts = "session.restore_attempts"
	SessionRestoreDelay    = "session.restore_delay"
)

// History Tracking - these keys configure the persistence of media consumption state.
const (
	HistorySaveOnPlay = "history.save_on_play"
)

// Search Interaction - these keys define the UI/UX parameters for search discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
	SearchDebounce             = "search.debounce"
)

// Minimalist (Mini) Mode - these keys configure the specialized lightweight prompt interface.
const (
	MiniSearchLimit = "mini.search_limit"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the primary interactive environment's styling and logic.
const (
	TUIItemSpacing        = "tui.item_spacing"
	TUISearchPromptString = "tui.search_prompt"
	TUIShowDescriptions   = "tui.show_descriptions"
)

// Media Playback - these keys configure the external player and episode sequencing.
const (
	PlayerMPVPath        = "player.mpv_path"
	PlayerWrapAround     = "player.wrap_around"
	PlayerAutoplay       = "player.autoplay"
	PlayerAutoplayDelay  = "player.autoplay_delay"
	PlayerDefaultQuality = "player.default_quality"
)

// Notifications - these keys schedule the local notification feed.
const (
	NotificationsFirstDelay = "notifications.first_delay"
	NotificationsSchedule   = "notifications.schedule"
	NotificationsDesktop    = "notifications.desktop"
)

// Sharing - these keys shape the public links produced by the share menu.
const (
	ShareBaseURL = "share.base_url"
)

// Analytics - these keys control the local event journal.
const (
	AnalyticsEnable = "analytics.enable"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
