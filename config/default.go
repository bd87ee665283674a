package config

import (
	"errors"
	"fmt"
	"sort"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/player"
)

// Default holds every known setting keyed by its name.
var Default = make(map[string]Field)

// EnvExposed lists the keys bound to environment variables.
var EnvExposed []string

// ErrUnknownKey is wrapped by Lookup for keys missing from Default.
var ErrUnknownKey = errors.New("unknown key")

type option func(*Field)

func choices(values ...string) option {
	return func(f *Field) { f.Choices = values }
}

func secret(f *Field) {
	f.Secret = true
}

func register(k string, v any, desc string, opts ...option) {
	if _, exists := Default[k]; exists {
		panic("duplicate config key: " + k)
	}

	f := Field{Key: k, Value: v, Description: desc}
	for _, opt := range opts {
		opt(&f)
	}

	Default[k] = f
	EnvExposed = append(EnvExposed, k)
}

func init() {
	register(key.CatalogBaseURL, "https://galaxy-api.galaxydve.com", "Base URL of the publishing content API")
	register(key.CatalogAPIKey, "api_key_iatest", "API key sent with every catalog request", secret)
	register(key.CatalogAPISecret, "GaLxAiDviTS12*", "API secret sent with every catalog request", secret)
	register(key.CatalogCampaignID, "5027", "Campaign identifier for the catalog")
	register(key.CatalogServiceID, "39", "Service identifier for the catalog")
	register(key.CatalogLocale, "en-GB", "BCP-47 locale used to derive the country and language codes")
	register(key.CatalogItemsPerPage, 100, "Number of videos requested per catalog page")
	register(key.CatalogTimeout, 20, "Catalog and account request timeout in seconds")

	register(key.AccountBaseURL, "https://userv1-pp.dv-content.io", "Base URL of the authentication and account API")
	register(key.AccountServiceID, "2500", "Product identifier sent to the account API")

	register(key.SessionRestoreAttempts, 5, "How many times to retry restoring a saved session while the network is reachable")
	register(key.SessionRestoreDelay, 3, "Seconds to wait between session restore attempts")

	register(key.HistorySaveOnPlay, true, "Record a video in watch history when playback starts")

	register(key.SearchShowQuerySuggestions, true, "Show query suggestions when searching")
	register(key.SearchDebounce, 300, "Milliseconds to wait after the last keystroke before searching")
	register(key.MiniSearchLimit, 20, "Limit of search results to show")

	register(key.IconsVariant, "plain", "Icons variant. The nerd variant needs a nerd font",
		choices("emoji", "kaomoji", "nerd", "plain", "squares"))

	register(key.TUIItemSpacing, 1, "Spacing between items in the TUI")
	register(key.TUISearchPromptString, "> ", "Search prompt string to use")
	register(key.TUIShowDescriptions, true, "Show video descriptions under list items")

	register(key.PlayerMPVPath, "mpv", "Path or name of the mpv executable used for playback")
	register(key.PlayerWrapAround, false, "After the last episode of the last series, start over from the first one.\nWhen disabled, playback stops at the end")
	register(key.PlayerAutoplay, true, "Play the next episode automatically when a video ends")
	register(key.PlayerAutoplayDelay, 500, "Milliseconds to wait before autoplaying the next episode")
	register(key.PlayerDefaultQuality, player.FallbackQuality, "Quality label selected when a video opens",
		choices(player.Qualities...))

	register(key.NotificationsFirstDelay, 10, "Seconds before the first scheduled notification")
	register(key.NotificationsSchedule, "@every 2m", "Cron schedule of recurring notifications")
	register(key.NotificationsDesktop, true, "Forward notifications to the desktop notification daemon")

	register(key.ShareBaseURL, "https://shortdrama.app", "Public site used to build share links")
	register(key.AnalyticsEnable, true, "Record login and playback events in the local event journal")

	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Log verbosity, from least to most verbose",
		choices("panic", "fatal", "error", "warn", "info", "debug", "trace"))
	register(key.LogsJson, false, "Use json format for logs")

	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, true, "Enable automatic version check")
}

// Keys returns every setting name, sorted.
func Keys() []string {
	keys := lo.Keys(Default)
	sort.Strings(keys)
	return keys
}

// Closest returns the registered key nearest to k by edit distance.
func Closest(k string) string {
	return lo.MinBy(Keys(), func(a, b string) bool {
		return levenshtein.Distance(k, a) < levenshtein.Distance(k, b)
	})
}

// Lookup returns the field registered under k.
func Lookup(k string) (Field, error) {
	f, ok := Default[k]
	if !ok {
		return Field{}, fmt.Errorf("%w %s, did you mean %s?", ErrUnknownKey, k, Closest(k))
	}
	return f, nil
}

// Sections groups the fields by Section, sorted by key inside each group.
func Sections() map[string][]Field {
	sections := make(map[string][]Field)
	for _, k := range Keys() {
		f := Default[k]
		sections[f.Section()] = append(sections[f.Section()], f)
	}
	return sections
}
