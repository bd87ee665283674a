// Package tui is the default full-screen interface.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shortdrama-cli/shortdrama/account"
	"github.com/shortdrama-cli/shortdrama/analytics"
	"github.com/shortdrama-cli/shortdrama/catalog"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/shortdrama-cli/shortdrama/library"
	"github.com/shortdrama-cli/shortdrama/log"
	"github.com/shortdrama-cli/shortdrama/notify"
	"github.com/shortdrama-cli/shortdrama/playback"
	"github.com/shortdrama-cli/shortdrama/query"
	"github.com/shortdrama-cli/shortdrama/session"
	"github.com/spf13/viper"
)

// Screens that can be opened directly.
const (
	RouteHome    = "home"
	RouteFeed    = "feed"
	RouteMyList  = "mylist"
	RouteProfile = "profile"
)

// Routes lists the accepted values of Options.Route.
var Routes = []string{RouteHome, RouteFeed, RouteMyList, RouteProfile}

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	// Route is the screen shown once the session is confirmed.
	Route string
}

// services are the collaborators the interface talks to.
type services struct {
	catalog   *catalog.Client
	account   *account.Client
	restorer  *session.Restorer
	saved     *library.Saved
	history   *library.History
	hub       *notify.Hub
	settings  *notify.Store
	scheduler *notify.Scheduler
	desktop   *notify.DesktopSink
	journal   *analytics.Journal
	queries   *query.Memory
}

func defaultServices() *services {
	accounts := account.Default()
	hub := notify.NewHub()
	settings := notify.DefaultStore()

	return &services{
		catalog:   catalog.Default(),
		account:   accounts,
		restorer:  session.NewRestorer(accounts),
		saved:     library.DefaultSaved(),
		history:   library.DefaultHistory(),
		hub:       hub,
		settings:  settings,
		scheduler: notify.DefaultScheduler(hub, settings),
		desktop:   notify.NewDesktopSink(settings),
		journal:   analytics.Default(),
		queries:   query.Default(),
	}
}

// playbackOptions wires a playback session to the history, notification and analytics services.
func (s *services) playbackOptions() playback.Options {
	opts := playback.DefaultOptions()
	if viper.GetBool(key.HistorySaveOnPlay) {
		opts.History = s.history
	}
	opts.Notifier = s.hub
	opts.Tracker = s.journal
	return opts
}

// Run starts the interface and blocks until the user quits.
func Run(options *Options) error {
	deps := defaultServices()
	defer deps.hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	desktop, unsubscribe := deps.hub.Subscribe(16)
	defer unsubscribe()
	go deps.desktop.Run(ctx, desktop)

	if err := deps.scheduler.Start(); err != nil {
		log.Warnf("notification scheduler: %v", err)
	}
	defer deps.scheduler.Stop()

	bubble := newBubble(options, deps)
	defer bubble.shutdown()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
