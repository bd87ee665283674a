package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shortdrama-cli/shortdrama/account"
	"github.com/shortdrama-cli/shortdrama/session"
)

// Init checks the stored session; the result decides between the login form and the home screen.
func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(
		b.startLoading("Checking your session"),
		b.restoreSession(),
		b.waitForNotification(),
		b.waitForSearch(),
	)
}

// enter opens the signed-in part of the interface.
func (b *statefulBubble) enter(sess *session.Session, user *account.User) tea.Cmd {
	b.sess, b.user = sess, user
	b.rubricIndex = 0
	b.resetTo(homeState)

	cmds := []tea.Cmd{b.startLoading("Loading videos"), b.loadRubrics(), b.loadGrid()}

	switch b.options.Route {
	case RouteFeed:
		b.newState(feedState)
		cmds = append(cmds, b.loadFeed())
	case RouteMyList:
		b.newState(myListState)
		cmds = append(cmds, b.loadMyList())
	case RouteProfile:
		b.newState(profileState)
		cmds = append(cmds, b.loadHistory())
	}

	// only the first screen honors the route
	b.options.Route = ""

	return tea.Batch(cmds...)
}
