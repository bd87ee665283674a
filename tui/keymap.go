package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/shortdrama-cli/shortdrama/color"
	"github.com/shortdrama-cli/shortdrama/style"
)

// statefulKeymap holds every binding; help() picks the ones that apply to the current state.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	confirm, back,
	nextField,
	acceptSearchSuggestion,
	up, down, left, right,
	top, bottom,
	nextRubric, prevRubric,
	search, feed, myList, profile,
	play, save, share, episodes, quality,
	next, prev, swipeNext, swipePrev,
	playPause, replay,
	remove, toggleNotifications, clearHistory, logout,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func bind(help, description string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(help, description))
}

func newStatefulKeymap() *statefulKeymap {
	highlight := style.Fg(color.Orange)

	return &statefulKeymap{
		quit:                   bind("q", "quit", "q"),
		forceQuit:              bind("ctrl+c", "quit", "ctrl+c", "ctrl+d"),
		confirm:                bind("enter", "confirm", "enter"),
		back:                   bind("esc", "back", "esc"),
		nextField:              bind("tab", "next field", "tab", "shift+tab"),
		acceptSearchSuggestion: bind("tab", "accept suggestion", "tab"),
		up:                     bind("↑", "up", "up", "k"),
		down:                   bind("↓", "down", "down", "j"),
		left:                   bind("←", "left", "left", "h"),
		right:                  bind("→", "right", "right", "l"),
		top:                    bind("g", "top", "g"),
		bottom:                 bind("G", "bottom", "G"),
		nextRubric:             bind("tab", "next category", "tab"),
		prevRubric:             bind("shift+tab", "prev category", "shift+tab"),
		search:                 bind("/", "search", "/"),
		feed:                   bind("f", "for you", "f"),
		myList:                 bind("m", "my list", "m"),
		profile:                bind("u", "profile", "u"),
		save:                   bind("s", "save", "s"),
		share:                  bind("S", "share", "S"),
		episodes:               bind("e", "episodes", "e"),
		quality:                bind("Q", "quality", "Q"),
		next:                   bind("n", "next episode", "n"),
		prev:                   bind("p", "prev episode", "p"),
		swipeNext:              bind("]", "next series", "]"),
		swipePrev:              bind("[", "prev series", "["),
		playPause:              bind("space", "pause/resume", " "),
		replay:                 bind("r", "replay", "r"),
		remove:                 bind("d", "remove", "d"),
		toggleNotifications:    bind("N", "notifications", "N"),
		clearHistory:           bind("C", "clear history", "C"),
		logout:                 bind("L", "log out", "L"),
		showHelp:               bind("?", "help", "?"),
		play:                   bind(highlight("enter"), highlight("play"), "enter"),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case loadingState:
		return to2(h(k.forceQuit))
	case loginState:
		return to2(h(withDescription(k.confirm, "log in"), k.nextField, k.forceQuit))
	case homeState:
		return h(k.play, k.nextRubric, k.search, k.feed, k.myList),
			h(k.play, k.nextRubric, k.prevRubric, k.save, k.search, k.feed, k.myList, k.profile, k.quit)
	case searchState:
		return to2(h(k.play, k.acceptSearchSuggestion, k.back))
	case feedState:
		return h(k.play, k.up, k.down, k.save, k.back),
			h(k.play, k.up, k.down, k.save, k.share, k.back)
	case playerState:
		return h(k.playPause, k.next, k.prev, k.episodes, k.back),
			h(k.playPause, k.next, k.prev, k.swipeNext, k.swipePrev, k.replay, k.episodes, k.quality, k.save, k.share, k.back)
	case episodesState:
		return to2(h(k.play, k.back))
	case qualityState, shareState:
		return to2(h(k.confirm, k.back))
	case myListState:
		return to2(h(k.play, k.remove, k.share, k.back))
	case profileState:
		return h(k.play, k.toggleNotifications, k.logout, k.back),
			h(k.play, k.remove, k.toggleNotifications, k.clearHistory, k.logout, k.back)
	case errorState:
		return to2(h(k.back, k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()
	return [][]key.Binding{full}
}

func (k *statefulKeymap) forList() list.KeyMap {
	return list.KeyMap{
		CursorUp:             k.up,
		CursorDown:           k.down,
		NextPage:             k.right,
		PrevPage:             k.left,
		GoToStart:            k.top,
		GoToEnd:              k.bottom,
		ClearFilter:          k.back,
		CancelWhileFiltering: k.back,
		AcceptWhileFiltering: k.confirm,
		ShowFullHelp:         k.showHelp,
		CloseFullHelp:        k.showHelp,
		Quit:                 k.quit,
		ForceQuit:            k.forceQuit,
	}
}

func withDescription(k key.Binding, description string) key.Binding {
	return key.NewBinding(
		key.WithKeys(k.Keys()...),
		key.WithHelp(k.Help().Key, description),
	)
}
