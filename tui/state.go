package tui

type state int

const (
	loadingState state = iota
	errorState
	loginState
	homeState
	searchState
	feedState
	playerState
	episodesState
	qualityState
	shareState
	myListState
	profileState
)
