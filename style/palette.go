package style

import "github.com/charmbracelet/lipgloss"

// Dark theme. The accent is the brand coral.
var (
	Base    = lipgloss.Color("#16161e")
	Text    = lipgloss.Color("#e6e1ef")
	Muted   = lipgloss.Color("#8a8499")
	Surface = lipgloss.Color("#2a2733")

	Coral  = lipgloss.Color("#ff5a5f")
	Rose   = lipgloss.Color("#f7a1c4")
	Amber  = lipgloss.Color("#ffc857")
	Mint   = lipgloss.Color("#7ee0b5")
	Ocean  = lipgloss.Color("#6cb4ee")
	Violet = lipgloss.Color("#b9a3ff")
	Peach  = lipgloss.Color("#ffab76")
	Red    = lipgloss.Color("#ff4d6d")

	AccentColor    = Coral
	SecondaryColor = Violet
	SuccessColor   = Mint
	WarningColor   = Amber
	ErrorColor     = Red
	FaintColor     = Muted
)

// List title backgrounds, one per screen.
var (
	GridColor     = AccentColor
	ResultsColor  = Violet
	EpisodesColor = Peach
	QualityColor  = Ocean
	ShareColor    = Mint
	MyListColor   = Rose
	HistoryColor  = Amber
)
