package icon

// Icon identifies a UI symbol in the registry.
type Icon int

const (
	Fail Icon = iota
	Success
	Progress
	Mark
	Search
	Saved
	Play
	Share
	Bell
	Episodes
	Quality
	User
	History
	Link
)

var icons = map[Icon]*iconDef{
	Fail: {
		emoji:   "💀",
		nerd:    "",
		plain:   "X",
		kaomoji: "(×﹏×)",
		squares: "🟥",
	},
	Success: {
		emoji:   "🎉",
		nerd:    "",
		plain:   "✓",
		kaomoji: "(ᵔ◡ᵔ)",
		squares: "🟩",
	},
	Progress: {
		emoji:   "👾",
		nerd:    "",
		plain:   "@",
		kaomoji: "┐(＾＾)┌",
		squares: "🟦",
	},
	Mark: {
		emoji:   "🔖",
		nerd:    "",
		plain:   "*",
		kaomoji: "(＾▽＾)",
		squares: "🟨",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "",
		plain:   "?",
		kaomoji: "(・_・ヾ",
		squares: "🟪",
	},
	Saved: {
		emoji:   "❤️",
		nerd:    "",
		plain:   "+",
		kaomoji: "(♡˙︶˙♡)",
		squares: "🟥",
	},
	Play: {
		emoji:   "▶️",
		nerd:    "",
		plain:   ">",
		kaomoji: "ᕕ( ᐛ )ᕗ",
		squares: "🟩",
	},
	Share: {
		emoji:   "📤",
		nerd:    "",
		plain:   "^",
		kaomoji: "(づ｡◕‿‿◕｡)づ",
		squares: "🟦",
	},
	Bell: {
		emoji:   "🔔",
		nerd:    "",
		plain:   "!",
		kaomoji: "(°ロ°)!",
		squares: "🟨",
	},
	Episodes: {
		emoji:   "🎞️",
		nerd:    "",
		plain:   "#",
		kaomoji: "(⌐■_■)",
		squares: "🟫",
	},
	Quality: {
		emoji:   "⚙️",
		nerd:    "",
		plain:   "~",
		kaomoji: "(๑•̀ㅂ•́)و",
		squares: "⬜",
	},
	User: {
		emoji:   "👤",
		nerd:    "",
		plain:   "@",
		kaomoji: "(・ω・)",
		squares: "🟧",
	},
	History: {
		emoji:   "🕘",
		nerd:    "",
		plain:   "%",
		kaomoji: "(￣ー￣)",
		squares: "⬛",
	},
	Link: {
		emoji:   "🔗",
		nerd:    "",
		plain:   "&",
		kaomoji: "(◕‿◕)",
		squares: "🟦",
	},
}
