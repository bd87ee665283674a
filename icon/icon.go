// Package icon renders the status symbols shown next to messages and list items.
// The set in use is chosen with the icons.variant setting.
package icon

import (
	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/key"
	"github.com/spf13/viper"
)

const (
	emoji   = "emoji"
	nerd    = "nerd"
	plain   = "plain"
	kaomoji = "kaomoji"
	squares = "squares"
)

type iconDef struct {
	emoji   string
	nerd    string
	plain   string
	kaomoji string
	squares string
}

var variants = map[string]func(*iconDef) string{
	emoji:   func(d *iconDef) string { return d.emoji },
	nerd:    func(d *iconDef) string { return d.nerd },
	plain:   func(d *iconDef) string { return d.plain },
	kaomoji: func(d *iconDef) string { return d.kaomoji },
	squares: func(d *iconDef) string { return d.squares },
}

// AvailableVariants lists the accepted values of icons.variant, sorted.
func AvailableVariants() []string {
	return []string{emoji, kaomoji, nerd, plain, squares}
}

// Valid reports whether variant names a known icon set.
func Valid(variant string) bool {
	return lo.HasKey(variants, variant)
}

// Get renders i in the configured variant. Unknown icons and variants render as "".
func Get(i Icon) string {
	def, ok := icons[i]
	if !ok {
		return ""
	}

	render, ok := variants[viper.GetString(key.IconsVariant)]
	if !ok {
		return ""
	}
	return render(def)
}
