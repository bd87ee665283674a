package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/samber/lo"
	"github.com/shortdrama-cli/shortdrama/color"
	"github.com/shortdrama-cli/shortdrama/constant"
	"github.com/shortdrama-cli/shortdrama/style"
	"github.com/spf13/viper"
)

// Field is one configuration setting with its default value.
type Field struct {
	Key         string
	Value       any
	Description string

	// Choices, when set, lists the only accepted string values.
	Choices []string

	// Secret values are masked whenever the field is displayed.
	Secret bool
}

// Section is the part of the key before the first dot, e.g. "player".
func (f *Field) Section() string {
	section, _, _ := strings.Cut(f.Key, ".")
	return section
}

// Env returns the environment variable bound to the field.
func (f *Field) Env() string {
	return strings.ToUpper(constant.App + "_" + EnvKeyReplacer.Replace(f.Key))
}

// Current returns the effective value, masked for secrets.
func (f *Field) Current() any {
	return f.display(viper.Get(f.Key))
}

func (f *Field) display(v any) any {
	if !f.Secret {
		return v
	}

	if s := fmt.Sprint(v); s != "" {
		return strings.Repeat("*", min(len(s), 8))
	}
	return ""
}

// Parse converts command line words into a value of the field's type.
func (f *Field) Parse(words []string) (any, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("%s: value is required", f.Key)
	}

	switch f.Value.(type) {
	case string:
		if len(f.Choices) > 0 && !lo.Contains(f.Choices, words[0]) {
			return nil, fmt.Errorf("%s: %q is not one of %s", f.Key, words[0], strings.Join(f.Choices, ", "))
		}
		return words[0], nil
	case int:
		n, err := strconv.Atoi(words[0])
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q", f.Key, words[0])
		}
		if n < 0 {
			return nil, fmt.Errorf("%s: must not be negative", f.Key)
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(words[0])
		if err != nil {
			return nil, fmt.Errorf("%s: invalid boolean %q", f.Key, words[0])
		}
		return b, nil
	case []string:
		return words, nil
	default:
		return nil, fmt.Errorf("%s: unsupported type %s", f.Key, f.typeName())
	}
}

func (f *Field) typeName() string {
	if f.Value == nil {
		return "unknown"
	}
	return reflect.TypeOf(f.Value).String()
}

func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string   `json:"key"`
		Value       any      `json:"value"`
		Default     any      `json:"default"`
		Description string   `json:"description"`
		Type        string   `json:"type"`
		Choices     []string `json:"choices,omitempty"`
		Env         string   `json:"env"`
	}{
		Key:         f.Key,
		Value:       f.Current(),
		Default:     f.display(f.Value),
		Description: f.Description,
		Type:        f.typeName(),
		Choices:     f.Choices,
		Env:         f.Env(),
	})
}

// Pretty renders the field for the terminal.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return style.Fg(color.Green)("true")
		}
		return style.Fg(color.Red)("false")
	case string:
		return style.Fg(color.Yellow)(value)
	default:
		return fmt.Sprint(value)
	}
}

var prettyTemplate = template.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":   style.Faint,
	"key":     style.Fg(color.Purple),
	"label":   style.Fg(color.Blue),
	"hl":      highlight,
	"join":    strings.Join,
	"initial": func(f *Field) any { return f.display(f.Value) },
	"type":    func(f *Field) string { return f.typeName() },
}).Parse(`{{ faint .Description }}
{{ label "Key:" }}     {{ key .Key }}
{{ label "Env:" }}     {{ .Env }}
{{ label "Value:" }}   {{ hl .Current }}
{{ label "Default:" }} {{ hl (initial .) }}
{{ label "Type:" }}    {{ type . }}{{ if .Choices }}
{{ label "Choices:" }} {{ join .Choices ", " }}{{ end }}`))
