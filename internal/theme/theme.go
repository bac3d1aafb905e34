// ABOUTME: Named color themes expressed as CSS custom properties
// ABOUTME: Colored themes override the light palette's primary and ring colors

package theme

import (
	"fmt"
	"slices"
	"strings"
)

// Default is the theme used for empty or unknown names.
const Default = "default"

// Var is one CSS custom property, without the leading "--".
type Var struct {
	Name  string
	Value string
}

// Theme is an ordered set of CSS variables.
type Theme struct {
	Name string
	Vars []Var
}

var light = []Var{
	{"background", "0 0% 100%"},
	{"foreground", "222.2 84% 4.9%"},
	{"card", "0 0% 100%"},
	{"card-foreground", "222.2 84% 4.9%"},
	{"popover", "0 0% 100%"},
	{"popover-foreground", "222.2 84% 4.9%"},
	{"primary", "222.2 47.4% 11.2%"},
	{"primary-foreground", "210 40% 98%"},
	{"secondary", "210 40% 96%"},
	{"secondary-foreground", "222.2 47.4% 11.2%"},
	{"muted", "210 40% 96%"},
	{"muted-foreground", "215.4 16.3% 46.9%"},
	{"accent", "210 40% 96%"},
	{"accent-foreground", "222.2 47.4% 11.2%"},
	{"destructive", "0 84.2% 60.2%"},
	{"destructive-foreground", "210 40% 98%"},
	{"border", "214.3 31.8% 91.4%"},
	{"input", "214.3 31.8% 91.4%"},
	{"ring", "222.2 84% 4.9%"},
	{"chart-1", "12 76% 61%"},
	{"chart-2", "173 58% 39%"},
	{"chart-3", "197 37% 24%"},
	{"chart-4", "43 74% 66%"},
	{"chart-5", "27 87% 67%"},
	{"radius", "0.5rem"},
}

var dark = []Var{
	{"background", "222.2 84% 4.9%"},
	{"foreground", "210 40% 98%"},
	{"card", "222.2 84% 4.9%"},
	{"card-foreground", "210 40% 98%"},
	{"popover", "222.2 84% 4.9%"},
	{"popover-foreground", "210 40% 98%"},
	{"primary", "210 40% 98%"},
	{"primary-foreground", "222.2 47.4% 11.2%"},
	{"secondary", "217.2 32.6% 17.5%"},
	{"secondary-foreground", "210 40% 98%"},
	{"muted", "217.2 32.6% 17.5%"},
	{"muted-foreground", "215 20.2% 65.1%"},
	{"accent", "217.2 32.6% 17.5%"},
	{"accent-foreground", "210 40% 98%"},
	{"destructive", "0 62.8% 30.6%"},
	{"destructive-foreground", "210 40% 98%"},
	{"border", "217.2 32.6% 17.5%"},
	{"input", "217.2 32.6% 17.5%"},
	{"ring", "212.7 26.8% 83.9%"},
	{"chart-1", "220 70% 50%"},
	{"chart-2", "160 60% 45%"},
	{"chart-3", "30 80% 55%"},
	{"chart-4", "280 65% 60%"},
	{"chart-5", "340 75% 55%"},
	{"radius", "0.5rem"},
}

var themes = map[string]Theme{
	"default": {Name: "default", Vars: light},
	"dark":    {Name: "dark", Vars: dark},
	"blue": {Name: "blue", Vars: override(light, map[string]string{
		"primary": "221.2 83.2% 53.3%",
		"ring":    "221.2 83.2% 53.3%",
	})},
	"green": {Name: "green", Vars: override(light, map[string]string{
		"primary":            "142.1 76.2% 36.3%",
		"primary-foreground": "355.7 100% 97.3%",
		"ring":               "142.1 76.2% 36.3%",
	})},
	"purple": {Name: "purple", Vars: override(light, map[string]string{
		"primary": "262.1 83.3% 57.8%",
		"ring":    "262.1 83.3% 57.8%",
	})},
}

func override(base []Var, values map[string]string) []Var {
	out := slices.Clone(base)
	for i, v := range out {
		if nv, ok := values[v.Name]; ok {
			out[i].Value = nv
		}
	}
	return out
}

// Get returns the named theme, or the default theme for unknown names.
func Get(name string) Theme {
	if t, ok := themes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t
	}
	return themes[Default]
}

// Exists reports whether name is a known theme.
func Exists(name string) bool {
	_, ok := themes[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Names lists the known themes, sorted.
func Names() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Declarations renders the variables as indented CSS declarations.
func (t Theme) Declarations(indent string) string {
	var b strings.Builder
	for _, v := range t.Vars {
		fmt.Fprintf(&b, "%s--%s: %s;\n", indent, v.Name, v.Value)
	}
	return b.String()
}

// CSS renders the named theme under :root and the dark palette under .dark.
func CSS(name string) string {
	return fmt.Sprintf(":root {\n%s}\n\n.dark {\n%s}\n",
		Get(name).Declarations("  "),
		themes["dark"].Declarations("  "))
}
