package main

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme holds the styles the editor draws with. Styles are lipgloss
// so the renderer can compose them without caring which palette is
// active.
type Theme struct {
	Name       string
	StatusBar  lipgloss.Style
	StatusKey  lipgloss.Style
	Symbol     lipgloss.Style
	Selected   lipgloss.Style
	Connection lipgloss.Style
	GripMarker lipgloss.Style
	Warning    lipgloss.Style
}

func lightTheme() *Theme {
	return &Theme{
		Name:       "light",
		StatusBar:  lipgloss.NewStyle().Background(lipgloss.Color("252")).Foreground(lipgloss.Color("235")),
		StatusKey:  lipgloss.NewStyle().Background(lipgloss.Color("252")).Foreground(lipgloss.Color("27")).Bold(true),
		Symbol:     lipgloss.NewStyle().Foreground(lipgloss.Color("235")),
		Selected:   lipgloss.NewStyle().Foreground(lipgloss.Color("27")).Bold(true),
		Connection: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		GripMarker: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		Warning:    lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true),
	}
}

func darkTheme() *Theme {
	return &Theme{
		Name:       "dark",
		StatusBar:  lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")),
		StatusKey:  lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("75")).Bold(true),
		Symbol:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Selected:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")).Bold(true),
		Connection: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		GripMarker: lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		Warning:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	}
}

// AppContext carries the shared editor state that isn't document
// content: the active theme plus change notification, so views
// restyle when the theme switches instead of reading a global.
type AppContext struct {
	theme       *Theme
	subscribers []func(*Theme)
}

func NewAppContext(themeName string) *AppContext {
	ctx := &AppContext{}
	ctx.SetTheme(themeName)
	return ctx
}

func (a *AppContext) Theme() *Theme {
	if a.theme == nil {
		a.theme = lightTheme()
	}
	return a.theme
}

// SetTheme switches palettes and notifies subscribers. Unknown names
// fall back to light.
func (a *AppContext) SetTheme(name string) {
	switch name {
	case "dark":
		a.theme = darkTheme()
	default:
		a.theme = lightTheme()
	}
	for _, fn := range a.subscribers {
		fn(a.theme)
	}
}

// ToggleTheme flips between the two palettes.
func (a *AppContext) ToggleTheme() {
	if a.Theme().Name == "dark" {
		a.SetTheme("light")
	} else {
		a.SetTheme("dark")
	}
}

// Subscribe registers a theme-change callback and invokes it once
// with the current theme.
func (a *AppContext) Subscribe(fn func(*Theme)) {
	a.subscribers = append(a.subscribers, fn)
	fn(a.Theme())
}
