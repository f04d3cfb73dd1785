package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Element         *lipgloss.Style
	ElementHover    *lipgloss.Style
	ElementFocus    *lipgloss.Style
	ElementArmed    *lipgloss.Style
	ElementDisabled *lipgloss.Style
	Clone           *lipgloss.Style
	SubMarker       *lipgloss.Style
	PanelTitle      *lipgloss.Style
	ReturnZone      *lipgloss.Style
	Tooltip         *lipgloss.Style
	Error           *lipgloss.Style
	Info            *lipgloss.Style
	Header          *lipgloss.Style
	Footer          *lipgloss.Style
	Hint            *lipgloss.Style
}

var defaultStyles = Styles{
	Element: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")).Background(lipgloss.Color("236")),
	),
	ElementHover: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	ElementFocus: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("33")).Bold(true),
	),
	ElementArmed: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Bold(true),
	),
	ElementDisabled: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Background(lipgloss.Color("235")),
	),
	Clone: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Background(lipgloss.Color("234")).Italic(true),
	),
	SubMarker: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	),
	PanelTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	ReturnZone: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	Tooltip: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Italic(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Hint: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
