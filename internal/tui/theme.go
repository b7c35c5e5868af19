package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, https://catppuccin.com/palette
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorMantle   lipgloss.Color = "#181825"
)

const (
	colorBrand    = colorPink
	colorFocus    = colorLavender
	colorSelected = colorMauve
	colorDragging = colorPeach
	colorSuccess  = colorGreen
	colorError    = colorRed
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	headerAppStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Padding(0, 2)

	statusErrStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Padding(0, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	helpKeyStyle  = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)
	helpDescStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	focusedPaneStyle = paneStyle.BorderForeground(colorFocus)

	paneTitleStyle        = lipgloss.NewStyle().Foreground(colorSubtext0).Bold(true)
	focusedPaneTitleStyle = lipgloss.NewStyle().Foreground(colorFocus).Bold(true)

	gripStyle     = lipgloss.NewStyle().Foreground(colorOverlay1)
	rowStyle      = lipgloss.NewStyle().Foreground(colorText)
	disabledStyle = lipgloss.NewStyle().Foreground(colorOverlay0)
	selectedStyle = lipgloss.NewStyle().
			Foreground(colorSelected).
			Background(colorSurface0).
			Bold(true)
	draggingStyle = lipgloss.NewStyle().
			Foreground(colorDragging).
			Background(colorSurface1).
			Bold(true)

	scrollStyle = lipgloss.NewStyle().Foreground(colorOverlay1)
)
