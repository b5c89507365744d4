package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rickgao/newsdesk/internal/model"
)

// palette holds the colours for one theme.
type palette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	dim       lipgloss.Color
	accent    lipgloss.Color
	border    lipgloss.Color
	statusBg  lipgloss.Color
	statusFg  lipgloss.Color
	green     lipgloss.Color
	red       lipgloss.Color
}

var (
	darkPalette = palette{
		primary:   lipgloss.Color("#7571F9"),
		secondary: lipgloss.Color("#ABABAB"),
		dim:       lipgloss.Color("#626262"),
		accent:    lipgloss.Color("#F25D94"),
		border:    lipgloss.Color("#383838"),
		statusBg:  lipgloss.Color("#16213E"),
		statusFg:  lipgloss.Color("#ABABAB"),
		green:     lipgloss.Color("#25D366"),
		red:       lipgloss.Color("#FF5F5F"),
	}

	lightPalette = palette{
		primary:   lipgloss.Color("#5A56E0"),
		secondary: lipgloss.Color("#3D3D3D"),
		dim:       lipgloss.Color("#9B9B9B"),
		accent:    lipgloss.Color("#D43F7A"),
		border:    lipgloss.Color("#DBDBDB"),
		statusBg:  lipgloss.Color("#E8E8E8"),
		statusFg:  lipgloss.Color("#3D3D3D"),
		green:     lipgloss.Color("#04B575"),
		red:       lipgloss.Color("#D70000"),
	}
)

// styles is the rendered style set for a theme.
type styles struct {
	header    lipgloss.Style
	headerDim lipgloss.Style
	card      lipgloss.Style
	title     lipgloss.Style
	source    lipgloss.Style
	body      lipgloss.Style
	link      lipgloss.Style
	dim       lipgloss.Style
	index     lipgloss.Style
	fact      lipgloss.Style
	user      lipgloss.Style
	err       lipgloss.Style
	toast     lipgloss.Style
	status    lipgloss.Style
	prompt    lipgloss.Style
	spinner   lipgloss.Style
	real      lipgloss.Style
	fake      lipgloss.Style
	liked     lipgloss.Style
	disliked  lipgloss.Style
	help      lipgloss.Style
}

func newStyles(theme model.Theme) styles {
	p := darkPalette
	if theme == model.ThemeLight {
		p = lightPalette
	}

	return styles{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.primary).
			PaddingLeft(1),

		headerDim: lipgloss.NewStyle().
			Foreground(p.dim),

		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),

		title: lipgloss.NewStyle().
			Foreground(p.primary).
			Bold(true),

		source: lipgloss.NewStyle().
			Foreground(p.green),

		body: lipgloss.NewStyle().
			Foreground(p.secondary),

		link: lipgloss.NewStyle().
			Foreground(p.dim).
			Italic(true),

		dim: lipgloss.NewStyle().
			Foreground(p.dim),

		index: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),

		fact: lipgloss.NewStyle().
			Foreground(p.primary).
			Italic(true),

		user: lipgloss.NewStyle().
			Foreground(p.secondary).
			Bold(true),

		err: lipgloss.NewStyle().
			Foreground(p.red).
			Bold(true),

		toast: lipgloss.NewStyle().
			Foreground(p.green).
			Bold(true),

		status: lipgloss.NewStyle().
			Background(p.statusBg).
			Foreground(p.statusFg).
			PaddingLeft(1).
			PaddingRight(1),

		prompt: lipgloss.NewStyle().
			Foreground(p.accent).
			Bold(true),

		spinner: lipgloss.NewStyle().
			Foreground(p.accent),

		real: lipgloss.NewStyle().
			Foreground(p.green).
			Bold(true),

		fake: lipgloss.NewStyle().
			Foreground(p.red).
			Bold(true),

		liked: lipgloss.NewStyle().
			Foreground(p.green),

		disliked: lipgloss.NewStyle().
			Foreground(p.red),

		help: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.primary).
			Padding(1, 2),
	}
}

// verdictStyle colours a verdict green when real, red otherwise.
func (s styles) verdictStyle(v model.Verdict) lipgloss.Style {
	if v.IsReal() {
		return s.real
	}
	return s.fake
}
