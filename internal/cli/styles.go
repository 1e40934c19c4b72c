package cli

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
	colorAccent  = lipgloss.Color("#7C3AED")
)

type styles struct {
	location lipgloss.Style
	fatal    lipgloss.Style
	warning  lipgloss.Style
	code     lipgloss.Style
	summary  lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{location: plain, fatal: plain, warning: plain, code: plain, summary: plain}
	}
	return styles{
		location: lipgloss.NewStyle().Bold(true),
		fatal:    lipgloss.NewStyle().Foreground(colorError).Bold(true),
		warning:  lipgloss.NewStyle().Foreground(colorWarning),
		code:     lipgloss.NewStyle().Foreground(colorAccent),
		summary:  lipgloss.NewStyle().Foreground(colorMuted).Italic(true),
	}
}

func colorEnabled(env Env, op *options) bool {
	if op.NoColor {
		return false
	}
	if env.Color != nil {
		return *env.Color
	}
	if v, ok := env.LookupEnv("NO_COLOR"); ok && v != "" {
		return false
	}
	f, ok := env.Stderr.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
