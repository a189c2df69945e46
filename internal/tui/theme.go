package tui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted      = ac("240", "243")
	colorSelectedBg = ac("#e9e9e9", "#262626")
	colorSelectedFg = ac("235", "255")
	colorGroup      = ac("25", "75")
	colorDragBg     = ac("#fff3c4", "#3d3300")
	colorError      = ac("160", "203")
	colorOK         = ac("28", "114")
	colorPending    = ac("136", "221")
	colorInputBg    = ac("254", "236")
)

var (
	styleTitle    = lipgloss.NewStyle().Bold(true)
	styleGroup    = lipgloss.NewStyle().Bold(true).Foreground(colorGroup)
	styleSelected = lipgloss.NewStyle().Background(colorSelectedBg).Foreground(colorSelectedFg)
	styleDragged  = lipgloss.NewStyle().Background(colorDragBg).Bold(true)
	styleError    = lipgloss.NewStyle().Foreground(colorError)
	styleInput    = lipgloss.NewStyle().Background(colorInputBg)
)

func styleMuted() lipgloss.Style {
	st := lipgloss.NewStyle().Foreground(colorMuted)
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

// applyColorProfilePreference honors NO_COLOR and otherwise follows the terminal, trusting
// COLORTERM/TERM when the detector under-reports.
func applyColorProfilePreference() {
	if strings.TrimSpace(os.Getenv("NO_COLOR")) != "" {
		lipgloss.SetColorProfile(termenv.Ascii)
		return
	}
	profile := termenv.ColorProfile()
	term := strings.ToLower(os.Getenv("TERM"))
	colorterm := strings.ToLower(os.Getenv("COLORTERM"))
	switch {
	case strings.Contains(colorterm, "truecolor") || strings.Contains(colorterm, "24bit"):
		if profile != termenv.Ascii {
			profile = termenv.TrueColor
		}
	case strings.Contains(term, "256color"):
		if profile == termenv.Ascii || profile == termenv.ANSI {
			profile = termenv.ANSI256
		}
	}
	lipgloss.SetColorProfile(profile)
}

// applyThemePreference sets background detection from NAMEBOARD_THEME=light|dark, then the
// COLORFGBG heuristic. Probing the terminal is avoided; it can block.
func applyThemePreference() {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("NAMEBOARD_THEME"))) {
	case "light":
		lipgloss.SetHasDarkBackground(false)
		return
	case "dark":
		lipgloss.SetHasDarkBackground(true)
		return
	}
	if v := strings.TrimSpace(os.Getenv("COLORFGBG")); v != "" {
		parts := strings.Split(v, ";")
		if bg, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			lipgloss.SetHasDarkBackground(bg < 7)
		}
	}
}
