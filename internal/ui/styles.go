package ui

import (
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/storage"
	"taskdeck/internal/task"
)

type styles struct {
	title    lipgloss.Style
	muted    lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
	overdue  lipgloss.Style
	dueToday lipgloss.Style
	outside  lipgloss.Style
	today    lipgloss.Style
	focused  lipgloss.Style
	status   lipgloss.Style
	category map[task.Color]lipgloss.Style
}

var palette = map[storage.Theme]map[task.Color]string{
	storage.ThemeLight: {
		task.ColorBlue:   "#1d4ed8",
		task.ColorGreen:  "#15803d",
		task.ColorRed:    "#b91c1c",
		task.ColorPurple: "#7e22ce",
		task.ColorOrange: "#c2410c",
		task.ColorYellow: "#a16207",
	},
	storage.ThemeDark: {
		task.ColorBlue:   "#60a5fa",
		task.ColorGreen:  "#4ade80",
		task.ColorRed:    "#f87171",
		task.ColorPurple: "#c084fc",
		task.ColorOrange: "#fb923c",
		task.ColorYellow: "#facc15",
	},
}

func newStyles(theme storage.Theme) styles {
	text, muted, accent := lipgloss.Color("#111827"), lipgloss.Color("#6b7280"), lipgloss.Color("#2563eb")
	if theme == storage.ThemeDark {
		text, muted, accent = lipgloss.Color("#f3f4f6"), lipgloss.Color("#9ca3af"), lipgloss.Color("#93c5fd")
	}
	colors := palette[theme]
	s := styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		muted:    lipgloss.NewStyle().Foreground(muted),
		selected: lipgloss.NewStyle().Bold(true).Foreground(text),
		done:     lipgloss.NewStyle().Strikethrough(true).Foreground(muted),
		overdue:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors[task.ColorRed])),
		dueToday: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(colors[task.ColorOrange])),
		outside:  lipgloss.NewStyle().Foreground(muted).Faint(true),
		today:    lipgloss.NewStyle().Bold(true).Underline(true).Foreground(accent),
		focused:  lipgloss.NewStyle().Reverse(true),
		status:   lipgloss.NewStyle().Foreground(text),
		category: make(map[task.Color]lipgloss.Style, len(colors)),
	}
	for c, hex := range colors {
		s.category[c] = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	}
	return s
}

func (s styles) forCategory(c task.Color) lipgloss.Style {
	if st, ok := s.category[c]; ok {
		return st
	}
	return s.category[task.ColorBlue]
}

func (s styles) forStatus(st task.Status) lipgloss.Style {
	switch st {
	case task.StatusOverdue:
		return s.overdue
	case task.StatusDueToday:
		return s.dueToday
	default:
		return s.muted
	}
}
