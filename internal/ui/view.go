package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"taskdeck/internal/task"
)

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Taskdeck"))
	b.WriteString(m.styles.muted.Render(fmt.Sprintf("  [%s] sort:%s %s", m.store.ActiveCategory(), m.store.Criterion(), m.store.Direction())))
	b.WriteString("\n\n")

	if m.view == viewCalendar {
		b.WriteString(m.renderCalendar())
	} else if len(m.tasks) == 0 {
		b.WriteString(fmt.Sprintf("No tasks yet. Press '%s' to add one.\n", m.cfg.Keys.Add))
	} else {
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n---\n")

	switch m.mode {
	case modeTaskForm:
		b.WriteString(m.renderForm(taskFields(), m.form.values, m.form.index))
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case modeCategoryForm:
		b.WriteString(m.renderForm(categoryFields(), m.catForm.values, m.catForm.index))
		b.WriteString("\n")
		b.WriteString(m.input.View())
	default:
		b.WriteString(m.renderDetail())
	}

	b.WriteString("\n\n")
	b.WriteString(m.styles.status.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.renderHelp())

	return b.String()
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, t := range m.tasks {
		cursor := " "
		if m.cursor == i && m.mode == modeBrowse {
			cursor = ">"
		}
		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}

		title := t.Title
		switch {
		case t.Completed:
			title = m.styles.done.Render(title)
		case m.cursor == i:
			title = m.styles.selected.Render(title)
		}

		line := fmt.Sprintf("%s %s %s %s  %s  %s", cursor, checkbox, priorityMark(t.Priority), title,
			m.styles.forCategory(m.store.CategoryColor(t.Category)).Render("#"+t.Category),
			m.styles.muted.Render(formatDate(t.DueDate)))
		if st := m.store.Status(t); st != task.StatusNone {
			line += "  " + m.styles.forStatus(st).Render(st.Label())
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCalendar() string {
	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.month.Format("January 2006")))
	b.WriteString("\n")
	for _, d := range weekdays {
		b.WriteString(fmt.Sprintf("%-7s", d))
	}
	b.WriteString("\n")

	today := m.store.Today()
	days := m.store.Month(m.month.Year(), m.month.Month())
	for i, day := range days {
		cell := fmt.Sprintf("%2d", day.Date.Day)
		if n := len(day.Tasks); n > 0 {
			cell += fmt.Sprintf("·%d", n)
		}
		cell = fmt.Sprintf("%-5s", cell)
		switch {
		case day.Date == m.dayFocus:
			cell = m.styles.focused.Render(cell)
		case day.Date == today:
			cell = m.styles.today.Render(cell)
		case day.Outside:
			cell = m.styles.outside.Render(cell)
		case hasStatus(m.store, day.Tasks, task.StatusOverdue):
			cell = m.styles.overdue.Render(cell)
		}
		b.WriteString(cell + "  ")
		if i%7 == 6 {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.title.Render(formatDate(m.dayFocus)))
	b.WriteString("\n")
	dayTasks := m.dayTasks()
	if len(dayTasks) == 0 {
		b.WriteString(m.styles.muted.Render(fmt.Sprintf("Nothing due. Press '%s' to add a task here.", m.cfg.Keys.Add)))
		b.WriteString("\n")
	}
	for i, t := range dayTasks {
		cursor := " "
		if i == clampCursor(m.dayCursor, len(dayTasks)) && m.mode == modeBrowse {
			cursor = ">"
		}
		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}
		line := fmt.Sprintf("%s %s %s %s", cursor, checkbox, t.Title,
			m.styles.forCategory(m.store.CategoryColor(t.Category)).Render("#"+t.Category))
		if st := m.store.Status(t); st != task.StatusNone {
			line += "  " + m.styles.forStatus(st).Render(st.Label())
		}
		b.WriteString(line + "\n")
	}

	if t, ok := m.store.Task(m.moving); ok && m.moving != 0 {
		b.WriteString(m.styles.title.Render("Moving: " + t.Title))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderCategoryToggles())
	return b.String()
}

func (m Model) renderCategoryToggles() string {
	var parts []string
	all := "[ ]"
	if m.store.AllVisible() {
		all = "[x]"
	}
	parts = append(parts, all+" all")
	for _, c := range m.store.Categories() {
		box := "[ ]"
		if m.store.IsVisible(c.Name) {
			box = "[x]"
		}
		parts = append(parts, box+" "+m.styles.forCategory(c.Color).Render(c.Name))
	}
	return strings.Join(parts, "  ")
}

func hasStatus(store *task.Store, tasks []task.Task, st task.Status) bool {
	for _, t := range tasks {
		if store.Status(t) == st {
			return true
		}
	}
	return false
}

func (m Model) renderForm(fields, values []string, index int) string {
	var b strings.Builder
	for i, name := range fields {
		prefix := " "
		if i == index {
			prefix = ">"
		}
		val := values[i]
		if i == index {
			val = m.input.Value()
		}
		b.WriteString(fmt.Sprintf("%s %-22s : %s\n", prefix, name, emptyPlaceholder(val)))
	}
	b.WriteString("Field: " + fields[index])
	return b.String()
}

func (m Model) renderDetail() string {
	if m.mode == modeConfirmDelete {
		return "Confirm delete"
	}
	t, ok := m.selected()
	if !ok {
		return "No task selected"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Task #%d • %s • %s\n", t.ID, emptyPlaceholder(t.Title), humanDone(t.Completed)))
	b.WriteString(fmt.Sprintf("Category  : %s\n", emptyPlaceholder(t.Category)))
	b.WriteString(fmt.Sprintf("Priority  : %s\n", t.Priority))
	b.WriteString(fmt.Sprintf("Due       : %s", formatDate(t.DueDate)))
	return b.String()
}

func (m Model) renderHelp() string {
	bindings := m.keys.listHelp()
	if m.view == viewCalendar {
		bindings = m.keys.calendarHelp()
	}
	if m.mode != modeBrowse {
		bindings = []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.muted.Render(strings.Join(parts, " • "))
}

func priorityMark(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return "!!!"
	case task.PriorityMedium:
		return "!! "
	case task.PriorityLow:
		return "!  "
	default:
		return "   "
	}
}

// formatDate renders a due date the way the list shows it, e.g. "5 Mar 2024".
func formatDate(d task.Date) string {
	if d.IsZero() {
		return "No due date"
	}
	return d.Time().Format("2 Jan 2006")
}
