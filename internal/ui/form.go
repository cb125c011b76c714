package ui

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/task"
)

const (
	fieldTitle = iota
	fieldDue
	fieldCategory
	fieldPriority
)

var errNoCategory = errors.New("category does not exist")

func taskFields() []string {
	return []string{"title", "due date (YYYY-MM-DD)", "category", "priority (1-3)"}
}

// taskForm edits a new task when taskID is zero, an existing one otherwise.
type taskForm struct {
	taskID int64
	values []string
	index  int
}

func (f *taskForm) currentLabel() string {
	return taskFields()[f.index]
}

// parse validates the form. The store accepts anything, so this is the
// only place titles, dates, categories and priorities are checked.
func (f *taskForm) parse(categories []task.Category) (task.Draft, error) {
	title := strings.TrimSpace(f.values[fieldTitle])
	if title == "" {
		return task.Draft{}, errors.New("title cannot be empty")
	}
	due, err := task.ParseDate(f.values[fieldDue])
	if err != nil {
		return task.Draft{}, fmt.Errorf("due date invalid: %w", err)
	}
	category := strings.TrimSpace(f.values[fieldCategory])
	if !slices.ContainsFunc(categories, func(c task.Category) bool { return c.Name == category }) {
		return task.Draft{}, fmt.Errorf("%w: %q", errNoCategory, category)
	}
	priority, err := parsePriority(f.values[fieldPriority])
	if err != nil {
		return task.Draft{}, err
	}
	return task.Draft{Title: title, DueDate: due, Category: category, Priority: priority}, nil
}

func parsePriority(v string) (task.Priority, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return task.PriorityMedium, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < int(task.PriorityLow) || n > int(task.PriorityHigh) {
		return 0, fmt.Errorf("priority must be 1, 2 or 3, got %q", v)
	}
	return task.Priority(n), nil
}

func (m Model) startTaskForm(t *task.Task) Model {
	f := &taskForm{values: make([]string, len(taskFields()))}
	if t != nil {
		f.taskID = t.ID
		f.values[fieldTitle] = t.Title
		f.values[fieldDue] = t.DueDate.String()
		f.values[fieldCategory] = t.Category
		f.values[fieldPriority] = strconv.Itoa(int(t.Priority))
		m.status = "Editing task: tab to move, enter to save/next, esc to cancel"
	} else {
		f.values[fieldCategory] = defaultCategory(m.store.ActiveCategory(), m.store.Categories())
		f.values[fieldPriority] = strconv.Itoa(int(task.PriorityMedium))
		m.status = "New task: tab to move, enter to save/next, esc to cancel"
	}
	m.form = f
	m.mode = modeTaskForm
	m.loadField(f.values[f.index], f.currentLabel())
	return m
}

// startTaskFormOn opens a new task already due on d.
func (m Model) startTaskFormOn(d task.Date) Model {
	m = m.startTaskForm(nil)
	m.form.values[fieldDue] = d.String()
	m.status = "New task due " + formatDate(d) + ": tab to move, enter to save/next, esc to cancel"
	return m
}

// defaultCategory preselects the filtered category, else the first one.
func defaultCategory(active string, categories []task.Category) string {
	if active != task.AllCategories {
		return active
	}
	if len(categories) > 0 {
		return categories[0].Name
	}
	return ""
}

func (m *Model) loadField(value, label string) {
	m.input.SetValue(value)
	m.input.Placeholder = label
	m.input.CursorEnd()
	m.input.Focus()
}

func (m Model) updateTaskForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	f := m.form
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.form = nil
		m.mode = modeBrowse
		m.input.Blur()
		m.status = "Edit cancelled"
		return m, nil
	case msg.String() == "tab" || msg.String() == "down":
		f.values[f.index] = m.input.Value()
		f.index = wrapIndex(f.index+1, len(f.values))
		m.loadField(f.values[f.index], f.currentLabel())
		return m, nil
	case msg.String() == "shift+tab" || msg.String() == "up":
		f.values[f.index] = m.input.Value()
		f.index = wrapIndex(f.index-1, len(f.values))
		m.loadField(f.values[f.index], f.currentLabel())
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		f.values[f.index] = m.input.Value()
		if f.index < len(f.values)-1 {
			f.index++
			m.loadField(f.values[f.index], f.currentLabel())
			return m, nil
		}
		return m.saveTaskForm(), nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveTaskForm() Model {
	f := m.form
	d, err := f.parse(m.store.Categories())
	if err != nil {
		m.status = err.Error()
		return m
	}

	id := f.taskID
	if id == 0 {
		added, err := m.store.Add(d)
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m
		}
		id = added.ID
		m.status = "Added task"
	} else {
		err := m.store.Update(id, task.Patch{
			Title:    &d.Title,
			DueDate:  &d.DueDate,
			Category: &d.Category,
			Priority: &d.Priority,
		})
		if err != nil {
			m.status = fmt.Sprintf("save failed: %v", err)
			return m
		}
		m.status = "Task saved"
	}

	m.form = nil
	m.mode = modeBrowse
	m.input.Blur()
	m.refresh()
	m.follow(id)
	return m
}

func categoryFields() []string {
	return []string{"name", "color (" + colorNames() + ")"}
}

func colorNames() string {
	names := make([]string, len(task.Colors))
	for i, c := range task.Colors {
		names[i] = string(c)
	}
	return strings.Join(names, "/")
}

// categoryForm adds a category when old is empty and renames old otherwise.
type categoryForm struct {
	old    string
	values []string
	index  int
}

func (f *categoryForm) currentLabel() string {
	return categoryFields()[f.index]
}

func (m Model) startCategoryForm(c *task.Category) Model {
	f := &categoryForm{values: make([]string, len(categoryFields()))}
	if c != nil {
		f.old = c.Name
		f.values[0] = c.Name
		f.values[1] = string(c.Color)
		m.status = "Editing category " + c.Name
	} else {
		f.values[1] = string(task.ColorBlue)
		m.status = "New category"
	}
	m.catForm = f
	m.mode = modeCategoryForm
	m.loadField(f.values[f.index], f.currentLabel())
	return m
}

func (m Model) updateCategoryForm(msg tea.KeyMsg) (Model, tea.Cmd) {
	f := m.catForm
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.catForm = nil
		m.mode = modeBrowse
		m.input.Blur()
		m.status = "Edit cancelled"
		return m, nil
	case msg.String() == "tab" || msg.String() == "shift+tab" || msg.String() == "up" || msg.String() == "down":
		f.values[f.index] = m.input.Value()
		f.index = wrapIndex(f.index+1, len(f.values))
		m.loadField(f.values[f.index], f.currentLabel())
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		f.values[f.index] = m.input.Value()
		if f.index < len(f.values)-1 {
			f.index++
			m.loadField(f.values[f.index], f.currentLabel())
			return m, nil
		}
		return m.saveCategoryForm(), nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) saveCategoryForm() Model {
	f := m.catForm
	color, err := task.ParseColor(f.values[1])
	if err != nil {
		m.status = err.Error()
		return m
	}
	name := strings.TrimSpace(f.values[0])
	if f.old == "" {
		err = m.store.AddCategory(name, color)
	} else {
		err = m.store.RenameCategory(f.old, name, color)
	}
	if err != nil {
		m.status = fmt.Sprintf("category not saved: %v", err)
		return m
	}
	if f.old == "" {
		m.status = "Added category " + name
	} else {
		m.status = "Saved category " + name
	}
	m.catForm = nil
	m.mode = modeBrowse
	m.input.Blur()
	return m
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}
