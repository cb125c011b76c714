package ui

import (
	"errors"
	"slices"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/config"
	"taskdeck/internal/storage"
	"taskdeck/internal/task"
)

var fixedNow = time.Date(2024, time.March, 15, 10, 0, 0, 0, time.Local)

type memThemes struct {
	theme storage.Theme
	err   error
}

func (t *memThemes) Theme() (storage.Theme, error) { return t.theme, nil }

func (t *memThemes) SetTheme(theme storage.Theme) error {
	if t.err != nil {
		return t.err
	}
	t.theme = theme
	return nil
}

func newTestModel(t *testing.T, tasks ...task.Task) (Model, *task.Store, *memThemes) {
	t.Helper()
	store := task.NewStore(task.State{Tasks: tasks}, task.WithClock(func() time.Time { return fixedNow }))
	themes := &memThemes{theme: storage.ThemeLight}
	m, unsubscribe := New(store, themes, config.Default(), nil)
	t.Cleanup(unsubscribe)
	return m, store, themes
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "ctrl+u":
		return tea.KeyMsg{Type: tea.KeyCtrlU}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		m = updated.(Model)
	}
	return m
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = press(t, m, string(r))
	}
	return m
}

func sample() []task.Task {
	return []task.Task{
		{ID: 1, Title: "Pay rent", Category: "Personal", Priority: task.PriorityHigh, DueDate: task.NewDate(2024, time.March, 10)},
		{ID: 2, Title: "Ship release", Category: "Work", Priority: task.PriorityMedium, DueDate: task.NewDate(2024, time.March, 15)},
		{ID: 3, Title: "Read book", Category: "Personal", Priority: task.PriorityLow},
	}
}

func TestViewListsTasks(t *testing.T) {
	m, _, _ := newTestModel(t, sample()...)
	out := m.View()

	assert.Contains(t, out, "Pay rent")
	assert.Contains(t, out, "Overdue")
	assert.Contains(t, out, "Due today")
	assert.Contains(t, out, "No due date")
	assert.Contains(t, out, "10 Mar 2024")
	assert.Contains(t, out, "#Work")
}

func TestViewEmpty(t *testing.T) {
	m, _, _ := newTestModel(t)
	assert.Contains(t, m.View(), "No tasks yet")
	assert.Contains(t, m.View(), "No task selected")
}

func TestAddTaskThroughForm(t *testing.T) {
	m, store, _ := newTestModel(t, sample()...)

	m = press(t, m, "a")
	require.Equal(t, modeTaskForm, m.mode)
	m = typeText(t, m, "Buy milk")
	m = press(t, m, "enter")
	m = typeText(t, m, "2024-03-20")
	m = press(t, m, "enter", "enter", "enter")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "Added task", m.status)
	require.Len(t, store.Tasks(), 4)

	selected, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, "Buy milk", selected.Title)
	assert.Equal(t, task.NewDate(2024, time.March, 20), selected.DueDate)
	assert.Equal(t, "Personal", selected.Category)
	assert.Equal(t, task.PriorityMedium, selected.Priority)
	assert.False(t, selected.Completed)
}

func TestAddTaskValidation(t *testing.T) {
	m, store, _ := newTestModel(t)

	m = press(t, m, "a", "enter", "enter", "enter", "enter")
	assert.Equal(t, modeTaskForm, m.mode)
	assert.Equal(t, "title cannot be empty", m.status)

	m = press(t, m, "esc")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Empty(t, store.Tasks())
}

func TestTaskFormRejectsBadFields(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   string
	}{
		{"bad date", []string{"x", "tomorrow", "Work", "1"}, "due date invalid"},
		{"unknown category", []string{"x", "", "Gym", "1"}, "category does not exist"},
		{"priority out of range", []string{"x", "", "Work", "4"}, "priority must be 1, 2 or 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &taskForm{values: tt.values}
			_, err := f.parse(task.DefaultCategories())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEditTask(t *testing.T) {
	m, store, _ := newTestModel(t, sample()...)
	first, _ := m.selected()

	m = press(t, m, "e", "ctrl+u")
	m = typeText(t, m, "Pay rent today")
	m = press(t, m, "enter", "enter", "enter", "enter")

	assert.Equal(t, "Task saved", m.status)
	got, ok := store.Task(first.ID)
	require.True(t, ok)
	assert.Equal(t, "Pay rent today", got.Title)
	assert.Equal(t, first.DueDate, got.DueDate)
}

func TestToggleAndDelete(t *testing.T) {
	m, store, _ := newTestModel(t, sample()...)
	first, _ := m.selected()

	m = press(t, m, " ")
	got, _ := store.Task(first.ID)
	assert.True(t, got.Completed)
	last := m.tasks[len(m.tasks)-1]
	assert.Equal(t, first.ID, last.ID, "completed task sinks to the bottom")

	m = press(t, m, "d")
	assert.Equal(t, modeConfirmDelete, m.mode)
	m = press(t, m, "n")
	assert.Len(t, store.Tasks(), 3)

	m = press(t, m, "d", "y")
	assert.Equal(t, "Deleted task", m.status)
	assert.Len(t, store.Tasks(), 2)
	assert.Len(t, m.tasks, 2)
}

func TestSortKeys(t *testing.T) {
	m, store, _ := newTestModel(t, sample()...)

	m = press(t, m, "s")
	assert.Equal(t, task.ByDate, store.Criterion())
	m = press(t, m, "r")
	assert.Equal(t, task.Descending, store.Direction())
	m = press(t, m, "s", "s")
	assert.Equal(t, task.ByPriority, store.Criterion())
	assert.Contains(t, m.status, "priority")
}

func TestCategoryFilterCycle(t *testing.T) {
	m, store, _ := newTestModel(t, sample()...)

	m = press(t, m, "c")
	assert.Equal(t, "Personal", store.ActiveCategory())
	assert.Len(t, m.tasks, 2)

	m = press(t, m, "c")
	assert.Equal(t, "Work", store.ActiveCategory())
	assert.Len(t, m.tasks, 1)

	m = press(t, m, "c")
	assert.Equal(t, task.AllCategories, store.ActiveCategory())
	assert.Len(t, m.tasks, 3)
}

func TestRenameCategory(t *testing.T) {
	m, store, _ := newTestModel(t, sample()...)

	m = press(t, m, "E")
	assert.Equal(t, modeBrowse, m.mode, "editing needs an active category")

	m = press(t, m, "c", "c", "E", "ctrl+u")
	m = typeText(t, m, "Office")
	m = press(t, m, "enter", "enter")

	assert.Equal(t, "Saved category Office", m.status)
	assert.Equal(t, "Office", store.ActiveCategory())
	require.Len(t, m.tasks, 1)
	assert.Equal(t, "Office", m.tasks[0].Category)
}

func TestAddCategory(t *testing.T) {
	m, store, _ := newTestModel(t)

	m = press(t, m, "C")
	m = typeText(t, m, "Errands")
	m = press(t, m, "enter", "ctrl+u")
	m = typeText(t, m, "purple")
	m = press(t, m, "enter")

	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, task.ColorPurple, store.CategoryColor("Errands"))

	m = press(t, m, "C")
	m = typeText(t, m, "Errands")
	m = press(t, m, "enter", "enter")
	assert.Equal(t, modeCategoryForm, m.mode)
	assert.Contains(t, m.status, "category already exists")

	m = press(t, m, "esc", "C")
	m = typeText(t, m, "all")
	m = press(t, m, "enter", "enter")
	assert.Equal(t, modeCategoryForm, m.mode)
	assert.Equal(t, "category not saved: category name is reserved", m.status)
}

func TestCalendarMoveTask(t *testing.T) {
	m, store, _ := newTestModel(t, sample()...)

	m = press(t, m, "v")
	require.Equal(t, viewCalendar, m.view)
	assert.Contains(t, m.View(), "March 2024")

	m = press(t, m, "m")
	assert.Equal(t, int64(2), m.moving, "picks up the focused day's task")
	assert.Contains(t, m.View(), "Moving: Ship release")

	m = press(t, m, "l", "l", "j")
	assert.Equal(t, task.NewDate(2024, time.March, 24), m.dayFocus)

	m = press(t, m, "m")
	assert.Zero(t, m.moving)
	got, _ := store.Task(2)
	assert.Equal(t, task.NewDate(2024, time.March, 24), got.DueDate)
	assert.Contains(t, m.View(), "Ship release")
}

func TestCalendarMoveFromList(t *testing.T) {
	m, store, _ := newTestModel(t, sample()...)
	first, _ := m.selected()

	m = press(t, m, "v", "l", "m")
	assert.Equal(t, first.ID, m.moving, "an empty day falls back to the list selection")
	m = press(t, m, "m")
	got, _ := store.Task(first.ID)
	assert.Equal(t, task.NewDate(2024, time.March, 16), got.DueDate)

	m = press(t, m, "m", "esc")
	assert.Zero(t, m.moving)
	assert.Equal(t, "Move cancelled", m.status)
}

func TestCalendarAddOnFocusedDay(t *testing.T) {
	m, store, _ := newTestModel(t, sample()...)

	m = press(t, m, "v", "l", "l", "a")
	require.Equal(t, modeTaskForm, m.mode)
	assert.Equal(t, "2024-03-17", m.form.values[fieldDue])

	m = typeText(t, m, "Picnic")
	m = press(t, m, "enter", "enter", "enter", "enter")

	assert.Equal(t, "Added task", m.status)
	day := store.TasksForDate(task.NewDate(2024, time.March, 17))
	require.Len(t, day, 1)
	assert.Equal(t, "Picnic", day[0].Title)
	assert.Contains(t, m.View(), "Picnic")
}

func TestCalendarEditToggleDelete(t *testing.T) {
	tasks := append(sample(), task.Task{ID: 4, Title: "Demo", Category: "Work", Priority: task.PriorityLow, DueDate: task.NewDate(2024, time.March, 15)})
	m, store, _ := newTestModel(t, tasks...)

	m = press(t, m, "v")
	first, ok := m.selectedDayTask()
	require.True(t, ok)
	m = press(t, m, "tab")
	second, _ := m.selectedDayTask()
	assert.NotEqual(t, first.ID, second.ID)
	m = press(t, m, "shift+tab")
	back, _ := m.selectedDayTask()
	assert.Equal(t, first.ID, back.ID)

	m.dayCursor = dayIndex(m, 4)
	m = press(t, m, " ")
	got, _ := store.Task(4)
	assert.True(t, got.Completed)
	assert.Equal(t, 1, dayIndex(m, 4), "completed tasks sink within the day")

	m.dayCursor = dayIndex(m, 4)
	m = press(t, m, "e")
	require.Equal(t, modeTaskForm, m.mode)
	assert.Equal(t, "Demo", m.input.Value())
	m = press(t, m, "esc")

	m = press(t, m, "d")
	require.Equal(t, modeConfirmDelete, m.mode)
	m = press(t, m, "y")
	_, ok = store.Task(4)
	assert.False(t, ok)
	assert.Len(t, store.Tasks(), 3)

	m = press(t, m, "l", "e")
	assert.Equal(t, modeBrowse, m.mode)
	assert.Equal(t, "Nothing due on 16 Mar 2024", m.status)
}

func TestCalendarMonthNavigation(t *testing.T) {
	m, _, _ := newTestModel(t)
	m = press(t, m, "v", "]")
	assert.Equal(t, time.April, m.month.Month())
	assert.Equal(t, task.NewDate(2024, time.April, 15), m.dayFocus)

	m = press(t, m, "[", "[")
	assert.Equal(t, time.February, m.month.Month())

	m = press(t, m, "k", "k", "k")
	assert.Equal(t, time.January, m.month.Month(), "focus drags the month along")
}

func TestCalendarVisibility(t *testing.T) {
	m, store, _ := newTestModel(t, sample()...)
	m = press(t, m, "v", "x")
	assert.Contains(t, m.status, "Select a category")

	m = press(t, m, "c", "c", "x")
	assert.False(t, store.IsVisible("Work"))
	assert.Empty(t, store.TasksForDate(task.NewDate(2024, time.March, 15)))

	m = press(t, m, "X")
	assert.True(t, store.AllVisible())
	m = press(t, m, "X")
	assert.False(t, store.IsVisible("Personal"))
}

func TestThemeToggle(t *testing.T) {
	m, _, themes := newTestModel(t)

	m = press(t, m, "t")
	assert.Equal(t, storage.ThemeDark, themes.theme)
	assert.Equal(t, storage.ThemeDark, m.theme)

	themes.err = errors.New("locked")
	m = press(t, m, "t")
	assert.Contains(t, m.status, "save theme failed")
}

func TestQuit(t *testing.T) {
	m, _, _ := newTestModel(t)
	_, cmd := m.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestStoreChangesRefreshModel(t *testing.T) {
	m, store, _ := newTestModel(t, sample()...)
	_, err := store.Add(task.Draft{Title: "external", Category: "Work", Priority: task.PriorityLow})
	require.NoError(t, err)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(Model)
	assert.Len(t, m.tasks, 4)
}

func dayIndex(m Model, id int64) int {
	return slices.IndexFunc(m.dayTasks(), func(t task.Task) bool { return t.ID == id })
}

func TestNewWithoutLoggerStaysQuiet(t *testing.T) {
	store := task.NewStore(task.State{}, task.WithClock(func() time.Time { return fixedNow }))
	m, unsubscribe := New(store, &memThemes{theme: storage.ThemeLight}, config.Default(), nil)
	defer unsubscribe()

	require.NotNil(t, m.logger)
	assert.NotSame(t, log.Default(), m.logger)
}

func TestNextCategory(t *testing.T) {
	cats := task.DefaultCategories()
	assert.Equal(t, "Personal", nextCategory(task.AllCategories, cats))
	assert.Equal(t, "Work", nextCategory("Personal", cats))
	assert.Equal(t, task.AllCategories, nextCategory("Work", cats))
	assert.Equal(t, task.AllCategories, nextCategory("Gone", cats))
	assert.Equal(t, task.AllCategories, nextCategory("Personal", nil))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "No due date", formatDate(task.Date{}))
	assert.Equal(t, "5 Mar 2024", formatDate(task.NewDate(2024, time.March, 5)))
}
