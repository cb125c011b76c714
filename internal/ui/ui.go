package ui

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"taskdeck/internal/config"
	"taskdeck/internal/storage"
	"taskdeck/internal/task"
)

type screen int

const (
	viewList screen = iota
	viewCalendar
)

type mode int

const (
	modeBrowse mode = iota
	modeTaskForm
	modeCategoryForm
	modeConfirmDelete
)

// ThemeStore keeps the light/dark preference between runs.
type ThemeStore interface {
	Theme() (storage.Theme, error)
	SetTheme(storage.Theme) error
}

// changeQueue collects store notifications between updates. It is shared
// by every copy of the model.
type changeQueue struct {
	pending []task.Change
}

func (q *changeQueue) push(c task.Change) {
	q.pending = append(q.pending, c)
}

func (q *changeQueue) drain() bool {
	had := len(q.pending) > 0
	q.pending = q.pending[:0]
	return had
}

type Model struct {
	store   *task.Store
	themes  ThemeStore
	cfg     config.Config
	keys    keyMap
	logger  *log.Logger
	changes *changeQueue

	view   screen
	mode   mode
	tasks  []task.Task
	cursor int

	month     time.Time
	dayFocus  task.Date
	dayCursor int
	// moving is the task picked up in the calendar, zero when none.
	moving int64

	input      textinput.Model
	form       *taskForm
	catForm    *categoryForm
	pendingDel *task.Task

	theme  storage.Theme
	styles styles
	status string
}

// New builds the model and subscribes it to store changes. Call the
// returned func to unsubscribe once the program exits.
func New(store *task.Store, themes ThemeStore, cfg config.Config, logger *log.Logger) (Model, func()) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	theme, err := themes.Theme()
	if err != nil {
		logger.Warn("read theme", "err", err)
	}

	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	today := store.Today()
	m := Model{
		store:    store,
		themes:   themes,
		cfg:      cfg,
		keys:     newKeyMap(cfg.Keys),
		logger:   logger,
		changes:  &changeQueue{},
		view:     viewList,
		mode:     modeBrowse,
		month:    time.Date(today.Year, today.Month, 1, 0, 0, 0, 0, time.Local),
		dayFocus: today,
		input:    ti,
		theme:    theme,
		styles:   newStyles(theme),
		status:   fmt.Sprintf("Press '%s' to add, '%s' to toggle, '%s' to delete.", cfg.Keys.Add, keyLabel(cfg.Keys.Toggle), cfg.Keys.Delete),
	}
	m.refresh()
	unsubscribe := store.Subscribe(m.changes.push)
	return m, unsubscribe
}

// Run starts the terminal program and blocks until the user quits.
func Run(store *task.Store, themes ThemeStore, cfg config.Config, logger *log.Logger) error {
	m, unsubscribe := New(store, themes, cfg, logger)
	defer unsubscribe()

	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeTaskForm:
			m, cmd = m.updateTaskForm(msg)
		case modeCategoryForm:
			m, cmd = m.updateCategoryForm(msg)
		case modeConfirmDelete:
			m = m.updateDeleteConfirm(msg.String())
		default:
			if key.Matches(msg, m.keys.Quit) {
				return m, tea.Quit
			}
			if m.view == viewCalendar {
				m = m.updateCalendar(msg)
			} else {
				m = m.updateList(msg)
			}
		}
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-10, 10)
	}
	if m.changes.drain() {
		m.refresh()
	}
	return m, cmd
}

// refresh re-reads the filtered list from the store.
func (m *Model) refresh() {
	m.tasks = m.store.FilteredTasks()
	m.cursor = clampCursor(m.cursor, len(m.tasks))
	m.dayCursor = clampCursor(m.dayCursor, len(m.dayTasks()))
}

func (m Model) selected() (task.Task, bool) {
	if len(m.tasks) == 0 {
		return task.Task{}, false
	}
	return m.tasks[clampCursor(m.cursor, len(m.tasks))], true
}

// follow moves the cursor onto id after a re-sort.
func (m *Model) follow(id int64) {
	if i := slices.IndexFunc(m.tasks, func(t task.Task) bool { return t.ID == id }); i >= 0 {
		m.cursor = i
	}
}

func (m Model) updateList(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.tasks))
	case key.Matches(msg, m.keys.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.tasks))
	case key.Matches(msg, m.keys.Add):
		return m.startTaskForm(nil)
	case key.Matches(msg, m.keys.Edit):
		t, ok := m.selected()
		if !ok {
			m.status = "No tasks to edit"
			return m
		}
		return m.startTaskForm(&t)
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			return m.toggle(t)
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selected(); ok {
			return m.confirmDelete(t)
		}
	case key.Matches(msg, m.keys.SortCycle):
		next := nextCriterion(m.store.Criterion())
		m.store.Sort(next)
		m.status = fmt.Sprintf("Sorted by %s (%s)", next, m.store.Direction())
	case key.Matches(msg, m.keys.SortDirection):
		m.store.ToggleDirection()
		m.status = fmt.Sprintf("Sorted by %s (%s)", m.store.Criterion(), m.store.Direction())
	default:
		return m.updateShared(msg)
	}
	return m
}

// updateShared handles keys both views accept.
func (m Model) updateShared(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.NextCategory):
		next := nextCategory(m.store.ActiveCategory(), m.store.Categories())
		m.store.SetActiveCategory(next)
		m.cursor = 0
		m.status = "Showing " + next
	case key.Matches(msg, m.keys.AddCategory):
		return m.startCategoryForm(nil)
	case key.Matches(msg, m.keys.EditCategory):
		active := m.store.ActiveCategory()
		i := slices.IndexFunc(m.store.Categories(), func(c task.Category) bool { return c.Name == active })
		if i < 0 {
			m.status = fmt.Sprintf("Select a category with '%s' first", m.cfg.Keys.NextCategory)
			return m
		}
		c := m.store.Categories()[i]
		return m.startCategoryForm(&c)
	case key.Matches(msg, m.keys.SwitchView):
		if m.view == viewList {
			m.view = viewCalendar
			m.status = "Calendar"
		} else {
			m.view = viewList
			m.status = "List"
		}
	case key.Matches(msg, m.keys.Theme):
		m.theme = m.theme.Toggle()
		m.styles = newStyles(m.theme)
		if err := m.themes.SetTheme(m.theme); err != nil {
			m.status = fmt.Sprintf("save theme failed: %v", err)
			return m
		}
		m.status = "Theme: " + string(m.theme)
	}
	return m
}

func (m Model) updateCalendar(msg tea.KeyMsg) Model {
	switch {
	case key.Matches(msg, m.keys.Left):
		m.focusDay(m.dayFocus.AddDays(-1))
	case key.Matches(msg, m.keys.Right):
		m.focusDay(m.dayFocus.AddDays(1))
	case key.Matches(msg, m.keys.Up):
		m.focusDay(m.dayFocus.AddDays(-7))
	case key.Matches(msg, m.keys.Down):
		m.focusDay(m.dayFocus.AddDays(7))
	case key.Matches(msg, m.keys.PrevMonth):
		m.shiftMonth(-1)
	case key.Matches(msg, m.keys.NextMonth):
		m.shiftMonth(1)
	case key.Matches(msg, m.keys.NextDayTask):
		m.dayCursor = wrapIndex(m.dayCursor+1, len(m.dayTasks()))
	case key.Matches(msg, m.keys.PrevDayTask):
		m.dayCursor = wrapIndex(m.dayCursor-1, len(m.dayTasks()))
	case key.Matches(msg, m.keys.Add):
		return m.startTaskFormOn(m.dayFocus)
	case key.Matches(msg, m.keys.Edit):
		t, ok := m.selectedDayTask()
		if !ok {
			m.status = "Nothing due on " + formatDate(m.dayFocus)
			return m
		}
		return m.startTaskForm(&t)
	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.selectedDayTask(); ok {
			return m.toggle(t)
		}
	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.selectedDayTask(); ok {
			return m.confirmDelete(t)
		}
	case key.Matches(msg, m.keys.MoveHere):
		return m.moveHere()
	case key.Matches(msg, m.keys.Cancel):
		if m.moving != 0 {
			m.moving = 0
			m.status = "Move cancelled"
		}
	case key.Matches(msg, m.keys.ToggleVisible):
		active := m.store.ActiveCategory()
		if active == task.AllCategories {
			m.status = fmt.Sprintf("Select a category with '%s' first", m.cfg.Keys.NextCategory)
			return m
		}
		m.store.ToggleVisibility(active)
		m.status = fmt.Sprintf("%s %s", active, visibility(m.store.IsVisible(active)))
	case key.Matches(msg, m.keys.ToggleAllShown):
		show := !m.store.AllVisible()
		m.store.SetAllVisible(show)
		m.status = "All categories " + visibility(show)
	default:
		return m.updateShared(msg)
	}
	return m
}

// moveHere picks up the focused day's selected task, or the list's when
// the day is empty, and drops it on the day focused at the next press.
func (m Model) moveHere() Model {
	if m.moving == 0 {
		t, ok := m.selectedDayTask()
		if !ok {
			t, ok = m.selected()
		}
		if !ok {
			m.status = "Nothing to move"
			return m
		}
		m.moving = t.ID
		m.status = fmt.Sprintf("Moving %q: pick a day and press '%s'", t.Title, m.cfg.Keys.MoveHere)
		return m
	}
	id, due := m.moving, m.dayFocus
	m.moving = 0
	t, ok := m.store.Task(id)
	if !ok {
		m.status = "Task no longer exists"
		return m
	}
	if err := m.store.Update(id, task.Patch{DueDate: &due}); err != nil {
		m.status = fmt.Sprintf("move failed: %v", err)
		return m
	}
	m.status = fmt.Sprintf("Moved %q to %s", t.Title, formatDate(due))
	return m
}

func (m Model) toggle(t task.Task) Model {
	if err := m.store.ToggleCompletion(t.ID); err != nil {
		m.status = fmt.Sprintf("toggle failed: %v", err)
		return m
	}
	m.status = "Toggled task"
	return m
}

func (m Model) confirmDelete(t task.Task) Model {
	m.mode = modeConfirmDelete
	m.pendingDel = &t
	m.status = fmt.Sprintf("Delete %q? y/n", t.Title)
	return m
}

// dayTasks are the calendar's tasks for the focused day.
func (m Model) dayTasks() []task.Task {
	return m.store.TasksForDate(m.dayFocus)
}

func (m Model) selectedDayTask() (task.Task, bool) {
	tasks := m.dayTasks()
	if len(tasks) == 0 {
		return task.Task{}, false
	}
	return tasks[clampCursor(m.dayCursor, len(tasks))], true
}

// focusDay moves the calendar focus, following it into another month.
func (m *Model) focusDay(d task.Date) {
	m.dayFocus = d
	m.dayCursor = 0
	if d.Year != m.month.Year() || d.Month != m.month.Month() {
		m.month = time.Date(d.Year, d.Month, 1, 0, 0, 0, 0, time.Local)
	}
}

func (m *Model) shiftMonth(n int) {
	m.month = m.month.AddDate(0, n, 0)
	day := min(m.dayFocus.Day, daysIn(m.month))
	m.dayCursor = 0
	m.dayFocus = task.NewDate(m.month.Year(), m.month.Month(), day)
}

func (m Model) updateDeleteConfirm(k string) Model {
	switch k {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			break
		}
		if err := m.store.Delete(m.pendingDel.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			break
		}
		m.status = "Deleted task"
	default:
		return m
	}
	m.mode = modeBrowse
	m.pendingDel = nil
	return m
}

func nextCriterion(c task.Criterion) task.Criterion {
	i := slices.Index(task.Criteria, c)
	return task.Criteria[(i+1)%len(task.Criteria)]
}

// nextCategory cycles all -> each category -> all.
func nextCategory(active string, categories []task.Category) string {
	if len(categories) == 0 {
		return task.AllCategories
	}
	if active == task.AllCategories {
		return categories[0].Name
	}
	i := slices.IndexFunc(categories, func(c task.Category) bool { return c.Name == active })
	if i < 0 || i == len(categories)-1 {
		return task.AllCategories
	}
	return categories[i+1].Name
}

func visibility(shown bool) string {
	if shown {
		return "shown"
	}
	return "hidden"
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func daysIn(month time.Time) int {
	return time.Date(month.Year(), month.Month()+1, 0, 0, 0, 0, 0, time.Local).Day()
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}
