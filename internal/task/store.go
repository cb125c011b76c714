package task

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AllCategories is the active-category value that disables filtering.
const AllCategories = "all"

var (
	ErrEmptyCategoryName         = errors.New("category name is empty")
	ErrCategoryExists            = errors.New("category already exists")
	ErrReservedCategoryName      = errors.New("category name is reserved")
	ErrCategoryNotFound          = errors.New("category not found")
	ErrCategoryDeleteUnsupported = errors.New("categories cannot be deleted")
)

// ChangeKind says which collection a mutation touched.
type ChangeKind int

const (
	TasksChanged ChangeKind = iota
	CategoriesChanged
	SelectionChanged
)

func (k ChangeKind) String() string {
	switch k {
	case TasksChanged:
		return "tasks"
	case CategoriesChanged:
		return "categories"
	default:
		return "selection"
	}
}

type Change struct {
	Kind ChangeKind
	// ID is the affected task, zero for bulk or category changes.
	ID int64
}

// Store owns the task and category collections. It is not safe for
// concurrent use; a single UI loop drives it.
type Store struct {
	tasks      []Task
	categories []Category
	lastID     int64

	criterion Criterion
	direction Direction
	active    string
	visible   map[string]struct{}

	persist  Persister
	logger   *log.Logger
	now      func() time.Time
	collator *collate.Collator

	subscribers map[int]func(Change)
	nextSub     int
}

type Option func(*Store)

func WithPersister(p Persister) Option {
	return func(s *Store) { s.persist = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock replaces time.Now for due-status and id assignment.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithSort(c Criterion, d Direction) Option {
	return func(s *Store) {
		s.criterion = c
		s.direction = d
	}
}

// WithLocale sets the collation used when ordering by category.
func WithLocale(tag language.Tag) Option {
	return func(s *Store) { s.collator = collate.New(tag) }
}

// NewStore builds a store from persisted state. A state without categories
// gets DefaultCategories. The tasks are sorted before NewStore returns.
func NewStore(state State, opts ...Option) *Store {
	s := &Store{
		tasks:       slices.Clone(state.Tasks),
		categories:  slices.Clone(state.Categories),
		criterion:   ByPriority,
		direction:   Ascending,
		active:      AllCategories,
		now:         time.Now,
		subscribers: map[int]func(Change){},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.collator == nil {
		s.collator = collate.New(language.English)
	}
	if len(s.categories) == 0 {
		s.categories = DefaultCategories()
	}
	s.visible = make(map[string]struct{}, len(s.categories))
	for _, c := range s.categories {
		s.visible[c.Name] = struct{}{}
	}
	for _, t := range s.tasks {
		s.lastID = max(s.lastID, t.ID)
	}
	s.sort()
	return s
}

// Subscribe registers fn to run after every mutation. The returned func
// removes it.
func (s *Store) Subscribe(fn func(Change)) func() {
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	return func() { delete(s.subscribers, id) }
}

func (s *Store) notify(c Change) {
	for _, fn := range s.subscribers {
		fn(c)
	}
}

// Tasks returns the tasks in their current order.
func (s *Store) Tasks() []Task {
	return slices.Clone(s.tasks)
}

func (s *Store) Categories() []Category {
	return slices.Clone(s.categories)
}

// Task looks up a task by id.
func (s *Store) Task(id int64) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i], true
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

// Add appends a new incomplete task with a fresh id.
func (s *Store) Add(d Draft) (Task, error) {
	t := Task{
		ID:       s.newID(),
		Title:    d.Title,
		DueDate:  d.DueDate,
		Category: d.Category,
		Priority: d.Priority,
	}
	s.tasks = append(s.tasks, t)
	s.logger.Debug("task added", "id", t.ID, "title", t.Title)
	return t, s.commitTasks(t.ID)
}

// newID derives ids from the clock in milliseconds, bumped past the last id
// so two adds within one millisecond stay unique and increasing.
func (s *Store) newID() int64 {
	id := max(s.now().UnixMilli(), s.lastID+1)
	s.lastID = id
	return id
}

// Update merges p into the task with the given id. Unknown ids are ignored.
func (s *Store) Update(id int64, p Patch) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	p.apply(&s.tasks[i])
	s.logger.Debug("task updated", "id", id)
	return s.commitTasks(id)
}

// ToggleCompletion flips the completed flag. Unknown ids are ignored.
func (s *Store) ToggleCompletion(id int64) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	s.logger.Debug("task toggled", "id", id, "completed", s.tasks[i].Completed)
	return s.commitTasks(id)
}

// Delete removes the task with the given id. Unknown ids are ignored.
func (s *Store) Delete(id int64) error {
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.logger.Debug("task deleted", "id", id)
	return s.commitTasks(id)
}

// commitTasks persists, re-sorts and notifies. A failed save keeps the
// in-memory change.
func (s *Store) commitTasks(id int64) error {
	var err error
	if s.persist != nil {
		if err = s.persist.SaveTasks(s.Tasks()); err != nil {
			s.logger.Error("save tasks", "err", err)
			err = fmt.Errorf("save tasks: %w", err)
		}
	}
	s.sort()
	s.notify(Change{Kind: TasksChanged, ID: id})
	return err
}

func (s *Store) commitCategories() error {
	var err error
	if s.persist != nil {
		if err = s.persist.SaveCategories(s.Categories()); err != nil {
			s.logger.Error("save categories", "err", err)
			err = fmt.Errorf("save categories: %w", err)
		}
	}
	s.notify(Change{Kind: CategoriesChanged})
	return err
}

// Sort records c as the current criterion and reorders the tasks.
func (s *Store) Sort(c Criterion) {
	s.criterion = c
	s.sort()
	s.notify(Change{Kind: SelectionChanged})
}

func (s *Store) SetDirection(d Direction) {
	s.direction = d
	s.sort()
	s.notify(Change{Kind: SelectionChanged})
}

func (s *Store) ToggleDirection() {
	s.SetDirection(-s.direction)
}

func (s *Store) Criterion() Criterion { return s.criterion }

func (s *Store) Direction() Direction { return s.direction }

func (s *Store) sort() {
	comparator{
		criterion: s.criterion,
		direction: s.direction,
		today:     DateOf(s.now()),
		collator:  s.collator,
	}.sort(s.tasks)
}

// Status is the due-status of t as of the store's clock.
func (s *Store) Status(t Task) Status {
	return StatusAt(t.DueDate, t.Completed, s.now())
}

// Filtered returns the tasks in category, or all tasks for AllCategories.
// Matching is exact and case-sensitive.
func (s *Store) Filtered(category string) []Task {
	if category == AllCategories {
		return s.Tasks()
	}
	var out []Task
	for _, t := range s.tasks {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// FilteredTasks applies the active category.
func (s *Store) FilteredTasks() []Task {
	return s.Filtered(s.active)
}

// TasksForDate returns the tasks due on d whose category is visible, in
// store order.
func (s *Store) TasksForDate(d Date) []Task {
	var out []Task
	for _, t := range s.tasks {
		if t.DueDate.IsZero() || t.DueDate != d {
			continue
		}
		if _, ok := s.visible[t.Category]; !ok {
			continue
		}
		out = append(out, t)
	}
	return out
}
