// Package task holds the task list, its categories, and the ordering,
// filtering and calendar rules the views render from.
package task

import (
	"fmt"
	"strings"
)

type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	default:
		return fmt.Sprintf("p%d", int(p))
	}
}

type Task struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	DueDate   Date     `json:"dueDate"`
	Category  string   `json:"category"`
	Priority  Priority `json:"priority"`
	Completed bool     `json:"completed"`
}

// Draft carries the fields of a task about to be added.
type Draft struct {
	Title    string
	DueDate  Date
	Category string
	Priority Priority
}

// Patch lists the fields to merge into an existing task. Nil fields are left
// untouched.
type Patch struct {
	Title     *string
	DueDate   *Date
	Category  *string
	Priority  *Priority
	Completed *bool
}

func (p Patch) apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
}

type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
)

// Colors is the fixed palette categories pick from.
var Colors = []Color{ColorBlue, ColorGreen, ColorRed, ColorPurple, ColorOrange, ColorYellow}

func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Colors {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown color %q", s)
}

// Next returns the palette entry after c, wrapping around.
func (c Color) Next() Color {
	for i, known := range Colors {
		if known == c {
			return Colors[(i+1)%len(Colors)]
		}
	}
	return Colors[0]
}

type Category struct {
	Name  string `json:"name"`
	Color Color  `json:"color"`
}

// DefaultCategories seeds a store that has nothing persisted yet.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Personal", Color: ColorBlue},
		{Name: "Work", Color: ColorGreen},
	}
}

// State is the persisted content a store is built from.
type State struct {
	Tasks      []Task
	Categories []Category
}

// Persister saves the collections after every mutation.
type Persister interface {
	SaveTasks(tasks []Task) error
	SaveCategories(categories []Category) error
}
