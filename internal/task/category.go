package task

import (
	"slices"
	"strings"
)

func (s *Store) categoryIndex(name string) int {
	return slices.IndexFunc(s.categories, func(c Category) bool { return c.Name == name })
}

// AddCategory appends a new visible category.
func (s *Store) AddCategory(name string, color Color) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCategoryName
	}
	if name == AllCategories {
		return ErrReservedCategoryName
	}
	if s.categoryIndex(name) >= 0 {
		return ErrCategoryExists
	}
	s.categories = append(s.categories, Category{Name: name, Color: color})
	s.visible[name] = struct{}{}
	s.logger.Debug("category added", "name", name, "color", color)
	return s.commitCategories()
}

// RenameCategory replaces the category named old. A rename carries over to
// every task filed under old, the visible set and the active filter.
func (s *Store) RenameCategory(old, name string, color Color) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyCategoryName
	}
	if name == AllCategories {
		return ErrReservedCategoryName
	}
	i := s.categoryIndex(old)
	if i < 0 {
		return ErrCategoryNotFound
	}
	if j := s.categoryIndex(name); j >= 0 && j != i {
		return ErrCategoryExists
	}
	s.categories[i] = Category{Name: name, Color: color}

	if name == old {
		return s.commitCategories()
	}

	renamed := 0
	for k := range s.tasks {
		if s.tasks[k].Category == old {
			s.tasks[k].Category = name
			renamed++
		}
	}
	if _, ok := s.visible[old]; ok {
		delete(s.visible, old)
		s.visible[name] = struct{}{}
	}
	if s.active == old {
		s.active = name
	}
	s.logger.Debug("category renamed", "from", old, "to", name, "tasks", renamed)

	err := s.commitCategories()
	if terr := s.commitTasks(0); err == nil {
		err = terr
	}
	return err
}

// DeleteCategory always fails: tasks refer to categories by name and there
// is no policy for reassigning them.
func (s *Store) DeleteCategory(name string) error {
	return ErrCategoryDeleteUnsupported
}

// CategoryColor returns the color of name, blue when it is unknown.
func (s *Store) CategoryColor(name string) Color {
	if i := s.categoryIndex(name); i >= 0 {
		return s.categories[i].Color
	}
	return ColorBlue
}

func (s *Store) ActiveCategory() string { return s.active }

// SetActiveCategory selects the list filter; AllCategories clears it.
func (s *Store) SetActiveCategory(name string) {
	s.active = name
	s.notify(Change{Kind: SelectionChanged})
}

func (s *Store) IsVisible(name string) bool {
	_, ok := s.visible[name]
	return ok
}

// ToggleVisibility shows or hides a category in the calendar.
func (s *Store) ToggleVisibility(name string) {
	if _, ok := s.visible[name]; ok {
		delete(s.visible, name)
	} else {
		s.visible[name] = struct{}{}
	}
	s.notify(Change{Kind: SelectionChanged})
}

// SetAllVisible shows every category, or hides them all.
func (s *Store) SetAllVisible(on bool) {
	clear(s.visible)
	if on {
		for _, c := range s.categories {
			s.visible[c.Name] = struct{}{}
		}
	}
	s.notify(Change{Kind: SelectionChanged})
}

func (s *Store) AllVisible() bool {
	for _, c := range s.categories {
		if _, ok := s.visible[c.Name]; !ok {
			return false
		}
	}
	return true
}
