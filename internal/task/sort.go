package task

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
)

type Criterion string

const (
	ByPriority Criterion = "priority"
	ByDate     Criterion = "date"
	ByCategory Criterion = "category"
)

// Criteria lists the sort criteria in the order the UI cycles through them.
var Criteria = []Criterion{ByPriority, ByDate, ByCategory}

func ParseCriterion(s string) (Criterion, error) {
	switch c := Criterion(strings.ToLower(strings.TrimSpace(s))); c {
	case ByPriority, ByDate, ByCategory:
		return c, nil
	default:
		return "", fmt.Errorf("unknown sort criterion %q", s)
	}
}

// Direction multiplies the criterion comparison: +1 ascending, -1 descending.
type Direction int

const (
	Ascending  Direction = 1
	Descending Direction = -1
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return 0, fmt.Errorf("unknown sort direction %q", s)
	}
}

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// comparator orders tasks for a criterion and direction against a fixed day.
type comparator struct {
	criterion Criterion
	direction Direction
	today     Date
	collator  *collate.Collator
}

// compare puts incomplete tasks before completed ones, then overdue before
// due-today before the rest, and only then applies the criterion. The
// direction flips the criterion step alone.
func (c comparator) compare(a, b Task) int {
	if a.Completed != b.Completed {
		if a.Completed {
			return 1
		}
		return -1
	}
	if !a.Completed {
		ta := c.status(a).tier()
		tb := c.status(b).tier()
		if ta != tb {
			return cmp.Compare(ta, tb)
		}
	}
	return c.byCriterion(a, b) * int(c.direction)
}

func (c comparator) status(t Task) Status {
	return StatusAt(t.DueDate, t.Completed, c.today.Time())
}

func (c comparator) byCriterion(a, b Task) int {
	switch c.criterion {
	case ByPriority:
		return cmp.Compare(b.Priority, a.Priority)
	case ByDate:
		return sortDate(a.DueDate).Compare(sortDate(b.DueDate))
	case ByCategory:
		if c.collator == nil {
			return strings.Compare(a.Category, b.Category)
		}
		return c.collator.CompareString(a.Category, b.Category)
	default:
		return 0
	}
}

func sortDate(d Date) Date {
	if d.IsZero() {
		return farFuture
	}
	return d
}

func (c comparator) sort(tasks []Task) {
	slices.SortStableFunc(tasks, c.compare)
}
