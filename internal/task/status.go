package task

import "time"

// Status is the due-status tag derived from a due date and completion flag.
type Status int

const (
	StatusNone Status = iota
	StatusDueToday
	StatusOverdue
)

func (s Status) String() string {
	switch s {
	case StatusDueToday:
		return "due-today"
	case StatusOverdue:
		return "overdue"
	default:
		return "none"
	}
}

// Label is the text shown next to a task in the list and calendar views.
func (s Status) Label() string {
	switch s {
	case StatusDueToday:
		return "Due today"
	case StatusOverdue:
		return "Overdue"
	default:
		return ""
	}
}

// StatusAt derives the due-status of a task relative to the day containing
// now. Completed tasks and tasks without a due date have no status.
func StatusAt(due Date, completed bool, now time.Time) Status {
	if due.IsZero() || completed {
		return StatusNone
	}
	switch c := due.Compare(DateOf(now)); {
	case c == 0:
		return StatusDueToday
	case c < 0:
		return StatusOverdue
	default:
		return StatusNone
	}
}

// DueStatus is StatusAt evaluated against the wall clock.
func DueStatus(due Date, completed bool) Status {
	return StatusAt(due, completed, time.Now())
}

// tier orders incomplete tasks by urgency: overdue, then due today, then the rest.
func (s Status) tier() int {
	switch s {
	case StatusOverdue:
		return 0
	case StatusDueToday:
		return 1
	default:
		return 2
	}
}
