package task

import "time"

// gridCells is six weeks, enough for any month starting on any weekday.
const gridCells = 42

// Day is one cell of a month grid.
type Day struct {
	Date Date
	// Outside marks padding days from the previous or next month.
	Outside bool
	Tasks   []Task
}

// MonthGrid lays out month as six Sunday-first weeks, padded with the
// trailing days of the previous month and the leading days of the next.
func MonthGrid(year int, month time.Month) []Day {
	first := NewDate(year, month, 1)
	start := first.AddDays(-int(first.Time().Weekday()))
	days := make([]Day, gridCells)
	for i := range days {
		d := start.AddDays(i)
		days[i] = Day{Date: d, Outside: d.Month != month || d.Year != year}
	}
	return days
}

// Month fills a month grid with the visible tasks due on each day.
func (s *Store) Month(year int, month time.Month) []Day {
	days := MonthGrid(year, month)
	for i := range days {
		days[i].Tasks = s.TasksForDate(days[i].Date)
	}
	return days
}

// Today is the current day according to the store's clock.
func (s *Store) Today() Date {
	return DateOf(s.now())
}
