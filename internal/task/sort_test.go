package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortCompletedSinks(t *testing.T) {
	for _, c := range Criteria {
		for _, d := range []Direction{Ascending, Descending} {
			t.Run(string(c)+"/"+d.String(), func(t *testing.T) {
				s, _ := newTestStore(t,
					Task{ID: 1, Title: "done", Completed: true, Priority: PriorityHigh, Category: "A", DueDate: NewDate(2020, time.January, 1)},
					Task{ID: 2, Title: "open", Priority: PriorityLow, Category: "Z"},
				)
				s.SetDirection(d)
				s.Sort(c)
				assert.Equal(t, []int64{2, 1}, ids(s.Tasks()))
			})
		}
	}
}

func TestSortOverdueFirstRegardlessOfCriterion(t *testing.T) {
	today := DateOf(fixedNow)
	for _, c := range Criteria {
		for _, d := range []Direction{Ascending, Descending} {
			t.Run(string(c)+"/"+d.String(), func(t *testing.T) {
				s, _ := newTestStore(t,
					Task{ID: 1, Title: "later", Priority: PriorityHigh, Category: "A", DueDate: today.AddDays(3)},
					Task{ID: 2, Title: "today", Priority: PriorityLow, Category: "M", DueDate: today},
					Task{ID: 3, Title: "late", Priority: PriorityLow, Category: "Z", DueDate: today.AddDays(-2)},
					Task{ID: 4, Title: "undated", Priority: PriorityHigh, Category: "B"},
				)
				s.SetDirection(d)
				s.Sort(c)
				got := ids(s.Tasks())
				assert.Equal(t, []int64{3, 2}, got[:2])
			})
		}
	}
}

func TestSortCompletedOverdueIsNotPromoted(t *testing.T) {
	today := DateOf(fixedNow)
	s, _ := newTestStore(t,
		Task{ID: 1, Title: "old done", Completed: true, DueDate: today.AddDays(-5), Priority: PriorityLow},
		Task{ID: 2, Title: "future", DueDate: today.AddDays(5), Priority: PriorityLow},
	)
	assert.Equal(t, []int64{2, 1}, ids(s.Tasks()))
}

func TestSortByPriority(t *testing.T) {
	s, _ := newTestStore(t,
		Task{ID: 1, Title: "low", Priority: PriorityLow},
		Task{ID: 2, Title: "high", Priority: PriorityHigh},
		Task{ID: 3, Title: "medium", Priority: PriorityMedium},
	)

	// Ascending is the urgent-first order: High(3) leads.
	s.Sort(ByPriority)
	assert.Equal(t, []int64{2, 3, 1}, ids(s.Tasks()))

	s.SetDirection(Descending)
	assert.Equal(t, []int64{1, 3, 2}, ids(s.Tasks()))
}

func TestSortByDate(t *testing.T) {
	s, _ := newTestStore(t,
		Task{ID: 1, Title: "none", Priority: PriorityLow},
		Task{ID: 2, Title: "june", DueDate: NewDate(2024, time.June, 1), Priority: PriorityLow},
		Task{ID: 3, Title: "january", DueDate: NewDate(2024, time.January, 1), Priority: PriorityLow, Completed: true},
		Task{ID: 4, Title: "april", DueDate: NewDate(2024, time.April, 1), Priority: PriorityLow},
	)

	s.Sort(ByDate)
	assert.Equal(t, []int64{4, 2, 1, 3}, ids(s.Tasks()))

	s.ToggleDirection()
	assert.Equal(t, Descending, s.Direction())
	assert.Equal(t, []int64{1, 2, 4, 3}, ids(s.Tasks()))
}

func TestSortByDateUndatedLast(t *testing.T) {
	jan := NewDate(2024, time.January, 1)
	jun := NewDate(2024, time.June, 1)
	s := NewStore(State{Tasks: []Task{
		{ID: 1, Title: "none", Priority: PriorityLow},
		{ID: 2, Title: "june", DueDate: jun, Priority: PriorityLow},
		{ID: 3, Title: "january", DueDate: jan, Priority: PriorityLow},
	}}, WithClock(func() time.Time { return time.Date(2023, time.December, 1, 9, 0, 0, 0, time.Local) }), WithSort(ByDate, Ascending))

	assert.Equal(t, []int64{3, 2, 1}, ids(s.Tasks()))
}

func TestSortByCategory(t *testing.T) {
	s, _ := newTestStore(t,
		Task{ID: 1, Title: "a", Category: "Work", Priority: PriorityLow},
		Task{ID: 2, Title: "b", Category: "errands", Priority: PriorityLow},
		Task{ID: 3, Title: "c", Category: "Personal", Priority: PriorityLow},
	)

	s.Sort(ByCategory)
	got := s.Tasks()
	names := make([]string, len(got))
	for i, t := range got {
		names[i] = t.Category
	}
	assert.Equal(t, []string{"errands", "Personal", "Work"}, names, "case does not outrank letters")

	s.SetDirection(Descending)
	assert.Equal(t, []int64{1, 3, 2}, ids(s.Tasks()))
}

func TestSortIsStable(t *testing.T) {
	s, _ := newTestStore(t,
		Task{ID: 5, Title: "a", Priority: PriorityMedium},
		Task{ID: 3, Title: "b", Priority: PriorityMedium},
		Task{ID: 9, Title: "c", Priority: PriorityMedium},
	)
	for _, c := range Criteria {
		s.Sort(c)
		assert.Equal(t, []int64{5, 3, 9}, ids(s.Tasks()))
	}
	s.SetDirection(Descending)
	assert.Equal(t, []int64{5, 3, 9}, ids(s.Tasks()))
}

func TestMutationsResort(t *testing.T) {
	s, _ := newTestStore(t,
		Task{ID: 1, Title: "a", Priority: PriorityHigh},
		Task{ID: 2, Title: "b", Priority: PriorityLow},
	)
	require.NoError(t, s.ToggleCompletion(1))
	assert.Equal(t, []int64{2, 1}, ids(s.Tasks()))

	_, err := s.Add(Draft{Title: "c", Priority: PriorityMedium})
	require.NoError(t, err)
	assert.Equal(t, int64(2), s.Tasks()[1].ID)
}

func TestParseCriterionAndDirection(t *testing.T) {
	c, err := ParseCriterion(" Date ")
	require.NoError(t, err)
	assert.Equal(t, ByDate, c)
	_, err = ParseCriterion("title")
	assert.Error(t, err)

	d, err := ParseDirection("desc")
	require.NoError(t, err)
	assert.Equal(t, Descending, d)
	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}
