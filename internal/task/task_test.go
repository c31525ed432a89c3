package task

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func mk(title string, p Priority, due string) *Task {
	t := &Task{Title: title, Priority: p, Category: "Work"}
	if due != "" {
		t.Due = date(due)
	}
	return t
}

func titles(ts []*Task) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.Title)
	}
	return out
}

func TestParse(t *testing.T) {
	got, err := Parse(Fields{
		Title:       "  Buy milk ",
		Description: "2 litres",
		Priority:    "1",
		Due:         "2024-01-01",
		Category:    "Personal",
	})

	require.NoError(t, err)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, "2 litres", got.Description)
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.True(t, got.Urgent())
	assert.Equal(t, "2024-01-01", got.DueString())
	assert.Equal(t, "Personal", got.Category)
}

func TestParse_EmptyDueAndPriority(t *testing.T) {
	got, err := Parse(Fields{Title: "Read"})

	require.NoError(t, err)
	assert.Equal(t, PriorityNormal, got.Priority)
	assert.False(t, got.HasDue())
	assert.Empty(t, got.DueString())
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(Fields{Title: "   "})
	assert.True(t, errors.Is(err, ErrMissingTitle))

	_, err = Parse(Fields{Title: "x", Priority: "7"})
	assert.True(t, errors.Is(err, ErrInvalidPriority))

	_, err = Parse(Fields{Title: "x", Priority: "soon"})
	assert.True(t, errors.Is(err, ErrInvalidPriority))

	_, err = Parse(Fields{Title: "x", Due: "01/02/2024"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse due date")
}

func TestParsePriority_Words(t *testing.T) {
	p, err := ParsePriority("High")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	p, err = ParsePriority("normal")
	require.NoError(t, err)
	assert.Equal(t, PriorityNormal, p)
}

func TestCollection_SortsByPriorityThenDue(t *testing.T) {
	c := NewCollection()
	c.Add(mk("late normal", PriorityNormal, "2024-03-01"))
	c.Add(mk("early normal", PriorityNormal, "2024-01-01"))
	c.Add(mk("late high", PriorityHigh, "2024-02-01"))
	c.Add(mk("no due high", PriorityHigh, ""))
	c.Add(mk("early high", PriorityHigh, "2024-01-15"))

	assert.Equal(t,
		[]string{"early high", "late high", "no due high", "early normal", "late normal"},
		titles(c.List()))
}

func TestCollection_SortIsStable(t *testing.T) {
	c := NewCollection()
	c.Add(mk("first", PriorityNormal, "2024-01-01"))
	c.Add(mk("second", PriorityNormal, "2024-01-01"))
	c.Add(mk("third", PriorityNormal, "2024-01-01"))

	assert.Equal(t, []string{"first", "second", "third"}, titles(c.List()))
}

func TestCollection_OrderedAfterAnySequence(t *testing.T) {
	c := NewCollection()
	dues := []string{"2024-05-01", "2024-01-09", "", "2023-12-31", "2024-02-29", "2024-01-09"}
	for i, d := range dues {
		c.Add(mk(string(rune('a'+i)), Priority(i%2), d))
	}
	c.Modify("c", mk("c", PriorityHigh, "2023-01-01"))
	c.Modify("b", mk("b", PriorityNormal, ""))

	list := c.List()
	for i := 1; i < len(list); i++ {
		assert.LessOrEqual(t, Compare(list[i-1], list[i]), 0, "%s before %s", list[i-1].Title, list[i].Title)
	}
	assert.Equal(t, "c", list[0].Title)
}

func TestCollection_RemoveDropsEveryMatch(t *testing.T) {
	c := NewCollection()
	a1 := mk("dup", PriorityNormal, "2024-01-01")
	a2 := mk("dup", PriorityHigh, "2024-01-02")
	c.Add(a1)
	c.Add(mk("keep", PriorityNormal, "2024-01-03"))
	c.Add(a2)

	removed := c.Remove("dup")

	assert.ElementsMatch(t, []*Task{a1, a2}, removed)
	assert.Equal(t, []string{"keep"}, titles(c.List()))
}

func TestCollection_RemoveMissingTitleLeavesCollection(t *testing.T) {
	c := NewCollection()
	c.Add(mk("a", PriorityNormal, "2024-01-01"))
	c.Add(mk("b", PriorityHigh, "2024-01-01"))
	before := c.List()

	removed := c.Remove("zzz")

	assert.Empty(t, removed)
	assert.Equal(t, before, c.List())
}

func TestCollection_ModifyReplacesFirstMatch(t *testing.T) {
	c := NewCollection()
	old := mk("a", PriorityNormal, "2024-01-01")
	c.Add(old)
	c.Add(mk("b", PriorityNormal, "2024-01-02"))

	next := mk("a2", PriorityHigh, "2024-06-01")
	prev := c.Modify("a", next)

	assert.Same(t, old, prev)
	assert.Equal(t, []string{"a2", "b"}, titles(c.List()))
	assert.Nil(t, c.Find("a"))
	assert.Same(t, next, c.Find("a2"))
}

func TestCollection_ModifyMissingIsNoop(t *testing.T) {
	c := NewCollection()
	c.Add(mk("a", PriorityNormal, "2024-01-01"))

	prev := c.Modify("missing", mk("x", PriorityHigh, ""))

	assert.Nil(t, prev)
	assert.Equal(t, []string{"a"}, titles(c.List()))
}

func TestCollection_ReplaceIsByInstance(t *testing.T) {
	c := NewCollection()
	first := mk("dup", PriorityNormal, "2024-01-01")
	second := mk("dup", PriorityNormal, "2024-01-02")
	c.Add(first)
	c.Add(second)

	next := mk("renamed", PriorityHigh, "2024-03-01")
	require.True(t, c.Replace(second, next))

	assert.Equal(t, []*Task{next, first}, c.List())
	assert.False(t, c.Replace(second, next))
}

func TestCollection_RemoveTaskKeepsSameTitle(t *testing.T) {
	c := NewCollection()
	first := mk("dup", PriorityNormal, "2024-01-01")
	second := mk("dup", PriorityNormal, "2024-01-02")
	c.Add(first)
	c.Add(second)

	require.True(t, c.RemoveTask(first))

	assert.Equal(t, []*Task{second}, c.List())
	assert.False(t, c.RemoveTask(first))
}

func TestCollection_ListIsACopy(t *testing.T) {
	c := NewCollection()
	a := mk("a", PriorityNormal, "")
	c.Add(a)

	list := c.List()
	list[0] = nil

	assert.Same(t, a, c.List()[0])
	assert.True(t, c.Contains(a))
	assert.Equal(t, 1, c.Len())
}

func TestLine(t *testing.T) {
	tk := &Task{Title: "Buy milk", Description: "2 litres", Priority: PriorityHigh, Due: date("2024-01-01")}

	assert.Equal(t, "Buy milk - 2 litres (Priority: High, Due: Mon Jan 01 2024)", tk.Line())
	assert.Equal(t, "3. Buy milk - 2 litres", tk.QueueLine(3))
}
