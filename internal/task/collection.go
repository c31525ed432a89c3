package task

import (
	"slices"
)

// Collection keeps tasks ordered by priority (high first) and then by due
// date (earliest first). Tasks without a due date go last within their
// priority.
type Collection struct {
	tasks []*Task
}

func NewCollection() *Collection {
	return &Collection{}
}

func (c *Collection) Add(t *Task) {
	c.tasks = append(c.tasks, t)
	c.sort()
}

// Remove drops every task with the given title and returns them in their
// previous order.
func (c *Collection) Remove(title string) []*Task {
	var removed []*Task
	kept := c.tasks[:0]
	for _, t := range c.tasks {
		if t.Title == title {
			removed = append(removed, t)
			continue
		}
		kept = append(kept, t)
	}
	clear(c.tasks[len(kept):])
	c.tasks = kept
	return removed
}

// Modify replaces the first task titled title with next and returns the
// replaced task, or nil when nothing matched.
func (c *Collection) Modify(title string, next *Task) *Task {
	idx := slices.IndexFunc(c.tasks, func(t *Task) bool { return t.Title == title })
	if idx < 0 {
		return nil
	}
	prev := c.tasks[idx]
	c.tasks[idx] = next
	c.sort()
	return prev
}

// Replace swaps the exact instance prev for next and reports whether prev
// was present. Other tasks sharing prev's title are left alone.
func (c *Collection) Replace(prev, next *Task) bool {
	idx := slices.Index(c.tasks, prev)
	if idx < 0 {
		return false
	}
	c.tasks[idx] = next
	c.sort()
	return true
}

// RemoveTask drops the exact instance t and reports whether it was present.
func (c *Collection) RemoveTask(t *Task) bool {
	idx := slices.Index(c.tasks, t)
	if idx < 0 {
		return false
	}
	c.tasks = slices.Delete(c.tasks, idx, idx+1)
	return true
}

func (c *Collection) Find(title string) *Task {
	idx := slices.IndexFunc(c.tasks, func(t *Task) bool { return t.Title == title })
	if idx < 0 {
		return nil
	}
	return c.tasks[idx]
}

func (c *Collection) Contains(t *Task) bool {
	return slices.Contains(c.tasks, t)
}

func (c *Collection) List() []*Task {
	return slices.Clone(c.tasks)
}

func (c *Collection) Len() int {
	return len(c.tasks)
}

func (c *Collection) sort() {
	slices.SortStableFunc(c.tasks, Compare)
}

// Compare orders a before b when it has higher priority, or the same
// priority and an earlier due date.
func Compare(a, b *Task) int {
	if a.Priority != b.Priority {
		return int(b.Priority) - int(a.Priority)
	}
	switch {
	case a.HasDue() && b.HasDue():
		return a.Due.Compare(b.Due)
	case a.HasDue():
		return -1
	case b.HasDue():
		return 1
	}
	return 0
}
