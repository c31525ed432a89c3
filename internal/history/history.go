// Package history records reversible task actions for undo and redo.
package history

import "taskdeck/internal/task"

type Kind string

const (
	KindAdd    Kind = "add"
	KindRemove Kind = "remove"
	KindModify Kind = "modify"
)

// Action is one of Add, Remove or Modify.
type Action interface {
	Kind() Kind
	// Subject is the task the action is about, used for logs and the journal.
	Subject() *task.Task
	sealed()
}

type Add struct {
	Task *task.Task
}

func (Add) Kind() Kind { return KindAdd }
func (a Add) Subject() *task.Task { return a.Task }
func (Add) sealed() {}

// Remove holds every task that was dropped for a title.
type Remove struct {
	Title string
	Tasks []*task.Task
}

func (Remove) Kind() Kind { return KindRemove }
func (r Remove) Subject() *task.Task {
	if len(r.Tasks) == 0 {
		return nil
	}
	return r.Tasks[0]
}
func (Remove) sealed() {}

type Modify struct {
	Old *task.Task
	New *task.Task
}

func (Modify) Kind() Kind { return KindModify }
func (m Modify) Subject() *task.Task { return m.New }
func (Modify) sealed() {}

type History struct {
	undo []Action
	redo []Action
}

func New() *History {
	return &History{}
}

// Record pushes a onto the undo stack and discards anything redoable.
func (h *History) Record(a Action) {
	h.undo = append(h.undo, a)
	h.redo = nil
}

func (h *History) Undo() (Action, bool) {
	a, ok := pop(&h.undo)
	if !ok {
		return nil, false
	}
	h.redo = append(h.redo, a)
	return a, true
}

func (h *History) Redo() (Action, bool) {
	a, ok := pop(&h.redo)
	if !ok {
		return nil, false
	}
	h.undo = append(h.undo, a)
	return a, true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Len returns the depth of the undo and redo stacks.
func (h *History) Len() (undo, redo int) {
	return len(h.undo), len(h.redo)
}

func pop(stack *[]Action) (Action, bool) {
	s := *stack
	if len(s) == 0 {
		return nil, false
	}
	a := s[len(s)-1]
	s[len(s)-1] = nil
	*stack = s[:len(s)-1]
	return a, true
}
