// Package session wires the task collection, urgent queue, category tree
// and action history together. One Session is created per program run and
// is driven from a single goroutine.
package session

import (
	"database/sql"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"taskdeck/internal/category"
	"taskdeck/internal/history"
	"taskdeck/internal/queue"
	"taskdeck/internal/storage"
	"taskdeck/internal/task"
)

// Removal selects how undo detaches a task from the category tree.
type Removal int

const (
	// RemoveDeep detaches from the node the task was attached to, at any depth.
	RemoveDeep Removal = iota
	// RemoveShallow only scans the root's direct children.
	RemoveShallow
)

// Journal records applied actions. *storage.Store satisfies it.
type Journal interface {
	Append(e storage.Entry) (int, error)
	Recent(sessionID string, limit int) ([]storage.Entry, error)
}

type Options struct {
	RootName   string
	Indent     int
	Removal    Removal
	Categories []category.Spec
	Journal    Journal
	Logger     *log.Logger
}

type Session struct {
	ID string

	tasks   *task.Collection
	urgent  *queue.Queue[*task.Task]
	tree    *category.Tree
	history *history.History

	removal Removal
	journal Journal
	logger  *log.Logger
}

func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{
		ID:      uuid.NewString(),
		tasks:   task.NewCollection(),
		urgent:  queue.New[*task.Task](),
		tree:    category.New(opts.RootName, opts.Indent),
		history: history.New(),
		removal: opts.Removal,
		journal: opts.Journal,
	}
	s.logger = logger.With("session", s.ID[:8])
	s.tree.Seed(opts.Categories)
	return s
}

// Submit builds a task from raw form values and adds it.
func (s *Session) Submit(f task.Fields) (*task.Task, error) {
	t, err := task.Parse(f)
	if err != nil {
		return nil, err
	}
	s.Add(t)
	return t, nil
}

// Add inserts t everywhere and records it for undo.
func (s *Session) Add(t *task.Task) {
	s.insert(t)
	s.history.Record(history.Add{Task: t})
	s.logger.Info("task added", "title", t.Title, "category", t.Category, "priority", t.Priority)
	s.record(history.KindAdd, storage.DirectionDo, t)
}

// Remove drops every task titled title. It reports false, and records
// nothing, when no task matched.
func (s *Session) Remove(title string) bool {
	removed := s.tasks.Remove(title)
	if len(removed) == 0 {
		s.logger.Debug("remove: no such task", "title", title)
		return false
	}
	for _, t := range removed {
		s.detachIndexes(t)
	}
	s.history.Record(history.Remove{Title: title, Tasks: removed})
	s.logger.Info("task removed", "title", title, "count", len(removed))
	s.recordEach(history.KindRemove, storage.DirectionDo, removed)
	return true
}

// Modify replaces the first task titled title with next. It reports false
// when no task matched.
func (s *Session) Modify(title string, next *task.Task) bool {
	prev := s.tasks.Find(title)
	if prev == nil {
		s.logger.Debug("modify: no such task", "title", title)
		return false
	}
	s.swap(prev, next)
	s.history.Record(history.Modify{Old: prev, New: next})
	s.logger.Info("task modified", "title", title, "new_title", next.Title)
	s.record(history.KindModify, storage.DirectionDo, next)
	return true
}

// Undo reverts the most recent action. ok is false when there is nothing
// to undo.
func (s *Session) Undo() (history.Action, bool) {
	a, ok := s.history.Undo()
	if !ok {
		return nil, false
	}
	switch a := a.(type) {
	case history.Add:
		s.detach(a.Task)
	case history.Remove:
		for _, t := range a.Tasks {
			s.insert(t)
		}
	case history.Modify:
		s.swap(a.New, a.Old)
	}
	s.logger.Info("undo", "action", a.Kind(), "title", subjectTitle(a))
	s.recordAction(a, storage.DirectionUndo)
	return a, true
}

// Redo reapplies the most recently undone action.
func (s *Session) Redo() (history.Action, bool) {
	a, ok := s.history.Redo()
	if !ok {
		return nil, false
	}
	switch a := a.(type) {
	case history.Add:
		s.insert(a.Task)
	case history.Remove:
		for _, t := range a.Tasks {
			s.detach(t)
		}
	case history.Modify:
		s.swap(a.Old, a.New)
	}
	s.logger.Info("redo", "action", a.Kind(), "title", subjectTitle(a))
	s.recordAction(a, storage.DirectionRedo)
	return a, true
}

func (s *Session) CanUndo() bool { return s.history.CanUndo() }
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Tasks returns the ordered task list.
func (s *Session) Tasks() []*task.Task {
	return s.tasks.List()
}

func (s *Session) Find(title string) *task.Task {
	return s.tasks.Find(title)
}

// UrgentTasks returns the urgent queue in FIFO order. Entries whose task is
// no longer in the collection are skipped but stay queued.
func (s *Session) UrgentTasks() []*task.Task {
	var out []*task.Task
	s.urgent.Each(func(_ int, t *task.Task) {
		if s.tasks.Contains(t) {
			out = append(out, t)
		}
	})
	return out
}

func (s *Session) TreeText() string {
	return s.tree.Render()
}

// Categories lists category paths below the root, e.g. "Work/Meetings".
func (s *Session) Categories() []string {
	return s.tree.Paths()
}

func (s *Session) Tree() *category.Tree {
	return s.tree
}

// Activity returns up to limit journal entries of this session, newest
// first. Without a journal it returns nothing.
func (s *Session) Activity(limit int) ([]storage.Entry, error) {
	if s.journal == nil {
		return nil, nil
	}
	return s.journal.Recent(s.ID, limit)
}

func (s *Session) insert(t *task.Task) {
	s.tasks.Add(t)
	if !s.tree.AddTaskToCategory(t.Category, t) {
		s.logger.Debug("category not found, task not in tree", "title", t.Title, "category", t.Category)
	}
	if t.Urgent() {
		s.urgent.Enqueue(t)
	}
}

// detach removes the instance t. Other tasks with the same title stay.
func (s *Session) detach(t *task.Task) {
	s.tasks.RemoveTask(t)
	s.detachIndexes(t)
}

// detachIndexes removes the instance t from the urgent queue and the
// category tree.
func (s *Session) detachIndexes(t *task.Task) {
	if t.Urgent() {
		s.urgent.RemoveFunc(func(q *task.Task) bool { return q == t })
	}
	var removed bool
	switch s.removal {
	case RemoveShallow:
		removed = category.DetachTaskFromChildren(t, s.tree.Root)
	default:
		removed = s.tree.RemoveTaskDeep(t)
	}
	if !removed {
		s.logger.Debug("task left in tree", "title", t.Title, "category", t.Category)
	}
}

// swap puts to in place of from in every structure.
func (s *Session) swap(from, to *task.Task) {
	s.tasks.Replace(from, to)
	s.detachIndexes(from)
	s.tree.AddTaskToCategory(to.Category, to)
	if to.Urgent() {
		s.urgent.Enqueue(to)
	}
}

// recordAction journals every task an action touched, so a Remove of
// several same-titled tasks leaves one entry per task.
func (s *Session) recordAction(a history.Action, dir storage.Direction) {
	if r, ok := a.(history.Remove); ok {
		s.recordEach(r.Kind(), dir, r.Tasks)
		return
	}
	s.record(a.Kind(), dir, a.Subject())
}

func (s *Session) recordEach(kind history.Kind, dir storage.Direction, tasks []*task.Task) {
	for _, t := range tasks {
		s.record(kind, dir, t)
	}
}

func (s *Session) record(kind history.Kind, dir storage.Direction, t *task.Task) {
	if s.journal == nil || t == nil {
		return
	}
	e := storage.Entry{
		SessionID: s.ID,
		Kind:      string(kind),
		Direction: dir,
		Title:     t.Title,
		Category:  t.Category,
		Priority:  int(t.Priority),
	}
	if t.HasDue() {
		e.Due = sql.NullTime{Time: t.Due, Valid: true}
	}
	if _, err := s.journal.Append(e); err != nil {
		s.logger.Warn("journal append failed", "err", err, "title", t.Title)
	}
}

func subjectTitle(a history.Action) string {
	if t := a.Subject(); t != nil {
		return t.Title
	}
	return ""
}
