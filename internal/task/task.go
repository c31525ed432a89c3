package task

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrMissingTitle    = errors.New("title is empty")
	ErrInvalidPriority = errors.New("priority must be 0 or 1")
)

type Priority int

const (
	PriorityNormal Priority = 0
	PriorityHigh   Priority = 1
)

func (p Priority) String() string {
	if p == PriorityHigh {
		return "High"
	}
	return "Normal"
}

// Task is shared by pointer between the collection, the category tree and
// the urgent queue. Treat it as immutable once built; Modify swaps instances.
type Task struct {
	Title       string
	Description string
	Priority    Priority
	Due         time.Time
	Category    string
}

func (t *Task) Urgent() bool {
	return t.Priority == PriorityHigh
}

func (t *Task) HasDue() bool {
	return !t.Due.IsZero()
}

func (t *Task) DueString() string {
	if !t.HasDue() {
		return ""
	}
	return t.Due.Format(DateLayout)
}

// Fields holds raw form values before they become a Task.
type Fields struct {
	Title       string
	Description string
	Priority    string
	Due         string
	Category    string
}

func Parse(f Fields) (*Task, error) {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return nil, ErrMissingTitle
	}
	priority, err := ParsePriority(f.Priority)
	if err != nil {
		return nil, err
	}
	due, err := ParseDate(f.Due)
	if err != nil {
		return nil, fmt.Errorf("parse due date: %w", err)
	}
	return &Task{
		Title:       title,
		Description: strings.TrimSpace(f.Description),
		Priority:    priority,
		Due:         due,
		Category:    strings.TrimSpace(f.Category),
	}, nil
}

// ParsePriority accepts "", "0", "1" and the words normal/high.
func ParsePriority(v string) (Priority, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case "", "normal", "n":
		return PriorityNormal, nil
	case "high", "h", "urgent":
		return PriorityHigh, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return PriorityNormal, fmt.Errorf("%w: %q", ErrInvalidPriority, v)
	}
	switch Priority(n) {
	case PriorityNormal, PriorityHigh:
		return Priority(n), nil
	default:
		return PriorityNormal, fmt.Errorf("%w: %d", ErrInvalidPriority, n)
	}
}

func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, v)
}
