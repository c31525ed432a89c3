// Package script replays a TOML list of task actions against a session and
// prints the resulting views. It is the non-interactive counterpart of the
// terminal UI.
package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	toml "github.com/pelletier/go-toml/v2"

	"taskdeck/internal/session"
	"taskdeck/internal/task"
)

const (
	OpAdd    = "add"
	OpRemove = "remove"
	OpModify = "modify"
	OpUndo   = "undo"
	OpRedo   = "redo"
)

var ErrUnknownOp = errors.New("unknown op")

var (
	heading = color.New(color.Bold, color.FgCyan).SprintFunc()
	dim     = color.New(color.Faint).SprintFunc()
	warn    = color.New(color.FgYellow).SprintFunc()
)

// Step is one scripted action. For modify, Title selects the task and the
// New* fields that are set replace the old values.
type Step struct {
	Op          string `toml:"op"`
	Title       string `toml:"title"`
	Description string `toml:"description"`
	Priority    int    `toml:"priority"`
	Due         string `toml:"due"`
	Category    string `toml:"category"`

	NewTitle       *string `toml:"new_title"`
	NewDescription *string `toml:"new_description"`
	NewPriority    *int    `toml:"new_priority"`
	NewDue         *string `toml:"new_due"`
	NewCategory    *string `toml:"new_category"`
}

type Script struct {
	// Verbose prints every view after each step, not just at the end.
	Verbose bool   `toml:"verbose"`
	Steps   []Step `toml:"steps"`
}

func Load(path string) (Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Script{}, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (Script, error) {
	var sc Script
	if err := toml.Unmarshal(data, &sc); err != nil {
		return Script{}, fmt.Errorf("parse script: %w", err)
	}
	return sc, nil
}

// Run applies every step in order and writes the views to w. A step that
// cannot be parsed stops the run; not-found conditions are reported and
// skipped.
func Run(s *session.Session, sc Script, w io.Writer) error {
	for i, st := range sc.Steps {
		note, err := apply(s, st)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Op, err)
		}
		if note != "" {
			fmt.Fprintf(w, "%s step %d: %s\n", warn("!"), i+1, note)
		}
		if sc.Verbose {
			fmt.Fprintf(w, "%s\n", dim(fmt.Sprintf("after step %d (%s)", i+1, st.Op)))
			PrintViews(s, w)
		}
	}
	if !sc.Verbose {
		PrintViews(s, w)
	}
	return nil
}

func apply(s *session.Session, st Step) (string, error) {
	switch strings.ToLower(strings.TrimSpace(st.Op)) {
	case OpAdd:
		_, err := s.Submit(task.Fields{
			Title:       st.Title,
			Description: st.Description,
			Priority:    strconv.Itoa(st.Priority),
			Due:         st.Due,
			Category:    st.Category,
		})
		return "", err
	case OpRemove:
		if !s.Remove(st.Title) {
			return fmt.Sprintf("no task titled %q", st.Title), nil
		}
	case OpModify:
		prev := s.Find(st.Title)
		if prev == nil {
			return fmt.Sprintf("no task titled %q", st.Title), nil
		}
		next, err := task.Parse(merge(prev, st))
		if err != nil {
			return "", err
		}
		s.Modify(st.Title, next)
	case OpUndo:
		if _, ok := s.Undo(); !ok {
			return "nothing to undo", nil
		}
	case OpRedo:
		if _, ok := s.Redo(); !ok {
			return "nothing to redo", nil
		}
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownOp, st.Op)
	}
	return "", nil
}

func merge(prev *task.Task, st Step) task.Fields {
	f := task.Fields{
		Title:       prev.Title,
		Description: prev.Description,
		Priority:    strconv.Itoa(int(prev.Priority)),
		Due:         prev.DueString(),
		Category:    prev.Category,
	}
	if st.NewTitle != nil {
		f.Title = *st.NewTitle
	}
	if st.NewDescription != nil {
		f.Description = *st.NewDescription
	}
	if st.NewPriority != nil {
		f.Priority = strconv.Itoa(*st.NewPriority)
	}
	if st.NewDue != nil {
		f.Due = *st.NewDue
	}
	if st.NewCategory != nil {
		f.Category = *st.NewCategory
	}
	return f
}

// PrintViews writes the task list, the urgent queue and the category tree.
func PrintViews(s *session.Session, w io.Writer) {
	fmt.Fprintln(w, heading("Tasks"))
	tasks := s.Tasks()
	if len(tasks) == 0 {
		fmt.Fprintln(w, dim("(none)"))
	}
	for _, t := range tasks {
		fmt.Fprintln(w, t.Line())
	}

	fmt.Fprintln(w, heading("Urgent"))
	urgent := s.UrgentTasks()
	if len(urgent) == 0 {
		fmt.Fprintln(w, dim("(none)"))
	}
	for i, t := range urgent {
		fmt.Fprintln(w, t.QueueLine(i+1))
	}

	fmt.Fprintln(w, heading("Tree"))
	fmt.Fprint(w, s.TreeText())
}
