package task

import "fmt"

// Line is the one-line form used by the task list.
func (t *Task) Line() string {
	due := "none"
	if t.HasDue() {
		due = t.Due.Format("Mon Jan 02 2006")
	}
	return fmt.Sprintf("%s - %s (Priority: %s, Due: %s)", t.Title, t.Description, t.Priority, due)
}

// QueueLine is the numbered form used by the urgent queue; n starts at 1.
func (t *Task) QueueLine(n int) string {
	return fmt.Sprintf("%d. %s - %s", n, t.Title, t.Description)
}
