package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/config"
	"taskdeck/internal/session"
	"taskdeck/internal/task"
)

const activityLimit = 5

type mode int

const (
	modeList mode = iota
	modeForm
	modeConfirmRemove
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	urgentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// formState holds the task form while it is open. editing is the title of
// the task being modified, empty when adding.
type formState struct {
	editing     string
	title       string
	description string
	priority    string
	due         string
	category    string
	index       int
}

type Model struct {
	sess          *session.Session
	cfg           config.Config
	cursor        int
	mode          mode
	input         textinput.Model
	status        string
	form          *formState
	pendingRemove string
}

func New(sess *session.Session, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "Task title"
	ti.CharLimit = 256
	ti.Width = 40

	return Model{
		sess:   sess,
		cfg:    cfg,
		input:  ti,
		mode:   modeList,
		status: fmt.Sprintf("Press '%s' to add, '%s' to undo, '%s' to redo.", cfg.Keys.Add, cfg.Keys.Undo, cfg.Keys.Redo),
	}
}

func Run(sess *session.Session, cfg config.Config) error {
	program := tea.NewProgram(New(sess, cfg))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeForm:
			return m.updateFormMode(msg.String(), msg)
		case modeConfirmRemove:
			return m.updateRemoveConfirm(msg.String())
		default:
			return m.updateListMode(msg.String())
		}
	case tea.WindowSizeMsg:
		m.input.Width = msg.Width - 10
	}
	return m, nil
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	tasks := m.sess.Tasks()
	switch key {
	case "ctrl+c", m.cfg.Keys.Quit:
		return m, tea.Quit
	case m.cfg.Keys.Down, "down":
		m.cursor = clampCursor(m.cursor+1, len(tasks))
	case m.cfg.Keys.Up, "up":
		m.cursor = clampCursor(m.cursor-1, len(tasks))
	case m.cfg.Keys.Add:
		return m.startForm(nil)
	case m.cfg.Keys.Edit:
		if len(tasks) == 0 {
			m.status = "No tasks to edit"
			return m, nil
		}
		return m.startForm(tasks[clampCursor(m.cursor, len(tasks))])
	case m.cfg.Keys.Remove:
		if len(tasks) == 0 {
			m.status = "No tasks to remove"
			return m, nil
		}
		t := tasks[clampCursor(m.cursor, len(tasks))]
		m.pendingRemove = t.Title
		m.mode = modeConfirmRemove
		m.status = fmt.Sprintf("Remove \"%s\"? y/n", t.Title)
	case m.cfg.Keys.Undo:
		a, ok := m.sess.Undo()
		if !ok {
			m.status = "Nothing to undo"
			return m, nil
		}
		m.status = fmt.Sprintf("Undid %s of \"%s\"", a.Kind(), subjectTitle(a.Subject()))
	case m.cfg.Keys.Redo:
		a, ok := m.sess.Redo()
		if !ok {
			m.status = "Nothing to redo"
			return m, nil
		}
		m.status = fmt.Sprintf("Redid %s of \"%s\"", a.Kind(), subjectTitle(a.Subject()))
	}
	m.cursor = clampCursor(m.cursor, len(m.sess.Tasks()))
	return m, nil
}

func (m Model) updateRemoveConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Remove cancelled"
	case "y", "Y":
		if m.sess.Remove(m.pendingRemove) {
			m.status = "Removed task"
		} else {
			m.status = "Nothing to remove"
		}
	default:
		return m, nil
	}
	m.mode = modeList
	m.pendingRemove = ""
	m.cursor = clampCursor(m.cursor, len(m.sess.Tasks()))
	return m, nil
}

func (m Model) startForm(t *task.Task) (tea.Model, tea.Cmd) {
	m.form = &formState{priority: "0"}
	m.status = "New task: tab/shift+tab to move, enter to advance, esc to cancel"
	if t != nil {
		m.form = &formState{
			editing:     t.Title,
			title:       t.Title,
			description: t.Description,
			priority:    strconv.Itoa(int(t.Priority)),
			due:         t.DueString(),
			category:    t.Category,
		}
		m.status = fmt.Sprintf("Editing \"%s\": tab/shift+tab to move, enter to advance, esc to cancel", t.Title)
	}
	m.mode = modeForm
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.input.Focus()
	return m, nil
}

func (m Model) updateFormMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case m.cfg.Keys.Cancel, "esc":
		m.closeForm()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.NextField, "down":
		m.moveField(1)
		return m, nil
	case m.cfg.Keys.PrevField, "up":
		m.moveField(-1)
		return m, nil
	case m.cfg.Keys.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= len(formFields())-1 {
			return m.submitForm()
		}
		m.moveField(1)
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m *Model) moveField(delta int) {
	m.form.setCurrentValue(m.input.Value())
	m.form.index = wrapIndex(m.form.index+delta, len(formFields()))
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
}

func (m *Model) closeForm() {
	m.form = nil
	m.mode = modeList
	m.input.SetValue("")
	m.input.Blur()
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	fields := m.form.fields()
	if m.form.editing == "" {
		t, err := m.sess.Submit(fields)
		if err != nil {
			m.status = fmt.Sprintf("add failed: %v", err)
			return m, nil
		}
		m.closeForm()
		m.status = fmt.Sprintf("Added \"%s\"", t.Title)
		m.cursor = indexOf(m.sess.Tasks(), t)
		return m, nil
	}

	next, err := task.Parse(fields)
	if err != nil {
		m.status = fmt.Sprintf("edit failed: %v", err)
		return m, nil
	}
	editing := m.form.editing
	m.closeForm()
	if !m.sess.Modify(editing, next) {
		m.status = fmt.Sprintf("\"%s\" no longer exists", editing)
		return m, nil
	}
	m.status = fmt.Sprintf("Saved \"%s\"", next.Title)
	m.cursor = indexOf(m.sess.Tasks(), next)
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("taskdeck"))
	b.WriteString("\n\n")

	b.WriteString(headingStyle.Render("Tasks"))
	b.WriteString("\n")
	b.WriteString(m.renderTaskList())

	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Urgent"))
	b.WriteString("\n")
	b.WriteString(m.renderUrgent())

	b.WriteString("\n")
	b.WriteString(headingStyle.Render("Categories"))
	b.WriteString("\n")
	b.WriteString(m.sess.TreeText())

	if activity := m.renderActivity(); activity != "" {
		b.WriteString("\n")
		b.WriteString(headingStyle.Render("Activity"))
		b.WriteString("\n")
		b.WriteString(activity)
	}

	if m.form != nil {
		b.WriteString("\n")
		b.WriteString(boxStyle.Render(m.renderForm()))
		b.WriteString("\n")
		b.WriteString("Field: " + m.form.currentLabel())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	}

	b.WriteString("\n\n")
	b.WriteString(m.status)
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(renderHelp(m.cfg.Keys)))

	return b.String()
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s add • %s edit • %s remove • %s undo • %s redo • %s quit",
		k.Up, k.Down, k.Add, k.Edit, k.Remove, k.Undo, k.Redo, k.Quit)
}

func (m Model) renderTaskList() string {
	tasks := m.sess.Tasks()
	if len(tasks) == 0 {
		return dimStyle.Render(fmt.Sprintf("No tasks yet. Press '%s' to add one.", m.cfg.Keys.Add)) + "\n"
	}
	var b strings.Builder
	for i, t := range tasks {
		cursor := " "
		if m.cursor == i && m.mode != modeForm {
			cursor = ">"
		}
		line := fmt.Sprintf("%s %s", cursor, t.Line())
		if t.Urgent() {
			line = urgentStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderUrgent() string {
	urgent := m.sess.UrgentTasks()
	if len(urgent) == 0 {
		return dimStyle.Render("(empty)") + "\n"
	}
	var b strings.Builder
	for i, t := range urgent {
		b.WriteString(t.QueueLine(i + 1))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderActivity() string {
	entries, err := m.sess.Activity(activityLimit)
	if err != nil {
		return dimStyle.Render(fmt.Sprintf("activity unavailable: %v", err)) + "\n"
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(dimStyle.Render(fmt.Sprintf("%s %-6s %-6s %s", e.CreatedAt.Local().Format("15:04:05"), e.Direction, e.Kind, e.Title)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderForm() string {
	values := m.form.values()
	var b strings.Builder
	for i, name := range formFields() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		val := values[i]
		if strings.TrimSpace(val) == "" {
			val = "(empty)"
		}
		b.WriteString(fmt.Sprintf("%s %-22s : %s\n", prefix, name, val))
	}
	if cats := m.sess.Categories(); len(cats) > 0 {
		b.WriteString(dimStyle.Render("categories: " + strings.Join(cats, ", ")))
	}
	return b.String()
}

func formFields() []string {
	return []string{"title", "description", "priority (0/1)", "due date (YYYY-MM-DD)", "category"}
}

func (fs formState) currentLabel() string {
	return formFields()[fs.index]
}

func (fs formState) values() []string {
	return []string{fs.title, fs.description, fs.priority, fs.due, fs.category}
}

func (fs formState) currentValue() string {
	values := fs.values()
	if fs.index < 0 || fs.index >= len(values) {
		return ""
	}
	return values[fs.index]
}

func (fs *formState) setCurrentValue(v string) {
	switch fs.index {
	case 0:
		fs.title = v
	case 1:
		fs.description = v
	case 2:
		fs.priority = v
	case 3:
		fs.due = v
	case 4:
		fs.category = v
	}
}

func (fs formState) fields() task.Fields {
	return task.Fields{
		Title:       fs.title,
		Description: fs.description,
		Priority:    fs.priority,
		Due:         fs.due,
		Category:    fs.category,
	}
}

func subjectTitle(t *task.Task) string {
	if t == nil {
		return ""
	}
	return t.Title
}

func indexOf(tasks []*task.Task, t *task.Task) int {
	for i, x := range tasks {
		if x == t {
			return i
		}
	}
	return 0
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}
