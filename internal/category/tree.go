// Package category groups tasks under named categories and subcategories.
package category

import (
	"slices"
	"strings"

	"taskdeck/internal/task"
)

const (
	DefaultRootName = "Tasks"
	DefaultIndent   = 4
)

// Node is a named grouping point. Children are owned by the node; tasks
// are shared with the task collection.
type Node struct {
	Name     string
	Children []*Node
	Tasks    []*task.Task
}

func (n *Node) addChild(name string) *Node {
	child := &Node{Name: name}
	n.Children = append(n.Children, child)
	return child
}

// removeTitle drops every task with the given title and reports how many
// were removed.
func (n *Node) removeTitle(title string) int {
	before := len(n.Tasks)
	n.Tasks = slices.DeleteFunc(n.Tasks, func(t *task.Task) bool { return t.Title == title })
	return before - len(n.Tasks)
}

// removeTask drops the exact instance t and reports whether it was held.
func (n *Node) removeTask(t *task.Task) bool {
	idx := slices.Index(n.Tasks, t)
	if idx < 0 {
		return false
	}
	n.Tasks = slices.Delete(n.Tasks, idx, idx+1)
	return true
}

// Spec describes a category and its subcategories for Seed.
type Spec struct {
	Name     string
	Children []Spec
}

type Tree struct {
	Root   *Node
	indent int
}

func New(rootName string, indent int) *Tree {
	if rootName == "" {
		rootName = DefaultRootName
	}
	if indent <= 0 {
		indent = DefaultIndent
	}
	return &Tree{Root: &Node{Name: rootName}, indent: indent}
}

func (tr *Tree) AddCategory(name string) *Node {
	return tr.Root.addChild(name)
}

func (tr *Tree) AddSubCategory(parent *Node, name string) *Node {
	return parent.addChild(name)
}

// Seed creates the given categories under the root, recursively.
func (tr *Tree) Seed(specs []Spec) {
	var build func(parent *Node, specs []Spec)
	build = func(parent *Node, specs []Spec) {
		for _, s := range specs {
			if strings.TrimSpace(s.Name) == "" {
				continue
			}
			build(tr.AddSubCategory(parent, s.Name), s.Children)
		}
	}
	build(tr.Root, specs)
}

// AddTaskToCategory attaches t to the first node named name in pre-order.
// It reports false when no such node exists.
func (tr *Tree) AddTaskToCategory(name string, t *task.Task) bool {
	node := tr.FindCategoryNode(name)
	if node == nil {
		return false
	}
	node.Tasks = append(node.Tasks, t)
	return true
}

func (tr *Tree) FindCategoryNode(name string) *Node {
	return FindCategoryNodeFrom(tr.Root, name)
}

// FindCategoryNodeFrom searches node and its descendants depth-first,
// pre-order, and returns the first node with the given name.
func FindCategoryNodeFrom(node *Node, name string) *Node {
	if node.Name == name {
		return node
	}
	for _, child := range node.Children {
		if found := FindCategoryNodeFrom(child, name); found != nil {
			return found
		}
	}
	return nil
}

// RemoveTaskFromTree looks only at the direct children of node for one
// named t.Category and drops tasks titled t.Title from it. node itself and
// deeper descendants are not inspected.
func RemoveTaskFromTree(t *task.Task, node *Node) bool {
	for _, child := range node.Children {
		if child.Name == t.Category {
			return child.removeTitle(t.Title) > 0
		}
	}
	return false
}

// RemoveTaskDeep drops the instance t from the node it would have been
// attached to by AddTaskToCategory. Other tasks with the same title stay.
func (tr *Tree) RemoveTaskDeep(t *task.Task) bool {
	node := tr.FindCategoryNode(t.Category)
	if node == nil {
		return false
	}
	return node.removeTask(t)
}

// DetachTaskFromChildren is the instance-based form of RemoveTaskFromTree:
// only the direct children of node named t.Category are inspected.
func DetachTaskFromChildren(t *task.Task, node *Node) bool {
	for _, child := range node.Children {
		if child.Name == t.Category {
			return child.removeTask(t)
		}
	}
	return false
}

// Paths lists every category below the root as slash-joined paths in
// pre-order, e.g. "Work", "Work/Meetings".
func (tr *Tree) Paths() []string {
	var out []string
	var walk func(n *Node, prefix string)
	walk = func(n *Node, prefix string) {
		for _, child := range n.Children {
			p := child.Name
			if prefix != "" {
				p = prefix + "/" + child.Name
			}
			out = append(out, p)
			walk(child, p)
		}
	}
	walk(tr.Root, "")
	return out
}

func (tr *Tree) Render() string {
	var b strings.Builder
	tr.render(&b, tr.Root, 0)
	return b.String()
}

func (tr *Tree) render(b *strings.Builder, n *Node, level int) {
	b.WriteString(strings.Repeat(" ", level*tr.indent))
	b.WriteString(n.Name)
	b.WriteString("\n")
	for _, t := range n.Tasks {
		b.WriteString(strings.Repeat(" ", (level+1)*tr.indent))
		b.WriteString("- ")
		b.WriteString(t.Title)
		b.WriteString("\n")
	}
	for _, child := range n.Children {
		tr.render(b, child, level+1)
	}
}
