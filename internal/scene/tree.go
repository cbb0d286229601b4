package scene

import (
	"fmt"
	"reflect"
)

// Action is the kind of change a reconciliation emits
type Action int

const (
	Create Action = iota
	Update
	Delete
)

// String returns the string representation of the action
func (a Action) String() string {
	switch a {
	case Create:
		return "create"
	case Update:
		return "update"
	case Delete:
		return "delete"
	default:
		return "unknown"
	}
}

// Op is one change between the previously applied frame and the new one.
// Group-level ops leave NodeKey empty; Node is nil for deletes.
type Op struct {
	Action   Action
	GroupKey string
	NodeKey  string
	Group    *Group
	Node     *Node
}

func (o Op) String() string {
	if o.NodeKey == "" {
		return fmt.Sprintf("%s %s", o.Action, o.GroupKey)
	}
	return fmt.Sprintf("%s %s/%s", o.Action, o.GroupKey, o.NodeKey)
}

// Tree retains the last applied frame and reconciles new frames against
// it by stable group and node keys. The zero value is ready to use.
// A Tree is not safe for concurrent use.
type Tree struct {
	current Frame
	applied bool
}

// Apply replaces the retained frame with f and returns the ops that turn
// the previous frame into f. Creates and updates follow the order of f;
// deletes come last, in the order of the previous frame.
func (t *Tree) Apply(f Frame) []Op {
	prevGroups := make(map[string]*Group, len(t.current.Groups))
	for i := range t.current.Groups {
		prevGroups[t.current.Groups[i].Key] = &t.current.Groups[i]
	}

	var ops []Op
	seen := make(map[string]bool, len(f.Groups))
	for i := range f.Groups {
		g := &f.Groups[i]
		seen[g.Key] = true

		prev, ok := prevGroups[g.Key]
		if !ok {
			ops = append(ops, Op{Action: Create, GroupKey: g.Key, Group: g})
			for j := range g.Nodes {
				ops = append(ops, Op{Action: Create, GroupKey: g.Key, NodeKey: g.Nodes[j].Key, Node: &g.Nodes[j]})
			}
			continue
		}

		if prev.Translate != g.Translate || prev.Class != g.Class {
			ops = append(ops, Op{Action: Update, GroupKey: g.Key, Group: g})
		}
		ops = append(ops, diffNodes(g.Key, prev.Nodes, g.Nodes)...)
	}

	for i := range t.current.Groups {
		prev := &t.current.Groups[i]
		if !seen[prev.Key] {
			ops = append(ops, Op{Action: Delete, GroupKey: prev.Key})
		}
	}

	t.current = f
	t.applied = true
	return ops
}

// Frame returns the retained frame and whether one was applied yet
func (t *Tree) Frame() (Frame, bool) {
	return t.current, t.applied
}

// Reset drops the retained frame so the next Apply creates everything
func (t *Tree) Reset() {
	t.current = Frame{}
	t.applied = false
}

func diffNodes(groupKey string, prev, next []Node) []Op {
	prevByKey := make(map[string]*Node, len(prev))
	for i := range prev {
		prevByKey[prev[i].Key] = &prev[i]
	}

	var ops []Op
	seen := make(map[string]bool, len(next))
	for i := range next {
		n := &next[i]
		seen[n.Key] = true
		old, ok := prevByKey[n.Key]
		switch {
		case !ok:
			ops = append(ops, Op{Action: Create, GroupKey: groupKey, NodeKey: n.Key, Node: n})
		case !reflect.DeepEqual(*old, *n):
			ops = append(ops, Op{Action: Update, GroupKey: groupKey, NodeKey: n.Key, Node: n})
		}
	}
	for i := range prev {
		if !seen[prev[i].Key] {
			ops = append(ops, Op{Action: Delete, GroupKey: groupKey, NodeKey: prev[i].Key})
		}
	}
	return ops
}

// Count tallies ops by action
func Count(ops []Op) map[Action]int {
	counts := make(map[Action]int, 3)
	for _, op := range ops {
		counts[op.Action]++
	}
	return counts
}
