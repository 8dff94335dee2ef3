package glob

import (
	"errors"
	"fmt"
	"strings"
)

// State is the outcome of matching one name against one matcher node.
type State int

// Exported constants.
const (
	// Rejected means the name does not satisfy the node.
	Rejected State = iota
	// Accepted means the node matched; continue with the returned node against the
	// entry's children.
	Accepted
	// Completed means the final node matched and the entry is a result.
	Completed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Rejected:
		return "rejected"
	case Accepted:
		return "accepted"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Exported variables.
var (
	ErrEmptyPattern    = errors.New("path is empty.")
	ErrTrailingAnyDirs = errors.New(`the path ending with "**" is not allowed.`)
)

type nodeKind int

const (
	exactName nodeKind = iota
	namePattern
	anyDirectories
)

// Node is one link of a matcher chain.
type Node struct {
	kind      nodeKind
	name      string
	pattern   NamePattern
	mustBeDir bool
	next      *Node
}

// Chain is a compiled path pattern.
type Chain struct {
	first *Node
}

// Compile builds the matcher chain for a path pattern. Components are separated by '/'
// or '\'; empty components are skipped. Every component except the last must match a
// directory. "**" matches zero or more directory levels and may not end the pattern.
func Compile(pattern string) (*Chain, error) {
	if pattern == "" {
		return nil, ErrEmptyPattern
	}

	components := strings.FieldsFunc(pattern, func(r rune) bool { return r == '/' || r == '\\' })

	var next *Node

	mustBeDir := false

	for i := len(components) - 1; i >= 0; i-- {
		component := components[i]

		switch {
		case component == "." || component == "..":
			return nil, fmt.Errorf("%q in the path is not allowed.", component)
		case component == "**":
			if next == nil {
				return nil, ErrTrailingAnyDirs
			}
			next = &Node{kind: anyDirectories, next: next}
		case ContainsWildcard(component):
			next = &Node{kind: namePattern, pattern: NewNamePattern(component), mustBeDir: mustBeDir, next: next}
		default:
			next = &Node{kind: exactName, name: component, mustBeDir: mustBeDir, next: next}
		}

		mustBeDir = true
	}

	return &Chain{first: next}, nil
}

// MatchRoot matches the root of the walk. An empty chain denotes the root itself.
func (c *Chain) MatchRoot() (State, *Node) {
	if c.first == nil {
		return Completed, nil
	}

	return Accepted, c.first
}

// Match matches one entry against the node. On Accepted the returned node is the one
// to use for the entry's children.
func (n *Node) Match(name string, isDir bool) (State, *Node) {
	switch n.kind {
	case exactName:
		return n.advance(name == n.name, isDir)
	case namePattern:
		return n.advance(n.pattern.Matches(name), isDir)
	case anyDirectories:
		state, next := n.next.Match(name, isDir)
		if state != Rejected {
			return state, next
		}
		if isDir {
			return Accepted, n
		}

		return Rejected, nil
	default:
		return Rejected, nil
	}
}

func (n *Node) advance(matched, isDir bool) (State, *Node) {
	if !matched || (n.mustBeDir && !isDir) {
		return Rejected, nil
	}
	if n.next == nil {
		return Completed, nil
	}

	return Accepted, n.next
}

// String renders the chain from this node on, for debugging.
func (n *Node) String() string {
	var parts []string

	for node := n; node != nil; node = node.next {
		switch node.kind {
		case exactName:
			parts = append(parts, node.name)
		case namePattern:
			parts = append(parts, node.pattern.String())
		case anyDirectories:
			parts = append(parts, "**")
		}
	}

	return strings.Join(parts, `\`)
}
