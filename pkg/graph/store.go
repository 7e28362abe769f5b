package graph

import (
	"fmt"
	"iter"
	"slices"
)

// Store owns the nodes of one sentence, keyed by id, together with the
// sentence's comment lines. An implicit root sentinel with id 0 is created
// eagerly; it anchors the basic tree but is excluded from ordered iteration
// and never bears a predicate.
//
// The zero value is not usable - use NewStore.
type Store struct {
	nodes    map[ID]*Node
	Comments []string

	// ordered is a lazily built, Compare-sorted view of the node ids,
	// invalidated by AddNode.
	ordered []ID
}

// NewStore creates an empty sentence store containing only the root
// sentinel.
func NewStore() *Store {
	s := &Store{nodes: make(map[ID]*Node)}
	s.nodes[Root] = &Node{ID: Root}
	return s
}

// AddNode adds a node to the sentence. It returns ErrDuplicateID if a node
// with the same id already exists, including an attempt to re-add the root.
func (s *Store) AddNode(n *Node) error {
	if _, exists := s.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateID, n.ID)
	}
	s.nodes[n.ID] = n
	s.ordered = nil
	return nil
}

// Node returns the node with the given id and true, or nil and false.
// The root sentinel is reachable under id 0.
func (s *Store) Node(id ID) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

// Root returns the sentinel root node.
func (s *Store) Root() *Node { return s.nodes[Root] }

// Len returns the number of nodes excluding the root sentinel.
func (s *Store) Len() int { return len(s.nodes) - 1 }

// OrderedNodes returns a restartable sequence of all nodes except the root
// sentinel, sorted by [ID.Compare]. The sort is computed once per mutation
// and shared by subsequent iterations.
func (s *Store) OrderedNodes() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		if s.ordered == nil {
			s.ordered = make([]ID, 0, len(s.nodes)-1)
			for id := range s.nodes {
				if !id.IsRoot() {
					s.ordered = append(s.ordered, id)
				}
			}
			slices.SortFunc(s.ordered, CompareIDs)
		}
		for _, id := range s.ordered {
			if !yield(s.nodes[id]) {
				return
			}
		}
	}
}
