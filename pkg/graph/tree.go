package graph

import "fmt"

// AttachBasic links n under the node with id head in the basic tree and
// records the dependency relation label.
//
// It returns ErrSelfAttach when head is n's own id, ErrUnknownHead when head
// is absent from the store, and ErrCycle when head already depends on n
// through its own parent chain. On success the node's BasicParent and
// BasicRelation are set and n's id is appended to the head's BasicChildren.
//
// The ancestor check walks parent pointers iteratively, bounded by the
// sentence size, so pathological inputs cannot exhaust the stack.
func AttachBasic(s *Store, n *Node, head ID, relation string) error {
	if head == n.ID {
		return fmt.Errorf("%w: %s", ErrSelfAttach, n.ID)
	}
	parent, ok := s.Node(head)
	if !ok {
		return fmt.Errorf("%w: %s (head of %s)", ErrUnknownHead, head, n.ID)
	}
	limit := s.Len() + 1
	for cur := parent; cur.BasicParent != nil && limit > 0; limit-- {
		if *cur.BasicParent == n.ID {
			return fmt.Errorf("%w: %s under %s", ErrCycle, n.ID, head)
		}
		next, ok := s.Node(*cur.BasicParent)
		if !ok {
			break
		}
		cur = next
	}
	h := head
	n.BasicParent = &h
	n.BasicRelation = relation
	parent.BasicChildren = append(parent.BasicChildren, n.ID)
	return nil
}

// DetachedBasic marks a node that carries no usable head reference, such as
// a multiword token range. The parent stays nil but the relation column is
// set to the empty marker so serialization never sees an undefined field.
func DetachedBasic(n *Node, emptyMarker string) {
	n.BasicParent = nil
	n.BasicRelation = emptyMarker
}
