package graph

import "fmt"

// Dep is one parsed DEPS column entry: an enhanced-graph head reference.
type Dep struct {
	Head     ID
	Relation string
}

// IndexEnhanced records the enhanced-graph head references of n on both
// endpoints: incoming on n, outgoing on the head. It returns ErrUnknownHead
// when a reference names an id absent from the store.
//
// An exact duplicate {head, relation} pair is dropped instead of stored
// twice; onDuplicate (if non-nil) is called once per dropped pair so the
// caller can count the anomaly. Edge order otherwise follows the input.
func IndexEnhanced(s *Store, n *Node, deps []Dep, onDuplicate func(head ID, relation string)) error {
	for _, d := range deps {
		head, ok := s.Node(d.Head)
		if !ok {
			return fmt.Errorf("%w: %s (enhanced head of %s)", ErrUnknownHead, d.Head, n.ID)
		}
		if n.HasIncoming(d.Head, d.Relation) {
			if onDuplicate != nil {
				onDuplicate(d.Head, d.Relation)
			}
			continue
		}
		n.In = append(n.In, Edge{Other: d.Head, Relation: d.Relation})
		head.Out = append(head.Out, Edge{Other: n.ID, Relation: d.Relation})
	}
	return nil
}
