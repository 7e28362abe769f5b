package graph

import "errors"

var (
	// ErrBadID is returned by [ParseID] when an id column value is neither a
	// word id, an empty-node id, nor a multiword range.
	ErrBadID = errors.New("malformed node ID")

	// ErrDuplicateID is returned by [Store.AddNode] when a node with the same
	// id already exists in the sentence. Node ids must be unique.
	ErrDuplicateID = errors.New("duplicate node ID")

	// ErrUnknownHead is returned by [AttachBasic] and [IndexEnhanced] when a
	// head reference names an id absent from the store. This indicates a
	// corrupt or truncated sentence.
	ErrUnknownHead = errors.New("unknown head ID")

	// ErrSelfAttach is returned by [AttachBasic] when a node's head reference
	// is the node itself.
	ErrSelfAttach = errors.New("node attached to itself")

	// ErrCycle is returned by [AttachBasic] when the prospective head already
	// depends, through its own parent chain, on the node being attached.
	// The basic tree must remain a forest.
	ErrCycle = errors.New("basic tree attachment would create a cycle")
)
