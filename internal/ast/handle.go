package ast

// Handle is an owning, reference counted pointer to a node in an Arena.
// The zero Handle is the nil handle and means "absent".
//
// Handles are plain values: assigning one does not touch the count. Whoever
// holds a handle owns exactly one reference and must either Drop it, give it
// away (store it in a parent, return it) or Move it.
type Handle[T Node] struct {
	arena *Arena
	id    RecordID
	node  T
}

// Allocate registers node in a with a reference count of 1. The node's
// destructor releases its own children.
func Allocate[T Node](a *Arena, node T) Handle[T] {
	id := a.register(node, node.release)
	return Handle[T]{arena: a, id: id, node: node}
}

// As changes the static type of h without touching the count.
// The reference now belongs to the returned handle.
func As[U Node, T Node](h Handle[T]) (Handle[U], bool) {
	if h.IsNil() {
		return Handle[U]{}, true
	}
	n, ok := any(h.node).(U)
	if !ok {
		return Handle[U]{}, false
	}
	return Handle[U]{arena: h.arena, id: h.id, node: n}, true
}

// Erase is As[Node] for code that walks the tree without caring about types.
func Erase[T Node](h Handle[T]) Handle[Node] {
	if h.IsNil() {
		return Handle[Node]{}
	}
	return Handle[Node]{arena: h.arena, id: h.id, node: h.node}
}

func (h Handle[T]) IsNil() bool { return h.arena == nil }

// ID returns the arena record id, NoRecordID for the nil handle.
func (h Handle[T]) ID() RecordID { return h.id }

// Get returns the node. It panics if the record is no longer tracked.
func (h Handle[T]) Get() T {
	if h.IsNil() {
		var zero T
		return zero
	}
	h.arena.slot(h.id)
	return h.node
}

// Copy takes one more reference to the same node.
func (h Handle[T]) Copy() Handle[T] {
	if !h.IsNil() {
		h.arena.incRef(h.id)
	}
	return h
}

// Move transfers the reference to the result and leaves h nil.
func (h *Handle[T]) Move() Handle[T] {
	out := *h
	*h = Handle[T]{}
	return out
}

// Drop releases the reference and leaves h nil. When the count reaches
// zero the node's children are released too.
func (h *Handle[T]) Drop() {
	if h.IsNil() {
		return
	}
	a, id := h.arena, h.id
	*h = Handle[T]{}
	a.decRef(id)
}

// IsUnique reports whether h holds the only reference. The nil handle is
// unique.
func (h Handle[T]) IsUnique() bool {
	return h.IsNil() || h.arena.refCount(h.id) == 1
}

// RefCount returns the number of live references, 0 for the nil handle.
func (h Handle[T]) RefCount() int {
	if h.IsNil() {
		return 0
	}
	return h.arena.refCount(h.id)
}

// Seq is an owned sequence of child nodes.
type Seq[T Node] []Handle[T]

// Nodes returns the nodes in order.
func (s Seq[T]) Nodes() []T {
	out := make([]T, len(s))
	for i, h := range s {
		out[i] = h.Get()
	}
	return out
}

// Copy takes one more reference to every element.
func (s Seq[T]) Copy() Seq[T] {
	if s == nil {
		return nil
	}
	out := make(Seq[T], len(s))
	for i, h := range s {
		out[i] = h.Copy()
	}
	return out
}

// Drop releases every element and empties the sequence.
func (s *Seq[T]) Drop() {
	for i := range *s {
		(*s)[i].Drop()
	}
	*s = nil
}

// Prepend returns head followed by rest. Ownership of both moves into the
// result.
func Prepend[T Node](head Handle[T], rest Seq[T]) Seq[T] {
	out := make(Seq[T], 0, len(rest)+1)
	out = append(out, head)
	return append(out, rest...)
}
