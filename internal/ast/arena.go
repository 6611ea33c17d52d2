package ast

import (
	"errors"
	"fmt"

	"bondrewd/internal/logging"
)

// RecordID identifies a live allocation inside an Arena. Ids are never reused
// within one arena, so a stale handle can not alias a newer node.
type RecordID uint32

// NoRecordID is the id of the nil handle.
const NoRecordID RecordID = 0

// ErrUntracked is the panic value (wrapped) raised when a handle refers to a
// record the arena does not know about: a double drop, a handle kept after
// Rollback or a handle from another arena.
var ErrUntracked = errors.New("ast: reference to an untracked arena record")

type record struct {
	id    RecordID
	value any
	dtor  func()
	refs  int
}

// Arena tracks reference counted AST nodes. Node memory itself belongs to the
// Go heap; the arena keeps the bookkeeping (refcount and destructor) in one
// dense table, so leaks and dangling handles are observable.
//
// An Arena is not safe for concurrent use. Parse different files in different
// arenas.
type Arena struct {
	name  string
	data  []record
	index map[RecordID]int // id -> slot in data
	next  RecordID
}

// Default is the process-wide arena.
var Default = NewArena("default", 1<<10)

// NewArena creates an arena. capHint is the expected number of live nodes;
// zero is allowed.
func NewArena(name string, capHint uint) *Arena {
	return &Arena{
		name:  name,
		data:  make([]record, 0, capHint),
		index: make(map[RecordID]int, capHint),
		next:  1,
	}
}

// Name returns the label given to NewArena.
func (a *Arena) Name() string { return a.name }

// Len returns the number of live records.
func (a *Arena) Len() int { return len(a.data) }

func (a *Arena) register(value any, dtor func()) RecordID {
	id := a.next
	a.next++
	a.index[id] = len(a.data)
	a.data = append(a.data, record{id: id, value: value, dtor: dtor, refs: 1})
	return id
}

// slot finds the record for id or aborts.
func (a *Arena) slot(id RecordID) int {
	i, ok := a.index[id]
	if !ok {
		logging.Get("arena").Errorf("arena %q: reference to a dangling record %d", a.name, id)
		panic(fmt.Errorf("%w: id %d in arena %q", ErrUntracked, id, a.name))
	}
	return i
}

func (a *Arena) incRef(id RecordID) {
	a.data[a.slot(id)].refs++
}

func (a *Arena) decRef(id RecordID) {
	i := a.slot(id)
	a.data[i].refs--
	if a.data[i].refs > 0 {
		return
	}
	dtor := a.data[i].dtor
	a.remove(i)
	// запись уже удалена: деструктор может свободно отпускать детей
	if dtor != nil {
		dtor()
	}
}

// remove drops slot i by swapping it with the last record.
func (a *Arena) remove(i int) {
	last := len(a.data) - 1
	delete(a.index, a.data[i].id)
	if i != last {
		a.data[i] = a.data[last]
		a.index[a.data[i].id] = i
	}
	a.data[last] = record{}
	a.data = a.data[:last]
}

func (a *Arena) refCount(id RecordID) int {
	return a.data[a.slot(id)].refs
}

// Mark returns a checkpoint for Rollback.
func (a *Arena) Mark() RecordID { return a.next }

// Rollback forgets every record allocated since mark without running
// destructors and returns how many were removed. It is used to discard the
// partial trees of an aborted parse; records allocated before mark must not
// reference newer ones.
func (a *Arena) Rollback(mark RecordID) int {
	n := 0
	for i := len(a.data) - 1; i >= 0; i-- {
		if a.data[i].id >= mark {
			a.remove(i)
			n++
		}
	}
	return n
}

// Close reports every record that is still referenced as a leak, empties the
// arena and returns the number of leaks.
func (a *Arena) Close() int {
	log := logging.Get("arena")
	for _, r := range a.data {
		log.Warningf("arena %q: leaked %T (id %d, refs=%d)", a.name, r.value, r.id, r.refs)
	}
	n := len(a.data)
	clear(a.index)
	a.data = a.data[:0]
	return n
}
