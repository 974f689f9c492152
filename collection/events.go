// ABOUTME: Change notification types emitted by sources and collection views
// ABOUTME: Holds source change events, vector changes and the listener registry

package collection

import "fmt"

// Action identifies the kind of mutation a source reports
type Action int

const (
	ActionAdd Action = iota
	ActionRemove
	ActionReplace
	ActionMove
	ActionReset
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionReplace:
		return "replace"
	case ActionMove:
		return "move"
	case ActionReset:
		return "reset"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ChangeEvent describes one mutation of a source list.
// The source is already mutated when the event is delivered.
type ChangeEvent[T any] struct {
	Action   Action
	NewItems []T
	OldItems []T
	NewIndex int // position of NewItems[0] (Add, Replace, Move)
	OldIndex int // former position of OldItems[0] (Remove, Replace, Move)
}

// ChangeKind identifies a structural change of a view
type ChangeKind int

const (
	Reset ChangeKind = iota
	ItemInserted
	ItemRemoved
	ItemChanged
)

func (k ChangeKind) String() string {
	switch k {
	case Reset:
		return "reset"
	case ItemInserted:
		return "inserted"
	case ItemRemoved:
		return "removed"
	case ItemChanged:
		return "changed"
	default:
		return fmt.Sprintf("change(%d)", int(k))
	}
}

// VectorChange is emitted for every structural change of the view list
type VectorChange struct {
	Kind  ChangeKind
	Index int
}

// Property names reported through OnPropertyChanged
const (
	PropertySource           = "Source"
	PropertyFilter           = "Filter"
	PropertyGroupDescription = "GroupDescription"
	PropertyIsGrouped        = "IsGrouped"
)

// listeners is an ordered set of callbacks with cancellable registrations
type listeners[F any] struct {
	seq     int
	entries []listener[F]
}

type listener[F any] struct {
	id int
	fn F
}

// add registers fn and returns a func that removes it again
func (l *listeners[F]) add(fn F) func() {
	l.seq++
	id := l.seq
	l.entries = append(l.entries, listener[F]{id: id, fn: fn})

	return func() {
		for i, e := range l.entries {
			if e.id == id {
				l.entries = append(l.entries[:i:i], l.entries[i+1:]...)

				return
			}
		}
	}
}

// snapshot copies the callbacks so handlers may unsubscribe while being invoked
func (l *listeners[F]) snapshot() []F {
	fns := make([]F, len(l.entries))
	for i, e := range l.entries {
		fns[i] = e.fn
	}

	return fns
}

func (l *listeners[F]) len() int {
	return len(l.entries)
}

func (l *listeners[F]) clear() {
	l.entries = nil
}
