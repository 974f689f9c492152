// ABOUTME: Read-only list surface of the view plus mutators that forward to the source
// ABOUTME: Also carries listener registration and incremental loading passthrough

package collection

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
)

// Errors returned by forwarding calls
var (
	ErrOutOfRange     = errors.New("index out of range")
	ErrNotIncremental = errors.New("source does not load incrementally")
)

// Len returns the number of visible items
func (v *View[T]) Len() int {
	return len(v.view)
}

// At returns the visible item at view index i
func (v *View[T]) At(i int) T {
	return v.view[i]
}

// IndexOf returns the view index of the first copy of item, or -1.
// It never consults the sort descriptions, so any item may be asked for.
func (v *View[T]) IndexOf(item T) int {
	return slices.Index(v.view, item)
}

// Contains reports whether item is visible
func (v *View[T]) Contains(item T) bool {
	return v.IndexOf(item) >= 0
}

// Items returns a copy of the view list
func (v *View[T]) Items() []T {
	return slices.Clone(v.view)
}

// All iterates over the view list with view indexes
func (v *View[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range v.view {
			if !yield(i, item) {
				return
			}
		}
	}
}

// ReadOnly reports whether the forwarding mutators are refused
func (v *View[T]) ReadOnly() bool {
	if v.source == nil {
		return true
	}

	if r, ok := v.source.(ReadOnlyReporter); ok {
		return r.ReadOnly()
	}

	return false
}

// Add appends item to the source. The view picks it up like any other source change.
func (v *View[T]) Add(item T) error {
	if err := v.writable(); err != nil {
		return err
	}

	v.forwardInsert(v.source.Len(), item)

	return nil
}

// Insert adds item to the source just before the source position of the
// item at view index i. i == Len() appends.
func (v *View[T]) Insert(i int, item T) error {
	if err := v.writable(); err != nil {
		return err
	}

	if i < 0 || i > len(v.view) {
		return fmt.Errorf("insert at %d of %d: %w", i, len(v.view), ErrOutOfRange)
	}

	at := v.source.Len()
	if i < len(v.view) {
		at = newPositions(v.source).sourceIndex(v.view, i)
	}

	v.forwardInsert(at, item)

	return nil
}

// Remove removes item from the source and reports whether it was there
func (v *View[T]) Remove(item T) (bool, error) {
	if err := v.writable(); err != nil {
		return false, err
	}

	at := newPositions(v.source).nth(item, 0, -1)
	if at < 0 {
		return false, nil
	}

	v.forwardRemove(at)

	return true, nil
}

// RemoveAt removes the item at view index i from the source
func (v *View[T]) RemoveAt(i int) error {
	if err := v.writable(); err != nil {
		return err
	}

	if i < 0 || i >= len(v.view) {
		return fmt.Errorf("remove at %d of %d: %w", i, len(v.view), ErrOutOfRange)
	}

	if at := newPositions(v.source).sourceIndex(v.view, i); at >= 0 {
		v.forwardRemove(at)
	}

	return nil
}

// Clear empties the source
func (v *View[T]) Clear() error {
	if err := v.writable(); err != nil {
		return err
	}

	if c, ok := v.source.(Clearer); ok {
		c.Clear()
	} else {
		for i := v.source.Len() - 1; i >= 0; i-- {
			v.source.RemoveAt(i)
		}
	}

	if !v.observing() {
		v.OnSourceChanged(ChangeEvent[T]{Action: ActionReset, NewIndex: -1, OldIndex: -1})
	}

	return nil
}

// NotifyItemChanged reports that the item at view index i changed without
// affecting any key. Key changes need a remove and re-insert in the source.
func (v *View[T]) NotifyItemChanged(i int) {
	v.checkAlive()

	if i < 0 || i >= len(v.view) {
		return
	}

	v.notifyVector(ItemChanged, i)
}

// HasMoreItems reports whether the source can load more items
func (v *View[T]) HasMoreItems() bool {
	return v.loader != nil && v.loader.HasMoreItems()
}

// LoadMoreItems asks the source to load up to count more items
func (v *View[T]) LoadMoreItems(ctx context.Context, count int) (int, error) {
	if v.loader == nil {
		return 0, ErrNotIncremental
	}

	return v.loader.LoadMoreItems(ctx, count)
}

// OnVectorChanged registers fn for structural changes of the view list
func (v *View[T]) OnVectorChanged(fn func(VectorChange)) (cancel func()) {
	v.checkAlive()

	return v.vectorChanged.add(fn)
}

// OnPropertyChanged registers fn for property changes
func (v *View[T]) OnPropertyChanged(fn func(name string)) (cancel func()) {
	v.checkAlive()

	return v.propertyChanged.add(fn)
}

// OnCurrentChanging registers a veto. A cursor move only happens if every veto returns true.
func (v *View[T]) OnCurrentChanging(allow func() bool) (cancel func()) {
	v.checkAlive()

	return v.currentChanging.add(allow)
}

// OnCurrentChanged registers fn for committed cursor moves
func (v *View[T]) OnCurrentChanged(fn func()) (cancel func()) {
	v.checkAlive()

	return v.currentChanged.add(fn)
}

func (v *View[T]) writable() error {
	v.checkAlive()

	if v.source == nil {
		return ErrNoSource
	}

	if v.ReadOnly() {
		return ErrReadOnly
	}

	return nil
}

// observing reports whether source changes reach the view through a subscription
func (v *View[T]) observing() bool {
	return v.unsubscribe != nil
}

func (v *View[T]) forwardInsert(at int, item T) {
	v.source.Insert(at, item)

	if !v.observing() {
		v.OnSourceChanged(ChangeEvent[T]{Action: ActionAdd, NewItems: []T{item}, NewIndex: at, OldIndex: -1})
	}
}

func (v *View[T]) forwardRemove(at int) {
	item := v.source.At(at)
	v.source.RemoveAt(at)

	if !v.observing() {
		v.OnSourceChanged(ChangeEvent[T]{Action: ActionRemove, OldItems: []T{item}, OldIndex: at, NewIndex: -1})
	}
}

func (v *View[T]) notifyVector(kind ChangeKind, index int) {
	change := VectorChange{Kind: kind, Index: index}
	for _, fn := range v.vectorChanged.snapshot() {
		fn(change)
	}
}

func (v *View[T]) notifyProperty(name string) {
	for _, fn := range v.propertyChanged.snapshot() {
		fn(name)
	}
}
