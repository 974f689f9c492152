// ABOUTME: Source list contracts consumed by the collection view
// ABOUTME: Includes the observable List implementation that publishes change events

package collection

import (
	"context"
	"slices"
)

// Source is an ordered, mutable sequence owned by the caller.
// Items must keep a stable identity while they are in the source.
type Source[T any] interface {
	Len() int
	At(i int) T
	Insert(i int, item T)
	RemoveAt(i int)
}

// Observable is implemented by sources that report their mutations
type Observable[T any] interface {
	Subscribe(fn func(ChangeEvent[T])) (cancel func())
}

// Clearer is implemented by sources that can drop all items in one step
type Clearer interface {
	Clear()
}

// ReadOnlyReporter is implemented by sources that refuse mutation
type ReadOnlyReporter interface {
	ReadOnly() bool
}

// IncrementalLoader is implemented by sources that page in more items on demand.
// The view forwards these calls without interpreting them.
type IncrementalLoader interface {
	HasMoreItems() bool
	LoadMoreItems(ctx context.Context, count int) (int, error)
}

// List is an observable slice-backed Source.
// Every mutating call publishes exactly one ChangeEvent after the slice is updated.
type List[T comparable] struct {
	items       []T
	subscribers listeners[func(ChangeEvent[T])]
}

// NewList creates a list holding a copy of items
func NewList[T comparable](items ...T) *List[T] {
	return &List[T]{items: slices.Clone(items)}
}

// Len returns the number of items
func (l *List[T]) Len() int {
	return len(l.items)
}

// At returns the item at index i
func (l *List[T]) At(i int) T {
	return l.items[i]
}

// Items returns a copy of the items
func (l *List[T]) Items() []T {
	return slices.Clone(l.items)
}

// IndexOf returns the index of item, or -1
func (l *List[T]) IndexOf(item T) int {
	return slices.Index(l.items, item)
}

// Contains reports whether item is in the list
func (l *List[T]) Contains(item T) bool {
	return l.IndexOf(item) >= 0
}

// Subscribe registers fn for change events
func (l *List[T]) Subscribe(fn func(ChangeEvent[T])) func() {
	return l.subscribers.add(fn)
}

// Append adds item at the end
func (l *List[T]) Append(item T) {
	l.Insert(len(l.items), item)
}

// Insert adds item at index i
func (l *List[T]) Insert(i int, item T) {
	l.items = slices.Insert(l.items, i, item)
	l.publish(ChangeEvent[T]{Action: ActionAdd, NewItems: []T{item}, NewIndex: i, OldIndex: -1})
}

// AddRange appends several items as a single Add event
func (l *List[T]) AddRange(items ...T) {
	if len(items) == 0 {
		return
	}

	start := len(l.items)
	l.items = append(l.items, items...)
	l.publish(ChangeEvent[T]{Action: ActionAdd, NewItems: slices.Clone(items), NewIndex: start, OldIndex: -1})
}

// RemoveAt removes the item at index i
func (l *List[T]) RemoveAt(i int) {
	old := l.items[i]
	l.items = slices.Delete(l.items, i, i+1)
	l.publish(ChangeEvent[T]{Action: ActionRemove, OldItems: []T{old}, OldIndex: i, NewIndex: -1})
}

// Remove removes the first occurrence of item and reports whether it was found
func (l *List[T]) Remove(item T) bool {
	i := l.IndexOf(item)
	if i < 0 {
		return false
	}

	l.RemoveAt(i)

	return true
}

// Replace swaps the item at index i for item
func (l *List[T]) Replace(i int, item T) {
	old := l.items[i]
	l.items[i] = item
	l.publish(ChangeEvent[T]{
		Action:   ActionReplace,
		NewItems: []T{item},
		OldItems: []T{old},
		NewIndex: i,
		OldIndex: i,
	})
}

// Move relocates the item at index from so it ends up at index to
func (l *List[T]) Move(from, to int) {
	item := l.items[from]
	l.items = slices.Delete(l.items, from, from+1)
	l.items = slices.Insert(l.items, to, item)
	l.publish(ChangeEvent[T]{
		Action:   ActionMove,
		NewItems: []T{item},
		OldItems: []T{item},
		NewIndex: to,
		OldIndex: from,
	})
}

// Reset replaces the whole content
func (l *List[T]) Reset(items ...T) {
	l.items = slices.Clone(items)
	l.publish(ChangeEvent[T]{Action: ActionReset, NewIndex: -1, OldIndex: -1})
}

// Clear removes every item
func (l *List[T]) Clear() {
	l.Reset()
}

func (l *List[T]) publish(e ChangeEvent[T]) {
	for _, fn := range l.subscribers.snapshot() {
		fn(e)
	}
}
