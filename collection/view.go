// ABOUTME: Grouped, sorted and filtered live projection over a mutable source list
// ABOUTME: Reacts to single-item source changes incrementally and rebuilds on bulk changes

// Package collection implements an observable collection view.
//
// A View projects a caller-owned Source into a filtered, sorted and
// optionally grouped list, keeps a current-item cursor, and emits change
// notifications. At rest the view list always equals sort(filter(source)).
// Single-item source changes are applied incrementally; resets and batches
// rebuild the view.
//
// A View is not safe for concurrent use. All calls, including source
// mutations that reach it through a subscription, must happen on one
// goroutine.
package collection

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
)

// Errors reported by the view
var (
	ErrDisposed = errors.New("collection view is disposed")
	ErrNoSource = errors.New("collection view has no source")
	ErrReadOnly = errors.New("collection source is read-only")
)

// Filter is a predicate deciding which source items are visible.
// Filters are compared by pointer: setting the same *Filter twice is a no-op.
type Filter[T any] struct {
	match func(T) bool
}

// NewFilter wraps match in a Filter
func NewFilter[T any](match func(T) bool) *Filter[T] {
	return &Filter[T]{match: match}
}

// Match reports whether item passes. A nil filter passes everything.
func (f *Filter[T]) Match(item T) bool {
	return f == nil || f.match == nil || f.match(item)
}

// Option configures a View
type Option[T comparable] func(*View[T])

// WithSource attaches src at construction
func WithSource[T comparable](src Source[T]) Option[T] {
	return func(v *View[T]) {
		v.SetSource(src)
	}
}

// WithFilter sets the initial filter
func WithFilter[T comparable](f *Filter[T]) Option[T] {
	return func(v *View[T]) {
		v.SetFilter(f)
	}
}

// WithLogger sets the logger used for rebuild diagnostics
func WithLogger[T comparable](logger *slog.Logger) Option[T] {
	return func(v *View[T]) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// View is the grouped collection view
type View[T comparable] struct {
	source      Source[T]
	unsubscribe func()
	loader      IncrementalLoader

	filter *Filter[T]
	sorts  []*SortDescription[T]
	group  *SortDescription[T]

	view   []T
	groups []*Group[T]
	seeds  []any

	current    int
	deferCount int
	disposed   bool

	logger *slog.Logger

	vectorChanged   listeners[func(VectorChange)]
	propertyChanged listeners[func(string)]
	currentChanging listeners[func() bool]
	currentChanged  listeners[func()]
}

// New creates a view and applies opts in order
func New[T comparable](opts ...Option[T]) *View[T] {
	v := &View[T]{
		current: -1,
		logger:  slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// NewDeferred creates a view that is already inside a deferral.
// Configure it, then Complete the deferral to build the view once.
func NewDeferred[T comparable](opts ...Option[T]) (*View[T], *Deferral) {
	v := New[T]()
	d := v.DeferRefresh()

	for _, opt := range opts {
		opt(v)
	}

	return v, d
}

// Source returns the attached source, or nil while unattached
func (v *View[T]) Source() Source[T] {
	return v.source
}

// SetSource attaches src, detaching the previous source. Setting the same source again is a no-op.
func (v *View[T]) SetSource(src Source[T]) {
	v.checkAlive()

	if sameSource(v.source, src) {
		return
	}

	v.detach()

	v.source = src
	v.loader = nil

	if src != nil {
		if obs, ok := src.(Observable[T]); ok {
			v.unsubscribe = obs.Subscribe(v.OnSourceChanged)
		}

		v.loader, _ = src.(IncrementalLoader)
	}

	if v.deferCount == 0 {
		v.rebuild()
	}

	v.notifyProperty(PropertySource)
}

// Filter returns the active filter (nil when unfiltered)
func (v *View[T]) Filter() *Filter[T] {
	return v.filter
}

// SetFilter replaces the filter. Items that now fail are removed and newly
// passing source items are merged in without a full resort.
func (v *View[T]) SetFilter(f *Filter[T]) {
	v.checkAlive()

	if v.filter == f {
		return
	}

	v.filter = f

	if v.deferCount == 0 && v.source != nil {
		v.filterChanged()
	}

	v.notifyProperty(PropertyFilter)
}

// SortDescriptions returns a copy of the sort descriptions in priority order
func (v *View[T]) SortDescriptions() []*SortDescription[T] {
	return slices.Clone(v.sorts)
}

// SetSortDescriptions replaces all sort descriptions and resorts the view
func (v *View[T]) SetSortDescriptions(descs ...*SortDescription[T]) {
	v.checkAlive()

	v.sorts = slices.DeleteFunc(slices.Clone(descs), func(d *SortDescription[T]) bool { return d == nil })
	v.sortDescriptionsChanged()
}

// AddSortDescription appends a lower-priority sort description
func (v *View[T]) AddSortDescription(desc *SortDescription[T]) {
	v.checkAlive()

	if desc == nil {
		return
	}

	v.sorts = append(v.sorts, desc)
	v.sortDescriptionsChanged()
}

// ClearSortDescriptions removes every sort description
func (v *View[T]) ClearSortDescriptions() {
	v.checkAlive()

	v.sorts = nil
	v.sortDescriptionsChanged()
}

// GroupDescription returns the grouping description, or nil when ungrouped
func (v *View[T]) GroupDescription() *SortDescription[T] {
	return v.group
}

// SetGroupDescription sets (or with nil, removes) grouping.
// Seeded placeholder groups belong to the previous grouping and are dropped.
func (v *View[T]) SetGroupDescription(desc *SortDescription[T]) {
	v.checkAlive()

	if v.group == desc {
		return
	}

	v.group = desc
	v.seeds = nil

	if v.deferCount == 0 {
		v.resort()
	}

	v.notifyProperty(PropertyGroupDescription)
}

// IsGrouped reports whether a group description is set
func (v *View[T]) IsGrouped() bool {
	return v.group != nil
}

// Refresh rebuilds the whole view from the source, ignoring any deferral
func (v *View[T]) Refresh() {
	v.checkAlive()
	v.rebuild()
}

// Compare is the view's ordering: the group description first, then every
// sort description in priority order. It returns 0 only if all of them tie.
func (v *View[T]) Compare(x, y T) int {
	if v.group != nil {
		if result := v.group.Compare(x, y); result != 0 {
			return result
		}
	}

	for _, desc := range v.sorts {
		if result := desc.Compare(x, y); result != 0 {
			return result
		}
	}

	return 0
}

// OnSourceChanged applies one source change. It is the subscription callback
// for observable sources and may be called directly for other sources.
// Changes are ignored while deferred or after Dispose.
func (v *View[T]) OnSourceChanged(e ChangeEvent[T]) {
	if v.disposed || v.deferCount != 0 || v.source == nil {
		return
	}

	switch e.Action {
	case ActionAdd:
		if len(e.NewItems) != 1 {
			v.rebuild()

			return
		}

		v.itemAdded(e.NewIndex, e.NewItems[0], -1)

	case ActionRemove:
		if len(e.OldItems) != 1 {
			v.rebuild()

			return
		}

		v.itemRemoved(e.OldItems[0], v.sourceRank(e.OldItems[0], e.OldIndex, -1))

	case ActionReplace:
		if len(e.OldItems) != 1 || len(e.NewItems) != 1 {
			v.rebuild()

			return
		}

		v.itemRemoved(e.OldItems[0], v.sourceRank(e.OldItems[0], e.OldIndex, -1))
		v.itemAdded(e.OldIndex, e.NewItems[0], -1)

	case ActionMove:
		if len(e.OldItems) != 1 {
			v.rebuild()

			return
		}

		item := e.OldItems[0]
		current, hasCurrent := v.CurrentItem()
		wasCurrent := hasCurrent && current == item

		v.itemRemoved(item, v.sourceRank(item, e.OldIndex, e.NewIndex))
		v.itemAdded(e.NewIndex, item, -1)

		if i := v.IndexOf(item); wasCurrent && i >= 0 {
			v.current = i
		}

	default:
		v.rebuild()
	}
}

// Dispose detaches the source subscription, drops the filter and every
// listener. Disposing twice is a no-op. Any later configuration or mutation
// call panics with ErrDisposed.
func (v *View[T]) Dispose() {
	if v.disposed {
		return
	}

	v.detach()
	v.filter = nil
	v.loader = nil
	v.disposed = true

	v.vectorChanged.clear()
	v.propertyChanged.clear()
	v.currentChanging.clear()
	v.currentChanged.clear()
}

// Disposed reports whether Dispose was called
func (v *View[T]) Disposed() bool {
	return v.disposed
}

func (v *View[T]) detach() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
}

func (v *View[T]) checkAlive() {
	if v.disposed {
		panic(fmt.Errorf("collection: %w", ErrDisposed))
	}
}

func (v *View[T]) sortDescriptionsChanged() {
	if v.deferCount == 0 {
		v.resort()
	}
}

// rebuild re-reads the source, filters, sorts and regroups
func (v *View[T]) rebuild() {
	restore := v.captureCurrent()

	v.view = nil

	if v.source != nil {
		for i := range v.source.Len() {
			item := v.source.At(i)
			if v.filter.Match(item) {
				v.view = append(v.view, item)
			}
		}
	}

	v.logger.Debug("collection view rebuilt",
		"items", len(v.view),
		"sorts", len(v.sorts),
		"grouped", v.group != nil,
	)

	v.reorder(restore)
}

// resort reorders the current view without re-reading the source when it stays ordered
func (v *View[T]) resort() {
	if !v.ordered() {
		// only the source knows the unsorted order
		v.rebuild()

		return
	}

	v.reorder(v.captureCurrent())
}

func (v *View[T]) reorder(restore currentSnapshot[T]) {
	if len(v.sorts) > 0 || v.group != nil {
		slices.SortStableFunc(v.view, v.Compare)
	}

	v.rebuildGroups()

	v.notifyVector(Reset, 0)
	v.notifyProperty(PropertyIsGrouped)

	v.restoreCurrent(restore)
}

// filterChanged drops items that no longer pass, then walks the source once
// and merges in items that now pass
func (v *View[T]) filterChanged() {
	if v.filter != nil {
		for i := 0; i < len(v.view); {
			if v.filter.Match(v.view[i]) {
				i++

				continue
			}

			v.removeFromView(i)
		}
	}

	visible := make(map[T]int, len(v.view))
	for _, item := range v.view {
		visible[item]++
	}

	pos := newPositions(v.source)
	viewIndex := 0

	for i := range v.source.Len() {
		item := v.source.At(i)
		if visible[item] > 0 {
			visible[item]--
			viewIndex++

			continue
		}

		if v.insert(i, item, viewIndex, pos) {
			viewIndex++
		}
	}
}

// sameSource compares sources by identity without panicking on uncomparable dynamic types
func sameSource[T any](a, b Source[T]) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}

	return a == b
}
