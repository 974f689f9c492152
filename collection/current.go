// ABOUTME: Current-item cursor of the view with vetoable moves
// ABOUTME: Cursor positions range from -1 (before first) to Len (after last)

package collection

// CurrentPosition returns the cursor position in [-1, Len()]
func (v *View[T]) CurrentPosition() int {
	return v.current
}

// CurrentItem returns the item under the cursor, if the cursor is on an item
func (v *View[T]) CurrentItem() (T, bool) {
	if v.current < 0 || v.current >= len(v.view) {
		var zero T

		return zero, false
	}

	return v.view[v.current], true
}

// IsCurrentBeforeFirst reports whether the cursor is before the first item
func (v *View[T]) IsCurrentBeforeFirst() bool {
	return v.current < 0
}

// IsCurrentAfterLast reports whether the cursor is past the last item
func (v *View[T]) IsCurrentAfterLast() bool {
	return v.current >= len(v.view)
}

// MoveCurrentTo moves the cursor onto item. It returns false if item is not
// visible or a veto cancelled the move.
func (v *View[T]) MoveCurrentTo(item T) bool {
	i := v.IndexOf(item)
	if i < 0 {
		return false
	}

	return v.MoveCurrentToPosition(i)
}

// MoveCurrentToPosition moves the cursor to view index i, or before the
// first item for -1. Other out-of-range positions return false.
func (v *View[T]) MoveCurrentToPosition(i int) bool {
	v.checkAlive()

	if i < -1 || i >= len(v.view) {
		return false
	}

	if i == v.current {
		return true
	}

	for _, allow := range v.currentChanging.snapshot() {
		if !allow() {
			return false
		}
	}

	v.current = i
	v.notifyCurrentChanged()

	return true
}

// MoveCurrentToFirst moves the cursor to the first item
func (v *View[T]) MoveCurrentToFirst() bool {
	return v.MoveCurrentToPosition(0)
}

// MoveCurrentToLast moves the cursor to the last item
func (v *View[T]) MoveCurrentToLast() bool {
	if len(v.view) == 0 {
		return false
	}

	return v.MoveCurrentToPosition(len(v.view) - 1)
}

// MoveCurrentToNext advances the cursor by one item
func (v *View[T]) MoveCurrentToNext() bool {
	if v.current >= len(v.view)-1 {
		return false
	}

	return v.MoveCurrentToPosition(v.current + 1)
}

// MoveCurrentToPrevious moves the cursor back by one item
func (v *View[T]) MoveCurrentToPrevious() bool {
	if v.current <= 0 {
		return false
	}

	return v.MoveCurrentToPosition(v.current - 1)
}

func (v *View[T]) notifyCurrentChanged() {
	for _, fn := range v.currentChanged.snapshot() {
		fn()
	}
}

// currentSnapshot remembers the cursor across a rebuild
type currentSnapshot[T comparable] struct {
	item      T
	onItem    bool
	afterLast bool
}

func (v *View[T]) captureCurrent() currentSnapshot[T] {
	item, ok := v.CurrentItem()

	return currentSnapshot[T]{
		item:      item,
		onItem:    ok,
		afterLast: !ok && v.current >= 0,
	}
}

// restoreCurrent puts the cursor back on the remembered item. The item did
// not change, so finding it is silent. Losing it moves the cursor before the
// first item and reports the change; that move cannot be vetoed.
func (v *View[T]) restoreCurrent(s currentSnapshot[T]) {
	switch {
	case s.afterLast:
		v.current = len(v.view)
	case !s.onItem:
		v.current = -1
	default:
		if i := v.IndexOf(s.item); i >= 0 {
			v.current = i

			return
		}

		v.current = -1
		v.notifyCurrentChanged()
	}
}
