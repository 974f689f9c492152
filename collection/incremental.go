// ABOUTME: Incremental maintenance of the view list for single-item source changes
// ABOUTME: Places items by binary search with source-order tie breaking and keeps the cursor aligned

package collection

import (
	"slices"
	"sort"
)

// positions lazily maps each item to the source indexes holding it, in order.
// The k-th copy of a value in the view is the k-th copy of it in the source,
// since equal values pass the filter alike and ties keep source order.
type positions[T comparable] struct {
	src Source[T]
	idx map[T][]int
}

func newPositions[T comparable](src Source[T]) *positions[T] {
	return &positions[T]{src: src}
}

// nth returns the source index of the k-th copy of item, not counting the
// one at skip, or -1
func (p *positions[T]) nth(item T, k, skip int) int {
	if p.idx == nil {
		n := p.src.Len()
		p.idx = make(map[T][]int, n)

		for i := range n {
			at := p.src.At(i)
			p.idx[at] = append(p.idx[at], i)
		}
	}

	for _, i := range p.idx[item] {
		if i == skip {
			continue
		}

		if k == 0 {
			return i
		}

		k--
	}

	return -1
}

// sourceIndex returns the source index of items[i], where items are a
// subsequence of the view
func (p *positions[T]) sourceIndex(items []T, i int) int {
	k := 0

	for _, other := range items[:i] {
		if other == items[i] {
			k++
		}
	}

	return p.nth(items[i], k, -1)
}

func (v *View[T]) ordered() bool {
	return len(v.sorts) > 0 || v.group != nil
}

// itemAdded handles an item that now sits at sourceIndex in the source
func (v *View[T]) itemAdded(sourceIndex int, item T, hint int) {
	v.insert(sourceIndex, item, hint, newPositions(v.source))
}

// insert admits item into the view if it passes the filter and reports whether it did.
// hint, when not negative, is the view index an unordered view should use.
func (v *View[T]) insert(sourceIndex int, item T, hint int, pos *positions[T]) bool {
	if !v.filter.Match(item) {
		return false
	}

	var at int

	switch {
	case v.ordered():
		at = v.placement(v.view, item, sourceIndex, pos)
	case hint >= 0:
		at = hint
	case v.filter == nil:
		at = sourceIndex
	default:
		at = v.filteredIndex(sourceIndex)
	}

	at = min(max(at, 0), len(v.view))

	v.view = slices.Insert(v.view, at, item)

	if v.current >= at {
		v.current++
	}

	v.fileIntoGroup(item, sourceIndex, pos)
	v.notifyVector(ItemInserted, at)

	return true
}

// placement finds where item belongs in items, which are sorted by Compare.
// Items that compare equal stay in source order.
func (v *View[T]) placement(items []T, item T, sourceIndex int, pos *positions[T]) int {
	lo, hi := v.equalRange(items, item)
	if lo == hi {
		return hi
	}

	copies := make(map[T]int)
	before := 0

	for _, other := range items[lo:hi] {
		at := pos.nth(other, copies[other], sourceIndex)
		copies[other]++

		if at >= 0 && at < sourceIndex {
			before++
		}
	}

	return lo + before
}

// equalRange returns the bounds of the run of items comparing equal to item
func (v *View[T]) equalRange(items []T, item T) (int, int) {
	lo := sort.Search(len(items), func(i int) bool {
		return v.Compare(item, items[i]) <= 0
	})

	hi := lo + sort.Search(len(items)-lo, func(k int) bool {
		return v.Compare(item, items[lo+k]) < 0
	})

	return lo, hi
}

// filteredIndex maps a source index into an unordered filtered view by
// walking the source and the view together; the view is a subsequence of the source.
func (v *View[T]) filteredIndex(sourceIndex int) int {
	vi := 0

	for si := 0; si < sourceIndex && vi < len(v.view); si++ {
		if v.source.At(si) == v.view[vi] {
			vi++
		}
	}

	return vi
}

// itemRemoved drops the copy of item that held the given rank among the
// copies in the source
func (v *View[T]) itemRemoved(item T, rank int) {
	i := v.locate(item, rank)
	if i < 0 {
		return
	}

	v.removeFromView(i)
}

// sourceRank counts copies of item among the first limit source positions,
// not counting the one at skip
func (v *View[T]) sourceRank(item T, limit, skip int) int {
	rank, seen := 0, 0

	for i := 0; i < v.source.Len() && seen < limit; i++ {
		if i == skip {
			continue
		}

		seen++

		if v.source.At(i) == item {
			rank++
		}
	}

	return rank
}

// locate returns the view index of the copy of item with the given rank, or -1
func (v *View[T]) locate(item T, rank int) int {
	for i, other := range v.view {
		if other != item {
			continue
		}

		if rank == 0 {
			return i
		}

		rank--
	}

	return -1
}

func (v *View[T]) removeFromView(i int) {
	item := v.view[i]
	rank := 0

	for _, other := range v.view[:i] {
		if other == item {
			rank++
		}
	}

	v.view = slices.Delete(v.view, i, i+1)

	if i <= v.current {
		v.current--
	}

	v.unfileFromGroup(item, rank)
	v.notifyVector(ItemRemoved, i)
}
