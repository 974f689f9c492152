// ABOUTME: Group type holding a contiguous run of view items that share a group key
// ABOUTME: Groups may be pre-seeded empty so callers can show placeholder headers

package collection

import (
	"errors"
	"slices"
	"sort"
)

// Group is a partition of the view sharing one group key
type Group[T comparable] struct {
	key    any
	items  []T
	seeded bool
}

// Key returns the group key
func (g *Group[T]) Key() any {
	return g.key
}

// Len returns the number of items in the group
func (g *Group[T]) Len() int {
	return len(g.items)
}

// At returns the item at index i within the group
func (g *Group[T]) At(i int) T {
	return g.items[i]
}

// Items returns a copy of the group's items in view order
func (g *Group[T]) Items() []T {
	return slices.Clone(g.items)
}

// Seeded reports whether the group was added explicitly and survives being empty
func (g *Group[T]) Seeded() bool {
	return g.seeded
}

// remove drops the copy of item with the given rank among the group's copies
func (g *Group[T]) remove(item T, rank int) bool {
	for i, other := range g.items {
		if other != item {
			continue
		}

		if rank == 0 {
			g.items = slices.Delete(g.items, i, i+1)

			return true
		}

		rank--
	}

	return false
}

// ErrNotGrouped is returned when seeding groups on a view without a group description
var ErrNotGrouped = errors.New("collection view is not grouped")

// Groups returns the groups in order. The slice is a copy; the groups are live.
func (v *View[T]) Groups() []*Group[T] {
	return slices.Clone(v.groups)
}

// Group returns the group whose key compares equal to key
func (v *View[T]) Group(key any) (*Group[T], bool) {
	if v.group == nil {
		return nil, false
	}

	i, found := v.findGroup(key)
	if !found {
		return nil, false
	}

	return v.groups[i], true
}

// AddGroup pre-seeds a group for key and returns it. An existing group is
// returned as is and becomes seeded. Seeded groups survive rebuilds and
// being empty until the group description changes.
func (v *View[T]) AddGroup(key any) (*Group[T], error) {
	v.checkAlive()

	if v.group == nil {
		return nil, ErrNotGrouped
	}

	if !slices.ContainsFunc(v.seeds, func(seed any) bool { return v.group.CompareKeys(seed, key) == 0 }) {
		v.seeds = append(v.seeds, key)
	}

	g := v.groupFor(key)
	g.seeded = true

	return g, nil
}

// AddGroups seeds a group for every key
func (v *View[T]) AddGroups(keys ...any) error {
	for _, key := range keys {
		if _, err := v.AddGroup(key); err != nil {
			return err
		}
	}

	return nil
}

// findGroup binary searches the groups by the group description's ordering
func (v *View[T]) findGroup(key any) (int, bool) {
	i := sort.Search(len(v.groups), func(i int) bool {
		return v.group.CompareKeys(v.groups[i].key, key) >= 0
	})

	return i, i < len(v.groups) && v.group.CompareKeys(v.groups[i].key, key) == 0
}

// groupFor returns the group for key, creating it in order when missing
func (v *View[T]) groupFor(key any) *Group[T] {
	i, found := v.findGroup(key)
	if found {
		return v.groups[i]
	}

	g := &Group[T]{key: key}
	v.groups = slices.Insert(v.groups, i, g)

	return g
}

// rebuildGroups regroups the freshly sorted view. Items of one key form a
// contiguous run, so only a key change needs a lookup.
func (v *View[T]) rebuildGroups() {
	v.groups = nil

	if v.group == nil {
		return
	}

	for _, key := range v.seeds {
		v.groupFor(key).seeded = true
	}

	var last *Group[T]

	for _, item := range v.view {
		key := v.group.Key(item)
		if last == nil || v.group.CompareKeys(last.key, key) != 0 {
			last = v.groupFor(key)
		}

		last.items = append(last.items, item)
	}
}

func (v *View[T]) fileIntoGroup(item T, sourceIndex int, pos *positions[T]) {
	if v.group == nil {
		return
	}

	g := v.groupFor(v.group.Key(item))
	at := v.placement(g.items, item, sourceIndex, pos)
	g.items = slices.Insert(g.items, at, item)
}

func (v *View[T]) unfileFromGroup(item T, rank int) {
	if v.group == nil {
		return
	}

	i, found := v.findGroup(v.group.Key(item))
	if !found || !v.groups[i].remove(item, rank) {
		// the key changed while the item was in the view
		i = slices.IndexFunc(v.groups, func(g *Group[T]) bool { return g.remove(item, rank) })
		if i < 0 {
			return
		}
	}

	if g := v.groups[i]; g.Len() == 0 && !g.seeded {
		v.groups = slices.Delete(v.groups, i, i+1)
	}
}
