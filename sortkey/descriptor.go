// ABOUTME: Parses composite sort descriptors and resolves them into sort plans
// ABOUTME: A plan carries the group description and sort descriptions for a collection view

package sortkey

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"medialib/collection"
	"medialib/media"
)

// Separator splits the keys of a descriptor
const Separator = "|"

// GroupMarker prefixes the key that groups the view
const GroupMarker = 'G'

// ErrInvalidDescriptor is returned for empty descriptors or empty keys
var ErrInvalidDescriptor = errors.New("invalid sort descriptor")

// Descriptor is a parsed composite descriptor
type Descriptor struct {
	Group string   // group key name, "" when ungrouped
	Sorts []string // sort key names in priority order
}

// IsGroupKey reports whether name is a group key: the marker followed by an
// upper-case letter, so "GSongTitle" groups but "GenreName" does not
func IsGroupKey(name string) bool {
	if len(name) < 2 || rune(name[0]) != GroupMarker {
		return false
	}

	r, _ := utf8.DecodeRuneInString(name[1:])

	return unicode.IsUpper(r)
}

// Parse splits a descriptor such as "GSongTitle|SongTitle|SongYear".
// The first group key groups; every other key sorts, in order.
func Parse(descriptor string) (Descriptor, error) {
	var d Descriptor

	if strings.TrimSpace(descriptor) == "" {
		return d, fmt.Errorf("%w: empty", ErrInvalidDescriptor)
	}

	for _, token := range strings.Split(descriptor, Separator) {
		token = strings.TrimSpace(token)
		if token == "" {
			return Descriptor{}, fmt.Errorf("%w: empty key in %q", ErrInvalidDescriptor, descriptor)
		}

		if d.Group == "" && IsGroupKey(token) {
			d.Group = token

			continue
		}

		d.Sorts = append(d.Sorts, token)
	}

	return d, nil
}

// String joins the descriptor back into its text form
func (d Descriptor) String() string {
	keys := d.Sorts
	if d.Group != "" {
		keys = append([]string{d.Group}, d.Sorts...)
	}

	return strings.Join(keys, Separator)
}

// Plan is a resolved descriptor ready to apply to a view
type Plan struct {
	Descriptor   Descriptor
	Direction    collection.Direction
	Alphabetical bool
	Group        *collection.SortDescription[media.Item]
	Sorts        []*collection.SortDescription[media.Item]
}

// Resolve parses descriptor and looks up every key. All descriptions use
// direction. With alphabetical set the group key becomes its header label,
// and a descriptor without a group key groups by the header of its first sort key.
func (r *Registry) Resolve(descriptor string, direction collection.Direction, alphabetical bool) (Plan, error) {
	d, err := Parse(descriptor)
	if err != nil {
		return Plan{}, err
	}

	plan := Plan{Descriptor: d, Direction: direction, Alphabetical: alphabetical}

	for _, name := range d.Sorts {
		sel, err := r.Get(name)
		if err != nil {
			return Plan{}, err
		}

		plan.Sorts = append(plan.Sorts, describe(direction, sel))
	}

	groupName := d.Group
	if groupName == "" && alphabetical && len(d.Sorts) > 0 {
		groupName = d.Sorts[0]
	}

	if groupName == "" {
		return plan, nil
	}

	sel, err := r.Get(groupName)
	if err != nil {
		return Plan{}, err
	}

	if alphabetical {
		inner := sel
		sel = func(item media.Item) any { return HeaderOf(inner(item)) }
	}

	plan.Group = describe(direction, sel)

	return plan, nil
}

// Apply configures v with the plan in one deferral, so the view rebuilds once
func (p Plan) Apply(v *collection.View[media.Item]) {
	d := v.DeferRefresh()
	defer d.Complete()

	v.SetGroupDescription(p.Group)
	v.ClearSortDescriptions()

	for _, desc := range p.Sorts {
		v.AddSortDescription(desc)
	}
}

func describe(direction collection.Direction, sel Selector) *collection.SortDescription[media.Item] {
	return &collection.SortDescription[media.Item]{
		Direction: direction,
		Selector:  sel,
		Comparer:  Compare,
	}
}
