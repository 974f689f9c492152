// ABOUTME: Sort and group descriptions used to order a collection view
// ABOUTME: Provides direction parsing, key comparison and the default collating comparer

package collection

import (
	"cmp"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Direction is the order in which a description arranges keys
type Direction int

const (
	Ascending Direction = iota
	Descending
)

// ErrInvalidDirection is returned when parsing an unknown direction name
var ErrInvalidDirection = errors.New("invalid sort direction")

// String returns the configuration name of the direction
func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}

	return "ascending"
}

// Reverse returns the opposite direction
func (d Direction) Reverse() Direction {
	if d == Descending {
		return Ascending
	}

	return Descending
}

// ParseDirection parses "ascending"/"descending" (and the short forms asc/desc)
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

// MarshalText implements encoding.TextMarshaler so directions round-trip through TOML
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}

	*d = parsed

	return nil
}

// Comparer orders two keys produced by a selector.
// It returns a negative number when a sorts before b, zero when they tie, and a positive number otherwise.
type Comparer func(a, b any) int

// SortDescription pairs a key selector with a direction and a comparer
type SortDescription[T any] struct {
	Direction Direction
	Selector  func(T) any
	Comparer  Comparer // nil means DefaultCompare
}

// NewSortDescription creates a description that uses DefaultCompare
func NewSortDescription[T any](direction Direction, selector func(T) any) *SortDescription[T] {
	return &SortDescription[T]{
		Direction: direction,
		Selector:  selector,
	}
}

// Key applies the selector to an item
func (d *SortDescription[T]) Key(item T) any {
	return d.Selector(item)
}

// CompareKeys compares two already-selected keys honoring the direction
func (d *SortDescription[T]) CompareKeys(a, b any) int {
	compare := d.Comparer
	if compare == nil {
		compare = DefaultCompare
	}

	result := compare(a, b)
	if d.Direction == Descending {
		return -result
	}

	return result
}

// Compare selects the keys of both items and compares them
func (d *SortDescription[T]) Compare(a, b T) int {
	return d.CompareKeys(d.Selector(a), d.Selector(b))
}

// KeyTypeError reports a key value DefaultCompare cannot order.
// It is raised as a panic: an unsupported key type is a wiring bug.
type KeyTypeError struct {
	A, B any
}

func (e *KeyTypeError) Error() string {
	return fmt.Sprintf("collection: cannot compare keys of type %T and %T", e.A, e.B)
}

// The collator keeps internal buffers, so access is serialized
var (
	collatorMu sync.Mutex
	collator   = collate.New(language.Und, collate.IgnoreCase, collate.IgnoreWidth)
)

// CompareStrings orders strings with a language-neutral, case-insensitive Unicode collation.
// Strings that collate equal fall back to a byte comparison so distinct strings never tie.
func CompareStrings(a, b string) int {
	collatorMu.Lock()
	result := collator.CompareString(a, b)
	collatorMu.Unlock()

	if result != 0 {
		return result
	}

	return strings.Compare(a, b)
}

// DefaultCompare orders keys of the common scalar types.
//
// nil sorts before every other key. Strings use CompareStrings, times and
// booleans (false first) compare natively, and numbers compare by value
// across integer, unsigned and floating point types. Any other pairing panics
// with a *KeyTypeError.
func DefaultCompare(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return CompareStrings(x, y)
		}
	case time.Time:
		if y, ok := b.(time.Time); ok {
			return x.Compare(y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			return compareBools(x, y)
		}
	}

	if x, ok := asInt(a); ok {
		if y, ok := asInt(b); ok {
			return cmp.Compare(x, y)
		}
	}

	if x, ok := asUint(a); ok {
		if y, ok := asUint(b); ok {
			return cmp.Compare(x, y)
		}
	}

	if x, ok := asFloat(a); ok {
		if y, ok := asFloat(b); ok {
			return cmp.Compare(x, y)
		}
	}

	panic(&KeyTypeError{A: a, B: b})
}

func compareBools(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case time.Duration:
		return int64(n), true
	}

	return 0, false
}

func asUint(v any) (uint64, bool) {
	switch n := v.(type) {
	case uint:
		return uint64(n), true
	case uint8:
		return uint64(n), true
	case uint16:
		return uint64(n), true
	case uint32:
		return uint64(n), true
	case uint64:
		return n, true
	}

	return 0, false
}

func asFloat(v any) (float64, bool) {
	if n, ok := asInt(v); ok {
		return float64(n), true
	}

	if n, ok := asUint(v); ok {
		return float64(n), true
	}

	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}

	return 0, false
}
