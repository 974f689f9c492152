// ABOUTME: Deferred refresh handles that batch view configuration changes
// ABOUTME: Nested deferrals rebuild once when the outermost one completes

package collection

// Deferral suspends view recomputation until Complete is called
type Deferral struct {
	done     bool
	complete func()
}

// DeferRefresh suspends recomputation. Source changes and configuration
// changes made while any deferral is open are applied by a single rebuild
// when the last one completes.
func (v *View[T]) DeferRefresh() *Deferral {
	v.checkAlive()

	v.deferCount++

	return &Deferral{complete: v.endDefer}
}

// Complete releases the deferral. Calling it again does nothing.
func (d *Deferral) Complete() {
	if d == nil || d.done {
		return
	}

	d.done = true
	d.complete()
}

// Deferred reports whether a deferral is open
func (v *View[T]) Deferred() bool {
	return v.deferCount > 0
}

func (v *View[T]) endDefer() {
	v.deferCount--

	if v.deferCount == 0 && !v.disposed {
		v.rebuild()
	}
}
