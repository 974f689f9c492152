// ABOUTME: Undo/redo stack manager for library edits
// ABOUTME: Keeps reversible actions with a maximum history size

package tui

// UndoManager keeps undoable actions on two stacks with a maximum size.
// An action is undone by the caller and moves to the redo stack.
type UndoManager[A any] struct {
	undoStack []A
	redoStack []A
	maxSize   int
}

// NewUndoManager creates a new undo manager with the specified max stack size
func NewUndoManager[A any](maxSize int) *UndoManager[A] {
	return &UndoManager[A]{maxSize: maxSize}
}

// Push records a new action
// Clears the redo stack (you can't redo after a new action)
func (um *UndoManager[A]) Push(action A) {
	um.undoStack = pushCapped(um.undoStack, action, um.maxSize)
	um.redoStack = nil
}

// Undo pops the latest action so the caller can revert it
// Returns the action and true, or zero value and false if nothing to undo
func (um *UndoManager[A]) Undo() (A, bool) {
	action, ok := pop(&um.undoStack)
	if ok {
		um.redoStack = pushCapped(um.redoStack, action, um.maxSize)
	}

	return action, ok
}

// Redo pops the latest undone action so the caller can apply it again
// Returns the action and true, or zero value and false if nothing to redo
func (um *UndoManager[A]) Redo() (A, bool) {
	action, ok := pop(&um.redoStack)
	if ok {
		um.undoStack = pushCapped(um.undoStack, action, um.maxSize)
	}

	return action, ok
}

// UndoSize returns the number of items in the undo stack
func (um *UndoManager[A]) UndoSize() int {
	return len(um.undoStack)
}

// RedoSize returns the number of items in the redo stack
func (um *UndoManager[A]) RedoSize() int {
	return len(um.redoStack)
}

// Clear clears both stacks
func (um *UndoManager[A]) Clear() {
	um.undoStack = nil
	um.redoStack = nil
}

func pushCapped[A any](stack []A, action A, maxSize int) []A {
	stack = append(stack, action)

	// Enforce max size
	if maxSize > 0 && len(stack) > maxSize {
		stack = stack[1:]
	}

	return stack
}

func pop[A any](stack *[]A) (A, bool) {
	var zero A

	if len(*stack) == 0 {
		return zero, false
	}

	action := (*stack)[len(*stack)-1]
	*stack = (*stack)[:len(*stack)-1]

	return action, true
}
