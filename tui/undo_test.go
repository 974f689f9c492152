// ABOUTME: Tests for UndoManager stack operations
// ABOUTME: Verifies undo/redo behavior and stack size limits

package tui

import "testing"

func TestUndoManager_PushAndUndo(t *testing.T) {
	um := NewUndoManager[string](50)

	um.Push("delete Teardrop")

	action, ok := um.Undo()
	if !ok {
		t.Fatal("Undo should succeed")
	}

	if action != "delete Teardrop" {
		t.Errorf("Undo returned %q, want %q", action, "delete Teardrop")
	}

	if um.UndoSize() != 0 || um.RedoSize() != 1 {
		t.Errorf("After undo, sizes = %d/%d, want 0/1", um.UndoSize(), um.RedoSize())
	}
}

func TestUndoManager_Empty(t *testing.T) {
	um := NewUndoManager[int](50)

	if _, ok := um.Undo(); ok {
		t.Error("Undo should fail on empty stack")
	}

	if _, ok := um.Redo(); ok {
		t.Error("Redo should fail on empty stack")
	}
}

func TestUndoManager_Redo(t *testing.T) {
	um := NewUndoManager[int](50)

	um.Push(1)
	um.Undo()

	action, ok := um.Redo()
	if !ok || action != 1 {
		t.Fatalf("Redo returned %d/%v, want 1/true", action, ok)
	}

	if um.UndoSize() != 1 || um.RedoSize() != 0 {
		t.Errorf("After redo, sizes = %d/%d, want 1/0", um.UndoSize(), um.RedoSize())
	}
}

func TestUndoManager_PushClearsRedo(t *testing.T) {
	um := NewUndoManager[int](50)

	um.Push(1)
	um.Undo()

	if um.RedoSize() != 1 {
		t.Fatalf("Redo stack should have 1 item, got %d", um.RedoSize())
	}

	um.Push(2)

	if um.RedoSize() != 0 {
		t.Errorf("Push should clear redo stack, but has %d items", um.RedoSize())
	}
}

func TestUndoManager_MaxStackSize(t *testing.T) {
	um := NewUndoManager[int](3) // Small max size for testing

	for i := range 5 {
		um.Push(i)
	}

	if um.UndoSize() != 3 {
		t.Errorf("Undo stack size = %d, want 3 (max)", um.UndoSize())
	}

	// Oldest actions are discarded, newest come back first
	for _, want := range []int{4, 3, 2} {
		action, ok := um.Undo()
		if !ok || action != want {
			t.Errorf("Undo returned %d/%v, want %d/true", action, ok, want)
		}
	}

	if _, ok := um.Undo(); ok {
		t.Error("4th undo should fail (max stack size is 3)")
	}
}

func TestUndoManager_UndoRedoCycle(t *testing.T) {
	um := NewUndoManager[int](50)

	um.Push(1)
	um.Push(2)

	if action, _ := um.Undo(); action != 2 {
		t.Fatalf("First undo returned %d, want 2", action)
	}

	if action, _ := um.Undo(); action != 1 {
		t.Fatalf("Second undo returned %d, want 1", action)
	}

	if action, _ := um.Redo(); action != 1 {
		t.Fatalf("Redo returned %d, want 1", action)
	}

	if um.UndoSize() != 1 {
		t.Errorf("After undo-redo cycle, undo stack = %d, want 1", um.UndoSize())
	}

	if um.RedoSize() != 1 {
		t.Errorf("After undo-redo cycle, redo stack = %d, want 1", um.RedoSize())
	}
}

func TestUndoManager_Clear(t *testing.T) {
	um := NewUndoManager[int](50)

	um.Push(1)
	um.Push(2)
	um.Undo()

	um.Clear()

	if um.UndoSize() != 0 {
		t.Errorf("After clear, undo stack = %d, want 0", um.UndoSize())
	}

	if um.RedoSize() != 0 {
		t.Errorf("After clear, redo stack = %d, want 0", um.RedoSize())
	}
}
