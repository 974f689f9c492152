// ABOUTME: Viewport manager for cursor-to-middle scrolling over rendered lines
// ABOUTME: Lines include group headers, so the cursor line differs from the item position

package tui

// ViewportManager keeps the cursor line visible with vim/less style scrolling:
// the cursor moves to the middle, then the content scrolls
type ViewportManager struct {
	height     int // Viewport height in lines
	cursorLine int // Rendered line of the cursor, -1 for none
	totalLines int // Rendered lines including group headers
}

// NewViewportManager creates a new viewport manager
func NewViewportManager(height, cursorLine, totalLines int) *ViewportManager {
	return &ViewportManager{
		height:     height,
		cursorLine: cursorLine,
		totalLines: totalLines,
	}
}

// ScrollPhase says how the viewport reacts to cursor movement
type ScrollPhase int

const (
	TopPhase    ScrollPhase = iota // Cursor moves, viewport at top
	MiddlePhase                    // Cursor at middle, content scrolls
	BottomPhase                    // Viewport at bottom, cursor moves
)

// Phase returns the current scrolling phase
func (vm *ViewportManager) Phase() ScrollPhase {
	if vm.totalLines == 0 || vm.height < 1 {
		return TopPhase
	}

	middle := vm.height / 2
	if vm.cursorLine < middle {
		return TopPhase
	}

	if vm.cursorLine < vm.totalLines-vm.height+middle {
		return MiddlePhase
	}

	return BottomPhase
}

// CalculateOffset computes the viewport Y offset that keeps the cursor line visible
func (vm *ViewportManager) CalculateOffset() int {
	switch vm.Phase() {
	case MiddlePhase:
		return vm.cursorLine - vm.height/2
	case BottomPhase:
		// Show the last height lines
		return max(vm.totalLines-vm.height, 0)
	default:
		return 0
	}
}
