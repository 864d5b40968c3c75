package viewport

import "github.com/vk/dagcanvas/internal/layout"

// Zoom bounds and step factors. Wheel ticks use a deliberately shallow
// factor for smoothness; the discrete +/- buttons take a coarser step.
const (
	MinScale = 0.2
	MaxScale = 3.0

	WheelZoomIn  = 1.03
	WheelZoomOut = 0.97
	ButtonZoomIn = 1.2

	// FitMaxScale caps fit-to-content so a tiny graph is not blown up
	// past 150%.
	FitMaxScale = 1.5
)

// ButtonZoomOut is the discrete zoom-out factor, the inverse of the
// zoom-in button step.
const ButtonZoomOut = 1.0 / ButtonZoomIn

// Viewport owns the pan offset and zoom scale that map logical canvas
// coordinates to the screen: screen = canvas*Scale + (X, Y).
type Viewport struct {
	X     float64
	Y     float64
	Scale float64

	dragging bool
}

// New returns a viewport at the origin with no zoom applied.
func New() *Viewport {
	return &Viewport{Scale: 1}
}

// StartDrag begins a pan gesture. The gesture only arms when the press
// landed on the canvas background; a press on a node must keep the
// pointer for the node's own content.
func (v *Viewport) StartDrag(onBackground bool) bool {
	v.dragging = onBackground
	return v.dragging
}

// Drag pans by the pointer delta while a gesture is active.
func (v *Viewport) Drag(dx, dy float64) {
	if !v.dragging {
		return
	}
	v.Pan(dx, dy)
}

// EndDrag finishes the active gesture, if any.
func (v *Viewport) EndDrag() {
	v.dragging = false
}

// Dragging reports whether a pan gesture is active.
func (v *Viewport) Dragging() bool {
	return v.dragging
}

// Pan shifts the offset by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.X += dx
	v.Y += dy
}

// ZoomAt multiplies the scale by factor, clamped to [MinScale,
// MaxScale], and recomputes the offset so the logical point under the
// pointer stays under the pointer.
func (v *Viewport) ZoomAt(pointer layout.Point, factor float64) {
	if factor <= 0 {
		return
	}

	newScale := clampScale(v.Scale * factor)
	if newScale == v.Scale {
		return
	}

	canvasX := (pointer.X - v.X) / v.Scale
	canvasY := (pointer.Y - v.Y) / v.Scale
	v.X = pointer.X - canvasX*newScale
	v.Y = pointer.Y - canvasY*newScale
	v.Scale = newScale
}

// FitToContent chooses a scale and offset so the given content bounds
// fill the viewport, centered. Degenerate inputs (empty content, an
// unmeasured viewport) are no-ops rather than a NaN transform.
func (v *Viewport) FitToContent(content layout.Rect, viewW, viewH float64) {
	if content.W <= 0 || content.H <= 0 || viewW <= 0 || viewH <= 0 {
		return
	}

	scale := min(viewW/content.W, viewH/content.H, FitMaxScale)
	scale = clampScale(scale)

	centerX := content.X + content.W/2
	centerY := content.Y + content.H/2
	v.X = viewW/2 - centerX*scale
	v.Y = viewH/2 - centerY*scale
	v.Scale = scale
}

// ToCanvas converts a screen position to logical canvas coordinates
// under the current transform.
func (v *Viewport) ToCanvas(screen layout.Point) layout.Point {
	return layout.Point{
		X: (screen.X - v.X) / v.Scale,
		Y: (screen.Y - v.Y) / v.Scale,
	}
}

func clampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}
