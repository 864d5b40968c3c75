package viewport_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dagcanvas/internal/layout"
	"github.com/vk/dagcanvas/internal/viewport"
)

func TestPan(t *testing.T) {
	v := viewport.New()
	v.Pan(10, -5)
	v.Pan(2, 3)
	assert.Equal(t, 12.0, v.X)
	assert.Equal(t, -2.0, v.Y)
	assert.Equal(t, 1.0, v.Scale)
}

func TestDragGating(t *testing.T) {
	t.Run("press on a node never pans", func(t *testing.T) {
		v := viewport.New()
		require.False(t, v.StartDrag(false))
		v.Drag(50, 50)
		assert.Equal(t, 0.0, v.X)
		assert.Equal(t, 0.0, v.Y)
	})

	t.Run("press on background pans until release", func(t *testing.T) {
		v := viewport.New()
		require.True(t, v.StartDrag(true))
		v.Drag(30, 10)
		v.EndDrag()
		v.Drag(100, 100)
		assert.Equal(t, 30.0, v.X)
		assert.Equal(t, 10.0, v.Y)
	})
}

func TestZoomAt_PointerInvariant(t *testing.T) {
	v := viewport.New()
	v.Pan(40, -25)

	pointer := layout.Point{X: 320, Y: 180}
	before := v.ToCanvas(pointer)

	for _, factor := range []float64{viewport.WheelZoomIn, viewport.WheelZoomIn, viewport.ButtonZoomIn, viewport.WheelZoomOut} {
		v.ZoomAt(pointer, factor)
		after := v.ToCanvas(pointer)
		assert.InDelta(t, before.X, after.X, 1e-9)
		assert.InDelta(t, before.Y, after.Y, 1e-9)
	}
}

func TestZoomAt_Clamping(t *testing.T) {
	t.Run("upper bound", func(t *testing.T) {
		v := viewport.New()
		for i := 0; i < 20; i++ {
			v.ZoomAt(layout.Point{}, viewport.ButtonZoomIn)
		}
		assert.Equal(t, viewport.MaxScale, v.Scale)
	})

	t.Run("lower bound", func(t *testing.T) {
		v := viewport.New()
		for i := 0; i < 20; i++ {
			v.ZoomAt(layout.Point{}, viewport.ButtonZoomOut)
		}
		assert.Equal(t, viewport.MinScale, v.Scale)
	})

	t.Run("non-positive factor is ignored", func(t *testing.T) {
		v := viewport.New()
		v.ZoomAt(layout.Point{X: 10, Y: 10}, 0)
		assert.Equal(t, 1.0, v.Scale)
	})
}

func TestFitToContent(t *testing.T) {
	t.Run("content centered in viewport", func(t *testing.T) {
		v := viewport.New()
		content := layout.Rect{X: 0, Y: 0, W: 2000, H: 1000}
		v.FitToContent(content, 1000, 800)

		assert.InDelta(t, 0.5, v.Scale, 1e-9) // limited by width

		// Content center (1000, 500) must land on viewport center (500, 400).
		center := layout.Point{X: 1000*v.Scale + v.X, Y: 500*v.Scale + v.Y}
		assert.InDelta(t, 500, center.X, 1e-9)
		assert.InDelta(t, 400, center.Y, 1e-9)
	})

	t.Run("never zooms in past the fit cap", func(t *testing.T) {
		v := viewport.New()
		v.FitToContent(layout.Rect{W: 100, H: 100}, 2000, 2000)
		assert.Equal(t, viewport.FitMaxScale, v.Scale)
	})

	t.Run("clamps to the global minimum", func(t *testing.T) {
		v := viewport.New()
		v.FitToContent(layout.Rect{W: 100000, H: 100}, 500, 500)
		assert.Equal(t, viewport.MinScale, v.Scale)
	})

	t.Run("degenerate inputs are no-ops", func(t *testing.T) {
		v := viewport.New()
		v.Pan(7, 9)
		v.FitToContent(layout.Rect{}, 800, 600)      // empty content
		v.FitToContent(layout.Rect{W: 10, H: 10}, 0, 0) // unmeasured viewport
		assert.Equal(t, 7.0, v.X)
		assert.Equal(t, 9.0, v.Y)
		assert.Equal(t, 1.0, v.Scale)
	})
}
