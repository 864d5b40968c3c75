package renderer

import "github.com/vk/dagcanvas/internal/graph"

// WidgetRenderer is the external per-type widget collaborator. It is
// given a raw {component, props, value} descriptor and returns whatever
// host-specific view it builds; the canvas never interprets the result.
type WidgetRenderer interface {
	RenderWidget(w graph.Widget) any
}

// StatusStrip is the external loading/progress collaborator. The canvas
// forwards the engine's loading status records and relays the strip's
// clear requests back out.
type StatusStrip interface {
	SetStatus(status map[string]any)
	Clear()
}
