// Package renderer is the composition root of the canvas. It binds the
// graph store, layout, edge router, viewport, and run tracker together
// and produces the Scene the paint layer draws. Widget rendering and
// the loading strip remain external collaborators behind the narrow
// interfaces in collaborators.go.
package renderer
