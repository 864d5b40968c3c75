// Package viewport owns the pan/zoom transform of the canvas and the
// pointer gestures that drive it. All operations are pure arithmetic on
// local state and cannot fail.
package viewport
