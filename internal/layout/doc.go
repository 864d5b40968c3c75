// Package layout derives node geometry (heights, port anchor points,
// bounding boxes) from graph content. It is the single source of truth
// for the size constants the paint layer and the edge router share.
package layout
