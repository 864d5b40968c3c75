// Package router turns graph edges into draw-able path geometry. Direct
// edges are a single cubic bezier; scattered and gathered edges get the
// truncate-and-fan treatment near the shared endpoint so overlapping
// fan members stay readable.
package router
