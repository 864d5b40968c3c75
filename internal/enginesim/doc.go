// Package enginesim is a scripted workflow engine used for demos and
// manual testing of a running canvas server. It speaks the same
// canvas_data/change protocol as a real engine, complete with the
// duplicate and out-of-order deliveries the canvas must tolerate.
package enginesim
