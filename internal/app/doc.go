// Package app wires the canvas server together: logger, configuration,
// renderer, and channel, with a single Run entrypoint.
package app
