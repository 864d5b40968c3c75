// Package config loads the canvas configuration from HCL files: channel
// server settings, the node-type color theme, and per-node default
// input values (arbitrary HCL expressions lowered to plain Go values).
package config
