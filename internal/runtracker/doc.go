// Package runtracker keeps the causal bookkeeping for partial,
// streaming workflow execution: which nodes a run covers, which
// completions have been consumed, and the per-node history of past
// results. It never talks to the engine; it only prepares outbound run
// commands and ingests the notifications the engine streams back.
package runtracker
