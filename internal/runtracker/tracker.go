package runtracker

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/vk/dagcanvas/internal/graph"
)

// ResultSnapshot is one recorded set of output values for a node,
// tagged with the run that produced it.
type ResultSnapshot struct {
	RunID  string         `json:"run_id"`
	Values map[string]any `json:"values"`
	At     time.Time      `json:"at"`
}

// Command is the outbound "run to node" instruction for the engine. It
// carries everything the engine needs to skip cached nodes and to know
// which recorded result is current for each of them.
type Command struct {
	TargetNode      string                    `json:"run_to_node"`
	RunID           string                    `json:"run_id"`
	ExecutingNodes  []string                  `json:"executing_nodes"`
	Inputs          map[string]map[string]any `json:"inputs,omitempty"`
	SelectedResults map[string]int            `json:"selected_results,omitempty"`
}

// Tracker owns the execution bookkeeping for one canvas instance:
// in-flight runs per node, idempotent consumption of streamed
// completion notifications, and the per-node result history with a
// selectable current index.
//
// Completion notifications may arrive out of causal order and more than
// once per (run, node); the consumed set makes re-delivery a no-op. The
// set survives re-renders because the tracker is owned by the canvas
// instance, not recreated per update, and it is purged per completed
// run after a grace delay so it cannot grow without bound.
type Tracker struct {
	mutex    sync.Mutex
	pending  map[string][]string // node name -> in-flight run ids
	runNodes map[string][]string // run id -> nodes it executes
	results  map[string][]ResultSnapshot
	selected map[string]int
	consumed map[string]struct{} // "runID:node" pairs already ingested

	grace     time.Duration
	now       func() time.Time
	afterFunc func(time.Duration, func())
}

// New returns a tracker whose consumed-pair entries are retired the
// given grace delay after their run fully completes. The delay absorbs
// late duplicate notifications without unbounded retention.
func New(grace time.Duration) *Tracker {
	return &Tracker{
		pending:   make(map[string][]string),
		runNodes:  make(map[string][]string),
		results:   make(map[string][]ResultSnapshot),
		selected:  make(map[string]int),
		consumed:  make(map[string]struct{}),
		grace:     grace,
		now:       time.Now,
		afterFunc: func(d time.Duration, fn func()) { time.AfterFunc(d, fn) },
	}
}

// TriggerRun prepares a run targeting the named node: it collects the
// node's non-input ancestors, drops members that already have a
// recorded result (the engine is expected to serve those from cache),
// mints a fresh run id, and registers the remainder as pending. The
// returned command reflects exactly the nodes the engine must execute.
// ok is false when the target is unknown.
func (t *Tracker) TriggerRun(s *graph.Store, target string, inputs map[string]map[string]any) (Command, bool) {
	if _, found := s.NodeByName(target); !found {
		return Command{}, false
	}

	t.mutex.Lock()
	defer t.mutex.Unlock()

	nodesToExecute := append(s.Ancestors(target), target)

	nodesToRun := make([]string, 0, len(nodesToExecute))
	for _, name := range nodesToExecute {
		if len(t.results[name]) > 0 {
			continue
		}
		nodesToRun = append(nodesToRun, name)
	}

	runID := t.mintRunID(target)
	for _, name := range nodesToRun {
		t.pending[name] = append(t.pending[name], runID)
	}
	t.runNodes[runID] = nodesToRun

	selected := make(map[string]int, len(t.selected))
	for name, idx := range t.selected {
		selected[name] = idx
	}

	return Command{
		TargetNode:      target,
		RunID:           runID,
		ExecutingNodes:  nodesToRun,
		Inputs:          inputs,
		SelectedResults: selected,
	}, true
}

// Complete ingests one streamed completion notification. Duplicate
// deliveries of the same (runID, node) pair leave every piece of state
// untouched. A completion whose outputs contain at least one non-null
// value appends a result snapshot and advances the selection to it.
func (t *Tracker) Complete(runID, node string, outputs map[string]any) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	key := runID + ":" + node
	if _, done := t.consumed[key]; done {
		return
	}
	t.consumed[key] = struct{}{}

	t.pending[node] = removeString(t.pending[node], runID)
	if len(t.pending[node]) == 0 {
		delete(t.pending, node)
	}

	if members, ok := t.runNodes[runID]; ok && t.runFinishedLocked(runID, members) {
		delete(t.runNodes, runID)
		t.scheduleConsumedPurgeLocked(runID, members)
	}

	if hasValue(outputs) {
		t.results[node] = append(t.results[node], ResultSnapshot{
			RunID:  runID,
			Values: outputs,
			At:     t.now(),
		})
		t.selected[node] = len(t.results[node]) - 1
	}
}

// PendingCount is the number of in-flight runs for a node, the "N
// pending" badge value.
func (t *Tracker) PendingCount(node string) int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return len(t.pending[node])
}

// Results returns the node's recorded history, oldest first.
func (t *Tracker) Results(node string) []ResultSnapshot {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.results[node]
}

// SelectedIndex is the index of the node's currently chosen result, or
// -1 when the node has no history yet.
func (t *Tracker) SelectedIndex(node string) int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if len(t.results[node]) == 0 {
		return -1
	}
	return t.selected[node]
}

// CurrentResult is the snapshot the selection points at. ok is false
// when the node has no history, in which case callers fall back to the
// engine-supplied live value.
func (t *Tracker) CurrentResult(node string) (ResultSnapshot, bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	history := t.results[node]
	if len(history) == 0 {
		return ResultSnapshot{}, false
	}
	return history[t.selected[node]], true
}

// PrevResult moves the node's selection one step back; a no-op at the
// oldest entry.
func (t *Tracker) PrevResult(node string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if len(t.results[node]) == 0 {
		return
	}
	if t.selected[node] > 0 {
		t.selected[node]--
	}
}

// NextResult moves the node's selection one step forward; a no-op at
// the newest entry.
func (t *Tracker) NextResult(node string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	history := t.results[node]
	if len(history) == 0 {
		return
	}
	if t.selected[node] < len(history)-1 {
		t.selected[node]++
	}
}

// SelectedResults is a copy of every node's current selection index.
func (t *Tracker) SelectedResults() map[string]int {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	out := make(map[string]int, len(t.selected))
	for name, idx := range t.selected {
		out[name] = idx
	}
	return out
}

// mintRunID builds a session-unique run identifier from the target
// name, the wall clock, and a random suffix. Callers hold t.mutex.
func (t *Tracker) mintRunID(target string) string {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand failing means the platform is broken; fall back
		// to the clock alone rather than refusing the run.
		return fmt.Sprintf("%s-%d", target, t.now().UnixNano())
	}
	return fmt.Sprintf("%s-%d-%s", target, t.now().UnixNano(), hex.EncodeToString(suffix))
}

func (t *Tracker) runFinishedLocked(runID string, members []string) bool {
	for _, name := range members {
		if _, done := t.consumed[runID+":"+name]; !done {
			return false
		}
	}
	return true
}

// scheduleConsumedPurgeLocked retires the run's dedup entries once the
// grace window for late duplicates has passed.
func (t *Tracker) scheduleConsumedPurgeLocked(runID string, members []string) {
	t.afterFunc(t.grace, func() {
		t.mutex.Lock()
		defer t.mutex.Unlock()
		for _, name := range members {
			delete(t.consumed, runID+":"+name)
		}
	})
}

func removeString(list []string, s string) []string {
	out := list[:0]
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func hasValue(outputs map[string]any) bool {
	for _, v := range outputs {
		if v != nil {
			return true
		}
	}
	return false
}
