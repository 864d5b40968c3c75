package graph

import "sync"

// Store holds the last known good graph snapshot. The engine replaces
// the graph wholesale on every update, but it may emit empty node or
// edge lists mid-update; Apply keeps the previous non-empty value in
// that case so the diagram never flickers away under the user.
type Store struct {
	mutex  sync.RWMutex
	nodes  []Node
	edges  []Edge
	byID   map[string]int
	byName map[string]int
}

// NewStore returns an empty snapshot store.
func NewStore() *Store {
	return &Store{
		byID:   make(map[string]int),
		byName: make(map[string]int),
	}
}

// Apply merges an inbound snapshot. Non-empty node and edge lists
// replace the held ones and become the new last known good value;
// empty lists are treated as a transient engine state and ignored.
func (s *Store) Apply(data CanvasData) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if len(data.Nodes) > 0 {
		s.nodes = data.Nodes
		s.byID = make(map[string]int, len(data.Nodes))
		s.byName = make(map[string]int, len(data.Nodes))
		for i, n := range data.Nodes {
			s.byID[n.ID] = i
			s.byName[n.Name] = i
		}
	}
	if len(data.Edges) > 0 {
		s.edges = data.Edges
	}
}

// Nodes returns the held node list. The slice is shared; callers must
// not mutate it.
func (s *Store) Nodes() []Node {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.nodes
}

// Edges returns the held edge list. The slice is shared; callers must
// not mutate it.
func (s *Store) Edges() []Edge {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.edges
}

// Resolve looks a node up by edge-endpoint key: engine node id first,
// then display name. The engine conflates the two during streaming
// updates, so both spellings must route.
func (s *Store) Resolve(key string) (Node, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if i, ok := s.byID[key]; ok {
		return s.nodes[i], true
	}
	if i, ok := s.byName[key]; ok {
		return s.nodes[i], true
	}
	return Node{}, false
}

// NodeByName looks a node up by its display name, the canonical key for
// run targeting and tracker state.
func (s *Store) NodeByName(name string) (Node, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if i, ok := s.byName[name]; ok {
		return s.nodes[i], true
	}
	return Node{}, false
}

// Ancestors returns the names of every non-input node transitively
// required to produce the named node's inputs, via reverse breadth-first
// search over the edge list. Input nodes supply values rather than
// computation and never need re-execution, so they are excluded.
func (s *Store) Ancestors(name string) []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	start, ok := s.lookupLocked(name)
	if !ok {
		return nil
	}

	seen := map[string]bool{start.Name: true}
	queue := []Node{start}
	var ancestors []string

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, e := range s.edges {
			if e.ToNode != current.ID && e.ToNode != current.Name {
				continue
			}
			parent, ok := s.lookupLocked(e.FromNode)
			if !ok || seen[parent.Name] {
				continue
			}
			seen[parent.Name] = true
			queue = append(queue, parent)
			if !parent.IsInputNode {
				ancestors = append(ancestors, parent.Name)
			}
		}
	}

	return ancestors
}

// lookupLocked resolves an id-or-name key. Callers hold s.mutex.
func (s *Store) lookupLocked(key string) (Node, bool) {
	if i, ok := s.byID[key]; ok {
		return s.nodes[i], true
	}
	if i, ok := s.byName[key]; ok {
		return s.nodes[i], true
	}
	return Node{}, false
}
