package tree

import "sync"

// NodeState is the expand/load state of one directory node.
type NodeState struct {
	Path     string
	Loaded   bool
	Expanded bool
	Loading  bool
	Err      error
}

// StateStore maps directory paths to their node state. Nodes that were
// never touched read as collapsed and unloaded.
type StateStore struct {
	mu    sync.RWMutex
	nodes map[string]*NodeState
}

// NewStateStore creates an empty store.
func NewStateStore() *StateStore {
	return &StateStore{nodes: make(map[string]*NodeState)}
}

// Get returns a copy of the state for path.
func (s *StateStore) Get(path string) NodeState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.nodes[path]; ok {
		return *n
	}
	return NodeState{Path: path}
}

// Update applies fn to the state for path under the store lock and
// returns the result.
func (s *StateStore) Update(path string, fn func(*NodeState)) NodeState {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.nodes[path]
	if !ok {
		n = &NodeState{Path: path}
		s.nodes[path] = n
	}
	fn(n)
	return *n
}

// Len returns the number of directories with recorded state.
func (s *StateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}
