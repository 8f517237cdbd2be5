package handlers

import "sync"

// State tracks whether the running stack has drifted from its configuration
// (env edits, image tag changes). In-memory only: a control-plane restart
// clears it, which is acceptable because a restart also re-reads the config.
type State struct {
	mu     sync.Mutex
	need   bool
	reason string
}

func NewState() *State {
	return &State{}
}

func (s *State) Raise(reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.need = true
	s.reason = reason
}

func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.need = false
	s.reason = ""
}

func (s *State) NeedRestart() (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.need, s.reason
}
