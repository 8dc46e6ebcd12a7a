package main

import "sync"

// shutdown runs registered release steps once, newest first. Both the normal
// exit and the signal handler call run.
type shutdown struct {
	once  sync.Once
	mu    sync.Mutex
	steps []func()
}

func (s *shutdown) add(step func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.steps = append(s.steps, step)
}

func (s *shutdown) run() {
	s.once.Do(func() {
		s.mu.Lock()
		steps := s.steps
		s.mu.Unlock()
		for i := len(steps) - 1; i >= 0; i-- {
			steps[i]()
		}
	})
}
