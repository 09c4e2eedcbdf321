package model

import (
	"sync"

	"github.com/jsphweid/harmonline/pitch"
)

// Registry memoizes per-modulus objects such as the chromatic scale. Pass one
// around instead of relying on package state; it is safe for concurrent use.
type Registry struct {
	mu        sync.Mutex
	chromatic map[int]*Scale
}

func NewRegistry() *Registry {
	return &Registry{chromatic: make(map[int]*Scale)}
}

func (r *Registry) Modulus(steps int) (pitch.Modulus, error) {
	return pitch.NewModulus(steps)
}

// Chromatic returns the shared chromatic scale of m. Callers must not mutate
// it.
func (r *Registry) Chromatic(m pitch.Modulus) *Scale {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.chromatic == nil {
		r.chromatic = make(map[int]*Scale)
	}
	if s, ok := r.chromatic[m.Steps()]; ok {
		return s
	}
	s := Chromatic(m)
	r.chromatic[m.Steps()] = s
	return s
}
