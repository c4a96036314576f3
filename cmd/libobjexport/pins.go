package main

import (
	"math"
	"runtime"
	"sync"

	"github.com/wippyai/objexport/resource"
)

// pinSet keeps Go memory handed to C pinned until its handle is released.
type pinSet struct {
	pinners map[resource.Handle]*runtime.Pinner
	mu      sync.Mutex
}

func newPinSet() *pinSet {
	return &pinSet{pinners: make(map[resource.Handle]*runtime.Pinner)}
}

// pin pins p on behalf of h. A nil p is ignored.
func pin[T any](s *pinSet, h resource.Handle, p *T) *T {
	if p == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	pn, ok := s.pinners[h]
	if !ok {
		pn = new(runtime.Pinner)
		s.pinners[h] = pn
	}
	pn.Pin(p)
	return p
}

// release unpins everything pinned for h.
func (s *pinSet) release(h resource.Handle) {
	s.mu.Lock()
	pn, ok := s.pinners[h]
	delete(s.pinners, h)
	s.mu.Unlock()
	if ok {
		pn.Unpin()
	}
}

func (s *pinSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pinners)
}

// OnResourceEvent releases pins when a handle is dropped.
func (s *pinSet) OnResourceEvent(e resource.Event) {
	if e.Type == resource.EventDropped {
		s.release(e.Handle)
	}
}

// toHandle narrows a C handle. Values that cannot be a table index map to
// the null handle.
func toHandle(h uintptr) resource.Handle {
	if uint64(h) > math.MaxUint32 {
		return 0
	}
	return resource.Handle(h)
}
