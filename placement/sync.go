package placement

import "sync"

// SyncPlacement serializes access to a Placement that is shared between goroutines.
type SyncPlacement struct {
	mu        sync.Mutex
	placement *Placement
}

func NewSyncPlacement(placement *Placement) *SyncPlacement {
	return &SyncPlacement{placement: placement}
}

// Do runs f with exclusive access to the placement. The lock is held for the
// whole call, so a sequence of adds and queries inside f appears atomic.
func (s *SyncPlacement) Do(f func(placement *Placement) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return f(s.placement)
}
