package service

import "sync"

// hostLocker serializes the booking read-validate-write sequence per
// host. Bookings for different hosts never contend; two bookers of the
// same host are forced through the critical section one at a time, and
// the storage-level uniqueness check covers racers in other processes.
type hostLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newHostLocker() *hostLocker {
	return &hostLocker{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the host's mutex and returns its release func.
func (l *hostLocker) lock(hostID string) func() {
	l.mu.Lock()
	m, ok := l.locks[hostID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[hostID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
