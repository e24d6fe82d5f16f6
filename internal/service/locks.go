package service

import "sync"

// patientLocks serialises load-modify-save cycles per patient. Entries are
// dropped once nobody holds or waits on them.
type patientLocks struct {
	mu   sync.Mutex
	held map[string]*patientLock
}

type patientLock struct {
	sync.Mutex
	refs int
}

func newPatientLocks() *patientLocks {
	return &patientLocks{held: map[string]*patientLock{}}
}

// lock blocks until patientID is free and returns its unlock func.
func (l *patientLocks) lock(patientID string) func() {
	l.mu.Lock()
	pl, ok := l.held[patientID]
	if !ok {
		pl = &patientLock{}
		l.held[patientID] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.Lock()
	return func() {
		pl.Unlock()
		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.held, patientID)
		}
		l.mu.Unlock()
	}
}

func (l *patientLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.held)
}
