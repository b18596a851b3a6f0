package vfs

import (
	"sync"

	"weenix/defs"
	"weenix/fd"
)

// Fdtable_t is a process's fixed-size fd -> Fd_t mapping. Unused slots
// are nil.
type Fdtable_t struct {
	sync.Mutex
	slots [defs.NFILES]*fd.Fd_t
}

// MkFdtable returns an empty descriptor table.
func MkFdtable() *Fdtable_t {
	return &Fdtable_t{}
}

// lowestFree returns the smallest unused descriptor, or -1 if the
// table is full. Caller must hold the lock.
func (t *Fdtable_t) lowestFree() int {
	for i := range t.slots {
		if t.slots[i] == nil {
			return i
		}
	}
	return -1
}

// Install places nfd at the lowest free descriptor, as Open and Dup
// both want.
func (t *Fdtable_t) Install(nfd *fd.Fd_t) (int, defs.Err_t) {
	t.Lock()
	defer t.Unlock()
	i := t.lowestFree()
	if i < 0 {
		return 0, -defs.EBADF
	}
	t.slots[i] = nfd
	return i, 0
}

// Get returns the Fd_t at descriptor n, or EBADF if unset or out of
// range.
func (t *Fdtable_t) Get(n int) (*fd.Fd_t, defs.Err_t) {
	if n < 0 || n >= defs.NFILES {
		return nil, -defs.EBADF
	}
	t.Lock()
	defer t.Unlock()
	f := t.slots[n]
	if f == nil {
		return nil, -defs.EBADF
	}
	return f, 0
}

// Close releases descriptor n.
func (t *Fdtable_t) Close(n int) defs.Err_t {
	t.Lock()
	f := t.slots[n%defs.NFILES]
	if n < 0 || n >= defs.NFILES || f == nil {
		t.Unlock()
		return -defs.EBADF
	}
	t.slots[n] = nil
	t.Unlock()
	fd.Close_panic(f)
	return 0
}

// Dup duplicates descriptor n onto the lowest free descriptor.
func (t *Fdtable_t) Dup(n int) (int, defs.Err_t) {
	of, err := t.Get(n)
	if err != 0 {
		return 0, err
	}
	nf, err := fd.Copyfd(of)
	if err != 0 {
		return 0, err
	}
	return t.Install(nf)
}

// Dup2 duplicates descriptor oldfd onto newfd. Same-fd is defined as a
// no-op; otherwise any descriptor already at newfd is closed first.
func (t *Fdtable_t) Dup2(oldfd, newfd int) (int, defs.Err_t) {
	if oldfd == newfd {
		if _, err := t.Get(oldfd); err != 0 {
			return 0, err
		}
		return newfd, 0
	}
	of, err := t.Get(oldfd)
	if err != 0 {
		return 0, err
	}
	nf, err := fd.Copyfd(of)
	if err != 0 {
		return 0, err
	}
	if newfd < 0 || newfd >= defs.NFILES {
		fd.Close_panic(nf)
		return 0, -defs.EBADF
	}
	t.Lock()
	old := t.slots[newfd]
	t.slots[newfd] = nf
	t.Unlock()
	if old != nil {
		fd.Close_panic(old)
	}
	return newfd, 0
}
