package vnode

import "sync"

// RenameMutex is the single global lock that serializes cross-parent
// renames; it is the coarsest lock in the system and, when held, is
// always acquired before any vnode mutex.
var RenameMutex sync.Mutex

// VlockInOrder locks a and b in ancestor-first order: whichever has
// the smaller inode id is locked first. This prevents deadlock between
// two threads that each want both vnodes in the opposite order, the
// same way the spec's lock-rank rule does for link/rename.
func VlockInOrder(a, b *Vnode_t) {
	if a.Ino == b.Ino {
		a.Lock()
		return
	}
	if a.Ino < b.Ino {
		a.Lock()
		b.Lock()
	} else {
		b.Lock()
		a.Lock()
	}
}

// VunlockInOrder unlocks a and b, tolerating a == b (same inode).
func VunlockInOrder(a, b *Vnode_t) {
	if a.Ino == b.Ino {
		a.Unlock()
		return
	}
	a.Unlock()
	b.Unlock()
}
