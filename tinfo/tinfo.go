// Package tinfo implements just enough kernel-thread bookkeeping to
// specify fork/exit/waitpid and the cancellable sleep the line
// discipline relies on.
//
// The teacher keeps the running thread's Tnote_t in a goroutine-local
// slot installed with unsafe assembly hooks into its custom runtime
// fork (runtime.Gptr/Setgptr). That technique has no meaning on the
// stock runtime this module builds against, and the design notes call
// out exactly this pattern -- global mutable "current thread" state --
// as needing to become an explicit context object instead. So Tnote_t
// here is passed explicitly to every call that needs it rather than
// fetched from goroutine-local storage.
package tinfo

import (
	"sync"

	"weenix/defs"
)

// Tnote_t stores the per-thread state a cancellable sleep needs.
type Tnote_t struct {
	Tid      defs.Tid_t
	Alive    bool
	Isdoomed bool

	// protects Isdoomed and Killnaps, and is a leaf lock
	sync.Mutex
	Killnaps struct {
		Cond *sync.Cond
		Kerr defs.Err_t
	}
}

// MkTnote allocates a live thread note for the given thread id, with
// its wait condition ready to use.
func MkTnote(tid defs.Tid_t) *Tnote_t {
	t := &Tnote_t{Tid: tid, Alive: true}
	t.Killnaps.Cond = sync.NewCond(&t.Mutex)
	return t
}

// Doomed reports whether the thread is marked as doomed.
func (t *Tnote_t) Doomed() bool {
	t.Lock()
	defer t.Unlock()
	return t.Isdoomed
}

// Doom marks the thread doomed and wakes it if it is sleeping
// cancellably, delivering EINTR to the sleeper.
func (t *Tnote_t) Doom() {
	t.Lock()
	t.Isdoomed = true
	t.Killnaps.Kerr = -defs.EINTR
	t.Killnaps.Cond.Broadcast()
	t.Unlock()
}

// Exit marks the thread as no longer alive.
func (t *Tnote_t) Exit() {
	t.Lock()
	t.Alive = false
	t.Unlock()
}

// CancellableSleepOn blocks on the given external lock and this
// thread's wait condition until either Wake is called on this note or
// the note is doomed. The caller's lock is released atomically with
// going to sleep and reacquired before returning, so the caller never
// coordinates that handoff itself.
//
// pred reports whether the awaited condition now holds; it is
// evaluated with extlock held, matching the standard condvar idiom of
// looping on a predicate rather than trusting a single wakeup.
func (t *Tnote_t) CancellableSleepOn(extlock sync.Locker, pred func() bool) defs.Err_t {
	for !pred() {
		t.Lock()
		if t.Isdoomed {
			err := t.Killnaps.Kerr
			t.Unlock()
			return err
		}
		extlock.Unlock()
		t.Killnaps.Cond.Wait()
		doomed := t.Isdoomed
		err := t.Killnaps.Kerr
		t.Unlock()
		extlock.Lock()
		if doomed {
			return err
		}
	}
	return 0
}

// Wake broadcasts to any thread sleeping in CancellableSleepOn on this
// note.
func (t *Tnote_t) Wake() {
	t.Lock()
	t.Killnaps.Cond.Broadcast()
	t.Unlock()
}

// Threadinfo_t tracks all live thread notes in the system.
type Threadinfo_t struct {
	Notes map[defs.Tid_t]*Tnote_t
	sync.Mutex
}

// Init (re)initializes the thread info map.
func (ti *Threadinfo_t) Init() {
	ti.Lock()
	defer ti.Unlock()
	ti.Notes = make(map[defs.Tid_t]*Tnote_t)
}

// Add registers a thread note.
func (ti *Threadinfo_t) Add(t *Tnote_t) {
	ti.Lock()
	defer ti.Unlock()
	if ti.Notes == nil {
		ti.Notes = make(map[defs.Tid_t]*Tnote_t)
	}
	ti.Notes[t.Tid] = t
}

// Remove drops a thread note from the registry (called after exit).
func (ti *Threadinfo_t) Remove(tid defs.Tid_t) {
	ti.Lock()
	defer ti.Unlock()
	delete(ti.Notes, tid)
}

// Get looks up a thread note by id.
func (ti *Threadinfo_t) Get(tid defs.Tid_t) (*Tnote_t, bool) {
	ti.Lock()
	defer ti.Unlock()
	t, ok := ti.Notes[tid]
	return t, ok
}
