// Package mobj implements the reference-counted memory object: the
// abstract page-producing entity that backs every vmarea. Concrete
// variants (anonymous, vnode-backed, device) and the copy-on-write
// shadow overlay all embed Mobj_t and implement Mobj_i; the chain
// collapser lives in shadow.go.
package mobj

import (
	"sync"

	"weenix/defs"
	"weenix/mem"
)

// Mtype_t tags which concrete variant a Mobj_t is.
type Mtype_t int

const (
	MOBJ_ANON Mtype_t = iota
	MOBJ_SHADOW
	MOBJ_VNODE
	MOBJ_DEV
)

// Mobj_i is the capability set every memory-object variant implements.
// It plays the role the teacher's function-pointer op tables play,
// made explicit as a Go interface per the context-object redesign:
// variants differ in Fill_pframe/Flush_pframe/Destructor/Type, and
// all but Shadow_t share the default Get_pframe logic below via Base().
type Mobj_i interface {
	// Base returns the embedded common state (lock, refcount, page
	// cache) shared by every variant.
	Base() *Mobj_t
	// Get_pframe returns a mapped, pinned, locked page. Concrete
	// variants implement this by calling DefaultGetPframe; Shadow_t
	// overrides it with chain-walking logic.
	Get_pframe(pagenum int, forwrite bool) (*Pframe_t, defs.Err_t)
	// Fill_pframe populates a freshly allocated empty frame with this
	// object's content for pf.Pagenum.
	Fill_pframe(pf *Pframe_t) defs.Err_t
	// Flush_pframe writes a dirty frame back to backing store. A
	// no-op for anonymous and shadow objects.
	Flush_pframe(pf *Pframe_t) defs.Err_t
	// Destructor runs any variant-specific teardown after the default
	// destructor has flushed and freed every cached frame.
	Destructor()
	// Type reports which variant this is.
	Type() Mtype_t
}

// Mobj_t is the state common to every memory-object variant: a lock
// guarding both the page cache and the refcount, and the cache itself.
// The lock is exported via Lock/Unlock so Get_pframe, the page-fault
// resolver, and shadow_collapse can all serialize on it.
type Mobj_t struct {
	mu      sync.Mutex
	refcnt  int
	pages   map[int]*Pframe_t
	pending bool // unused: no code path sets or reads it
}

// MkMobj initializes the embeddable common state with refcount 1, as
// every freshly created concrete object starts referenced by its
// creator.
func MkMobj() Mobj_t {
	return Mobj_t{refcnt: 1, pages: make(map[int]*Pframe_t)}
}

// Lock acquires the object's mutex, guarding both its page cache and
// its refcount.
func (m *Mobj_t) Lock() { m.mu.Lock() }

// Unlock releases the object's mutex.
func (m *Mobj_t) Unlock() { m.mu.Unlock() }

// Refcnt returns the current reference count. Caller must hold the
// lock for a meaningful answer outside of Ref/Put themselves.
func (m *Mobj_t) Refcnt() int { return m.refcnt }

// lookup returns the cached frame for pagenum, if any. Caller must
// hold the lock.
func (m *Mobj_t) lookup(pagenum int) (*Pframe_t, bool) {
	pf, ok := m.pages[pagenum]
	return pf, ok
}

// insert adds pf to the page cache. Caller must hold the lock.
func (m *Mobj_t) insert(pf *Pframe_t) {
	m.pages[pf.Pagenum] = pf
}

// Has reports whether pagenum is cached, without allocating. Caller
// must hold the lock.
func (m *Mobj_t) Has(pagenum int) bool {
	_, ok := m.pages[pagenum]
	return ok
}

// Each calls f for every cached frame. Caller must hold the lock.
func (m *Mobj_t) Each(f func(*Pframe_t)) {
	for _, pf := range m.pages {
		f(pf)
	}
}

// Mobj_ref takes a new reference on o. Pairs with exactly one Mobj_put.
func Mobj_ref(o Mobj_i) {
	b := o.Base()
	b.Lock()
	b.refcnt++
	b.Unlock()
}

// Mobj_put drops a reference on o, running the default destructor
// (flush every dirty frame, free every frame, then the variant's own
// Destructor) when the count reaches zero.
func Mobj_put(o Mobj_i) {
	b := o.Base()
	b.Lock()
	b.refcnt--
	if b.refcnt < 0 {
		b.Unlock()
		panic("mobj refcount underflow")
	}
	dead := b.refcnt == 0
	b.Unlock()
	if !dead {
		return
	}
	b.Lock()
	b.Each(func(pf *Pframe_t) {
		pf.Lock()
		if pf.Dirty {
			o.Flush_pframe(pf)
		}
		pf.Unlock()
		mem.Physmem.Refdown(pf.Pa)
	})
	b.pages = nil
	b.Unlock()
	o.Destructor()
}

// DefaultGetPframe is the default get_pframe behavior shared by every
// concrete (non-shadow) variant: look up the frame; if absent,
// allocate and fill it; return it locked and pinned. Shadow_t.Get_pframe
// overrides this with chain-walking logic instead of calling it
// directly (except on the write path, which still wants this
// allocate-into-own-cache behavior).
func DefaultGetPframe(o Mobj_i, pagenum int, forwrite bool) (*Pframe_t, defs.Err_t) {
	b := o.Base()
	b.Lock()
	defer b.Unlock()

	pf, ok := b.lookup(pagenum)
	if !ok {
		pf = allocPframe(pagenum)
		if pf == nil {
			return nil, -defs.ENOMEM
		}
		pf.Lock()
		if err := o.Fill_pframe(pf); err != 0 {
			pf.Unlock()
			mem.Physmem.Refdown(pf.Pa)
			return nil, err
		}
		b.insert(pf)
	} else {
		pf.Lock()
	}
	pf.Pin()
	// Returned locked and pinned; the caller releases both via
	// Pframe_t.Release.
	return pf, 0
}
