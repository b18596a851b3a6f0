// Package mem provides the refcounted page-frame abstraction that
// memory objects and vmareas are built on. Physical-allocator and
// pagetable/TLB concerns are out of scope here (no direct-mapped
// addressing, no per-CPU free lists, no PTE bit twiddling) -- pages
// are plain Go-allocated byte buffers identified by an opaque frame
// id, tracked the same way the teacher tracks real physical frames:
// a reference count that frees the frame back to an allocator when it
// hits zero.
package mem

import (
	"sync"
	"sync/atomic"

	"weenix/limits"
)

// PGSHIFT is the base-2 exponent for the page size.
const PGSHIFT uint = 12

// PGSIZE is the size of a single page in bytes.
const PGSIZE int = 1 << PGSHIFT

// Pa_t identifies a page frame. It carries no hardware meaning here --
// just an opaque, comparable handle into the frame table -- but the
// name is kept because every layer above (mobj, vm) speaks in terms of
// Pa_t the same way the teacher's vm and fs packages do.
type Pa_t uint64

// Pg_t is the fixed-size backing storage for one frame.
type Pg_t [PGSIZE]uint8

// Page_i abstracts frame allocation; Physmem_t implements it. mobj
// calls the global Physmem directly rather than through Page_i.
type Page_i interface {
	Refpg_new() (*Pg_t, Pa_t, bool)
	Refcnt(Pa_t) int
	Refup(Pa_t)
	Refdown(Pa_t) bool
	Deref(Pa_t) *Pg_t
}

type frame_t struct {
	refcnt int32
	pg     Pg_t
}

// Physmem_t is a frame table: a growable set of refcounted frames,
// indexed by the Pa_t returned from Refpg_new. Unlike the teacher's
// Physmem_t it has no fixed reservation carved out of real RAM; it
// grows as frames are allocated and never returns memory to the OS,
// which is fine for a teaching-grade simulation of the allocator
// mobj/vm depend on.
type Physmem_t struct {
	mu     sync.Mutex
	frames map[Pa_t]*frame_t
	next   Pa_t
}

// Physmem is the global frame table, analogous to the teacher's global
// Physmem variable.
var Physmem = MkPhysmem()

// MkPhysmem returns a freshly initialized, empty frame table.
func MkPhysmem() *Physmem_t {
	return &Physmem_t{frames: make(map[Pa_t]*frame_t)}
}

// Refpg_new allocates a new zeroed frame with refcount 1, refusing
// once limits.Syslimit.Mfspgs is exhausted the same way a real
// physical allocator would refuse once RAM runs out.
func (p *Physmem_t) Refpg_new() (*Pg_t, Pa_t, bool) {
	if !limits.Syslimit.Mfspgs.Take() {
		return nil, 0, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.next++
	pa := p.next
	f := &frame_t{refcnt: 1}
	p.frames[pa] = f
	return &f.pg, pa, true
}

// Refcnt returns the live reference count of the frame at pa, or 0 if
// it has already been freed.
func (p *Physmem_t) Refcnt(pa Pa_t) int {
	p.mu.Lock()
	f, ok := p.frames[pa]
	p.mu.Unlock()
	if !ok {
		return 0
	}
	return int(atomic.LoadInt32(&f.refcnt))
}

// Refup increments the frame's reference count. The frame must still
// be live.
func (p *Physmem_t) Refup(pa Pa_t) {
	p.mu.Lock()
	f, ok := p.frames[pa]
	p.mu.Unlock()
	if !ok {
		panic("refup of freed frame")
	}
	if atomic.AddInt32(&f.refcnt, 1) <= 1 {
		panic("refup of dead frame")
	}
}

// Refdown decrements the frame's reference count, freeing it from the
// table when it reaches zero, and reports whether it was freed.
func (p *Physmem_t) Refdown(pa Pa_t) bool {
	p.mu.Lock()
	f, ok := p.frames[pa]
	if !ok {
		p.mu.Unlock()
		panic("refdown of freed frame")
	}
	c := atomic.AddInt32(&f.refcnt, -1)
	if c < 0 {
		p.mu.Unlock()
		panic("negative refcount")
	}
	if c == 0 {
		delete(p.frames, pa)
	}
	p.mu.Unlock()
	if c == 0 {
		limits.Syslimit.Mfspgs.Give()
	}
	return c == 0
}

// Deref returns the backing storage for a still-live frame.
func (p *Physmem_t) Deref(pa Pa_t) *Pg_t {
	p.mu.Lock()
	f, ok := p.frames[pa]
	p.mu.Unlock()
	if !ok {
		panic("deref of freed frame")
	}
	return &f.pg
}
