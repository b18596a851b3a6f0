package mobj

import (
	"sync"

	"weenix/mem"
)

// Pframe_t is a single cached page belonging to exactly one mobj at a
// given page number. The lock is acquired for the duration of a
// fill/flush and released by the caller of Get_pframe once it is done
// using the frame's bytes.
type Pframe_t struct {
	sync.Mutex

	Pagenum int
	Pa      mem.Pa_t
	Pg      *mem.Pg_t
	Dirty   bool
	Pincnt  int32
}

// Bytes exposes the frame's backing storage as a byte slice.
func (pf *Pframe_t) Bytes() []uint8 {
	return pf.Pg[:]
}

// Pin increments the frame's pin count, preventing it from being
// evicted while in use.
func (pf *Pframe_t) Pin() {
	pf.Pincnt++
}

// Release drops the caller's pin on the frame and unlocks it, marking
// it dirty if dirtied is set. Every Get_pframe must be matched by
// exactly one Release.
func (pf *Pframe_t) Release(dirtied bool) {
	if dirtied {
		pf.Dirty = true
	}
	pf.Pincnt--
	if pf.Pincnt < 0 {
		panic("pframe pin underflow")
	}
	pf.Unlock()
}

func allocPframe(pagenum int) *Pframe_t {
	pg, pa, ok := mem.Physmem.Refpg_new()
	if !ok {
		return nil
	}
	return &Pframe_t{Pagenum: pagenum, Pa: pa, Pg: pg}
}
