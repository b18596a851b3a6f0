package vm

import (
	"weenix/defs"
	"weenix/mem"
	"weenix/mobj"
	"weenix/util"
)

// Brk_t tracks the single anonymous private vmarea backing a
// process's heap. start_brk is fixed at process creation; the area
// itself is created lazily the first time the heap grows past
// start_brk, mirroring the budget note that brk(start_brk) is a no-op.
type Brk_t struct {
	startBrk int // page-aligned, fixed for the process's lifetime
	curBrk   int // current break, in bytes
	area     *Vmarea_t
}

// MkBrk fixes the heap's starting break address.
func MkBrk(startBrk int) *Brk_t {
	return &Brk_t{startBrk: startBrk, curBrk: startBrk}
}

// Brk grows or shrinks the heap to end at addr, returning the
// resulting break. addr == startBrk is a no-op even before the area
// exists. Shrinking to exactly startBrk removes the area.
func (b *Brk_t) Brk(vm *Vmmap_t, addr int) (int, defs.Err_t) {
	if addr == b.startBrk {
		if b.area != nil {
			if err := vm.Remove(b.startBrk/mem.PGSIZE, b.area.Len()); err != 0 {
				return 0, err
			}
			b.area = nil
		}
		b.curBrk = b.startBrk
		return b.curBrk, 0
	}
	if addr < b.startBrk || addr > defs.USER_MEM_HIGH {
		return 0, -defs.ENOMEM
	}

	startPn := b.startBrk / mem.PGSIZE
	endPn := util.Roundup(addr, mem.PGSIZE) / mem.PGSIZE
	n := endPn - startPn

	if b.area == nil {
		anon := mobj.MkAnon()
		area, err := vm.Map(startPn, n, defs.PROT_READ|defs.PROT_WRITE,
			defs.MAP_PRIVATE|defs.MAP_ANON, anon, 0, LOHI)
		if err != 0 {
			return 0, err
		}
		b.area = area
	} else if n != b.area.Len() {
		if n > b.area.Len() {
			grow := n - b.area.Len()
			if !vm.Is_range_empty(b.area.End, grow) {
				return 0, -defs.ENOMEM
			}
			b.area.End += grow
		} else {
			shrink := b.area.Len() - n
			if err := vm.Remove(endPn, shrink); err != 0 {
				return 0, err
			}
			b.area.End = endPn
		}
	}
	b.curBrk = addr
	return b.curBrk, 0
}

// Clone returns a copy of b's break bookkeeping with no area bound
// yet; the caller must call Rebind on the result against whichever
// Vmmap_t (typically a fork child's) actually owns the corresponding
// vmarea.
func (b *Brk_t) Clone() *Brk_t {
	return &Brk_t{startBrk: b.startBrk, curBrk: b.curBrk}
}

// Rebind re-resolves b's vmarea pointer against vm, needed after a
// vmmap clone since the cloned map holds its own, distinct Vmarea_t
// for the same page range.
func (b *Brk_t) Rebind(vm *Vmmap_t) {
	if b.curBrk == b.startBrk {
		b.area = nil
		return
	}
	b.area = vm.Lookup(b.startBrk / mem.PGSIZE)
}
