package vm

import (
	"container/list"

	"weenix/defs"
	"weenix/mem"
	"weenix/mobj"
)

// Vmmap_t is the ordered set of vmareas belonging to a process's
// address space. Areas are kept as a doubly-linked list sorted by
// Start, the same bookkeeping style the teacher uses for a block
// device's dirty-block list (fs.BlkList_t) -- appropriate here too,
// since insert/remove only ever touch a handful of neighboring areas.
type Vmmap_t struct {
	areas *list.List
}

// MkVmmap returns a freshly initialized, empty address-space map.
func MkVmmap() *Vmmap_t {
	return &Vmmap_t{areas: list.New()}
}

func areaOf(e *list.Element) *Vmarea_t { return e.Value.(*Vmarea_t) }

// Insert adds vma to the map, keeping the list sorted by Start.
// Panics if vma overlaps an existing area -- disjointness is a
// programming invariant, not a runtime error condition.
func (vm *Vmmap_t) Insert(vma *Vmarea_t) {
	vma.Vmmap = vm
	for e := vm.areas.Front(); e != nil; e = e.Next() {
		cur := areaOf(e)
		if vma.End <= cur.Start {
			vm.areas.InsertBefore(vma, e)
			return
		}
		if vma.Start < cur.End {
			panic("vmmap: overlapping vmarea inserted")
		}
	}
	vm.areas.PushBack(vma)
}

// Lookup returns the area containing page vfn, or nil.
func (vm *Vmmap_t) Lookup(vfn int) *Vmarea_t {
	for e := vm.areas.Front(); e != nil; e = e.Next() {
		a := areaOf(e)
		if vfn >= a.Start && vfn < a.End {
			return a
		}
	}
	return nil
}

// Is_range_empty reports whether no existing area intersects
// [start, start+n).
func (vm *Vmmap_t) Is_range_empty(start, n int) bool {
	end := start + n
	for e := vm.areas.Front(); e != nil; e = e.Next() {
		a := areaOf(e)
		if a.Start < end && a.End > start {
			return false
		}
	}
	return true
}

// Find_range performs a first-fit scan for n consecutive free pages
// within [USER_MEM_LOW_PN, USER_MEM_HIGH_PN). LOHI searches from the
// bottom upward, HILO from the top downward. Returns -1 if no run of
// n free pages exists.
func (vm *Vmmap_t) Find_range(n int, dir Dir_t) int {
	if dir == LOHI {
		cur := USER_MEM_LOW_PN
		for e := vm.areas.Front(); e != nil; e = e.Next() {
			a := areaOf(e)
			if a.Start-cur >= n {
				return cur
			}
			if a.End > cur {
				cur = a.End
			}
		}
		if USER_MEM_HIGH_PN-cur >= n {
			return cur
		}
		return -1
	}

	cur := USER_MEM_HIGH_PN
	for e := vm.areas.Back(); e != nil; e = e.Prev() {
		a := areaOf(e)
		if cur-a.End >= n {
			return cur - n
		}
		if a.Start < cur {
			cur = a.Start
		}
	}
	if cur-USER_MEM_LOW_PN >= n {
		return cur - n
	}
	return -1
}

// Map creates a new vmarea of n pages backed by obj (supplied by the
// caller: an anonymous object, or what a vnode's Mmap op returned),
// installs it in the map, and
// returns it. If lopage is 0 a location is chosen with Find_range;
// otherwise the area is placed exactly at lopage. A PRIVATE mapping is
// wrapped in a fresh shadow of obj, with the caller's reference to obj
// consumed by the wrap.
func (vm *Vmmap_t) Map(lopage, n int, prot defs.Prot_t, flags defs.Mmapflag_t, obj mobj.Mobj_i, offPages int, dir Dir_t) (*Vmarea_t, defs.Err_t) {
	start := lopage
	if start == 0 {
		start = vm.Find_range(n, dir)
		if start == -1 {
			return nil, -defs.ENOMEM
		}
	}

	if flags&defs.MAP_FIXED != 0 && !vm.Is_range_empty(start, n) {
		if err := vm.Remove(start, n); err != 0 {
			return nil, err
		}
	}

	backing := obj
	if flags&defs.MAP_PRIVATE != 0 {
		backing = mobj.Shadow_create(obj)
		mobj.Mobj_put(obj)
	}

	vma := &Vmarea_t{
		Start: start,
		End:   start + n,
		Off:   offPages,
		Prot:  prot,
		Flags: flags,
		Mobj:  backing,
	}
	vm.Insert(vma)
	return vma, 0
}

// Remove unmaps [lopage, lopage+n), splitting or trimming any area
// that only partially intersects the range.
func (vm *Vmmap_t) Remove(lopage, n int) defs.Err_t {
	lo := lopage
	hi := lopage + n

	var next *list.Element
	for e := vm.areas.Front(); e != nil; e = next {
		next = e.Next()
		a := areaOf(e)
		if a.End <= lo || a.Start >= hi {
			continue
		}

		switch {
		case a.Start < lo && a.End > hi:
			// contained: split into [a.Start,lo) and [hi,a.End)
			tailOff := a.Off + (hi - a.Start)
			tail := &Vmarea_t{
				Start: hi,
				End:   a.End,
				Off:   tailOff,
				Prot:  a.Prot,
				Flags: a.Flags,
				Mobj:  a.Mobj,
			}
			mobj.Mobj_ref(a.Mobj)
			a.End = lo
			vm.areas.InsertAfter(tail, e)
			tail.Vmmap = vm

		case a.Start >= lo && a.End > hi:
			// right-overlap: raise start to hi
			a.Off += hi - a.Start
			a.Start = hi

		case a.Start < lo && a.End <= hi:
			// left-overlap: lower end to lo
			a.End = lo

		default:
			// covered entirely
			mobj.Mobj_put(a.Mobj)
			vm.areas.Remove(e)
		}
	}
	return 0
}

// Clone produces a new address-space map with one area per source
// area. Shared areas have their mobj reference bumped and are handed
// to both maps; private areas get a fresh shadow pair, one replacing
// the source area's mobj (dropping its old reference) and one
// installed in the clone.
func (vm *Vmmap_t) Clone() *Vmmap_t {
	child := MkVmmap()
	for e := vm.areas.Front(); e != nil; e = e.Next() {
		a := areaOf(e)
		na := &Vmarea_t{
			Start: a.Start,
			End:   a.End,
			Off:   a.Off,
			Prot:  a.Prot,
			Flags: a.Flags,
		}
		if a.Flags&defs.MAP_SHARED != 0 {
			mobj.Mobj_ref(a.Mobj)
			na.Mobj = a.Mobj
		} else {
			parentShadow := mobj.Shadow_create(a.Mobj)
			childShadow := mobj.Shadow_create(a.Mobj)
			mobj.Mobj_put(a.Mobj)
			a.Mobj = parentShadow
			na.Mobj = childShadow
		}
		child.Insert(na)
	}
	return child
}

// Read copies count bytes starting at vaddr into buf, walking through
// however many vmareas the range spans.
func (vm *Vmmap_t) Read(vaddr, count int, buf []uint8) defs.Err_t {
	return vm.walk(vaddr, count, false, func(pf *mobj.Pframe_t, pgoff, n int, dst []uint8) {
		copy(dst, pf.Bytes()[pgoff:pgoff+n])
	}, buf)
}

// Write copies count bytes from buf to vaddr, walking through however
// many vmareas the range spans and marking each touched frame dirty.
func (vm *Vmmap_t) Write(vaddr, count int, buf []uint8) defs.Err_t {
	return vm.walk(vaddr, count, true, func(pf *mobj.Pframe_t, pgoff, n int, src []uint8) {
		copy(pf.Bytes()[pgoff:pgoff+n], src)
	}, buf)
}

func (vm *Vmmap_t) walk(vaddr, count int, forWrite bool, xfer func(*mobj.Pframe_t, int, int, []uint8), buf []uint8) defs.Err_t {
	off := 0
	for off < count {
		va := vaddr + off
		pn := va / mem.PGSIZE
		pgoff := va % mem.PGSIZE
		n := mem.PGSIZE - pgoff
		if n > count-off {
			n = count - off
		}

		a := vm.Lookup(pn)
		if a == nil {
			return -defs.EFAULT
		}
		pf, err := a.Mobj.Get_pframe(a.mobjOffset(pn), forWrite)
		if err != 0 {
			return err
		}
		xfer(pf, pgoff, n, buf[off:off+n])
		pf.Release(forWrite)
		off += n
	}
	return 0
}
