// Package vm implements the address-space map: the ordered set of
// vmareas bound to memory objects that a process's pages live in, and
// the page-fault resolver that turns a fault into a pframe and a PTE.
package vm

import (
	"weenix/defs"
	"weenix/mem"
	"weenix/mobj"
)

// Page-number forms of the address-space bounds every vmarea must
// fall within.
var (
	USER_MEM_LOW_PN  = defs.USER_MEM_LOW / mem.PGSIZE
	USER_MEM_HIGH_PN = defs.USER_MEM_HIGH / mem.PGSIZE
)

// Dir_t selects which end of the address space find_range searches
// from.
type Dir_t int

const (
	LOHI Dir_t = iota // search from the bottom upward
	HILO              // search from the top downward
)

// Vmarea_t is a half-open page interval [Start, End) bound to a memory
// object at a page offset, with fixed protection and sharing flags for
// its lifetime. Areas within one Vmmap_t are disjoint and held in
// ascending order by Start.
type Vmarea_t struct {
	Start int // first page, inclusive
	End   int // one past the last page

	Off   int // page offset into Mobj where Start maps
	Prot  defs.Prot_t
	Flags defs.Mmapflag_t

	Mobj mobj.Mobj_i

	Vmmap *Vmmap_t
}

// Len reports the area's length in pages.
func (v *Vmarea_t) Len() int { return v.End - v.Start }

// Private reports whether this area is copy-on-write private (as
// opposed to shared).
func (v *Vmarea_t) Private() bool { return v.Flags&defs.MAP_PRIVATE != 0 }

// mobjOffset translates a page number within this area to the page
// offset into its backing mobj.
func (v *Vmarea_t) mobjOffset(pn int) int {
	return v.Off + (pn - v.Start)
}
