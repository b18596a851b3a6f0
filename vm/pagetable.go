package vm

import (
	"sync"

	"weenix/mem"
)

// Pagetable_t is a per-address-space page table. A real pagetable is
// hardware-walked, physically-addressed tree structure the CPU reads
// directly (the teacher's Pmap_t, a [512]Pa_t array mirroring x86-64's
// page-map level 4); that hardware format is out of scope here the
// same way the physical frame allocator is, so this stands in with
// the minimal interface the page-fault resolver actually needs: map a
// virtual page to a frame, and know when to drop the mapping.
type Pagetable_t struct {
	mu  sync.Mutex
	ptes map[int]entry_t
}

type entry_t struct {
	pa       mem.Pa_t
	writable bool
}

// MkPagetable returns an empty page table.
func MkPagetable() *Pagetable_t {
	return &Pagetable_t{ptes: make(map[int]entry_t)}
}

func (pt *Pagetable_t) Install(vaddr int, pa mem.Pa_t, writable bool) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.ptes[vaddr] = entry_t{pa: pa, writable: writable}
}

func (pt *Pagetable_t) Flush(vaddr int) {
	// No TLB to shoot down on a hosted page table; a real
	// implementation would IPI other cores running this address
	// space, which multi-core scheduling is out of scope for.
}

// Lookup returns the frame mapped at vaddr, if any -- used by tests
// and Vmmap_t.Read/Write style verification that a fault actually
// installed what was expected.
func (pt *Pagetable_t) Lookup(vaddr int) (mem.Pa_t, bool) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	e, ok := pt.ptes[vaddr]
	return e.pa, ok
}

// Unmap drops vaddr's mapping, e.g. for munmap.
func (pt *Pagetable_t) Unmap(vaddr int) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	delete(pt.ptes, vaddr)
}
