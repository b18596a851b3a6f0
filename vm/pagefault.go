package vm

import (
	"weenix/defs"
	"weenix/mem"
	"weenix/util"
)

// Cause_t is the set of reasons a fault trapped, as delivered by the
// hardware fault handler (out of scope here; this package only needs
// to know which bits were set).
type Cause_t uint

const (
	CAUSE_USER  Cause_t = 1 << 0
	CAUSE_WRITE Cause_t = 1 << 1
	CAUSE_EXEC  Cause_t = 1 << 2
)

// Pagetable_i is the narrow interface the page-fault resolver needs
// from the hardware pagetable layer, which is out of scope here:
// install one translation and flush the TLB for one page.
type Pagetable_i interface {
	Install(vaddr int, pa mem.Pa_t, writable bool)
	Flush(vaddr int)
}

// Resolve handles a user page fault at vaddr with the given cause
// bits against vm, installing a translation via pt on success.
// Callers are expected to kill the faulting process on any non-zero
// return, per the fatal-fault handling the resolver itself doesn't
// perform.
func Resolve(vm *Vmmap_t, pt Pagetable_i, vaddr int, cause Cause_t) defs.Err_t {
	if vaddr < defs.USER_MEM_LOW || vaddr >= defs.USER_MEM_HIGH {
		return -defs.EFAULT
	}

	pn := vaddr / mem.PGSIZE
	a := vm.Lookup(pn)
	if a == nil {
		return -defs.EFAULT
	}

	var need defs.Prot_t
	switch {
	case cause&CAUSE_WRITE != 0:
		need = defs.PROT_WRITE
	case cause&CAUSE_EXEC != 0:
		need = defs.PROT_EXEC
	default:
		need = defs.PROT_READ
	}
	if a.Prot == defs.PROT_NONE || a.Prot&need == 0 {
		return -defs.EFAULT
	}

	forwrite := cause&CAUSE_WRITE != 0
	pf, err := a.Mobj.Get_pframe(a.mobjOffset(pn), forwrite)
	if err != 0 {
		return err
	}

	aligned := util.Rounddown(vaddr, mem.PGSIZE)
	pt.Install(aligned, pf.Pa, forwrite)
	pf.Release(forwrite)
	pt.Flush(aligned)
	return 0
}
