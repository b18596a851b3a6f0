package vm

import (
	"testing"

	"weenix/defs"
	"weenix/mem"
	"weenix/mobj"
)

func TestResolveInstallsMappingOnValidFault(t *testing.T) {
	vmm := MkVmmap()
	obj := mobj.MkAnon()
	_, err := vmm.Map(USER_MEM_LOW_PN, 1, defs.PROT_READ|defs.PROT_WRITE, defs.MAP_PRIVATE|defs.MAP_ANON, obj, 0, LOHI)
	if err != 0 {
		t.Fatalf("map failed: %d", err)
	}

	pt := MkPagetable()
	vaddr := USER_MEM_LOW_PN * mem.PGSIZE
	if err := Resolve(vmm, pt, vaddr, CAUSE_USER|CAUSE_WRITE); err != 0 {
		t.Fatalf("resolve failed: %d", err)
	}

	if _, ok := pt.Lookup(vaddr); !ok {
		t.Fatal("expected a mapping to be installed")
	}
}

func TestResolveRejectsProtectionViolation(t *testing.T) {
	vmm := MkVmmap()
	obj := mobj.MkAnon()
	_, err := vmm.Map(USER_MEM_LOW_PN, 1, defs.PROT_READ, defs.MAP_PRIVATE|defs.MAP_ANON, obj, 0, LOHI)
	if err != 0 {
		t.Fatalf("map failed: %d", err)
	}

	pt := MkPagetable()
	vaddr := USER_MEM_LOW_PN * mem.PGSIZE
	if err := Resolve(vmm, pt, vaddr, CAUSE_USER|CAUSE_WRITE); err != -defs.EFAULT {
		t.Fatalf("got %d want EFAULT", err)
	}
}

func TestResolveRejectsUnmappedAddress(t *testing.T) {
	vmm := MkVmmap()
	pt := MkPagetable()
	if err := Resolve(vmm, pt, defs.USER_MEM_LOW, CAUSE_USER); err != -defs.EFAULT {
		t.Fatalf("got %d want EFAULT", err)
	}
}

func TestResolveRejectsOutOfRangeAddress(t *testing.T) {
	vmm := MkVmmap()
	pt := MkPagetable()
	if err := Resolve(vmm, pt, defs.USER_MEM_HIGH, CAUSE_USER); err != -defs.EFAULT {
		t.Fatalf("got %d want EFAULT", err)
	}
}
