package vm

import (
	"testing"

	"weenix/defs"
	"weenix/mem"
)

func TestBrkNoopAtStart(t *testing.T) {
	vmm := MkVmmap()
	b := MkBrk(defs.USER_MEM_LOW)
	got, err := b.Brk(vmm, defs.USER_MEM_LOW)
	if err != 0 || got != defs.USER_MEM_LOW {
		t.Fatalf("got (%d, %d)", got, err)
	}
	if vmm.areas.Len() != 0 {
		t.Fatalf("expected no area to be created")
	}
}

func TestBrkGrowAndShrink(t *testing.T) {
	vmm := MkVmmap()
	b := MkBrk(defs.USER_MEM_LOW)

	got, err := b.Brk(vmm, defs.USER_MEM_LOW+mem.PGSIZE*2)
	if err != 0 {
		t.Fatalf("grow failed: %d", err)
	}
	if got != defs.USER_MEM_LOW+mem.PGSIZE*2 {
		t.Fatalf("got %d", got)
	}
	if vmm.areas.Len() != 1 {
		t.Fatalf("expected one area, got %d", vmm.areas.Len())
	}

	got, err = b.Brk(vmm, defs.USER_MEM_LOW)
	if err != 0 {
		t.Fatalf("shrink-to-start failed: %d", err)
	}
	if got != defs.USER_MEM_LOW {
		t.Fatalf("got %d", got)
	}
	if vmm.areas.Len() != 0 {
		t.Fatalf("expected area to be removed, got %d left", vmm.areas.Len())
	}
}

func TestBrkRejectsBelowStart(t *testing.T) {
	vmm := MkVmmap()
	b := MkBrk(defs.USER_MEM_LOW)
	if _, err := b.Brk(vmm, defs.USER_MEM_LOW-mem.PGSIZE); err != -defs.ENOMEM {
		t.Fatalf("got %d want ENOMEM", err)
	}
}

func TestBrkCloneRebind(t *testing.T) {
	vmm := MkVmmap()
	b := MkBrk(defs.USER_MEM_LOW)
	if _, err := b.Brk(vmm, defs.USER_MEM_LOW+mem.PGSIZE); err != 0 {
		t.Fatalf("grow failed: %d", err)
	}

	child := vmm.Clone()
	cb := b.Clone()
	cb.Rebind(child)

	if cb.area == nil {
		t.Fatal("expected child brk to rebind to a vmarea in the clone")
	}
	if cb.area == b.area {
		t.Fatal("expected child brk to bind to the clone's own vmarea, not the parent's")
	}
}
