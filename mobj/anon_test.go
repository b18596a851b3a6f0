package mobj

import (
	"testing"

	"weenix/mem"
)

func TestAnonFillZeroesFreshFrame(t *testing.T) {
	a := MkAnon()
	pf, err := a.Get_pframe(0, false)
	if err != 0 {
		t.Fatalf("get_pframe failed: %d", err)
	}
	for i, b := range pf.Bytes() {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: %x", i, b)
		}
	}
	pf.Release(false)
}

func TestAnonGetPframeCachesAcrossCalls(t *testing.T) {
	a := MkAnon()
	pf1, _ := a.Get_pframe(3, true)
	pf1.Bytes()[0] = 0x42
	pf1.Release(true)

	pf2, _ := a.Get_pframe(3, false)
	if pf2.Bytes()[0] != 0x42 {
		t.Fatal("second Get_pframe on the same pagenum should return the same cached frame")
	}
	pf2.Release(false)
}

func TestAnonRefcountTeardownFreesFrame(t *testing.T) {
	a := MkAnon()
	pf, _ := a.Get_pframe(0, true)
	pa := pf.Pa
	pf.Release(true)

	Mobj_put(a)

	if mem.Physmem.Refcnt(pa) != 0 {
		t.Fatal("dropping the last reference should free every cached frame")
	}
}
