package mobj

import (
	"testing"

	"weenix/defs"
)

// fakeBacking is a minimal in-memory Backing_i for exercising Vnode_t
// without pulling in a real filesystem (mobj cannot import memfs,
// which already imports mobj).
type fakeBacking struct {
	pages map[int][]uint8
}

func newFakeBacking() *fakeBacking {
	return &fakeBacking{pages: make(map[int][]uint8)}
}

func (f *fakeBacking) ReadPage(pagenum int, dst []uint8) defs.Err_t {
	if p, ok := f.pages[pagenum]; ok {
		copy(dst, p)
	}
	return 0
}

func (f *fakeBacking) WritePage(pagenum int, src []uint8) defs.Err_t {
	buf := make([]uint8, len(src))
	copy(buf, src)
	f.pages[pagenum] = buf
	return 0
}

func TestVnodeFillReadsFromBacking(t *testing.T) {
	b := newFakeBacking()
	want := make([]uint8, len(b.pages[0])+1)
	want[0] = 0x9
	b.pages[0] = want

	v := MkVnodeMobj(b)
	pf, err := v.Get_pframe(0, false)
	if err != 0 {
		t.Fatalf("get_pframe failed: %d", err)
	}
	if pf.Bytes()[0] != 0x9 {
		t.Fatalf("got %x want the backing's content", pf.Bytes()[0])
	}
	pf.Release(false)
}

func TestVnodeFlushWritesDirtyFrameBack(t *testing.T) {
	b := newFakeBacking()
	v := MkVnodeMobj(b)

	pf, _ := v.Get_pframe(0, true)
	pf.Bytes()[0] = 0x77
	pf.Release(true)

	Mobj_put(v)

	stored, ok := b.pages[0]
	if !ok || stored[0] != 0x77 {
		t.Fatal("dropping the last reference should have flushed the dirty frame to the backing")
	}
}

func TestVnodeCleanFrameIsNotFlushedOnTeardown(t *testing.T) {
	b := newFakeBacking()
	v := MkVnodeMobj(b)

	pf, _ := v.Get_pframe(0, false)
	pf.Release(false)

	Mobj_put(v)

	if _, ok := b.pages[0]; ok {
		t.Fatal("a clean frame should not be written back on teardown")
	}
}
