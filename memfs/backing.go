package memfs

import (
	"weenix/defs"
	"weenix/mem"
)

// fileBacking adapts a Node_t's byte slice to mobj.Backing_i, letting
// a regular file's pages be faulted in and flushed back the same way
// the teacher's vnode-backed mobj variant talks to its disk cache --
// except here the "disk" is just the node's own in-memory buffer.
type fileBacking struct {
	fs   *Fs_t
	node *Node_t
}

func (b *fileBacking) ReadPage(pagenum int, dst []uint8) defs.Err_t {
	b.fs.Lock()
	defer b.fs.Unlock()
	off := pagenum * mem.PGSIZE
	for i := range dst {
		dst[i] = 0
	}
	if off >= len(b.node.data) {
		return 0
	}
	n := copy(dst, b.node.data[off:])
	_ = n
	return 0
}

func (b *fileBacking) WritePage(pagenum int, src []uint8) defs.Err_t {
	b.fs.Lock()
	defer b.fs.Unlock()
	off := pagenum * mem.PGSIZE
	need := off + len(src)
	if need > len(b.node.data) {
		grown := make([]byte, need)
		copy(grown, b.node.data)
		b.node.data = grown
	}
	copy(b.node.data[off:need], src)
	if b.node.vn != nil {
		b.node.vn.SetLen(int64(len(b.node.data)))
	}
	return 0
}
