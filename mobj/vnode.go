package mobj

import "weenix/defs"

// Backing_i is the narrow interface a concrete filesystem vnode
// exposes to back a memory object: page-granularity read/write against
// whatever storage it actually keeps (in-memory, on-disk -- out of
// scope here -- or otherwise).
type Backing_i interface {
	ReadPage(pagenum int, dst []uint8) defs.Err_t
	WritePage(pagenum int, src []uint8) defs.Err_t
}

// Vnode_t is the memory object backing a regular file's mmap'd pages.
// fill_pframe/flush_pframe simply delegate to the vnode's own page
// storage.
type Vnode_t struct {
	Mobj_t

	Backing Backing_i
}

// MkVnodeMobj returns a freshly created vnode-backed object over b,
// with refcount 1.
func MkVnodeMobj(b Backing_i) *Vnode_t {
	return &Vnode_t{Mobj_t: MkMobj(), Backing: b}
}

func (v *Vnode_t) Base() *Mobj_t { return &v.Mobj_t }
func (v *Vnode_t) Type() Mtype_t { return MOBJ_VNODE }

func (v *Vnode_t) Get_pframe(pagenum int, forwrite bool) (*Pframe_t, defs.Err_t) {
	return DefaultGetPframe(v, pagenum, forwrite)
}

func (v *Vnode_t) Fill_pframe(pf *Pframe_t) defs.Err_t {
	return v.Backing.ReadPage(pf.Pagenum, pf.Bytes())
}

func (v *Vnode_t) Flush_pframe(pf *Pframe_t) defs.Err_t {
	return v.Backing.WritePage(pf.Pagenum, pf.Bytes())
}

func (v *Vnode_t) Destructor() {}
