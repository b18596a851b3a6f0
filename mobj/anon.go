package mobj

import "weenix/defs"

// Anon_t is an anonymous memory object: its pages have no backing
// store, so a freshly filled frame is simply zeroed (mem.Physmem
// already returns zeroed frames from Refpg_new, so Fill_pframe has
// nothing to do beyond that).
type Anon_t struct {
	Mobj_t
}

// MkAnon returns a freshly created anonymous object with refcount 1.
func MkAnon() *Anon_t {
	return &Anon_t{Mobj_t: MkMobj()}
}

func (a *Anon_t) Base() *Mobj_t { return &a.Mobj_t }
func (a *Anon_t) Type() Mtype_t { return MOBJ_ANON }

func (a *Anon_t) Get_pframe(pagenum int, forwrite bool) (*Pframe_t, defs.Err_t) {
	return DefaultGetPframe(a, pagenum, forwrite)
}

func (a *Anon_t) Fill_pframe(pf *Pframe_t) defs.Err_t { return 0 }
func (a *Anon_t) Flush_pframe(pf *Pframe_t) defs.Err_t { return 0 }
func (a *Anon_t) Destructor() {}
