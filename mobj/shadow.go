package mobj

import (
	"weenix/defs"
	"weenix/limits"
)

// Shadow_t is a copy-on-write overlay over another mobj. Its own page
// cache holds only pages that have diverged from its parent; anything
// not yet copied is served by walking Shadowed toward Bottom, the
// cached non-shadow base of the chain.
type Shadow_t struct {
	Mobj_t

	Shadowed Mobj_i // immediate parent; possibly itself a shadow
	Bottom   Mobj_i // non-shadow base of the chain, cached for O(1) access
}

func (s *Shadow_t) Base() *Mobj_t   { return &s.Mobj_t }
func (s *Shadow_t) Type() Mtype_t   { return MOBJ_SHADOW }
func (s *Shadow_t) Flush_pframe(pf *Pframe_t) defs.Err_t { return 0 }

// Shadow_create returns a freshly locked-equivalent (refcount 1)
// shadow over m. If m is itself a shadow, the new shadow inherits
// m.Bottom; otherwise m itself becomes the bottom. Both references are
// taken here.
// Shadow_create also accounts wrapping-a-shadow-over-a-shadow against
// limits.Syslimit.ShadowDepth, a soft rail against the chain a process
// that forks in a loop without ever touching its pages would build;
// Shadow_collapse gives the budget back as it shortens a chain. The
// budget is advisory (Shadow_create has no failure path to refuse
// mapping creation on), but exhausting it is visible via
// ShadowDepth.Remaining() for a caller that wants to force a collapse.
func Shadow_create(m Mobj_i) *Shadow_t {
	if _, ok := m.(*Shadow_t); ok {
		limits.Syslimit.ShadowDepth.Take()
	}
	s := &Shadow_t{Mobj_t: MkMobj()}
	if sh, ok := m.(*Shadow_t); ok {
		s.Bottom = sh.Bottom
	} else {
		s.Bottom = m
	}
	s.Shadowed = m
	Mobj_ref(m)
	Mobj_ref(s.Bottom)
	return s
}

// Get_pframe implements the shadow lookup/allocate split: a write
// always materializes a private copy in this shadow's own cache; a
// read walks the chain and only falls through to Bottom if nothing
// along the way has diverged yet.
func (s *Shadow_t) Get_pframe(pagenum int, forwrite bool) (*Pframe_t, defs.Err_t) {
	if forwrite {
		return DefaultGetPframe(s, pagenum, true)
	}

	for cur := Mobj_i(s); ; {
		sh, ok := cur.(*Shadow_t)
		if !ok {
			break
		}
		b := sh.Base()
		b.Lock()
		if pf, ok := b.lookup(pagenum); ok {
			pf.Lock()
			pf.Pin()
			b.Unlock()
			return pf, 0
		}
		b.Unlock()
		cur = sh.Shadowed
	}
	return s.Bottom.Get_pframe(pagenum, false)
}

// Fill_pframe populates a freshly allocated frame in this shadow's own
// cache by copying from the first ancestor (starting at Shadowed) that
// has the page cached, falling back to Bottom.
func (s *Shadow_t) Fill_pframe(pf *Pframe_t) defs.Err_t {
	for cur := s.Shadowed; cur != nil; {
		sh, isShadow := cur.(*Shadow_t)
		if !isShadow {
			break
		}
		b := sh.Base()
		b.Lock()
		src, ok := b.lookup(pf.Pagenum)
		if ok {
			src.Lock()
			copy(pf.Bytes(), src.Bytes())
			src.Unlock()
		}
		b.Unlock()
		if ok {
			return 0
		}
		cur = sh.Shadowed
	}
	src, err := s.Bottom.Get_pframe(pf.Pagenum, false)
	if err != 0 {
		return err
	}
	copy(pf.Bytes(), src.Bytes())
	src.Release(false)
	return 0
}

// Destructor releases the two references this shadow held.
func (s *Shadow_t) Destructor() {
	Mobj_put(s.Shadowed)
	Mobj_put(s.Bottom)
}

// Shadow_collapse shortens a chain that has become singly-referenced.
// While o.Shadowed is itself a shadow, every frame cached in it that
// isn't already present in o migrates into o; after that pass its
// reference is dropped (destroying it and any frames left in its
// cache, since collapse requires the intermediate to have refcount 1) and o.Shadowed
// advances to the next link. If the walk runs off the end of the
// chain, o.Shadowed is pinned at Bottom.
func Shadow_collapse(o *Shadow_t) {
	for {
		mid, ok := o.Shadowed.(*Shadow_t)
		if !ok {
			break
		}
		if mid.Refcnt() != 1 {
			panic("collapse of multiply-referenced shadow")
		}

		mid.Lock()
		var migrate []*Pframe_t
		mid.Each(func(pf *Pframe_t) {
			o.Lock()
			_, present := o.lookup(pf.Pagenum)
			o.Unlock()
			if !present {
				migrate = append(migrate, pf)
			}
		})
		for _, pf := range migrate {
			delete(mid.pages, pf.Pagenum)
			o.Lock()
			o.insert(pf)
			o.Unlock()
		}
		mid.Unlock()

		next := mid.Shadowed
		Mobj_ref(next)
		o.Shadowed = next
		Mobj_put(mid)
		limits.Syslimit.ShadowDepth.Give()
	}
	if o.Shadowed == nil {
		o.Shadowed = o.Bottom
		Mobj_ref(o.Bottom)
	}
}
