package vnode

// Vref takes an additional reference on an already-referenced vnode.
// Pairs with exactly one Vput.
func Vref(v *Vnode_t) {
	v.refup()
}

// Vget takes a reference on v and returns it locked, for callers that
// already hold a pointer to a live vnode (e.g. a directory's own
// lookup implementation resolving "." to itself).
func Vget(v *Vnode_t) *Vnode_t {
	v.refup()
	v.Lock()
	return v
}

// Vput releases one reference on v. When the count reaches zero, v's
// eviction hook (if any) runs so its owning filesystem can reclaim it;
// for an in-memory filesystem that may simply mean dropping its last
// external pointer. v must not be locked by the caller.
func Vput(v *Vnode_t) {
	if v.refdown() && v.OnZero != nil {
		v.OnZero(v)
	}
}

// Vput_locked unlocks v and then releases a reference on it, for
// callers that finished their own critical section under the lock.
func Vput_locked(v *Vnode_t) {
	v.Unlock()
	Vput(v)
}
