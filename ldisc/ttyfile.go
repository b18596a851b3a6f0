package ldisc

import (
	"sync/atomic"

	"weenix/defs"
	"weenix/fdops"
	"weenix/stat"
	"weenix/tinfo"
)

// TTYFile_t adapts a Ldisc_t to fdops.Fdops_i for the thread that
// opened it. A TTY isn't addressed through a filesystem vnode's
// ordinary Read/Write ops, since those carry no thread context for a
// cancellable sleep to block on; a device file descriptor wraps this
// directly instead.
type TTYFile_t struct {
	ld     *Ldisc_t
	t      *tinfo.Tnote_t
	refcnt int32
}

// MkTTYFile returns a new descriptor-level handle onto ld for thread
// t, the thread whose cancellable sleep Read will block on.
func MkTTYFile(ld *Ldisc_t, t *tinfo.Tnote_t) *TTYFile_t {
	return &TTYFile_t{ld: ld, t: t, refcnt: 1}
}

func (f *TTYFile_t) Read(dst fdops.Userio_i) (int, defs.Err_t) {
	return f.ld.Read(f.t, dst)
}

func (f *TTYFile_t) Write(src fdops.Userio_i) (int, defs.Err_t) {
	return f.ld.Write(src)
}

func (f *TTYFile_t) Fstat(st *stat.Stat_t) defs.Err_t {
	st.Wdev(0)
	st.Wino(0)
	st.Wmode(defs.S_IFCHR | 0620)
	st.Wsize(0)
	st.Wrdev(defs.TTY_MAJOR)
	st.Wnlink(1)
	return 0
}

func (f *TTYFile_t) Lseek(off int, whence int) (int, defs.Err_t) {
	return 0, -defs.EINVAL
}

func (f *TTYFile_t) Poll(pm fdops.Pollmsg_t) (fdops.Ready_t, defs.Err_t) {
	r := fdops.Ready_t(fdops.R_WRITE)
	if f.ld.Readable() {
		r |= fdops.R_READ
	}
	return r, 0
}

func (f *TTYFile_t) Close() defs.Err_t {
	atomic.AddInt32(&f.refcnt, -1)
	return 0
}

func (f *TTYFile_t) Reopen() defs.Err_t {
	atomic.AddInt32(&f.refcnt, 1)
	return 0
}
