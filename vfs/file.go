package vfs

import (
	"sync"
	"sync/atomic"

	"weenix/defs"
	"weenix/fdops"
	"weenix/stat"
	"weenix/vnode"
)

// File mode flags, independent of the descriptor-level FD_* bits in
// package fd -- these describe how the underlying vnode was opened,
// not the descriptor that happens to reference this File_t.
const (
	FMODE_READ   = 0x1
	FMODE_WRITE  = 0x2
	FMODE_APPEND = 0x4
)

// File_t is per-open-file state: a referenced vnode, a shared byte
// position, and the mode the file was opened with. Created by Open,
// destroyed (via Fdops_i.Close) when its last descriptor closes.
type File_t struct {
	mu sync.Mutex

	V      *vnode.Vnode_t
	Pos    int64
	Mode   int
	refcnt int32
}

// MkFile wraps an already-referenced vnode in a new File_t with
// refcount 1.
func MkFile(v *vnode.Vnode_t, mode int) *File_t {
	return &File_t{V: v, Mode: mode, refcnt: 1}
}

func (f *File_t) Read(dst fdops.Userio_i) (int, defs.Err_t) {
	if f.Mode&FMODE_READ == 0 {
		return 0, -defs.EBADF
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.V.Lock()
	defer f.V.Unlock()
	if f.V.IsDir() {
		return 0, -defs.EISDIR
	}
	n, err := f.V.Ops.Read(f.V, dst, int(f.Pos))
	if err != 0 {
		return 0, err
	}
	f.Pos += int64(n)
	return n, 0
}

func (f *File_t) Write(src fdops.Userio_i) (int, defs.Err_t) {
	if f.Mode&FMODE_WRITE == 0 {
		return 0, -defs.EBADF
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.V.Lock()
	defer f.V.Unlock()
	if f.Mode&FMODE_APPEND != 0 {
		f.Pos = f.V.Len()
	}
	n, err := f.V.Ops.Write(f.V, src, int(f.Pos))
	if err != 0 {
		return 0, err
	}
	f.Pos += int64(n)
	return n, 0
}

func (f *File_t) Fstat(st *stat.Stat_t) defs.Err_t {
	f.V.Lock()
	defer f.V.Unlock()
	return f.V.Ops.Stat(f.V, st)
}

func (f *File_t) Lseek(off int, whence int) (int, defs.Err_t) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var newpos int64
	switch whence {
	case defs.SEEK_SET:
		newpos = int64(off)
	case defs.SEEK_CUR:
		newpos = f.Pos + int64(off)
	case defs.SEEK_END:
		newpos = f.V.Len() + int64(off)
	default:
		return 0, -defs.EINVAL
	}
	if newpos < 0 {
		return 0, -defs.EINVAL
	}
	f.Pos = newpos
	return int(f.Pos), 0
}

func (f *File_t) Poll(pm fdops.Pollmsg_t) (fdops.Ready_t, defs.Err_t) {
	return fdops.R_READ | fdops.R_WRITE, 0
}

func (f *File_t) Close() defs.Err_t {
	if atomic.AddInt32(&f.refcnt, -1) == 0 {
		vnode.Vput(f.V)
	}
	return 0
}

func (f *File_t) Reopen() defs.Err_t {
	atomic.AddInt32(&f.refcnt, 1)
	return 0
}
