// Package vnode implements the in-memory vnode: the filesystem-agnostic
// handle for an inode that the pathname resolver walks and the VFS
// syscall layer locks and delegates to. Keeping it separate from
// package vfs breaks what would otherwise be an import cycle between
// the pathname resolver (namev, which only needs vnodes) and the
// syscall layer (vfs, which needs both namev and vnodes).
package vnode

import (
	"sync"
	"sync/atomic"

	"weenix/defs"
	"weenix/fdops"
	"weenix/mobj"
	"weenix/stat"
	"weenix/ustr"
)

// Vtype_t is a vnode's file type, the type-bit portion of its mode.
type Vtype_t int

const (
	VREG Vtype_t = iota
	VDIR
	VCHR
	VBLK
)

// Vnode_t is the in-memory handle for an inode. Every operation that
// may mutate or read its bytes holds its mutex; a reference count of
// zero means the object has no holder left and may be returned to its
// filesystem.
type Vnode_t struct {
	sync.Mutex

	Fsid  uint64 // identifies the owning filesystem, for the vnode cache key
	Ino   uint64
	Vtype Vtype_t
	Mode  uint
	Devid uint64 // valid when Vtype == VCHR or VBLK

	len    int64
	refcnt int32

	// Mobj backs a regular file's mmap'd pages. nil for directories
	// and devices.
	Mobj mobj.Mobj_i

	Ops Vnode_ops_i

	// OnZero, if set, runs when the refcount drops to zero, letting
	// the owning filesystem reclaim the vnode.
	OnZero func(*Vnode_t)
}

// Vnode_ops_i is the capability set a concrete filesystem or device
// populates on a vnode. Variants choose which operations make sense:
// a directory implements Lookup/Mkdir/Rmdir/Link/Unlink/Mknod/Rename/
// Readdir and leaves Read/Write/Mmap returning errors (memfs returns
// EISDIR for Read/Write and ENODEV for Mmap); a
// device implements Read/Write and leaves the directory ops unused.
type Vnode_ops_i interface {
	Read(v *Vnode_t, dst fdops.Userio_i, off int) (int, defs.Err_t)
	Write(v *Vnode_t, src fdops.Userio_i, off int) (int, defs.Err_t)
	Mmap(v *Vnode_t) (mobj.Mobj_i, defs.Err_t)

	Lookup(dir *Vnode_t, name ustr.Ustr) (*Vnode_t, defs.Err_t)
	Mknod(dir *Vnode_t, name ustr.Ustr, mode uint, devid uint64) (*Vnode_t, defs.Err_t)
	Mkdir(dir *Vnode_t, name ustr.Ustr) defs.Err_t
	Rmdir(dir *Vnode_t, name ustr.Ustr) defs.Err_t
	Link(dir *Vnode_t, name ustr.Ustr, target *Vnode_t) defs.Err_t
	Unlink(dir *Vnode_t, name ustr.Ustr) defs.Err_t
	Rename(oldDir *Vnode_t, oldName ustr.Ustr, newDir *Vnode_t, newName ustr.Ustr) defs.Err_t
	Readdir(v *Vnode_t, offset int) (defs.Dirent_t, int, defs.Err_t)
	Stat(v *Vnode_t, st *stat.Stat_t) defs.Err_t
}

// Len returns the vnode's byte length.
func (v *Vnode_t) Len() int64 { return atomic.LoadInt64(&v.len) }

// SetLen sets the vnode's byte length, as e.g. a write extending a
// file or a truncate would.
func (v *Vnode_t) SetLen(n int64) { atomic.StoreInt64(&v.len, n) }

// IsDir reports whether this vnode is a directory.
func (v *Vnode_t) IsDir() bool { return v.Vtype == VDIR }

// refup/refdown are the raw refcount primitives; Vget/Vref/Vput above
// them enforce the lock/cache discipline.
func (v *Vnode_t) refup() { atomic.AddInt32(&v.refcnt, 1) }

// refdown decrements the refcount and reports whether it hit zero.
func (v *Vnode_t) refdown() bool {
	return atomic.AddInt32(&v.refcnt, -1) == 0
}
