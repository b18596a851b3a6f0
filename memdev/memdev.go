// Package memdev implements the two trivial memory character devices:
// /dev/null, which discards writes and reads as EOF, and /dev/zero,
// which discards writes and reads as an endless stream of zero bytes.
// Grounded on the teacher's device-vnode pattern, where a device's
// Vnode_ops_i only implements the handful of operations that make
// sense for it and leaves the rest to return an error.
package memdev

import (
	"weenix/defs"
	"weenix/fdops"
	"weenix/mobj"
	"weenix/stat"
	"weenix/ustr"
	"weenix/vnode"
)

// dirops_t is embedded by both device op sets so every directory-only
// Vnode_ops_i method has one definition: every one of them fails with
// ENOTDIR, since a device is never a directory.
type dirops_t struct{}

func (dirops_t) Lookup(dir *vnode.Vnode_t, name ustr.Ustr) (*vnode.Vnode_t, defs.Err_t) {
	return nil, -defs.ENOTDIR
}
func (dirops_t) Mknod(dir *vnode.Vnode_t, name ustr.Ustr, mode uint, devid uint64) (*vnode.Vnode_t, defs.Err_t) {
	return nil, -defs.ENOTDIR
}
func (dirops_t) Mkdir(dir *vnode.Vnode_t, name ustr.Ustr) defs.Err_t       { return -defs.ENOTDIR }
func (dirops_t) Rmdir(dir *vnode.Vnode_t, name ustr.Ustr) defs.Err_t       { return -defs.ENOTDIR }
func (dirops_t) Link(dir *vnode.Vnode_t, name ustr.Ustr, target *vnode.Vnode_t) defs.Err_t {
	return -defs.ENOTDIR
}
func (dirops_t) Unlink(dir *vnode.Vnode_t, name ustr.Ustr) defs.Err_t { return -defs.ENOTDIR }
func (dirops_t) Rename(oldDir *vnode.Vnode_t, oldName ustr.Ustr, newDir *vnode.Vnode_t, newName ustr.Ustr) defs.Err_t {
	return -defs.ENOTDIR
}
func (dirops_t) Readdir(v *vnode.Vnode_t, offset int) (defs.Dirent_t, int, defs.Err_t) {
	return defs.Dirent_t{}, 0, -defs.ENOTDIR
}

func statDev(v *vnode.Vnode_t, st *stat.Stat_t) defs.Err_t {
	st.Wdev(0)
	st.Wino(v.Ino)
	st.Wmode(v.Mode)
	st.Wsize(0)
	st.Wrdev(v.Devid)
	st.Wnlink(1)
	return 0
}

// nullOps backs /dev/null: writes succeed and vanish, reads always
// return zero bytes (EOF), and it refuses to be mapped.
type nullOps struct{ dirops_t }

func (nullOps) Read(v *vnode.Vnode_t, dst fdops.Userio_i, off int) (int, defs.Err_t) { return 0, 0 }
func (nullOps) Write(v *vnode.Vnode_t, src fdops.Userio_i, off int) (int, defs.Err_t) {
	return src.Remain(), 0
}
func (nullOps) Mmap(v *vnode.Vnode_t) (mobj.Mobj_i, defs.Err_t) { return nil, -defs.ENODEV }
func (nullOps) Stat(v *vnode.Vnode_t, st *stat.Stat_t) defs.Err_t {
	return statDev(v, st)
}

// zeroOps backs /dev/zero: writes succeed and vanish, reads fill the
// caller's buffer with zero bytes, and mmap hands back a fresh
// zero-filled anonymous mapping -- the one memory device the
// specification requires to actually support Mmap.
type zeroOps struct{ dirops_t }

func (zeroOps) Read(v *vnode.Vnode_t, dst fdops.Userio_i, off int) (int, defs.Err_t) {
	n := dst.Remain()
	if n == 0 {
		return 0, 0
	}
	zeros := make([]byte, n)
	return dst.Uiowrite(zeros)
}
func (zeroOps) Write(v *vnode.Vnode_t, src fdops.Userio_i, off int) (int, defs.Err_t) {
	return src.Remain(), 0
}
func (zeroOps) Mmap(v *vnode.Vnode_t) (mobj.Mobj_i, defs.Err_t) {
	return mobj.MkAnon(), 0
}
func (zeroOps) Stat(v *vnode.Vnode_t, st *stat.Stat_t) defs.Err_t {
	return statDev(v, st)
}

// NullOps and ZeroOps are the shared, stateless Vnode_ops_i values a
// filesystem installs on the vnode it mints for MEM_NULL_DEVID and
// MEM_ZERO_DEVID respectively.
var NullOps vnode.Vnode_ops_i = nullOps{}
var ZeroOps vnode.Vnode_ops_i = zeroOps{}

// OpsFor returns the device ops for a memory device id, or nil if devid
// doesn't name one of the two memory devices.
func OpsFor(devid uint64) vnode.Vnode_ops_i {
	switch devid {
	case defs.MEM_NULL_DEVID:
		return NullOps
	case defs.MEM_ZERO_DEVID:
		return ZeroOps
	}
	return nil
}
