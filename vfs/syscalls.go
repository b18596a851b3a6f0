package vfs

import (
	"weenix/defs"
	"weenix/fd"
	"weenix/fdops"
	"weenix/namev"
	"weenix/stat"
	"weenix/ustr"
	"weenix/vnode"
)

// fmodeFor derives a File_t's FMODE_* bits from an open(2) flags word.
func fmodeFor(oflags int) int {
	m := 0
	switch oflags & 0x3 {
	case defs.O_RDONLY:
		m = FMODE_READ
	case defs.O_WRONLY:
		m = FMODE_WRITE
	case defs.O_RDWR:
		m = FMODE_READ | FMODE_WRITE
	}
	if oflags&defs.O_APPEND != 0 {
		m |= FMODE_APPEND
	}
	return m
}

// Open resolves path (relative to cwd unless absolute) and installs a
// new descriptor for it in ft, creating the vnode first if O_CREAT is
// set and it doesn't exist.
func Open(ft *Fdtable_t, cwd *fd.Cwd_t, path ustr.Ustr, oflags int, mode uint) (int, defs.Err_t) {
	v, err := namev.Open(cwdVnode(cwd), path, oflags, mode, 0)
	if err != 0 {
		return 0, err
	}
	if oflags&defs.O_TRUNC != 0 {
		v.Lock()
		v.SetLen(0)
		v.Unlock()
	}
	file := MkFile(v, fmodeFor(oflags))
	perms := fd.FD_READ | fd.FD_WRITE
	nfd := &fd.Fd_t{Fops: file, Perms: perms}
	n, ierr := ft.Install(nfd)
	if ierr != 0 {
		file.Close()
		return 0, ierr
	}
	return n, 0
}

// cwdVnode recovers the *vnode.Vnode_t a Cwd_t's descriptor refers to.
// The cwd descriptor always wraps a File_t, since only namev-resolved
// directories are ever installed as a working directory.
func cwdVnode(cwd *fd.Cwd_t) *vnode.Vnode_t {
	return cwd.Fd.Fops.(*File_t).V
}

// Close releases descriptor n from ft.
func Close(ft *Fdtable_t, n int) defs.Err_t {
	return ft.Close(n)
}

// Read reads up to len(buf) bytes from descriptor n into buf.
func Read(ft *Fdtable_t, n int, buf []uint8) (int, defs.Err_t) {
	f, err := ft.Get(n)
	if err != 0 {
		return 0, err
	}
	return f.Fops.Read(fdops.MkBytebuf(buf))
}

// Write writes buf to descriptor n.
func Write(ft *Fdtable_t, n int, buf []uint8) (int, defs.Err_t) {
	f, err := ft.Get(n)
	if err != 0 {
		return 0, err
	}
	return f.Fops.Write(fdops.MkBytebuf(buf))
}

// Dup duplicates descriptor n onto the lowest free descriptor.
func Dup(ft *Fdtable_t, n int) (int, defs.Err_t) {
	return ft.Dup(n)
}

// Dup2 duplicates oldfd onto newfd.
func Dup2(ft *Fdtable_t, oldfd, newfd int) (int, defs.Err_t) {
	return ft.Dup2(oldfd, newfd)
}

// Lseek repositions descriptor n.
func Lseek(ft *Fdtable_t, n int, off int, whence int) (int, defs.Err_t) {
	f, err := ft.Get(n)
	if err != 0 {
		return 0, err
	}
	return f.Fops.Lseek(off, whence)
}

// Fstat stats the vnode behind descriptor n.
func Fstat(ft *Fdtable_t, n int, st *stat.Stat_t) defs.Err_t {
	f, err := ft.Get(n)
	if err != 0 {
		return err
	}
	return f.Fops.Fstat(st)
}

// Mknod creates a device special file at path.
func Mknod(cwd *fd.Cwd_t, path ustr.Ustr, mode uint, devid uint64) defs.Err_t {
	parent, name, err := namev.Dir(cwdVnode(cwd), path)
	if err != 0 {
		return err
	}
	defer vnode.Vput(parent)
	if len(name) == 0 || len(name) > defs.NAME_LEN {
		return -defs.ENAMETOOLONG
	}
	parent.Lock()
	defer parent.Unlock()
	if _, eerr := namev.Lookup(parent, name); eerr == 0 {
		return -defs.EEXIST
	}
	nv, merr := parent.Ops.Mknod(parent, name, mode, devid)
	if merr != 0 {
		return merr
	}
	vnode.Vput(nv)
	return 0
}

// Mkdir creates a new, empty directory at path.
func Mkdir(cwd *fd.Cwd_t, path ustr.Ustr) defs.Err_t {
	parent, name, err := namev.Dir(cwdVnode(cwd), path)
	if err != 0 {
		return err
	}
	defer vnode.Vput(parent)
	if len(name) == 0 || len(name) > defs.NAME_LEN {
		return -defs.ENAMETOOLONG
	}
	parent.Lock()
	defer parent.Unlock()
	if _, eerr := namev.Lookup(parent, name); eerr == 0 {
		return -defs.EEXIST
	}
	return parent.Ops.Mkdir(parent, name)
}

// Rmdir removes the empty directory at path.
func Rmdir(cwd *fd.Cwd_t, path ustr.Ustr) defs.Err_t {
	parent, name, err := namev.Dir(cwdVnode(cwd), path)
	if err != 0 {
		return err
	}
	defer vnode.Vput(parent)
	if name.Isdot() {
		return -defs.EINVAL
	}
	if name.Isdotdot() {
		return -defs.ENOTEMPTY
	}
	parent.Lock()
	defer parent.Unlock()
	return parent.Ops.Rmdir(parent, name)
}

// Unlink removes the directory entry name, which must not be a
// directory (use Rmdir for those).
func Unlink(cwd *fd.Cwd_t, path ustr.Ustr) defs.Err_t {
	parent, name, err := namev.Dir(cwdVnode(cwd), path)
	if err != 0 {
		return err
	}
	defer vnode.Vput(parent)
	if name.Isdot() || name.Isdotdot() {
		return -defs.EPERM
	}
	parent.Lock()
	defer parent.Unlock()
	target, lerr := namev.Lookup(parent, name)
	if lerr != 0 {
		return lerr
	}
	isdir := target.IsDir()
	vnode.Vput(target)
	if isdir {
		return -defs.EPERM
	}
	return parent.Ops.Unlink(parent, name)
}

// Link creates a new hard link newpath referring to the same vnode as
// oldpath. Directories may never be hard-linked.
func Link(cwd *fd.Cwd_t, oldpath, newpath ustr.Ustr) defs.Err_t {
	target, err := namev.Resolve(cwdVnode(cwd), oldpath)
	if err != 0 {
		return err
	}
	defer vnode.Vput(target)
	if target.IsDir() {
		return -defs.EPERM
	}

	parent, name, derr := namev.Dir(cwdVnode(cwd), newpath)
	if derr != 0 {
		return derr
	}
	defer vnode.Vput(parent)
	if len(name) == 0 || len(name) > defs.NAME_LEN {
		return -defs.ENAMETOOLONG
	}

	vnode.VlockInOrder(parent, target)
	defer vnode.VunlockInOrder(parent, target)
	if _, eerr := namev.Lookup(parent, name); eerr == 0 {
		return -defs.EEXIST
	}
	return parent.Ops.Link(parent, name, target)
}

// Rename moves the entry at oldpath to newpath, which may cross
// directories. The global rename mutex serializes concurrent renames
// so the ancestor-first vnode lock order can't deadlock against
// another rename walking the tree the other way.
func Rename(cwd *fd.Cwd_t, oldpath, newpath ustr.Ustr) defs.Err_t {
	vnode.RenameMutex.Lock()
	defer vnode.RenameMutex.Unlock()

	oldParent, oldName, err := namev.Dir(cwdVnode(cwd), oldpath)
	if err != 0 {
		return err
	}
	defer vnode.Vput(oldParent)
	newParent, newName, err := namev.Dir(cwdVnode(cwd), newpath)
	if err != 0 {
		return err
	}
	defer vnode.Vput(newParent)

	if len(oldName) == 0 || len(newName) == 0 {
		return -defs.EINVAL
	}

	vnode.VlockInOrder(oldParent, newParent)
	defer vnode.VunlockInOrder(oldParent, newParent)
	return oldParent.Ops.Rename(oldParent, oldName, newParent, newName)
}

// Chdir changes cwd to point at path, which must resolve to a
// directory.
func Chdir(cwd *fd.Cwd_t, path ustr.Ustr) defs.Err_t {
	v, err := namev.Resolve(cwdVnode(cwd), path)
	if err != 0 {
		return err
	}
	v.Lock()
	isdir := v.IsDir()
	v.Unlock()
	if !isdir {
		vnode.Vput(v)
		return -defs.ENOTDIR
	}

	cwd.Lock()
	defer cwd.Unlock()
	old := cwd.Fd
	cwd.Fd = &fd.Fd_t{Fops: MkFile(v, FMODE_READ), Perms: fd.FD_READ}
	cwd.Path = cwd.Canonicalpath(path)
	fd.Close_panic(old)
	return 0
}

// Getdent reads one directory entry at offset from descriptor n,
// returning the entry and the offset of the next one.
func Getdent(ft *Fdtable_t, n int, offset int) (defs.Dirent_t, int, defs.Err_t) {
	f, err := ft.Get(n)
	if err != 0 {
		return defs.Dirent_t{}, 0, err
	}
	file, ok := f.Fops.(*File_t)
	if !ok {
		return defs.Dirent_t{}, 0, -defs.ENOTDIR
	}
	file.V.Lock()
	defer file.V.Unlock()
	if !file.V.IsDir() {
		return defs.Dirent_t{}, 0, -defs.ENOTDIR
	}
	return file.V.Ops.Readdir(file.V, offset)
}
