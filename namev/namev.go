// Package namev implements the pathname resolver: a directory-relative
// tokenizing walk over reference-counted vnodes, with open/lookup
// primitives the VFS syscall layer builds on.
package namev

import (
	"weenix/defs"
	"weenix/ustr"
	"weenix/vnode"
)

var root *vnode.Vnode_t

// SetRoot installs the filesystem root vnode, taking a reference on
// it. Called once at mount time.
func SetRoot(v *vnode.Vnode_t) {
	vnode.Vref(v)
	root = v
}

// Root returns the filesystem root, referenced.
func Root() *vnode.Vnode_t {
	vnode.Vref(root)
	return root
}

// Lookup resolves a single path component name within dir, which the
// caller must already hold locked. An empty name is the "stay here"
// case and returns dir itself, referenced (still locked, since the
// caller already holds it). Otherwise the directory's own Lookup op
// runs, returning its result unlocked and referenced -- except "." as
// a literal directory entry, which conventionally returns dir locked.
func Lookup(dir *vnode.Vnode_t, name ustr.Ustr) (*vnode.Vnode_t, defs.Err_t) {
	if !dir.IsDir() || dir.Ops == nil {
		return nil, -defs.ENOTDIR
	}
	if len(name) == 0 {
		vnode.Vref(dir)
		return dir, 0
	}
	return dir.Ops.Lookup(dir, name)
}

// Dir resolves all but the last component of path, starting at root
// if path is absolute and at base otherwise. It returns the directory
// that would contain the basename (referenced, unlocked) and the
// basename token, which aliases into path. An empty path is EINVAL; a
// path of only slashes returns the starting directory itself with an
// empty basename, per the specification's definitive answer to what
// the original resolver left ambiguous.
func Dir(base *vnode.Vnode_t, path ustr.Ustr) (*vnode.Vnode_t, ustr.Ustr, defs.Err_t) {
	if len(path) == 0 {
		return nil, nil, -defs.EINVAL
	}

	start := base
	if path.IsAbsolute() {
		start = root
	}

	toks := path.Tokens()
	if len(toks) == 0 {
		vnode.Vref(start)
		return start, ustr.MkUstr(), 0
	}

	vnode.Vref(start)
	cur := start
	for i := 0; i < len(toks)-1; i++ {
		cur.Lock()
		next, err := Lookup(cur, toks[i])
		cur.Unlock()
		vnode.Vput(cur)
		if err != 0 {
			return nil, nil, err
		}
		cur = next
	}
	return cur, toks[len(toks)-1], 0
}

// endsInSlash reports whether path's last non-empty token is followed
// by a trailing '/', used to reject "regular file as directory"
// references like "open("file/")".
func endsInSlash(path ustr.Ustr) bool {
	return len(path) > 0 && path[len(path)-1] == '/'
}

// Open resolves path to a vnode, optionally creating it. On success
// out is referenced and unlocked. ENOENT with O_CREAT set causes the
// parent directory's Mknod op to create the entry.
func Open(base *vnode.Vnode_t, path ustr.Ustr, oflags int, mode uint, devid uint64) (*vnode.Vnode_t, defs.Err_t) {
	parent, name, err := Dir(base, path)
	if err != 0 {
		return nil, err
	}
	if len(name) > defs.NAME_LEN {
		vnode.Vput(parent)
		return nil, -defs.ENAMETOOLONG
	}

	parent.Lock()
	out, lerr := Lookup(parent, name)
	parent.Unlock()

	if lerr == 0 {
		vnode.Vput(parent)
		if endsInSlash(path) && out.Vtype == vnode.VREG {
			vnode.Vput(out)
			return nil, -defs.ENOTDIR
		}
		return out, 0
	}

	if lerr == -defs.ENOENT && oflags&defs.O_CREAT != 0 {
		parent.Lock()
		nv, merr := parent.Ops.Mknod(parent, name, mode, devid)
		parent.Unlock()
		vnode.Vput(parent)
		return nv, merr
	}

	vnode.Vput(parent)
	return nil, lerr
}

// Resolve is Open with read-only, no-create semantics -- the common
// case of "just give me the vnode at this path".
func Resolve(base *vnode.Vnode_t, path ustr.Ustr) (*vnode.Vnode_t, defs.Err_t) {
	return Open(base, path, defs.O_RDONLY, 0, 0)
}
