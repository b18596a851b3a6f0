package memfs

import (
	"weenix/defs"
	"weenix/fdops"
	"weenix/limits"
	"weenix/mobj"
	"weenix/stat"
	"weenix/ustr"
	"weenix/vnode"
)

// fsops_t is the single Vnode_ops_i instance every vnode minted by a
// given Fs_t shares; it recovers per-inode state by looking v.Ino up
// in fs.nodes rather than carrying it on the vnode itself.
type fsops_t struct {
	fs *Fs_t
}

func (o *fsops_t) node(v *vnode.Vnode_t) *Node_t {
	return o.fs.getNode(v.Ino)
}

func (o *fsops_t) Read(v *vnode.Vnode_t, dst fdops.Userio_i, off int) (int, defs.Err_t) {
	o.fs.Lock()
	defer o.fs.Unlock()
	n := o.node(v)
	if n.vtype != vnode.VREG {
		return 0, -defs.EISDIR
	}
	if off >= len(n.data) {
		return 0, 0
	}
	chunk := n.data[off:]
	wrote, err := dst.Uiowrite(chunk)
	return wrote, err
}

func (o *fsops_t) Write(v *vnode.Vnode_t, src fdops.Userio_i, off int) (int, defs.Err_t) {
	o.fs.Lock()
	defer o.fs.Unlock()
	n := o.node(v)
	if n.vtype != vnode.VREG {
		return 0, -defs.EISDIR
	}
	need := off + src.Remain()
	if need > len(n.data) {
		grown := make([]byte, need)
		copy(grown, n.data)
		n.data = grown
	}
	got, err := src.Uioread(n.data[off:need])
	if err != 0 {
		return 0, err
	}
	v.SetLen(int64(len(n.data)))
	return got, 0
}

func (o *fsops_t) Mmap(v *vnode.Vnode_t) (mobj.Mobj_i, defs.Err_t) {
	if v.Mobj == nil {
		return nil, -defs.ENODEV
	}
	mobj.Mobj_ref(v.Mobj)
	return v.Mobj, 0
}

func (o *fsops_t) Lookup(dir *vnode.Vnode_t, name ustr.Ustr) (*vnode.Vnode_t, defs.Err_t) {
	o.fs.Lock()
	defer o.fs.Unlock()
	dn := o.node(dir)
	cn, err := o.fs.lookupChild(dn, name.String())
	if err != 0 {
		return nil, err
	}
	return o.fs.vnodeFor(cn), 0
}

func (o *fsops_t) Mknod(dir *vnode.Vnode_t, name ustr.Ustr, mode uint, devid uint64) (*vnode.Vnode_t, defs.Err_t) {
	o.fs.Lock()
	defer o.fs.Unlock()
	dn := o.node(dir)
	nm := name.String()
	if _, ok := dn.dirents[nm]; ok {
		return nil, -defs.EEXIST
	}
	if !limits.Syslimit.Vnodes.Take() {
		return nil, -defs.ENOMEM
	}
	vt := vnode.VREG
	if mode&defs.S_IFCHR != 0 || mode&defs.S_IFBLK != 0 {
		vt = vnode.VCHR
	}
	n := &Node_t{
		ino:    o.fs.allocIno(),
		vtype:  vt,
		mode:   mode,
		devid:  devid,
		nlink:  1,
		parent: dn.ino,
	}
	o.fs.putNode(n)
	dn.addChild(nm, n.ino)
	return o.fs.vnodeFor(n), 0
}

func (o *fsops_t) Mkdir(dir *vnode.Vnode_t, name ustr.Ustr) defs.Err_t {
	o.fs.Lock()
	defer o.fs.Unlock()
	dn := o.node(dir)
	nm := name.String()
	if _, ok := dn.dirents[nm]; ok {
		return -defs.EEXIST
	}
	if !limits.Syslimit.Vnodes.Take() {
		return -defs.ENOMEM
	}
	n := &Node_t{
		ino:     o.fs.allocIno(),
		vtype:   vnode.VDIR,
		mode:    defs.S_IFDIR | 0755,
		nlink:   2,
		parent:  dn.ino,
		dirents: make(map[string]uint64),
	}
	o.fs.putNode(n)
	dn.addChild(nm, n.ino)
	dn.nlink++
	return 0
}

func (o *fsops_t) Rmdir(dir *vnode.Vnode_t, name ustr.Ustr) defs.Err_t {
	o.fs.Lock()
	defer o.fs.Unlock()
	dn := o.node(dir)
	nm := name.String()
	cn, err := o.fs.lookupChild(dn, nm)
	if err != 0 {
		return err
	}
	if cn.vtype != vnode.VDIR {
		return -defs.ENOTDIR
	}
	if len(cn.dirents) != 0 {
		return -defs.ENOTEMPTY
	}
	dn.removeChild(nm)
	dn.nlink--
	cn.nlink = 0
	if cn.vn == nil {
		o.fs.delNode(cn.ino)
		limits.Syslimit.Vnodes.Give()
	}
	return 0
}

func (o *fsops_t) Link(dir *vnode.Vnode_t, name ustr.Ustr, target *vnode.Vnode_t) defs.Err_t {
	o.fs.Lock()
	defer o.fs.Unlock()
	dn := o.node(dir)
	nm := name.String()
	if _, ok := dn.dirents[nm]; ok {
		return -defs.EEXIST
	}
	tn := o.fs.getNode(target.Ino)
	dn.addChild(nm, tn.ino)
	tn.nlink++
	return 0
}

func (o *fsops_t) Unlink(dir *vnode.Vnode_t, name ustr.Ustr) defs.Err_t {
	o.fs.Lock()
	defer o.fs.Unlock()
	dn := o.node(dir)
	nm := name.String()
	cn, err := o.fs.lookupChild(dn, nm)
	if err != 0 {
		return err
	}
	if cn.vtype == vnode.VDIR {
		return -defs.EISDIR
	}
	dn.removeChild(nm)
	cn.nlink--
	if cn.nlink == 0 && cn.vn == nil {
		o.fs.delNode(cn.ino)
		limits.Syslimit.Vnodes.Give()
	}
	return 0
}

func (o *fsops_t) Rename(oldDir *vnode.Vnode_t, oldName ustr.Ustr, newDir *vnode.Vnode_t, newName ustr.Ustr) defs.Err_t {
	o.fs.Lock()
	defer o.fs.Unlock()
	odn := o.node(oldDir)
	ndn := o.node(newDir)
	onm, nnm := oldName.String(), newName.String()

	cn, err := o.fs.lookupChild(odn, onm)
	if err != 0 {
		return err
	}
	if existing, eerr := o.fs.lookupChild(ndn, nnm); eerr == 0 {
		if existing.vtype == vnode.VDIR {
			if len(existing.dirents) != 0 {
				return -defs.ENOTEMPTY
			}
		}
		ndn.removeChild(nnm)
		existing.nlink--
		if existing.nlink == 0 && existing.vn == nil {
			o.fs.delNode(existing.ino)
			limits.Syslimit.Vnodes.Give()
		}
	}

	odn.removeChild(onm)
	ndn.addChild(nnm, cn.ino)
	if cn.vtype == vnode.VDIR {
		cn.parent = ndn.ino
	}
	return 0
}

func (o *fsops_t) Readdir(v *vnode.Vnode_t, offset int) (defs.Dirent_t, int, defs.Err_t) {
	o.fs.Lock()
	defer o.fs.Unlock()
	dn := o.node(v)
	if dn.vtype != vnode.VDIR {
		return defs.Dirent_t{}, 0, -defs.ENOTDIR
	}

	// Synthesize "." and ".." ahead of the real entries, at offsets 0
	// and 1, the way a real directory's first two entries normally
	// are.
	switch offset {
	case 0:
		return defs.Dirent_t{D_ino: dn.ino, D_name: "."}, 1, 0
	case 1:
		return defs.Dirent_t{D_ino: dn.parent, D_name: ".."}, 2, 0
	}

	i := offset - 2
	if i >= len(dn.order) {
		return defs.Dirent_t{}, offset, -defs.ENOENT
	}
	name := dn.order[i]
	return defs.Dirent_t{D_ino: dn.dirents[name], D_name: name}, offset + 1, 0
}

func (o *fsops_t) Stat(v *vnode.Vnode_t, st *stat.Stat_t) defs.Err_t {
	o.fs.Lock()
	defer o.fs.Unlock()
	n := o.node(v)
	st.Wdev(o.fs.fsid)
	st.Wino(n.ino)
	st.Wmode(n.mode)
	st.Wsize(uint64(len(n.data)))
	st.Wrdev(n.devid)
	st.Wnlink(n.nlink)
	return 0
}
