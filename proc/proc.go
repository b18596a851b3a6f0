// Package proc ties the address space, descriptor table, and working
// directory together into a process, and specifies fork/exit/waitpid
// in terms of those pieces -- just enough thread-level plumbing for
// the VM and VFS layers to be exercised by something resembling a
// real process lifecycle, without a scheduler or signal delivery
// behind it.
package proc

import (
	"sync"

	"weenix/accnt"
	"weenix/defs"
	"weenix/fd"
	"weenix/limits"
	"weenix/tinfo"
	"weenix/ustr"
	"weenix/vfs"
	"weenix/vm"
	"weenix/vnode"
)

// Proc_t is a process: one address space and descriptor table shared
// by every thread note in Threads, the way the teacher's proc_t is
// the unit vmmap/fdtable/cwd belong to while Tnote_t is the unit a
// sleep blocks.
type Proc_t struct {
	mu sync.Mutex

	Pid     defs.Pid_t
	Vmmap   *vm.Vmmap_t
	Brk     *vm.Brk_t
	Pmap    *vm.Pagetable_t
	Fdtable *vfs.Fdtable_t
	Cwd     *fd.Cwd_t
	Accnt   *accnt.Accnt_t

	Threads map[defs.Tid_t]*tinfo.Tnote_t

	parent   *Proc_t
	children map[defs.Pid_t]*Proc_t
	exited   bool
	status   int
	waitc    *sync.Cond
	startns  int
}

var (
	allMu   sync.Mutex
	all     = make(map[defs.Pid_t]*Proc_t)
	nextPid defs.Pid_t = 1
	nextTid defs.Tid_t = 1
)

func allocPid() defs.Pid_t {
	allMu.Lock()
	defer allMu.Unlock()
	p := nextPid
	nextPid++
	return p
}

func allocTid() defs.Tid_t {
	allMu.Lock()
	defer allMu.Unlock()
	t := nextTid
	nextTid++
	return t
}

// MkInitProc creates the first process, rooted at root, with a fresh
// empty address space and a descriptor table containing nothing yet.
func MkInitProc(root *vnode.Vnode_t) *Proc_t {
	vnode.Vref(root)
	p := &Proc_t{
		Pid:      allocPid(),
		Vmmap:    vm.MkVmmap(),
		Brk:      vm.MkBrk(defs.USER_MEM_LOW),
		Pmap:     vm.MkPagetable(),
		Fdtable:  vfs.MkFdtable(),
		Cwd:      fd.MkRootCwd(&fd.Fd_t{Fops: vfs.MkFile(root, vfs.FMODE_READ), Perms: fd.FD_READ}),
		Accnt:    &accnt.Accnt_t{},
		Threads:  make(map[defs.Tid_t]*tinfo.Tnote_t),
		children: make(map[defs.Pid_t]*Proc_t),
	}
	p.startns = p.Accnt.Now()
	p.waitc = sync.NewCond(&p.mu)
	t := tinfo.MkTnote(allocTid())
	p.Threads[t.Tid] = t

	allMu.Lock()
	all[p.Pid] = p
	allMu.Unlock()
	return p
}

// Fork creates a child process that is a copy-on-write clone of
// parent: a cloned vmmap (private mappings become shadow objects
// shared with the parent until either side writes), a fresh
// descriptor table of reopened duplicates of every parent descriptor,
// and a new cwd referencing the same directory. It returns the child;
// the thread note for the child's sole thread is in child.Threads.
func Fork(parent *Proc_t) (*Proc_t, defs.Err_t) {
	if !limits.Syslimit.Descriptors.Take() {
		return nil, -defs.ENOMEM
	}

	parent.mu.Lock()
	defer parent.mu.Unlock()

	childVmmap := parent.Vmmap.Clone()
	childBrk := parent.Brk.Clone()
	childBrk.Rebind(childVmmap)

	childFt := vfs.MkFdtable()
	for i := 0; i < defs.NFILES; i++ {
		of, err := parent.Fdtable.Get(i)
		if err != 0 {
			continue
		}
		nf, cerr := fd.Copyfd(of)
		if cerr != 0 {
			continue
		}
		childFt.Install(nf)
	}

	child := &Proc_t{
		Pid:      allocPid(),
		Vmmap:    childVmmap,
		Brk:      childBrk,
		Pmap:     vm.MkPagetable(),
		Fdtable:  childFt,
		Cwd:      fd.MkRootCwd(nil),
		Accnt:    &accnt.Accnt_t{},
		Threads:  make(map[defs.Tid_t]*tinfo.Tnote_t),
		parent:   parent,
		children: make(map[defs.Pid_t]*Proc_t),
	}
	child.startns = child.Accnt.Now()
	child.waitc = sync.NewCond(&child.mu)
	child.Cwd.Path = append(ustr.Ustr{}, parent.Cwd.Path...)
	vnode.Vref(cwdVnode(parent.Cwd))
	child.Cwd.Fd = &fd.Fd_t{Fops: vfs.MkFile(cwdVnode(parent.Cwd), vfs.FMODE_READ), Perms: fd.FD_READ}

	t := tinfo.MkTnote(allocTid())
	child.Threads[t.Tid] = t

	parent.children[child.Pid] = child

	allMu.Lock()
	all[child.Pid] = child
	allMu.Unlock()

	return child, 0
}

func cwdVnode(cwd *fd.Cwd_t) *vnode.Vnode_t {
	return cwd.Fd.Fops.(*vfs.File_t).V
}

// Exit marks every thread in p doomed, records status for a waiting
// parent, and wakes it. Resource teardown (closing descriptors,
// dropping the vmmap) is the caller's responsibility once no thread
// note is still alive, matching the teacher's last-thread-out
// convention.
func Exit(p *Proc_t, status int) {
	p.mu.Lock()
	for _, t := range p.Threads {
		t.Doom()
	}
	p.exited = true
	p.status = status
	// No scheduler exists to tick Utadd/Systadd while p runs, so charge
	// the wall-clock time since creation as system time -- the same
	// proxy the teacher's own Finish is for time spent since the last
	// accounting checkpoint.
	p.Accnt.Finish(p.startns)
	p.mu.Unlock()

	// Wake the parent's Waitpid, not our own -- p.waitc only ever has
	// p's own (now-doomed) threads sleeping on it. Locking parent.mu
	// only after releasing p.mu keeps lock order parent-then-child
	// throughout, matching what Waitpid's hasExited() check does.
	if p.parent != nil {
		p.parent.mu.Lock()
		// Reaped children's usage accumulates into the parent, the same
		// way a real wait4's rusage argument folds in a terminated
		// child's accounting.
		p.parent.Accnt.Add(p.Accnt)
		p.parent.waitc.Broadcast()
		p.parent.mu.Unlock()
	}

	limits.Syslimit.Descriptors.Give()
}

// Waitpid blocks the calling thread until child pid has exited,
// returning its status. pid == -1 waits for any child. If caller is
// already doomed, it returns EINTR without blocking, the same
// cancellation contract CancellableSleepOn gives callers elsewhere;
// unlike CancellableSleepOn, a Waitpid already asleep does not wake on
// a later Doom, since a sync.Cond has no way to interrupt a Wait in
// progress -- only the next syscall-entry check catches it.
func Waitpid(parent *Proc_t, pid defs.Pid_t, caller *tinfo.Tnote_t) (defs.Pid_t, int, defs.Err_t) {
	if caller != nil && caller.Doomed() {
		return 0, 0, -defs.EINTR
	}

	parent.mu.Lock()
	defer parent.mu.Unlock()

	find := func() *Proc_t {
		if pid != -1 {
			c, ok := parent.children[pid]
			if ok && c.hasExited() {
				return c
			}
			return nil
		}
		for _, c := range parent.children {
			if c.hasExited() {
				return c
			}
		}
		return nil
	}

	for {
		if c := find(); c != nil {
			delete(parent.children, c.Pid)
			return c.Pid, c.status, 0
		}
		if len(parent.children) == 0 {
			return 0, 0, -defs.ECHILD
		}
		parent.waitc.Wait()
	}
}

func (p *Proc_t) hasExited() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.exited
}
