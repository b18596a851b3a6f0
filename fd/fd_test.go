package fd

import (
	"testing"

	"weenix/defs"
	"weenix/fdops"
	"weenix/stat"
	"weenix/ustr"
)

type fakeFdops struct {
	closed  int
	reopens int
}

func (f *fakeFdops) Read(dst fdops.Userio_i) (int, defs.Err_t)  { return 0, 0 }
func (f *fakeFdops) Write(src fdops.Userio_i) (int, defs.Err_t) { return 0, 0 }
func (f *fakeFdops) Fstat(st *stat.Stat_t) defs.Err_t           { return 0 }
func (f *fakeFdops) Lseek(off int, whence int) (int, defs.Err_t) {
	return 0, 0
}
func (f *fakeFdops) Poll(pm fdops.Pollmsg_t) (fdops.Ready_t, defs.Err_t) { return 0, 0 }
func (f *fakeFdops) Close() defs.Err_t {
	f.closed++
	return 0
}
func (f *fakeFdops) Reopen() defs.Err_t {
	f.reopens++
	return 0
}

func TestCopyfdReopensRatherThanSharingFops(t *testing.T) {
	backing := &fakeFdops{}
	orig := &Fd_t{Fops: backing, Perms: FD_READ}

	dup, err := Copyfd(orig)
	if err != 0 {
		t.Fatalf("copyfd failed: %d", err)
	}
	if backing.reopens != 1 {
		t.Fatalf("got %d reopens want 1", backing.reopens)
	}
	if dup.Fops != orig.Fops {
		t.Fatal("a duplicated descriptor should still point at the same backing object")
	}
	if dup == orig {
		t.Fatal("copyfd should allocate a new Fd_t, not return the same one")
	}
}

func TestClosePanicOnFailure(t *testing.T) {
	f := &Fd_t{Fops: &failingClose{}}
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when Close fails")
		}
	}()
	Close_panic(f)
}

type failingClose struct{ fakeFdops }

func (f *failingClose) Close() defs.Err_t { return -defs.EBADF }

func TestFullpathLeavesAbsolutePathsUntouched(t *testing.T) {
	cwd := MkRootCwd(nil)
	cwd.Path = ustr.Ustr("/home/user")

	got := cwd.Fullpath(ustr.Ustr("/etc/passwd"))
	if got.String() != "/etc/passwd" {
		t.Fatalf("got %q want %q", got.String(), "/etc/passwd")
	}
}

func TestFullpathJoinsRelativePathToCwd(t *testing.T) {
	cwd := MkRootCwd(nil)
	cwd.Path = ustr.Ustr("/home/user")

	got := cwd.Fullpath(ustr.Ustr("docs"))
	if got.String() != "/home/user/docs" {
		t.Fatalf("got %q want %q", got.String(), "/home/user/docs")
	}
}

func TestCanonicalpathCollapsesDotDot(t *testing.T) {
	cwd := MkRootCwd(nil)
	cwd.Path = ustr.Ustr("/home/user")

	got := cwd.Canonicalpath(ustr.Ustr("../other"))
	if got.String() != "/home/other" {
		t.Fatalf("got %q want %q", got.String(), "/home/other")
	}
}

func TestMkRootCwdStartsAtRoot(t *testing.T) {
	cwd := MkRootCwd(nil)
	if cwd.Path.String() != "/" {
		t.Fatalf("got %q want %q", cwd.Path.String(), "/")
	}
}
