// Package fdops defines the narrow interfaces a file descriptor's
// backing object (a vnode, a device, a pipe end) must satisfy so the
// descriptor table and the line discipline can drive it without
// knowing its concrete type.
package fdops

import "weenix/defs"
import "weenix/stat"

// Userio_i abstracts a source or sink for bytes crossing the
// user/kernel boundary, so code in fs/vm packages can be exercised
// against an in-memory buffer in tests without a real address space
// behind it.
type Userio_i interface {
	// Uioread copies into dst from whatever this Userio_i wraps,
	// returning how much was copied.
	Uioread(dst []uint8) (int, defs.Err_t)
	// Uiowrite copies src into whatever this Userio_i wraps, returning
	// how much was copied.
	Uiowrite(src []uint8) (int, defs.Err_t)
	// Remain reports how many bytes are left before this Userio_i is
	// exhausted.
	Remain() int
	// Totalsz reports the Userio_i's original capacity.
	Totalsz() int
}

// Ready_t is a bitmask of the poll conditions a descriptor currently
// satisfies.
type Ready_t uint8

const (
	R_READ  Ready_t = 1 << 0
	R_WRITE Ready_t = 1 << 1
	R_ERROR Ready_t = 1 << 2
	R_HUP   Ready_t = 1 << 3
)

// Pollmsg_t carries the set of conditions a caller is polling for. It
// holds no waiter; a caller that must block waits by other means.
type Pollmsg_t struct {
	Events Ready_t
}

// Fdops_i is the operation vtable behind an open file descriptor.
// Every method takes or returns a defs.Err_t rather than Go's error,
// matching the uniform error contract the rest of the kernel core
// speaks.
type Fdops_i interface {
	// Read copies from the descriptor's current offset into dst,
	// advancing the offset by however much was read.
	Read(dst Userio_i) (int, defs.Err_t)
	// Write copies src to the descriptor, at its current offset (or
	// at the backing file's end, if opened with O_APPEND), advancing
	// the offset.
	Write(src Userio_i) (int, defs.Err_t)
	// Fstat populates st with the backing object's metadata.
	Fstat(st *stat.Stat_t) defs.Err_t
	// Lseek repositions the descriptor's offset per whence (one of
	// defs.SEEK_SET/SEEK_CUR/SEEK_END) and returns the new offset.
	Lseek(off int, whence int) (int, defs.Err_t)
	// Poll reports which of the requested conditions currently hold.
	Poll(pm Pollmsg_t) (Ready_t, defs.Err_t)
	// Close releases one reference to the backing object, running
	// teardown when the last reference drops.
	Close() defs.Err_t
	// Reopen takes an additional reference to the backing object, for
	// dup/dup2/fork.
	Reopen() defs.Err_t
}
