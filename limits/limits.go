// Package limits tracks system-wide resource ceilings: the Sysatomic_t
// counter type is a lock-free decrement-with-refusal primitive (an
// atomic int64 that never goes negative), used wherever a subsystem
// must admission-control against a fixed budget without taking a lock.
package limits

import "sync/atomic"

// Sysatomic_t is a numeric limit that can be atomically taken from and
// given back to.
type Sysatomic_t struct {
	v int64
}

// Syslimit_t tracks system-wide resource limits relevant to the VM,
// VFS, and line-discipline core. Fields unrelated to those subsystems
// (the teacher's network/futex/socket limits) have no home here and
// were dropped -- see DESIGN.md.
type Syslimit_t struct {
	// Vnodes bounds the number of memfs inodes (files, directories,
	// device nodes): taken when one is created, given back when it is
	// deleted.
	Vnodes Sysatomic_t
	// Descriptors is taken once per proc.Fork and given back by
	// proc.Exit; open File_t objects are not counted against it.
	Descriptors Sysatomic_t
	// Mfspgs bounds cached page frames held by memory objects.
	Mfspgs Sysatomic_t
	// ShadowDepth counts shadow-over-shadow wraps: Shadow_create takes
	// one and Shadow_collapse gives it back. It is advisory; nothing
	// refuses a wrap or starts a collapse when it runs out.
	ShadowDepth Sysatomic_t
}

// Syslimit holds the process-wide configured limits.
var Syslimit = MkSysLimit()

// MkSysLimit returns a freshly initialized set of default limits.
func MkSysLimit() *Syslimit_t {
	l := &Syslimit_t{}
	l.Vnodes.Given(1 << 16)
	l.Descriptors.Given(1 << 16)
	l.Mfspgs.Given(1 << 20)
	l.ShadowDepth.Given(64)
	return l
}

// Given increases the limit by n.
func (s *Sysatomic_t) Given(n uint) {
	atomic.AddInt64(&s.v, int64(n))
}

// Taken tries to decrement the limit by n, refusing (and leaving the
// counter unchanged) if that would take it negative.
func (s *Sysatomic_t) Taken(n uint) bool {
	if atomic.AddInt64(&s.v, -int64(n)) >= 0 {
		return true
	}
	atomic.AddInt64(&s.v, int64(n))
	return false
}

// Take decrements the limit by one.
func (s *Sysatomic_t) Take() bool { return s.Taken(1) }

// Give increments the limit by one.
func (s *Sysatomic_t) Give() { s.Given(1) }

// Remaining reports the current value, racily -- for diagnostics only.
func (s *Sysatomic_t) Remaining() int64 {
	return atomic.LoadInt64(&s.v)
}
