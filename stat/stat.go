// Package stat defines the result structure populated by a vnode's
// stat operation.
package stat

// Stat_t mirrors a file's stat(2) information. Field names keep the
// teacher's underscored-private/Getter-Setter shape since callers
// populate it field-by-field from a vnode op and then hand it whole to
// the syscall layer.
type Stat_t struct {
	_dev   uint64
	_ino   uint64
	_mode  uint
	_size  uint64
	_rdev  uint64
	_nlink uint
}

func (st *Stat_t) Wdev(v uint64) { st._dev = v }
func (st *Stat_t) Wino(v uint64) { st._ino = v }
func (st *Stat_t) Wmode(v uint)  { st._mode = v }
func (st *Stat_t) Wsize(v uint64) { st._size = v }
func (st *Stat_t) Wrdev(v uint64) { st._rdev = v }
func (st *Stat_t) Wnlink(v uint)  { st._nlink = v }

func (st *Stat_t) Dev() uint64  { return st._dev }
func (st *Stat_t) Ino() uint64  { return st._ino }
func (st *Stat_t) Mode() uint   { return st._mode }
func (st *Stat_t) Size() uint64 { return st._size }
func (st *Stat_t) Rdev() uint64 { return st._rdev }
func (st *Stat_t) Nlink() uint  { return st._nlink }
