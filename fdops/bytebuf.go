package fdops

import "weenix/defs"

// Bytebuf_t is a Userio_i backed by a plain Go byte slice, standing in
// for the address-space-walking user buffers a hosted kernel would use
// for process memory. Grounded on biscuit's Fakeubuf_t, the same
// simplification biscuit itself uses in contexts with no real user
// address space to copy across.
type Bytebuf_t struct {
	buf []uint8
	len int
}

// MkBytebuf wraps buf for reading: callers drain it via Uioread.
func MkBytebuf(buf []uint8) *Bytebuf_t {
	return &Bytebuf_t{buf: buf, len: len(buf)}
}

func (b *Bytebuf_t) tx(other []uint8, toSelf bool) (int, defs.Err_t) {
	var c int
	if toSelf {
		c = copy(b.buf, other)
	} else {
		c = copy(other, b.buf)
	}
	b.buf = b.buf[c:]
	return c, 0
}

func (b *Bytebuf_t) Uioread(dst []uint8) (int, defs.Err_t)  { return b.tx(dst, false) }
func (b *Bytebuf_t) Uiowrite(src []uint8) (int, defs.Err_t) { return b.tx(src, true) }
func (b *Bytebuf_t) Remain() int                            { return len(b.buf) }
func (b *Bytebuf_t) Totalsz() int                            { return b.len }
