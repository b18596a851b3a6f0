// Package ldisc implements a TTY line discipline: a fixed circular
// buffer of raw input with a cooked boundary that advances on newline
// or end-of-transmission, so a reader only ever sees whole committed
// lines. Grounded on the teacher's Circbuf_t (head/tail circular
// buffer copied in/out via Userio_i), extended with the cooked cursor
// and control-character table a line discipline needs on top of a
// bare byte ring, and with a cancellable waiter queue standing in for
// the interrupt-driven wakeups a real driver would get from hardware.
package ldisc

import (
	"bytes"
	"sync"

	"weenix/defs"
	"weenix/fdops"
	"weenix/tinfo"
)

const bufsz = 4096

// Ldisc_t holds one TTY's input ring. Three cursors subdivide it:
// tail <= cooked <= head (mod bufsz). Bytes in [tail, cooked) are
// committed and available to Read; bytes in [cooked, head) are raw,
// uncommitted input a reader can't see yet and backspace can still
// erase.
type Ldisc_t struct {
	mu sync.Mutex

	buf          [bufsz]uint8
	tail, cooked, head int

	eofPending bool // an EOT arrived with no pending raw bytes

	waiters map[*tinfo.Tnote_t]struct{}
}

// MkLdisc returns an empty line discipline.
func MkLdisc() *Ldisc_t {
	return &Ldisc_t{waiters: make(map[*tinfo.Tnote_t]struct{})}
}

func (ld *Ldisc_t) rawlen() int    { return ld.head - ld.tail }
func (ld *Ldisc_t) cookedlen() int { return ld.cooked - ld.tail }
func (ld *Ldisc_t) pendinglen() int { return ld.head - ld.cooked }

// full reports whether the raw region has reached capacity. One slot
// is always held back so head can never collide with tail; filling all
// bufsz slots would make an empty and a full ring indistinguishable.
func (ld *Ldisc_t) full() bool { return ld.rawlen() >= bufsz-1 }

func (ld *Ldisc_t) wake() {
	for t := range ld.waiters {
		t.Wake()
	}
}

func (ld *Ldisc_t) register(t *tinfo.Tnote_t) {
	ld.waiters[t] = struct{}{}
}
func (ld *Ldisc_t) unregister(t *tinfo.Tnote_t) {
	delete(ld.waiters, t)
}

// Input feeds raw bytes into the discipline -- the hardware keystroke
// path in a real driver, here also what Write on the TTY's input side
// calls. It applies the control-character table byte by byte and
// wakes any reader a newly committed line or EOF might satisfy.
func (ld *Ldisc_t) Input(raw []uint8) int {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	n := 0
	committed := false
	for _, b := range raw {
		switch b {
		case defs.BS:
			if ld.pendinglen() > 0 {
				ld.head--
			}
		case defs.ETX:
			// Kill the in-progress line. No signal delivery --
			// process signaling is out of scope here -- so this
			// discards uncommitted input and commits a blank cooked
			// line in its place, so a blocked reader sees end-of-line
			// rather than hanging.
			ld.head = ld.cooked
			if !ld.full() {
				ld.buf[ld.head%bufsz] = '\n'
				ld.head++
			}
			ld.cooked = ld.head
			committed = true
		case defs.EOT:
			if ld.pendinglen() == 0 {
				ld.eofPending = true
			}
			ld.cooked = ld.head
			committed = true
		default:
			if ld.full() {
				// Dropped, but still counted as consumed.
				break
			}
			ld.buf[ld.head%bufsz] = b
			ld.head++
			if b == '\n' {
				ld.cooked = ld.head
				committed = true
			}
		}
		n++
	}
	if committed {
		ld.wake()
	}
	return n
}

// Write is Input wrapped to satisfy the Userio_i-sourced write path:
// it pulls bytes out of src and feeds them through Input.
func (ld *Ldisc_t) Write(src fdops.Userio_i) (int, defs.Err_t) {
	tmp := make([]uint8, src.Remain())
	got, err := src.Uioread(tmp)
	if err != 0 {
		return 0, err
	}
	ld.Input(tmp[:got])
	return got, 0
}

// Read blocks, cancellably via t, until a committed line (or a
// pending EOF) is available, then copies up to one line's worth of
// bytes into dst.
func (ld *Ldisc_t) Read(t *tinfo.Tnote_t, dst fdops.Userio_i) (int, defs.Err_t) {
	ld.mu.Lock()
	defer ld.mu.Unlock()

	ld.register(t)
	defer ld.unregister(t)

	pred := func() bool { return ld.cookedlen() > 0 || ld.eofPending }
	if err := t.CancellableSleepOn(&ld.mu, pred); err != 0 {
		return 0, err
	}

	if ld.cookedlen() == 0 && ld.eofPending {
		ld.eofPending = false
		return 0, 0
	}

	avail := ld.cookedlen()
	ti := ld.tail % bufsz
	ci := ld.cooked % bufsz
	var chunk []uint8
	if ti < ci {
		chunk = ld.buf[ti:ci]
	} else {
		// wraps -- hand over the tail segment now; the rest waits
		// for the next Read, matching Circbuf_t.Copyout_n's partial
		// transfer on wraparound.
		chunk = ld.buf[ti:]
	}
	if len(chunk) > avail {
		chunk = chunk[:avail]
	}
	if nl := bytes.IndexByte(chunk, '\n'); nl >= 0 {
		// Stop after the first committed newline -- a reader gets one
		// line per Read even if more than one is already buffered.
		chunk = chunk[:nl+1]
	}

	wrote, err := dst.Uiowrite(chunk)
	if err != 0 {
		return 0, err
	}
	ld.tail += wrote
	return wrote, 0
}

// Readable reports whether a Read would return immediately.
func (ld *Ldisc_t) Readable() bool {
	ld.mu.Lock()
	defer ld.mu.Unlock()
	return ld.cookedlen() > 0 || ld.eofPending
}
