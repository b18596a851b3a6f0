package ldisc

import (
	"testing"
	"time"

	"weenix/defs"
	"weenix/fdops"
	"weenix/tinfo"
)

// readLine does one Read into a fresh 16-byte buffer and returns the
// bytes actually written.
func readLine(t *testing.T, ld *Ldisc_t, note *tinfo.Tnote_t) ([]uint8, defs.Err_t) {
	t.Helper()
	raw := make([]uint8, 16)
	n, err := ld.Read(note, fdops.MkBytebuf(raw))
	return raw[:n], err
}

func TestInputCommitsOnNewline(t *testing.T) {
	ld := MkLdisc()
	ld.Input([]uint8("hello\n"))
	if !ld.Readable() {
		t.Fatal("expected a committed line to be readable")
	}
}

func TestInputUncommittedNotReadable(t *testing.T) {
	ld := MkLdisc()
	ld.Input([]uint8("hello"))
	if ld.Readable() {
		t.Fatal("uncommitted input should not be readable")
	}
}

func TestBackspaceErasesUncommittedByte(t *testing.T) {
	ld := MkLdisc()
	ld.Input([]uint8("hellx"))
	ld.Input([]uint8{defs.BS})
	ld.Input([]uint8("o\n"))

	note := tinfo.MkTnote(1)
	got, err := readLine(t, ld, note)
	if err != 0 {
		t.Fatalf("read failed: %d", err)
	}
	if string(got) != "hello\n" {
		t.Fatalf("got %q want %q", got, "hello\n")
	}
}

func TestBackspaceOnEmptyPendingIsNoop(t *testing.T) {
	ld := MkLdisc()
	ld.Input([]uint8{defs.BS})
	ld.Input([]uint8("ok\n"))

	note := tinfo.MkTnote(1)
	got, err := readLine(t, ld, note)
	if err != 0 {
		t.Fatalf("read failed: %d", err)
	}
	if string(got) != "ok\n" {
		t.Fatalf("got %q", got)
	}
}

func TestETXCommitsBlankLineAndDiscardsUncommittedInput(t *testing.T) {
	ld := MkLdisc()
	ld.Input([]uint8("junk"))
	ld.Input([]uint8{defs.ETX})
	if !ld.Readable() {
		t.Fatal("ETX should commit a blank cooked line")
	}
	ld.Input([]uint8("clean\n"))

	note := tinfo.MkTnote(1)
	got, err := readLine(t, ld, note)
	if err != 0 {
		t.Fatalf("read failed: %d", err)
	}
	if string(got) != "\n" {
		t.Fatalf("got %q want a single blank line from ETX", got)
	}

	got, err = readLine(t, ld, note)
	if err != 0 {
		t.Fatalf("read failed: %d", err)
	}
	if string(got) != "clean\n" {
		t.Fatalf("got %q, ETX leaked discarded bytes into the next line", got)
	}
}

func TestEOTOnEmptyLineSignalsEOF(t *testing.T) {
	ld := MkLdisc()
	ld.Input([]uint8{defs.EOT})

	note := tinfo.MkTnote(1)
	got, err := readLine(t, ld, note)
	if err != 0 || len(got) != 0 {
		t.Fatalf("got (%q, %d) want (\"\", 0) for EOF", got, err)
	}
}

func TestEOTWithPendingInputCommitsLine(t *testing.T) {
	ld := MkLdisc()
	ld.Input([]uint8("partial"))
	ld.Input([]uint8{defs.EOT})

	note := tinfo.MkTnote(1)
	got, err := readLine(t, ld, note)
	if err != 0 {
		t.Fatalf("read failed: %d", err)
	}
	if string(got) != "partial" {
		t.Fatalf("got %q want %q", got, "partial")
	}
}

func TestOverflowDropsExtraBytes(t *testing.T) {
	ld := MkLdisc()
	big := make([]uint8, bufsz*4)
	for i := range big {
		big[i] = 'a'
	}
	n := ld.Input(big)
	if n != len(big) {
		t.Fatalf("Input should report bytes consumed including drops, got %d", n)
	}
	// One slot is always held back, so the last byte of the raw region
	// never gets written.
	if ld.head != bufsz-1 {
		t.Fatalf("got head %d want %d", ld.head, bufsz-1)
	}
	if ld.buf[bufsz-1] != 0 {
		t.Fatalf("slot bufsz-1 should never be written, got %x", ld.buf[bufsz-1])
	}
}

func TestReadWrapsAcrossBufferBoundary(t *testing.T) {
	ld := MkLdisc()
	// Push the cursors near the end of the ring so the next commit
	// wraps around.
	filler := make([]uint8, bufsz-3)
	for i := range filler {
		filler[i] = 'x'
	}
	ld.Input(filler)
	ld.Input([]uint8{defs.EOT})

	note := tinfo.MkTnote(1)
	drainBuf := make([]uint8, bufsz)
	if _, err := ld.Read(note, fdops.MkBytebuf(drainBuf)); err != 0 {
		t.Fatalf("drain failed: %d", err)
	}

	ld.Input([]uint8("abcdef\n"))
	want := "abcdef\n"
	var got []uint8
	for len(got) < len(want) {
		chunk, err := readLine(t, ld, note)
		if err != 0 {
			t.Fatalf("wrapped read failed: %d", err)
		}
		if len(chunk) == 0 {
			break
		}
		got = append(got, chunk...)
	}
	if string(got) != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestReadIsCancellable(t *testing.T) {
	ld := MkLdisc()
	note := tinfo.MkTnote(1)

	done := make(chan defs.Err_t, 1)
	go func() {
		_, err := readLine(t, ld, note)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	note.Doom()

	select {
	case err := <-done:
		if err != -defs.EINTR {
			t.Fatalf("got %d want EINTR", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Read did not wake up on Doom")
	}
}
