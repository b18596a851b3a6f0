package memdev

import (
	"testing"

	"weenix/defs"
	"weenix/fdops"
)

func TestNullReadIsEOF(t *testing.T) {
	n, err := NullOps.Read(nil, fdops.MkBytebuf(make([]uint8, 16)), 0)
	if err != 0 || n != 0 {
		t.Fatalf("got (%d,%d) want (0,0)", n, err)
	}
}

func TestNullWriteDiscardsAndReportsFullLength(t *testing.T) {
	msg := []uint8("anything")
	n, err := NullOps.Write(nil, fdops.MkBytebuf(msg), 0)
	if err != 0 || n != len(msg) {
		t.Fatalf("got (%d,%d) want (%d,0)", n, err, len(msg))
	}
}

func TestZeroReadFillsZeroes(t *testing.T) {
	buf := make([]uint8, 8)
	for i := range buf {
		buf[i] = 0xff
	}
	n, err := ZeroOps.Read(nil, fdops.MkBytebuf(buf), 0)
	if err != 0 || n != len(buf) {
		t.Fatalf("got (%d,%d)", n, err)
	}
	for i, b := range buf {
		if b != 0 {
			t.Fatalf("byte %d not zeroed: %x", i, b)
		}
	}
}

func TestZeroMmapReturnsAnon(t *testing.T) {
	m, err := ZeroOps.Mmap(nil)
	if err != 0 || m == nil {
		t.Fatalf("got (%v,%d) want an anonymous object", m, err)
	}
}

func TestNullMmapFails(t *testing.T) {
	if _, err := NullOps.Mmap(nil); err != -defs.ENODEV {
		t.Fatalf("got %d want ENODEV", err)
	}
}

func TestOpsForUnknownDevidIsNil(t *testing.T) {
	if OpsFor(0xdeadbeef) != nil {
		t.Fatal("expected nil ops for an unrecognized device id")
	}
}

func TestDirOpsRejectEveryDirectoryOperation(t *testing.T) {
	if _, err := NullOps.Lookup(nil, nil); err != -defs.ENOTDIR {
		t.Fatalf("Lookup: got %d want ENOTDIR", err)
	}
	if err := NullOps.Mkdir(nil, nil); err != -defs.ENOTDIR {
		t.Fatalf("Mkdir: got %d want ENOTDIR", err)
	}
	if err := NullOps.Unlink(nil, nil); err != -defs.ENOTDIR {
		t.Fatalf("Unlink: got %d want ENOTDIR", err)
	}
}
