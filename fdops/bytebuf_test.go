package fdops

import "testing"

func TestUioreadCopiesOutOfBytebufAndAdvances(t *testing.T) {
	b := MkBytebuf([]uint8("hello"))
	dst := make([]uint8, 3)

	n, err := b.Uioread(dst)
	if err != 0 || n != 3 {
		t.Fatalf("got (%d,%d) want (3,0)", n, err)
	}
	if string(dst) != "hel" {
		t.Fatalf("got %q want %q", dst, "hel")
	}
	if b.Remain() != 2 {
		t.Fatalf("got remain %d want 2", b.Remain())
	}

	n, err = b.Uioread(dst)
	if err != 0 || n != 2 {
		t.Fatalf("second read: got (%d,%d) want (2,0)", n, err)
	}
	if string(dst[:2]) != "lo" {
		t.Fatalf("got %q want %q", dst[:2], "lo")
	}
	if b.Remain() != 0 {
		t.Fatal("bytebuf should be exhausted")
	}
}

func TestUiowriteCopiesIntoBytebufAndAdvances(t *testing.T) {
	raw := make([]uint8, 5)
	b := MkBytebuf(raw)

	n, err := b.Uiowrite([]uint8("ab"))
	if err != 0 || n != 2 {
		t.Fatalf("got (%d,%d) want (2,0)", n, err)
	}
	n, err = b.Uiowrite([]uint8("cde"))
	if err != 0 || n != 3 {
		t.Fatalf("got (%d,%d) want (3,0)", n, err)
	}
	if string(raw) != "abcde" {
		t.Fatalf("got %q want %q", raw, "abcde")
	}
	if b.Remain() != 0 {
		t.Fatal("bytebuf should be exhausted after filling its whole backing slice")
	}
}

func TestUiowriteTruncatesWhenSourceExceedsCapacity(t *testing.T) {
	raw := make([]uint8, 3)
	b := MkBytebuf(raw)

	n, err := b.Uiowrite([]uint8("toolong"))
	if err != 0 || n != 3 {
		t.Fatalf("got (%d,%d) want (3,0)", n, err)
	}
	if string(raw) != "too" {
		t.Fatalf("got %q want %q", raw, "too")
	}
}

func TestTotalszIsFixedAcrossTransfers(t *testing.T) {
	b := MkBytebuf(make([]uint8, 10))
	if b.Totalsz() != 10 {
		t.Fatalf("got %d want 10", b.Totalsz())
	}
	b.Uioread(make([]uint8, 4))
	if b.Totalsz() != 10 {
		t.Fatal("Totalsz should report the original capacity, not the remainder")
	}
	if b.Remain() != 6 {
		t.Fatalf("got remain %d want 6", b.Remain())
	}
}
