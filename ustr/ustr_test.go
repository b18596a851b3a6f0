package ustr

import "testing"

func TestIsdotAndIsdotdot(t *testing.T) {
	if !Ustr(".").Isdot() {
		t.Fatal("\".\" should report Isdot")
	}
	if Ustr("..").Isdot() {
		t.Fatal("\"..\" should not report Isdot")
	}
	if !Ustr("..").Isdotdot() {
		t.Fatal("\"..\" should report Isdotdot")
	}
}

func TestEq(t *testing.T) {
	if !Ustr("abc").Eq(Ustr("abc")) {
		t.Fatal("identical byte slices should be equal")
	}
	if Ustr("abc").Eq(Ustr("abd")) {
		t.Fatal("differing byte slices should not be equal")
	}
	if Ustr("abc").Eq(Ustr("ab")) {
		t.Fatal("differing lengths should not be equal")
	}
}

func TestExtendJoinsWithSlash(t *testing.T) {
	got := Ustr("/a").Extend(Ustr("b"))
	if got.String() != "/a/b" {
		t.Fatalf("got %q want %q", got.String(), "/a/b")
	}
}

func TestExtendDoesNotMutateReceiver(t *testing.T) {
	base := Ustr("/a")
	_ = base.Extend(Ustr("b"))
	if base.String() != "/a" {
		t.Fatalf("Extend mutated its receiver: got %q", base.String())
	}
}

func TestIsAbsolute(t *testing.T) {
	if !Ustr("/a").IsAbsolute() {
		t.Fatal("\"/a\" should be absolute")
	}
	if Ustr("a").IsAbsolute() {
		t.Fatal("\"a\" should not be absolute")
	}
	if Ustr("").IsAbsolute() {
		t.Fatal("empty path should not be absolute")
	}
}

func TestMkUstrSliceTruncatesAtNul(t *testing.T) {
	buf := []uint8{'h', 'i', 0, 'x'}
	got := MkUstrSlice(buf)
	if got.String() != "hi" {
		t.Fatalf("got %q want %q", got.String(), "hi")
	}
}

func TestTokensSplitsOnRuns(t *testing.T) {
	toks := Ustr("/a//b/c/").Tokens()
	if len(toks) != 3 {
		t.Fatalf("got %d tokens want 3", len(toks))
	}
	if toks[0].String() != "a" || toks[1].String() != "b" || toks[2].String() != "c" {
		t.Fatalf("got %v", toks)
	}
}

func TestCanonicalizeCollapsesDotAndDotDot(t *testing.T) {
	got := Canonicalize(Ustr("/a/./b/../c"))
	if got.String() != "/a/c" {
		t.Fatalf("got %q want %q", got.String(), "/a/c")
	}
}

func TestCanonicalizeDiscardsLeadingDotDotPastRoot(t *testing.T) {
	got := Canonicalize(Ustr("/../a"))
	if got.String() != "/a" {
		t.Fatalf("got %q want %q", got.String(), "/a")
	}
}
