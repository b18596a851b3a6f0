package limits

import "testing"

func TestTakeDecrementsAndGiveRestores(t *testing.T) {
	var s Sysatomic_t
	s.Given(2)

	if !s.Take() {
		t.Fatal("first Take should succeed with budget 2")
	}
	if s.Remaining() != 1 {
		t.Fatalf("got remaining %d want 1", s.Remaining())
	}
	if !s.Take() {
		t.Fatal("second Take should succeed, exhausting the budget")
	}
	if s.Remaining() != 0 {
		t.Fatalf("got remaining %d want 0", s.Remaining())
	}
	if s.Take() {
		t.Fatal("Take on an exhausted budget should fail")
	}
	if s.Remaining() != 0 {
		t.Fatal("a refused Take must not change the counter")
	}

	s.Give()
	if s.Remaining() != 1 {
		t.Fatalf("got remaining %d want 1 after Give", s.Remaining())
	}
}

func TestTakenRefusesWithoutGoingNegative(t *testing.T) {
	var s Sysatomic_t
	s.Given(3)

	if s.Taken(5) {
		t.Fatal("Taken(5) should be refused against a budget of 3")
	}
	if s.Remaining() != 3 {
		t.Fatalf("a refused Taken must leave the counter unchanged, got %d", s.Remaining())
	}
	if !s.Taken(3) {
		t.Fatal("Taken(3) should succeed against a budget of exactly 3")
	}
	if s.Remaining() != 0 {
		t.Fatalf("got remaining %d want 0", s.Remaining())
	}
}

func TestMkSysLimitSeedsDefaults(t *testing.T) {
	l := MkSysLimit()
	if l.Vnodes.Remaining() != 1<<16 {
		t.Fatalf("got %d want %d", l.Vnodes.Remaining(), 1<<16)
	}
	if l.Descriptors.Remaining() != 1<<16 {
		t.Fatalf("got %d want %d", l.Descriptors.Remaining(), 1<<16)
	}
	if l.Mfspgs.Remaining() != 1<<20 {
		t.Fatalf("got %d want %d", l.Mfspgs.Remaining(), 1<<20)
	}
	if l.ShadowDepth.Remaining() != 64 {
		t.Fatalf("got %d want 64", l.ShadowDepth.Remaining())
	}
}
