package mem

import (
	"testing"

	"weenix/limits"
)

func TestRefpgNewStartsAtRefcountOne(t *testing.T) {
	p := MkPhysmem()
	_, pa, ok := p.Refpg_new()
	if !ok {
		t.Fatal("refpg_new should succeed with budget available")
	}
	if p.Refcnt(pa) != 1 {
		t.Fatalf("got refcnt %d want 1", p.Refcnt(pa))
	}
}

func TestRefupAndRefdownRoundtrip(t *testing.T) {
	p := MkPhysmem()
	_, pa, _ := p.Refpg_new()

	p.Refup(pa)
	if p.Refcnt(pa) != 2 {
		t.Fatalf("got refcnt %d want 2", p.Refcnt(pa))
	}

	if p.Refdown(pa) {
		t.Fatal("refdown from 2 should not report the frame freed")
	}
	if !p.Refdown(pa) {
		t.Fatal("refdown from 1 should report the frame freed")
	}
	if p.Refcnt(pa) != 0 {
		t.Fatal("a freed frame should report refcnt 0")
	}
}

func TestRefdownOfFreedFramePanics(t *testing.T) {
	p := MkPhysmem()
	_, pa, _ := p.Refpg_new()
	p.Refdown(pa)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic refdowning an already-freed frame")
		}
	}()
	p.Refdown(pa)
}

func TestDerefOfFreedFramePanics(t *testing.T) {
	p := MkPhysmem()
	_, pa, _ := p.Refpg_new()
	p.Refdown(pa)

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic dereferencing a freed frame")
		}
	}()
	p.Deref(pa)
}

func TestRefpgNewRefusesWhenMfspgsExhausted(t *testing.T) {
	before := limits.Syslimit.Mfspgs.Remaining()
	limits.Syslimit.Mfspgs.Taken(uint(before))

	p := MkPhysmem()
	_, _, ok := p.Refpg_new()
	if ok {
		limits.Syslimit.Mfspgs.Given(uint(before))
		t.Fatal("refpg_new should fail once the frame budget is exhausted")
	}

	limits.Syslimit.Mfspgs.Given(uint(before))
}

func TestRefdownGivesFrameBudgetBack(t *testing.T) {
	p := MkPhysmem()
	before := limits.Syslimit.Mfspgs.Remaining()

	_, pa, ok := p.Refpg_new()
	if !ok {
		t.Fatal("refpg_new failed")
	}
	if got := limits.Syslimit.Mfspgs.Remaining(); got != before-1 {
		t.Fatalf("got remaining %d want %d after one allocation", got, before-1)
	}

	p.Refdown(pa)
	if got := limits.Syslimit.Mfspgs.Remaining(); got != before {
		t.Fatalf("got remaining %d want %d after the frame was freed", got, before)
	}
}
