package accnt

import (
	"testing"

	"weenix/util"
)

func TestUtaddAndSystaddAccumulate(t *testing.T) {
	a := &Accnt_t{}
	a.Utadd(100)
	a.Utadd(50)
	a.Systadd(10)

	if a.Userns != 150 {
		t.Fatalf("got %d want 150", a.Userns)
	}
	if a.Sysns != 10 {
		t.Fatalf("got %d want 10", a.Sysns)
	}
}

func TestAddMergesAnotherRecord(t *testing.T) {
	a := &Accnt_t{Userns: 10, Sysns: 20}
	b := &Accnt_t{Userns: 1, Sysns: 2}

	a.Add(b)

	if a.Userns != 11 || a.Sysns != 22 {
		t.Fatalf("got (%d,%d) want (11,22)", a.Userns, a.Sysns)
	}
}

func TestToRusageEncodesUserAndSysTime(t *testing.T) {
	a := &Accnt_t{Userns: 2_500_000_000, Sysns: 1_000_000}

	buf := a.To_rusage()
	if len(buf) != 32 {
		t.Fatalf("got %d bytes want 32", len(buf))
	}

	usec := util.Readn(buf, 8, 0)
	uusec := util.Readn(buf, 8, 8)
	if usec != 2 || uusec != 500_000 {
		t.Fatalf("got user (%d,%d) want (2,500000)", usec, uusec)
	}

	ssec := util.Readn(buf, 8, 16)
	susec := util.Readn(buf, 8, 24)
	if ssec != 0 || susec != 1000 {
		t.Fatalf("got sys (%d,%d) want (0,1000)", ssec, susec)
	}
}

func TestFetchIsConsistentWithToRusage(t *testing.T) {
	a := &Accnt_t{Userns: 1_000_000_000}
	if string(a.Fetch()) != string(a.To_rusage()) {
		t.Fatal("Fetch should return the same encoding as To_rusage")
	}
}
