package addr

import (
	"strings"
	"testing"
)

func testAddress(fill byte) Address {
	var a Address
	for i := range a {
		a[i] = fill
	}
	return a
}

func testSalt(fill byte) Salt {
	var s Salt
	for i := range s {
		s[i] = fill
	}
	return s
}

func TestDeriveDeterministic(t *testing.T) {
	deployer := testAddress(0x11)
	salt := testSalt(0x22)
	fp := Fingerprint("holder/v1")

	a := Derive(deployer, salt, fp)
	b := Derive(deployer, salt, fp)
	if a != b {
		t.Fatalf("expected deterministic derivation, got %s and %s", a, b)
	}
	if a.IsZero() {
		t.Fatalf("derived address is zero")
	}
}

func TestDerivePartitionsByInput(t *testing.T) {
	deployer := testAddress(0x11)
	salt := testSalt(0x22)
	fp := Fingerprint("proxy-direct/v1")

	base := Derive(deployer, salt, fp)

	if got := Derive(testAddress(0x12), salt, fp); got == base {
		t.Fatalf("different deployers derived the same address")
	}
	if got := Derive(deployer, testSalt(0x23), fp); got == base {
		t.Fatalf("different salts derived the same address")
	}
	if got := Derive(deployer, salt, Fingerprint("proxy-shared/v1")); got == base {
		t.Fatalf("different kinds derived the same address under one salt")
	}
}

func TestFingerprintStablePerKind(t *testing.T) {
	a := Fingerprint("holder/v1")
	b := Fingerprint("holder/v1")
	if !a.Equals(b) {
		t.Fatalf("fingerprint not stable: %s vs %s", a, b)
	}
	if a.Equals(Fingerprint("holder/v2")) {
		t.Fatalf("distinct kinds share a fingerprint")
	}
	if !a.Defined() {
		t.Fatalf("fingerprint undefined")
	}
}

func TestParseAddressRoundTrip(t *testing.T) {
	want := testAddress(0xab)
	got, err := ParseAddress(want.String())
	if err != nil {
		t.Fatalf("ParseAddress: %v", err)
	}
	if got != want {
		t.Fatalf("round trip mismatch: %s vs %s", got, want)
	}
	if !strings.HasPrefix(want.String(), "0x") {
		t.Fatalf("expected 0x prefix, got %q", want.String())
	}
}

func TestParseAddressRejectsBadInput(t *testing.T) {
	cases := []string{
		"",
		"0x",
		"0x1234",
		"0x" + strings.Repeat("ab", 21),
		"not-hex",
	}
	for _, in := range cases {
		if _, err := ParseAddress(in); err == nil {
			t.Fatalf("ParseAddress(%q): expected error", in)
		}
	}
}

func TestParseSaltPadsShortInput(t *testing.T) {
	got, err := ParseSalt("0x01")
	if err != nil {
		t.Fatalf("ParseSalt: %v", err)
	}
	var want Salt
	want[SaltSize-1] = 0x01
	if got != want {
		t.Fatalf("expected left-padded salt, got %s", got)
	}

	full := testSalt(0xcd)
	round, err := ParseSalt(full.String())
	if err != nil {
		t.Fatalf("ParseSalt: %v", err)
	}
	if round != full {
		t.Fatalf("round trip mismatch: %s vs %s", round, full)
	}
}

func TestParseSaltRejectsOversized(t *testing.T) {
	if _, err := ParseSalt("0x" + strings.Repeat("ff", SaltSize+1)); err == nil {
		t.Fatalf("expected error for oversized salt")
	}
}

func TestBytesToAddressAlignment(t *testing.T) {
	short := BytesToAddress([]byte{0x01, 0x02})
	if short[AddressSize-1] != 0x02 || short[AddressSize-2] != 0x01 {
		t.Fatalf("short input not right-aligned: %s", short)
	}
	if short[0] != 0 {
		t.Fatalf("short input not zero-padded: %s", short)
	}

	long := make([]byte, AddressSize+4)
	for i := range long {
		long[i] = byte(i)
	}
	got := BytesToAddress(long)
	if got != BytesToAddress(long[4:]) {
		t.Fatalf("long input should keep trailing bytes")
	}
}

func TestZeroAddress(t *testing.T) {
	if !Zero.IsZero() {
		t.Fatalf("Zero.IsZero() = false")
	}
	if testAddress(0x01).IsZero() {
		t.Fatalf("non-zero address reported zero")
	}
}
