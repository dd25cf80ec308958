package sm

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/sliceops"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func TestAesCMAC(t *testing.T) {
	// RFC 4493, example 2, reversed into wire order
	k := sliceops.SwapBuf(mustHex(t, "2b7e151628aed2a6abf7158809cf4f3c"))
	m := sliceops.SwapBuf(mustHex(t, "6bc1bee22e409f96e93d7e117393172a"))
	exp := sliceops.SwapBuf(mustHex(t, "070a16b46b4d4144f79bdd9dd04a287c"))

	v, err := aesCMAC(k, m)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(v, exp) {
		t.Fatalf("cmac mismatch: exp %x, got %x", exp, v)
	}
}

func TestH6(t *testing.T) {
	w := []byte{0x9b, 0x7d, 0x39, 0x0a, 0xa6, 0x10, 0x10, 0x34, 0x05, 0xad, 0xc8, 0x57, 0xa3, 0x34, 0x02, 0xec}
	keyID := []byte{0x72, 0x62, 0x65, 0x6c}
	exp := []byte{0x99, 0x63, 0xb1, 0x80, 0xe2, 0xa9, 0xd3, 0xe8, 0x1c, 0xc9, 0x6d, 0xe7, 0x02, 0xe1, 0x9a, 0x2d}

	v, err := h6(w, keyID)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(v, exp) {
		t.Fatalf("h6 mismatch: exp %x, got %x", exp, v)
	}
}

func TestH7(t *testing.T) {
	salt := []byte{0x31, 0x70, 0x6d, 0x74, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	w := []byte{0x9b, 0x7d, 0x39, 0x0a, 0xa6, 0x10, 0x10, 0x34, 0x05, 0xad, 0xc8, 0x57, 0xa3, 0x34, 0x02, 0xec}
	exp := []byte{0x11, 0x70, 0xa5, 0x75, 0x2a, 0x8c, 0x99, 0xd2, 0xec, 0xc0, 0xa3, 0xc6, 0x97, 0x35, 0x17, 0xfb}

	v, err := h7(salt, w)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(v, exp) {
		t.Fatalf("h7 mismatch: exp %x, got %x", exp, v)
	}
}

func TestDeriveLELTK(t *testing.T) {
	var value [16]byte
	copy(value[:], []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})

	_, err := DeriveLELTK(NewLinkKey(value, hci.LinkKeyAuthenticatedCombinationP192), false)
	if err == nil {
		t.Fatal("expected error deriving from a legacy key")
	}

	lk := NewLinkKey(value, hci.LinkKeyAuthenticatedCombinationP256)
	a, err := DeriveLELTK(lk, false)
	if err != nil {
		t.Fatal(err)
	}
	b, err := DeriveLELTK(lk, true)
	if err != nil {
		t.Fatal(err)
	}
	if a.Value == b.Value {
		t.Fatal("h6 and h7 intermediate keys should differ")
	}
	if a.Security != lk.Security {
		t.Fatalf("ltk should inherit link key security, got %v", a.Security)
	}
}

func TestPropertiesFromLinkKeyType(t *testing.T) {
	tests := []struct {
		kt    hci.LinkKeyType
		level SecurityLevel
		sc    bool
	}{
		{hci.LinkKeyCombination, Encrypted, false},
		{hci.LinkKeyDebugCombination, NoSecurity, false},
		{hci.LinkKeyChangedCombination, NoSecurity, false},
		{hci.LinkKeyUnauthenticatedCombinationP192, Encrypted, false},
		{hci.LinkKeyAuthenticatedCombinationP192, Authenticated, false},
		{hci.LinkKeyUnauthenticatedCombinationP256, Encrypted, true},
		{hci.LinkKeyAuthenticatedCombinationP256, SecureAuthenticated, true},
	}

	for _, tt := range tests {
		p := PropertiesFromLinkKeyType(tt.kt, 16)
		if p.Level != tt.level || p.SecureConnections != tt.sc {
			t.Errorf("key type %d: got %v", tt.kt, p)
		}
	}
}

func TestSatisfies(t *testing.T) {
	unauth := PropertiesFromLinkKeyType(hci.LinkKeyUnauthenticatedCombinationP256, 16)
	auth := PropertiesFromLinkKeyType(hci.LinkKeyAuthenticatedCombinationP192, 16)

	if !unauth.Satisfies(BrEdrSecurityRequirements{SecureConnections: true}) {
		t.Error("p256 key should satisfy secure connections")
	}
	if unauth.Satisfies(BrEdrSecurityRequirements{Authentication: true}) {
		t.Error("unauthenticated key should not satisfy authentication")
	}
	if auth.Satisfies(BrEdrSecurityRequirements{Authentication: true, SecureConnections: true}) {
		t.Error("p192 key should not satisfy secure connections")
	}
	if auth.IsAsSecureAs(unauth) {
		t.Error("p192 key should not be as secure as a secure connections key")
	}
}

func TestPairingMethodFor(t *testing.T) {
	tests := []struct {
		local, peer IOCapability
		exp         PairingMethod
	}{
		{IOCapabilityNoInputNoOutput, IOCapabilityDisplayYesNo, JustWorks},
		{IOCapabilityDisplayYesNo, IOCapabilityDisplayYesNo, NumericComparison},
		{IOCapabilityDisplayYesNo, IOCapabilityKeyboardOnly, PasskeyEntryDisplay},
		{IOCapabilityKeyboardOnly, IOCapabilityDisplayOnly, PasskeyEntryInput},
		{IOCapabilityDisplayOnly, IOCapabilityDisplayYesNo, JustWorks},
	}

	for _, tt := range tests {
		if m := PairingMethodFor(tt.local, tt.peer); m != tt.exp {
			t.Errorf("%d/%d: exp %d, got %d", tt.local, tt.peer, tt.exp, m)
		}
	}
}
