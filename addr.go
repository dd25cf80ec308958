package bthost

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Addr is a BD_ADDR stored in wire (little-endian) order.
type Addr [6]byte

// AddrAny is the zero address.
var AddrAny = Addr{}

// ParseAddr parses the colon separated, most significant octet first form.
func ParseAddr(s string) (Addr, error) {
	var a Addr
	hexStr := strings.Replace(s, ":", "", -1)
	if len(hexStr) != 12 {
		return a, errors.Errorf("invalid address %q", s)
	}

	b, err := hex.DecodeString(hexStr)
	if err != nil {
		return a, errors.Wrapf(err, "invalid address %q", s)
	}

	for i := range a {
		a[i] = b[5-i]
	}
	return a, nil
}

// MustParseAddr is ParseAddr that panics on error.
func MustParseAddr(s string) Addr {
	a, err := ParseAddr(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Addr) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[5], a[4], a[3], a[2], a[1], a[0])
}

// Bytes returns the address in wire order.
func (a Addr) Bytes() []byte {
	out := make([]byte, 6)
	copy(out, a[:])
	return out
}

// Key returns a stable map/file key, most significant octet first, without separators.
func (a Addr) Key() string {
	return strings.ToLower(strings.Replace(a.String(), ":", "", -1))
}
