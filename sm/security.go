// Package sm holds the security types shared by L2CAP and the connection
// managers: security levels, link keys and the pairing delegate contract.
package sm

import (
	"fmt"

	"github.com/rigado/bthost/linux/hci"
)

// SecurityLevel orders the protection a link provides.
type SecurityLevel uint8

const (
	NoSecurity SecurityLevel = iota
	Encrypted
	Authenticated
	SecureAuthenticated
)

func (l SecurityLevel) String() string {
	switch l {
	case NoSecurity:
		return "no security"
	case Encrypted:
		return "encrypted"
	case Authenticated:
		return "authenticated"
	case SecureAuthenticated:
		return "secure authenticated"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

// MaxEncryptionKeySize is the largest key size in octets.
const MaxEncryptionKeySize = 16

// SecurityProperties describe the key protecting a link.
type SecurityProperties struct {
	Level             SecurityLevel
	EncKeySize        int
	SecureConnections bool
}

func (p SecurityProperties) String() string {
	return fmt.Sprintf("%s (key size %d, secure connections %v)", p.Level, p.EncKeySize, p.SecureConnections)
}

// Authenticated reports whether the key was generated with MITM protection.
func (p SecurityProperties) Authenticated() bool {
	return p.Level >= Authenticated
}

// IsAsSecureAs reports whether p provides at least the protection of other.
func (p SecurityProperties) IsAsSecureAs(other SecurityProperties) bool {
	if p.Level < other.Level {
		return false
	}
	if other.SecureConnections && !p.SecureConnections {
		return false
	}
	return p.EncKeySize >= other.EncKeySize
}

// PropertiesFromLinkKeyType maps a BR/EDR key type to the protection it offers.
func PropertiesFromLinkKeyType(t hci.LinkKeyType, keySize int) SecurityProperties {
	p := SecurityProperties{EncKeySize: keySize}
	switch t {
	case hci.LinkKeyCombination, hci.LinkKeyUnauthenticatedCombinationP192:
		p.Level = Encrypted
	case hci.LinkKeyAuthenticatedCombinationP192:
		p.Level = Authenticated
	case hci.LinkKeyUnauthenticatedCombinationP256:
		p.Level = Encrypted
		p.SecureConnections = true
	case hci.LinkKeyAuthenticatedCombinationP256:
		p.Level = SecureAuthenticated
		p.SecureConnections = true
	default:
		// debug and changed combination keys carry no usable guarantee
		p.Level = NoSecurity
	}
	return p
}

// BrEdrSecurityRequirements are what a service or channel demands of a link.
type BrEdrSecurityRequirements struct {
	Authentication    bool
	SecureConnections bool
}

// Satisfies reports whether p meets req.
func (p SecurityProperties) Satisfies(req BrEdrSecurityRequirements) bool {
	if req.Authentication && !p.Authenticated() {
		return false
	}
	if req.SecureConnections && !p.SecureConnections {
		return false
	}
	return true
}

// RequirementsForLevel converts an L2CAP security level request.
func RequirementsForLevel(level SecurityLevel) BrEdrSecurityRequirements {
	return BrEdrSecurityRequirements{
		Authentication:    level >= Authenticated,
		SecureConnections: level >= SecureAuthenticated,
	}
}

// LinkKey is a BR/EDR link key and the protection it carries.
type LinkKey struct {
	Value    [16]byte
	Type     hci.LinkKeyType
	Security SecurityProperties
}

// NewLinkKey builds a key whose properties derive from its type.
func NewLinkKey(value [16]byte, t hci.LinkKeyType) LinkKey {
	return LinkKey{
		Value:    value,
		Type:     t,
		Security: PropertiesFromLinkKeyType(t, MaxEncryptionKeySize),
	}
}

// LTK is an LE long term key.
type LTK struct {
	Value    [16]byte
	Security SecurityProperties
}
