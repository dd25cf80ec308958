package sm

import (
	"github.com/rigado/bthost"
)

// IOCapability as exchanged during Secure Simple Pairing [Vol 3, Part C, 5.2.2.4].
type IOCapability uint8

const (
	IOCapabilityDisplayOnly     IOCapability = 0x00
	IOCapabilityDisplayYesNo    IOCapability = 0x01
	IOCapabilityKeyboardOnly    IOCapability = 0x02
	IOCapabilityNoInputNoOutput IOCapability = 0x03
)

// Authentication requirements of IO Capability Request Reply [Vol 4, Part E, 7.1.29].
const (
	AuthReqMITMNotRequiredNoBonding      = 0x00
	AuthReqMITMRequiredNoBonding         = 0x01
	AuthReqMITMNotRequiredDedicated      = 0x02
	AuthReqMITMRequiredDedicated         = 0x03
	AuthReqMITMNotRequiredGeneralBonding = 0x04
	AuthReqMITMRequiredGeneralBonding    = 0x05
)

// PairingMethod is the association model selected from both IO capabilities.
type PairingMethod int

const (
	JustWorks PairingMethod = iota
	NumericComparison
	PasskeyEntryDisplay
	PasskeyEntryInput
)

// DisplayMethod tells the delegate how to present a passkey.
type DisplayMethod int

const (
	DisplayComparison DisplayMethod = iota
	DisplayPeerEntry
)

// PairingMethodFor picks the association model for the local side
// [Vol 3, Part C, 5.2.2.6].
func PairingMethodFor(local, peer IOCapability) PairingMethod {
	if local == IOCapabilityNoInputNoOutput || peer == IOCapabilityNoInputNoOutput {
		return JustWorks
	}
	switch local {
	case IOCapabilityKeyboardOnly:
		return PasskeyEntryInput
	case IOCapabilityDisplayOnly:
		if peer == IOCapabilityKeyboardOnly {
			return PasskeyEntryDisplay
		}
		return JustWorks
	default:
		if peer == IOCapabilityKeyboardOnly {
			return PasskeyEntryDisplay
		}
		return NumericComparison
	}
}

// AuthenticationRequirements returns the value sent in IO Capability Request
// Reply; MITM protection is requested whenever both sides can provide it.
func AuthenticationRequirements(local, peer IOCapability) uint8 {
	if PairingMethodFor(local, peer) == JustWorks {
		return AuthReqMITMNotRequiredGeneralBonding
	}
	return AuthReqMITMRequiredGeneralBonding
}

// PairingDelegate is the user-facing half of pairing. Every callback may be
// answered later; answers are expected on the dispatcher.
type PairingDelegate interface {
	IOCapability() IOCapability

	// CompletePairing reports the final result for id; err is nil on success.
	CompletePairing(id bthost.PeerID, err error)

	// ConfirmPairing asks for consent to pair without showing a value.
	ConfirmPairing(id bthost.PeerID, confirm func(bool))

	// DisplayPasskey shows passkey. For DisplayComparison the user must
	// confirm the values match; for DisplayPeerEntry confirm only
	// acknowledges display.
	DisplayPasskey(id bthost.PeerID, passkey uint32, method DisplayMethod, confirm func(bool))

	// RequestPasskey asks the user to type the passkey shown by the peer. A
	// negative value rejects pairing.
	RequestPasskey(id bthost.PeerID, respond func(passkey int64))
}
