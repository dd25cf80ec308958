package hcitest

import (
	"encoding/binary"
)

// Builders for event parameters in wire layout.

func le16(v uint16) []byte {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return b
}

func cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func ConnectionComplete(status uint8, handle uint16, addr [6]byte, linkType uint8) []byte {
	return cat([]byte{status}, le16(handle), addr[:], []byte{linkType, 0x00})
}

func ConnectionRequest(addr [6]byte, linkType uint8) []byte {
	return cat(addr[:], []byte{0x04, 0x04, 0x24}, []byte{linkType})
}

func DisconnectionComplete(status uint8, handle uint16, reason uint8) []byte {
	return cat([]byte{status}, le16(handle), []byte{reason})
}

func AuthenticationComplete(status uint8, handle uint16) []byte {
	return cat([]byte{status}, le16(handle))
}

func RemoteNameRequestComplete(status uint8, addr [6]byte, name string) []byte {
	n := make([]byte, 248)
	copy(n, name)
	return cat([]byte{status}, addr[:], n)
}

func EncryptionChange(status uint8, handle uint16, enabled uint8) []byte {
	return cat([]byte{status}, le16(handle), []byte{enabled})
}

func ReadRemoteSupportedFeaturesComplete(status uint8, handle uint16, features uint64) []byte {
	f := make([]byte, 8)
	binary.LittleEndian.PutUint64(f, features)
	return cat([]byte{status}, le16(handle), f)
}

func ReadRemoteVersionInfoComplete(status uint8, handle uint16, version uint8, mfr, subver uint16) []byte {
	return cat([]byte{status}, le16(handle), []byte{version}, le16(mfr), le16(subver))
}

func ReadRemoteExtendedFeaturesComplete(status uint8, handle uint16, page, maxPage uint8, features uint64) []byte {
	f := make([]byte, 8)
	binary.LittleEndian.PutUint64(f, features)
	return cat([]byte{status}, le16(handle), []byte{page, maxPage}, f)
}

func RoleChange(status uint8, addr [6]byte, role uint8) []byte {
	return cat([]byte{status}, addr[:], []byte{role})
}

func LinkKeyRequest(addr [6]byte) []byte {
	return cat(addr[:])
}

func LinkKeyNotification(addr [6]byte, key [16]byte, keyType uint8) []byte {
	return cat(addr[:], key[:], []byte{keyType})
}

func IOCapabilityRequest(addr [6]byte) []byte {
	return cat(addr[:])
}

func IOCapabilityResponse(addr [6]byte, ioCap, oob, authReq uint8) []byte {
	return cat(addr[:], []byte{ioCap, oob, authReq})
}

func UserConfirmationRequest(addr [6]byte, value uint32) []byte {
	v := make([]byte, 4)
	binary.LittleEndian.PutUint32(v, value)
	return cat(addr[:], v)
}

func UserPasskeyRequest(addr [6]byte) []byte {
	return cat(addr[:])
}

func UserPasskeyNotification(addr [6]byte, passkey uint32) []byte {
	v := make([]byte, 4)
	binary.LittleEndian.PutUint32(v, passkey)
	return cat(addr[:], v)
}

func SimplePairingComplete(status uint8, addr [6]byte) []byte {
	return cat([]byte{status}, addr[:])
}

func SynchronousConnectionComplete(status uint8, handle uint16, addr [6]byte, linkType uint8) []byte {
	return cat([]byte{status}, le16(handle), addr[:], []byte{linkType}, make([]byte, 7))
}

func NumberOfCompletedPackets(handle uint16, n uint16) []byte {
	return cat([]byte{1}, le16(handle), le16(n))
}
