package sm

import (
	"crypto/aes"

	"github.com/aead/cmac"
	"github.com/pkg/errors"
	"github.com/rigado/bthost/sliceops"
)

// Key IDs and salts of the cross-transport key derivation functions, least
// significant octet first [Vol 3, Part H, 2.4.2.5].
var (
	keyIDTmp2 = []byte{0x32, 0x70, 0x6d, 0x74}
	keyIDBrle = []byte{0x65, 0x6c, 0x72, 0x62}
	saltTmp2  = []byte{0x32, 0x70, 0x6d, 0x74, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
)

// h6 link key conversion function [Vol 3, Part H, 2.2.10].
func h6(w, keyID []byte) ([]byte, error) {
	return aesCMAC(w, keyID)
}

// h7 link key conversion function [Vol 3, Part H, 2.2.11].
func h7(salt, w []byte) ([]byte, error) {
	return aesCMAC(salt, w)
}

// DeriveLELTK derives the LE long term key from a Secure Connections BR/EDR
// link key. ct2 selects h7 for the intermediate key when both sides support it.
func DeriveLELTK(lk LinkKey, ct2 bool) (LTK, error) {
	if !lk.Security.SecureConnections {
		return LTK{}, errors.Errorf("link key type 0x%02x is not a secure connections key", uint8(lk.Type))
	}

	var ilk []byte
	var err error
	if ct2 {
		ilk, err = h7(saltTmp2, lk.Value[:])
	} else {
		ilk, err = h6(lk.Value[:], keyIDTmp2)
	}
	if err != nil {
		return LTK{}, errors.Wrap(err, "ilk")
	}

	v, err := h6(ilk, keyIDBrle)
	if err != nil {
		return LTK{}, errors.Wrap(err, "ltk")
	}

	out := LTK{Security: lk.Security}
	copy(out.Value[:], v)
	return out, nil
}

// aesCMAC takes and returns values least significant octet first, as they
// appear on the wire.
func aesCMAC(key, msg []byte) ([]byte, error) {
	tmp := sliceops.SwapBuf(key)
	mCipher, err := aes.NewCipher(tmp)
	if err != nil {
		return nil, err
	}

	msgMsb := sliceops.SwapBuf(msg)

	mMac, err := cmac.New(mCipher)
	if err != nil {
		return nil, err
	}

	mMac.Write(msgMsb)

	return sliceops.SwapBuf(mMac.Sum(nil)), nil
}
