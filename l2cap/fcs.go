package l2cap

// FrameCheckSequence is the CRC-16 of an I-frame or S-frame [Vol 3, Part A, 3.3.5].
type FrameCheckSequence uint16

// ComputeFCS extends initial over b. It can be applied to consecutive
// ranges: ComputeFCS(b, ComputeFCS(a, 0)) == ComputeFCS(a+b, 0).
//
// The generator polynomial is x^16 + x^15 + x^2 + 1, run bit-reversed as a
// shift register clocked once per bit with the least significant bit first.
func ComputeFCS(b []byte, initial FrameCheckSequence) FrameCheckSequence {
	fcs := uint16(initial)
	for _, v := range b {
		fcs ^= uint16(v)
		for i := 0; i < 8; i++ {
			if fcs&0x0001 != 0 {
				fcs = (fcs >> 1) ^ 0xA001
			} else {
				fcs >>= 1
			}
		}
	}
	return FrameCheckSequence(fcs)
}
