package cmd

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Command is a HCI command that can be serialized into a command packet.
type Command interface {
	OpCode() int
	Len() int
	Marshal([]byte) error
}

// CommandRP is the return parameter of a command completed with Command Complete.
type CommandRP interface {
	Unmarshal(b []byte) error
}

func marshal(c Command, b []byte) error {
	buf := bytes.NewBuffer(b)
	buf.Reset()
	if buf.Cap() < c.Len() {
		return io.ErrShortBuffer
	}
	return binary.Write(buf, binary.LittleEndian, c)
}

func unmarshal(c CommandRP, b []byte) error {
	buf := bytes.NewBuffer(b)
	return binary.Read(buf, binary.LittleEndian, c)
}

// Bytes serializes c into a freshly allocated buffer.
func Bytes(c Command) ([]byte, error) {
	b := make([]byte, c.Len())
	if err := c.Marshal(b); err != nil {
		return nil, err
	}
	return b, nil
}

// Async reports whether the controller answers opcode with Command Status and
// delivers the outcome in a later event.
func Async(opcode int) bool {
	_, ok := asyncOpcodes[opcode]
	return ok
}

var asyncOpcodes = map[int]struct{}{
	CreateConnectionOp:             {},
	DisconnectOp:                   {},
	AcceptConnectionRequestOp:      {},
	RejectConnectionRequestOp:      {},
	AuthenticationRequestedOp:      {},
	SetConnectionEncryptionOp:      {},
	RemoteNameRequestOp:            {},
	ReadRemoteSupportedFeaturesOp:  {},
	ReadRemoteExtendedFeaturesOp:   {},
	ReadRemoteVersionInformationOp: {},
	LEConnectionUpdateOp:           {},
}
