package hci

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

const (
	ogfVendorSpecificDebug = 0x3F
	ogfBitShift            = 10
)

// VendorOpcode builds an opcode in the vendor specific command group.
func VendorOpcode(ocf uint16) int {
	return int((ogfVendorSpecificDebug << ogfBitShift) | (ocf & 0x3FF))
}

// CustomCommand carries a vendor specific payload.
type CustomCommand struct {
	Payload interface{}
	opCode  int
	length  int
}

// NewCustomCommand builds a command with the given opcode. The payload must
// be encodable with encoding/binary.
func NewCustomCommand(opCode int, payload interface{}) *CustomCommand {
	return &CustomCommand{
		Payload: payload,
		opCode:  opCode,
		length:  binary.Size(payload),
	}
}

func (c *CustomCommand) OpCode() int {
	return c.opCode
}

func (c *CustomCommand) Len() int {
	return c.length
}

func (c *CustomCommand) Marshal(b []byte) error {

	buf := bytes.NewBuffer(b)
	buf.Reset()
	if buf.Cap() < c.Len() {
		return io.ErrShortBuffer
	}

	return binary.Write(buf, binary.LittleEndian, c.Payload)
}

func (c *CustomCommand) String() string {
	ogf := (c.opCode & 0xFC00) >> 10
	ocf := c.opCode & 0x3FF

	return fmt.Sprintf("Custom Command (0x%02x|0x%04x); Payload (%02x)", ogf, ocf, c.Payload)
}

// AclPriorityParams is the payload of the vendor ACL priority command used by
// controllers that accept a handle, a priority and a direction.
type AclPriorityParams struct {
	ConnectionHandle uint16
	Priority         uint8
	Direction        uint8
}

// NewAclPriorityParams maps an AclPriority to the vendor payload.
func NewAclPriorityParams(handle uint16, pri AclPriority) AclPriorityParams {
	p := AclPriorityParams{ConnectionHandle: handle}
	switch pri {
	case AclPrioritySource:
		p.Priority, p.Direction = 1, 0
	case AclPrioritySink:
		p.Priority, p.Direction = 1, 1
	}
	return p
}
