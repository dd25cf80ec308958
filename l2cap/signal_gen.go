package l2cap

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// Signal is a signaling command body. Marshal excludes the command header.
type Signal interface {
	Code() int
	Marshal() []byte
}

// SignalCommandReject is the code of Command Reject signaling packet.
const SignalCommandReject = 0x01

// CommandReject implements Command Reject (0x01) [Vol 3, Part A, 4.1].
type CommandReject struct {
	Reason uint16
	Data   []byte
}

// Code returns the event code of the command.
func (s CommandReject) Code() int { return 0x01 }

// Marshal serializes the command parameters into binary form.
func (s *CommandReject) Marshal() []byte {
	b := make([]byte, 2+len(s.Data))
	binary.LittleEndian.PutUint16(b, s.Reason)
	copy(b[2:], s.Data)
	return b
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *CommandReject) Unmarshal(b []byte) error {
	if len(b) < 2 {
		return errShortSignal
	}
	s.Reason = binary.LittleEndian.Uint16(b)
	s.Data = append([]byte(nil), b[2:]...)
	return nil
}

// SignalConnectionRequest is the code of Connection Request signaling packet.
const SignalConnectionRequest = 0x02

// ConnectionRequest implements Connection Request (0x02) [Vol 3, Part A, 4.2].
type ConnectionRequest struct {
	PSM       uint16
	SourceCID uint16
}

// Code returns the event code of the command.
func (s ConnectionRequest) Code() int { return 0x02 }

// Marshal serializes the command parameters into binary form.
func (s *ConnectionRequest) Marshal() []byte {
	return marshalFixed(s)
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *ConnectionRequest) Unmarshal(b []byte) error {
	return unmarshalFixed(b, s)
}

// SignalConnectionResponse is the code of Connection Response signaling packet.
const SignalConnectionResponse = 0x03

// ConnectionResponse implements Connection Response (0x03) [Vol 3, Part A, 4.3].
type ConnectionResponse struct {
	DestinationCID uint16
	SourceCID      uint16
	Result         uint16
	Status         uint16
}

// Code returns the event code of the command.
func (s ConnectionResponse) Code() int { return 0x03 }

// Marshal serializes the command parameters into binary form.
func (s *ConnectionResponse) Marshal() []byte {
	return marshalFixed(s)
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *ConnectionResponse) Unmarshal(b []byte) error {
	return unmarshalFixed(b, s)
}

// SignalConfigurationRequest is the code of Configuration Request signaling packet.
const SignalConfigurationRequest = 0x04

// ConfigurationRequest implements Configuration Request (0x04) [Vol 3, Part A, 4.4].
type ConfigurationRequest struct {
	DestinationCID uint16
	Flags          uint16
	Options        []byte
}

// Code returns the event code of the command.
func (s ConfigurationRequest) Code() int { return 0x04 }

// Marshal serializes the command parameters into binary form.
func (s *ConfigurationRequest) Marshal() []byte {
	b := make([]byte, 4+len(s.Options))
	binary.LittleEndian.PutUint16(b[0:], s.DestinationCID)
	binary.LittleEndian.PutUint16(b[2:], s.Flags)
	copy(b[4:], s.Options)
	return b
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *ConfigurationRequest) Unmarshal(b []byte) error {
	if len(b) < 4 {
		return errShortSignal
	}
	s.DestinationCID = binary.LittleEndian.Uint16(b[0:])
	s.Flags = binary.LittleEndian.Uint16(b[2:])
	s.Options = append([]byte(nil), b[4:]...)
	return nil
}

// SignalConfigurationResponse is the code of Configuration Response signaling packet.
const SignalConfigurationResponse = 0x05

// ConfigurationResponse implements Configuration Response (0x05) [Vol 3, Part A, 4.5].
type ConfigurationResponse struct {
	SourceCID uint16
	Flags     uint16
	Result    uint16
	Options   []byte
}

// Code returns the event code of the command.
func (s ConfigurationResponse) Code() int { return 0x05 }

// Marshal serializes the command parameters into binary form.
func (s *ConfigurationResponse) Marshal() []byte {
	b := make([]byte, 6+len(s.Options))
	binary.LittleEndian.PutUint16(b[0:], s.SourceCID)
	binary.LittleEndian.PutUint16(b[2:], s.Flags)
	binary.LittleEndian.PutUint16(b[4:], s.Result)
	copy(b[6:], s.Options)
	return b
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *ConfigurationResponse) Unmarshal(b []byte) error {
	if len(b) < 6 {
		return errShortSignal
	}
	s.SourceCID = binary.LittleEndian.Uint16(b[0:])
	s.Flags = binary.LittleEndian.Uint16(b[2:])
	s.Result = binary.LittleEndian.Uint16(b[4:])
	s.Options = append([]byte(nil), b[6:]...)
	return nil
}

// SignalDisconnectRequest is the code of Disconnect Request signaling packet.
const SignalDisconnectRequest = 0x06

// DisconnectRequest implements Disconnect Request (0x06) [Vol 3, Part A, 4.6].
type DisconnectRequest struct {
	DestinationCID uint16
	SourceCID      uint16
}

// Code returns the event code of the command.
func (s DisconnectRequest) Code() int { return 0x06 }

// Marshal serializes the command parameters into binary form.
func (s *DisconnectRequest) Marshal() []byte {
	return marshalFixed(s)
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *DisconnectRequest) Unmarshal(b []byte) error {
	return unmarshalFixed(b, s)
}

// SignalDisconnectResponse is the code of Disconnect Response signaling packet.
const SignalDisconnectResponse = 0x07

// DisconnectResponse implements Disconnect Response (0x07) [Vol 3, Part A, 4.7].
type DisconnectResponse struct {
	DestinationCID uint16
	SourceCID      uint16
}

// Code returns the event code of the command.
func (s DisconnectResponse) Code() int { return 0x07 }

// Marshal serializes the command parameters into binary form.
func (s *DisconnectResponse) Marshal() []byte {
	return marshalFixed(s)
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *DisconnectResponse) Unmarshal(b []byte) error {
	return unmarshalFixed(b, s)
}

// SignalEchoRequest is the code of Echo Request signaling packet.
const SignalEchoRequest = 0x08

// EchoRequest implements Echo Request (0x08) [Vol 3, Part A, 4.8].
type EchoRequest struct {
	Data []byte
}

// Code returns the event code of the command.
func (s EchoRequest) Code() int { return 0x08 }

// Marshal serializes the command parameters into binary form.
func (s *EchoRequest) Marshal() []byte {
	return append([]byte(nil), s.Data...)
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *EchoRequest) Unmarshal(b []byte) error {
	s.Data = append([]byte(nil), b...)
	return nil
}

// SignalEchoResponse is the code of Echo Response signaling packet.
const SignalEchoResponse = 0x09

// EchoResponse implements Echo Response (0x09) [Vol 3, Part A, 4.9].
type EchoResponse struct {
	Data []byte
}

// Code returns the event code of the command.
func (s EchoResponse) Code() int { return 0x09 }

// Marshal serializes the command parameters into binary form.
func (s *EchoResponse) Marshal() []byte {
	return append([]byte(nil), s.Data...)
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *EchoResponse) Unmarshal(b []byte) error {
	s.Data = append([]byte(nil), b...)
	return nil
}

// SignalInformationRequest is the code of Information Request signaling packet.
const SignalInformationRequest = 0x0A

// InformationRequest implements Information Request (0x0A) [Vol 3, Part A, 4.10].
type InformationRequest struct {
	InfoType uint16
}

// Code returns the event code of the command.
func (s InformationRequest) Code() int { return 0x0A }

// Marshal serializes the command parameters into binary form.
func (s *InformationRequest) Marshal() []byte {
	return marshalFixed(s)
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *InformationRequest) Unmarshal(b []byte) error {
	return unmarshalFixed(b, s)
}

// SignalInformationResponse is the code of Information Response signaling packet.
const SignalInformationResponse = 0x0B

// InformationResponse implements Information Response (0x0B) [Vol 3, Part A, 4.11].
type InformationResponse struct {
	InfoType uint16
	Result   uint16
	Data     []byte
}

// Code returns the event code of the command.
func (s InformationResponse) Code() int { return 0x0B }

// Marshal serializes the command parameters into binary form.
func (s *InformationResponse) Marshal() []byte {
	b := make([]byte, 4+len(s.Data))
	binary.LittleEndian.PutUint16(b[0:], s.InfoType)
	binary.LittleEndian.PutUint16(b[2:], s.Result)
	copy(b[4:], s.Data)
	return b
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *InformationResponse) Unmarshal(b []byte) error {
	if len(b) < 4 {
		return errShortSignal
	}
	s.InfoType = binary.LittleEndian.Uint16(b[0:])
	s.Result = binary.LittleEndian.Uint16(b[2:])
	s.Data = append([]byte(nil), b[4:]...)
	return nil
}

// SignalConnectionParameterUpdateRequest is the code of Connection Parameter Update Request signaling packet.
const SignalConnectionParameterUpdateRequest = 0x12

// ConnectionParameterUpdateRequest implements Connection Parameter Update Request (0x12) [Vol 3, Part A, 4.20].
type ConnectionParameterUpdateRequest struct {
	IntervalMin       uint16
	IntervalMax       uint16
	SlaveLatency      uint16
	TimeoutMultiplier uint16
}

// Code returns the event code of the command.
func (s ConnectionParameterUpdateRequest) Code() int { return 0x12 }

// Marshal serializes the command parameters into binary form.
func (s *ConnectionParameterUpdateRequest) Marshal() []byte {
	return marshalFixed(s)
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *ConnectionParameterUpdateRequest) Unmarshal(b []byte) error {
	return unmarshalFixed(b, s)
}

// SignalConnectionParameterUpdateResponse is the code of Connection Parameter Update Response signaling packet.
const SignalConnectionParameterUpdateResponse = 0x13

// ConnectionParameterUpdateResponse implements Connection Parameter Update Response (0x13) [Vol 3, Part A, 4.21].
type ConnectionParameterUpdateResponse struct {
	Result uint16
}

// Code returns the event code of the command.
func (s ConnectionParameterUpdateResponse) Code() int { return 0x13 }

// Marshal serializes the command parameters into binary form.
func (s *ConnectionParameterUpdateResponse) Marshal() []byte {
	return marshalFixed(s)
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *ConnectionParameterUpdateResponse) Unmarshal(b []byte) error {
	return unmarshalFixed(b, s)
}

// SignalLECreditBasedConnectionRequest is the code of LE Credit Based Connection Request signaling packet.
const SignalLECreditBasedConnectionRequest = 0x14

// LECreditBasedConnectionRequest implements LE Credit Based Connection Request (0x14) [Vol 3, Part A, 4.22].
type LECreditBasedConnectionRequest struct {
	LEPSM          uint16
	SourceCID      uint16
	MTU            uint16
	MPS            uint16
	InitialCredits uint16
}

// Code returns the event code of the command.
func (s LECreditBasedConnectionRequest) Code() int { return 0x14 }

// Marshal serializes the command parameters into binary form.
func (s *LECreditBasedConnectionRequest) Marshal() []byte {
	return marshalFixed(s)
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *LECreditBasedConnectionRequest) Unmarshal(b []byte) error {
	return unmarshalFixed(b, s)
}

// SignalLECreditBasedConnectionResponse is the code of LE Credit Based Connection Response signaling packet.
const SignalLECreditBasedConnectionResponse = 0x15

// LECreditBasedConnectionResponse implements LE Credit Based Connection Response (0x15) [Vol 3, Part A, 4.23].
type LECreditBasedConnectionResponse struct {
	DestinationCID uint16
	MTU            uint16
	MPS            uint16
	InitialCredits uint16
	Result         uint16
}

// Code returns the event code of the command.
func (s LECreditBasedConnectionResponse) Code() int { return 0x15 }

// Marshal serializes the command parameters into binary form.
func (s *LECreditBasedConnectionResponse) Marshal() []byte {
	return marshalFixed(s)
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *LECreditBasedConnectionResponse) Unmarshal(b []byte) error {
	return unmarshalFixed(b, s)
}

// SignalLEFlowControlCredit is the code of LE Flow Control Credit signaling packet.
const SignalLEFlowControlCredit = 0x16

// LEFlowControlCredit implements LE Flow Control Credit (0x16) [Vol 3, Part A, 4.24].
type LEFlowControlCredit struct {
	CID     uint16
	Credits uint16
}

// Code returns the event code of the command.
func (s LEFlowControlCredit) Code() int { return 0x16 }

// Marshal serializes the command parameters into binary form.
func (s *LEFlowControlCredit) Marshal() []byte {
	return marshalFixed(s)
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *LEFlowControlCredit) Unmarshal(b []byte) error {
	return unmarshalFixed(b, s)
}

var errShortSignal = errors.New("signaling command too short")

func marshalFixed(s interface{}) []byte {
	buf := bytes.NewBuffer(make([]byte, 0))
	binary.Write(buf, binary.LittleEndian, s)
	return buf.Bytes()
}

func unmarshalFixed(b []byte, s interface{}) error {
	if len(b) < binary.Size(s) {
		return errShortSignal
	}
	return binary.Read(bytes.NewBuffer(b), binary.LittleEndian, s)
}
