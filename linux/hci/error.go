package hci

import (
	"errors"
	"fmt"
)

// ErrCommand is a status code returned by the controller [Vol 2, Part D, 1.3].
type ErrCommand uint8

func (e ErrCommand) Error() string {
	if err, ok := errCmd[e]; ok {
		return err.Error()
	}
	return fmt.Sprintf("hci status 0x%02X", uint8(e))
}

// StatusCode returns the raw status.
func (e ErrCommand) StatusCode() uint8 { return uint8(e) }

// HCI Command Errors [Vol 2, Part D, 2].
const (
	ErrSuccess                  ErrCommand = 0x00
	ErrUnknownCommand           ErrCommand = 0x01
	ErrConnID                   ErrCommand = 0x02
	ErrHardware                 ErrCommand = 0x03
	ErrPageTimeout              ErrCommand = 0x04
	ErrAuthFailure              ErrCommand = 0x05
	ErrKeyMissing               ErrCommand = 0x06
	ErrMemoryFull               ErrCommand = 0x07
	ErrConnTimeout              ErrCommand = 0x08
	ErrMaxConnections           ErrCommand = 0x09
	ErrConnExists               ErrCommand = 0x0B
	ErrDisallowed               ErrCommand = 0x0C
	ErrRejLimitedResources      ErrCommand = 0x0D
	ErrRejSecurity              ErrCommand = 0x0E
	ErrRejBadAddr               ErrCommand = 0x0F
	ErrAcceptTimeout            ErrCommand = 0x10
	ErrUnsupported              ErrCommand = 0x11
	ErrInvalidParams            ErrCommand = 0x12
	ErrRemoteUser               ErrCommand = 0x13
	ErrRemoteLowResources       ErrCommand = 0x14
	ErrRemotePowerOff           ErrCommand = 0x15
	ErrLocalHost                ErrCommand = 0x16
	ErrRepeatedAttempts         ErrCommand = 0x17
	ErrPairingNotAllowed        ErrCommand = 0x18
	ErrUnsupportedRemoteFeature ErrCommand = 0x1A
	ErrUnspecified              ErrCommand = 0x1F
	ErrInstantPassed            ErrCommand = 0x28
	ErrPairingWithUnitKey       ErrCommand = 0x29
	ErrInsufficientSecurity     ErrCommand = 0x2F
	ErrHostBusyPairing          ErrCommand = 0x38
	ErrConnFailedToEstablish    ErrCommand = 0x3E
)

var errCmd = map[ErrCommand]error{
	0x00: errors.New("success"),
	0x01: errors.New("unknown HCI Command"),
	0x02: errors.New("unknown connection identifier"),
	0x03: errors.New("hardware failure"),
	0x04: errors.New("page timeout"),
	0x05: errors.New("authentication failure"),
	0x06: errors.New("PIN or key missing"),
	0x07: errors.New("memory capacity exceeded"),
	0x08: errors.New("connection timeout"),
	0x09: errors.New("connection limit exceeded"),
	0x0A: errors.New("synchronous connection limit to a device exceeded"),
	0x0B: errors.New("connection already exists"),
	0x0C: errors.New("command disallowed"),
	0x0D: errors.New("connection rejected due to limited resources"),
	0x0E: errors.New("connection rejected due to security reasons"),
	0x0F: errors.New("connection rejected due to unacceptable BD_ADDR"),
	0x10: errors.New("connection accept timeout exceeded"),
	0x11: errors.New("unsupported feature or parameter value"),
	0x12: errors.New("invalid HCI command parameters"),
	0x13: errors.New("remote user terminated connection"),
	0x14: errors.New("remote device terminated connection due to low resources"),
	0x15: errors.New("remote device terminated connection due to power off"),
	0x16: errors.New("connection terminated by local host"),
	0x17: errors.New("repeated attempts"),
	0x18: errors.New("pairing not allowed"),
	0x19: errors.New("unknown LMP PDU"),
	0x1A: errors.New("unsupported remote feature"),
	0x1F: errors.New("unspecified error"),
	0x22: errors.New("LMP response timeout"),
	0x23: errors.New("LMP error transaction collision"),
	0x24: errors.New("LMP PDU not allowed"),
	0x25: errors.New("encryption mode not acceptable"),
	0x26: errors.New("link key cannot be changed"),
	0x28: errors.New("instant passed"),
	0x29: errors.New("pairing with unit key not supported"),
	0x2F: errors.New("insufficient security"),
	0x38: errors.New("host busy - pairing"),
	0x3E: errors.New("connection failed to be established"),
}
