package bthost

import (
	"github.com/pkg/errors"
)

// HostError is a failure produced by the host stack itself rather than by
// the controller or the remote device.
type HostError string

func (e HostError) Error() string { return string(e) }

const (
	ErrFailed               HostError = "failed"
	ErrTimedOut             HostError = "timed out"
	ErrCanceled             HostError = "canceled"
	ErrNotSupported         HostError = "not supported"
	ErrNotFound             HostError = "not found"
	ErrNotReady             HostError = "not ready"
	ErrInProgress           HostError = "in progress"
	ErrInvalidParameters    HostError = "invalid parameters"
	ErrPacketMalformed      HostError = "packet malformed"
	ErrInsufficientSecurity HostError = "insufficient security"
	ErrLinkDisconnected     HostError = "link disconnected"
)

// IsHostError reports whether the root cause of err is target.
func IsHostError(err error, target HostError) bool {
	if err == nil {
		return false
	}
	he, ok := errors.Cause(err).(HostError)
	return ok && he == target
}

// ProtocolError carries a status code reported by the controller or peer.
type ProtocolError interface {
	error
	StatusCode() uint8
}

// StatusCode extracts the protocol status code from err, if any.
func StatusCode(err error) (uint8, bool) {
	if err == nil {
		return 0, false
	}
	pe, ok := errors.Cause(err).(ProtocolError)
	if !ok {
		return 0, false
	}
	return pe.StatusCode(), true
}
