package controller

import (
	"io"
	"time"

	"github.com/pkg/errors"
)

// An Option configures a controller.
type Option func(*HCI) error

// OptTransportHCISocket uses the Linux HCI user channel of device id; -1
// picks the first device that can be bound.
func OptTransportHCISocket(id int) Option {
	return func(h *HCI) error {
		h.transport = transport{hci: &transportHci{id: id}}
		return nil
	}
}

// OptTransportH4Uart uses H4 framing on a serial port.
func OptTransportH4Uart(path string, baud uint) Option {
	return func(h *HCI) error {
		if path == "" {
			return errors.New("empty serial port path")
		}
		h.transport = transport{h4uart: &transportH4Uart{path: path, baud: baud}}
		return nil
	}
}

// OptTransportH4Socket uses H4 framing over a TCP connection to addr.
func OptTransportH4Socket(addr string, timeout time.Duration) Option {
	return func(h *HCI) error {
		h.transport = transport{h4socket: &transportH4Socket{addr: addr, timeout: timeout}}
		return nil
	}
}

// OptTransport uses an already open transport that reads and writes whole
// H4 packets.
func OptTransport(rwc io.ReadWriteCloser) Option {
	return func(h *HCI) error {
		h.skt = rwc
		return nil
	}
}

// OptErrorHandler receives fatal transport and controller errors.
func OptErrorHandler(fn func(error)) Option {
	return func(h *HCI) error {
		h.errorHandler = fn
		return nil
	}
}

// OptCommandTimeout bounds the wait for each command's status or completion.
func OptCommandTimeout(d time.Duration) Option {
	return func(h *HCI) error {
		if d <= 0 {
			return errors.Errorf("invalid command timeout %v", d)
		}
		h.commandTimeout = d
		return nil
	}
}

// OptAclPriorityCommand enables ACL priority requests through the vendor
// command with the given OCF.
func OptAclPriorityCommand(ocf uint16) Option {
	return func(h *HCI) error {
		h.priorityOCF = ocf
		return nil
	}
}
