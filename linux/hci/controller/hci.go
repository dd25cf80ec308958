// Package controller drives a Bluetooth controller over an HCI transport. It
// implements hci.CommandChannel and hci.ACLDataChannel on top of a dispatcher:
// packets read from the transport are posted to the dispatcher and every
// callback runs there.
package controller

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/dispatch"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/linux/hci/cmd"
)

const (
	// DefaultCommandTimeout bounds the wait for Command Status or Command
	// Complete; a controller that misses it is considered gone.
	DefaultCommandTimeout = 10 * time.Second

	// eventMask enables the BR/EDR events the host consumes and LE Meta.
	eventMask = 0x3dbff807fffbffff

	readBufferSize = 4096
)

// HCI is a controller reached over a transport.
type HCI struct {
	d   dispatch.Dispatcher
	skt io.ReadWriteCloser
	bthost.Logger

	transport      transport
	commandTimeout time.Duration
	priorityOCF    uint16
	errorHandler   func(error)

	// Host to Controller command flow control [Vol 2, Part E, 4.4]
	credits int
	queue   []*pendingCommand
	sent    map[int][]*pendingCommand

	handlers map[uint8]hci.EventHandler

	// Host to Controller packet-based data flow control [Vol 2, Part E, 4.1.1]
	bufInfo map[hci.LinkType]hci.BufferInfo
	acl     *hci.ACLQueue
	le      *hci.ACLQueue
	links   map[uint16]hci.LinkType
	rx      func(hci.ACLPacket)

	addr bthost.Addr

	closeOnce sync.Once
	done      chan struct{}
	errMu     sync.Mutex
	err       error
}

// New returns a controller bound to d. The transport is opened by Init.
func New(d dispatch.Dispatcher, opts ...Option) (*HCI, error) {
	h := &HCI{
		d:              d,
		Logger:         bthost.GetLogger().ChildLogger(map[string]interface{}{"component": "hci"}),
		commandTimeout: DefaultCommandTimeout,
		credits:        1,
		sent:           make(map[int][]*pendingCommand),
		handlers:       make(map[uint8]hci.EventHandler),
		bufInfo:        make(map[hci.LinkType]hci.BufferInfo),
		links:          make(map[uint16]hci.LinkType),
		done:           make(chan struct{}),
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, errors.Wrap(err, "can't set options")
		}
	}
	return h, nil
}

// Init opens the transport, starts reading and runs the controller setup:
// reset, address, buffer sizes, event mask and Secure Simple Pairing.
func (h *HCI) Init(ctx context.Context) error {
	if h.skt == nil {
		skt, err := h.transport.open()
		if err != nil {
			return errors.Wrap(err, "can't open transport")
		}
		h.skt = skt
	}
	go h.readLoop()

	result := make(chan error, 1)
	h.d.Post(func() {
		h.init(func(err error) { result <- err })
	})

	select {
	case err := <-result:
		if err != nil {
			h.close(err)
			return err
		}
		h.Infof("controller %v ready, acl %+v, le %+v", h.addr, h.bufInfo[hci.LinkTypeACL], h.bufInfo[hci.LinkTypeLE])
		return nil
	case <-h.done:
		return h.Err()
	case <-ctx.Done():
		h.close(ctx.Err())
		return ctx.Err()
	}
}

type initStep struct {
	c        hci.Command
	rp       hci.CommandRP
	optional bool
	apply    func()
}

func (h *HCI) init(done func(error)) {
	var bdaddr cmd.ReadBDADDRRP
	var acl cmd.ReadBufferSizeRP
	var le cmd.LEReadBufferSizeRP

	steps := []initStep{
		{c: &cmd.Reset{}, apply: func() { h.credits = 1 }},
		{c: &cmd.ReadBDADDR{}, rp: &bdaddr, apply: func() { h.addr = bthost.Addr(bdaddr.BDADDR) }},
		{c: &cmd.ReadBufferSize{}, rp: &acl, apply: func() {
			h.bufInfo[hci.LinkTypeACL] = hci.BufferInfo{
				MaxDataLength: int(acl.HCACLDataPacketLength),
				MaxNumPackets: int(acl.HCTotalNumACLDataPackets),
			}
		}},
		// BR/EDR only controllers do not know this command
		{c: &cmd.LEReadBufferSize{}, rp: &le, optional: true, apply: func() {
			h.bufInfo[hci.LinkTypeLE] = hci.BufferInfo{
				MaxDataLength: int(le.HCLEDataPacketLength),
				MaxNumPackets: int(le.HCTotalNumLEDataPackets),
			}
		}},
		{c: &cmd.SetEventMask{EventMask: eventMask}},
		{c: &cmd.WriteSimplePairingMode{SimplePairingMode: 0x01}},
	}

	var run func(i int)
	run = func(i int) {
		if i == len(steps) {
			h.setupQueues()
			done(nil)
			return
		}
		s := steps[i]
		h.SendCommand(s.c, func(e hci.Event) {
			err := e.Err()
			if err == nil && s.rp != nil {
				err = e.Unmarshal(s.rp)
			}
			switch {
			case err != nil && s.optional:
				h.Debugf("%v: %v", s.c, err)
			case err != nil:
				done(errors.Wrapf(err, "init %v", s.c))
				return
			case s.apply != nil:
				s.apply()
			}
			run(i + 1)
		})
	}
	run(0)
}

// setupQueues gives LE links their own credits when the controller has
// dedicated LE buffers; otherwise they share the ACL buffers.
func (h *HCI) setupQueues() {
	h.acl = hci.NewACLQueue(h.bufInfo[hci.LinkTypeACL].MaxNumPackets, h.writeACL)
	if le := h.bufInfo[hci.LinkTypeLE]; le.MaxNumPackets > 0 {
		h.le = hci.NewACLQueue(le.MaxNumPackets, h.writeACL)
		return
	}
	h.bufInfo[hci.LinkTypeLE] = h.bufInfo[hci.LinkTypeACL]
	h.le = h.acl
}

// Addr returns the public address read during Init.
func (h *HCI) Addr() bthost.Addr { return h.addr }

// Close stops the read loop and closes the transport.
func (h *HCI) Close() error {
	h.close(nil)
	return nil
}

// Done is closed once the controller is closed or the transport failed.
func (h *HCI) Done() <-chan struct{} { return h.done }

// Err returns the error that closed the controller.
func (h *HCI) Err() error {
	h.errMu.Lock()
	defer h.errMu.Unlock()
	return h.err
}

func (h *HCI) isOpen() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *HCI) close(err error) {
	h.closeOnce.Do(func() {
		h.errMu.Lock()
		h.err = err
		h.errMu.Unlock()
		close(h.done)
		if h.skt != nil {
			if cerr := h.skt.Close(); cerr != nil {
				h.Warnf("closing transport: %v", cerr)
			}
		}
		if err != nil {
			h.dispatchError(err)
		}
	})
}

func (h *HCI) dispatchError(err error) {
	if h.errorHandler == nil {
		h.Errorf("%v", err)
		return
	}
	h.errorHandler(err)
}
