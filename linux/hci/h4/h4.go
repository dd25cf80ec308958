// Package h4 carries HCI packets over a byte stream using the UART
// transport layer framing [Vol 4, Part A]: a serial port or a TCP bridge.
package h4

import (
	"io"
	"net"
	"sync"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/pkg/errors"
	"github.com/rigado/bthost"
)

const (
	rxQueueSize = 64
	readTimeout = time.Second
	readChunk   = 512
)

// DefaultSerialOptions returns the settings most H4 controllers boot with.
// The port name is left for the caller.
func DefaultSerialOptions() serial.OpenOptions {
	return serial.OpenOptions{
		BaudRate:              1000000,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		MinimumReadSize:       0,
		InterCharacterTimeout: 100,
	}
}

type h4 struct {
	rwc io.ReadWriteCloser
	wmu sync.Mutex
	bthost.Logger

	// a serial port with VMIN 0 reports an idle line as EOF
	eofIsIdle bool

	frame   *frame
	rxQueue chan []byte

	done chan struct{}
	cmu  sync.Mutex
	err  error
}

// NewSerial opens a serial port and frames H4 packets on it.
func NewSerial(opts serial.OpenOptions) (io.ReadWriteCloser, error) {
	// reads must return so Close is noticed
	opts.MinimumReadSize = 0
	if opts.InterCharacterTimeout == 0 {
		opts.InterCharacterTimeout = 100
	}

	sp, err := serial.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open %s", opts.PortName)
	}
	log := bthost.GetLogger().ChildLogger(map[string]interface{}{"transport": opts.PortName})

	// drop whatever the controller sent before we attached
	b := make([]byte, 2048)
	if _, err := sp.Read(b); err != nil && err != io.EOF {
		sp.Close()
		return nil, errors.Wrapf(err, "can't flush %s", opts.PortName)
	}
	log.Infof("opened %s at %d baud", opts.PortName, opts.BaudRate)

	return newH4(sp, true, log), nil
}

// NewSocket connects to an H4 bridge listening on addr.
func NewSocket(addr string, timeout time.Duration) (io.ReadWriteCloser, error) {
	c, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, errors.Wrapf(err, "can't dial %s", addr)
	}
	log := bthost.GetLogger().ChildLogger(map[string]interface{}{"transport": addr})
	log.Infof("connected to %s", addr)
	return newH4(&connWithTimeout{c: c, timeout: timeout}, false, log), nil
}

func newH4(rwc io.ReadWriteCloser, eofIsIdle bool, log bthost.Logger) *h4 {
	h := &h4{
		rwc:       rwc,
		Logger:    log,
		eofIsIdle: eofIsIdle,
		rxQueue:   make(chan []byte, rxQueueSize),
		done:      make(chan struct{}),
	}
	h.frame = newFrame(h.put)
	go h.rxLoop()
	return h
}

// Read returns one whole packet. It returns 0 and no error when no packet
// arrived within the read timeout.
func (h *h4) Read(p []byte) (int, error) {
	select {
	case t := <-h.rxQueue:
		if len(p) < len(t) {
			return 0, io.ErrShortBuffer
		}
		return copy(p, t), nil
	case <-h.done:
		return 0, h.closeErr()
	case <-time.After(readTimeout):
		return 0, nil
	}
}

func (h *h4) Write(p []byte) (int, error) {
	if !h.isOpen() {
		return 0, io.EOF
	}
	h.wmu.Lock()
	defer h.wmu.Unlock()
	n, err := h.rwc.Write(p)
	return n, errors.Wrap(err, "can't write h4")
}

func (h *h4) Close() error {
	return h.shutdown(io.EOF)
}

func (h *h4) shutdown(reason error) error {
	h.cmu.Lock()
	defer h.cmu.Unlock()

	select {
	case <-h.done:
		return nil
	default:
	}
	h.err = reason
	close(h.done)
	return errors.Wrap(h.rwc.Close(), "can't close h4")
}

func (h *h4) closeErr() error {
	h.cmu.Lock()
	defer h.cmu.Unlock()
	return h.err
}

func (h *h4) isOpen() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *h4) put(p []byte) {
	select {
	case h.rxQueue <- p:
	case <-h.done:
	}
}

func (h *h4) rxLoop() {
	tmp := make([]byte, readChunk)
	for {
		n, err := h.rwc.Read(tmp)
		if !h.isOpen() {
			return
		}
		if n > 0 {
			h.frame.Assemble(tmp[:n])
		}
		switch {
		case err == nil:
		case err == io.EOF && h.eofIsIdle:
		case isTimeout(err):
		default:
			h.Warnf("read failed: %v", err)
			h.shutdown(err)
			return
		}
	}
}

func isTimeout(err error) bool {
	ne, ok := err.(net.Error)
	return ok && ne.Timeout()
}
