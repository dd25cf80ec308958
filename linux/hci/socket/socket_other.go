//go:build !linux
// +build !linux

package socket

import (
	"github.com/pkg/errors"
	"github.com/rigado/bthost"
)

// Socket is unavailable outside Linux.
type Socket struct{}

// NewSocket always fails on this platform.
func NewSocket(id int) (*Socket, error) {
	return nil, errors.Wrap(bthost.ErrNotSupported, "hci user channel is only available on linux")
}

// Devices always fails on this platform.
func Devices() ([]int, error) {
	return nil, errors.Wrap(bthost.ErrNotSupported, "hci user channel is only available on linux")
}

func (s *Socket) Read(p []byte) (int, error)  { return 0, bthost.ErrNotSupported }
func (s *Socket) Write(p []byte) (int, error) { return 0, bthost.ErrNotSupported }
func (s *Socket) Close() error                { return nil }
