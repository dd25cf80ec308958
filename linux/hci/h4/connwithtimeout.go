package h4

import (
	"net"
	"time"
)

// connWithTimeout bounds every read and write on a stream connection.
type connWithTimeout struct {
	c       net.Conn
	timeout time.Duration
}

func (cwt *connWithTimeout) Read(b []byte) (int, error) {
	if cwt.timeout > 0 {
		cwt.c.SetReadDeadline(time.Now().Add(cwt.timeout))
	}
	return cwt.c.Read(b)
}

func (cwt *connWithTimeout) Write(b []byte) (int, error) {
	if cwt.timeout > 0 {
		cwt.c.SetWriteDeadline(time.Now().Add(cwt.timeout))
	}
	return cwt.c.Write(b)
}

func (cwt *connWithTimeout) Close() error {
	return cwt.c.Close()
}
