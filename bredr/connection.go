package bredr

import (
	"fmt"

	"github.com/rigado/bthost"
	"github.com/rigado/bthost/dispatch"
	"github.com/rigado/bthost/l2cap"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/sm"
)

// ConnectCallback receives the connection, or an error and nil.
type ConnectCallback func(c *Connection, err error)

// DisconnectReason records why the host tore a link down.
type DisconnectReason int

const (
	ReasonApiRequest DisconnectReason = iota
	ReasonInterrogationFailed
	ReasonPairingFailed
	ReasonAclLinkError
)

func (r DisconnectReason) String() string {
	switch r {
	case ReasonApiRequest:
		return "api request"
	case ReasonInterrogationFailed:
		return "interrogation failed"
	case ReasonPairingFailed:
		return "pairing failed"
	case ReasonAclLinkError:
		return "acl link error"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

type openRequest struct {
	psm    l2cap.PSM
	reqs   sm.BrEdrSecurityRequirements
	params l2cap.ChannelParameters
	cb     l2cap.ChannelCallback
	paired bool
}

// Connection is an ACL link to a peer. It exists from Connection Complete
// until Disconnection Complete; it is usable once Ready reports true.
type Connection struct {
	peerID   bthost.PeerID
	addr     bthost.Addr
	handle   uint16
	role     uint8
	security sm.SecurityProperties

	interrogated     bool
	ready            bool
	disconnecting    bool
	disconnectReason hci.ErrCommand
	interrogation    *interrogator
	pairing          *pairingState
	sco              map[uint16]bool

	// callbacks of Connect calls waiting for the connection to be ready
	connectCallbacks []ConnectCallback
	// channel opens waiting for pairing or readiness
	pendingOpens []*openRequest
	// inbound channels held until the connection is ready
	deferred []func()

	interrogationTimer dispatch.Task

	bthost.Logger
}

func newConnection(id bthost.PeerID, addr bthost.Addr, handle uint16, role uint8, log bthost.Logger) *Connection {
	return &Connection{
		peerID: id,
		addr:   addr,
		handle: handle,
		role:   role,
		sco:    make(map[uint16]bool),
		Logger: log.ChildLogger(map[string]interface{}{
			"peer":   id.String(),
			"handle": fmt.Sprintf("0x%04x", handle),
		}),
	}
}

func (c *Connection) PeerID() bthost.PeerID { return c.peerID }
func (c *Connection) Addr() bthost.Addr     { return c.addr }
func (c *Connection) Handle() uint16        { return c.handle }

// Role is hci.RoleMaster or hci.RoleSlave.
func (c *Connection) Role() uint8 { return c.role }

// Security of the link as of the last encryption change.
func (c *Connection) Security() sm.SecurityProperties { return c.security }

// Ready reports whether interrogation and any pairing in progress finished.
func (c *Connection) Ready() bool { return c.ready }

func (c *Connection) String() string {
	return fmt.Sprintf("%v handle 0x%04x", c.addr, c.handle)
}

func (c *Connection) pairingActive() bool {
	return c.pairing != nil && c.pairing.active
}

// meets reports whether the link already satisfies reqs for psm. Every
// service but SDP needs an encrypted link.
func (c *Connection) meets(psm l2cap.PSM, reqs sm.BrEdrSecurityRequirements) bool {
	if psm == l2cap.PSMSDP {
		return true
	}
	return c.security.Level >= sm.Encrypted && c.security.Satisfies(reqs)
}

func (c *Connection) resolveConnect(err error) {
	cbs := c.connectCallbacks
	c.connectCallbacks = nil
	for _, cb := range cbs {
		if err != nil {
			cb(nil, err)
		} else {
			cb(c, nil)
		}
	}
}

func (c *Connection) stopTimers() {
	if c.interrogationTimer != nil {
		c.interrogationTimer.Cancel()
		c.interrogationTimer = nil
	}
	if c.pairing != nil {
		c.pairing.stopTimer()
	}
}
