package l2cap

import (
	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/sm"
)

// ChannelCallback receives an opened channel, or nil when opening failed.
type ChannelCallback func(*Channel)

// Channel is a handle on a channel owned by a LogicalLink. The link may
// close the channel at any time; every method is then a harmless no-op.
type Channel struct {
	link     *LogicalLink
	id       ChannelID
	remoteID ChannelID
	info     ChannelInfo

	activated   bool
	deactivated bool
}

// channelState is the link side of a channel.
type channelState struct {
	ch     *Channel
	engine engine

	rx       func(sdu []byte)
	closed   func()
	buffered [][]byte
}

// maxBufferedSDUs bounds what a channel holds before Activate.
const maxBufferedSDUs = 64

func (st *channelState) deliver(sdu []byte) {
	if st.rx != nil {
		st.rx(sdu)
		return
	}
	if st.ch.activated {
		return
	}
	if len(st.buffered) >= maxBufferedSDUs {
		st.ch.link.Warnf("cid %v: dropping sdu, %d buffered before activation", st.ch.id, len(st.buffered))
		return
	}
	st.buffered = append(st.buffered, sdu)
}

func (c *Channel) ID() ChannelID                   { return c.id }
func (c *Channel) RemoteID() ChannelID             { return c.remoteID }
func (c *Channel) LinkHandle() uint16              { return c.link.handle }
func (c *Channel) LinkType() hci.LinkType          { return c.link.linkType }
func (c *Channel) Mode() ChannelMode               { return c.info.Mode }
func (c *Channel) MaxRxSDUSize() uint16            { return c.info.MaxRxSDUSize }
func (c *Channel) MaxTxSDUSize() uint16            { return c.info.MaxTxSDUSize }
func (c *Channel) Info() ChannelInfo               { return c.info }
func (c *Channel) Security() sm.SecurityProperties { return c.link.security }

func (c *Channel) state() *channelState {
	if c.deactivated || c.link.closed {
		return nil
	}
	st, ok := c.link.channels[c.id]
	if !ok || st.ch != c {
		return nil
	}
	return st
}

// Activate installs the receive and close callbacks and delivers any SDUs
// that arrived before activation. It returns false when the channel is
// already closed. A channel may only be activated once.
func (c *Channel) Activate(rx func(sdu []byte), closed func()) bool {
	if c.activated {
		panic("l2cap: channel activated twice")
	}
	c.activated = true

	st := c.state()
	if st == nil {
		return false
	}
	st.rx = rx
	st.closed = closed

	pending := st.buffered
	st.buffered = nil
	for _, sdu := range pending {
		if c.state() == nil {
			break
		}
		rx(sdu)
	}
	return true
}

// Deactivate drops the callbacks and any unsent data, then asks the link to
// close the channel. It is safe to call more than once and after the link
// closed the channel.
func (c *Channel) Deactivate() {
	st := c.state()
	c.deactivated = true
	if st == nil {
		return
	}
	st.rx = nil
	st.closed = nil
	st.buffered = nil
	st.engine.close()

	link, id := c.link, c.id
	link.d.Post(func() { link.deactivateChannel(id, c) })
}

// Send queues sdu. It returns false when the channel is closed or the SDU
// cannot be accepted; true does not guarantee delivery.
func (c *Channel) Send(sdu []byte) bool {
	st := c.state()
	if st == nil {
		return false
	}
	return st.engine.send(sdu)
}

// SignalLinkError reports a protocol violation seen by the channel user.
func (c *Channel) SignalLinkError() {
	if c.link.closed {
		return
	}
	c.link.signalLinkError()
}

// UpgradeSecurity asks for at least level on the link. cb is always called
// later on the dispatcher.
func (c *Channel) UpgradeSecurity(level sm.SecurityLevel, cb func(error)) {
	if c.state() == nil {
		c.link.d.Post(func() { cb(errors.Wrap(bthost.ErrLinkDisconnected, "upgrade security")) })
		return
	}
	c.link.upgradeSecurity(level, cb)
}

// RequestAclPriority forwards a scheduling hint to the controller.
func (c *Channel) RequestAclPriority(pri hci.AclPriority, cb func(error)) {
	if c.state() == nil {
		c.link.d.Post(func() { cb(errors.Wrap(bthost.ErrLinkDisconnected, "acl priority")) })
		return
	}
	c.link.requestAclPriority(pri, cb)
}

func (c *Channel) String() string {
	return c.link.String() + "/" + c.id.String()
}
