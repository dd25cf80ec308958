// Package peer tracks remote devices: their identity, what interrogation
// learned about them and the keys they are bonded with.
package peer

import (
	"fmt"

	"github.com/rigado/bthost"
	"github.com/rigado/bthost/sm"
)

// ConnectionState of the BR/EDR transport of a peer.
type ConnectionState int

const (
	NotConnected ConnectionState = iota
	Initializing
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case NotConnected:
		return "not connected"
	case Initializing:
		return "initializing"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Version is the result of Read Remote Version Information.
type Version struct {
	LMPVersion   uint8
	Manufacturer uint16
	Subversion   uint16
}

// MaxFeaturePages is the number of LMP feature pages kept per peer.
const MaxFeaturePages = 3

// LMP feature bits used by the connection manager [Vol 2, Part C, 3.3].
const (
	FeatureExtendedFeatures        uint64 = 1 << 63
	FeatureSecureSimplePairing     uint64 = 1 << 51
	FeatureSecureSimplePairingHost uint64 = 1 << 0 // page 1
	FeatureSecureConnectionsHost   uint64 = 1 << 3 // page 1
	FeatureSecureConnections       uint64 = 1 << 8 // page 2
)

// Peer is a remote device. It is owned by a Cache and mutated on the
// dispatcher only.
type Peer struct {
	id    bthost.PeerID
	addr  bthost.Addr
	name  string
	cache *Cache

	version      *Version
	features     [MaxFeaturePages]uint64
	featureValid [MaxFeaturePages]bool
	lastPage     uint8

	bredr   ConnectionState
	linkKey *sm.LinkKey
	ltk     *sm.LTK
}

func (p *Peer) ID() bthost.PeerID     { return p.id }
func (p *Peer) Addr() bthost.Addr     { return p.addr }
func (p *Peer) Name() string          { return p.name }
func (p *Peer) Version() *Version     { return p.version }
func (p *Peer) LastPageNumber() uint8 { return p.lastPage }

func (p *Peer) String() string {
	return fmt.Sprintf("%v (%v)", p.id, p.addr)
}

func (p *Peer) SetName(name string) {
	p.name = name
	p.cache.persist(p)
}

func (p *Peer) SetVersion(v Version) {
	p.version = &v
}

// SetFeaturePage records LMP features of page. lastPage is the highest page
// the peer reports.
func (p *Peer) SetFeaturePage(page uint8, features uint64, lastPage uint8) {
	if int(page) >= MaxFeaturePages {
		return
	}
	p.features[page] = features
	p.featureValid[page] = true
	if lastPage > p.lastPage {
		p.lastPage = lastPage
	}
}

// Features returns a feature page and whether it has been read.
func (p *Peer) Features(page uint8) (uint64, bool) {
	if int(page) >= MaxFeaturePages {
		return 0, false
	}
	return p.features[page], p.featureValid[page]
}

// HasFeature reports whether bit is set in an already read page.
func (p *Peer) HasFeature(page uint8, bit uint64) bool {
	f, ok := p.Features(page)
	return ok && f&bit != 0
}

// SecureConnections reports support on both controller and host.
func (p *Peer) SecureConnections() bool {
	return p.HasFeature(1, FeatureSecureConnectionsHost) && p.HasFeature(2, FeatureSecureConnections)
}

func (p *Peer) ConnectionState() ConnectionState { return p.bredr }

// SetConnectionState is for the BR/EDR connection manager.
func (p *Peer) SetConnectionState(s ConnectionState) {
	if s != p.bredr {
		p.cache.Debugf("peer %v: %v -> %v", p.id, p.bredr, s)
	}
	p.bredr = s
}

// Connected reports whether the BR/EDR link is usable.
func (p *Peer) Connected() bool { return p.bredr == Connected }

// Bonded reports whether a link key is stored for the peer.
func (p *Peer) Bonded() bool { return p.linkKey != nil }

// LinkKey returns the bonded BR/EDR key.
func (p *Peer) LinkKey() (sm.LinkKey, bool) {
	if p.linkKey == nil {
		return sm.LinkKey{}, false
	}
	return *p.linkKey, true
}

// LELTK returns the LE key derived from the link key, if any.
func (p *Peer) LELTK() (sm.LTK, bool) {
	if p.ltk == nil {
		return sm.LTK{}, false
	}
	return *p.ltk, true
}

// StoreLinkKey bonds the peer with lk and persists it. A Secure Connections
// key also yields an LE key through cross-transport derivation.
func (p *Peer) StoreLinkKey(lk sm.LinkKey) error {
	p.linkKey = &lk
	p.ltk = nil
	if lk.Security.SecureConnections {
		ltk, err := sm.DeriveLELTK(lk, p.SecureConnections())
		if err != nil {
			p.cache.Warnf("peer %v: derive le key: %v", p.id, err)
		} else {
			p.ltk = &ltk
		}
	}
	return p.cache.persist(p)
}

// ClearBond forgets the keys of the peer.
func (p *Peer) ClearBond() error {
	p.linkKey = nil
	p.ltk = nil
	return p.cache.forget(p)
}
