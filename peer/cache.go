package peer

import (
	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/sm"
)

// Cache indexes peers by identifier and address. It is not safe for
// concurrent use; everything runs on the dispatcher.
type Cache struct {
	byID   map[bthost.PeerID]*Peer
	byAddr map[bthost.Addr]*Peer
	store  Store

	bthost.Logger
}

// NewCache returns an empty cache. store may be nil, in which case bonds
// live only as long as the process.
func NewCache(store Store) *Cache {
	return &Cache{
		byID:   make(map[bthost.PeerID]*Peer),
		byAddr: make(map[bthost.Addr]*Peer),
		store:  store,
		Logger: bthost.GetLogger().ChildLogger(map[string]interface{}{"component": "peer"}),
	}
}

// SetStore replaces the backing store. Bonds already in the cache are not
// written to it.
func (c *Cache) SetStore(s Store) {
	c.store = s
}

// Load restores bonded peers from the store.
func (c *Cache) Load() error {
	if c.store == nil {
		return nil
	}
	bonds, err := c.store.Load()
	if err != nil {
		return errors.Wrap(err, "load bonds")
	}
	for _, b := range bonds {
		addr, err := bthost.ParseAddr(b.Address)
		if err != nil {
			c.Warnf("skipping bond: %v", err)
			continue
		}
		id, err := bthost.ParsePeerID(b.ID)
		if err != nil {
			id = bthost.NewPeerID()
		}
		p := c.add(id, addr)
		p.name = b.Name
		if b.LinkKey != nil {
			lk := sm.NewLinkKey(b.LinkKey.Value, b.LinkKey.Type)
			p.linkKey = &lk
		}
		if b.LTK != nil {
			p.ltk = &sm.LTK{Value: b.LTK.Value, Security: sm.PropertiesFromLinkKeyType(b.LTK.Type, sm.MaxEncryptionKeySize)}
		}
	}
	c.Infof("loaded %d bonds", len(bonds))
	return nil
}

func (c *Cache) add(id bthost.PeerID, addr bthost.Addr) *Peer {
	p := &Peer{id: id, addr: addr, cache: c}
	c.byID[id] = p
	c.byAddr[addr] = p
	return p
}

// FindByID returns the peer with id, or nil.
func (c *Cache) FindByID(id bthost.PeerID) *Peer {
	return c.byID[id]
}

// FindByAddr returns the peer with addr, or nil.
func (c *Cache) FindByAddr(addr bthost.Addr) *Peer {
	return c.byAddr[addr]
}

// NewPeer returns the peer with addr, creating it when absent.
func (c *Cache) NewPeer(addr bthost.Addr) *Peer {
	if p, ok := c.byAddr[addr]; ok {
		return p
	}
	p := c.add(bthost.NewPeerID(), addr)
	c.Debugf("new peer %v", p)
	return p
}

// Remove drops an unbonded, disconnected peer. It reports whether the peer
// was removed.
func (c *Cache) Remove(id bthost.PeerID) bool {
	p, ok := c.byID[id]
	if !ok || p.Bonded() || p.bredr != NotConnected {
		return false
	}
	delete(c.byID, id)
	delete(c.byAddr, p.addr)
	return true
}

// Peers returns every known peer in no particular order.
func (c *Cache) Peers() []*Peer {
	out := make([]*Peer, 0, len(c.byID))
	for _, p := range c.byID {
		out = append(out, p)
	}
	return out
}

func (c *Cache) persist(p *Peer) error {
	if c.store == nil || p.linkKey == nil {
		return nil
	}
	if err := c.store.Save(bondFor(p)); err != nil {
		c.Errorf("save bond of %v: %v", p, err)
		return errors.Wrapf(err, "save bond of %v", p.addr)
	}
	return nil
}

func (c *Cache) forget(p *Peer) error {
	if c.store == nil {
		return nil
	}
	return errors.Wrapf(c.store.Delete(p.addr), "delete bond of %v", p.addr)
}
