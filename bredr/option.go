package bredr

import (
	"time"

	"github.com/pkg/errors"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/peer"
	"github.com/rigado/bthost/sm"
)

const (
	DefaultLocalDisconnectCooldown = time.Second
	DefaultPageTimeout             = 15 * time.Second
	DefaultPairingTimeout          = 60 * time.Second
	DefaultMinEncryptionKeySize    = 7
)

type config struct {
	cooldown             time.Duration
	pageTimeout          time.Duration
	interrogationTimeout time.Duration
	pairingTimeout       time.Duration
	minKeySize           int
	acceptRole           uint8
	delegate             sm.PairingDelegate
	store                peer.Store
}

func defaultConfig() config {
	return config{
		cooldown:       DefaultLocalDisconnectCooldown,
		pageTimeout:    DefaultPageTimeout,
		pairingTimeout: DefaultPairingTimeout,
		minKeySize:     DefaultMinEncryptionKeySize,
		acceptRole:     hci.RoleSlave,
	}
}

// An Option configures a ConnectionManager.
type Option func(*ConnectionManager) error

// OptLocalDisconnectCooldown sets how long inbound connections from a peer
// are refused after it was disconnected through Disconnect.
func OptLocalDisconnectCooldown(d time.Duration) Option {
	return func(m *ConnectionManager) error {
		if d < 0 {
			return errors.Errorf("negative cooldown %v", d)
		}
		m.cfg.cooldown = d
		return nil
	}
}

// OptPageTimeout bounds an outbound Create Connection before it is canceled.
func OptPageTimeout(d time.Duration) Option {
	return func(m *ConnectionManager) error {
		if d <= 0 {
			return errors.Errorf("invalid page timeout %v", d)
		}
		m.cfg.pageTimeout = d
		return nil
	}
}

// OptInterrogationTimeout fails interrogation that has not finished after d.
// Zero leaves it to the controller.
func OptInterrogationTimeout(d time.Duration) Option {
	return func(m *ConnectionManager) error {
		m.cfg.interrogationTimeout = d
		return nil
	}
}

// OptPairingTimeout fails pairing that has not finished after d.
func OptPairingTimeout(d time.Duration) Option {
	return func(m *ConnectionManager) error {
		if d <= 0 {
			return errors.Errorf("invalid pairing timeout %v", d)
		}
		m.cfg.pairingTimeout = d
		return nil
	}
}

// OptMinEncryptionKeySize sets the smallest key size a paired link may use.
func OptMinEncryptionKeySize(n int) Option {
	return func(m *ConnectionManager) error {
		if n < 1 || n > sm.MaxEncryptionKeySize {
			return errors.Errorf("invalid key size %d", n)
		}
		m.cfg.minKeySize = n
		return nil
	}
}

// OptPairingDelegate sets the delegate consulted during pairing. Without
// one every pairing attempt is rejected.
func OptPairingDelegate(d sm.PairingDelegate) Option {
	return func(m *ConnectionManager) error {
		m.cfg.delegate = d
		return nil
	}
}

// OptBondStore loads bonds from s into the peer cache.
func OptBondStore(s peer.Store) Option {
	return func(m *ConnectionManager) error {
		m.cfg.store = s
		return nil
	}
}

// OptAcceptRole sets the role requested when accepting a connection;
// hci.RoleMaster asks for a role switch.
func OptAcceptRole(role uint8) Option {
	return func(m *ConnectionManager) error {
		if role != hci.RoleMaster && role != hci.RoleSlave {
			return errors.Errorf("invalid role %d", role)
		}
		m.cfg.acceptRole = role
		return nil
	}
}
