package bthost

import (
	"github.com/google/uuid"
)

// PeerID identifies a remote device independent of its address.
type PeerID uuid.UUID

// InvalidPeerID is never assigned to a peer.
var InvalidPeerID = PeerID(uuid.Nil)

// NewPeerID returns a random identifier.
func NewPeerID() PeerID {
	return PeerID(uuid.New())
}

// ParsePeerID parses the canonical textual form.
func ParsePeerID(s string) (PeerID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return InvalidPeerID, err
	}
	return PeerID(u), nil
}

func (id PeerID) String() string {
	return uuid.UUID(id).String()
}

// Valid reports whether id is not the nil identifier.
func (id PeerID) Valid() bool {
	return id != InvalidPeerID
}
