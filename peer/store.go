package peer

import (
	"io/ioutil"
	"os"
	"sync"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/hci"
)

// Store persists bonds.
type Store interface {
	Load() ([]Bond, error)
	Save(Bond) error
	Delete(bthost.Addr) error
}

// Bond is the persisted form of a bonded peer.
type Bond struct {
	ID      string   `json:"id"`
	Address string   `json:"address"`
	Name    string   `json:"name,omitempty"`
	LinkKey *KeyInfo `json:"linkKey,omitempty"`
	LTK     *KeyInfo `json:"leLongTermKey,omitempty"`
}

// KeyInfo is a key and the link key type it came from.
type KeyInfo struct {
	Value [16]byte        `json:"value"`
	Type  hci.LinkKeyType `json:"type"`
}

func bondFor(p *Peer) Bond {
	b := Bond{ID: p.id.String(), Address: p.addr.String(), Name: p.name}
	if p.linkKey != nil {
		b.LinkKey = &KeyInfo{Value: p.linkKey.Value, Type: p.linkKey.Type}
		if p.ltk != nil {
			b.LTK = &KeyInfo{Value: p.ltk.Value, Type: p.linkKey.Type}
		}
	}
	return b
}

type fileStore struct {
	filename string
	lock     sync.RWMutex
}

// NewFileStore keeps bonds as JSON in filename, keyed by address.
func NewFileStore(filename string) Store {
	return &fileStore{filename: filename}
}

func (s *fileStore) Load() ([]Bond, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	bonds, err := s.loadExisting()
	if err != nil {
		return nil, err
	}
	out := make([]Bond, 0, len(bonds))
	for _, b := range bonds {
		out = append(out, b)
	}
	return out, nil
}

func (s *fileStore) Save(b Bond) error {
	if b.Address == "" {
		return errors.New("bond without address")
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	bonds, err := s.loadExisting()
	if err != nil {
		return err
	}
	bonds[b.Address] = b
	return s.storeBonds(bonds)
}

func (s *fileStore) Delete(addr bthost.Addr) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	bonds, err := s.loadExisting()
	if err != nil {
		return err
	}
	if _, ok := bonds[addr.String()]; !ok {
		return nil
	}
	delete(bonds, addr.String())
	return s.storeBonds(bonds)
}

func (s *fileStore) loadExisting() (map[string]Bond, error) {
	_, err := os.Stat(s.filename)
	if os.IsNotExist(err) {
		return map[string]Bond{}, nil
	}

	in, err := ioutil.ReadFile(s.filename)
	if err != nil {
		return nil, errors.Wrap(err, "read bond file")
	}

	bonds := map[string]Bond{}
	if len(in) == 0 {
		return bonds, nil
	}
	if err := jsoniter.Unmarshal(in, &bonds); err != nil {
		return nil, errors.Wrap(err, "unmarshal bond file")
	}
	return bonds, nil
}

func (s *fileStore) storeBonds(bonds map[string]Bond) error {
	out, err := jsoniter.MarshalIndent(bonds, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal bonds")
	}
	return errors.Wrap(ioutil.WriteFile(s.filename, out, 0600), "write bond file")
}
