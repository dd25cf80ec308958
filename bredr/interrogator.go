package bredr

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"github.com/rigado/bthost"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/linux/hci/cmd"
	"github.com/rigado/bthost/linux/hci/evt"
	"github.com/rigado/bthost/peer"
)

type query int

const (
	queryName query = iota
	queryVersion
	queryFeatures
	queryExtendedFeatures
)

func (q query) String() string {
	switch q {
	case queryName:
		return "remote name"
	case queryVersion:
		return "remote version"
	case queryFeatures:
		return "remote features"
	case queryExtendedFeatures:
		return "remote extended features"
	default:
		return fmt.Sprintf("query(%d)", int(q))
	}
}

// interrogator learns name, version and LMP features of a new link. Queries
// for what the peer cache already knows are skipped. done runs once.
type interrogator struct {
	cmd  hci.CommandChannel
	c    *Connection
	p    *peer.Peer
	done func(error)

	pending  map[query]bool
	finished bool
}

func newInterrogator(c hci.CommandChannel, conn *Connection, p *peer.Peer, done func(error)) *interrogator {
	return &interrogator{
		cmd:     c,
		c:       conn,
		p:       p,
		done:    done,
		pending: make(map[query]bool),
	}
}

func (i *interrogator) start() {
	if i.p.Name() == "" {
		i.send(queryName, &cmd.RemoteNameRequest{
			BDADDR:                 i.c.addr,
			PageScanRepetitionMode: pageScanR2,
		})
	}
	if i.p.Version() == nil {
		i.send(queryVersion, &cmd.ReadRemoteVersionInformation{ConnectionHandle: i.c.handle})
	}
	i.send(queryFeatures, &cmd.ReadRemoteSupportedFeatures{ConnectionHandle: i.c.handle})
}

func (i *interrogator) send(q query, c hci.Command) {
	i.pending[q] = true
	i.cmd.SendCommand(c, func(e hci.Event) {
		if err := e.Err(); err != nil {
			i.fail(q, err)
		}
	})
}

func (i *interrogator) complete(q query) {
	delete(i.pending, q)
	if len(i.pending) == 0 {
		i.finish(nil)
	}
}

func (i *interrogator) fail(q query, err error) {
	i.finish(errors.Wrapf(err, "%v", q))
}

// abort ends interrogation early; later events are ignored.
func (i *interrogator) abort(err error) {
	i.finish(err)
}

func (i *interrogator) finish(err error) {
	if i.finished {
		return
	}
	i.finished = true
	i.done(err)
}

func (i *interrogator) onName(e evt.RemoteNameRequestComplete) {
	if i.finished || !i.pending[queryName] {
		return
	}
	if s := hci.ErrCommand(e.Status()); s != hci.ErrSuccess {
		i.fail(queryName, s)
		return
	}
	name := e.RemoteName()
	if n := bytes.IndexByte(name, 0); n >= 0 {
		name = name[:n]
	}
	i.p.SetName(string(name))
	i.complete(queryName)
}

func (i *interrogator) onVersion(e evt.ReadRemoteVersionInformationComplete) {
	if i.finished || !i.pending[queryVersion] {
		return
	}
	if s := hci.ErrCommand(e.Status()); s != hci.ErrSuccess {
		i.fail(queryVersion, s)
		return
	}
	i.p.SetVersion(peer.Version{
		LMPVersion:   e.Version(),
		Manufacturer: e.ManufacturerName(),
		Subversion:   e.Subversion(),
	})
	i.complete(queryVersion)
}

func (i *interrogator) onFeatures(e evt.ReadRemoteSupportedFeaturesComplete) {
	if i.finished || !i.pending[queryFeatures] {
		return
	}
	if s := hci.ErrCommand(e.Status()); s != hci.ErrSuccess {
		i.fail(queryFeatures, errors.Wrapf(bthost.ErrNotSupported, "%v", s))
		return
	}
	f := e.LMPFeatures()
	i.p.SetFeaturePage(0, f, 0)
	if f&peer.FeatureExtendedFeatures != 0 {
		i.readPage(1)
	}
	i.complete(queryFeatures)
}

func (i *interrogator) readPage(page uint8) {
	i.send(queryExtendedFeatures, &cmd.ReadRemoteExtendedFeatures{
		ConnectionHandle: i.c.handle,
		PageNumber:       page,
	})
}

func (i *interrogator) onExtendedFeatures(e evt.ReadRemoteExtendedFeaturesComplete) {
	if i.finished || !i.pending[queryExtendedFeatures] {
		return
	}
	if s := hci.ErrCommand(e.Status()); s != hci.ErrSuccess {
		i.fail(queryExtendedFeatures, errors.Wrapf(bthost.ErrNotSupported, "%v", s))
		return
	}
	page := e.PageNumber()
	i.p.SetFeaturePage(page, e.ExtendedLMPFeatures(), e.MaxPageNumber())
	if page == 1 && e.MaxPageNumber() >= 2 {
		i.readPage(2)
		return
	}
	i.complete(queryExtendedFeatures)
}
