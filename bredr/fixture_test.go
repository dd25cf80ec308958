package bredr

import (
	"encoding/binary"
	"testing"

	"github.com/rigado/bthost"
	"github.com/rigado/bthost/dispatch"
	"github.com/rigado/bthost/l2cap"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/linux/hci/cmd"
	"github.com/rigado/bthost/linux/hci/evt"
	"github.com/rigado/bthost/linux/hci/hcitest"
	"github.com/rigado/bthost/peer"
	"github.com/rigado/bthost/sm"
)

var (
	localAddr = bthost.MustParseAddr("00:1A:7D:DA:71:01")
	peerAddr  = bthost.MustParseAddr("C0:FF:EE:00:00:01")
	peerAddr2 = bthost.MustParseAddr("C0:FF:EE:00:00:02")
)

const (
	testHandle = uint16(0x0001)
	aclLink    = uint8(hci.LinkTypeACL)
)

type fixture struct {
	t     *testing.T
	loop  *dispatch.TestLoop
	hci   *hcitest.Fake
	l2    *l2cap.ChannelManager
	cache *peer.Cache
	m     *ConnectionManager
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	loop := dispatch.NewTestLoop()
	fake := hcitest.New(loop)
	fake.SetReturnParams(cmd.ReadEncryptionKeySizeOp, []byte{0x01, 0x00, 16})

	l2, err := l2cap.NewChannelManager(loop, fake)
	if err != nil {
		t.Fatal(err)
	}
	cache := peer.NewCache(nil)
	m, err := NewConnectionManager(loop, fake, l2, cache, localAddr, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{t: t, loop: loop, hci: fake, l2: l2, cache: cache, m: m}
}

func (f *fixture) inject(code uint8, params []byte) {
	f.hci.InjectEvent(code, params)
	f.loop.RunUntilIdle()
}

type connectResult struct {
	calls int
	conn  *Connection
	err   error
}

func (r *connectResult) cb(c *Connection, err error) {
	r.calls++
	r.conn = c
	r.err = err
}

// connectionComplete reports a successful ACL link and finishes the L2CAP
// information exchange the link starts with.
func (f *fixture) connectionComplete(handle uint16, addr bthost.Addr) {
	f.inject(evt.ConnectionCompleteCode, hcitest.ConnectionComplete(0, handle, addr, aclLink))
	f.finishInfoExchange(handle)
}

// interrogate answers every query of a fresh peer with no extended features.
func (f *fixture) interrogate(handle uint16, addr bthost.Addr) {
	f.inject(evt.RemoteNameRequestCompleteCode, hcitest.RemoteNameRequestComplete(0, addr, "speaker"))
	f.inject(evt.ReadRemoteVersionInformationCompleteCode, hcitest.ReadRemoteVersionInfoComplete(0, handle, 0x09, 0x000F, 0x1234))
	f.inject(evt.ReadRemoteSupportedFeaturesCompleteCode, hcitest.ReadRemoteSupportedFeaturesComplete(0, handle, peer.FeatureSecureSimplePairing))
}

// connect runs an outbound connection to addr until it is ready.
func (f *fixture) connect(handle uint16, addr bthost.Addr) (*peer.Peer, *Connection) {
	f.t.Helper()
	p := f.cache.NewPeer(addr)
	var r connectResult
	if !f.m.Connect(p.ID(), r.cb) {
		f.t.Fatal("connect refused")
	}
	f.loop.RunUntilIdle()
	f.connectionComplete(handle, addr)
	f.interrogate(handle, addr)
	if r.calls != 1 || r.err != nil {
		f.t.Fatalf("connect: %d calls, err %v", r.calls, r.err)
	}
	return p, r.conn
}

// accept runs an inbound connection from addr until it is ready.
func (f *fixture) accept(handle uint16, addr bthost.Addr) *Connection {
	f.t.Helper()
	f.inject(evt.ConnectionRequestCode, hcitest.ConnectionRequest(addr, aclLink))
	if _, ok := f.hci.LastCommand().(*cmd.AcceptConnectionRequest); !ok {
		f.t.Fatalf("expected accept, got %v", f.hci.LastCommand())
	}
	f.connectionComplete(handle, addr)
	f.interrogate(handle, addr)
	p := f.cache.FindByAddr(addr)
	c, ok := f.m.Connection(p.ID())
	if !ok || !c.Ready() {
		f.t.Fatal("inbound connection not ready")
	}
	return c
}

func (f *fixture) disconnectionComplete(handle uint16, reason hci.ErrCommand) {
	f.inject(evt.DisconnectionCompleteCode, hcitest.DisconnectionComplete(0, handle, uint8(reason)))
}

type signal struct {
	code uint8
	id   uint8
}

// signals returns the BR/EDR signaling commands sent on handle.
func (f *fixture) signals(handle uint16) []signal {
	var out []signal
	for _, s := range f.hci.SentOn(handle) {
		fr := s.Frame()
		if len(fr) < 8 || binary.LittleEndian.Uint16(fr[2:]) != uint16(l2cap.SignalingChannelID) {
			continue
		}
		out = append(out, signal{code: fr[4], id: fr[5]})
	}
	return out
}

func (f *fixture) sentSignal(handle uint16, code uint8) bool {
	for _, s := range f.signals(handle) {
		if s.code == code {
			return true
		}
	}
	return false
}

// finishInfoExchange answers the link's Information Request with
// NotSupported, which releases queued channel opens.
func (f *fixture) finishInfoExchange(handle uint16) {
	for _, s := range f.signals(handle) {
		if s.code != l2cap.SignalInformationRequest {
			continue
		}
		frame := []byte{
			0x08, 0x00, 0x01, 0x00,
			l2cap.SignalInformationResponse, s.id, 0x04, 0x00,
			0x02, 0x00, 0x01, 0x00,
		}
		f.hci.InjectACL(hci.NewACLPacket(handle, hci.PbfFlushableStart, frame))
		f.loop.RunUntilIdle()
		return
	}
}

// count returns how many commands with op were sent.
func (f *fixture) count(op int) int {
	return len(f.hci.CommandsOf(op))
}

func (f *fixture) lastDisconnect() *cmd.Disconnect {
	cs := f.hci.CommandsOf(cmd.DisconnectOp)
	if len(cs) == 0 {
		return nil
	}
	return cs[len(cs)-1].(*cmd.Disconnect)
}

type testDelegate struct {
	ioCap   sm.IOCapability
	accept  bool
	passkey int64

	confirms  int
	displayed []uint32
	methods   []sm.DisplayMethod
	requested int
	completed []error
}

func (d *testDelegate) IOCapability() sm.IOCapability { return d.ioCap }

func (d *testDelegate) CompletePairing(id bthost.PeerID, err error) {
	d.completed = append(d.completed, err)
}

func (d *testDelegate) ConfirmPairing(id bthost.PeerID, confirm func(bool)) {
	d.confirms++
	confirm(d.accept)
}

func (d *testDelegate) DisplayPasskey(id bthost.PeerID, passkey uint32, method sm.DisplayMethod, confirm func(bool)) {
	d.displayed = append(d.displayed, passkey)
	d.methods = append(d.methods, method)
	confirm(d.accept)
}

func (d *testDelegate) RequestPasskey(id bthost.PeerID, respond func(int64)) {
	d.requested++
	respond(d.passkey)
}
