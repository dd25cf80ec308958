package bredr

import (
	"testing"

	"github.com/rigado/bthost"
	"github.com/rigado/bthost/l2cap"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/linux/hci/cmd"
	"github.com/rigado/bthost/linux/hci/evt"
	"github.com/rigado/bthost/linux/hci/hcitest"
	"github.com/rigado/bthost/sm"
)

var testKey = [16]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F, 0x10}

type errResult struct {
	calls int
	err   error
}

func (r *errResult) cb(err error) {
	r.calls++
	r.err = err
}

type chanResult struct {
	calls int
	ch    *l2cap.Channel
}

func (r *chanResult) cb(ch *l2cap.Channel) {
	r.calls++
	r.ch = ch
}

// simplePairing runs the controller side of a Secure Simple Pairing that
// ends with a key of type t, up to the encryption change.
func (f *fixture) simplePairing(peerIOCap sm.IOCapability, t hci.LinkKeyType) {
	f.inject(evt.LinkKeyRequestCode, hcitest.LinkKeyRequest(peerAddr))
	f.inject(evt.IOCapabilityRequestCode, hcitest.IOCapabilityRequest(peerAddr))
	f.inject(evt.IOCapabilityResponseCode, hcitest.IOCapabilityResponse(peerAddr, uint8(peerIOCap), 0, sm.AuthReqMITMRequiredGeneralBonding))
	f.inject(evt.UserConfirmationRequestCode, hcitest.UserConfirmationRequest(peerAddr, 123456))
	f.inject(evt.SimplePairingCompleteCode, hcitest.SimplePairingComplete(0, peerAddr))
	f.inject(evt.LinkKeyNotificationCode, hcitest.LinkKeyNotification(peerAddr, testKey, uint8(t)))
	f.inject(evt.AuthenticationCompleteCode, hcitest.AuthenticationComplete(0, testHandle))
}

func (f *fixture) encryptionChange() {
	f.inject(evt.EncryptionChangeCode, hcitest.EncryptionChange(0, testHandle, 1))
}

func TestPairingWithoutDelegate(t *testing.T) {
	f := newFixture(t)
	c := f.accept(testHandle, peerAddr)

	f.inject(evt.IOCapabilityRequestCode, hcitest.IOCapabilityRequest(peerAddr))
	dc, ok := f.hci.LastCommand().(*cmd.Disconnect)
	if !ok || dc.Reason != uint8(hci.ErrAuthFailure) || dc.ConnectionHandle != c.Handle() {
		t.Fatalf("expected disconnect for authentication failure, got %v", f.hci.LastCommand())
	}
	cs := f.hci.CommandsOf(cmd.IOCapabilityRequestNegativeReplyOp)
	if len(cs) != 1 || cs[0].(*cmd.IOCapabilityRequestNegativeReply).Reason != uint8(hci.ErrPairingNotAllowed) {
		t.Fatalf("expected pairing not allowed reply, got %v", cs)
	}
}

func TestNumericComparisonPairing(t *testing.T) {
	d := &testDelegate{ioCap: sm.IOCapabilityDisplayYesNo, accept: true}
	f := newFixture(t, OptPairingDelegate(d))
	p, c := f.connect(testHandle, peerAddr)

	var r errResult
	f.m.Pair(p.ID(), sm.BrEdrSecurityRequirements{Authentication: true}, r.cb)
	f.loop.RunUntilIdle()
	if f.count(cmd.AuthenticationRequestedOp) != 1 {
		t.Fatal("expected authentication requested")
	}

	f.simplePairing(sm.IOCapabilityDisplayYesNo, hci.LinkKeyAuthenticatedCombinationP192)
	if f.count(cmd.LinkKeyRequestNegativeReplyOp) != 1 {
		t.Fatal("expected negative link key reply without a bond")
	}
	reply := f.hci.CommandsOf(cmd.IOCapabilityRequestReplyOp)[0].(*cmd.IOCapabilityRequestReply)
	if reply.IOCapability != uint8(sm.IOCapabilityDisplayYesNo) || reply.AuthenticationRequirements != sm.AuthReqMITMRequiredGeneralBonding {
		t.Fatalf("unexpected io capability reply %+v", reply)
	}
	if len(d.displayed) != 1 || d.displayed[0] != 123456 || d.methods[0] != sm.DisplayComparison {
		t.Fatalf("expected comparison of 123456, got %v %v", d.displayed, d.methods)
	}
	if f.count(cmd.UserConfirmationRequestReplyOp) != 1 {
		t.Fatal("expected user confirmation reply")
	}
	if f.count(cmd.SetConnectionEncryptionOp) != 1 {
		t.Fatal("expected encryption to be enabled")
	}
	if r.calls != 0 {
		t.Fatal("pairing resolved before encryption")
	}

	f.encryptionChange()
	if r.calls != 1 || r.err != nil {
		t.Fatalf("pairing result %+v", r)
	}
	if len(d.completed) != 1 || d.completed[0] != nil {
		t.Fatalf("delegate completion %v", d.completed)
	}
	sec := c.Security()
	if sec.Level != sm.Authenticated || sec.EncKeySize != 16 {
		t.Fatalf("unexpected security %v", sec)
	}
	if !p.Bonded() {
		t.Fatal("link key not stored")
	}

	// already secure enough
	var again errResult
	f.m.Pair(p.ID(), sm.BrEdrSecurityRequirements{Authentication: true}, again.cb)
	f.loop.RunUntilIdle()
	if again.calls != 1 || again.err != nil || f.count(cmd.AuthenticationRequestedOp) != 1 {
		t.Fatalf("expected no second pairing, got %+v", again)
	}
}

func TestPairingRejectedByUser(t *testing.T) {
	d := &testDelegate{ioCap: sm.IOCapabilityDisplayYesNo}
	f := newFixture(t, OptPairingDelegate(d))
	p, _ := f.connect(testHandle, peerAddr)

	var r errResult
	f.m.Pair(p.ID(), sm.BrEdrSecurityRequirements{}, r.cb)
	f.loop.RunUntilIdle()
	f.inject(evt.IOCapabilityRequestCode, hcitest.IOCapabilityRequest(peerAddr))
	f.inject(evt.IOCapabilityResponseCode, hcitest.IOCapabilityResponse(peerAddr, uint8(sm.IOCapabilityDisplayYesNo), 0, sm.AuthReqMITMRequiredGeneralBonding))
	f.inject(evt.UserConfirmationRequestCode, hcitest.UserConfirmationRequest(peerAddr, 654321))
	if f.count(cmd.UserConfirmationRequestNegativeReplyOp) != 1 {
		t.Fatal("expected negative confirmation reply")
	}

	f.inject(evt.SimplePairingCompleteCode, hcitest.SimplePairingComplete(uint8(hci.ErrAuthFailure), peerAddr))
	if r.calls != 1 || r.err == nil {
		t.Fatalf("expected failure, got %+v", r)
	}
	if d := f.lastDisconnect(); d == nil || d.Reason != uint8(hci.ErrAuthFailure) {
		t.Fatalf("expected disconnect, got %+v", d)
	}
}

func TestEncryptionKeyTooSmall(t *testing.T) {
	d := &testDelegate{ioCap: sm.IOCapabilityNoInputNoOutput}
	f := newFixture(t, OptPairingDelegate(d))
	f.hci.SetReturnParams(cmd.ReadEncryptionKeySizeOp, []byte{0x01, 0x00, 6})
	p, _ := f.connect(testHandle, peerAddr)

	var r errResult
	f.m.Pair(p.ID(), sm.BrEdrSecurityRequirements{}, r.cb)
	f.loop.RunUntilIdle()
	f.simplePairing(sm.IOCapabilityNoInputNoOutput, hci.LinkKeyUnauthenticatedCombinationP192)
	f.encryptionChange()

	if r.calls != 1 || !bthost.IsHostError(r.err, bthost.ErrInsufficientSecurity) {
		t.Fatalf("expected insufficient security, got %+v", r)
	}
	if d := f.lastDisconnect(); d == nil || d.Reason != uint8(hci.ErrAuthFailure) {
		t.Fatalf("expected disconnect, got %+v", d)
	}
}

func TestBondedKeyUsed(t *testing.T) {
	f := newFixture(t)
	p := f.cache.NewPeer(peerAddr)
	if err := p.StoreLinkKey(sm.NewLinkKey(testKey, hci.LinkKeyAuthenticatedCombinationP256)); err != nil {
		t.Fatal(err)
	}
	_, c := f.connect(testHandle, peerAddr)

	var r errResult
	f.m.Pair(p.ID(), sm.BrEdrSecurityRequirements{Authentication: true}, r.cb)
	f.loop.RunUntilIdle()
	f.inject(evt.LinkKeyRequestCode, hcitest.LinkKeyRequest(peerAddr))

	cs := f.hci.CommandsOf(cmd.LinkKeyRequestReplyOp)
	if len(cs) != 1 || cs[0].(*cmd.LinkKeyRequestReply).LinkKey != testKey {
		t.Fatalf("expected the bonded key, got %v", cs)
	}
	f.inject(evt.AuthenticationCompleteCode, hcitest.AuthenticationComplete(0, testHandle))
	f.encryptionChange()

	if r.calls != 1 || r.err != nil {
		t.Fatalf("pairing result %+v", r)
	}
	if sec := c.Security(); sec.Level != sm.SecureAuthenticated || !sec.SecureConnections {
		t.Fatalf("unexpected security %v", sec)
	}
}

func TestMissingKeyClearsBond(t *testing.T) {
	f := newFixture(t)
	p := f.cache.NewPeer(peerAddr)
	p.StoreLinkKey(sm.NewLinkKey(testKey, hci.LinkKeyAuthenticatedCombinationP192))
	f.connect(testHandle, peerAddr)

	var r errResult
	f.m.Pair(p.ID(), sm.BrEdrSecurityRequirements{}, r.cb)
	f.loop.RunUntilIdle()
	f.inject(evt.LinkKeyRequestCode, hcitest.LinkKeyRequest(peerAddr))
	f.inject(evt.AuthenticationCompleteCode, hcitest.AuthenticationComplete(uint8(hci.ErrKeyMissing), testHandle))

	if r.calls != 1 || r.err == nil {
		t.Fatalf("expected failure, got %+v", r)
	}
	if p.Bonded() {
		t.Fatal("bond kept after the peer lost its key")
	}
}

func TestLinkKeyUpgrade(t *testing.T) {
	d := &testDelegate{ioCap: sm.IOCapabilityDisplayYesNo, accept: true}
	f := newFixture(t, OptPairingDelegate(d))
	p, _ := f.connect(testHandle, peerAddr)

	var r errResult
	f.m.Pair(p.ID(), sm.BrEdrSecurityRequirements{Authentication: true}, r.cb)
	f.loop.RunUntilIdle()

	// the peer has no input or output, so only an unauthenticated key results
	f.simplePairing(sm.IOCapabilityNoInputNoOutput, hci.LinkKeyUnauthenticatedCombinationP192)
	f.encryptionChange()
	if n := f.count(cmd.AuthenticationRequestedOp); n != 2 {
		t.Fatalf("expected a second authentication, got %d", n)
	}
	if r.calls != 0 {
		t.Fatal("resolved before the upgrade attempt")
	}

	f.simplePairing(sm.IOCapabilityNoInputNoOutput, hci.LinkKeyUnauthenticatedCombinationP192)
	if r.calls != 1 || !bthost.IsHostError(r.err, bthost.ErrInsufficientSecurity) {
		t.Fatalf("expected insufficient security, got %+v", r)
	}
	if n := f.count(cmd.AuthenticationRequestedOp); n != 2 {
		t.Fatalf("expected exactly two authentications, got %d", n)
	}
	if d := f.lastDisconnect(); d == nil || d.Reason != uint8(hci.ErrAuthFailure) {
		t.Fatalf("expected disconnect, got %+v", d)
	}
}

func TestPairingTimeout(t *testing.T) {
	d := &testDelegate{ioCap: sm.IOCapabilityDisplayYesNo, accept: true}
	f := newFixture(t, OptPairingDelegate(d), OptPairingTimeout(10e9))
	p, _ := f.connect(testHandle, peerAddr)

	var r errResult
	f.m.Pair(p.ID(), sm.BrEdrSecurityRequirements{}, r.cb)
	f.loop.RunFor(10e9)
	if r.calls != 1 || !bthost.IsHostError(r.err, bthost.ErrTimedOut) {
		t.Fatalf("expected timeout, got %+v", r)
	}
	if f.lastDisconnect() == nil {
		t.Fatal("expected disconnect")
	}
}

func TestPairWithoutConnection(t *testing.T) {
	f := newFixture(t)
	p := f.cache.NewPeer(peerAddr)
	var r errResult
	f.m.Pair(p.ID(), sm.BrEdrSecurityRequirements{}, r.cb)
	f.loop.RunUntilIdle()
	if r.calls != 1 || !bthost.IsHostError(r.err, bthost.ErrNotFound) {
		t.Fatalf("expected not found, got %+v", r)
	}
}

func TestResponderPairing(t *testing.T) {
	d := &testDelegate{ioCap: sm.IOCapabilityDisplayYesNo, accept: true}
	f := newFixture(t, OptPairingDelegate(d))
	c := f.accept(testHandle, peerAddr)

	f.inject(evt.LinkKeyRequestCode, hcitest.LinkKeyRequest(peerAddr))
	f.inject(evt.IOCapabilityResponseCode, hcitest.IOCapabilityResponse(peerAddr, uint8(sm.IOCapabilityNoInputNoOutput), 0, sm.AuthReqMITMNotRequiredGeneralBonding))
	f.inject(evt.IOCapabilityRequestCode, hcitest.IOCapabilityRequest(peerAddr))
	reply := f.hci.CommandsOf(cmd.IOCapabilityRequestReplyOp)[0].(*cmd.IOCapabilityRequestReply)
	if want := sm.AuthenticationRequirements(sm.IOCapabilityDisplayYesNo, sm.IOCapabilityNoInputNoOutput); reply.AuthenticationRequirements != want {
		t.Fatalf("auth requirements 0x%02x, want 0x%02x", reply.AuthenticationRequirements, want)
	}

	f.inject(evt.UserConfirmationRequestCode, hcitest.UserConfirmationRequest(peerAddr, 0))
	if d.confirms != 1 || f.count(cmd.UserConfirmationRequestReplyOp) != 1 {
		t.Fatalf("expected the user to confirm just works pairing, got %d", d.confirms)
	}
	f.inject(evt.SimplePairingCompleteCode, hcitest.SimplePairingComplete(0, peerAddr))
	f.inject(evt.LinkKeyNotificationCode, hcitest.LinkKeyNotification(peerAddr, testKey, uint8(hci.LinkKeyUnauthenticatedCombinationP256)))
	f.encryptionChange()

	if len(d.completed) != 1 || d.completed[0] != nil {
		t.Fatalf("delegate completion %v", d.completed)
	}
	if c.Security().Level != sm.Encrypted {
		t.Fatalf("unexpected security %v", c.Security())
	}
	if f.count(cmd.AuthenticationRequestedOp) != 0 {
		t.Fatal("responder started authentication")
	}
}

func TestPasskeyEntry(t *testing.T) {
	d := &testDelegate{ioCap: sm.IOCapabilityKeyboardOnly, accept: true, passkey: 4242}
	f := newFixture(t, OptPairingDelegate(d))
	p, _ := f.connect(testHandle, peerAddr)

	f.m.Pair(p.ID(), sm.BrEdrSecurityRequirements{Authentication: true}, nil)
	f.loop.RunUntilIdle()
	f.inject(evt.IOCapabilityRequestCode, hcitest.IOCapabilityRequest(peerAddr))
	f.inject(evt.IOCapabilityResponseCode, hcitest.IOCapabilityResponse(peerAddr, uint8(sm.IOCapabilityDisplayOnly), 0, sm.AuthReqMITMRequiredGeneralBonding))
	f.inject(evt.UserPasskeyRequestCode, hcitest.UserPasskeyRequest(peerAddr))

	cs := f.hci.CommandsOf(cmd.UserPasskeyRequestReplyOp)
	if d.requested != 1 || len(cs) != 1 || cs[0].(*cmd.UserPasskeyRequestReply).NumericValue != 4242 {
		t.Fatalf("expected passkey 4242 sent, got %v", cs)
	}

	d.passkey = 1000000
	f.inject(evt.UserPasskeyRequestCode, hcitest.UserPasskeyRequest(peerAddr))
	if f.count(cmd.UserPasskeyRequestNegativeReplyOp) != 1 {
		t.Fatal("out of range passkey not refused")
	}
}

func TestPasskeyNotification(t *testing.T) {
	d := &testDelegate{ioCap: sm.IOCapabilityDisplayOnly}
	f := newFixture(t, OptPairingDelegate(d))
	f.accept(testHandle, peerAddr)

	f.inject(evt.UserPasskeyNotificationCode, hcitest.UserPasskeyNotification(peerAddr, 987654))
	if len(d.displayed) != 1 || d.displayed[0] != 987654 || d.methods[0] != sm.DisplayPeerEntry {
		t.Fatalf("expected passkey shown for peer entry, got %v %v", d.displayed, d.methods)
	}
}

func TestOpenChannelPairsFirst(t *testing.T) {
	d := &testDelegate{ioCap: sm.IOCapabilityNoInputNoOutput}
	f := newFixture(t, OptPairingDelegate(d))
	p, _ := f.connect(testHandle, peerAddr)

	var r chanResult
	f.m.OpenL2capChannel(p.ID(), l2cap.PSMAVDTP, sm.BrEdrSecurityRequirements{}, l2cap.ChannelParameters{}, r.cb)
	f.loop.RunUntilIdle()
	if f.count(cmd.AuthenticationRequestedOp) != 1 {
		t.Fatal("expected pairing before the channel opens")
	}
	if f.sentSignal(testHandle, l2cap.SignalConnectionRequest) {
		t.Fatal("channel requested on an unencrypted link")
	}

	f.simplePairing(sm.IOCapabilityNoInputNoOutput, hci.LinkKeyUnauthenticatedCombinationP192)
	f.encryptionChange()
	if !f.sentSignal(testHandle, l2cap.SignalConnectionRequest) {
		t.Fatal("expected an L2CAP connection request after pairing")
	}
	if r.calls != 0 {
		t.Fatalf("callback ran before the peer answered")
	}
}

func TestOpenChannelPairingFails(t *testing.T) {
	d := &testDelegate{ioCap: sm.IOCapabilityNoInputNoOutput}
	f := newFixture(t, OptPairingDelegate(d))
	p, _ := f.connect(testHandle, peerAddr)

	var r chanResult
	f.m.OpenL2capChannel(p.ID(), l2cap.PSMAVDTP, sm.BrEdrSecurityRequirements{}, l2cap.ChannelParameters{}, r.cb)
	f.loop.RunUntilIdle()
	f.inject(evt.AuthenticationCompleteCode, hcitest.AuthenticationComplete(uint8(hci.ErrAuthFailure), testHandle))

	if r.calls != 1 || r.ch != nil {
		t.Fatalf("expected a nil channel, got %+v", r)
	}
	if f.sentSignal(testHandle, l2cap.SignalConnectionRequest) {
		t.Fatal("channel requested after pairing failed")
	}
}

func TestOpenSDPChannelSkipsPairing(t *testing.T) {
	f := newFixture(t)
	p, _ := f.connect(testHandle, peerAddr)

	var r chanResult
	f.m.OpenL2capChannel(p.ID(), l2cap.PSMSDP, sm.BrEdrSecurityRequirements{}, l2cap.ChannelParameters{}, r.cb)
	f.loop.RunUntilIdle()
	if !f.sentSignal(testHandle, l2cap.SignalConnectionRequest) {
		t.Fatal("expected an L2CAP connection request")
	}
	if f.count(cmd.AuthenticationRequestedOp) != 0 {
		t.Fatal("paired for sdp")
	}
}

func TestOpenChannelBeforeReady(t *testing.T) {
	f := newFixture(t)
	p := f.cache.NewPeer(peerAddr)
	f.m.Connect(p.ID(), func(*Connection, error) {})
	f.loop.RunUntilIdle()
	f.connectionComplete(testHandle, peerAddr)

	var r chanResult
	f.m.OpenL2capChannel(p.ID(), l2cap.PSMSDP, sm.BrEdrSecurityRequirements{}, l2cap.ChannelParameters{}, r.cb)
	f.loop.RunUntilIdle()
	if f.sentSignal(testHandle, l2cap.SignalConnectionRequest) {
		t.Fatal("channel requested during interrogation")
	}

	f.disconnectionComplete(testHandle, hci.ErrRemoteUser)
	if r.calls != 1 || r.ch != nil {
		t.Fatalf("expected the pending open to fail, got %+v", r)
	}
}

func TestOpenChannelWithoutConnection(t *testing.T) {
	f := newFixture(t)
	p := f.cache.NewPeer(peerAddr)
	var r chanResult
	f.m.OpenL2capChannel(p.ID(), l2cap.PSMSDP, sm.BrEdrSecurityRequirements{}, l2cap.ChannelParameters{}, r.cb)
	f.loop.RunUntilIdle()
	if r.calls != 1 || r.ch != nil {
		t.Fatalf("expected a nil channel, got %+v", r)
	}
}

func TestRegisterServiceConflict(t *testing.T) {
	f := newFixture(t)
	cb := func(bthost.PeerID, *l2cap.Channel) {}
	if !f.m.RegisterService([]l2cap.PSM{l2cap.PSMAVDTP}, l2cap.ChannelParameters{}, sm.BrEdrSecurityRequirements{}, cb) {
		t.Fatal("first registration refused")
	}
	if f.m.RegisterService([]l2cap.PSM{l2cap.PSMSDP, l2cap.PSMAVDTP}, l2cap.ChannelParameters{}, sm.BrEdrSecurityRequirements{}, cb) {
		t.Fatal("conflicting registration accepted")
	}
	// the rollback freed sdp
	if !f.m.RegisterService([]l2cap.PSM{l2cap.PSMSDP}, l2cap.ChannelParameters{}, sm.BrEdrSecurityRequirements{}, cb) {
		t.Fatal("sdp left registered after a failed registration")
	}
	f.m.UnregisterService(l2cap.PSMAVDTP)
	if !f.m.RegisterService([]l2cap.PSM{l2cap.PSMAVDTP}, l2cap.ChannelParameters{}, sm.BrEdrSecurityRequirements{}, cb) {
		t.Fatal("unregistered psm still taken")
	}
}
