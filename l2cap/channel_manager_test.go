package l2cap

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/rigado/bthost/dispatch"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/linux/hci/hcitest"
	"github.com/rigado/bthost/sm"
)

func TestOutboundBasicChannel(t *testing.T) {
	h := newHarness(t)
	h.addACL(testHandle, 0)
	h.fake.ClearSent()

	var ch *Channel
	calls := 0
	h.mgr.OpenL2capChannel(testHandle, PSMAVDTP, ChannelParameters{}, func(c *Channel) {
		calls++
		ch = c
	})
	h.loop.RunUntilIdle()

	conns := h.signalsOf(testHandle, SignalingChannelID, SignalConnectionRequest)
	if len(conns) != 1 {
		t.Fatalf("expected 1 connection request, got %d", len(conns))
	}
	var cr ConnectionRequest
	if err := cr.Unmarshal(conns[0].payload); err != nil {
		t.Fatal(err)
	}
	if PSM(cr.PSM) != PSMAVDTP || ChannelID(cr.SourceCID) != FirstDynamicChannelID {
		t.Fatalf("connection request %+v", cr)
	}
	h.injectSignal(testHandle, SignalingChannelID, conns[0].id, &ConnectionResponse{DestinationCID: 0x0041, SourceCID: cr.SourceCID})

	cfgs := h.signalsOf(testHandle, SignalingChannelID, SignalConfigurationRequest)
	if len(cfgs) != 1 {
		t.Fatalf("expected 1 configuration request, got %d", len(cfgs))
	}
	var req ConfigurationRequest
	if err := req.Unmarshal(cfgs[0].payload); err != nil {
		t.Fatal(err)
	}
	if req.DestinationCID != 0x0041 {
		t.Fatalf("configuration request for %v", ChannelID(req.DestinationCID))
	}
	if exp := []byte{0x01, 0x02, 0xA0, 0x02}; !bytes.Equal(req.Options, exp) {
		t.Fatalf("expected options [% x], got [% x]", exp, req.Options)
	}

	h.injectSignal(testHandle, SignalingChannelID, cfgs[0].id, &ConfigurationResponse{SourceCID: cr.SourceCID})
	if calls != 0 {
		t.Fatal("channel opened before the peer configured it")
	}

	mtu := ConfigOptions{MTU: uint16Ptr(0x0200)}
	h.injectSignal(testHandle, SignalingChannelID, 0x70, &ConfigurationRequest{DestinationCID: cr.SourceCID, Options: mtu.Encode()})
	if calls != 1 || ch == nil {
		t.Fatalf("expected open channel, calls %d", calls)
	}

	rsp := h.lastSignal(testHandle, SignalingChannelID, SignalConfigurationResponse)
	var cfgRsp ConfigurationResponse
	if err := cfgRsp.Unmarshal(rsp.payload); err != nil {
		t.Fatal(err)
	}
	if rsp.id != 0x70 || cfgRsp.Result != ConfigurationSuccess || cfgRsp.SourceCID != 0x0041 {
		t.Fatalf("configuration response id %d %+v", rsp.id, cfgRsp)
	}

	if ch.Mode() != ModeBasic || ch.MaxRxSDUSize() != DefaultMTU || ch.MaxTxSDUSize() != 0x0200 {
		t.Fatalf("channel info %+v", ch.Info())
	}
	if ch.ID() != 0x0040 || ch.RemoteID() != 0x0041 || ch.Info().PSM != PSMAVDTP {
		t.Fatalf("channel ids %v/%v", ch.ID(), ch.RemoteID())
	}

	var rx [][]byte
	if !ch.Activate(func(sdu []byte) { rx = append(rx, sdu) }, nil) {
		t.Fatal("activate failed")
	}
	if !ch.Send([]byte{1, 2, 3}) {
		t.Fatal("send failed")
	}
	if ch.Send(make([]byte, 0x0201)) {
		t.Fatal("sdu over the peer's mtu accepted")
	}
	frames := h.dataFrames(testHandle, 0x0041)
	if len(frames) != 1 || !bytes.Equal(frames[0], []byte{1, 2, 3}) {
		t.Fatalf("sent %x", frames)
	}

	h.inject(testHandle, 0x0040, []byte{4, 5})
	if len(rx) != 1 || !bytes.Equal(rx[0], []byte{4, 5}) {
		t.Fatalf("received %x", rx)
	}
}

func TestOpenUnknownHandle(t *testing.T) {
	h := newHarness(t)
	called := false
	h.mgr.OpenL2capChannel(0x0123, PSMSDP, ChannelParameters{}, func(c *Channel) {
		called = true
		if c != nil {
			t.Error("expected nil channel")
		}
	})
	if called {
		t.Fatal("callback ran synchronously")
	}
	h.loop.RunUntilIdle()
	if !called {
		t.Fatal("callback not called")
	}
}

func TestOutboundRefused(t *testing.T) {
	h := newHarness(t)
	h.addACL(testHandle, 0)

	var got []*Channel
	h.mgr.OpenL2capChannel(testHandle, PSMRFCOMM, ChannelParameters{}, func(c *Channel) { got = append(got, c) })
	h.loop.RunUntilIdle()
	conn := h.lastSignal(testHandle, SignalingChannelID, SignalConnectionRequest)

	h.injectSignal(testHandle, SignalingChannelID, conn.id, &ConnectionResponse{SourceCID: 0x0040, Result: ConnectionPending, Status: ConnectionStatusAuthenticationPending})
	if len(got) != 0 {
		t.Fatal("pending response completed the open")
	}
	h.injectSignal(testHandle, SignalingChannelID, conn.id, &ConnectionResponse{SourceCID: 0x0040, Result: ConnectionSecurityBlock})
	if len(got) != 1 || got[0] != nil {
		t.Fatalf("expected one nil callback, got %v", got)
	}
	if n := len(h.signalsOf(testHandle, SignalingChannelID, SignalConfigurationRequest)); n != 0 {
		t.Fatalf("sent %d configuration requests", n)
	}
}

func TestOutboundTimeout(t *testing.T) {
	h := newHarness(t)
	h.addACL(testHandle, 0)

	called := false
	h.mgr.OpenL2capChannel(testHandle, PSMRFCOMM, ChannelParameters{}, func(c *Channel) {
		called = true
		if c != nil {
			t.Error("expected nil channel")
		}
	})
	h.loop.RunFor(DefaultRTX)
	if !called {
		t.Fatal("open did not fail on rtx expiry")
	}
}

func TestSignalingTimeoutsOption(t *testing.T) {
	if _, err := NewChannelManager(dispatch.NewTestLoop(), hcitest.New(dispatch.NewTestLoop()), OptSignalingTimeouts(0, DefaultERTX)); err == nil {
		t.Fatal("zero rtx accepted")
	}

	h := newHarness(t, OptSignalingTimeouts(3*time.Second, 20*time.Second))
	h.addACL(testHandle, 0)

	called := false
	h.mgr.OpenL2capChannel(testHandle, PSMRFCOMM, ChannelParameters{}, func(c *Channel) { called = true })
	h.loop.RunFor(DefaultRTX)
	if called {
		t.Fatal("open failed on the default rtx")
	}
	h.loop.RunFor(2 * time.Second)
	if !called {
		t.Fatal("open did not fail on the configured rtx")
	}

	called = false
	h.mgr.OpenL2capChannel(testHandle, PSMRFCOMM, ChannelParameters{}, func(c *Channel) { called = true })
	h.loop.RunUntilIdle()
	conn := h.lastSignal(testHandle, SignalingChannelID, SignalConnectionRequest)
	h.injectSignal(testHandle, SignalingChannelID, conn.id, &ConnectionResponse{Result: ConnectionPending})
	h.loop.RunFor(19 * time.Second)
	if called {
		t.Fatal("pending open failed before the configured ertx")
	}
	h.loop.RunFor(time.Second)
	if !called {
		t.Fatal("pending open did not fail on the configured ertx")
	}
}

func TestRandomChannelIDs(t *testing.T) {
	h := newHarness(t, OptRandomChannelIDs(true))
	h.mgr.AddACLConnection(testHandle, hci.RoleMaster, nil, nil)
	h.mgr.AddLEConnection(0x0002, hci.RoleMaster, nil, nil, nil)
	h.loop.RunUntilIdle()

	acl, _ := h.mgr.Link(testHandle)
	spread := false
	for i := 0; i < 500; i++ {
		cid := acl.allocChannelID()
		if cid < FirstDynamicChannelID || cid > LastACLDynamicChannelID {
			t.Fatalf("acl cid %v out of range", cid)
		}
		if acl.channelIDInUse(cid) {
			t.Fatalf("acl cid %v allocated twice", cid)
		}
		if cid > FirstDynamicChannelID+500 {
			spread = true
		}
		acl.disconnecting[cid] = true
	}
	if !spread {
		t.Fatal("acl cids allocated lowest first")
	}

	le, _ := h.mgr.Link(0x0002)
	n := int(LastLEDynamicChannelID-FirstDynamicChannelID) + 1
	for i := 0; i < n; i++ {
		cid := le.allocChannelID()
		if cid < FirstDynamicChannelID || cid > LastLEDynamicChannelID {
			t.Fatalf("le cid %v out of range", cid)
		}
		if le.channelIDInUse(cid) {
			t.Fatalf("le cid %v allocated twice", cid)
		}
		le.disconnecting[cid] = true
	}
	if cid := le.allocChannelID(); cid != InvalidChannelID {
		t.Fatalf("expected no free le cid, got %v", cid)
	}
}

func TestInboundChannel(t *testing.T) {
	h := newHarness(t)
	h.addACL(testHandle, 0)

	var ch *Channel
	if !h.mgr.RegisterService(PSMSDP, ChannelParameters{}, func(c *Channel) { ch = c }) {
		t.Fatal("register failed")
	}
	if h.mgr.RegisterService(PSMSDP, ChannelParameters{}, nil) {
		t.Fatal("duplicate registration accepted")
	}

	h.injectSignal(testHandle, SignalingChannelID, 3, &ConnectionRequest{PSM: uint16(PSMSDP), SourceCID: 0x0060})
	c := h.lastSignal(testHandle, SignalingChannelID, SignalConnectionResponse)
	var rsp ConnectionResponse
	if err := rsp.Unmarshal(c.payload); err != nil {
		t.Fatal(err)
	}
	if c.id != 3 || rsp.Result != ConnectionSuccess || rsp.SourceCID != 0x0060 || rsp.DestinationCID != 0x0040 {
		t.Fatalf("connection response id %d %+v", c.id, rsp)
	}

	cfg := h.lastSignal(testHandle, SignalingChannelID, SignalConfigurationRequest)
	h.injectSignal(testHandle, SignalingChannelID, 4, &ConfigurationRequest{DestinationCID: 0x0040})
	if ch != nil {
		t.Fatal("opened before our configuration was accepted")
	}
	h.injectSignal(testHandle, SignalingChannelID, cfg.id, &ConfigurationResponse{SourceCID: 0x0040})
	if ch == nil {
		t.Fatal("service not called")
	}
	if ch.MaxTxSDUSize() != DefaultMTU || ch.RemoteID() != 0x0060 {
		t.Fatalf("channel info %+v", ch.Info())
	}

	// same source cid again
	h.injectSignal(testHandle, SignalingChannelID, 5, &ConnectionRequest{PSM: uint16(PSMSDP), SourceCID: 0x0060})
	c = h.lastSignal(testHandle, SignalingChannelID, SignalConnectionResponse)
	rsp.Unmarshal(c.payload)
	if c.id != 5 || rsp.Result != ConnectionSourceCIDAlreadyAllocated {
		t.Fatalf("expected source cid already allocated, got %+v", rsp)
	}
}

func TestInboundRejected(t *testing.T) {
	h := newHarness(t)
	h.addACL(testHandle, 0)
	h.mgr.RegisterService(PSMSDP, ChannelParameters{}, func(*Channel) { t.Error("service called") })
	h.fake.ClearSent()

	tests := []struct {
		psm    PSM
		src    uint16
		result uint16
	}{
		{PSMRFCOMM, 0x0060, ConnectionPSMNotSupported},
		{PSMSDP, 0x0001, ConnectionInvalidSourceCID},
	}
	for i, tt := range tests {
		id := CommandID(10 + i)
		h.injectSignal(testHandle, SignalingChannelID, id, &ConnectionRequest{PSM: uint16(tt.psm), SourceCID: tt.src})
		c := h.lastSignal(testHandle, SignalingChannelID, SignalConnectionResponse)
		var rsp ConnectionResponse
		rsp.Unmarshal(c.payload)
		if c.id != id || rsp.Result != tt.result || rsp.DestinationCID != 0 {
			t.Errorf("psm %v src 0x%04x: %+v", tt.psm, tt.src, rsp)
		}
	}
	if n := len(h.signalsOf(testHandle, SignalingChannelID, SignalConfigurationRequest)); n != 0 {
		t.Fatalf("sent %d configuration requests", n)
	}
}

func TestChannelActivationBuffering(t *testing.T) {
	h := newHarness(t)
	h.addACL(testHandle, 0)
	ch := h.openOutbound(testHandle, PSMAVDTP, ChannelParameters{}, 0x0041, ConfigOptions{})

	h.inject(testHandle, 0x0040, []byte{1})
	h.inject(testHandle, 0x0040, []byte{2})

	var rx []byte
	ch.Activate(func(sdu []byte) { rx = append(rx, sdu...) }, nil)
	h.inject(testHandle, 0x0040, []byte{3})
	if !bytes.Equal(rx, []byte{1, 2, 3}) {
		t.Fatalf("delivered %x", rx)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("second activate did not panic")
		}
	}()
	ch.Activate(func([]byte) {}, nil)
}

func TestChannelDeactivate(t *testing.T) {
	h := newHarness(t)
	h.addACL(testHandle, 0)
	ch := h.openOutbound(testHandle, PSMAVDTP, ChannelParameters{}, 0x0041, ConfigOptions{})
	closed := false
	ch.Activate(func([]byte) { t.Error("data after deactivate") }, func() { closed = true })

	ch.Deactivate()
	ch.Deactivate()
	h.loop.RunUntilIdle()

	reqs := h.signalsOf(testHandle, SignalingChannelID, SignalDisconnectRequest)
	if len(reqs) != 1 {
		t.Fatalf("expected 1 disconnect request, got %d", len(reqs))
	}
	var req DisconnectRequest
	req.Unmarshal(reqs[0].payload)
	if req.DestinationCID != 0x0041 || req.SourceCID != 0x0040 {
		t.Fatalf("disconnect request %+v", req)
	}
	if closed {
		t.Fatal("close callback called for local deactivation")
	}
	if ch.Send([]byte{1}) {
		t.Fatal("send accepted after deactivate")
	}
	h.inject(testHandle, 0x0040, []byte{1})

	// the id stays reserved until the peer answers
	h.mgr.OpenL2capChannel(testHandle, PSMSDP, ChannelParameters{}, func(*Channel) {})
	h.loop.RunUntilIdle()
	var cr ConnectionRequest
	cr.Unmarshal(h.lastSignal(testHandle, SignalingChannelID, SignalConnectionRequest).payload)
	if cr.SourceCID == 0x0040 {
		t.Fatal("reused a cid still being disconnected")
	}
}

func TestRemoteDisconnect(t *testing.T) {
	h := newHarness(t)
	h.addACL(testHandle, 0)
	ch := h.openOutbound(testHandle, PSMAVDTP, ChannelParameters{}, 0x0041, ConfigOptions{})
	closed := 0
	ch.Activate(func([]byte) {}, func() { closed++ })

	h.injectSignal(testHandle, SignalingChannelID, 8, &DisconnectRequest{DestinationCID: 0x0040, SourceCID: 0x0041})
	c := h.lastSignal(testHandle, SignalingChannelID, SignalDisconnectResponse)
	if c.id != 8 || closed != 1 {
		t.Fatalf("response id %d, closed %d", c.id, closed)
	}

	// unknown channel
	h.injectSignal(testHandle, SignalingChannelID, 9, &DisconnectRequest{DestinationCID: 0x0040, SourceCID: 0x0041})
	c = h.lastSignal(testHandle, SignalingChannelID, SignalCommandReject)
	if c.id != 9 || binary.LittleEndian.Uint16(c.payload) != RejectInvalidCID {
		t.Fatalf("expected invalid cid reject, got id %d [% x]", c.id, c.payload)
	}
}

func TestRemoveConnection(t *testing.T) {
	h := newHarness(t)
	h.addACL(testHandle, 0)
	ch := h.openOutbound(testHandle, PSMAVDTP, ChannelParameters{}, 0x0041, ConfigOptions{})
	closed := false
	ch.Activate(func([]byte) {}, func() { closed = true })

	failed := false
	h.mgr.OpenL2capChannel(testHandle, PSMSDP, ChannelParameters{}, func(c *Channel) { failed = c == nil })
	h.loop.RunUntilIdle()

	h.mgr.RemoveConnection(testHandle)
	h.loop.RunUntilIdle()
	if !closed || !failed {
		t.Fatalf("closed %v, pending open failed %v", closed, failed)
	}
	if h.fake.IsRegistered(testHandle) {
		t.Fatal("link still registered")
	}
	if ch.Send([]byte{1}) {
		t.Fatal("send accepted on removed link")
	}
	ch.Deactivate()

	var upgradeErr error
	ch.UpgradeSecurity(sm.Encrypted, func(err error) { upgradeErr = err })
	h.loop.RunUntilIdle()
	if upgradeErr == nil {
		t.Fatal("security upgrade on a removed link succeeded")
	}
	if h.loop.PendingTimers() != 0 {
		t.Fatalf("%d timers left", h.loop.PendingTimers())
	}
}

func TestOpenQueuedUntilInfoExchange(t *testing.T) {
	h := newHarness(t)
	h.mgr.AddACLConnection(testHandle, hci.RoleSlave, nil, nil)
	h.loop.RunUntilIdle()

	h.mgr.OpenL2capChannel(testHandle, PSMSDP, ChannelParameters{}, func(*Channel) {})
	h.loop.RunUntilIdle()
	if n := len(h.signalsOf(testHandle, SignalingChannelID, SignalConnectionRequest)); n != 0 {
		t.Fatalf("connection request sent during information exchange")
	}

	info := h.lastSignal(testHandle, SignalingChannelID, SignalInformationRequest)
	h.injectSignal(testHandle, SignalingChannelID, info.id, &CommandReject{Reason: RejectNotUnderstood})
	if n := len(h.signalsOf(testHandle, SignalingChannelID, SignalConnectionRequest)); n != 1 {
		t.Fatalf("expected 1 connection request, got %d", n)
	}
	l, _ := h.mgr.Link(testHandle)
	if f, done := l.RemoteFeatures(); !done || f != 0 {
		t.Fatalf("features 0x%x done %v", f, done)
	}
}

func TestFixedChannelsInfoExchange(t *testing.T) {
	h := newHarness(t)
	h.addACL(testHandle, FeatureFixedChannels|FeatureEnhancedRetransmission)
	if n := len(h.signalsOf(testHandle, SignalingChannelID, SignalInformationRequest)); n != 2 {
		t.Fatalf("expected 2 information requests, got %d", n)
	}
	l, _ := h.mgr.Link(testHandle)
	if f, done := l.RemoteFeatures(); !done || f&FeatureEnhancedRetransmission == 0 {
		t.Fatalf("features 0x%x done %v", f, done)
	}
}

func TestInformationResponder(t *testing.T) {
	h := newHarness(t)
	h.addACL(testHandle, 0)

	tests := []struct {
		info   uint16
		result uint16
		data   int
	}{
		{InfoExtendedFeatures, InfoSuccess, 4},
		{InfoFixedChannels, InfoSuccess, 8},
		{InfoConnectionlessMTU, InfoNotSupported, 0},
	}
	for i, tt := range tests {
		id := CommandID(0x20 + i)
		h.injectSignal(testHandle, SignalingChannelID, id, &InformationRequest{InfoType: tt.info})
		c := h.lastSignal(testHandle, SignalingChannelID, SignalInformationResponse)
		var rsp InformationResponse
		if err := rsp.Unmarshal(c.payload); err != nil {
			t.Fatal(err)
		}
		if c.id != id || rsp.InfoType != tt.info || rsp.Result != tt.result || len(rsp.Data) != tt.data {
			t.Errorf("info type %d: %+v", tt.info, rsp)
		}
		if tt.info == InfoExtendedFeatures {
			f := ExtendedFeatures(binary.LittleEndian.Uint32(rsp.Data))
			if f&FeatureEnhancedRetransmission == 0 || f&FeatureFixedChannels == 0 {
				t.Errorf("features 0x%08x", uint32(f))
			}
		}
		if tt.info == InfoFixedChannels {
			fc := FixedChannelsSupported(binary.LittleEndian.Uint64(rsp.Data))
			for cid := ChannelID(1); cid < FirstDynamicChannelID; cid++ {
				served := cid == SignalingChannelID || h.mgr.OpenFixedChannel(testHandle, cid) != nil
				if fc.Has(cid) != served {
					t.Errorf("fixed channels 0x%016x: cid %v advertised %v, served %v", uint64(fc), cid, fc.Has(cid), served)
				}
			}
		}
	}
}

func TestDataBeforeConnectionComplete(t *testing.T) {
	h := newHarness(t)
	h.fake.InjectACL(hci.NewACLPacket(0x0002, hci.PbfFlushableStart, frame(SignalingChannelID, signalBytes(SignalEchoRequest, 7, []byte{0xAA}))))
	h.loop.RunUntilIdle()
	if len(h.fake.Sent()) != 0 {
		t.Fatal("answered data for an unknown handle")
	}

	h.mgr.AddACLConnection(0x0002, hci.RoleMaster, nil, nil)
	h.loop.RunUntilIdle()
	c := h.lastSignal(0x0002, SignalingChannelID, SignalEchoResponse)
	if c.id != 7 || !bytes.Equal(c.payload, []byte{0xAA}) {
		t.Fatalf("echo response id %d [% x]", c.id, c.payload)
	}
}

func TestDataForRemovedHandleDropped(t *testing.T) {
	h := newHarness(t)
	h.mgr.AddACLConnection(0x0002, hci.RoleMaster, nil, nil)
	h.loop.RunUntilIdle()
	h.mgr.RemoveConnection(0x0002)
	h.fake.ClearSent()

	h.fake.InjectACL(hci.NewACLPacket(0x0002, hci.PbfFlushableStart, frame(SignalingChannelID, signalBytes(SignalEchoRequest, 9, []byte{0xBB}))))
	h.loop.RunUntilIdle()

	h.mgr.AddACLConnection(0x0002, hci.RoleMaster, nil, nil)
	h.loop.RunUntilIdle()
	if n := len(h.signalsOf(0x0002, SignalingChannelID, SignalEchoResponse)); n != 0 {
		t.Fatalf("frame of the removed link delivered to the new one: %d echo responses", n)
	}

	// the new link is served normally
	h.injectSignal(0x0002, SignalingChannelID, 10, &EchoRequest{Data: []byte{0xCC}})
	c := h.lastSignal(0x0002, SignalingChannelID, SignalEchoResponse)
	if c.id != 10 || !bytes.Equal(c.payload, []byte{0xCC}) {
		t.Fatalf("echo response id %d [% x]", c.id, c.payload)
	}
}

func TestDuplicateLinkPanics(t *testing.T) {
	h := newHarness(t)
	h.mgr.AddACLConnection(testHandle, hci.RoleMaster, nil, nil)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	h.mgr.AddACLConnection(testHandle, hci.RoleMaster, nil, nil)
}

func TestLinkErrorAndPriority(t *testing.T) {
	h := newHarness(t)
	linkErrors := 0
	h.mgr.AddACLConnection(testHandle, hci.RoleMaster, func() { linkErrors++ }, nil)
	h.injectSignal(testHandle, SignalingChannelID, 1, &InformationResponse{})
	ch := h.openOutbound(testHandle, PSMAVDTP, ChannelParameters{}, 0x0041, ConfigOptions{})

	ch.SignalLinkError()
	if linkErrors != 1 {
		t.Fatalf("link errors %d", linkErrors)
	}

	called := false
	var perr error
	ch.RequestAclPriority(hci.AclPrioritySink, func(err error) { called, perr = true, err })
	h.loop.RunUntilIdle()
	if !called || perr != nil || h.fake.AclPriority(testHandle) != hci.AclPrioritySink {
		t.Fatalf("priority err %v, priority %v", perr, h.fake.AclPriority(testHandle))
	}
}

func TestOutboundERTMChannel(t *testing.T) {
	h := newHarness(t)
	h.addACL(testHandle, FeatureEnhancedRetransmission|FeatureFCSOption)

	mode := ModeEnhancedRetransmission
	var ch *Channel
	h.mgr.OpenL2capChannel(testHandle, PSMRFCOMM, ChannelParameters{Mode: &mode}, func(c *Channel) { ch = c })
	h.loop.RunUntilIdle()
	conn := h.lastSignal(testHandle, SignalingChannelID, SignalConnectionRequest)
	h.injectSignal(testHandle, SignalingChannelID, conn.id, &ConnectionResponse{DestinationCID: 0x0041, SourceCID: 0x0040})

	cfg := h.lastSignal(testHandle, SignalingChannelID, SignalConfigurationRequest)
	var req ConfigurationRequest
	req.Unmarshal(cfg.payload)
	opts, err := DecodeConfigOptions(req.Options)
	if err != nil {
		t.Fatal(err)
	}
	if opts.RFC == nil || opts.RFC.Mode != ModeEnhancedRetransmission || opts.RFC.TxWindowSize != DefaultTxWindow {
		t.Fatalf("configuration request %v", opts)
	}

	peerRFC := &RFCOption{Mode: ModeEnhancedRetransmission, TxWindowSize: 10, MaxTransmit: 3, MaxPDUSize: 100}
	accepted := ConfigOptions{RFC: &RFCOption{Mode: ModeEnhancedRetransmission, TxWindowSize: 63, MaxTransmit: 3, RetransmissionTimeout: 1000, MonitorTimeout: 5000, MaxPDUSize: 1010}}
	h.injectSignal(testHandle, SignalingChannelID, cfg.id, &ConfigurationResponse{SourceCID: 0x0040, Options: accepted.Encode()})
	h.injectSignal(testHandle, SignalingChannelID, 0x71, &ConfigurationRequest{DestinationCID: 0x0040, Options: ConfigOptions{RFC: peerRFC}.Encode()})
	if ch == nil {
		t.Fatal("channel not opened")
	}
	info := ch.Info()
	if info.Mode != ModeEnhancedRetransmission || info.FCS != FCS16 || info.NFramesInTxWindow != 10 || info.MaxTxPDUPayloadSize != 100 {
		t.Fatalf("channel info %+v", info)
	}

	var rx [][]byte
	ch.Activate(func(sdu []byte) { rx = append(rx, sdu) }, nil)
	ch.Send([]byte{0xAB})
	frames := h.dataFrames(testHandle, 0x0041)
	if len(frames) != 1 || len(frames[0]) != ertmControlSize+1+FCSSize {
		t.Fatalf("sent %x", frames)
	}

	// inbound I-frame with a valid and then a corrupted FCS
	pdu := iFrame(0, 0, sarUnsegmented, false, []byte{0xCD})
	withFCS := func(corrupt bool) []byte {
		hdr := frame(0x0040, append(append([]byte(nil), pdu...), 0, 0))
		n := len(hdr) - FCSSize
		fcs := ComputeFCS(hdr[:n], 0)
		if corrupt {
			fcs ^= 1
		}
		binary.LittleEndian.PutUint16(hdr[n:], uint16(fcs))
		return hdr
	}
	h.fake.InjectACL(hci.NewACLPacket(testHandle, hci.PbfFlushableStart, withFCS(true)))
	h.loop.RunUntilIdle()
	if len(rx) != 0 {
		t.Fatal("delivered frame with bad fcs")
	}
	h.fake.InjectACL(hci.NewACLPacket(testHandle, hci.PbfFlushableStart, withFCS(false)))
	h.loop.RunUntilIdle()
	if len(rx) != 1 || !bytes.Equal(rx[0], []byte{0xCD}) {
		t.Fatalf("received %x", rx)
	}
}

func TestERTMFallsBackWithoutPeerSupport(t *testing.T) {
	h := newHarness(t)
	h.addACL(testHandle, 0)
	mode := ModeEnhancedRetransmission
	ch := h.openOutbound(testHandle, PSMRFCOMM, ChannelParameters{Mode: &mode}, 0x0041, ConfigOptions{})
	if ch.Mode() != ModeBasic {
		t.Fatalf("mode %v", ch.Mode())
	}
}
