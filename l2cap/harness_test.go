package l2cap

import (
	"encoding/binary"
	"testing"

	"github.com/rigado/bthost/dispatch"
	"github.com/rigado/bthost/linux/hci"
	"github.com/rigado/bthost/linux/hci/hcitest"
)

const testHandle = 0x0001

type sigCmd struct {
	code    CommandCode
	id      CommandID
	payload []byte
}

type harness struct {
	t    *testing.T
	loop *dispatch.TestLoop
	fake *hcitest.Fake
	mgr  *ChannelManager
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()
	loop := dispatch.NewTestLoop()
	fake := hcitest.New(loop)
	mgr, err := NewChannelManager(loop, fake, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return &harness{t: t, loop: loop, fake: fake, mgr: mgr}
}

func frame(cid ChannelID, payload []byte) []byte {
	b := make([]byte, BasicHeaderSize+len(payload))
	binary.LittleEndian.PutUint16(b[0:], uint16(len(payload)))
	binary.LittleEndian.PutUint16(b[2:], uint16(cid))
	copy(b[BasicHeaderSize:], payload)
	return b
}

func (h *harness) inject(handle uint16, cid ChannelID, payload []byte) {
	h.fake.InjectACL(hci.NewACLPacket(handle, hci.PbfFlushableStart, frame(cid, payload)))
	h.loop.RunUntilIdle()
}

func signalBytes(code CommandCode, id CommandID, payload []byte) []byte {
	b := make([]byte, signalingHeaderSize+len(payload))
	b[0], b[1] = uint8(code), uint8(id)
	binary.LittleEndian.PutUint16(b[2:], uint16(len(payload)))
	copy(b[signalingHeaderSize:], payload)
	return b
}

func (h *harness) injectSignal(handle uint16, sigCID ChannelID, id CommandID, s Signal) {
	h.inject(handle, sigCID, signalBytes(CommandCode(s.Code()), id, s.Marshal()))
}

// signals parses every command sent on the signaling channel sigCID.
func (h *harness) signals(handle uint16, sigCID ChannelID) []sigCmd {
	var out []sigCmd
	for _, s := range h.fake.SentOn(handle) {
		f := bframe(s.Frame())
		if f.channelID() != sigCID {
			continue
		}
		if s.Priority != hci.PriorityHigh {
			h.t.Errorf("signaling frame sent with priority %d", s.Priority)
		}
		b := f.payload()
		for len(b) >= signalingHeaderSize {
			n := int(binary.LittleEndian.Uint16(b[2:]))
			out = append(out, sigCmd{code: CommandCode(b[0]), id: CommandID(b[1]), payload: b[4 : 4+n]})
			b = b[4+n:]
		}
	}
	return out
}

func (h *harness) signalsOf(handle uint16, sigCID ChannelID, code CommandCode) []sigCmd {
	var out []sigCmd
	for _, c := range h.signals(handle, sigCID) {
		if c.code == code {
			out = append(out, c)
		}
	}
	return out
}

func (h *harness) lastSignal(handle uint16, sigCID ChannelID, code CommandCode) sigCmd {
	h.t.Helper()
	cmds := h.signalsOf(handle, sigCID, code)
	if len(cmds) == 0 {
		h.t.Fatalf("no command 0x%02x sent", code)
	}
	return cmds[len(cmds)-1]
}

// dataFrames returns the payloads sent on the remote channel cid.
func (h *harness) dataFrames(handle uint16, cid ChannelID) [][]byte {
	var out [][]byte
	for _, s := range h.fake.SentOn(handle) {
		f := bframe(s.Frame())
		if f.channelID() == cid {
			out = append(out, f.payload())
		}
	}
	return out
}

// addACL registers a BR/EDR link and answers its information requests.
func (h *harness) addACL(handle uint16, features ExtendedFeatures) {
	h.mgr.AddACLConnection(handle, hci.RoleMaster, nil, nil)
	h.loop.RunUntilIdle()

	req := h.lastSignal(handle, SignalingChannelID, SignalInformationRequest)
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, uint32(features))
	h.injectSignal(handle, SignalingChannelID, req.id, &InformationResponse{InfoType: InfoExtendedFeatures, Result: InfoSuccess, Data: data})
	if features&FeatureFixedChannels != 0 {
		req = h.lastSignal(handle, SignalingChannelID, SignalInformationRequest)
		h.injectSignal(handle, SignalingChannelID, req.id, &InformationResponse{InfoType: InfoFixedChannels, Result: InfoSuccess, Data: make([]byte, 8)})
	}
}

// openOutbound runs the outbound open of psm to completion with a peer that
// assigns remoteCID and requests peerOpts.
func (h *harness) openOutbound(handle uint16, psm PSM, params ChannelParameters, remoteCID ChannelID, peerOpts ConfigOptions) *Channel {
	h.t.Helper()
	var ch *Channel
	h.mgr.OpenL2capChannel(handle, psm, params, func(c *Channel) { ch = c })
	h.loop.RunUntilIdle()

	conn := h.lastSignal(handle, SignalingChannelID, SignalConnectionRequest)
	var cr ConnectionRequest
	if err := cr.Unmarshal(conn.payload); err != nil {
		h.t.Fatal(err)
	}
	h.injectSignal(handle, SignalingChannelID, conn.id, &ConnectionResponse{DestinationCID: uint16(remoteCID), SourceCID: cr.SourceCID})

	cfg := h.lastSignal(handle, SignalingChannelID, SignalConfigurationRequest)
	h.injectSignal(handle, SignalingChannelID, cfg.id, &ConfigurationResponse{SourceCID: cr.SourceCID})
	h.injectSignal(handle, SignalingChannelID, 0x70, &ConfigurationRequest{DestinationCID: cr.SourceCID, Options: peerOpts.Encode()})
	if ch == nil {
		h.t.Fatal("channel not opened")
	}
	return ch
}
