package l2cap

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/rigado/bthost"
	"github.com/rigado/bthost/dispatch"
)

type sigFixture struct {
	loop *dispatch.TestLoop
	sig  *signalingChannel
	sent [][]byte
}

func newSigFixture(mtu int) *sigFixture {
	f := &sigFixture{loop: dispatch.NewTestLoop()}
	f.sig = newSignalingChannel(f.loop, SignalingChannelID, mtu, func(b []byte) {
		f.sent = append(f.sent, b)
	}, bthost.GetLogger())
	return f
}

func (f *sigFixture) last(t *testing.T) sigCmd {
	t.Helper()
	if len(f.sent) == 0 {
		t.Fatal("nothing sent")
	}
	b := f.sent[len(f.sent)-1]
	return sigCmd{code: CommandCode(b[0]), id: CommandID(b[1]), payload: b[signalingHeaderSize:]}
}

func TestSignalingIDsUnique(t *testing.T) {
	f := newSigFixture(DefaultMTU)
	seen := map[CommandID]bool{}
	for i := 0; i < 255; i++ {
		if !f.sig.sendRequest(&EchoRequest{}, func(responseStatus, []byte) bool { return false }) {
			t.Fatalf("request %d refused", i)
		}
		id := f.last(t).id
		if id == InvalidCommandID || seen[id] {
			t.Fatalf("request %d got id %d", i, id)
		}
		seen[id] = true
	}
	if f.sig.sendRequest(&EchoRequest{}, func(responseStatus, []byte) bool { return false }) {
		t.Fatal("expected refusal with every id in flight")
	}

	// retiring one id frees exactly that id
	f.sig.handleFrame(signalBytes(SignalEchoResponse, 42, nil))
	if !f.sig.sendRequest(&EchoRequest{}, func(responseStatus, []byte) bool { return false }) {
		t.Fatal("request refused after retiring an id")
	}
	if id := f.last(t).id; id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}
}

func TestSignalingResponse(t *testing.T) {
	f := newSigFixture(DefaultMTU)
	var status responseStatus = -1
	var got []byte
	f.sig.sendRequest(&EchoRequest{Data: []byte{1}}, func(s responseStatus, p []byte) bool {
		status, got = s, p
		return false
	})
	id := f.last(t).id

	// wrong id and wrong code are ignored
	f.sig.handleFrame(signalBytes(SignalEchoResponse, id+1, []byte{9}))
	f.sig.handleFrame(signalBytes(SignalInformationResponse, id, []byte{9}))
	if status != -1 {
		t.Fatal("handler called for mismatched response")
	}

	f.sig.handleFrame(signalBytes(SignalEchoResponse, id, []byte{7}))
	if status != responseSuccess || !bytes.Equal(got, []byte{7}) {
		t.Fatalf("status %v payload %x", status, got)
	}
	if f.loop.PendingTimers() != 0 {
		t.Fatal("rtx timer left armed")
	}
}

func TestSignalingCommandReject(t *testing.T) {
	f := newSigFixture(DefaultMTU)
	var status responseStatus = -1
	f.sig.sendRequest(&InformationRequest{InfoType: InfoExtendedFeatures}, func(s responseStatus, _ []byte) bool {
		status = s
		return false
	})
	id := f.last(t).id
	f.sig.handleFrame(signalBytes(SignalCommandReject, id, []byte{0, 0}))
	if status != responseReject {
		t.Fatalf("expected reject, got %v", status)
	}
}

func TestSignalingRTX(t *testing.T) {
	f := newSigFixture(DefaultMTU)
	calls := 0
	var status responseStatus
	f.sig.sendRequest(&EchoRequest{}, func(s responseStatus, _ []byte) bool {
		calls++
		status = s
		return false
	})
	f.loop.RunFor(DefaultRTX - time.Millisecond)
	if calls != 0 {
		t.Fatal("timed out early")
	}
	f.loop.RunFor(time.Millisecond)
	if calls != 1 || status != responseTimeout {
		t.Fatalf("calls %d status %v", calls, status)
	}

	// late response is ignored
	f.sig.handleFrame(signalBytes(SignalEchoResponse, f.last(t).id, nil))
	if calls != 1 {
		t.Fatal("late response delivered")
	}
}

func TestSignalingERTX(t *testing.T) {
	f := newSigFixture(DefaultMTU)
	var statuses []responseStatus
	f.sig.sendRequest(&ConnectionRequest{PSM: uint16(PSMSDP), SourceCID: 0x40}, func(s responseStatus, _ []byte) bool {
		statuses = append(statuses, s)
		return s == responseSuccess && len(statuses) == 1
	})
	id := f.last(t).id
	f.sig.handleFrame(signalBytes(SignalConnectionResponse, id, make([]byte, 8)))

	f.loop.RunFor(DefaultRTX * 2)
	if len(statuses) != 1 {
		t.Fatal("rtx applied after pending response")
	}
	f.loop.RunFor(DefaultERTX)
	if len(statuses) != 2 || statuses[1] != responseTimeout {
		t.Fatalf("statuses %v", statuses)
	}
}

func TestSignalingNotUnderstood(t *testing.T) {
	f := newSigFixture(DefaultMTU)
	f.sig.handleFrame(signalBytes(0x7F, 5, []byte{1, 2}))

	c := f.last(t)
	if c.code != SignalCommandReject || c.id != 5 {
		t.Fatalf("expected reject for id 5, got code 0x%02x id %d", c.code, c.id)
	}
	if r := binary.LittleEndian.Uint16(c.payload); r != RejectNotUnderstood {
		t.Fatalf("reason %d", r)
	}
}

func TestSignalingEcho(t *testing.T) {
	f := newSigFixture(DefaultMTU)
	f.sig.handleFrame(signalBytes(SignalEchoRequest, 9, []byte("ping")))

	c := f.last(t)
	if c.code != SignalEchoResponse || c.id != 9 || string(c.payload) != "ping" {
		t.Fatalf("got code 0x%02x id %d payload %q", c.code, c.id, c.payload)
	}
}

func TestSignalingMultipleCommands(t *testing.T) {
	f := newSigFixture(DefaultMTU)
	b := append(signalBytes(SignalEchoRequest, 1, nil), signalBytes(SignalEchoRequest, 2, nil)...)
	b = append(b, signalBytes(SignalEchoRequest, InvalidCommandID, nil)...)
	f.sig.handleFrame(b)
	if len(f.sent) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(f.sent))
	}

	// truncated command
	f.sent = nil
	f.sig.handleFrame([]byte{uint8(SignalEchoRequest), 3, 8, 0, 1})
	if c := f.last(t); c.code != SignalCommandReject || c.id != 3 {
		t.Fatalf("expected reject, got code 0x%02x", c.code)
	}
}

func TestSignalingMTUExceeded(t *testing.T) {
	f := newSigFixture(MinACLMTU)
	f.sig.handleFrame(signalBytes(SignalEchoRequest, 4, make([]byte, MinACLMTU)))

	c := f.last(t)
	if c.code != SignalCommandReject || c.id != 4 {
		t.Fatalf("got code 0x%02x id %d", c.code, c.id)
	}
	if r := binary.LittleEndian.Uint16(c.payload); r != RejectSignalingMTUExceeded {
		t.Fatalf("reason %d", r)
	}
	if mtu := binary.LittleEndian.Uint16(c.payload[2:]); mtu != MinACLMTU {
		t.Fatalf("mtu %d", mtu)
	}
}

func TestSignalingClose(t *testing.T) {
	f := newSigFixture(DefaultMTU)
	called := false
	f.sig.sendRequest(&EchoRequest{}, func(responseStatus, []byte) bool {
		called = true
		return false
	})
	f.sig.close()
	f.loop.RunFor(DefaultERTX)
	if called {
		t.Fatal("handler called after close")
	}
	if f.sig.sendRequest(&EchoRequest{}, nil) {
		t.Fatal("request accepted after close")
	}
}
