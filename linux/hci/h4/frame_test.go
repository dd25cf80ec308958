package h4

import (
	"bytes"
	"testing"
	"time"
)

type collector struct {
	frames [][]byte
}

func (c *collector) put(b []byte) { c.frames = append(c.frames, b) }

func TestFrameAssemble(t *testing.T) {
	reset := []byte{0x04, 0x0E, 0x04, 0x01, 0x03, 0x0C, 0x00}
	acl := []byte{0x02, 0x40, 0x20, 0x05, 0x00, 0x01, 0x00, 0x40, 0x00, 0xAA}

	tests := []struct {
		name   string
		chunks [][]byte
		want   [][]byte
	}{
		{"whole event", [][]byte{reset}, [][]byte{reset}},
		{"split header", [][]byte{reset[:1], reset[1:2], reset[2:]}, [][]byte{reset}},
		{"acl", [][]byte{acl[:4], acl[4:]}, [][]byte{acl}},
		{"two in one read", [][]byte{append(append([]byte{}, reset...), acl...)}, [][]byte{reset, acl}},
		{"leading garbage", [][]byte{{0x00, 0xFF, 0x13}, reset}, [][]byte{reset}},
		{"garbage between", [][]byte{append(append(append([]byte{}, reset...), 0x55), acl...)}, [][]byte{reset, acl}},
		{"partial", [][]byte{acl[:7]}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c collector
			f := newFrame(c.put)
			for _, b := range tt.chunks {
				f.Assemble(b)
			}
			if len(c.frames) != len(tt.want) {
				t.Fatalf("got %d frames [% X], want %d", len(c.frames), c.frames, len(tt.want))
			}
			for i := range tt.want {
				if !bytes.Equal(c.frames[i], tt.want[i]) {
					t.Errorf("frame %d: got [% X], want [% X]", i, c.frames[i], tt.want[i])
				}
			}
		})
	}
}

func TestFrameResyncAfterTimeout(t *testing.T) {
	var c collector
	now := time.Unix(0, 0)
	f := newFrame(c.put)
	f.now = func() time.Time { return now }

	event := []byte{0x04, 0x13, 0x05, 0x01, 0x40, 0x00, 0x01, 0x00}
	f.Assemble(event[:4])
	now = now.Add(frameTimeout + time.Millisecond)
	f.Assemble(event)

	if len(c.frames) != 1 || !bytes.Equal(c.frames[0], event) {
		t.Fatalf("expected the stale partial frame dropped, got [% X]", c.frames)
	}
}

func TestFrameOutputIsCopied(t *testing.T) {
	var c collector
	f := newFrame(c.put)
	in := []byte{0x04, 0x0F, 0x04, 0x00, 0x01, 0x05, 0x04}
	f.Assemble(in)
	in[3] = 0xFF
	if c.frames[0][3] != 0x00 {
		t.Fatal("emitted frame aliases the input")
	}
}
