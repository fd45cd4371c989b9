package net

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	frames := [][]byte{{0x80}, bytes.Repeat([]byte{7}, 300), make([]byte, MaxPayload)}
	for _, f := range frames {
		if err := WriteFrame(&buf, f); err != nil {
			t.Fatalf("WriteFrame(%d bytes): %v", len(f), err)
		}
	}
	for i, want := range frames {
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame %d: %v", i, err)
		}
		if !bytes.Equal(got, want) {
			t.Errorf("frame %d: got %d bytes, want %d", i, len(got), len(want))
		}
	}
	if _, err := ReadFrame(&buf); err == nil {
		t.Error("ReadFrame on empty stream succeeded")
	}
}

func TestFrameHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, []byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}
	if got := binary.LittleEndian.Uint16(buf.Bytes()); got != 5 {
		t.Errorf("header = %d, want payload length plus 2", got)
	}
}

func TestFrameInvalidLengths(t *testing.T) {
	if err := WriteFrame(&bytes.Buffer{}, nil); err == nil {
		t.Error("empty payload accepted")
	}
	if err := WriteFrame(&bytes.Buffer{}, make([]byte, MaxPayload+1)); err == nil {
		t.Error("oversized payload accepted")
	}
	for _, n := range []uint16{0, 1, 2} {
		hdr := binary.LittleEndian.AppendUint16(nil, n)
		if _, err := ReadFrame(bytes.NewReader(hdr)); err == nil {
			t.Errorf("header %d accepted", n)
		}
	}
	// truncated payload
	data := append(binary.LittleEndian.AppendUint16(nil, 10), 1, 2)
	if _, err := ReadFrame(bytes.NewReader(data)); err == nil {
		t.Error("truncated payload accepted")
	}
}
