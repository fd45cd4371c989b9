package packet

import (
	"testing"

	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap/zaptest"
)

func TestWriterReader(t *testing.T) {
	w := NewWriter(C_OPCODE_PLACE)
	w.WritePos(world.Pos{X: -7, Y: 64, Z: 1 << 20})
	w.WriteState(world.State{ID: 0xBEEF, Meta: 9})
	w.WriteQ(-1234567890123)
	w.WriteS("wasser ✓")
	w.WriteC(3)
	if w.Len() != 1+12+3+8+len("wasser ✓")+1+1 {
		t.Fatalf("Len = %d", w.Len())
	}

	r := NewReader(w.Bytes())
	if r.Opcode() != C_OPCODE_PLACE {
		t.Errorf("Opcode = %d", r.Opcode())
	}
	if p := r.ReadPos(); p != (world.Pos{X: -7, Y: 64, Z: 1 << 20}) {
		t.Errorf("ReadPos = %v", p)
	}
	if s := r.ReadState(); s != (world.State{ID: 0xBEEF, Meta: 9}) {
		t.Errorf("ReadState = %+v", s)
	}
	if v := r.ReadQ(); v != -1234567890123 {
		t.Errorf("ReadQ = %d", v)
	}
	if v := r.ReadS(); v != "wasser ✓" {
		t.Errorf("ReadS = %q", v)
	}
	if r.Remaining() != 1 || r.ReadC() != 3 {
		t.Errorf("trailing byte missing, %d left", r.Remaining())
	}
	if r.Short() {
		t.Error("exact read marked short")
	}
}

func TestReaderPastEnd(t *testing.T) {
	r := NewReader([]byte{C_OPCODE_PING, 1})
	if r.ReadD() != 0 || !r.Short() {
		t.Error("short ReadD returned data")
	}
	if r.Remaining() != 0 || r.ReadC() != 0 || r.ReadH() != 0 || r.ReadQ() != 0 {
		t.Error("reads after a short read returned data")
	}
	if r.ReadS() != "" {
		t.Error("ReadS past end")
	}
	if NewReader(nil).Opcode() != 0 {
		t.Error("Opcode of empty packet")
	}

	unterminated := NewReader([]byte{C_OPCODE_WATCH, 'a', 'b'})
	if s := unterminated.ReadS(); s != "ab" || unterminated.Short() {
		t.Errorf("unterminated ReadS = %q short=%v", s, unterminated.Short())
	}
}

func TestRegistryStateGating(t *testing.T) {
	reg := NewRegistry(zaptest.NewLogger(t))
	var calls []byte
	reg.Register(C_OPCODE_WATCH, "watch", []SessionState{StateHandshake}, func(sess any, r *Reader) {
		calls = append(calls, r.Opcode())
	})
	reg.Register(C_OPCODE_PLACE, "place", []SessionState{StateWatching}, func(sess any, r *Reader) {
		panic("bad placement")
	})

	if err := reg.Dispatch(nil, StateHandshake, []byte{C_OPCODE_WATCH}); err != nil {
		t.Errorf("allowed opcode: %v", err)
	}
	if err := reg.Dispatch(nil, StateWatching, []byte{C_OPCODE_WATCH}); err == nil {
		t.Error("opcode accepted in the wrong state")
	}
	if err := reg.Dispatch(nil, StateWatching, []byte{99}); err != nil {
		t.Errorf("unknown opcode should be ignored: %v", err)
	}
	if err := reg.Dispatch(nil, StateWatching, nil); err == nil {
		t.Error("empty packet accepted")
	}
	if err := reg.Dispatch(nil, StateWatching, []byte{C_OPCODE_PLACE}); err == nil {
		t.Error("handler panic not reported")
	}
	if len(calls) != 1 {
		t.Errorf("handler ran %d times, want 1", len(calls))
	}

	handled, unknown, rejected := reg.Stats()
	if handled["watch"] != 1 || handled["place"] != 1 || unknown != 1 || rejected != 1 {
		t.Errorf("stats = %v unknown %d rejected %d", handled, unknown, rejected)
	}
	if reg.Name(C_OPCODE_PLACE) != "place" || reg.Name(99) != "op99" {
		t.Errorf("names %q %q", reg.Name(C_OPCODE_PLACE), reg.Name(99))
	}
}

func TestRegistryDuplicatePanics(t *testing.T) {
	reg := NewRegistry(zaptest.NewLogger(t))
	noop := func(any, *Reader) {}
	reg.Register(C_OPCODE_PING, "ping", []SessionState{StateWatching}, noop)
	defer func() {
		if recover() == nil {
			t.Error("second registration did not panic")
		}
	}()
	reg.Register(C_OPCODE_PING, "ping", []SessionState{StateWatching}, noop)
}

func TestSessionStateString(t *testing.T) {
	if StateWatching.String() != "Watching" || SessionState(7).String() != "Unknown(7)" {
		t.Error("String mismatch")
	}
}
