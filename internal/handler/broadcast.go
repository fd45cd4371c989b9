package handler

import (
	"github.com/voxelflow/server/internal/net/packet"
	"github.com/voxelflow/server/internal/world"
)

// changeRecordLen is the encoded size of one cell in S_CHANGES.
const changeRecordLen = 4*3 + 2 + 1

// MaxChangesPerPacket keeps S_CHANGES under the frame payload limit.
const MaxChangesPerPacket = 2048

// BuildHello encodes S_HELLO.
func BuildHello(tick int64, minY, maxY int32, worldName string) []byte {
	w := packet.NewWriter(packet.S_OPCODE_HELLO)
	w.WriteQ(tick)
	w.WriteD(minY)
	w.WriteD(maxY)
	w.WriteS(worldName)
	return w.Bytes()
}

// BuildChanges encodes one tick of grid changes as S_CHANGES packets of at
// most MaxChangesPerPacket cells each.
func BuildChanges(tick int64, changes []world.Change) [][]byte {
	var out [][]byte
	for len(changes) > 0 {
		n := len(changes)
		if n > MaxChangesPerPacket {
			n = MaxChangesPerPacket
		}
		w := packet.NewWriterSize(packet.S_OPCODE_CHANGES, 10+n*changeRecordLen)
		w.WriteQ(tick)
		w.WriteH(uint16(n))
		for _, c := range changes[:n] {
			w.WritePos(c.Pos)
			w.WriteState(c.State)
		}
		out = append(out, w.Bytes())
		changes = changes[n:]
	}
	return out
}

// ParseChanges decodes an S_CHANGES payload.
func ParseChanges(data []byte) (int64, []world.Change) {
	r := packet.NewReader(data)
	tick := r.ReadQ()
	n := int(r.ReadH())
	if fit := r.Remaining() / changeRecordLen; n > fit {
		n = fit
	}
	out := make([]world.Change, n)
	for i := range out {
		out[i].Pos = r.ReadPos()
		out[i].State = r.ReadState()
	}
	return tick, out
}
