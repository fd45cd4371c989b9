package packet

import (
	"encoding/binary"

	"github.com/voxelflow/server/internal/world"
)

// Writer builds one feed payload, little-endian throughout.
type Writer struct {
	buf []byte
}

// NewWriter starts a payload with the given opcode.
func NewWriter(opcode byte) *Writer {
	return NewWriterSize(opcode, 32)
}

// NewWriterSize starts a payload with room for size bytes after the opcode.
func NewWriterSize(opcode byte, size int) *Writer {
	w := &Writer{buf: make([]byte, 1, 1+size)}
	w.buf[0] = opcode
	return w
}

func (w *Writer) WriteC(v byte) {
	w.buf = append(w.buf, v)
}

func (w *Writer) WriteH(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) WriteD(v int32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, uint32(v))
}

func (w *Writer) WriteQ(v int64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, uint64(v))
}

// WriteS writes s followed by a NUL.
func (w *Writer) WriteS(s string) {
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
}

// WritePos writes a cell position as three D fields.
func (w *Writer) WritePos(p world.Pos) {
	w.WriteD(p.X)
	w.WriteD(p.Y)
	w.WriteD(p.Z)
}

// WriteState writes a block state as [H id][C meta].
func (w *Writer) WriteState(s world.State) {
	w.WriteH(s.ID)
	w.WriteC(s.Meta)
}

func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) Len() int {
	return len(w.buf)
}
