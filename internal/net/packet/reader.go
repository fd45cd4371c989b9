package packet

import (
	"encoding/binary"

	"github.com/voxelflow/server/internal/world"
)

// Reader decodes fields from one feed payload. Byte 0 is the opcode.
// A read past the end yields the zero value and marks the reader short.
type Reader struct {
	data  []byte
	off   int
	short bool
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data, off: 1}
}

func (r *Reader) Opcode() byte {
	if len(r.data) == 0 {
		return 0
	}
	return r.data[0]
}

// take returns the next n bytes, or nil when fewer remain.
func (r *Reader) take(n int) []byte {
	if r.off+n > len(r.data) {
		r.off = max(r.off, len(r.data))
		r.short = true
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

func (r *Reader) ReadC() byte {
	if b := r.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (r *Reader) ReadH() uint16 {
	if b := r.take(2); b != nil {
		return binary.LittleEndian.Uint16(b)
	}
	return 0
}

func (r *Reader) ReadD() int32 {
	if b := r.take(4); b != nil {
		return int32(binary.LittleEndian.Uint32(b))
	}
	return 0
}

func (r *Reader) ReadQ() int64 {
	if b := r.take(8); b != nil {
		return int64(binary.LittleEndian.Uint64(b))
	}
	return 0
}

// ReadS reads a NUL-terminated string. A missing terminator takes the rest
// of the payload.
func (r *Reader) ReadS() string {
	if r.off >= len(r.data) {
		r.short = true
		return ""
	}
	rest := r.data[r.off:]
	for i, c := range rest {
		if c == 0 {
			r.off += i + 1
			return string(rest[:i])
		}
	}
	r.off = len(r.data)
	return string(rest)
}

// ReadPos reads a cell position as three D fields.
func (r *Reader) ReadPos() world.Pos {
	return world.Pos{X: r.ReadD(), Y: r.ReadD(), Z: r.ReadD()}
}

// ReadState reads a block state as [H id][C meta].
func (r *Reader) ReadState() world.State {
	return world.State{ID: r.ReadH(), Meta: r.ReadC()}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

// Short reports whether any read ran past the end of the payload.
func (r *Reader) Short() bool {
	return r.short
}
