package handler

import (
	"fmt"

	"github.com/voxelflow/server/internal/net"
	"github.com/voxelflow/server/internal/net/packet"
	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap"
)

// HandlePlace processes C_PLACE. Valid placements are queued for the next
// tick; anything else is answered with a notice.
func HandlePlace(sess *net.Session, r *packet.Reader, deps *Deps) {
	p := r.ReadPos()
	st := r.ReadState()

	if r.Short() {
		sendNotice(sess, "truncated placement")
		return
	}
	if !deps.Grid.InBounds(p) {
		sendNotice(sess, fmt.Sprintf("%s is outside the world", p))
		return
	}
	if deps.Blocks.Entry(st.ID) == nil {
		sendNotice(sess, fmt.Sprintf("unknown block id %d", st.ID))
		return
	}
	if st.Meta > world.MetaMask {
		sendNotice(sess, fmt.Sprintf("meta %d out of range", st.Meta))
		return
	}
	deps.Queue(p, st)
	deps.Log.Debug("placement queued",
		zap.String("watcher", sess.Name),
		zap.Stringer("pos", p),
		zap.Uint16("id", st.ID),
		zap.Uint8("meta", st.Meta))
}

// HandleQuery processes C_QUERY with the block at a cell and, for liquids,
// its flow vector.
func HandleQuery(sess *net.Session, r *packet.Reader, deps *Deps) {
	p := r.ReadPos()
	b := deps.Grid.BlockAt(p)
	flow := deps.Liquids.FlowVector(p)

	w := packet.NewWriter(packet.S_OPCODE_CELL)
	w.WritePos(p)
	w.WriteState(b.State)
	for i := 0; i < 3; i++ {
		w.WriteD(int32(flow[i] * 1000))
	}
	sess.Send(w.Bytes())
}

func sendNotice(sess *net.Session, msg string) {
	w := packet.NewWriter(packet.S_OPCODE_NOTICE)
	w.WriteS(msg)
	sess.Send(w.Bytes())
}
