package handler

import (
	"github.com/voxelflow/server/internal/net"
	"github.com/voxelflow/server/internal/net/packet"
	"go.uber.org/zap"
)

const maxWatcherName = 32

// HandleWatch processes C_WATCH: the watcher names itself and starts
// receiving grid changes from the next tick on.
func HandleWatch(sess *net.Session, r *packet.Reader, deps *Deps) {
	name := r.ReadS()
	if len(name) > maxWatcherName {
		name = name[:maxWatcherName]
	}
	if name == "" {
		name = "anonymous"
	}
	sess.Name = name
	sess.SetState(packet.StateWatching)

	minY, maxY := deps.Grid.Bounds()
	sess.Send(BuildHello(deps.Sched.CurrentTick(), minY, maxY, deps.WorldName))
	deps.Log.Info("watcher subscribed",
		zap.Uint64("session", sess.ID), zap.String("name", name))
}

// HandlePing processes C_PING by echoing the nonce with the current tick.
func HandlePing(sess *net.Session, r *packet.Reader, deps *Deps) {
	nonce := r.ReadD()
	w := packet.NewWriter(packet.S_OPCODE_PONG)
	w.WriteD(nonce)
	w.WriteQ(deps.Sched.CurrentTick())
	sess.Send(w.Bytes())
}
