package handler

import (
	"github.com/voxelflow/server/internal/data"
	"github.com/voxelflow/server/internal/liquid"
	"github.com/voxelflow/server/internal/net"
	"github.com/voxelflow/server/internal/net/packet"
	"github.com/voxelflow/server/internal/world"
	"go.uber.org/zap"
)

// Deps holds shared dependencies injected into all packet handlers.
type Deps struct {
	WorldName string
	Grid      *world.Grid
	Sched     *world.Scheduler
	Liquids   *liquid.Set
	Blocks    *data.BlockTable
	// Queue applies a placement at the start of the next tick.
	Queue func(p world.Pos, s world.State)
	Log   *zap.Logger
}

// RegisterAll registers all packet handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	reg.Register(packet.C_OPCODE_WATCH, "watch",
		[]packet.SessionState{packet.StateHandshake},
		func(sess any, r *packet.Reader) {
			HandleWatch(sess.(*net.Session), r, deps)
		},
	)

	watching := []packet.SessionState{packet.StateWatching}
	reg.Register(packet.C_OPCODE_PLACE, "place", watching,
		func(sess any, r *packet.Reader) {
			HandlePlace(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_OPCODE_QUERY, "query", watching,
		func(sess any, r *packet.Reader) {
			HandleQuery(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_OPCODE_PING, "ping",
		[]packet.SessionState{packet.StateHandshake, packet.StateWatching},
		func(sess any, r *packet.Reader) {
			HandlePing(sess.(*net.Session), r, deps)
		},
	)
}
