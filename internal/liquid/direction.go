package liquid

import "github.com/voxelflow/server/internal/world"

const (
	// unreachableCost marks a direction with no drop inside the search horizon.
	unreachableCost = 1000
	// maxFlowCost bounds the drop search depth.
	maxFlowCost = 4
)

// OptimalDirections flags, per world.Horizontal axis, the directions with the
// cheapest route to a drop. Ties are all optimal.
func (l *Liquid) OptimalDirections(p world.Pos) [4]bool {
	costs := l.flowCosts(p)
	lowest := costs[0]
	for _, c := range costs[1:] {
		lowest = min(lowest, c)
	}
	var out [4]bool
	for i, c := range costs {
		out[i] = c == lowest
	}
	return out
}

func (l *Liquid) flowCosts(p world.Pos) [4]int {
	var costs [4]int
	bound := maxFlowCost
	for i, dir := range world.Horizontal {
		costs[i] = unreachableCost
		next := p.Side(dir)
		switch {
		case !l.world.BlockAt(next).CanBeFlowedInto():
		case l.world.BlockAt(next.Below()).CanBeFlowedInto():
			costs[i] = 0
			bound = 0
		case bound > 0:
			costs[i] = l.flowCost(next, 1, p, bound)
			bound = min(bound, costs[i])
		}
	}
	return costs
}

// flowCost is the length of the shortest horizontal walk from p to a cell
// with a drop beneath it, not stepping back onto from and not deepening past
// bound.
func (l *Liquid) flowCost(p world.Pos, accumulated int, from world.Pos, bound int) int {
	cost := unreachableCost
	for _, dir := range world.Horizontal {
		next := p.Side(dir)
		if next == from {
			continue
		}
		if !l.world.BlockAt(next).CanBeFlowedInto() {
			continue
		}
		if l.world.BlockAt(next.Below()).CanBeFlowedInto() {
			return accumulated
		}
		if accumulated >= bound {
			continue
		}
		cost = min(cost, l.flowCost(next, accumulated+1, p, bound))
	}
	return cost
}
