package liquid

import "testing"

// horizontal index order: west(-x), east(+x), north(-z), south(+z)

func TestOptimalDirectionImmediateDrop(t *testing.T) {
	f := newFixture(t)
	f.floor(-1, 6)
	f.put(pos(-1, -1, 0), idAir, 0) // drop beside -x
	f.put(pos(0, -1, 3), idAir, 0)  // a farther drop at +z

	got := f.water.OptimalDirections(pos(0, 0, 0))
	want := [4]bool{true, false, false, false}
	if got != want {
		t.Errorf("OptimalDirections = %v, want %v", got, want)
	}
	costs := f.water.flowCosts(pos(0, 0, 0))
	if costs[0] != 0 {
		t.Errorf("cost of the immediate drop = %d, want 0", costs[0])
	}
}

func TestOptimalDirectionNearestDrop(t *testing.T) {
	f := newFixture(t)
	f.floor(-1, 6)
	f.put(pos(3, -1, 0), idAir, 0)

	costs := f.water.flowCosts(pos(0, 0, 0))
	if costs[1] != 2 {
		t.Errorf("+x cost = %d, want 2", costs[1])
	}
	got := f.water.OptimalDirections(pos(0, 0, 0))
	if got != [4]bool{false, true, false, false} {
		t.Errorf("OptimalDirections = %v, want only +x", got)
	}
}

func TestOptimalDirectionTies(t *testing.T) {
	f := newFixture(t)
	f.floor(-1, 6)
	f.put(pos(2, -1, 0), idAir, 0)
	f.put(pos(-2, -1, 0), idAir, 0)

	got := f.water.OptimalDirections(pos(0, 0, 0))
	if got != [4]bool{true, true, false, false} {
		t.Errorf("OptimalDirections = %v, want both x directions", got)
	}
}

func TestOptimalDirectionNoDrop(t *testing.T) {
	f := newFixture(t)
	f.floor(-1, 8)
	costs := f.water.flowCosts(pos(0, 0, 0))
	for i, c := range costs {
		if c != unreachableCost {
			t.Errorf("cost[%d] = %d, want unreachable", i, c)
		}
	}
	if got := f.water.OptimalDirections(pos(0, 0, 0)); got != [4]bool{true, true, true, true} {
		t.Errorf("flat floor: %v, want all equally optimal", got)
	}
}

func TestOptimalDirectionBeyondHorizon(t *testing.T) {
	f := newFixture(t)
	f.floor(-1, 8)
	f.put(pos(6, -1, 0), idAir, 0)

	costs := f.water.flowCosts(pos(0, 0, 0))
	if costs[1] != unreachableCost {
		t.Errorf("drop 6 blocks away cost %d, want unreachable", costs[1])
	}
}

func TestOptimalDirectionWalls(t *testing.T) {
	f := newFixture(t)
	f.floor(-1, 4)
	f.put(pos(-1, 0, 0), idStone, 0)
	f.put(pos(0, 0, -1), idStone, 0)
	f.put(pos(0, 0, 1), idStone, 0)

	costs := f.water.flowCosts(pos(0, 0, 0))
	for _, i := range []int{0, 2, 3} {
		if costs[i] != unreachableCost {
			t.Errorf("walled cost[%d] = %d", i, costs[i])
		}
	}
	if got := f.water.OptimalDirections(pos(0, 0, 0)); got != [4]bool{false, true, false, false} {
		t.Errorf("OptimalDirections = %v, want the only open side", got)
	}
}
