package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestBBoxCells(t *testing.T) {
	box := BoxAround(mgl64.Vec3{0.5, 1, 0.5}, 0.3, 1.8)
	var cells []Pos
	box.Cells(func(p Pos) { cells = append(cells, p) })
	want := []Pos{{0, 1, 0}, {0, 2, 0}}
	if len(cells) != len(want) {
		t.Fatalf("cells = %v, want %v", cells, want)
	}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cells[%d] = %v, want %v", i, cells[i], want[i])
		}
	}
}

func TestBBoxCellsStraddling(t *testing.T) {
	box := BoxAround(mgl64.Vec3{0, 0, 0}, 0.3, 0.5)
	n := 0
	box.Cells(func(Pos) { n++ })
	if n != 4 {
		t.Errorf("box centred on a corner overlaps %d cells, want 4", n)
	}
}

func TestBBoxIntersectsAndTranslate(t *testing.T) {
	a := BoxAround(mgl64.Vec3{0, 0, 0}, 0.5, 1)
	b := a.Translate(mgl64.Vec3{1, 0, 0})
	if a.Intersects(b) {
		t.Error("touching boxes should not intersect")
	}
	c := a.Translate(mgl64.Vec3{0.5, 0.5, 0})
	if !a.Intersects(c) {
		t.Error("overlapping boxes should intersect")
	}
}

func TestPosSides(t *testing.T) {
	p := Pos{1, 2, 3}
	for _, s := range Sides {
		if p.Side(s).Side(s.Opposite()) != p {
			t.Errorf("side %s and its opposite do not cancel", s)
		}
	}
	if p.Below() != p.Side(SideDown) || p.Above() != p.Side(SideUp) {
		t.Error("Below/Above disagree with Side")
	}
	if p.String() != "(1,2,3)" {
		t.Errorf("String = %q", p.String())
	}
}
