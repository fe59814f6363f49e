package sentinel

import "testing"

func TestGrid_IdxOutOfBounds(t *testing.T) {
	g := newGrid(10, 10, 8)
	if i := g.idx(-1, 0); i != -1 {
		t.Errorf("expected -1 for negative gx, got %d", i)
	}
	if i := g.idx(0, 10); i != -1 {
		t.Errorf("expected -1 for gy past bounds, got %d", i)
	}
	if i := g.idx(5, 5); i != 5*10+5 {
		t.Errorf("expected flat index 55, got %d", i)
	}
}

func TestGrid_GxGyRoundTrip(t *testing.T) {
	g := newGrid(10, 7, 8)
	for gy := 0; gy < 7; gy++ {
		for gx := 0; gx < 10; gx++ {
			i := g.idx(gx, gy)
			rx, ry := g.gxgy(i)
			if rx != gx || ry != gy {
				t.Fatalf("gxgy(%d) = (%d,%d), want (%d,%d)", i, rx, ry, gx, gy)
			}
		}
	}
}

func TestGrid_DiscBoundsClampsToGrid(t *testing.T) {
	g := newGrid(10, 10, 8)
	gx0, gx1, gy0, gy1 := g.discBounds(0, 0, 100)
	if gx0 != 0 || gy0 != 0 {
		t.Errorf("expected lower bound clamped to 0, got (%d,%d)", gx0, gy0)
	}
	if gx1 != 9 || gy1 != 9 {
		t.Errorf("expected upper bound clamped to gw-1/gh-1, got (%d,%d)", gx1, gy1)
	}
}
