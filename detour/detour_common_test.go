package detour

import (
	"testing"

	"github.com/gorustyt/navtile/common"
)

func approx(a, b float32) bool { return common.Abs(a-b) < 1e-5 }

func TestPointInPolygon(t *testing.T) {
	square := []float32{0, 0, 0, 1, 0, 0, 1, 0, 1, 0, 0, 1}
	tests := []struct {
		pt   []float32
		want bool
	}{
		{[]float32{0.5, 0, 0.5}, true},
		{[]float32{1.5, 0, 0.5}, false},
		{[]float32{0.5, 0, -0.5}, false},
		{[]float32{0.5, 9, 0.5}, true},
		{[]float32{-0.01, 0, 0.5}, false},
	}
	for _, tt := range tests {
		if got := DtPointInPolygon(tt.pt, square, 4); got != tt.want {
			t.Errorf("DtPointInPolygon(%v) = %v, want %v", tt.pt, got, tt.want)
		}
	}
}

func TestDistancePtPolyEdgesSqr(t *testing.T) {
	square := []float32{0, 0, 0, 2, 0, 0, 2, 0, 2, 0, 0, 2}
	var ed, et [4]float32
	inside := DtDistancePtPolyEdgesSqr([]float32{0.5, 0, 1}, square, 4, ed[:], et[:])
	if !inside {
		t.Errorf("point reported outside")
	}
	// Edge j runs from vertex j to vertex j+1.
	wantD := [4]float32{1, 2.25, 1, 0.25}
	wantT := [4]float32{0.25, 0.5, 0.75, 0.5}
	for j := range wantD {
		if !approx(ed[j], wantD[j]) || !approx(et[j], wantT[j]) {
			t.Errorf("edge %d: d=%v t=%v, want d=%v t=%v", j, ed[j], et[j], wantD[j], wantT[j])
		}
	}
}

func TestDistancePtSegSqr2D(t *testing.T) {
	tests := []struct {
		pt, p, q []float32
		wantT    float32
		wantD    float32
	}{
		{[]float32{1, 5, 1}, []float32{0, 0, 0}, []float32{2, 0, 0}, 0.5, 1},
		{[]float32{-1, 0, 0}, []float32{0, 0, 0}, []float32{2, 0, 0}, 0, 1},
		{[]float32{4, 0, 0}, []float32{0, 0, 0}, []float32{2, 0, 0}, 1, 4},
		{[]float32{3, 0, 4}, []float32{0, 0, 0}, []float32{0, 0, 0}, 0, 25},
	}
	for _, tt := range tests {
		gotT, gotD := DtDistancePtSegSqr2D(tt.pt, tt.p, tt.q)
		if !approx(gotT, tt.wantT) || !approx(gotD, tt.wantD) {
			t.Errorf("DtDistancePtSegSqr2D(%v) = %v, %v; want %v, %v", tt.pt, gotT, gotD, tt.wantT, tt.wantD)
		}
	}
}

func TestIntersectSegmentTriangle(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{0, 0, 1}
	c := []float32{1, 0, 0}
	tests := []struct {
		name   string
		sp, sq []float32
		want   float32
		ok     bool
	}{
		{"through the middle", []float32{0.2, 1, 0.2}, []float32{0.2, -1, 0.2}, 0.5, true},
		{"stops short", []float32{0.2, 1, 0.2}, []float32{0.2, 0.5, 0.2}, 0, false},
		{"misses", []float32{0.8, 1, 0.8}, []float32{0.8, -1, 0.8}, 0, false},
		{"back face", []float32{0.2, -1, 0.2}, []float32{0.2, 1, 0.2}, 0, false},
		{"parallel", []float32{0.2, 1, 0.2}, []float32{0.4, 1, 0.2}, 0, false},
	}
	for _, tt := range tests {
		got, ok := DtIntersectSegmentTriangle(tt.sp, tt.sq, a, b, c)
		if ok != tt.ok || (ok && !approx(got, tt.want)) {
			t.Errorf("%s: t = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIntersectSegSeg2D(t *testing.T) {
	s, u, ok := DtIntersectSegSeg2D(
		[]float32{0, 0, 0}, []float32{2, 0, 0},
		[]float32{1, 0, -1}, []float32{1, 0, 3})
	if !ok || !approx(s, 0.5) || !approx(u, 0.25) {
		t.Errorf("crossing = %v, %v, %v", s, u, ok)
	}
	if _, _, ok := DtIntersectSegSeg2D(
		[]float32{0, 0, 0}, []float32{2, 0, 0},
		[]float32{0, 0, 1}, []float32{2, 5, 1}); ok {
		t.Errorf("parallel segments intersect")
	}
}

func TestIntersectSegSeg3D(t *testing.T) {
	// Skew lines, one above the other.
	s, u, ok := DtIntersectSegSeg3D(
		[]float32{0, 0, 0}, []float32{2, 0, 0},
		[]float32{1, 1, -1}, []float32{1, 1, 1})
	if !ok || !approx(s, 0.5) || !approx(u, 0.5) {
		t.Errorf("skew = %v, %v, %v", s, u, ok)
	}
	if _, _, ok := DtIntersectSegSeg3D(
		[]float32{0, 0, 0}, []float32{1, 1, 1},
		[]float32{0, 1, 0}, []float32{2, 3, 2}); ok {
		t.Errorf("parallel lines reported a closest point")
	}
}

func TestIntersectSegmentPoly2D(t *testing.T) {
	// Positive winding square over [0,2].
	square := []float32{0, 0, 0, 0, 0, 2, 2, 0, 2, 2, 0, 0}
	tests := []struct {
		name           string
		p0, p1         []float32
		tmin, tmax     float32
		segMin, segMax int
		ok             bool
	}{
		{"crosses", []float32{-1, 0, 1}, []float32{3, 0, 1}, 0.25, 0.75, 0, 2, true},
		{"starts inside", []float32{1, 0, 1}, []float32{3, 0, 1}, 0, 0.5, -1, 2, true},
		{"inside", []float32{0.5, 0, 0.5}, []float32{1.5, 0, 1.5}, 0, 1, -1, -1, true},
		{"misses", []float32{-1, 0, 3}, []float32{3, 0, 3}, 0, 0, 0, 0, false},
	}
	for _, tt := range tests {
		tmin, tmax, segMin, segMax, ok := DtIntersectSegmentPoly2D(tt.p0, tt.p1, square, 4)
		if ok != tt.ok {
			t.Errorf("%s: ok = %v", tt.name, ok)
			continue
		}
		if !ok {
			continue
		}
		if !approx(tmin, tt.tmin) || !approx(tmax, tt.tmax) || segMin != tt.segMin || segMax != tt.segMax {
			t.Errorf("%s: got %v %v %d %d, want %v %v %d %d", tt.name, tmin, tmax, segMin, segMax, tt.tmin, tt.tmax, tt.segMin, tt.segMax)
		}
	}
}

func TestClosestHeightPointTriangle(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{0, 2, 2}
	c := []float32{2, 4, 0}
	tests := []struct {
		p    []float32
		want float32
		ok   bool
	}{
		{[]float32{0.5, 9, 0.5}, 1.5, true},
		{[]float32{0, 0, 0}, 0, true},
		{[]float32{2, 0, 2}, 0, false},
	}
	for _, tt := range tests {
		h, ok := DtClosestHeightPointTriangle(tt.p, a, b, c)
		if ok != tt.ok || (ok && !approx(h, tt.want)) {
			t.Errorf("height at %v = %v, %v; want %v, %v", tt.p, h, ok, tt.want, tt.ok)
		}
		// Winding does not matter.
		h2, ok2 := DtClosestHeightPointTriangle(tt.p, a, c, b)
		if ok2 != ok || h2 != h {
			t.Errorf("reversed winding at %v = %v, %v", tt.p, h2, ok2)
		}
	}
	if _, ok := DtClosestHeightPointTriangle([]float32{0, 0, 0}, a, a, c); ok {
		t.Errorf("degenerate triangle reported a height")
	}
}

func TestOverlapPolyPoly2D(t *testing.T) {
	sq := func(x0, z0, x1, z1 float32) []float32 {
		return []float32{x0, 0, z0, x0, 0, z1, x1, 0, z1, x1, 0, z0}
	}
	a := sq(0, 0, 2, 2)
	tests := []struct {
		name string
		b    []float32
		want bool
	}{
		{"overlapping", sq(1, 1, 3, 3), true},
		{"contained", sq(0.5, 0.5, 1, 1), true},
		{"apart", sq(3, 0, 5, 2), false},
		{"touching", sq(2, 0, 4, 2), false},
		{"diagonal gap", []float32{3.5, 0, 0.7, 0.7, 0, 3.5, 4, 0, 4}, false},
	}
	for _, tt := range tests {
		if got := DtOverlapPolyPoly2D(a, 4, tt.b, len(tt.b)/3); got != tt.want {
			t.Errorf("%s: overlap = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestOverlapBounds(t *testing.T) {
	if !DtOverlapBounds([]float32{0, 0, 0}, []float32{1, 1, 1}, []float32{1, 1, 1}, []float32{2, 2, 2}) {
		t.Errorf("touching boxes should overlap")
	}
	if DtOverlapBounds([]float32{0, 0, 0}, []float32{1, 1, 1}, []float32{0, 2, 0}, []float32{1, 3, 1}) {
		t.Errorf("boxes apart in y overlap")
	}
	if !DtOverlapQuantBounds([3]uint16{0, 0, 0}, [3]uint16{4, 4, 4}, [3]uint16{4, 0, 0}, [3]uint16{8, 4, 4}) {
		t.Errorf("touching quantized boxes should overlap")
	}
	if DtOverlapQuantBounds([3]uint16{0, 0, 0}, [3]uint16{4, 4, 4}, [3]uint16{0, 0, 5}, [3]uint16{4, 4, 8}) {
		t.Errorf("quantized boxes apart in z overlap")
	}
}

func TestCalcPolyCenter(t *testing.T) {
	verts := []float32{0, 0, 0, 9, 9, 9, 0, 0, 2, 2, 3, 2, 2, 0, 0}
	got := DtCalcPolyCenter([]uint16{0, 2, 3, 4}, 4, verts)
	want := [3]float32{1, 0.75, 1}
	if got != want {
		t.Errorf("centre = %v, want %v", got, want)
	}
}

func TestRandomPointInConvexPoly(t *testing.T) {
	square := []float32{0, 0, 0, 0, 0, 2, 2, 0, 2, 2, 0, 0}
	var areas [4]float32
	for _, s := range []float32{0, 0.3, 0.6, 0.999} {
		for _, u := range []float32{0, 0.5, 0.999} {
			pt := DtRandomPointInConvexPoly(square, 4, areas[:], s, u)
			if pt[0] < 0 || pt[0] > 2 || pt[2] < 0 || pt[2] > 2 || pt[1] != 0 {
				t.Errorf("sample (%v, %v) = %v outside the square", s, u, pt)
			}
		}
	}
	// t = 0 always lands on the first vertex.
	if pt := DtRandomPointInConvexPoly(square, 4, areas[:], 0.7, 0); pt != [3]float32{} {
		t.Errorf("t=0 sample = %v, want the first vertex", pt)
	}
}
