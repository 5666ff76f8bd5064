package detour

import (
	"math"
	"testing"

	"github.com/gorustyt/navtile/common"
)

// polyArea is the unsigned shoelace area on the xz-plane.
func polyArea(verts []float32) float32 {
	n := len(verts) / 3
	var s float32
	for i := 0; i < n; i++ {
		a := common.GetVert3(verts, i)
		b := common.GetVert3(verts, (i+1)%n)
		s += a[0]*b[2] - b[0]*a[2]
	}
	return common.Abs(s) / 2
}

func xzSquare(x0, z0, x1, z1 float32) []float32 {
	return []float32{x0, 0, z0, x0, 0, z1, x1, 0, z1, x1, 0, z0}
}

func xzCircle(cx, cz, r float32, n int) []float32 {
	out := make([]float32, 0, n*3)
	for i := 0; i < n; i++ {
		a := float64(i) * 2 * math.Pi / float64(n)
		out = append(out, cx+r*float32(math.Cos(a)), 0, cz-r*float32(math.Sin(a)))
	}
	return out
}

func TestConvexConvexIntersection(t *testing.T) {
	square := xzSquare(0, 0, 10, 10)
	tests := []struct {
		name     string
		p, q     []float32
		wantArea float32
		wantNil  bool
	}{
		{"offset squares", square, xzSquare(5, 5, 15, 15), 25, false},
		{"triangle across", square, []float32{2, 0, -2, 2, 0, 12, 12, 0, 5}, 61.485714, false},
		{"diamond", square, []float32{5, 0, -3, -3, 0, 5, 5, 0, 13, 13, 0, 5}, 92, false},
		{"disjoint", square, xzSquare(20, 20, 30, 30), 0, true},
		{"circle inside", xzCircle(5, 5, 1, 12), square, 0, true},
		{"degenerate", square, []float32{0, 0, 0, 1, 0, 1}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, order := range [][2][]float32{{tt.p, tt.q}, {tt.q, tt.p}} {
				got := DtConvexConvexIntersection(order[0], order[1], nil)
				if tt.wantNil {
					if got != nil {
						t.Errorf("got %v, want no intersection", got)
					}
					continue
				}
				if got == nil {
					t.Fatalf("no intersection")
				}
				if len(got)%3 != 0 || len(got) < 9 {
					t.Errorf("result has %d floats", len(got))
				}
				if a := polyArea(got); common.Abs(a-tt.wantArea) > 1e-2 {
					t.Errorf("area = %v, want %v", a, tt.wantArea)
				}
			}
		})
	}
}

func TestConvexConvexIntersectionScratch(t *testing.T) {
	p := xzSquare(0, 0, 10, 10)
	q := xzSquare(5, 5, 15, 15)

	buf := make([]float32, 4*3*3)
	got := DtConvexConvexIntersection(p, q, buf)
	if got == nil || &got[:1][0] != &buf[0] {
		t.Errorf("result does not use the scratch buffer")
	}

	small := make([]float32, 3)
	got = DtConvexConvexIntersection(p, q, small)
	if got == nil || common.Abs(polyArea(got)-25) > 1e-3 {
		t.Errorf("small scratch: got %v", got)
	}
	if small[0] != 0 {
		t.Errorf("small scratch was written to")
	}
}
