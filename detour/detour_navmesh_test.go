package detour

import (
	"slices"
	"testing"

	"github.com/gorustyt/navtile/common"
)

const testBase DtPolyRef = 1 << 20

func collectPolys(tile *NavMeshData, qmin, qmax []float32, filter DtQueryFilter) []DtPolyRef {
	buf := make([]DtPolyRef, 256)
	q := NewDtCollectPolysQuery(buf, len(buf))
	tile.QueryPolygons(testBase, qmin, qmax, filter, q)
	out := slices.Clone(buf[:q.NumCollected()])
	slices.Sort(out)
	return out
}

func TestQueryPolygonsBVTreeMatchesScan(t *testing.T) {
	withTree := gridParams(6, 5, false)
	addOffMeshCon(withTree, [3]float32{1, 1, 1}, [3]float32{5, 1, 5}, true, 0)
	withoutTree := gridParams(6, 5, false)
	addOffMeshCon(withoutTree, [3]float32{1, 1, 1}, [3]float32{5, 1, 5}, true, 0)
	withoutTree.BuildBvTree = false
	tree := mustBuild(t, withTree)
	scan := mustBuild(t, withoutTree)

	// Box corners avoid cell borders so quantization does not widen the
	// tree query onto a neighbouring cell.
	boxes := []struct {
		qmin, qmax []float32
		want       int
	}{
		{[]float32{1.2, 0, 1.2}, []float32{1.3, 2, 1.3}, 1},
		{[]float32{1.2, 0, 1.2}, []float32{3.2, 2, 1.3}, 2},
		{[]float32{3.2, 0, 3.2}, []float32{7.2, 2, 5.2}, 6},
		{[]float32{-5, -5, -5}, []float32{50, 5, 50}, 30},
		{[]float32{1.2, 3, 1.2}, []float32{5.2, 4, 5.2}, 0},
	}
	for _, b := range boxes {
		got := collectPolys(tree, b.qmin, b.qmax, DtDefaultQueryFilter{})
		want := collectPolys(scan, b.qmin, b.qmax, DtDefaultQueryFilter{})
		if !slices.Equal(got, want) {
			t.Errorf("box %v-%v: tree %v, scan %v", b.qmin, b.qmax, got, want)
		}
		if len(got) != b.want {
			t.Errorf("box %v-%v: %d polygons, want %d", b.qmin, b.qmax, len(got), b.want)
		}
		for _, ref := range got {
			if ref&^(testBase-1) != testBase || int(ref-testBase) >= 30 {
				t.Errorf("box %v-%v: unexpected ref %#x", b.qmin, b.qmax, ref)
			}
		}
	}
}

func TestQueryPolygonsFilter(t *testing.T) {
	for _, bvTree := range []bool{true, false} {
		params := gridParams(3, 3, false)
		params.BuildBvTree = bvTree
		params.PolyFlags[4] = 2
		tile := mustBuild(t, params)

		all := []float32{-1, -1, -1}
		allMax := []float32{10, 10, 10}
		if got := collectPolys(tile, all, allMax, DtQueryEmptyFilter{}); len(got) != 0 {
			t.Errorf("bvTree=%v: empty filter passed %v", bvTree, got)
		}
		if got := collectPolys(tile, all, allMax, DtQueryNoOpFilter{}); len(got) != 9 {
			t.Errorf("bvTree=%v: no-op filter passed %d polygons", bvTree, len(got))
		}

		filter := NewDtAreaQueryFilter(DtTilePolyResolver{Tile: tile, Base: testBase})
		filter.SetExcludeFlags(2)
		got := collectPolys(tile, all, allMax, filter)
		if len(got) != 8 || slices.Contains(got, testBase|4) {
			t.Errorf("bvTree=%v: exclude filter passed %v", bvTree, got)
		}
	}
}

func TestQueryPolygonsBatches(t *testing.T) {
	tile := mustBuild(t, gridParams(8, 8, false))
	all := []float32{-1, -1, -1}
	allMax := []float32{20, 10, 20}

	buf := make([]DtPolyRef, 100)
	q := NewDtCollectPolysQuery(buf, len(buf))
	tile.QueryPolygons(testBase, all, allMax, DtDefaultQueryFilter{}, q)
	if q.NumCollected() != 64 || q.Overflowed() {
		t.Errorf("collected %d overflow %v, want 64 false", q.NumCollected(), q.Overflowed())
	}

	small := NewDtCollectPolysQuery(make([]DtPolyRef, 5), 5)
	tile.QueryPolygons(testBase, all, allMax, DtDefaultQueryFilter{}, small)
	if small.NumCollected() != 5 || !small.Overflowed() {
		t.Errorf("collected %d overflow %v, want 5 true", small.NumCollected(), small.Overflowed())
	}
}

func TestCollectPolysQueryOverflow(t *testing.T) {
	refs := make([]DtPolyRef, 10)
	for i := range refs {
		refs[i] = DtPolyRef(i + 1)
	}
	buf := make([]DtPolyRef, 5)
	q := NewDtCollectPolysQuery(buf, 5)
	q.Process(nil, refs, len(refs))
	if q.NumCollected() != 5 || !q.Overflowed() {
		t.Fatalf("collected %d overflow %v, want 5 true", q.NumCollected(), q.Overflowed())
	}
	if !slices.Equal(buf, refs[:5]) {
		t.Errorf("buffer = %v, want %v", buf, refs[:5])
	}

	// A negative capacity collects nothing.
	q = NewDtCollectPolysQuery(make([]DtPolyRef, 3), -1)
	q.Process(nil, refs, 4)
	if q.NumCollected() != 0 || !q.Overflowed() {
		t.Errorf("collected %d overflow %v, want 0 true", q.NumCollected(), q.Overflowed())
	}

	// A capacity larger than the buffer is clipped to it.
	q = NewDtCollectPolysQuery(make([]DtPolyRef, 3), 10)
	q.Process(nil, refs, 4)
	if q.NumCollected() != 3 || !q.Overflowed() {
		t.Errorf("collected %d overflow %v, want 3 true", q.NumCollected(), q.Overflowed())
	}

	q = NewDtCollectPolysQuery(make([]DtPolyRef, 5), 5)
	q.Process(nil, refs, 5)
	if q.NumCollected() != 5 || q.Overflowed() {
		t.Errorf("exact fit: collected %d overflow %v", q.NumCollected(), q.Overflowed())
	}
}

func TestFindNearestPolyQuery(t *testing.T) {
	tile := mustBuild(t, gridParams(3, 3, false))
	tests := []struct {
		name     string
		center   []float32
		wantRef  DtPolyRef
		wantPt   [3]float32
		overPoly bool
	}{
		{"over centre polygon", []float32{3.3, 1.5, 2.7}, testBase | 4, [3]float32{3.3, 1, 2.7}, true},
		{"off the x- border", []float32{-0.5, 1, 1.3}, testBase | 0, [3]float32{0, 1, 1.3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := NewDtFindNearestPolyQuery(testBase, tt.center)
			ext := []float32{1.5, 2, 1.5}
			var qmin, qmax [3]float32
			common.Vsub(qmin[:], tt.center, ext)
			common.Vadd(qmax[:], tt.center, ext)
			tile.QueryPolygons(testBase, qmin[:], qmax[:], DtDefaultQueryFilter{}, q)
			if !q.Found() {
				t.Fatalf("no polygon found")
			}
			if q.NearestRef() != tt.wantRef || q.IsOverPoly() != tt.overPoly {
				t.Errorf("nearest %#x over %v, want %#x over %v", q.NearestRef(), q.IsOverPoly(), tt.wantRef, tt.overPoly)
			}
			if got := q.NearestPoint(); common.Vdist(got[:], tt.wantPt[:]) > 1e-5 {
				t.Errorf("nearest point %v, want %v", got, tt.wantPt)
			}
		})
	}

	q := NewDtFindNearestPolyQuery(testBase, []float32{3, 1, 3})
	tile.QueryPolygons(testBase, []float32{0, 0, 0}, []float32{6, 2, 6}, DtQueryEmptyFilter{}, q)
	if q.Found() {
		t.Errorf("found %#x through an empty filter", q.NearestRef())
	}
}

func TestGetPolyHeight(t *testing.T) {
	params := gridParams(2, 2, false)
	addOffMeshCon(params, [3]float32{1, 1, 1}, [3]float32{3, 1, 3}, true, 0)
	tile := mustBuild(t, params)
	tests := []struct {
		name string
		ip   int
		pos  []float32
		want float32
		ok   bool
	}{
		{"inside", 0, []float32{1, 7, 1}, 1, true},
		{"on fan diagonal", 3, []float32{3, 0, 3}, 1, true},
		{"outside polygon", 0, []float32{3, 1, 1}, 0, false},
		{"off-mesh polygon", 4, []float32{1, 1, 1}, 0, false},
		{"bad index", 9, []float32{1, 1, 1}, 0, false},
		{"negative index", -1, []float32{1, 1, 1}, 0, false},
	}
	for _, tt := range tests {
		h, ok := tile.GetPolyHeight(tt.ip, tt.pos)
		if ok != tt.ok || h != tt.want {
			t.Errorf("%s: GetPolyHeight = %v, %v; want %v, %v", tt.name, h, ok, tt.want, tt.ok)
		}
	}
}

func TestClosestPointOnPoly(t *testing.T) {
	params := gridParams(2, 2, false)
	addOffMeshCon(params, [3]float32{1, 1, 1}, [3]float32{3, 1, 1}, true, 0)
	tile := mustBuild(t, params)
	tests := []struct {
		name     string
		ip       int
		pos      []float32
		want     [3]float32
		overPoly bool
	}{
		{"above", 0, []float32{0.5, 3, 1.5}, [3]float32{0.5, 1, 1.5}, true},
		{"beside x- edge", 0, []float32{-1, 3, 1}, [3]float32{0, 1, 1}, false},
		{"past corner", 3, []float32{5, 1, 5}, [3]float32{4, 1, 4}, false},
		{"off-mesh segment", 4, []float32{2, 0, 2}, [3]float32{2, 1, 1}, false},
	}
	for _, tt := range tests {
		got, over := tile.ClosestPointOnPoly(tt.ip, tt.pos)
		if over != tt.overPoly || common.Vdist(got[:], tt.want[:]) > 1e-5 {
			t.Errorf("%s: ClosestPointOnPoly = %v, %v; want %v, %v", tt.name, got, over, tt.want, tt.overPoly)
		}
	}
}

func TestRandomPointInPoly(t *testing.T) {
	tile := mustBuild(t, gridParams(2, 2, false))
	var verts [DT_VERTS_PER_POLYGON * 3]float32
	for ip := 0; ip < 4; ip++ {
		nv := tile.polyVerts(ip, verts[:])
		bmin := [3]float32{verts[0], verts[1], verts[2]}
		bmax := bmin
		for i := 1; i < nv; i++ {
			common.Vmin(bmin[:], verts[i*3:])
			common.Vmax(bmax[:], verts[i*3:])
		}
		for _, s := range []float32{0, 0.25, 0.5, 0.99} {
			for _, u := range []float32{0.1, 0.5, 0.9} {
				pt, ok := tile.RandomPointInPoly(ip, s, u)
				if !ok {
					t.Fatalf("poly %d: no point", ip)
				}
				if pt[0] < bmin[0] || pt[0] > bmax[0] || pt[2] < bmin[2] || pt[2] > bmax[2] {
					t.Errorf("poly %d: point %v outside", ip, pt)
				}
				if pt[1] != 1 {
					t.Errorf("poly %d: point height %v, want 1", ip, pt[1])
				}
			}
		}
	}
	if _, ok := tile.RandomPointInPoly(10, 0.5, 0.5); ok {
		t.Errorf("point in missing polygon")
	}
}

func TestQueryFilters(t *testing.T) {
	pa := []float32{0, 0, 0}
	pb := []float32{3, 4, 0}
	tests := []struct {
		name   string
		filter DtQueryFilter
		pass   bool
		cost   float32
	}{
		{"default", DtDefaultQueryFilter{}, true, 5},
		{"empty", DtQueryEmptyFilter{}, false, 0},
		{"no-op", DtQueryNoOpFilter{}, true, 0},
	}
	for _, tt := range tests {
		if got := tt.filter.PassFilter(7); got != tt.pass {
			t.Errorf("%s: PassFilter = %v", tt.name, got)
		}
		if got := tt.filter.GetCost(pa, pb, 0, 7, 0); got != tt.cost {
			t.Errorf("%s: GetCost = %v, want %v", tt.name, got, tt.cost)
		}
	}
}

func TestAreaQueryFilter(t *testing.T) {
	params := gridParams(2, 2, false)
	params.PolyFlags[1] = 1 | 4
	params.PolyFlags[2] = 8
	params.PolyAreas[3] = 3
	tile := mustBuild(t, params)
	filter := NewDtAreaQueryFilter(DtTilePolyResolver{Tile: tile, Base: testBase})
	filter.SetIncludeFlags(1)
	filter.SetExcludeFlags(4)
	filter.SetAreaCost(3, 10)

	if filter.GetIncludeFlags() != 1 || filter.GetExcludeFlags() != 4 || filter.GetAreaCost(3) != 10 || filter.GetAreaCost(0) != 1 {
		t.Errorf("filter settings not kept")
	}
	passTests := []struct {
		ref  DtPolyRef
		want bool
	}{
		{testBase | 0, true},
		{testBase | 1, false}, // excluded flag
		{testBase | 2, false}, // no included flag
		{testBase | 3, true},
		{testBase | 9, false}, // past the tile
		{5, false},            // below the base
	}
	for _, tt := range passTests {
		if got := filter.PassFilter(tt.ref); got != tt.want {
			t.Errorf("PassFilter(%#x) = %v, want %v", tt.ref, got, tt.want)
		}
	}

	pa := []float32{0, 0, 0}
	pb := []float32{0, 0, 2}
	if got := filter.GetCost(pa, pb, 0, testBase|0, 0); got != 2 {
		t.Errorf("cost over area 0 = %v, want 2", got)
	}
	if got := filter.GetCost(pa, pb, 0, testBase|3, 0); got != 20 {
		t.Errorf("cost over area 3 = %v, want 20", got)
	}
}

// highIndexParams builds a tile whose only triangle uses the last three of
// nv vertices, so its indices do not fit the uint16 range once tripled.
func highIndexParams(nv int, bvTree bool) *DtNavMeshCreateParams {
	params := &DtNavMeshCreateParams{
		Verts:          make([]uint16, 3*nv),
		VertCount:      nv,
		Polys:          []uint16{uint16(nv - 3), uint16(nv - 2), uint16(nv - 1), 0x800f, 0x800f, 0x800f},
		PolyFlags:      []uint16{1},
		PolyAreas:      []uint8{0},
		PolyCount:      1,
		Nvp:            3,
		Bmax:           [3]float32{100, 10, 100},
		WalkableHeight: 2,
		WalkableRadius: 0.6,
		WalkableClimb:  0.9,
		Cs:             1,
		Ch:             1,
		BuildBvTree:    bvTree,
	}
	copy(params.Verts[3*(nv-3):], []uint16{50, 2, 50, 50, 2, 60, 60, 2, 60})
	return params
}

func TestHighVertexIndices(t *testing.T) {
	for _, bvTree := range []bool{false, true} {
		tile := mustBuild(t, highIndexParams(30000, bvTree))

		h, ok := tile.GetPolyHeight(0, []float32{52, 9, 57})
		if !ok || !approx(h, 2) {
			t.Errorf("bvTree=%v: GetPolyHeight = %v, %v; want 2, true", bvTree, h, ok)
		}

		c := DtCalcPolyCenter(tile.NavPolys[0].Verts[:], 3, tile.NavVerts)
		if !approx(c[0], 160.0/3) || !approx(c[1], 2) || !approx(c[2], 170.0/3) {
			t.Errorf("bvTree=%v: centre = %v", bvTree, c)
		}

		closest, over := tile.ClosestPointOnPoly(0, []float32{52, 9, 57})
		if !over || !approx(closest[1], 2) {
			t.Errorf("bvTree=%v: closest point %v, over %v", bvTree, closest, over)
		}

		got := collectPolys(tile, []float32{51.2, 0, 55.2}, []float32{52.2, 5, 56.2}, DtDefaultQueryFilter{})
		if len(got) != 1 {
			t.Errorf("bvTree=%v: query collected %v, want one polygon", bvTree, got)
		}
	}
}
