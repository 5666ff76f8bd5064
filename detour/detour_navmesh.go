package detour

import (
	"math"

	"github.com/gorustyt/navtile/common"
)

// Polygons are handed to a DtPolyQuery in batches of this size.
const queryBatchSize = 32

func (d *NavMeshData) validPoly(ip int) bool {
	return ip >= 0 && ip < len(d.NavPolys)
}

// polyVerts copies the vertices of polygon ip into verts and returns the
// vertex count.
func (d *NavMeshData) polyVerts(ip int, verts []float32) int {
	poly := d.NavPolys[ip]
	nv := int(poly.VertCount)
	for i := 0; i < nv; i++ {
		copy(verts[i*3:i*3+3], common.GetVert3(d.NavVerts, poly.Verts[i]))
	}
	return nv
}

// detailTriVerts resolves the three corners of detail triangle j of
// polygon ip. Indices below the polygon vertex count refer to polygon
// vertices, the rest to the detail vertex pool.
func (d *NavMeshData) detailTriVerts(poly *DtPoly, pd *DtPolyDetail, j int) (t []uint8, v [3][]float32) {
	t = common.GetVert4(d.NavDTris, int(pd.TriBase)+j)
	for k := 0; k < 3; k++ {
		if t[k] < poly.VertCount {
			v[k] = common.GetVert3(d.NavVerts, poly.Verts[t[k]])
		} else {
			v[k] = common.GetVert3(d.NavDVerts, int(pd.VertBase)+int(t[k]-poly.VertCount))
		}
	}
	return t, v
}

// GetPolyHeight returns the height of the detail surface of polygon ip
// below or above pos. ok is false when pos is outside the polygon on the
// xz-plane or the polygon is an off-mesh connection.
func (d *NavMeshData) GetPolyHeight(ip int, pos []float32) (height float32, ok bool) {
	if !d.validPoly(ip) || ip >= len(d.NavDMeshes) {
		return 0, false
	}
	poly := d.NavPolys[ip]
	// Off-mesh connections do not have detail polys and getting height
	// over them does not make sense.
	if poly.GetType() == DT_POLYTYPE_OFFMESH_CONNECTION {
		return 0, false
	}

	var verts [DT_VERTS_PER_POLYGON * 3]float32
	nv := d.polyVerts(ip, verts[:])
	if !DtPointInPolygon(pos, verts[:], nv) {
		return 0, false
	}

	// Find height at the location.
	pd := d.NavDMeshes[ip]
	for j := 0; j < int(pd.TriCount); j++ {
		_, v := d.detailTriVerts(poly, pd, j)
		if h, ok := DtClosestHeightPointTriangle(pos, v[0], v[1], v[2]); ok {
			return h, true
		}
	}

	// If all triangle checks failed above (can happen with degenerate triangles
	// or larger floating point values) the point is on an edge, so just select
	// closest.
	closest := d.closestPointOnDetailEdges(false, ip, pos)
	return closest[1], true
}

// ClosestPointOnPoly returns the point on polygon ip closest to pos.
// posOverPoly reports whether pos lies above or below the polygon.
func (d *NavMeshData) ClosestPointOnPoly(ip int, pos []float32) (closest [3]float32, posOverPoly bool) {
	copy(closest[:], pos)
	if !d.validPoly(ip) {
		return closest, false
	}
	if h, ok := d.GetPolyHeight(ip, pos); ok {
		closest[1] = h
		return closest, true
	}

	// Off-mesh connections don't have detail polygons.
	poly := d.NavPolys[ip]
	if poly.GetType() == DT_POLYTYPE_OFFMESH_CONNECTION {
		v0 := common.GetVert3(d.NavVerts, poly.Verts[0])
		v1 := common.GetVert3(d.NavVerts, poly.Verts[1])
		t, _ := DtDistancePtSegSqr2D(pos, v0, v1)
		common.Vlerp(closest[:], v0, v1, t)
		return closest, false
	}
	if ip >= len(d.NavDMeshes) {
		return closest, false
	}

	// Outside poly that is not an offmesh connection.
	return d.closestPointOnDetailEdges(true, ip, pos), false
}

func (d *NavMeshData) closestPointOnDetailEdges(onlyBoundary bool, ip int, pos []float32) (closest [3]float32) {
	const anyBoundaryEdge = (DT_DETAIL_EDGE_BOUNDARY << 0) | (DT_DETAIL_EDGE_BOUNDARY << 2) | (DT_DETAIL_EDGE_BOUNDARY << 4)
	poly := d.NavPolys[ip]
	pd := d.NavDMeshes[ip]
	dmin := float32(math.MaxFloat32)
	tmin := float32(0)
	var pmin, pmax []float32

	for i := 0; i < int(pd.TriCount); i++ {
		tris, v := d.detailTriVerts(poly, pd, i)
		if onlyBoundary && (int(tris[3])&anyBoundaryEdge) == 0 {
			continue
		}
		for k, j := 0, 2; k < 3; j, k = k, k+1 {
			if (DtGetDetailTriEdgeFlags(tris[3], j)&DT_DETAIL_EDGE_BOUNDARY) == 0 && (onlyBoundary || tris[j] < tris[k]) {
				// Only looking at boundary edges and this is internal, or
				// this is an inner edge that we will see again or have already seen.
				continue
			}
			t, dd := DtDistancePtSegSqr2D(pos, v[j], v[k])
			if dd < dmin {
				dmin = dd
				tmin = t
				pmin = v[j]
				pmax = v[k]
			}
		}
	}
	if pmin == nil {
		copy(closest[:], pos)
		return closest
	}
	common.Vlerp(closest[:], pmin, pmax, tmin)
	return closest
}

// RandomPointInPoly returns a point on polygon ip for the uniform samples
// s and t in [0,1), with its height snapped to the detail surface.
func (d *NavMeshData) RandomPointInPoly(ip int, s, t float32) (pt [3]float32, ok bool) {
	if !d.validPoly(ip) || d.NavPolys[ip].GetType() != DT_POLYTYPE_GROUND {
		return pt, false
	}
	var verts [DT_VERTS_PER_POLYGON * 3]float32
	var areas [DT_VERTS_PER_POLYGON]float32
	nv := d.polyVerts(ip, verts[:])
	p := DtRandomPointInConvexPoly(verts[:], nv, areas[:], s, t)
	pt, _ = d.ClosestPointOnPoly(ip, p[:])
	return pt, true
}

// QueryPolygons hands every ground polygon whose bounds overlap
// qmin..qmax and that passes filter to query, as base|index references.
// The BV-tree is used when the tile has one, otherwise polygons are
// scanned one by one.
func (d *NavMeshData) QueryPolygons(base DtPolyRef, qmin, qmax []float32, filter DtQueryFilter, query DtPolyQuery) {
	var polyRefs [queryBatchSize]DtPolyRef
	n := 0
	add := func(ref DtPolyRef) {
		polyRefs[n] = ref
		if n == queryBatchSize-1 {
			query.Process(d, polyRefs[:], queryBatchSize)
			n = 0
		} else {
			n++
		}
	}

	if len(d.NavBvtree) > 0 {
		tbmin := d.Header.Bmin
		tbmax := d.Header.Bmax
		qfac := d.Header.BvQuantFactor

		// Clamp query box to world box.
		minx := common.Clamp(qmin[0], tbmin[0], tbmax[0]) - tbmin[0]
		miny := common.Clamp(qmin[1], tbmin[1], tbmax[1]) - tbmin[1]
		minz := common.Clamp(qmin[2], tbmin[2], tbmax[2]) - tbmin[2]
		maxx := common.Clamp(qmax[0], tbmin[0], tbmax[0]) - tbmin[0]
		maxy := common.Clamp(qmax[1], tbmin[1], tbmax[1]) - tbmin[1]
		maxz := common.Clamp(qmax[2], tbmin[2], tbmax[2]) - tbmin[2]
		// Quantize
		bmin := [3]uint16{
			quantize(qfac*minx) & 0xfffe,
			quantize(qfac*miny) & 0xfffe,
			quantize(qfac*minz) & 0xfffe,
		}
		bmax := [3]uint16{
			quantize(qfac*maxx+1) | 1,
			quantize(qfac*maxy+1) | 1,
			quantize(qfac*maxz+1) | 1,
		}

		// Traverse tree
		for node := 0; node < len(d.NavBvtree); {
			bv := d.NavBvtree[node]
			overlap := DtOverlapQuantBounds(bmin, bmax, bv.Bmin, bv.Bmax)
			if bv.IsLeaf() && overlap {
				ref := base | DtPolyRef(bv.PolyIndex())
				if filter.PassFilter(ref) {
					add(ref)
				}
			}
			if overlap || bv.IsLeaf() {
				node++
			} else {
				node += bv.EscapeOffset()
			}
		}
	} else {
		var bmin, bmax [3]float32
		for i, p := range d.NavPolys {
			// Do not return off-mesh connection polygons.
			if p.GetType() == DT_POLYTYPE_OFFMESH_CONNECTION {
				continue
			}
			// Must pass filter
			ref := base | DtPolyRef(i)
			if !filter.PassFilter(ref) {
				continue
			}
			// Calc polygon bounds.
			v := common.GetVert3(d.NavVerts, p.Verts[0])
			copy(bmin[:], v)
			copy(bmax[:], v)
			for j := 1; j < int(p.VertCount); j++ {
				v = common.GetVert3(d.NavVerts, p.Verts[j])
				common.Vmin(bmin[:], v)
				common.Vmax(bmax[:], v)
			}
			if DtOverlapBounds(qmin, qmax, bmin[:], bmax[:]) {
				add(ref)
			}
		}
	}

	// Process the last polygons that didn't make a full batch.
	if n > 0 {
		query.Process(d, polyRefs[:], n)
	}
}

func quantize(v float32) uint16 {
	return uint16(common.Clamp(v, 0, 0xffff))
}
