package detour

import (
	"math"

	"github.com/gorustyt/navtile/common"
)

// DtDistancePtSegSqr2D returns the parameter of the closest point on pq to
// pt and the squared xz-plane distance to it.
func DtDistancePtSegSqr2D[T float64 | float32](pt, p, q []T) (t T, res T) {
	pqx := q[0] - p[0]
	pqz := q[2] - p[2]
	dx := pt[0] - p[0]
	dz := pt[2] - p[2]
	d := pqx*pqx + pqz*pqz
	t = pqx*dx + pqz*dz
	if d > 0 {
		t /= d
	}
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	dx = p[0] + t*pqx - pt[0]
	dz = p[2] + t*pqz - pt[2]
	return t, dx*dx + dz*dz
}

// / Calculates the centroid of the polygon.
// /  @param[in]		idx		The polygon indices. [(vertIndex) * @p nidx]
// /  @param[in]		nidx	The number of indices in the polygon. [Limit: >= 3]
// /  @param[in]		verts	The polygon vertices. [(x, y, z) * vertCount]
func DtCalcPolyCenter(idx []uint16, nidx int, verts []float32) (tc [3]float32) {
	for j := 0; j < nidx; j++ {
		v := common.GetVert3(verts, idx[j])
		tc[0] += v[0]
		tc[1] += v[1]
		tc[2] += v[2]
	}
	s := 1.0 / float32(nidx)
	tc[0] *= s
	tc[1] *= s
	tc[2] *= s
	return tc
}

// / Derives the y-axis height of the closest point on the triangle from the specified reference point.
// /  @param[in]		p		The reference point from which to test. [(x, y, z)]
// /  @param[in]		a		Vertex A of triangle ABC. [(x, y, z)]
// /  @param[in]		b		Vertex B of triangle ABC. [(x, y, z)]
// /  @param[in]		c		Vertex C of triangle ABC. [(x, y, z)]
// /  @return h		The resulting height, ok is false when p is not above the triangle.
func DtClosestHeightPointTriangle(p, a, b, c []float32) (h float32, ok bool) {
	const EPS = 1e-6
	var v0, v1, v2 [3]float32
	common.Vsub(v0[:], c, a)
	common.Vsub(v1[:], b, a)
	common.Vsub(v2[:], p, a)

	// Compute scaled barycentric coordinates
	denom := v0[0]*v1[2] - v0[2]*v1[0]
	if common.Abs(denom) < EPS {
		return h, false
	}
	u := v1[2]*v2[0] - v1[0]*v2[2]
	v := v0[0]*v2[2] - v0[2]*v2[0]

	if denom < 0 {
		denom = -denom
		u = -u
		v = -v
	}

	// If point lies inside the triangle, return interpolated ycoord.
	if u >= 0.0 && v >= 0.0 && (u+v) <= denom {
		h = a[1] + (v0[1]*u+v1[1]*v)/denom
		return h, true
	}
	return h, false
}

// / Determines if two axis-aligned bounding boxes overlap.
// /  @param[in]		amin	Minimum bounds of box A. [(x, y, z)]
// /  @param[in]		amax	Maximum bounds of box A. [(x, y, z)]
// /  @param[in]		bmin	Minimum bounds of box B. [(x, y, z)]
// /  @param[in]		bmax	Maximum bounds of box B. [(x, y, z)]
// / @return True if the two AABB's overlap.
// / @see DtOverlapBounds
func DtOverlapQuantBounds(amin, amax, bmin, bmax [3]uint16) bool {
	if amin[0] > bmax[0] || amax[0] < bmin[0] {
		return false
	}
	if amin[1] > bmax[1] || amax[1] < bmin[1] {
		return false
	}
	if amin[2] > bmax[2] || amax[2] < bmin[2] {
		return false
	}
	return true
}

// / Determines if two axis-aligned bounding boxes overlap.
// / @see DtOverlapQuantBounds
func DtOverlapBounds(amin, amax, bmin, bmax []float32) bool {
	if amin[0] > bmax[0] || amax[0] < bmin[0] {
		return false
	}
	if amin[1] > bmax[1] || amax[1] < bmin[1] {
		return false
	}
	if amin[2] > bmax[2] || amax[2] < bmin[2] {
		return false
	}
	return true
}

// DtRandomPointInConvexPoly returns a point inside a convex polygon for the
// two uniform samples s and t in [0,1). Each fan triangle is picked with a
// probability proportional to its area. areas is scratch space of at
// least npts floats.
// Adapted from Graphics Gems article.
func DtRandomPointInConvexPoly(pts []float32, npts int, areas []float32, s, t float32) (pt [3]float32) {
	// Calc triangle araes
	areasum := float32(0.0)
	for i := 2; i < npts; i++ {
		areas[i] = common.TriArea2D(common.GetVert3(pts, 0), common.GetVert3(pts, i-1), common.GetVert3(pts, i))
		areasum += max(0.001, areas[i])
	}
	// Find sub triangle weighted by area.
	thr := s * areasum
	acc := float32(0.0)
	u := float32(1.0)
	tri := npts - 1
	for i := 2; i < npts; i++ {
		dacc := areas[i]
		if thr >= acc && thr < (acc+dacc) {
			u = (thr - acc) / dacc
			tri = i
			break
		}
		acc += dacc
	}

	v := float32(math.Sqrt(float64(t)))

	a := 1 - v
	b := (1 - u) * v
	c := u * v
	pa := common.GetVert3(pts, 0)
	pb := common.GetVert3(pts, tri-1)
	pc := common.GetVert3(pts, tri)

	pt[0] = a*pa[0] + b*pb[0] + c*pc[0]
	pt[1] = a*pa[1] + b*pb[1] + c*pc[1]
	pt[2] = a*pa[2] + b*pb[2] + c*pc[2]
	return pt
}

// / Determines if the specified point is inside the convex polygon on the xz-plane.
// /  @param[in]		pt		The point to check. [(x, y, z)]
// /  @param[in]		verts	The polygon vertices. [(x, y, z) * @p nverts]
// /  @param[in]		nverts	The number of vertices. [Limit: >= 3]
// / @return True if the point is inside the polygon.
func DtPointInPolygon(pt, verts []float32, nverts int) bool {
	c := false
	for i, j := 0, nverts-1; i < nverts; j, i = i, i+1 {
		vi := common.GetVert3(verts, i)
		vj := common.GetVert3(verts, j)
		if ((vi[2] > pt[2]) != (vj[2] > pt[2])) &&
			(pt[0] < (vj[0]-vi[0])*(pt[2]-vi[2])/(vj[2]-vi[2])+vi[0]) {
			c = !c
		}
	}
	return c
}

// DtDistancePtPolyEdgesSqr runs the point-in-polygon test and fills ed with
// the squared distance from pt to each edge and et with the parameter of
// the closest point on that edge. Edge j runs from vertex j to vertex j+1.
func DtDistancePtPolyEdgesSqr(pt, verts []float32, nverts int, ed, et []float32) (c bool) {
	for i, j := 0, nverts-1; i < nverts; j, i = i, i+1 {
		vi := common.GetVert3(verts, i)
		vj := common.GetVert3(verts, j)
		if ((vi[2] > pt[2]) != (vj[2] > pt[2])) &&
			(pt[0] < (vj[0]-vi[0])*(pt[2]-vi[2])/(vj[2]-vi[2])+vi[0]) {
			c = !c
		}
		et[j], ed[j] = DtDistancePtSegSqr2D(pt, vj, vi)
	}
	return c
}

func vperpXZ(a, b []float32) float32 { return a[0]*b[2] - a[2]*b[0] }

// DtIntersectSegSeg2D intersects the lines through ap-aq and bp-bq on the
// xz-plane. s and t are the parameters along each segment; ok is false
// when the lines are parallel.
func DtIntersectSegSeg2D(ap, aq, bp, bq []float32) (s, t float32, ok bool) {
	var u, v, w [3]float32
	common.Vsub(u[:], aq, ap)
	common.Vsub(v[:], bq, bp)
	common.Vsub(w[:], ap, bp)
	d := vperpXZ(u[:], v[:])
	if common.Abs(d) < 1e-6 {
		return s, t, false
	}
	s = vperpXZ(v[:], w[:]) / d
	t = vperpXZ(u[:], w[:]) / d
	return s, t, true
}

// DtIntersectSegSeg3D finds the parameters of the closest points between
// the lines through ap-aq and bp-bq. ok is false for parallel or
// degenerate segments.
func DtIntersectSegSeg3D(ap, aq, bp, bq []float32) (s, t float32, ok bool) {
	var u, v, w, n [3]float32
	common.Vsub(u[:], aq, ap)
	common.Vsub(v[:], bq, bp)
	common.Vsub(w[:], ap, bp)
	common.Vcross(n[:], u[:], v[:])
	d := common.Vdot(n[:], n[:])
	if d < 1e-6 {
		return s, t, false
	}
	a := common.Vdot(u[:], u[:])
	b := common.Vdot(u[:], v[:])
	c := common.Vdot(v[:], v[:])
	dd := common.Vdot(u[:], w[:])
	e := common.Vdot(v[:], w[:])
	// a*c - b*b equals |u x v|^2.
	s = (b*e - c*dd) / d
	t = (a*e - b*dd) / d
	return s, t, true
}

// DtIntersectSegmentTriangle tests segment sp-sq against triangle abc.
// Only triangles facing the segment direction are hit. t is the hit
// parameter along the segment.
func DtIntersectSegmentTriangle(sp, sq, a, b, c []float32) (t float32, ok bool) {
	var ab, ac, qp, ap, norm, e [3]float32
	common.Vsub(ab[:], b, a)
	common.Vsub(ac[:], c, a)
	common.Vsub(qp[:], sp, sq)

	// Compute triangle normal. Can be precalculated or cached if
	// intersecting multiple segments against the same triangle
	common.Vcross(norm[:], ab[:], ac[:])

	// Compute denominator d. If d <= 0, segment is parallel to or points
	// away from triangle, so exit early
	d := common.Vdot(qp[:], norm[:])
	if d <= 0.0 {
		return 0, false
	}

	// Compute intersection t value of pq with plane of triangle. A ray
	// intersects iff 0 <= t. Segment intersects iff 0 <= t <= 1. Delay
	// dividing by d until intersection has been found to pierce triangle
	common.Vsub(ap[:], sp, a)
	t = common.Vdot(ap[:], norm[:])
	if t < 0.0 || t > d {
		return 0, false
	}

	// Compute barycentric coordinate components and test if within bounds
	common.Vcross(e[:], qp[:], ap[:])
	v := common.Vdot(ac[:], e[:])
	if v < 0.0 || v > d {
		return 0, false
	}
	w := -common.Vdot(ab[:], e[:])
	if w < 0.0 || v+w > d {
		return 0, false
	}

	// Segment/ray intersects triangle. Perform delayed division
	return t / d, true
}

// DtIntersectSegmentPoly2D clips segment p0-p1 against a convex polygon
// on the xz-plane. tmin/tmax bound the part of the segment inside the
// polygon, segMin/segMax are the edges where it enters and leaves (-1 when
// the segment starts or ends inside).
func DtIntersectSegmentPoly2D(p0, p1, verts []float32, nverts int) (tmin, tmax float32, segMin, segMax int, ok bool) {
	const EPS = 0.000001

	tmin = 0
	tmax = 1
	segMin = -1
	segMax = -1
	var dir, edge, diff [3]float32
	common.Vsub(dir[:], p1, p0)

	for i, j := 0, nverts-1; i < nverts; j, i = i, i+1 {
		common.Vsub(edge[:], common.GetVert3(verts, i), common.GetVert3(verts, j))
		common.Vsub(diff[:], p0, common.GetVert3(verts, j))
		n := common.Vperp2D(edge[:], diff[:])
		d := common.Vperp2D(dir[:], edge[:])
		if common.Abs(d) < EPS {
			// S is nearly parallel to this edge
			if n < 0 {
				return tmin, tmax, segMin, segMax, false
			}
			continue
		}
		t := n / d
		if d < 0 {
			// segment S is entering across this edge
			if t > tmin {
				tmin = t
				segMin = j
				// S enters after leaving polygon
				if tmin > tmax {
					return tmin, tmax, segMin, segMax, false
				}
			}
		} else {
			// segment S is leaving across this edge
			if t < tmax {
				tmax = t
				segMax = j
				// S leaves before entering polygon
				if tmax < tmin {
					return tmin, tmax, segMin, segMax, false
				}
			}
		}
	}

	return tmin, tmax, segMin, segMax, true
}

// / @par
// /
// / All vertices are projected onto the xz-plane, so the y-values are ignored.
func DtOverlapPolyPoly2D(polya []float32, npolya int, polyb []float32, npolyb int) bool {
	const eps = float32(1e-4)
	for i, j := 0, npolya-1; i < npolya; j, i = i, i+1 {
		va := common.GetVert3(polya, j)
		vb := common.GetVert3(polya, i)
		n := [3]float32{vb[2] - va[2], 0, -(vb[0] - va[0])}
		amin, amax := projectPoly(n[:], polya, npolya)
		bmin, bmax := projectPoly(n[:], polyb, npolyb)
		if !overlapRange(amin, amax, bmin, bmax, eps) {
			// Found separating axis
			return false
		}
	}
	for i, j := 0, npolyb-1; i < npolyb; j, i = i, i+1 {
		va := common.GetVert3(polyb, j)
		vb := common.GetVert3(polyb, i)
		n := [3]float32{vb[2] - va[2], 0, -(vb[0] - va[0])}
		amin, amax := projectPoly(n[:], polya, npolya)
		bmin, bmax := projectPoly(n[:], polyb, npolyb)
		if !overlapRange(amin, amax, bmin, bmax, eps) {
			// Found separating axis
			return false
		}
	}
	return true
}

func projectPoly(axis, poly []float32, npoly int) (rmin, rmax float32) {
	rmax = common.Vdot2D(axis, poly[0:3])
	rmin = rmax
	for i := 1; i < npoly; i++ {
		d := common.Vdot2D(axis, common.GetVert3(poly, i))
		rmin = min(rmin, d)
		rmax = max(rmax, d)
	}
	return rmin, rmax
}

func overlapRange(amin, amax, bmin, bmax, eps float32) bool {
	return !((amin+eps) > bmax || (amax-eps) < bmin)
}
