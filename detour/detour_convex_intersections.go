package detour

import (
	"github.com/gorustyt/navtile/common"
)

const convexIntersectionEps = 1e-4

type inFlag int

const (
	inUnknown inFlag = iota
	inP
	inQ
)

type intersection int

const (
	intersectNone intersection = iota
	intersectSingle
	intersectOverlap
)

// DtConvexConvexIntersection computes the intersection of two convex
// polygons projected onto the xz-plane. Both polygons are packed
// (x, y, z) arrays with positive winding. The result is written into buf
// when it can hold 3*max(n, m)*3 floats and aliases it; otherwise a new
// buffer is allocated. nil means the polygons do not intersect, or one
// lies entirely inside the other.
func DtConvexConvexIntersection(p, q, buf []float32) []float32 {
	n := len(p) / 3
	m := len(q) / 3
	if n < 3 || m < 3 {
		return nil
	}
	out := buf[:0]
	if need := max(n, m) * 3 * 3; cap(buf) < need {
		out = make([]float32, 0, need)
	}

	var aa, ba, ai, bi int
	f := inUnknown
	firstPoint := true
	for {
		a := common.ToVec3(p[3*(ai%n):])
		b := common.ToVec3(q[3*(bi%m):])
		a1 := common.ToVec3(p[3*((ai+n-1)%n):])
		b1 := common.ToVec3(q[3*((bi+m-1)%m):])

		A := a.Sub(a1)
		B := b.Sub(b1)

		cross := B.X()*A.Z() - A.X()*B.Z()
		aHB := common.TriArea2D(b1[:], b[:], a[:])
		bHA := common.TriArea2D(a1[:], a[:], b[:])
		if common.Abs(cross) < convexIntersectionEps {
			cross = 0
		}
		parallel := cross == 0

		var code intersection
		var ip, iq common.Vec3
		if parallel {
			code, ip, iq = parallelInt(a1, a, b1, b)
		} else {
			code, ip = segSegInt(a1, a, b1, b)
		}

		if code == intersectSingle {
			if firstPoint {
				firstPoint = false
				aa, ba = 0, 0
			}
			out = addVertex(out, ip)
			f = inOut(f, aHB, bHA)
		}

		// Overlapping edges running in opposite directions.
		if code == intersectOverlap && common.Vdot2D(A[:], B[:]) < 0 {
			out = addVertex(out, ip)
			out = addVertex(out, iq)
			break
		}

		if parallel && aHB < 0 && bHA < 0 {
			// Parallel and separated.
			return nil
		} else if parallel && common.Abs(aHB) < convexIntersectionEps && common.Abs(bHA) < convexIntersectionEps {
			// Collinear, advance without output.
			if f == inP {
				ba++
				bi++
			} else {
				aa++
				ai++
			}
		} else if cross >= 0 {
			if bHA > 0 {
				if f == inP {
					out = addVertex(out, a)
				}
				aa++
				ai++
			} else {
				if f == inQ {
					out = addVertex(out, b)
				}
				ba++
				bi++
			}
		} else {
			if aHB > 0 {
				if f == inQ {
					out = addVertex(out, b)
				}
				ba++
				bi++
			} else {
				if f == inP {
					out = addVertex(out, a)
				}
				aa++
				ai++
			}
		}

		if !((aa < n || ba < m) && aa < 2*n && ba < 2*m) {
			break
		}
	}

	if f == inUnknown {
		return nil
	}
	return out
}

func addVertex(out []float32, p common.Vec3) []float32 {
	if n := len(out); n > 0 {
		if out[n-3] == p[0] && out[n-2] == p[1] && out[n-1] == p[2] {
			return out
		}
		if out[0] == p[0] && out[1] == p[1] && out[2] == p[2] {
			return out
		}
	}
	return append(out, p[0], p[1], p[2])
}

func inOut(f inFlag, aHB, bHA float32) inFlag {
	if aHB > 0 {
		return inP
	} else if bHA > 0 {
		return inQ
	}
	return f
}

func segSegInt(a, b, c, d common.Vec3) (intersection, common.Vec3) {
	s, t, ok := DtIntersectSegSeg2D(a[:], b[:], c[:], d[:])
	if ok && s >= 0 && s <= 1 && t >= 0 && t <= 1 {
		return intersectSingle, a.Add(b.Sub(a).Mul(s))
	}
	return intersectNone, common.Vec3{}
}

func parallelInt(a, b, c, d common.Vec3) (intersection, common.Vec3, common.Vec3) {
	switch {
	case between(a, b, c) && between(a, b, d):
		return intersectOverlap, c, d
	case between(c, d, a) && between(c, d, b):
		return intersectOverlap, a, b
	case between(a, b, c) && between(c, d, b):
		return intersectOverlap, c, b
	case between(a, b, c) && between(c, d, a):
		return intersectOverlap, c, a
	case between(a, b, d) && between(c, d, b):
		return intersectOverlap, d, b
	case between(a, b, d) && between(c, d, a):
		return intersectOverlap, d, a
	}
	return intersectNone, common.Vec3{}, common.Vec3{}
}

// between reports whether c lies within segment ab, tested on the
// dominant axis of ab.
func between(a, b, c common.Vec3) bool {
	if common.Abs(a.X()-b.X()) > common.Abs(a.Z()-b.Z()) {
		return (a.X() <= c.X() && c.X() <= b.X()) || (a.X() >= c.X() && c.X() >= b.X())
	}
	return (a.Z() <= c.Z() && c.Z() <= b.Z()) || (a.Z() >= c.Z() && c.Z() >= b.Z())
}
