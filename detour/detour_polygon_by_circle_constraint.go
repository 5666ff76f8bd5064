package detour

import (
	"math"

	"github.com/gorustyt/navtile/common"
)

const circleSegments = 12

var unitCircle = func() (c [circleSegments]common.Vec3) {
	for i := range c {
		a := float64(i) * math.Pi * 2 / circleSegments
		c[i] = common.Vec3{float32(math.Cos(a)), 0, float32(-math.Sin(a))}
	}
	return c
}()

// DtPolygonByCircleConstraint clips a convex polygon to a circle.
type DtPolygonByCircleConstraint interface {
	Apply(verts []float32, center []float32, radius float32) []float32
}

// DtNoOpPolygonByCircleConstraint leaves the polygon untouched.
type DtNoOpPolygonByCircleConstraint struct{}

func (DtNoOpPolygonByCircleConstraint) Apply(verts []float32, center []float32, radius float32) []float32 {
	return verts
}

// DtStrictPolygonByCircleConstraint intersects the polygon with a
// 12-sided approximation of the circle.
type DtStrictPolygonByCircleConstraint struct{}

func (DtStrictPolygonByCircleConstraint) Apply(verts []float32, center []float32, radius float32) []float32 {
	radiusSqr := radius * radius
	outside := false
	for pv := 0; pv+3 <= len(verts); pv += 3 {
		if common.Vdist2DSqr(center, verts[pv:]) > radiusSqr {
			outside = true
			break
		}
	}
	if !outside {
		// all vertices inside the circle
		return verts
	}

	var circleBuf [circleSegments * 3]float32
	circle := scaleCircle(circleBuf[:0], center, radius)

	// Returned to the caller.
	out := make([]float32, 0, max(len(verts)/3, circleSegments)*3*3)
	res := DtConvexConvexIntersection(verts, circle, out)
	if res == nil && DtPointInPolygon(center, verts, len(verts)/3) {
		// circle inside polygon
		return append(out, circle...)
	}
	return res
}

func scaleCircle(dst []float32, center []float32, radius float32) []float32 {
	c := common.ToVec3(center)
	for _, v := range unitCircle {
		dst = common.PutVec3(dst, v.Mul(radius).Add(c))
	}
	return dst
}
