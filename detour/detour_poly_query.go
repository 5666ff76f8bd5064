package detour

import (
	"math"

	"github.com/gorustyt/navtile/common"
)

// / Provides custom polygon query behavior.
// / Used by NavMeshData.QueryPolygons.
// / @ingroup detour
type DtPolyQuery interface {
	/// Called for each batch of unique polygons touched by the search area.
	/// This can be called multiple times for a single query.
	Process(tile *NavMeshData, refs []DtPolyRef, count int)
}

// DtCollectPolysQuery copies polygon references into a caller buffer
// until it is full. Anything past capacity is dropped and flagged.
type DtCollectPolysQuery struct {
	polys        []DtPolyRef
	maxPolys     int
	numCollected int
	overflow     bool
}

func NewDtCollectPolysQuery(polys []DtPolyRef, maxPolys int) *DtCollectPolysQuery {
	return &DtCollectPolysQuery{
		polys:    polys,
		maxPolys: max(0, min(maxPolys, len(polys))),
	}
}

func (q *DtCollectPolysQuery) NumCollected() int { return q.numCollected }
func (q *DtCollectPolysQuery) Overflowed() bool  { return q.overflow }

func (q *DtCollectPolysQuery) Process(tile *NavMeshData, refs []DtPolyRef, count int) {
	numLeft := q.maxPolys - q.numCollected
	toCopy := max(0, min(count, len(refs)))
	if toCopy > numLeft {
		q.overflow = true
		toCopy = numLeft
	}
	copy(q.polys[q.numCollected:], refs[:toCopy])
	q.numCollected += toCopy
}

// DtFindNearestPolyQuery keeps the polygon closest to a point. A polygon
// directly above or below the point wins over one that is nearer in a
// straight line as long as the height gap is within the walkable climb.
type DtFindNearestPolyQuery struct {
	base               DtPolyRef
	center             [3]float32
	nearestDistanceSqr float32
	nearestRef         DtPolyRef
	nearestPoint       [3]float32
	overPoly           bool
}

func NewDtFindNearestPolyQuery(base DtPolyRef, center []float32) *DtFindNearestPolyQuery {
	q := &DtFindNearestPolyQuery{
		base:               base,
		nearestDistanceSqr: math.MaxFloat32,
	}
	copy(q.center[:], center)
	return q
}

func (q *DtFindNearestPolyQuery) NearestRef() DtPolyRef    { return q.nearestRef }
func (q *DtFindNearestPolyQuery) NearestPoint() [3]float32 { return q.nearestPoint }
func (q *DtFindNearestPolyQuery) IsOverPoly() bool         { return q.overPoly }
func (q *DtFindNearestPolyQuery) Found() bool              { return q.nearestDistanceSqr < math.MaxFloat32 }

func (q *DtFindNearestPolyQuery) Process(tile *NavMeshData, refs []DtPolyRef, count int) {
	for _, ref := range refs[:count] {
		closest, posOverPoly := tile.ClosestPointOnPoly(int(ref-q.base), q.center[:])

		// If a point is directly over a polygon and closer than
		// climb height, favor that instead of straight line nearest point.
		var diff [3]float32
		common.Vsub(diff[:], q.center[:], closest[:])
		var d float32
		if posOverPoly {
			d = common.Abs(diff[1]) - tile.Header.WalkableClimb
			if d > 0 {
				d = d * d
			} else {
				d = 0
			}
		} else {
			d = common.Vdot(diff[:], diff[:])
		}

		if d < q.nearestDistanceSqr {
			q.nearestPoint = closest
			q.nearestDistanceSqr = d
			q.nearestRef = ref
			q.overPoly = posOverPoly
		}
	}
}
