package detour

import (
	"github.com/gorustyt/navtile/common"
)

// / Defines polygon filtering and traversal costs for navigation mesh query operations.
// / A search only enters polygons that pass the filter, and the cost must
// / grow with the distance travelled for the search to stay admissible.
// / @ingroup detour
type DtQueryFilter interface {
	/// Returns true if the polygon can be visited.  (I.e. Is traversable.)
	///  @param[in]		ref		The reference id of the polygon test.
	PassFilter(ref DtPolyRef) bool

	/// Returns cost to move from the beginning to the end of a line segment
	/// that is fully contained within a polygon.
	///  @param[in]		pa			The start position on the edge of the previous and current polygon. [(x, y, z)]
	///  @param[in]		pb			The end position on the edge of the current and next polygon. [(x, y, z)]
	///  @param[in]		prevRef		The reference id of the previous polygon. [opt]
	///  @param[in]		curRef		The reference id of the current polygon.
	///  @param[in]		nextRef		The refernece id of the next polygon. [opt]
	GetCost(pa, pb []float32, prevRef, curRef, nextRef DtPolyRef) float32
}

// DtDefaultQueryFilter lets every polygon through at Euclidean cost.
type DtDefaultQueryFilter struct{}

func (DtDefaultQueryFilter) PassFilter(ref DtPolyRef) bool { return true }

func (DtDefaultQueryFilter) GetCost(pa, pb []float32, prevRef, curRef, nextRef DtPolyRef) float32 {
	return common.Vdist(pa, pb)
}

// DtQueryEmptyFilter rejects every polygon.
type DtQueryEmptyFilter struct{}

func (DtQueryEmptyFilter) PassFilter(ref DtPolyRef) bool { return false }

func (DtQueryEmptyFilter) GetCost(pa, pb []float32, prevRef, curRef, nextRef DtPolyRef) float32 {
	return 0
}

// DtQueryNoOpFilter accepts every polygon at zero cost, for connectivity
// checks.
type DtQueryNoOpFilter struct{}

func (DtQueryNoOpFilter) PassFilter(ref DtPolyRef) bool { return true }

func (DtQueryNoOpFilter) GetCost(pa, pb []float32, prevRef, curRef, nextRef DtPolyRef) float32 {
	return 0
}

// DtPolyResolver maps a polygon reference back to its polygon.
type DtPolyResolver interface {
	ResolvePoly(ref DtPolyRef) (*DtPoly, bool)
}

// DtTilePolyResolver resolves references of the form base|index into a
// single tile.
type DtTilePolyResolver struct {
	Tile *NavMeshData
	Base DtPolyRef
}

func (r DtTilePolyResolver) ResolvePoly(ref DtPolyRef) (*DtPoly, bool) {
	if r.Tile == nil || ref < r.Base {
		return nil, false
	}
	ip := ref - r.Base
	if ip >= DtPolyRef(len(r.Tile.NavPolys)) {
		return nil, false
	}
	return r.Tile.NavPolys[ip], true
}

// DtAreaQueryFilter filters on polygon flags and weights the travel cost
// by the area of the polygon being crossed.
type DtAreaQueryFilter struct {
	resolver     DtPolyResolver
	areaCost     [DT_MAX_AREAS]float32 ///< Cost per area type.
	includeFlags uint16                ///< Flags for polygons that can be visited.
	excludeFlags uint16                ///< Flags for polygons that should not be visited.
}

// NewDtAreaQueryFilter includes all flags and sets every area cost to 1.
func NewDtAreaQueryFilter(resolver DtPolyResolver) *DtAreaQueryFilter {
	f := &DtAreaQueryFilter{resolver: resolver, includeFlags: 0xffff}
	for i := range f.areaCost {
		f.areaCost[i] = 1.0
	}
	return f
}

/// @name Getters and setters for the default implementation data.
///@{

// / Returns the traversal cost of the area.
// /  @param[in]		i		The id of the area.
// / @returns The traversal cost of the area.
func (filter *DtAreaQueryFilter) GetAreaCost(i int) float32 { return filter.areaCost[i] }

// / Sets the traversal cost of the area.
// /  @param[in]		i		The id of the area.
// /  @param[in]		cost	The new cost of traversing the area.
func (filter *DtAreaQueryFilter) SetAreaCost(i int, cost float32) { filter.areaCost[i] = cost }

// / Returns the include flags for the filter.
// / Any polygons that include one or more of these flags will be
// / included in the operation.
func (filter *DtAreaQueryFilter) GetIncludeFlags() uint16 { return filter.includeFlags }

// / Sets the include flags for the filter.
// / @param[in]		flags	The new flags.
func (filter *DtAreaQueryFilter) SetIncludeFlags(flags uint16) { filter.includeFlags = flags }

// / Returns the exclude flags for the filter.
// / Any polygons that include one ore more of these flags will be
// / excluded from the operation.
func (filter *DtAreaQueryFilter) GetExcludeFlags() uint16 { return filter.excludeFlags }

// / Sets the exclude flags for the filter.
// / @param[in]		flags		The new flags.
func (filter *DtAreaQueryFilter) SetExcludeFlags(flags uint16) { filter.excludeFlags = flags }

///@}

func (filter *DtAreaQueryFilter) PassFilter(ref DtPolyRef) bool {
	poly, ok := filter.resolver.ResolvePoly(ref)
	if !ok {
		return false
	}
	return (poly.Flags&filter.includeFlags) != 0 && (poly.Flags&filter.excludeFlags) == 0
}

func (filter *DtAreaQueryFilter) GetCost(pa, pb []float32, prevRef, curRef, nextRef DtPolyRef) float32 {
	d := common.Vdist(pa, pb)
	if poly, ok := filter.resolver.ResolvePoly(curRef); ok {
		return d * filter.areaCost[poly.GetArea()]
	}
	return d
}
