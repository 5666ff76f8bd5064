package detour

import (
	"fmt"
	"math"
	"sort"

	"github.com/gorustyt/navtile/common"
	"github.com/gorustyt/navtile/common/logger"
	"go.uber.org/zap"
)

// / Represents the source data used to build an navigation mesh tile.
// / @ingroup detour
type DtNavMeshCreateParams struct {

	/// @name Polygon Mesh Attributes
	/// Used to create the base navigation graph.
	/// @{

	Verts     []uint16 ///< The polygon mesh vertices. [(x, y, z) * #vertCount] [Unit: vx]
	VertCount int      ///< The number vertices in the polygon mesh. [Limit: >= 3]
	Polys     []uint16 ///< The polygon data. [Size: #polyCount * 2 * #nvp]
	PolyFlags []uint16 ///< The user defined flags assigned to each polygon. [Size: #polyCount]
	PolyAreas []uint8  ///< The user defined area ids assigned to each polygon. [Size: #polyCount]
	PolyCount int      ///< Number of polygons in the mesh. [Limit: >= 1]
	Nvp       int      ///< Number maximum number of vertices per polygon. [Limit: >= 3]

	/// @}
	/// @name Height Detail Attributes (Optional)
	/// @{

	DetailMeshes     []uint32  ///< The height detail sub-mesh data. [(vertBase, vertCount, triBase, triCount) * #polyCount]
	DetailVerts      []float32 ///< The detail mesh vertices. [Size: 3 * #detailVertsCount] [Unit: wu]
	DetailVertsCount int       ///< The number of vertices in the detail mesh.
	DetailTris       []uint8   ///< The detail mesh triangles. [Size: 4 * #detailTriCount]
	DetailTriCount   int       ///< The number of triangles in the detail mesh.

	/// @}
	/// @name Off-Mesh Connections Attributes (Optional)
	/// Used to define a custom point-to-point edge within the navigation graph, an
	/// off-mesh connection is a user defined traversable connection made up to two vertices,
	/// at least one of which resides within a navigation mesh polygon.
	/// @{

	/// Off-mesh connection vertices. [(ax, ay, az, bx, by, bz) * #offMeshConCount] [Unit: wu]
	OffMeshConVerts []float32
	/// Off-mesh connection radii. [Size: #offMeshConCount] [Unit: wu]
	OffMeshConRad []float32
	/// User defined flags assigned to the off-mesh connections. [Size: #offMeshConCount]
	OffMeshConFlags []uint16
	/// User defined area ids assigned to the off-mesh connections. [Size: #offMeshConCount]
	OffMeshConAreas []uint8
	/// The permitted travel direction of the off-mesh connections. [Size: #offMeshConCount]
	///
	/// 0 = Travel only from endpoint A to endpoint B.<br/>
	/// #DT_OFFMESH_CON_BIDIR = Bidirectional travel.
	OffMeshConDir []uint8
	/// The user defined ids of the off-mesh connection. [Size: #offMeshConCount] [opt]
	OffMeshConUserID []uint32
	/// The number of off-mesh connections. [Limit: >= 0]
	OffMeshConCount int

	/// @}
	/// @name Tile Attributes
	/// @note The tile grid/layer data can be left at zero if the destination is a single tile mesh.
	/// @{

	UserId    uint32     ///< The user defined id of the tile.
	TileX     int32      ///< The tile's x-grid location within the multi-tile destination mesh. (Along the x-axis.)
	TileY     int32      ///< The tile's y-grid location within the multi-tile destination mesh. (Along the z-axis.)
	TileLayer int32      ///< The tile's layer within the layered destination mesh. [Limit: >= 0] (Along the y-axis.)
	Bmin      [3]float32 ///< The minimum bounds of the tile. [(x, y, z)] [Unit: wu]
	Bmax      [3]float32 ///< The maximum bounds of the tile. [(x, y, z)] [Unit: wu]

	/// @}
	/// @name General Configuration Attributes
	/// @{

	WalkableHeight float32 ///< The agent height. [Unit: wu]
	WalkableRadius float32 ///< The agent radius. [Unit: wu]
	WalkableClimb  float32 ///< The agent maximum traversable ledge. (Up/Down) [Unit: wu]
	Cs             float32 ///< The xz-plane cell size of the polygon mesh. [Limit: > 0] [Unit: wu]
	Ch             float32 ///< The y-axis cell height of the polygon mesh. [Limit: > 0] [Unit: wu]

	/// True if a bounding volume tree should be built for the tile.
	/// @note The BVTree is not normally needed for layered navigation meshes.
	BuildBvTree bool

	/// @}
}

// polyVertCount counts the used vertex slots of polygon i.
func (params *DtNavMeshCreateParams) polyVertCount(i int) int {
	p := params.Polys[i*2*params.Nvp:]
	nv := 0
	for j := 0; j < params.Nvp; j++ {
		if p[j] == MESH_NULL_IDX {
			break
		}
		nv++
	}
	return nv
}

func invalidParam(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParam, fmt.Sprintf(format, args...))
}

// validate checks the counts first, then that every array is long enough
// and every index stays in range. Polygon convexity is trusted.
func (params *DtNavMeshCreateParams) validate() error {
	if params.Nvp < 3 || params.Nvp > DT_VERTS_PER_POLYGON {
		return invalidParam("nvp %d not in [3, %d]", params.Nvp, DT_VERTS_PER_POLYGON)
	}
	if params.VertCount == 0 || params.VertCount >= 0xffff {
		return invalidParam("vertex count %d not in [1, %d)", params.VertCount, 0xffff)
	}
	if params.PolyCount <= 0 {
		return invalidParam("polygon count %d", params.PolyCount)
	}
	if !(params.Cs > 0) || !(params.Ch > 0) {
		return invalidParam("cell size %v and cell height %v must be positive", params.Cs, params.Ch)
	}
	if !common.Visfinite(params.Bmin[:]) || !common.Visfinite(params.Bmax[:]) {
		return invalidParam("tile bounds %v - %v", params.Bmin, params.Bmax)
	}
	if len(params.Verts) < params.VertCount*3 {
		return invalidParam("%d vertex coordinates for %d vertices", len(params.Verts), params.VertCount)
	}
	if len(params.Polys) < params.PolyCount*2*params.Nvp {
		return invalidParam("polygon data holds %d entries, need %d", len(params.Polys), params.PolyCount*2*params.Nvp)
	}
	if len(params.PolyFlags) < params.PolyCount || len(params.PolyAreas) < params.PolyCount {
		return invalidParam("polygon flags/areas shorter than polygon count %d", params.PolyCount)
	}

	nvp := params.Nvp
	for i := 0; i < params.PolyCount; i++ {
		p := params.Polys[i*2*nvp:]
		nv := params.polyVertCount(i)
		if nv < 3 {
			return invalidParam("polygon %d has %d vertices", i, nv)
		}
		if params.PolyAreas[i] >= DT_MAX_AREAS {
			return invalidParam("polygon %d area %d >= %d", i, params.PolyAreas[i], DT_MAX_AREAS)
		}
		for j := 0; j < nv; j++ {
			if int(p[j]) >= params.VertCount {
				return invalidParam("polygon %d vertex index %d >= %d", i, p[j], params.VertCount)
			}
			nei := p[nvp+j]
			if nei&0x8000 != 0 {
				if dir := nei & 0xf; dir > 3 && dir != 0xf {
					return invalidParam("polygon %d edge %d has portal direction %d", i, j, dir)
				}
			} else if int(nei) >= params.PolyCount {
				return invalidParam("polygon %d edge %d neighbour %d >= %d", i, j, nei, params.PolyCount)
			}
		}
	}

	if n := params.OffMeshConCount; n > 0 {
		if len(params.OffMeshConVerts) < n*6 || len(params.OffMeshConRad) < n ||
			len(params.OffMeshConFlags) < n || len(params.OffMeshConAreas) < n || len(params.OffMeshConDir) < n {
			return invalidParam("off-mesh connection arrays shorter than count %d", n)
		}
		if len(params.OffMeshConUserID) != 0 && len(params.OffMeshConUserID) < n {
			return invalidParam("off-mesh connection user ids shorter than count %d", n)
		}
		for i := 0; i < n; i++ {
			if !common.Visfinite(params.OffMeshConVerts[i*6:]) || !common.Visfinite(params.OffMeshConVerts[i*6+3:]) {
				return invalidParam("off-mesh connection %d has a non-finite endpoint", i)
			}
			if params.OffMeshConAreas[i] >= DT_MAX_AREAS {
				return invalidParam("off-mesh connection %d area %d >= %d", i, params.OffMeshConAreas[i], DT_MAX_AREAS)
			}
		}
	} else if n < 0 {
		return invalidParam("off-mesh connection count %d", n)
	}

	if params.DetailVertsCount < 0 || params.DetailTriCount < 0 ||
		len(params.DetailVerts) < params.DetailVertsCount*3 || len(params.DetailTris) < params.DetailTriCount*4 {
		return invalidParam("detail vertex or triangle arrays shorter than their counts")
	}
	if len(params.DetailMeshes) > 0 {
		if len(params.DetailMeshes) < params.PolyCount*4 {
			return invalidParam("detail meshes shorter than polygon count %d", params.PolyCount)
		}
		for i := 0; i < params.PolyCount; i++ {
			vb := int(params.DetailMeshes[i*4+0])
			ndv := int(params.DetailMeshes[i*4+1])
			tb := int(params.DetailMeshes[i*4+2])
			tc := int(params.DetailMeshes[i*4+3])
			nv := params.polyVertCount(i)
			if ndv < nv || ndv-nv > 0xff || vb+ndv > params.DetailVertsCount {
				return invalidParam("detail mesh %d vertex range [%d, %d)", i, vb, vb+ndv)
			}
			if tc > 0xff || tb+tc > params.DetailTriCount {
				return invalidParam("detail mesh %d triangle range [%d, %d)", i, tb, tb+tc)
			}
		}
	}
	return nil
}

// Outcode bits of an off-mesh endpoint relative to the tile bounds.
const (
	outXP = 1 << 0
	outZP = 1 << 1
	outXM = 1 << 2
	outZM = 1 << 3
)

// classifyOffMeshPoint returns the side (0..7, counter-clockwise from +x)
// of the tile pt lies beyond, or 0xff when it is inside on the xz-plane.
func classifyOffMeshPoint(pt, bmin, bmax []float32) uint8 {
	outcode := 0
	if pt[0] >= bmax[0] {
		outcode |= outXP
	}
	if pt[2] >= bmax[2] {
		outcode |= outZP
	}
	if pt[0] < bmin[0] {
		outcode |= outXM
	}
	if pt[2] < bmin[2] {
		outcode |= outZM
	}

	switch outcode {
	case outXP:
		return 0
	case outXP | outZP:
		return 1
	case outZP:
		return 2
	case outXM | outZP:
		return 3
	case outXM:
		return 4
	case outXM | outZM:
		return 5
	case outZM:
		return 6
	case outXP | outZM:
		return 7
	}

	return DT_OFFMESH_SIDE_INTERIOR
}

// / @par
// /
// / The tile is built into freshly allocated slices and shares nothing with
// / params. Invalid params yield an error wrapping ErrInvalidParam and no tile.
func DtCreateNavMeshData(params *DtNavMeshCreateParams) (*NavMeshData, error) {
	if params == nil {
		return nil, invalidParam("nil params")
	}
	if err := params.validate(); err != nil {
		logger.Debug("rejected navmesh build params", zap.Error(err))
		return nil, err
	}
	nvp := params.Nvp

	// Classify off-mesh connection points. We store only the connections
	// whose start point is inside the tile.
	offMeshConClass := make([]uint8, params.OffMeshConCount*2)
	storedOffMeshConCount := 0
	offMeshConLinkCount := 0

	if params.OffMeshConCount > 0 {
		// Find tight heigh bounds, used for culling out off-mesh start locations.
		hmin := float32(math.MaxFloat32)
		hmax := float32(-math.MaxFloat32)

		if len(params.DetailMeshes) > 0 && params.DetailVertsCount > 0 {
			for i := 0; i < params.DetailVertsCount; i++ {
				h := params.DetailVerts[i*3+1]
				hmin = min(hmin, h)
				hmax = max(hmax, h)
			}
		} else {
			for i := 0; i < params.VertCount; i++ {
				iv := common.GetVert3(params.Verts, i)
				h := params.Bmin[1] + float32(iv[1])*params.Ch
				hmin = min(hmin, h)
				hmax = max(hmax, h)
			}
		}
		hmin -= params.WalkableClimb
		hmax += params.WalkableClimb
		bmin := params.Bmin
		bmax := params.Bmax
		bmin[1] = hmin
		bmax[1] = hmax

		for i := 0; i < params.OffMeshConCount; i++ {
			p0 := common.GetVert3(params.OffMeshConVerts, i*2+0)
			p1 := common.GetVert3(params.OffMeshConVerts, i*2+1)
			offMeshConClass[i*2+0] = classifyOffMeshPoint(p0, bmin[:], bmax[:])
			offMeshConClass[i*2+1] = classifyOffMeshPoint(p1, bmin[:], bmax[:])

			// Zero out off-mesh start positions which are not even potentially touching the mesh.
			if offMeshConClass[i*2+0] == DT_OFFMESH_SIDE_INTERIOR {
				if p0[1] < bmin[1] || p0[1] > bmax[1] {
					offMeshConClass[i*2+0] = 0
				}
			}

			// Count how many links should be allocated for off-mesh connections.
			if offMeshConClass[i*2+0] == DT_OFFMESH_SIDE_INTERIOR {
				offMeshConLinkCount++
				storedOffMeshConCount++
			}
			if offMeshConClass[i*2+1] == DT_OFFMESH_SIDE_INTERIOR {
				offMeshConLinkCount++
			}
		}
	}

	// Off-mesh connections are stored as polygons, adjust values.
	totPolyCount := params.PolyCount + storedOffMeshConCount
	totVertCount := params.VertCount + storedOffMeshConCount*2
	if totVertCount >= 0xffff {
		err := invalidParam("%d vertices with off-mesh connections, limit %d", totVertCount, 0xffff-1)
		logger.Debug("rejected navmesh build params", zap.Error(err))
		return nil, err
	}

	// Find portal edges which are at tile borders.
	edgeCount := 0
	portalCount := 0
	for i := 0; i < params.PolyCount; i++ {
		p := params.Polys[i*2*nvp:]
		for j := 0; j < nvp; j++ {
			if p[j] == MESH_NULL_IDX {
				break
			}
			edgeCount++
			if p[nvp+j]&0x8000 != 0 {
				if dir := p[nvp+j] & 0xf; dir != 0xf {
					portalCount++
				}
			}
		}
	}

	maxLinkCount := edgeCount + portalCount*2 + offMeshConLinkCount*2

	// Find unique detail vertices.
	uniqueDetailVertCount := 0
	detailTriCount := 0
	if len(params.DetailMeshes) > 0 {
		// Has detail mesh, count unique detail vertex count and use input detail tri count.
		detailTriCount = params.DetailTriCount
		for i := 0; i < params.PolyCount; i++ {
			ndv := int(params.DetailMeshes[i*4+1])
			uniqueDetailVertCount += ndv - params.polyVertCount(i)
		}
	} else {
		// No input detail mesh, build detail mesh from nav polys.
		for i := 0; i < params.PolyCount; i++ {
			detailTriCount += params.polyVertCount(i) - 2
		}
	}

	data := &NavMeshData{
		Header:      &DtMeshHeader{},
		NavVerts:    make([]float32, 3*totVertCount),
		NavPolys:    make([]*DtPoly, totPolyCount),
		NavDMeshes:  make([]*DtPolyDetail, params.PolyCount),
		NavDVerts:   make([]float32, 3*uniqueDetailVertCount),
		NavDTris:    make([]uint8, 4*detailTriCount),
		OffMeshCons: make([]*DtOffMeshConnection, storedOffMeshConCount),
	}
	for i := range data.NavPolys {
		data.NavPolys[i] = &DtPoly{FirstLink: DT_NULL_LINK}
	}
	for i := range data.NavDMeshes {
		data.NavDMeshes[i] = &DtPolyDetail{}
	}
	for i := range data.OffMeshCons {
		data.OffMeshCons[i] = &DtOffMeshConnection{}
	}

	// Store header
	header := data.Header
	header.Magic = DT_NAVMESH_MAGIC
	header.Version = DT_NAVMESH_VERSION
	header.X = params.TileX
	header.Y = params.TileY
	header.Layer = params.TileLayer
	header.UserId = params.UserId
	header.PolyCount = int32(totPolyCount)
	header.VertCount = int32(totVertCount)
	header.MaxLinkCount = int32(maxLinkCount)
	header.Bmin = params.Bmin
	header.Bmax = params.Bmax
	header.DetailMeshCount = int32(params.PolyCount)
	header.DetailVertCount = int32(uniqueDetailVertCount)
	header.DetailTriCount = int32(detailTriCount)
	header.BvQuantFactor = 1.0 / params.Cs
	header.OffMeshBase = int32(params.PolyCount)
	header.WalkableHeight = params.WalkableHeight
	header.WalkableRadius = params.WalkableRadius
	header.WalkableClimb = params.WalkableClimb
	header.OffMeshConCount = int32(storedOffMeshConCount)

	offMeshVertsBase := params.VertCount
	offMeshPolyBase := params.PolyCount

	// Mesh vertices
	for i := 0; i < params.VertCount; i++ {
		iv := common.GetVert3(params.Verts, i)
		v := common.GetVert3(data.NavVerts, i)
		v[0] = params.Bmin[0] + float32(iv[0])*params.Cs
		v[1] = params.Bmin[1] + float32(iv[1])*params.Ch
		v[2] = params.Bmin[2] + float32(iv[2])*params.Cs
	}
	// Off-mesh link vertices.
	n := 0
	for i := 0; i < params.OffMeshConCount; i++ {
		// Only store connections which start from this tile.
		if offMeshConClass[i*2+0] == DT_OFFMESH_SIDE_INTERIOR {
			linkv := params.OffMeshConVerts[i*6 : i*6+6]
			v := data.NavVerts[(offMeshVertsBase+n*2)*3:]
			copy(v[:6], linkv)
			n++
		}
	}

	// Mesh polys
	for i := 0; i < params.PolyCount; i++ {
		src := params.Polys[i*2*nvp:]
		p := data.NavPolys[i]
		p.Flags = params.PolyFlags[i]
		p.SetArea(params.PolyAreas[i])
		p.SetType(DT_POLYTYPE_GROUND)
		for j := 0; j < nvp; j++ {
			if src[j] == MESH_NULL_IDX {
				break
			}
			p.Verts[j] = src[j]
			if src[nvp+j]&0x8000 != 0 {
				// Border or portal edge.
				switch dir := src[nvp+j] & 0xf; dir {
				case 0xf: // Border
					p.Neis[j] = 0
				case 0: // Portal x-
					p.Neis[j] = DT_EXT_LINK | 4
				case 1: // Portal z+
					p.Neis[j] = DT_EXT_LINK | 2
				case 2: // Portal x+
					p.Neis[j] = DT_EXT_LINK | 0
				case 3: // Portal z-
					p.Neis[j] = DT_EXT_LINK | 6
				}
			} else {
				// Normal connection
				p.Neis[j] = src[nvp+j] + 1
			}
			p.VertCount++
		}
	}
	// Off-mesh connection polys.
	n = 0
	for i := 0; i < params.OffMeshConCount; i++ {
		// Only store connections which start from this tile.
		if offMeshConClass[i*2+0] == DT_OFFMESH_SIDE_INTERIOR {
			p := data.NavPolys[offMeshPolyBase+n]
			p.VertCount = 2
			p.Verts[0] = uint16(offMeshVertsBase + n*2 + 0)
			p.Verts[1] = uint16(offMeshVertsBase + n*2 + 1)
			p.Flags = params.OffMeshConFlags[i]
			p.SetArea(params.OffMeshConAreas[i])
			p.SetType(DT_POLYTYPE_OFFMESH_CONNECTION)
			n++
		}
	}

	// Store detail meshes and vertices.
	// The nav polygon vertices are stored as the first vertices on each mesh.
	// We compress the mesh data by skipping them and using the navmesh coordinates.
	if len(params.DetailMeshes) > 0 {
		vbase := 0
		for i := 0; i < params.PolyCount; i++ {
			dtl := data.NavDMeshes[i]
			vb := int(params.DetailMeshes[i*4+0])
			ndv := int(params.DetailMeshes[i*4+1])
			nv := int(data.NavPolys[i].VertCount)
			dtl.VertBase = uint32(vbase)
			dtl.VertCount = uint8(ndv - nv)
			dtl.TriBase = params.DetailMeshes[i*4+2]
			dtl.TriCount = uint8(params.DetailMeshes[i*4+3])
			// Copy vertices except the first 'nv' verts which are equal to nav poly verts.
			if ndv-nv > 0 {
				copy(data.NavDVerts[vbase*3:], params.DetailVerts[(vb+nv)*3:(vb+ndv)*3])
				vbase += ndv - nv
			}
		}
		// Store triangles.
		copy(data.NavDTris, params.DetailTris[:4*params.DetailTriCount])
	} else {
		// Create dummy detail mesh by triangulating polys.
		tbase := 0
		for i := 0; i < params.PolyCount; i++ {
			dtl := data.NavDMeshes[i]
			nv := int(data.NavPolys[i].VertCount)
			dtl.TriBase = uint32(tbase)
			dtl.TriCount = uint8(nv - 2)
			// Triangulate polygon (local indices).
			for j := 2; j < nv; j++ {
				t := common.GetVert4(data.NavDTris, tbase)
				t[0] = 0
				t[1] = uint8(j - 1)
				t[2] = uint8(j)
				// Bit for each edge that belongs to poly boundary.
				t[3] = 1 << 2
				if j == 2 {
					t[3] |= 1 << 0
				}
				if j == nv-1 {
					t[3] |= 1 << 4
				}
				tbase++
			}
		}
	}

	// Store and create BVtree.
	if params.BuildBvTree {
		data.NavBvtree = createBVTree(params)
		header.BvNodeCount = int32(len(data.NavBvtree))
	}

	// Store Off-Mesh connections.
	n = 0
	for i := 0; i < params.OffMeshConCount; i++ {
		// Only store connections which start from this tile.
		if offMeshConClass[i*2+0] == DT_OFFMESH_SIDE_INTERIOR {
			con := data.OffMeshCons[n]
			con.Poly = uint16(offMeshPolyBase + n)
			// Copy connection end-points.
			copy(con.Pos[:], params.OffMeshConVerts[i*6:i*6+6])
			con.Rad = params.OffMeshConRad[i]
			if params.OffMeshConDir[i] != 0 {
				con.Flags = DT_OFFMESH_CON_BIDIR
			}
			con.Side = offMeshConClass[i*2+1]
			if len(params.OffMeshConUserID) > 0 {
				con.UserId = params.OffMeshConUserID[i]
			}
			n++
		}
	}

	logger.Debug("built navmesh tile",
		zap.Int32("x", header.X),
		zap.Int32("y", header.Y),
		zap.Int("polys", totPolyCount),
		zap.Int("verts", totVertCount),
		zap.Int("offMeshCons", storedOffMeshConCount),
		zap.Int32("bvNodes", header.BvNodeCount))
	return data, nil
}

type bvItem struct {
	bmin [3]int
	bmax [3]int
	i    int
}

func calcExtends(items []bvItem) (bmin, bmax [3]int) {
	bmin = items[0].bmin
	bmax = items[0].bmax
	for _, it := range items[1:] {
		for k := 0; k < 3; k++ {
			bmin[k] = min(bmin[k], it.bmin[k])
			bmax[k] = max(bmax[k], it.bmax[k])
		}
	}
	return bmin, bmax
}

func longestAxis(x, y, z int) int {
	axis := 0
	maxVal := x
	if y > maxVal {
		axis = 1
		maxVal = y
	}
	if z > maxVal {
		axis = 2
	}
	return axis
}

func toQuant(v [3]int) [3]uint16 {
	return [3]uint16{uint16(v[0]), uint16(v[1]), uint16(v[2])}
}

// subdivide emits the subtree over items[imin:imax] depth first, left
// before right, starting at nodes[*curNode].
func subdivide(items []bvItem, imin, imax int, curNode *int, nodes []*DtBVNode) {
	inum := imax - imin
	icur := *curNode

	node := &DtBVNode{}
	nodes[*curNode] = node
	*curNode++

	if inum == 1 {
		// Leaf
		node.Bmin = toQuant(items[imin].bmin)
		node.Bmax = toQuant(items[imin].bmax)
		node.Kind = DT_BVNODE_LEAF
		node.Index = int32(items[imin].i)
		return
	}

	// Split
	bmin, bmax := calcExtends(items[imin:imax])
	node.Bmin = toQuant(bmin)
	node.Bmax = toQuant(bmax)

	axis := longestAxis(bmax[0]-bmin[0], bmax[1]-bmin[1], bmax[2]-bmin[2])
	sub := items[imin:imax]
	sort.SliceStable(sub, func(i, j int) bool {
		return sub[i].bmin[axis] < sub[j].bmin[axis]
	})

	isplit := imin + inum/2

	// Left
	subdivide(items, imin, isplit, curNode, nodes)
	// Right
	subdivide(items, isplit, imax, curNode, nodes)

	node.Kind = DT_BVNODE_INTERNAL
	node.Index = int32(*curNode - icur)
}

// createBVTree returns the 2*PolyCount-1 nodes of the tree over the mesh
// polygons, in quantized tile-local coordinates.
func createBVTree(params *DtNavMeshCreateParams) []*DtBVNode {
	quantFactor := 1 / params.Cs
	items := make([]bvItem, params.PolyCount)
	for i := range items {
		it := &items[i]
		it.i = i
		// Calc polygon bounds. Use detail meshes if available.
		if len(params.DetailMeshes) > 0 {
			vb := int(params.DetailMeshes[i*4+0])
			ndv := int(params.DetailMeshes[i*4+1])
			var bmin, bmax [3]float32
			dv := params.DetailVerts[vb*3:]
			copy(bmin[:], dv[:3])
			copy(bmax[:], dv[:3])
			for j := 1; j < ndv; j++ {
				common.Vmin(bmin[:], common.GetVert3(dv, j))
				common.Vmax(bmax[:], common.GetVert3(dv, j))
			}

			// BV-tree uses cs for all dimensions
			for k := 0; k < 3; k++ {
				it.bmin[k] = common.Clamp(int((bmin[k]-params.Bmin[k])*quantFactor), 0, 0xffff)
				it.bmax[k] = common.Clamp(int((bmax[k]-params.Bmin[k])*quantFactor), 0, 0xffff)
			}
		} else {
			p := params.Polys[i*params.Nvp*2:]
			for k := 0; k < 3; k++ {
				it.bmin[k] = int(params.Verts[int(p[0])*3+k])
				it.bmax[k] = it.bmin[k]
			}
			for j := 1; j < params.Nvp; j++ {
				if p[j] == MESH_NULL_IDX {
					break
				}
				for k := 0; k < 3; k++ {
					c := int(params.Verts[int(p[j])*3+k])
					it.bmin[k] = min(it.bmin[k], c)
					it.bmax[k] = max(it.bmax[k], c)
				}
			}
			// Remap y
			it.bmin[1] = common.Clamp(int(math.Floor(float64(it.bmin[1])*float64(params.Ch)/float64(params.Cs))), 0, 0xffff)
			it.bmax[1] = common.Clamp(int(math.Ceil(float64(it.bmax[1])*float64(params.Ch)/float64(params.Cs))), 0, 0xffff)
		}
	}

	nodes := make([]*DtBVNode, 2*params.PolyCount-1)
	curNode := 0
	subdivide(items, 0, len(items), &curNode, nodes)
	return nodes[:curNode]
}
