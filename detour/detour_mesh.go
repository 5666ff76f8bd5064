package detour

import (
	"github.com/gorustyt/navtile/common/rw"
)

const (
	/// The maximum number of vertices per navigation polygon.
	/// @ingroup detour
	DT_VERTS_PER_POLYGON = 6
	DT_NULL_LINK         = 0xffffffff

	/// A flag that indicates that an entity links to an external entity.
	/// (E.g. A polygon edge is a portal that links to another polygon.)
	DT_EXT_LINK = 0x8000
	/// A flag that indicates that an off-mesh connection can be traversed in both directions. (Is bidirectional.)
	DT_OFFMESH_CON_BIDIR = 1

	/// A magic number used to detect compatibility of navigation tile data.
	DT_NAVMESH_MAGIC = 'D'<<24 | 'N'<<16 | 'A'<<8 | 'V'

	/// A version number used to detect compatibility of navigation tile data.
	DT_NAVMESH_VERSION = 7

	/// The maximum number of user defined area ids.
	/// @ingroup detour
	DT_MAX_AREAS = 64

	// Neighbour code used by the polygon mesh for unused vertex slots.
	MESH_NULL_IDX = 0xffff

	// Side value of an off-mesh endpoint that lies inside the tile.
	DT_OFFMESH_SIDE_INTERIOR = 0xff
)

const (
	/// Flags representing the type of a navigation mesh polygon.
	/// The polygon is a standard convex polygon that is part of the surface of the mesh.
	DT_POLYTYPE_GROUND = 0
	/// The polygon is an off-mesh connection consisting of two vertices.
	DT_POLYTYPE_OFFMESH_CONNECTION = 1
)

const (
	DT_DETAIL_EDGE_BOUNDARY = 0x01 ///< Detail triangle edge is part of the poly boundary
)

// DtPolyRef identifies a polygon. Tiles only hand out local indices, the
// owner of the tile decides how they are packed.
type DtPolyRef uint64

// / Defines a polygon within a tile.
// / @ingroup detour
type DtPoly struct {
	/// Index to first link in linked list. (Or #DT_NULL_LINK if there is no link.)
	FirstLink uint32

	/// The indices of the polygon's vertices.
	Verts [DT_VERTS_PER_POLYGON]uint16

	/// Packed data representing neighbor polygons references and flags for each edge.
	Neis [DT_VERTS_PER_POLYGON]uint16

	/// The user defined polygon flags.
	Flags uint16

	/// The number of vertices in the polygon.
	VertCount uint8

	/// The bit packed area id and polygon type.
	/// @note Use the structure's set and get methods to access this value.
	AreaAndtype uint8
}

func (p *DtPoly) ToBin(w *rw.ReaderWriter) {
	w.WriteUInt32(p.FirstLink)
	w.WriteUInt16s(p.Verts[:])
	w.WriteUInt16s(p.Neis[:])
	w.WriteUInt16(p.Flags)
	w.WriteUInt8(p.VertCount)
	w.WriteUInt8(p.AreaAndtype)
}

func (p *DtPoly) FromBin(r *rw.ReaderWriter) *DtPoly {
	p.FirstLink = r.ReadUInt32()
	r.ReadUInt16s(p.Verts[:])
	r.ReadUInt16s(p.Neis[:])
	p.Flags = r.ReadUInt16()
	p.VertCount = r.ReadUInt8()
	p.AreaAndtype = r.ReadUInt8()
	return p
}

// / Sets the user defined area id. [Limit: < #DT_MAX_AREAS]
func (p *DtPoly) SetArea(a uint8) { p.AreaAndtype = (p.AreaAndtype & 0xc0) | (a & 0x3f) }

// / Sets the polygon type. (See: #dtPolyTypes.)
func (p *DtPoly) SetType(t uint8) { p.AreaAndtype = (p.AreaAndtype & 0x3f) | (t << 6) }

// / Gets the user defined area id.
func (p *DtPoly) GetArea() uint8 { return p.AreaAndtype & 0x3f }

// / Gets the polygon type. (See: #dtPolyTypes)
func (p *DtPoly) GetType() uint8 { return p.AreaAndtype >> 6 }

// / Defines the location of detail sub-mesh data within a tile.
type DtPolyDetail struct {
	VertBase  uint32 ///< The offset of the vertices in the detail vertex array.
	TriBase   uint32 ///< The offset of the triangles in the detail triangle array.
	VertCount uint8  ///< The number of vertices in the sub-mesh.
	TriCount  uint8  ///< The number of triangles in the sub-mesh.
}

func (d *DtPolyDetail) ToBin(w *rw.ReaderWriter) {
	w.WriteUInt32(d.VertBase)
	w.WriteUInt32(d.TriBase)
	w.WriteUInt8(d.VertCount)
	w.WriteUInt8(d.TriCount)
}

func (d *DtPolyDetail) FromBin(r *rw.ReaderWriter) *DtPolyDetail {
	d.VertBase = r.ReadUInt32()
	d.TriBase = r.ReadUInt32()
	d.VertCount = r.ReadUInt8()
	d.TriCount = r.ReadUInt8()
	return d
}

// DtBVNodeKind tells leaves apart from internal nodes.
type DtBVNodeKind uint8

const (
	DT_BVNODE_LEAF DtBVNodeKind = iota
	DT_BVNODE_INTERNAL
)

// / Bounding volume node.
// / A leaf carries the index of its polygon. An internal node carries the
// / number of nodes in its subtree (itself included), so a traversal that
// / rejects the node can jump straight past it.
type DtBVNode struct {
	Bmin  [3]uint16 ///< Minimum bounds of the node's AABB. [(x, y, z)]
	Bmax  [3]uint16 ///< Maximum bounds of the node's AABB. [(x, y, z)]
	Kind  DtBVNodeKind
	Index int32
}

func (n *DtBVNode) IsLeaf() bool { return n.Kind == DT_BVNODE_LEAF }

// PolyIndex is the polygon of a leaf node.
func (n *DtBVNode) PolyIndex() int { return int(n.Index) }

// EscapeOffset is the distance to the node following this subtree.
func (n *DtBVNode) EscapeOffset() int {
	if n.IsLeaf() {
		return 1
	}
	return int(n.Index)
}

// signedIndex folds the node into the classic single field: leaf indices
// are kept as is, escape offsets are negated.
func (n *DtBVNode) signedIndex() int32 {
	if n.IsLeaf() {
		return n.Index
	}
	return -n.Index
}

func (n *DtBVNode) setSignedIndex(i int32) {
	if i >= 0 {
		n.Kind, n.Index = DT_BVNODE_LEAF, i
		return
	}
	n.Kind, n.Index = DT_BVNODE_INTERNAL, -i
}

func (n *DtBVNode) ToBin(w *rw.ReaderWriter) {
	w.WriteUInt16s(n.Bmin[:])
	w.WriteUInt16s(n.Bmax[:])
	w.WriteInt32(n.signedIndex())
}

func (n *DtBVNode) FromBin(r *rw.ReaderWriter) *DtBVNode {
	r.ReadUInt16s(n.Bmin[:])
	r.ReadUInt16s(n.Bmax[:])
	n.setSignedIndex(r.ReadInt32())
	return n
}

// / Provides high level information related to a tile.
// / @ingroup detour
type DtMeshHeader struct {
	Magic           int32  ///< Tile magic number. (Used to identify the data format.)
	Version         int32  ///< Tile data format version number.
	X               int32  ///< The x-position of the tile within the tile grid. (x, y, layer)
	Y               int32  ///< The y-position of the tile within the tile grid. (x, y, layer)
	Layer           int32  ///< The layer of the tile within the tile grid. (x, y, layer)
	UserId          uint32 ///< The user defined id of the tile.
	PolyCount       int32  ///< The number of polygons in the tile.
	VertCount       int32  ///< The number of vertices in the tile.
	MaxLinkCount    int32  ///< The number of links the owner must allocate for this tile.
	DetailMeshCount int32  ///< The number of sub-meshes in the detail mesh.

	/// The number of unique vertices in the detail mesh. (In addition to the polygon vertices.)
	DetailVertCount int32

	DetailTriCount  int32      ///< The number of triangles in the detail mesh.
	BvNodeCount     int32      ///< The number of bounding volume nodes. (Zero if bounding volumes are disabled.)
	OffMeshConCount int32      ///< The number of off-mesh connections.
	OffMeshBase     int32      ///< The index of the first polygon which is an off-mesh connection.
	WalkableHeight  float32    ///< The height of the agents using the tile.
	WalkableRadius  float32    ///< The radius of the agents using the tile.
	WalkableClimb   float32    ///< The maximum climb height of the agents using the tile.
	Bmin            [3]float32 ///< The minimum bounds of the tile's AABB. [(x, y, z)]
	Bmax            [3]float32 ///< The maximum bounds of the tile's AABB. [(x, y, z)]

	/// The bounding volume quantization factor.
	BvQuantFactor float32
}

func (h *DtMeshHeader) ToBin(w *rw.ReaderWriter) {
	w.WriteInt32(h.Magic)
	w.WriteInt32(h.Version)
	w.WriteInt32(h.X)
	w.WriteInt32(h.Y)
	w.WriteInt32(h.Layer)
	w.WriteUInt32(h.UserId)
	w.WriteInt32(h.PolyCount)
	w.WriteInt32(h.VertCount)
	w.WriteInt32(h.MaxLinkCount)
	w.WriteInt32(h.DetailMeshCount)
	w.WriteInt32(h.DetailVertCount)
	w.WriteInt32(h.DetailTriCount)
	w.WriteInt32(h.BvNodeCount)
	w.WriteInt32(h.OffMeshConCount)
	w.WriteInt32(h.OffMeshBase)
	w.WriteFloat32(h.WalkableHeight)
	w.WriteFloat32(h.WalkableRadius)
	w.WriteFloat32(h.WalkableClimb)
	w.WriteFloat32s(h.Bmin[:])
	w.WriteFloat32s(h.Bmax[:])
	w.WriteFloat32(h.BvQuantFactor)
}

// FromBin reads everything after the magic and version words, which the
// caller has already checked.
func (h *DtMeshHeader) FromBin(r *rw.ReaderWriter) *DtMeshHeader {
	h.X = r.ReadInt32()
	h.Y = r.ReadInt32()
	h.Layer = r.ReadInt32()
	h.UserId = r.ReadUInt32()
	h.PolyCount = r.ReadInt32()
	h.VertCount = r.ReadInt32()
	h.MaxLinkCount = r.ReadInt32()
	h.DetailMeshCount = r.ReadInt32()
	h.DetailVertCount = r.ReadInt32()
	h.DetailTriCount = r.ReadInt32()
	h.BvNodeCount = r.ReadInt32()
	h.OffMeshConCount = r.ReadInt32()
	h.OffMeshBase = r.ReadInt32()
	h.WalkableHeight = r.ReadFloat32()
	h.WalkableRadius = r.ReadFloat32()
	h.WalkableClimb = r.ReadFloat32()
	r.ReadFloat32s(h.Bmin[:])
	r.ReadFloat32s(h.Bmax[:])
	h.BvQuantFactor = r.ReadFloat32()
	return h
}

// / Defines an navigation mesh off-mesh connection within a tile.
// / An off-mesh connection is a user defined traversable connection made up to two vertices.
type DtOffMeshConnection struct {
	/// The endpoints of the connection. [(ax, ay, az, bx, by, bz)]
	Pos [6]float32

	/// The radius of the endpoints. [Limit: >= 0]
	Rad float32

	/// The polygon index of the connection within the tile.
	Poly uint16

	/// Link flags.
	/// @note These are not the connection's user defined flags. Those are assigned via the
	/// connection's DtPoly definition. These are link flags used for internal purposes.
	Flags uint8

	/// End point side.
	Side uint8

	/// The id of the offmesh connection. (User assigned when the navigation mesh is built.)
	UserId uint32
}

func (c *DtOffMeshConnection) ToBin(w *rw.ReaderWriter) {
	w.WriteFloat32s(c.Pos[:])
	w.WriteFloat32(c.Rad)
	w.WriteUInt16(c.Poly)
	w.WriteUInt8(c.Flags)
	w.WriteUInt8(c.Side)
	w.WriteUInt32(c.UserId)
}

func (c *DtOffMeshConnection) FromBin(r *rw.ReaderWriter) *DtOffMeshConnection {
	r.ReadFloat32s(c.Pos[:])
	c.Rad = r.ReadFloat32()
	c.Poly = r.ReadUInt16()
	c.Flags = r.ReadUInt8()
	c.Side = r.ReadUInt8()
	c.UserId = r.ReadUInt32()
	return c
}

// / Get flags for edge in detail triangle.
// / @param[in]	triFlags		The flags for the triangle (last component of detail vertices above).
// / @param[in]	edgeIndex		The index of the first vertex of the edge. For instance, if 0,
// /								returns flags for edge AB.
func DtGetDetailTriEdgeFlags(triFlags uint8, edgeIndex int) int {
	return int(triFlags>>(edgeIndex*2)) & 0x3
}

// DtOppositeTile returns the side facing the given one.
func DtOppositeTile(side int) int { return (side + 4) & 0x7 }

// Byte sizes of the fixed records in the binary layout.
const (
	headerBinSize     = 15*4 + 3*4 + 6*4 + 4
	polyBinSize       = 4 + 2*DT_VERTS_PER_POLYGON*2 + 2 + 1 + 1
	polyDetailBinSize = 4 + 4 + 1 + 1
	bvNodeBinSize     = 6*2 + 4
	offMeshConBinSize = 6*4 + 4 + 2 + 1 + 1 + 4
)
