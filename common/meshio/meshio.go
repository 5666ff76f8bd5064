// Package meshio reads polygon meshes described in YAML and turns them into
// tile build parameters.
package meshio

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gorustyt/navtile/common/config"
	"github.com/gorustyt/navtile/detour"
	"gopkg.in/yaml.v3"
)

// Neighbour is one polygon edge link. It is written in YAML as a polygon
// index, "border", or "portal N" where N is the tile side 0..3.
type Neighbour struct {
	Poly   int
	Border bool
	Portal int // valid when Border is false and Poly < 0
}

func (n Neighbour) encode() uint16 {
	switch {
	case n.Border:
		return 0x8000 | 0xf
	case n.Poly < 0:
		return 0x8000 | uint16(n.Portal)
	default:
		return uint16(n.Poly)
	}
}

func (n *Neighbour) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: neighbour must be a scalar", node.Line)
	}
	v := strings.TrimSpace(node.Value)
	if v == "border" {
		*n = Neighbour{Poly: -1, Border: true}
		return nil
	}
	if rest, ok := strings.CutPrefix(v, "portal"); ok {
		dir, err := strconv.Atoi(strings.TrimSpace(rest))
		if err != nil || dir < 0 || dir > 3 {
			return fmt.Errorf("line %d: bad portal side %q", node.Line, v)
		}
		*n = Neighbour{Poly: -1, Portal: dir}
		return nil
	}
	idx, err := strconv.Atoi(v)
	if err != nil || idx < 0 || idx >= detour.DT_EXT_LINK {
		return fmt.Errorf("line %d: bad neighbour %q", node.Line, v)
	}
	*n = Neighbour{Poly: idx}
	return nil
}

func (n Neighbour) MarshalYAML() (any, error) {
	switch {
	case n.Border:
		return "border", nil
	case n.Poly < 0:
		return fmt.Sprintf("portal %d", n.Portal), nil
	default:
		return n.Poly, nil
	}
}

// Poly is one polygon of the source mesh.
type Poly struct {
	Verts []int       `yaml:"verts"`
	Neis  []Neighbour `yaml:"neis,omitempty"` // all borders when empty
	Area  uint8       `yaml:"area"`
	Flags uint16      `yaml:"flags"`
}

// Detail is an optional height detail mesh. Meshes holds one
// (vertBase, vertCount, triBase, triCount) entry per polygon and Tris one
// (a, b, c, flags) entry per triangle.
type Detail struct {
	Meshes [][4]uint32  `yaml:"meshes"`
	Verts  [][3]float32 `yaml:"verts"`
	Tris   [][4]uint8   `yaml:"tris"`
}

// OffMeshConnection is a point to point link in world units.
type OffMeshConnection struct {
	Start         [3]float32 `yaml:"start"`
	End           [3]float32 `yaml:"end"`
	Radius        float32    `yaml:"radius"`
	Bidirectional bool       `yaml:"bidirectional"`
	Area          uint8      `yaml:"area"`
	Flags         uint16     `yaml:"flags"`
	UserID        uint32     `yaml:"user_id"`
}

// Tile places the mesh in a multi-tile grid.
type Tile struct {
	X      int32  `yaml:"x"`
	Y      int32  `yaml:"y"`
	Layer  int32  `yaml:"layer"`
	UserID uint32 `yaml:"user_id"`
}

// Overrides replaces build settings from the config for this mesh only.
type Overrides struct {
	CellSize        *float32 `yaml:"cell_size,omitempty"`
	CellHeight      *float32 `yaml:"cell_height,omitempty"`
	WalkableHeight  *float32 `yaml:"walkable_height,omitempty"`
	WalkableRadius  *float32 `yaml:"walkable_radius,omitempty"`
	WalkableClimb   *float32 `yaml:"walkable_climb,omitempty"`
	MaxVertsPerPoly *int     `yaml:"max_verts_per_poly,omitempty"`
	BuildBvTree     *bool    `yaml:"build_bv_tree,omitempty"`
}

// Mesh is the YAML document. Verts are in voxel units, everything else in
// world units.
type Mesh struct {
	Bmin    [3]float32          `yaml:"bmin"`
	Bmax    [3]float32          `yaml:"bmax"`
	Tile    Tile                `yaml:"tile"`
	Build   Overrides           `yaml:"build"`
	Verts   [][3]uint16         `yaml:"verts"`
	Polys   []Poly              `yaml:"polys"`
	Detail  *Detail             `yaml:"detail,omitempty"`
	OffMesh []OffMeshConnection `yaml:"off_mesh_connections,omitempty"`
}

// Load reads the mesh file at path.
func Load(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mesh %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("mesh %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a mesh document.
func Parse(data []byte) (*Mesh, error) {
	var m Mesh
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Mesh) settings(build config.BuildConfig) config.BuildConfig {
	o := m.Build
	if o.CellSize != nil {
		build.CellSize = *o.CellSize
	}
	if o.CellHeight != nil {
		build.CellHeight = *o.CellHeight
	}
	if o.WalkableHeight != nil {
		build.WalkableHeight = *o.WalkableHeight
	}
	if o.WalkableRadius != nil {
		build.WalkableRadius = *o.WalkableRadius
	}
	if o.WalkableClimb != nil {
		build.WalkableClimb = *o.WalkableClimb
	}
	if o.MaxVertsPerPoly != nil {
		build.MaxVertsPerPoly = *o.MaxVertsPerPoly
	}
	if o.BuildBvTree != nil {
		build.BuildBvTree = *o.BuildBvTree
	}
	return build
}

// Params converts the mesh to builder input, taking settings the mesh does
// not override from build. Only the layout is checked here; the builder
// validates the geometry.
func (m *Mesh) Params(build config.BuildConfig) (*detour.DtNavMeshCreateParams, error) {
	s := m.settings(build)
	nvp := s.MaxVertsPerPoly
	if nvp < 3 || nvp > detour.DT_VERTS_PER_POLYGON {
		return nil, fmt.Errorf("max_verts_per_poly %d out of range", nvp)
	}

	params := &detour.DtNavMeshCreateParams{
		VertCount:      len(m.Verts),
		PolyCount:      len(m.Polys),
		Nvp:            nvp,
		UserId:         m.Tile.UserID,
		TileX:          m.Tile.X,
		TileY:          m.Tile.Y,
		TileLayer:      m.Tile.Layer,
		Bmin:           m.Bmin,
		Bmax:           m.Bmax,
		WalkableHeight: s.WalkableHeight,
		WalkableRadius: s.WalkableRadius,
		WalkableClimb:  s.WalkableClimb,
		Cs:             s.CellSize,
		Ch:             s.CellHeight,
		BuildBvTree:    s.BuildBvTree,
	}

	params.Verts = make([]uint16, 0, 3*len(m.Verts))
	for _, v := range m.Verts {
		params.Verts = append(params.Verts, v[0], v[1], v[2])
	}

	params.Polys = make([]uint16, 2*nvp*len(m.Polys))
	params.PolyAreas = make([]uint8, len(m.Polys))
	params.PolyFlags = make([]uint16, len(m.Polys))
	for i, p := range m.Polys {
		if len(p.Verts) < 3 || len(p.Verts) > nvp {
			return nil, fmt.Errorf("poly %d has %d vertices, want 3..%d", i, len(p.Verts), nvp)
		}
		if len(p.Neis) != 0 && len(p.Neis) != len(p.Verts) {
			return nil, fmt.Errorf("poly %d has %d neighbours for %d vertices", i, len(p.Neis), len(p.Verts))
		}
		dst := params.Polys[i*2*nvp : (i+1)*2*nvp]
		for j := range dst {
			dst[j] = detour.MESH_NULL_IDX
		}
		for j, v := range p.Verts {
			if v < 0 || v >= len(m.Verts) {
				return nil, fmt.Errorf("poly %d references vertex %d of %d", i, v, len(m.Verts))
			}
			dst[j] = uint16(v)
			dst[nvp+j] = 0x8000 | 0xf
			if len(p.Neis) != 0 {
				dst[nvp+j] = p.Neis[j].encode()
			}
		}
		params.PolyAreas[i] = p.Area
		params.PolyFlags[i] = p.Flags
	}

	if d := m.Detail; d != nil {
		if len(d.Meshes) != len(m.Polys) {
			return nil, fmt.Errorf("detail has %d meshes for %d polys", len(d.Meshes), len(m.Polys))
		}
		for _, dm := range d.Meshes {
			params.DetailMeshes = append(params.DetailMeshes, dm[:]...)
		}
		for _, v := range d.Verts {
			params.DetailVerts = append(params.DetailVerts, v[:]...)
		}
		for _, t := range d.Tris {
			params.DetailTris = append(params.DetailTris, t[:]...)
		}
		params.DetailVertsCount = len(d.Verts)
		params.DetailTriCount = len(d.Tris)
	}

	params.OffMeshConCount = len(m.OffMesh)
	for _, c := range m.OffMesh {
		params.OffMeshConVerts = append(params.OffMeshConVerts, c.Start[:]...)
		params.OffMeshConVerts = append(params.OffMeshConVerts, c.End[:]...)
		params.OffMeshConRad = append(params.OffMeshConRad, c.Radius)
		params.OffMeshConAreas = append(params.OffMeshConAreas, c.Area)
		params.OffMeshConFlags = append(params.OffMeshConFlags, c.Flags)
		params.OffMeshConUserID = append(params.OffMeshConUserID, c.UserID)
		var dir uint8
		if c.Bidirectional {
			dir = detour.DT_OFFMESH_CON_BIDIR
		}
		params.OffMeshConDir = append(params.OffMeshConDir, dir)
	}
	return params, nil
}
