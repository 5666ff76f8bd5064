package detour

import (
	"fmt"

	"github.com/gorustyt/navtile/common/message"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the tile message.
//
//	message NavMeshTile {
//	  Header header = 1;
//	  repeated float verts = 2;
//	  repeated Poly polys = 3;
//	  repeated PolyDetail detail_meshes = 4;
//	  repeated float detail_verts = 5;
//	  bytes detail_tris = 6;
//	  repeated BVNode bv_nodes = 7;
//	  repeated OffMeshConnection off_mesh_cons = 8;
//	}
const (
	tileFieldHeader       protowire.Number = 1
	tileFieldVerts        protowire.Number = 2
	tileFieldPolys        protowire.Number = 3
	tileFieldDetailMeshes protowire.Number = 4
	tileFieldDetailVerts  protowire.Number = 5
	tileFieldDetailTris   protowire.Number = 6
	tileFieldBvNodes      protowire.Number = 7
	tileFieldOffMeshCons  protowire.Number = 8
)

// ToProto encodes the tile as a protobuf message.
func (d *NavMeshData) ToProto() []byte {
	e := message.NewEncoder()
	e.Message(tileFieldHeader, d.Header.toProto)
	e.Floats(tileFieldVerts, d.NavVerts)
	for _, p := range d.NavPolys {
		e.Message(tileFieldPolys, p.toProto)
	}
	for _, pd := range d.NavDMeshes {
		e.Message(tileFieldDetailMeshes, pd.toProto)
	}
	e.Floats(tileFieldDetailVerts, d.NavDVerts)
	e.RawBytes(tileFieldDetailTris, d.NavDTris)
	for _, n := range d.NavBvtree {
		e.Message(tileFieldBvNodes, n.toProto)
	}
	for _, c := range d.OffMeshCons {
		e.Message(tileFieldOffMeshCons, c.toProto)
	}
	return e.Bytes()
}

// FromProto decodes a tile written by ToProto. The header is decoded and
// its magic and version checked before any other field.
func (d *NavMeshData) FromProto(data []byte) error {
	var headerRaw []byte
	var rest []message.Field
	err := message.Walk(data, func(f message.Field) error {
		if f.Num == tileFieldHeader {
			headerRaw = f.Raw
			return nil
		}
		rest = append(rest, f)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if headerRaw == nil {
		return fmt.Errorf("%w: missing header", ErrCorruptData)
	}
	h := &DtMeshHeader{}
	if err := h.fromProto(headerRaw); err != nil {
		return fmt.Errorf("%w: header: %v", ErrCorruptData, err)
	}
	if h.Magic != DT_NAVMESH_MAGIC {
		return fmt.Errorf("%w: %#x", ErrWrongMagic, uint32(h.Magic))
	}
	if h.Version != DT_NAVMESH_VERSION {
		return fmt.Errorf("%w: %d, want %d", ErrWrongVersion, h.Version, DT_NAVMESH_VERSION)
	}
	if err := h.checkCounts(); err != nil {
		return err
	}

	out := NavMeshData{
		Header:      h,
		NavVerts:    []float32{},
		NavPolys:    []*DtPoly{},
		NavDMeshes:  []*DtPolyDetail{},
		NavDVerts:   []float32{},
		NavDTris:    []uint8{},
		OffMeshCons: []*DtOffMeshConnection{},
	}
	for _, f := range rest {
		if err := out.protoField(f); err != nil {
			return fmt.Errorf("%w: field %d: %v", ErrCorruptData, f.Num, err)
		}
	}

	switch {
	case len(out.NavVerts) != 3*int(h.VertCount),
		len(out.NavPolys) != int(h.PolyCount),
		len(out.NavDMeshes) != int(h.DetailMeshCount),
		len(out.NavDVerts) != 3*int(h.DetailVertCount),
		len(out.NavDTris) != 4*int(h.DetailTriCount),
		len(out.NavBvtree) != int(h.BvNodeCount),
		len(out.OffMeshCons) != int(h.OffMeshConCount):
		return fmt.Errorf("%w: section sizes do not match header counts", ErrCorruptData)
	}
	if err := out.checkRefs(); err != nil {
		return err
	}
	*d = out
	return nil
}

func (d *NavMeshData) protoField(f message.Field) error {
	switch f.Num {
	case tileFieldVerts:
		v, err := f.Floats()
		if err != nil {
			return err
		}
		d.NavVerts = append(d.NavVerts, v...)
	case tileFieldPolys:
		p := &DtPoly{}
		if err := p.fromProto(f.Raw); err != nil {
			return err
		}
		d.NavPolys = append(d.NavPolys, p)
	case tileFieldDetailMeshes:
		pd := &DtPolyDetail{}
		if err := pd.fromProto(f.Raw); err != nil {
			return err
		}
		d.NavDMeshes = append(d.NavDMeshes, pd)
	case tileFieldDetailVerts:
		v, err := f.Floats()
		if err != nil {
			return err
		}
		d.NavDVerts = append(d.NavDVerts, v...)
	case tileFieldDetailTris:
		d.NavDTris = append(d.NavDTris, f.Raw...)
	case tileFieldBvNodes:
		n := &DtBVNode{}
		if err := n.fromProto(f.Raw); err != nil {
			return err
		}
		d.NavBvtree = append(d.NavBvtree, n)
	case tileFieldOffMeshCons:
		c := &DtOffMeshConnection{}
		if err := c.fromProto(f.Raw); err != nil {
			return err
		}
		d.OffMeshCons = append(d.OffMeshCons, c)
	}
	return nil
}

func (h *DtMeshHeader) toProto(e *message.Encoder) {
	e.Uint(1, uint64(uint32(h.Magic)))
	e.Uint(2, uint64(uint32(h.Version)))
	e.Sint(3, int64(h.X))
	e.Sint(4, int64(h.Y))
	e.Sint(5, int64(h.Layer))
	e.Uint(6, uint64(h.UserId))
	e.Uint(7, uint64(h.PolyCount))
	e.Uint(8, uint64(h.VertCount))
	e.Uint(9, uint64(h.MaxLinkCount))
	e.Uint(10, uint64(h.DetailMeshCount))
	e.Uint(11, uint64(h.DetailVertCount))
	e.Uint(12, uint64(h.DetailTriCount))
	e.Uint(13, uint64(h.BvNodeCount))
	e.Uint(14, uint64(h.OffMeshConCount))
	e.Uint(15, uint64(h.OffMeshBase))
	e.Float(16, h.WalkableHeight)
	e.Float(17, h.WalkableRadius)
	e.Float(18, h.WalkableClimb)
	e.Floats(19, h.Bmin[:])
	e.Floats(20, h.Bmax[:])
	e.Float(21, h.BvQuantFactor)
}

func (h *DtMeshHeader) fromProto(b []byte) error {
	return message.Walk(b, func(f message.Field) error {
		switch f.Num {
		case 1:
			h.Magic = int32(uint32(f.Value))
		case 2:
			h.Version = int32(uint32(f.Value))
		case 3:
			h.X = int32(f.Sint())
		case 4:
			h.Y = int32(f.Sint())
		case 5:
			h.Layer = int32(f.Sint())
		case 6:
			h.UserId = uint32(f.Value)
		case 7:
			h.PolyCount = int32(f.Value)
		case 8:
			h.VertCount = int32(f.Value)
		case 9:
			h.MaxLinkCount = int32(f.Value)
		case 10:
			h.DetailMeshCount = int32(f.Value)
		case 11:
			h.DetailVertCount = int32(f.Value)
		case 12:
			h.DetailTriCount = int32(f.Value)
		case 13:
			h.BvNodeCount = int32(f.Value)
		case 14:
			h.OffMeshConCount = int32(f.Value)
		case 15:
			h.OffMeshBase = int32(f.Value)
		case 16:
			h.WalkableHeight = f.Float()
		case 17:
			h.WalkableRadius = f.Float()
		case 18:
			h.WalkableClimb = f.Float()
		case 19:
			return readVec3(f, &h.Bmin)
		case 20:
			return readVec3(f, &h.Bmax)
		case 21:
			h.BvQuantFactor = f.Float()
		}
		return nil
	})
}

func readVec3(f message.Field, dst *[3]float32) error {
	v, err := f.Floats()
	if err != nil {
		return err
	}
	if len(v) != 3 {
		return fmt.Errorf("field %d: %d components, want 3", f.Num, len(v))
	}
	copy(dst[:], v)
	return nil
}

func readUint16s(f message.Field, dst []uint16) error {
	v, err := f.Uints()
	if err != nil {
		return err
	}
	if len(v) > len(dst) {
		return fmt.Errorf("field %d: %d values, want at most %d", f.Num, len(v), len(dst))
	}
	for i, x := range v {
		dst[i] = uint16(x)
	}
	return nil
}

func toUint64s[T uint16 | uint8](v []T) []uint64 {
	out := make([]uint64, len(v))
	for i, x := range v {
		out[i] = uint64(x)
	}
	return out
}

func (p *DtPoly) toProto(e *message.Encoder) {
	e.Uint(1, uint64(p.FirstLink))
	e.Uints(2, toUint64s(p.Verts[:]))
	e.Uints(3, toUint64s(p.Neis[:]))
	e.Uint(4, uint64(p.Flags))
	e.Uint(5, uint64(p.VertCount))
	e.Uint(6, uint64(p.AreaAndtype))
}

func (p *DtPoly) fromProto(b []byte) error {
	return message.Walk(b, func(f message.Field) error {
		switch f.Num {
		case 1:
			p.FirstLink = uint32(f.Value)
		case 2:
			return readUint16s(f, p.Verts[:])
		case 3:
			return readUint16s(f, p.Neis[:])
		case 4:
			p.Flags = uint16(f.Value)
		case 5:
			p.VertCount = uint8(f.Value)
		case 6:
			p.AreaAndtype = uint8(f.Value)
		}
		return nil
	})
}

func (pd *DtPolyDetail) toProto(e *message.Encoder) {
	e.Uint(1, uint64(pd.VertBase))
	e.Uint(2, uint64(pd.TriBase))
	e.Uint(3, uint64(pd.VertCount))
	e.Uint(4, uint64(pd.TriCount))
}

func (pd *DtPolyDetail) fromProto(b []byte) error {
	return message.Walk(b, func(f message.Field) error {
		switch f.Num {
		case 1:
			pd.VertBase = uint32(f.Value)
		case 2:
			pd.TriBase = uint32(f.Value)
		case 3:
			pd.VertCount = uint8(f.Value)
		case 4:
			pd.TriCount = uint8(f.Value)
		}
		return nil
	})
}

func (n *DtBVNode) toProto(e *message.Encoder) {
	e.Uints(1, toUint64s(n.Bmin[:]))
	e.Uints(2, toUint64s(n.Bmax[:]))
	e.Uint(3, uint64(n.Kind))
	e.Uint(4, uint64(uint32(n.Index)))
}

func (n *DtBVNode) fromProto(b []byte) error {
	err := message.Walk(b, func(f message.Field) error {
		switch f.Num {
		case 1:
			return readUint16s(f, n.Bmin[:])
		case 2:
			return readUint16s(f, n.Bmax[:])
		case 3:
			n.Kind = DtBVNodeKind(f.Value)
		case 4:
			n.Index = int32(uint32(f.Value))
		}
		return nil
	})
	if err != nil {
		return err
	}
	if n.Kind > DT_BVNODE_INTERNAL || n.Index < 0 {
		return fmt.Errorf("bad bv node kind %d index %d", n.Kind, n.Index)
	}
	return nil
}

func (c *DtOffMeshConnection) toProto(e *message.Encoder) {
	e.Floats(1, c.Pos[:])
	e.Float(2, c.Rad)
	e.Uint(3, uint64(c.Poly))
	e.Uint(4, uint64(c.Flags))
	e.Uint(5, uint64(c.Side))
	e.Uint(6, uint64(c.UserId))
}

func (c *DtOffMeshConnection) fromProto(b []byte) error {
	return message.Walk(b, func(f message.Field) error {
		switch f.Num {
		case 1:
			v, err := f.Floats()
			if err != nil {
				return err
			}
			if len(v) != 6 {
				return fmt.Errorf("off-mesh connection has %d coordinates", len(v))
			}
			copy(c.Pos[:], v)
		case 2:
			c.Rad = f.Float()
		case 3:
			c.Poly = uint16(f.Value)
		case 4:
			c.Flags = uint8(f.Value)
		case 5:
			c.Side = uint8(f.Value)
		case 6:
			c.UserId = uint32(f.Value)
		}
		return nil
	})
}
