package detour

import (
	"fmt"

	"github.com/gorustyt/navtile/common/rw"
)

// NavMeshData is one built tile. It is not modified after the build and
// may be read from many goroutines.
type NavMeshData struct {
	Header      *DtMeshHeader
	NavVerts    []float32
	NavPolys    []*DtPoly
	NavDMeshes  []*DtPolyDetail
	NavDVerts   []float32
	NavDTris    []uint8
	NavBvtree   []*DtBVNode
	OffMeshCons []*DtOffMeshConnection
}

// binSize returns the encoded size for the counts in h. Every section is
// padded to 4 bytes.
func binSize(h *DtMeshHeader) int {
	return headerBinSize +
		rw.Align4(4*3*int(h.VertCount)) +
		rw.Align4(polyBinSize*int(h.PolyCount)) +
		rw.Align4(polyDetailBinSize*int(h.DetailMeshCount)) +
		rw.Align4(4*3*int(h.DetailVertCount)) +
		rw.Align4(4*int(h.DetailTriCount)) +
		rw.Align4(bvNodeBinSize*int(h.BvNodeCount)) +
		rw.Align4(offMeshConBinSize*int(h.OffMeshConCount))
}

// ToBin encodes the tile as little-endian sections in header order:
// vertices, polygons, detail meshes, detail vertices, detail triangles,
// BV-tree and off-mesh connections. Links are left to the owner of the tile.
func (d *NavMeshData) ToBin() []byte {
	w := rw.NewNavMeshDataBinWriter()
	d.Header.ToBin(w)
	w.Align4()
	w.WriteFloat32s(d.NavVerts)
	w.Align4()
	for _, v := range d.NavPolys {
		v.ToBin(w)
	}
	w.Align4()
	for _, v := range d.NavDMeshes {
		v.ToBin(w)
	}
	w.Align4()
	w.WriteFloat32s(d.NavDVerts)
	w.Align4()
	w.WriteUInt8s(d.NavDTris)
	w.Align4()
	for _, v := range d.NavBvtree {
		v.ToBin(w)
	}
	w.Align4()
	for _, v := range d.OffMeshCons {
		v.ToBin(w)
	}
	w.Align4()
	return w.GetWriteBytes()
}

// FromBin decodes a tile written by ToBin. Magic and version are checked
// before anything else is read.
func (d *NavMeshData) FromBin(data []byte) error {
	r := rw.NewNavMeshDataBinReader(data)
	magic := r.ReadInt32()
	version := r.ReadInt32()
	if r.Err() != nil {
		return fmt.Errorf("%w: %d byte header", ErrCorruptData, len(data))
	}
	if magic != DT_NAVMESH_MAGIC {
		return fmt.Errorf("%w: %#x", ErrWrongMagic, uint32(magic))
	}
	if version != DT_NAVMESH_VERSION {
		return fmt.Errorf("%w: %d, want %d", ErrWrongVersion, version, DT_NAVMESH_VERSION)
	}

	h := &DtMeshHeader{Magic: magic, Version: version}
	h.FromBin(r)
	if r.Err() != nil {
		return fmt.Errorf("%w: truncated header", ErrCorruptData)
	}
	if err := h.checkCounts(); err != nil {
		return err
	}
	if want := binSize(h); want != len(data) {
		return fmt.Errorf("%w: counts describe %d bytes, got %d", ErrCorruptData, want, len(data))
	}

	out := NavMeshData{Header: h}
	r.SkipAlign4()
	out.NavVerts = make([]float32, 3*h.VertCount)
	r.ReadFloat32s(out.NavVerts)
	r.SkipAlign4()
	out.NavPolys = make([]*DtPoly, h.PolyCount)
	for i := range out.NavPolys {
		out.NavPolys[i] = (&DtPoly{}).FromBin(r)
	}
	r.SkipAlign4()
	out.NavDMeshes = make([]*DtPolyDetail, h.DetailMeshCount)
	for i := range out.NavDMeshes {
		out.NavDMeshes[i] = (&DtPolyDetail{}).FromBin(r)
	}
	r.SkipAlign4()
	out.NavDVerts = make([]float32, 3*h.DetailVertCount)
	r.ReadFloat32s(out.NavDVerts)
	r.SkipAlign4()
	out.NavDTris = make([]uint8, 4*h.DetailTriCount)
	r.ReadUInt8s(out.NavDTris)
	r.SkipAlign4()
	if h.BvNodeCount > 0 {
		out.NavBvtree = make([]*DtBVNode, h.BvNodeCount)
		for i := range out.NavBvtree {
			out.NavBvtree[i] = (&DtBVNode{}).FromBin(r)
		}
	}
	r.SkipAlign4()
	out.OffMeshCons = make([]*DtOffMeshConnection, h.OffMeshConCount)
	for i := range out.OffMeshCons {
		out.OffMeshCons[i] = (&DtOffMeshConnection{}).FromBin(r)
	}
	r.SkipAlign4()
	if r.Err() != nil {
		return fmt.Errorf("%w: %v", ErrCorruptData, r.Err())
	}
	if err := out.checkRefs(); err != nil {
		return err
	}
	*d = out
	return nil
}

func (h *DtMeshHeader) checkCounts() error {
	counts := []int32{h.PolyCount, h.VertCount, h.MaxLinkCount, h.DetailMeshCount,
		h.DetailVertCount, h.DetailTriCount, h.BvNodeCount, h.OffMeshConCount, h.OffMeshBase}
	for _, c := range counts {
		if c < 0 {
			return fmt.Errorf("%w: negative count %d in header", ErrCorruptData, c)
		}
	}
	if h.VertCount >= 0xffff || h.OffMeshBase > h.PolyCount || h.DetailMeshCount > h.PolyCount {
		return fmt.Errorf("%w: inconsistent header counts", ErrCorruptData)
	}
	return nil
}

// checkRefs makes sure every index stored in the tile points inside it, so
// queries on a decoded tile cannot run off its arrays.
func (d *NavMeshData) checkRefs() error {
	nverts := len(d.NavVerts) / 3
	for i, p := range d.NavPolys {
		if int(p.VertCount) > DT_VERTS_PER_POLYGON {
			return fmt.Errorf("%w: polygon %d has %d vertices", ErrCorruptData, i, p.VertCount)
		}
		for _, v := range p.Verts[:p.VertCount] {
			if int(v) >= nverts {
				return fmt.Errorf("%w: polygon %d vertex %d out of range", ErrCorruptData, i, v)
			}
		}
	}
	ndverts := len(d.NavDVerts) / 3
	ntris := len(d.NavDTris) / 4
	for i, pd := range d.NavDMeshes {
		if int(pd.VertBase)+int(pd.VertCount) > ndverts || int(pd.TriBase)+int(pd.TriCount) > ntris {
			return fmt.Errorf("%w: detail mesh %d out of range", ErrCorruptData, i)
		}
		nv := int(d.NavPolys[i].VertCount) + int(pd.VertCount)
		for j := 0; j < int(pd.TriCount); j++ {
			t := d.NavDTris[(int(pd.TriBase)+j)*4:]
			for k := 0; k < 3; k++ {
				if int(t[k]) >= nv {
					return fmt.Errorf("%w: detail triangle %d of polygon %d out of range", ErrCorruptData, j, i)
				}
			}
		}
	}
	for i, n := range d.NavBvtree {
		if n.IsLeaf() && n.PolyIndex() >= len(d.NavPolys) {
			return fmt.Errorf("%w: bv node %d points at polygon %d", ErrCorruptData, i, n.PolyIndex())
		}
		if !n.IsLeaf() && (n.EscapeOffset() < 1 || i+n.EscapeOffset() > len(d.NavBvtree)) {
			return fmt.Errorf("%w: bv node %d escapes past the tree", ErrCorruptData, i)
		}
	}
	for i, c := range d.OffMeshCons {
		if int(c.Poly) >= len(d.NavPolys) {
			return fmt.Errorf("%w: off-mesh connection %d polygon out of range", ErrCorruptData, i)
		}
	}
	return nil
}
