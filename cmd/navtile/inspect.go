package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gorustyt/navtile/common/rw"
	"github.com/gorustyt/navtile/detour"
	"github.com/spf13/cobra"
)

func InspectCmd(load loadFunc) *cobra.Command {
	var format string
	c := &cobra.Command{
		Use:   "inspect <tile>",
		Short: "validate a tile and print its header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := load(); err != nil {
				return err
			}
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if format == "" {
				format = detectFormat(raw)
			}
			data, err := decodeTile(raw, format)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			printTile(cmd.OutOrStdout(), format, data)
			return nil
		},
	}
	c.Flags().StringVar(&format, "format", "", "bin or proto, detected when empty")
	return c
}

// detectFormat treats anything that does not open with the binary magic as
// a protobuf message.
func detectFormat(raw []byte) string {
	r := rw.NewNavMeshDataBinReader(raw)
	if r.ReadUInt32() == detour.DT_NAVMESH_MAGIC && r.Err() == nil {
		return "bin"
	}
	return "proto"
}

func decodeTile(raw []byte, format string) (*detour.NavMeshData, error) {
	data := &detour.NavMeshData{}
	var err error
	switch format {
	case "bin":
		err = data.FromBin(raw)
	case "proto":
		err = data.FromProto(raw)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func printTile(w io.Writer, format string, data *detour.NavMeshData) {
	h := data.Header
	fmt.Fprintf(w, "format:       %s\n", format)
	fmt.Fprintf(w, "version:      %d\n", h.Version)
	fmt.Fprintf(w, "tile:         (%d, %d) layer %d user %d\n", h.X, h.Y, h.Layer, h.UserId)
	fmt.Fprintf(w, "bounds:       %v - %v\n", h.Bmin, h.Bmax)
	fmt.Fprintf(w, "agent:        height %g radius %g climb %g\n", h.WalkableHeight, h.WalkableRadius, h.WalkableClimb)
	fmt.Fprintf(w, "polys:        %d (%d off-mesh from %d)\n", h.PolyCount, h.OffMeshConCount, h.OffMeshBase)
	fmt.Fprintf(w, "verts:        %d\n", h.VertCount)
	fmt.Fprintf(w, "max links:    %d\n", h.MaxLinkCount)
	fmt.Fprintf(w, "detail:       %d meshes %d verts %d tris\n", h.DetailMeshCount, h.DetailVertCount, h.DetailTriCount)
	fmt.Fprintf(w, "bv nodes:     %d (quant %g)\n", h.BvNodeCount, h.BvQuantFactor)
}
