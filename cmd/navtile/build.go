package main

import (
	"fmt"
	"os"

	"github.com/gorustyt/navtile/common/config"
	"github.com/gorustyt/navtile/common/logger"
	"github.com/gorustyt/navtile/common/meshio"
	"github.com/gorustyt/navtile/detour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type loadFunc func() (*config.Config, error)

func BuildCmd(load loadFunc) *cobra.Command {
	var (
		meshFile string
		outFile  string
		format   string
	)
	c := &cobra.Command{
		Use:   "build",
		Short: "build a tile from a YAML polygon mesh",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			defer logger.Sync()
			if format == "" {
				format = cfg.Output.Format
			}
			return buildTile(cfg, meshFile, outFile, format)
		},
	}
	c.Flags().StringVar(&meshFile, "mesh", "", "polygon mesh YAML")
	c.Flags().StringVar(&outFile, "out", "tile.bin", "output tile")
	c.Flags().StringVar(&format, "format", "", "bin or proto, defaults to output.format")
	_ = c.MarkFlagRequired("mesh")
	return c
}

func buildTile(cfg *config.Config, meshFile, outFile, format string) error {
	mesh, err := meshio.Load(meshFile)
	if err != nil {
		return err
	}
	params, err := mesh.Params(cfg.Build)
	if err != nil {
		return fmt.Errorf("mesh %s: %w", meshFile, err)
	}
	data, err := detour.DtCreateNavMeshData(params)
	if err != nil {
		return fmt.Errorf("building %s: %w", meshFile, err)
	}

	if dropped := len(mesh.OffMesh) - int(data.Header.OffMeshConCount); dropped > 0 {
		logger.Warn("off-mesh connections not starting in the tile were dropped",
			zap.String("mesh", meshFile), zap.Int("dropped", dropped))
	}

	var out []byte
	switch format {
	case "bin":
		out = data.ToBin()
	case "proto":
		out = data.ToProto()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err := os.WriteFile(outFile, out, 0o644); err != nil {
		return err
	}
	logger.Info("tile built",
		zap.String("mesh", meshFile),
		zap.String("out", outFile),
		zap.String("format", format),
		zap.Int32("polys", data.Header.PolyCount),
		zap.Int32("bvNodes", data.Header.BvNodeCount),
		zap.Int32("offMeshCons", data.Header.OffMeshConCount),
		zap.Int("bytes", len(out)))
	return nil
}
