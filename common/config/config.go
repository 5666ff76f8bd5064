// Package config handles navtile configuration loading.
package config

// Config holds all navtile settings.
type Config struct {
	Logging LoggingConfig `yaml:"logging"`
	Build   BuildConfig   `yaml:"build"`
	Output  OutputConfig  `yaml:"output"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// BuildConfig holds the tile build parameters a mesh file does not carry
// itself. Values in the mesh file take precedence when set.
type BuildConfig struct {
	CellSize        float32 `yaml:"cell_size"`
	CellHeight      float32 `yaml:"cell_height"`
	WalkableHeight  float32 `yaml:"walkable_height"`
	WalkableRadius  float32 `yaml:"walkable_radius"`
	WalkableClimb   float32 `yaml:"walkable_climb"`
	MaxVertsPerPoly int     `yaml:"max_verts_per_poly"`
	BuildBvTree     bool    `yaml:"build_bv_tree"`
}

// OutputConfig selects the tile encoding written by the build command.
type OutputConfig struct {
	Format string `yaml:"format"` // "bin" or "proto"
}

// Default returns a Config with the usual Recast sample settings.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Build: BuildConfig{
			CellSize:        0.3,
			CellHeight:      0.2,
			WalkableHeight:  2.0,
			WalkableRadius:  0.6,
			WalkableClimb:   0.9,
			MaxVertsPerPoly: 6,
			BuildBvTree:     true,
		},
		Output: OutputConfig{
			Format: "bin",
		},
	}
}
