package config

// File represents the structure of the tsmulti.yaml configuration file.
type File struct {
	Projects   []string    `yaml:"projects"`
	Targets    []TargetDTO `yaml:"targets"`
	Compiler   string      `yaml:"compiler"`
	MaxWorkers *int        `yaml:"maxWorkers"`
}

// TargetDTO represents a target definition in the configuration. Keys other
// than the tool-level fields are compiler options.
type TargetDTO struct {
	Extname          string                    `yaml:"extname"`
	OutDir           string                    `yaml:"outDir"`
	Type             string                    `yaml:"type"`
	TranspileOnly    bool                      `yaml:"transpileOnly"`
	PackageOverrides map[string]map[string]any `yaml:"packageOverrides"`
	CompilerOptions  map[string]any            `yaml:"compilerOptions"`
	Options          map[string]any            `yaml:",inline"`
}
