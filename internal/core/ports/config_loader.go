package ports

import "go.trai.ch/tsmulti/internal/core/domain"

// ConfigLoader defines the interface for loading the tsmulti configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load finds and reads the configuration for cwd. configPath, when set,
	// names the file explicitly and must exist. A missing implicit config
	// yields an empty Config rooted at cwd.
	Load(cwd, configPath string) (*domain.Config, error)

	// DiscoverProjects expands project patterns relative to baseDir.
	DiscoverProjects(baseDir string, patterns []string) ([]string, error)
}
