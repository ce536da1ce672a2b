package ports

import "go.trai.ch/kiln/internal/core/domain"

// ConfigLoader loads the project layout.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the layout for the project rooted at dir. A missing layout file yields
	// the default layout.
	Load(dir string) (domain.Layout, error)
}
