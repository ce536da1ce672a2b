package config

import (
	"github.com/cristalhq/aconfig"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// Settings holds the process-wide options read from the environment.
type Settings struct {
	Env    string `env:"NODE_ENV" usage:"build mode; only production selects the production pipeline"`
	Addr   string `env:"KILN_ADDR" default:"localhost:3000" usage:"listen address of the development server"`
	Config string `env:"KILN_CONFIG" default:"kiln.yaml" usage:"path of the optional layout file"`
}

// LoadSettings decodes Settings from the environment. Flags and files are not consulted;
// the command line belongs to cobra and the layout file to the Loader.
func LoadSettings() (*Settings, error) {
	var s Settings
	loader := aconfig.LoaderFor(&s, aconfig.Config{
		SkipFlags:        true,
		SkipFiles:        true,
		AllowUnknownEnvs: true,
	})
	if err := loader.Load(); err != nil {
		return nil, zerr.Wrap(err, domain.ErrSettingsLoadFailed.Error())
	}
	return &s, nil
}

// Mode returns the BuildMode selected by NODE_ENV.
func (s *Settings) Mode() domain.BuildMode {
	return domain.ParseMode(s.Env)
}
