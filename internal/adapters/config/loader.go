// Package config loads environment settings and the optional project layout file.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

const supportedVersion = "1"

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	Filename string
}

// NewLoader creates a loader reading filename. A relative filename is resolved against the
// directory passed to Load.
func NewLoader(filename string) *FileConfigLoader {
	if filename == "" {
		filename = domain.ConfigFileName
	}
	return &FileConfigLoader{Filename: filename}
}

// Load reads the layout for the project rooted at dir.
func (l *FileConfigLoader) Load(dir string) (domain.Layout, error) {
	path := l.Filename
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			layout := domain.DefaultLayout()
			return layout, layout.Validate()
		}
		return domain.Layout{}, zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	layout, err := Parse(data)
	if err != nil {
		return domain.Layout{}, zerr.With(err, "path", path)
	}
	return layout, nil
}

// Parse decodes a layout file and merges it over the default layout.
func Parse(data []byte) (domain.Layout, error) {
	var kilnfile Kilnfile

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&kilnfile); err != nil && !errors.Is(err, io.EOF) {
		return domain.Layout{}, zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
	}

	if kilnfile.Version != "" && kilnfile.Version != supportedVersion {
		return domain.Layout{}, zerr.With(domain.ErrUnsupportedConfigVersion, "version", kilnfile.Version)
	}

	layout := domain.DefaultLayout()
	if err := merge(&layout, &kilnfile); err != nil {
		return domain.Layout{}, err
	}

	if err := layout.Validate(); err != nil {
		return domain.Layout{}, err
	}
	return layout, nil
}

func merge(layout *domain.Layout, kf *Kilnfile) error {
	setString(&layout.SourceRoot, kf.Roots.Source)
	setString(&layout.DevRoot, kf.Roots.Dev)
	setString(&layout.ProdRoot, kf.Roots.Prod)

	for name, dto := range kf.Groups {
		g, err := domain.ParseGroup(name)
		if err != nil {
			return err
		}
		mergeGroup(groupLayout(layout, g), dto)
	}

	if kf.Sprites != nil {
		if kf.Sprites.Sources != nil {
			layout.Sprites.Sources = kf.Sprites.Sources
		}
		setString(&layout.Sprites.Output, kf.Sprites.Output)
	}

	return nil
}

func mergeGroup(gl *domain.GroupLayout, dto GroupDTO) {
	if dto.Vendor != nil {
		gl.Vendor = dto.Vendor
	}
	if dto.Sources != nil {
		gl.Sources = dto.Sources
	}
	if dto.Watch != nil {
		gl.Watch = dto.Watch
	}
	if dto.Base != nil {
		gl.Base = *dto.Base
	}
	if dto.Subdir != nil {
		gl.Subdir = *dto.Subdir
	}
	if dto.Concat != nil {
		gl.Concat = *dto.Concat
	}
}

func groupLayout(layout *domain.Layout, g domain.AssetGroup) *domain.GroupLayout {
	switch g {
	case domain.GroupMarkup:
		return &layout.Markup
	case domain.GroupStyles:
		return &layout.Styles
	case domain.GroupScripts:
		return &layout.Scripts
	case domain.GroupImages:
		return &layout.Images
	default:
		return &layout.Misc
	}
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
